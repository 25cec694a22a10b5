package sink

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

var sqliteSchema = []string{`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		customer_count INTEGER DEFAULT 0,
		invoice_count INTEGER DEFAULT 0,
		line_count INTEGER DEFAULT 0
	)`, `
	CREATE TABLE IF NOT EXISTS sales_lines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		invoice_id TEXT NOT NULL,
		customer_id INTEGER NOT NULL,
		invoice_date TEXT NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		revenue TEXT NOT NULL,
		store_id INTEGER NOT NULL,
		run_id TEXT
	)`, `
	CREATE INDEX IF NOT EXISTS idx_sales_lines_customer_date
		ON sales_lines(customer_id, invoice_date)`, `
	CREATE INDEX IF NOT EXISTS idx_sales_lines_invoice
		ON sales_lines(invoice_id)`,
}

// OpenSQLite opens (and migrates) a SQLite ledger. Use ":memory:" for an
// in-memory database.
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	store, err := newSQLStore(db, sqliteSchema, "invoice_date")
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
