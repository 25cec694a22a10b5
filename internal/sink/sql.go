package sink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"salesim/internal/simulation"

	"github.com/shopspring/decimal"
)

// SQLStore is an append-only ledger table shared by the SQLite and MySQL sinks.
// Both drivers use '?' placeholders so only the schema differs.
type SQLStore struct {
	db       *sql.DB
	dateExpr string // renders invoice_date as YYYY-MM-DD
	runID    string
}

const insertLine = `
	INSERT INTO sales_lines
	(invoice_id, customer_id, invoice_date, product_id, quantity, revenue, store_id, run_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func newSQLStore(db *sql.DB, schema []string, dateExpr string) (*SQLStore, error) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return &SQLStore{db: db, dateExpr: dateExpr}, nil
}

// DB exposes the underlying pool.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Write appends items in a single transaction.
func (s *SQLStore) Write(ctx context.Context, items []simulation.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertLine)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx,
			it.InvoiceID,
			it.CustomerID,
			it.InvoiceDate,
			it.ProductID,
			it.Quantity,
			it.Revenue.StringFixed(2),
			it.StoreID,
			s.runID,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", it.InvoiceID, err)
		}
	}
	return tx.Commit()
}

// BeginRun registers a batch run; subsequent lines are tagged with its ID.
func (s *SQLStore) BeginRun(ctx context.Context, run RunInfo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Seed, run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	s.runID = run.ID
	return nil
}

// FinishRun stores the run totals.
func (s *SQLStore) FinishRun(ctx context.Context, run RunInfo) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, customer_count = ?, invoice_count = ?, line_count = ? WHERE id = ?`,
		run.FinishedAt.UTC().Format(time.RFC3339), run.Customers, run.Invoices, run.Lines, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// CustomerLines reads back the ledger of one customer in insertion order.
func (s *SQLStore) CustomerLines(ctx context.Context, customerID int64) ([]simulation.LineItem, error) {
	query := fmt.Sprintf(`
		SELECT invoice_id, customer_id, %s, product_id, quantity, revenue, store_id
		FROM sales_lines WHERE customer_id = ? ORDER BY id`, s.dateExpr)
	rows, err := s.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []simulation.LineItem
	for rows.Next() {
		var (
			it      simulation.LineItem
			revenue string
		)
		if err := rows.Scan(&it.InvoiceID, &it.CustomerID, &it.InvoiceDate, &it.ProductID, &it.Quantity, &revenue, &it.StoreID); err != nil {
			return nil, err
		}
		if it.Revenue, err = decimal.NewFromString(revenue); err != nil {
			return nil, fmt.Errorf("revenue of %s: %w", it.InvoiceID, err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// CountLines returns the number of stored lines, optionally for one run.
func (s *SQLStore) CountLines(ctx context.Context, runID string) (int, error) {
	var n int
	var err error
	if runID == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales_lines`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales_lines WHERE run_id = ?`, runID).Scan(&n)
	}
	return n, err
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
