package sink

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var mysqlSchema = []string{`
	CREATE TABLE IF NOT EXISTS runs (
		id VARCHAR(36) PRIMARY KEY,
		seed BIGINT NOT NULL,
		started_at VARCHAR(32) NOT NULL,
		finished_at VARCHAR(32),
		customer_count INT DEFAULT 0,
		invoice_count INT DEFAULT 0,
		line_count INT DEFAULT 0
	)`, `
	CREATE TABLE IF NOT EXISTS sales_lines (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		invoice_id VARCHAR(64) NOT NULL,
		customer_id BIGINT NOT NULL,
		invoice_date DATE NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INT NOT NULL,
		revenue DECIMAL(12,2) NOT NULL,
		store_id BIGINT NOT NULL,
		run_id VARCHAR(36),
		INDEX idx_sales_lines_customer_date (customer_id, invoice_date),
		INDEX idx_sales_lines_invoice (invoice_id)
	)`,
}

// OpenMySQL opens (and migrates) a MySQL/MariaDB ledger. dsn is either a
// native driver DSN or a mysql:// / mariadb:// URL.
func OpenMySQL(dsn string) (*SQLStore, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	store, err := newSQLStore(db, mysqlSchema, "DATE_FORMAT(invoice_date, '%Y-%m-%d')")
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pass, _ = u.User.Password()
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db required)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}
