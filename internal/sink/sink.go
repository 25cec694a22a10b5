// Package sink persists generated line items. Every sink receives whole
// customer ledgers in customer order from the batch runner.
package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"salesim/internal/simulation"
)

// Sink receives line items. Implementations are not safe for concurrent use.
type Sink interface {
	Write(ctx context.Context, items []simulation.LineItem) error
	Close() error
}

// RunInfo describes one batch run.
type RunInfo struct {
	ID         string
	Seed       int64
	StartedAt  time.Time
	FinishedAt time.Time
	Customers  int
	Invoices   int
	Lines      int
}

// RunRecorder is implemented by sinks that keep run metadata alongside lines.
type RunRecorder interface {
	BeginRun(ctx context.Context, run RunInfo) error
	FinishRun(ctx context.Context, run RunInfo) error
}

// Header is the column order of the flat ledger formats.
var Header = []string{"invoice_id", "customer_id", "invoice_date", "product_id", "quantity", "revenue", "store_id"}

func record(it simulation.LineItem) []string {
	return []string{
		it.InvoiceID,
		strconv.FormatInt(it.CustomerID, 10),
		it.InvoiceDate,
		strconv.FormatInt(it.ProductID, 10),
		strconv.Itoa(it.Quantity),
		it.Revenue.StringFixed(2),
		strconv.FormatInt(it.StoreID, 10),
	}
}

// Formats accepted by Open.
const (
	FormatCSV    = "csv"
	FormatJSONL  = "jsonl"
	FormatSQLite = "sqlite"
	FormatMySQL  = "mysql"
)

// Options selects and locates a sink.
type Options struct {
	Format     string
	OutputDir  string
	BaseName   string // file name without extension for file formats
	SQLitePath string
	MySQLDSN   string
}

// Open creates the sink described by opts.
func Open(opts Options) (Sink, error) {
	base := opts.BaseName
	if base == "" {
		base = "sales"
	}
	switch opts.Format {
	case FormatCSV, "":
		return CreateCSV(filepath.Join(opts.OutputDir, base+".csv"))
	case FormatJSONL:
		return CreateJSONL(filepath.Join(opts.OutputDir, base+".jsonl"))
	case FormatSQLite:
		return OpenSQLite(opts.SQLitePath)
	case FormatMySQL:
		if opts.MySQLDSN == "" {
			return nil, fmt.Errorf("mysql sink requires MYSQL_DSN")
		}
		return OpenMySQL(opts.MySQLDSN)
	default:
		return nil, fmt.Errorf("unknown output format %q (want csv, jsonl, sqlite or mysql)", opts.Format)
	}
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// closeAll closes the owned file, if any, after flushing.
func closeAll(flushErr error, c io.Closer) error {
	if c == nil {
		return flushErr
	}
	if err := c.Close(); err != nil && flushErr == nil {
		return err
	}
	return flushErr
}
