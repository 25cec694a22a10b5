package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"salesim/internal/batch"
	"salesim/internal/sink"
	"salesim/internal/stats"
	"salesim/internal/visuals"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var generateFlags struct {
	format     string
	baseName   string
	count      int
	seed       int64
	workers    int
	noProgress bool
	report     bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Simulate every customer and write the sales ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := generateFlags
		seed := cfg.Seed
		if cmd.Flags().Changed("seed") {
			seed = f.seed
		}
		workers := cfg.Workers
		if f.workers > 0 {
			workers = f.workers
		}

		cat, err := buildCatalog()
		if err != nil {
			return err
		}
		population, err := buildCustomers(f.count, seed)
		if err != nil {
			return err
		}

		out, err := sink.Open(sink.Options{
			Format:     f.format,
			OutputDir:  cfg.OutputDir,
			BaseName:   f.baseName,
			SQLitePath: cfg.Database.SQLitePath,
			MySQLDSN:   cfg.Database.MySQLDSN,
		})
		if err != nil {
			return err
		}

		collector := stats.NewCollector(out, cat)
		summary, err := batch.Run(cmd.Context(), population, batch.Options{
			Seed:     seed,
			Workers:  workers,
			Progress: cfg.Progress && !f.noProgress,
			Sales:    cfg.Sales,
			Pools:    cat.Pools(),
		}, collector)
		if cerr := collector.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}

		report := collector.Report()
		log.Info().
			Str("format", f.format).
			Str("dir", cfg.OutputDir).
			Int("buyers", report.Buyers).
			Float64("linesPerInvoice", report.LinesPerInvoice).
			Float64("medianInvoices", report.InvoicesPerCustomer.Median).
			Msg("Ledger written")
		if f.report {
			if err := writeReport(summary.RunID, report); err != nil {
				return err
			}
		}
		fmt.Fprintf(os.Stderr, "run %s: %d customers (%d skipped, %d churned), %d invoices, %d lines in %s\n",
			summary.RunID, summary.Customers, summary.Skipped, summary.Churned, summary.Invoices, summary.Lines, summary.Duration.Round(time.Millisecond))
		return nil
	},
}

// writeReport stores the run report as JSON and as markdown with charts.
func writeReport(runID string, report stats.LedgerReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	jsonPath := filepath.Join(cfg.OutputDir, "report.json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return err
	}
	mdPath := filepath.Join(cfg.OutputDir, "report.md")
	if err := os.WriteFile(mdPath, []byte(visuals.GenerateReport(runID, report)), 0644); err != nil {
		return err
	}
	log.Info().Str("json", jsonPath).Str("markdown", mdPath).Msg("Report written")
	return nil
}

func init() {
	fl := generateCmd.Flags()
	fl.StringVarP(&generateFlags.format, "format", "f", sink.FormatCSV, "output format: csv, jsonl, sqlite or mysql")
	fl.StringVar(&generateFlags.baseName, "name", "sales", "output file name without extension (csv, jsonl)")
	fl.IntVarP(&generateFlags.count, "customers", "n", -1, "number of customers (default CUSTOMERS_COUNT)")
	fl.Int64Var(&generateFlags.seed, "seed", 0, "random seed (default SALESIM_SEED)")
	fl.IntVarP(&generateFlags.workers, "workers", "w", 0, "parallel workers (default SALESIM_WORKERS)")
	fl.BoolVar(&generateFlags.noProgress, "no-progress", false, "hide the progress bar")
	fl.BoolVar(&generateFlags.report, "report", false, "write report.json and report.md next to the ledger")
	rootCmd.AddCommand(generateCmd)
}
