package batch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"salesim/internal/config"
	"salesim/internal/customers"
	"salesim/internal/simulation"
	"salesim/internal/sink"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// Options configures a batch run.
type Options struct {
	Seed     int64
	Workers  int
	Progress bool
	Sales    config.SalesConfig
	Pools    simulation.Pools
}

// Summary totals a batch run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Customers int           `json:"customers"`
	Skipped   int           `json:"skipped"`
	Churned   int           `json:"churned"`
	Invoices  int           `json:"invoices"`
	Lines     int           `json:"lines"`
	Duration  time.Duration `json:"duration"`
}

type result struct {
	items   []simulation.LineItem
	stats   simulation.Stats
	skipped bool
}

// CustomerSeed derives a customer's random stream from the run seed, so a
// customer's ledger does not depend on worker scheduling.
func CustomerSeed(seed, customerID int64) int64 {
	z := uint64(seed) + uint64(customerID)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

// Simulate runs one customer with its derived random stream.
func Simulate(sales config.SalesConfig, pools simulation.Pools, seed int64, c customers.Customer) ([]simulation.LineItem, simulation.Stats, error) {
	rng := rand.New(rand.NewSource(CustomerSeed(seed, c.ID)))
	sim, err := simulation.New(sales.Params(c.ID, c.CreatedAt, pools), rng)
	if err != nil {
		return nil, simulation.Stats{}, err
	}
	items := sim.Run()
	return items, sim.Stats(), nil
}

// Run simulates every customer and writes their ledgers to out in customer
// order. Customers are processed in windows of parallel work so memory stays
// bounded by the window, not by the population.
func Run(ctx context.Context, population []customers.Customer, opts Options, out sink.Sink) (Summary, error) {
	started := time.Now()
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	summary := Summary{RunID: uuid.NewString()}
	run := sink.RunInfo{ID: summary.RunID, Seed: opts.Seed, StartedAt: started}
	recorder, records := out.(sink.RunRecorder)
	if records {
		if err := recorder.BeginRun(ctx, run); err != nil {
			return summary, err
		}
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.Default(int64(len(population)), "simulating customers")
	}

	log.Info().
		Str("run", summary.RunID).
		Int("customers", len(population)).
		Int("workers", workers).
		Int64("seed", opts.Seed).
		Msg("Batch run starting")

	window := workers * 8
	for lo := 0; lo < len(population); lo += window {
		hi := min(lo+window, len(population))
		results, err := runWindow(ctx, population[lo:hi], opts, workers)
		if err != nil {
			return summary, err
		}

		for i, r := range results {
			if r.skipped {
				summary.Skipped++
				continue
			}
			if err := out.Write(ctx, r.items); err != nil {
				return summary, fmt.Errorf("write customer %d: %w", population[lo+i].ID, err)
			}
			summary.Customers++
			summary.Invoices += r.stats.Invoices
			summary.Lines += r.stats.Lines
			if r.stats.ChurnDate != nil {
				summary.Churned++
			}
		}
		if bar != nil {
			_ = bar.Add(hi - lo)
		}
	}

	summary.Duration = time.Since(started)
	if records {
		run.FinishedAt = time.Now()
		run.Customers, run.Invoices, run.Lines = summary.Customers, summary.Invoices, summary.Lines
		if err := recorder.FinishRun(ctx, run); err != nil {
			return summary, err
		}
	}

	log.Info().
		Str("run", summary.RunID).
		Int("customers", summary.Customers).
		Int("skipped", summary.Skipped).
		Int("churned", summary.Churned).
		Int("invoices", summary.Invoices).
		Int("lines", summary.Lines).
		Dur("duration", summary.Duration).
		Msg("Batch run finished")
	return summary, nil
}

func runWindow(ctx context.Context, window []customers.Customer, opts Options, workers int) ([]result, error) {
	results := make([]result, len(window))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range window {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if c.CreatedAt.After(opts.Sales.EndDate) {
				log.Debug().Int64("customer", c.ID).Time("created_at", c.CreatedAt).Msg("Enrollment after sales horizon, skipping")
				results[i].skipped = true
				return nil
			}
			items, stats, err := Simulate(opts.Sales, opts.Pools, opts.Seed, c)
			if err != nil {
				return fmt.Errorf("customer %d: %w", c.ID, err)
			}
			results[i] = result{items: items, stats: stats}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// IsConfigurationError reports whether err stems from invalid simulation settings.
func IsConfigurationError(err error) bool {
	return errors.Is(err, simulation.ErrInvalidConfiguration)
}
