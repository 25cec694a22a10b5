package batch

import (
	"context"
	"testing"
	"time"

	"salesim/internal/config"
	"salesim/internal/customers"
	"salesim/internal/simulation"
	"salesim/internal/sink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	batches  [][]simulation.LineItem
	begun    *sink.RunInfo
	finished *sink.RunInfo
	closed   bool
}

func (m *memorySink) Write(_ context.Context, items []simulation.LineItem) error {
	m.batches = append(m.batches, items)
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

func (m *memorySink) BeginRun(_ context.Context, run sink.RunInfo) error {
	m.begun = &run
	return nil
}

func (m *memorySink) FinishRun(_ context.Context, run sink.RunInfo) error {
	m.finished = &run
	return nil
}

func (m *memorySink) items() []simulation.LineItem {
	var out []simulation.LineItem
	for _, b := range m.batches {
		out = append(out, b...)
	}
	return out
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testOptions(workers int) Options {
	return Options{
		Seed:    7,
		Workers: workers,
		Sales: config.SalesConfig{
			EndDate:  date(2024, 12, 31),
			StoreIDs: []int64{1, 2, 3},
			Schedules: simulation.Schedules{
				PBuyByYear:            simulation.Schedule{0.05, 0.03},
				PCloseDay:             0.001,
				PInvoiceByNth:         simulation.Schedule{1.0, 0.2},
				PDeviceByNth:          simulation.Schedule{0.6, 0.05},
				RefillCountProbs:      []float64{0.6, 0.3, 0.1},
				PRefillInvoice:        0.9,
				PAccessoryInvoice:     0.1,
				PSparePartInvoice:     0.05,
				StopInvoicesOnLostDay: true,
			},
		},
		Pools: simulation.Pools{
			Devices:     []int64{1, 2},
			Refills:     []int64{10, 11, 12},
			Accessories: []int64{20},
			SpareParts:  []int64{30},
		},
	}
}

func testPopulation(n int) []customers.Customer {
	out := make([]customers.Customer, n)
	for i := range out {
		out[i] = customers.Customer{ID: int64(i + 1), CreatedAt: date(2023, time.Month(i%12+1), 1)}
	}
	return out
}

func TestRun_WritesCustomersInOrder(t *testing.T) {
	out := &memorySink{}
	pop := testPopulation(50)

	summary, err := Run(context.Background(), pop, testOptions(4), out)
	require.NoError(t, err)

	assert.Equal(t, 50, summary.Customers)
	assert.Zero(t, summary.Skipped)
	assert.NotEmpty(t, summary.RunID)
	require.Len(t, out.batches, 50)

	lines := 0
	for i, b := range out.batches {
		lines += len(b)
		for _, it := range b {
			assert.Equal(t, pop[i].ID, it.CustomerID)
		}
	}
	assert.Equal(t, lines, summary.Lines)
	assert.Positive(t, summary.Invoices)
}

func TestRun_IndependentOfWorkerCount(t *testing.T) {
	pop := testPopulation(40)

	single := &memorySink{}
	_, err := Run(context.Background(), pop, testOptions(1), single)
	require.NoError(t, err)

	parallel := &memorySink{}
	_, err = Run(context.Background(), pop, testOptions(8), parallel)
	require.NoError(t, err)

	assert.Equal(t, single.items(), parallel.items())
}

func TestRun_SkipsCustomersEnrolledAfterHorizon(t *testing.T) {
	pop := testPopulation(3)
	pop = append(pop, customers.Customer{ID: 4, CreatedAt: date(2025, 6, 1)})

	out := &memorySink{}
	summary, err := Run(context.Background(), pop, testOptions(2), out)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Customers)
	assert.Equal(t, 1, summary.Skipped)
	assert.Len(t, out.batches, 3)
}

func TestRun_RecordsRun(t *testing.T) {
	out := &memorySink{}
	summary, err := Run(context.Background(), testPopulation(5), testOptions(2), out)
	require.NoError(t, err)

	require.NotNil(t, out.begun)
	require.NotNil(t, out.finished)
	assert.Equal(t, summary.RunID, out.begun.ID)
	assert.Equal(t, int64(7), out.begun.Seed)
	assert.Equal(t, summary.Lines, out.finished.Lines)
	assert.Equal(t, summary.Invoices, out.finished.Invoices)
	assert.Equal(t, 5, out.finished.Customers)
	assert.False(t, out.closed, "the caller owns the sink")
}

func TestRun_InvalidConfiguration(t *testing.T) {
	opts := testOptions(2)
	opts.Sales.StoreIDs = nil

	_, err := Run(context.Background(), testPopulation(3), opts, &memorySink{})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := &memorySink{}
	_, err := Run(ctx, testPopulation(10), testOptions(2), out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.batches)
}

func TestRun_SQLiteSink(t *testing.T) {
	store, err := sink.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	summary, err := Run(context.Background(), testPopulation(6), testOptions(3), store)
	require.NoError(t, err)

	n, err := store.CountLines(context.Background(), summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, summary.Lines, n)
}

func TestSimulate_MatchesBatch(t *testing.T) {
	opts := testOptions(3)
	pop := testPopulation(4)

	out := &memorySink{}
	_, err := Run(context.Background(), pop, opts, out)
	require.NoError(t, err)

	items, _, err := Simulate(opts.Sales, opts.Pools, opts.Seed, pop[2])
	require.NoError(t, err)
	assert.Equal(t, out.batches[2], items)
}

func TestCustomerSeed_Distinct(t *testing.T) {
	seen := map[int64]bool{}
	for id := int64(1); id <= 1000; id++ {
		s := CustomerSeed(42, id)
		assert.False(t, seen[s], "seed collision for customer %d", id)
		seen[s] = true
	}
	assert.NotEqual(t, CustomerSeed(1, 5), CustomerSeed(2, 5))
}
