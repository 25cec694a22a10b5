// Package stats summarizes generated ledgers.
package stats

import (
	"cmp"
	"context"
	"slices"

	"salesim/internal/catalog"
	"salesim/internal/simulation"
	"salesim/internal/sink"
)

// topProducts bounds LedgerReport.TopProducts.
const topProducts = 10

// Distribution describes how a per-customer count spreads over customers.
type Distribution struct {
	Median float64 `json:"median"`
	P85    int     `json:"p85"`
	P95    int     `json:"p95"`
	Max    int     `json:"max"`
}

// MonthCount is the number of invoices dated in one calendar month.
type MonthCount struct {
	Month    string `json:"month"` // YYYY-MM
	Invoices int    `json:"invoices"`
}

// ProductCount is the number of lines selling one product.
type ProductCount struct {
	ProductID int64            `json:"product_id"`
	Name      string           `json:"product_name,omitempty"`
	Category  catalog.Category `json:"category,omitempty"`
	Lines     int              `json:"lines"`
}

// StoreCount is the number of invoices issued by one store.
type StoreCount struct {
	StoreID  int64 `json:"store_id"`
	Invoices int   `json:"invoices"`
}

// LedgerReport aggregates a whole run.
type LedgerReport struct {
	Customers           int                      `json:"customers"`
	Buyers              int                      `json:"buyers"` // customers with at least one invoice
	Invoices            int                      `json:"invoices"`
	Lines               int                      `json:"lines"`
	LinesPerInvoice     float64                  `json:"lines_per_invoice"`
	InvoicesPerCustomer Distribution             `json:"invoices_per_customer"`
	LinesByCategory     map[catalog.Category]int `json:"lines_by_category"`
	Monthly             []MonthCount             `json:"monthly"`
	Stores              []StoreCount             `json:"stores"`
	TopProducts         []ProductCount           `json:"top_products"`
}

// Collector is a sink that tallies every ledger before passing it on.
// Each Write must carry exactly one customer's ledger, which is how the batch
// runner delivers them.
type Collector struct {
	next    sink.Sink
	catalog *catalog.Catalog

	perCustomer []int
	lines       int
	monthly     map[string]int
	stores      map[int64]int
	products    map[int64]int
	categories  map[catalog.Category]int
}

// NewCollector wraps next. cat resolves product categories and names and
// may be nil.
func NewCollector(next sink.Sink, cat *catalog.Catalog) *Collector {
	return &Collector{
		next:       next,
		catalog:    cat,
		monthly:    make(map[string]int),
		stores:     make(map[int64]int),
		products:   make(map[int64]int),
		categories: make(map[catalog.Category]int),
	}
}

// Write tallies items and forwards them.
func (c *Collector) Write(ctx context.Context, items []simulation.LineItem) error {
	invoices := 0
	prev := ""
	for _, it := range items {
		if it.InvoiceID != prev {
			invoices++
			prev = it.InvoiceID
			c.monthly[it.InvoiceDate[:7]]++
			c.stores[it.StoreID]++
		}
		c.products[it.ProductID]++
		if c.catalog != nil {
			if p, ok := c.catalog.Product(it.ProductID); ok {
				c.categories[p.Category]++
			}
		}
	}
	c.perCustomer = append(c.perCustomer, invoices)
	c.lines += len(items)

	if c.next == nil {
		return nil
	}
	return c.next.Write(ctx, items)
}

// Close closes the wrapped sink.
func (c *Collector) Close() error {
	if c.next == nil {
		return nil
	}
	return c.next.Close()
}

// BeginRun forwards run bookkeeping to sinks that keep it.
func (c *Collector) BeginRun(ctx context.Context, run sink.RunInfo) error {
	if r, ok := c.next.(sink.RunRecorder); ok {
		return r.BeginRun(ctx, run)
	}
	return nil
}

// FinishRun forwards run bookkeeping to sinks that keep it.
func (c *Collector) FinishRun(ctx context.Context, run sink.RunInfo) error {
	if r, ok := c.next.(sink.RunRecorder); ok {
		return r.FinishRun(ctx, run)
	}
	return nil
}

// Report computes the aggregates of everything written so far.
func (c *Collector) Report() LedgerReport {
	r := LedgerReport{
		Customers:       len(c.perCustomer),
		Lines:           c.lines,
		LinesByCategory: make(map[catalog.Category]int, len(c.categories)),
	}
	for _, n := range c.perCustomer {
		r.Invoices += n
		if n > 0 {
			r.Buyers++
		}
	}
	if r.Invoices > 0 {
		r.LinesPerInvoice = float64(r.Lines) / float64(r.Invoices)
	}
	r.InvoicesPerCustomer = Distribution{
		Median: Median(c.perCustomer),
		P85:    Percentile(c.perCustomer, 0.85),
		P95:    Percentile(c.perCustomer, 0.95),
		Max:    Percentile(c.perCustomer, 1),
	}
	for k, v := range c.categories {
		r.LinesByCategory[k] = v
	}

	r.Monthly = make([]MonthCount, 0, len(c.monthly))
	for m, n := range c.monthly {
		r.Monthly = append(r.Monthly, MonthCount{Month: m, Invoices: n})
	}
	slices.SortFunc(r.Monthly, func(a, b MonthCount) int { return cmp.Compare(a.Month, b.Month) })

	r.Stores = make([]StoreCount, 0, len(c.stores))
	for id, n := range c.stores {
		r.Stores = append(r.Stores, StoreCount{StoreID: id, Invoices: n})
	}
	slices.SortFunc(r.Stores, func(a, b StoreCount) int { return cmp.Compare(a.StoreID, b.StoreID) })

	products := make([]ProductCount, 0, len(c.products))
	for id, n := range c.products {
		pc := ProductCount{ProductID: id, Lines: n}
		if c.catalog != nil {
			if p, ok := c.catalog.Product(id); ok {
				pc.Name, pc.Category = p.Name, p.Category
			}
		}
		products = append(products, pc)
	}
	slices.SortFunc(products, func(a, b ProductCount) int {
		if a.Lines != b.Lines {
			return cmp.Compare(b.Lines, a.Lines)
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	r.TopProducts = products[:min(len(products), topProducts)]
	return r
}
