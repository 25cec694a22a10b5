package visuals

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"salesim/internal/catalog"
	"salesim/internal/stats"
)

// maxMonthlyBars is the number of months above which the invoice chart
// switches to yearly bars.
const maxMonthlyBars = 36

// GenerateInvoiceChart creates a Mermaid bar chart of invoices per month, or
// per year when the horizon is long.
func GenerateInvoiceChart(monthly []stats.MonthCount) string {
	if len(monthly) == 0 {
		return ""
	}

	type bucket struct {
		label string
		count int
	}
	var buckets []bucket
	if len(monthly) <= maxMonthlyBars {
		for _, m := range monthly {
			buckets = append(buckets, bucket{m.Month, m.Invoices})
		}
	} else {
		for _, m := range monthly {
			year := m.Month[:4]
			if n := len(buckets); n > 0 && buckets[n-1].label == year {
				buckets[n-1].count += m.Invoices
				continue
			}
			buckets = append(buckets, bucket{year, m.Invoices})
		}
	}

	var labels []string
	var values []string
	maxVal := 0
	for _, b := range buckets {
		labels = append(labels, fmt.Sprintf("\"%s\"", b.label))
		values = append(values, fmt.Sprintf("%d", b.count))
		maxVal = max(maxVal, b.count)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Invoices over time\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Invoices\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCategoryPie creates a Mermaid pie chart of lines per product category.
func GenerateCategoryPie(lines map[catalog.Category]int) string {
	if len(lines) == 0 {
		return ""
	}
	keys := make([]catalog.Category, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Lines by category\n")
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", k, lines[k]))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateReport renders a ledger report as markdown.
func GenerateReport(runID string, r stats.LedgerReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Sales ledger %s\n\n", runID))
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Customers | %d |\n", r.Customers))
	sb.WriteString(fmt.Sprintf("| Buyers | %d |\n", r.Buyers))
	sb.WriteString(fmt.Sprintf("| Invoices | %d |\n", r.Invoices))
	sb.WriteString(fmt.Sprintf("| Lines | %d |\n", r.Lines))
	sb.WriteString(fmt.Sprintf("| Lines per invoice | %.2f |\n", r.LinesPerInvoice))
	d := r.InvoicesPerCustomer
	sb.WriteString(fmt.Sprintf("| Invoices per customer (median / p85 / p95 / max) | %.1f / %d / %d / %d |\n", d.Median, d.P85, d.P95, d.Max))

	if chart := GenerateInvoiceChart(r.Monthly); chart != "" {
		sb.WriteString("\n## Invoices\n\n")
		sb.WriteString(chart)
		sb.WriteString("\n")
	}
	if pie := GenerateCategoryPie(r.LinesByCategory); pie != "" {
		sb.WriteString("\n## Categories\n\n")
		sb.WriteString(pie)
		sb.WriteString("\n")
	}

	if len(r.Stores) > 0 {
		sb.WriteString("\n## Stores\n\n| Store | Invoices |\n|---|---|\n")
		for _, s := range r.Stores {
			sb.WriteString(fmt.Sprintf("| %d | %d |\n", s.StoreID, s.Invoices))
		}
	}
	if len(r.TopProducts) > 0 {
		sb.WriteString("\n## Top products\n\n| Product | Name | Category | Lines |\n|---|---|---|---|\n")
		for _, p := range r.TopProducts {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d |\n", p.ProductID, p.Name, p.Category, p.Lines))
		}
	}
	return sb.String()
}
