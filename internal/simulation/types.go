package simulation

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// MaxInvoicesPerDay bounds the invoice cascade of a single day.
const MaxInvoicesPerDay = 50

// ErrInvalidConfiguration is wrapped by every parameter validation failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Pools are the product identifiers the basket composer samples from.
// An empty pool disables its basket component except through the fallback line.
type Pools struct {
	Devices     []int64 `json:"devices"`
	Refills     []int64 `json:"refills"`
	Accessories []int64 `json:"accessories"`
	SpareParts  []int64 `json:"spare_parts"`
}

// Empty reports whether no pool holds a product.
func (p Pools) Empty() bool {
	return len(p.Devices) == 0 && len(p.Refills) == 0 && len(p.Accessories) == 0 && len(p.SpareParts) == 0
}

// Schedules holds the probability cascade of a run.
type Schedules struct {
	PBuyByYear            Schedule  `json:"p_buy_by_year"`    // daily purchase probability by customer year
	PCloseDay             float64   `json:"p_close_day"`      // daily churn probability
	PInvoiceByNth         Schedule  `json:"p_invoice_by_nth"` // multiplier by invoice order within a day
	PDeviceByNth          Schedule  `json:"p_device_by_nth"`  // device inclusion by devices already owned
	RefillCountProbs      []float64 `json:"refill_count_probs"`
	PRefillInvoice        float64   `json:"p_refill_invoice"`
	PAccessoryInvoice     float64   `json:"p_accessory_invoice"`
	PSparePartInvoice     float64   `json:"p_spare_part_invoice"`
	StopInvoicesOnLostDay bool      `json:"stop_invoices_on_lost_day"`
}

// Params is the immutable input of one customer's run.
type Params struct {
	CustomerID int64
	StartDate  time.Time
	EndDate    time.Time
	Pools      Pools
	StoreIDs   []int64
	Schedules  Schedules
}

// State is the mutable cursor threaded through Step.
type State struct {
	Day          time.Time
	DevicesOwned int
	InvoiceSeq   int
	Active       bool
}

// LineItem is one product line of a generated invoice.
type LineItem struct {
	InvoiceID   string          `json:"invoice_id"`
	CustomerID  int64           `json:"customer_id"`
	InvoiceDate string          `json:"invoice_date"`
	ProductID   int64           `json:"product_id"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	StoreID     int64           `json:"store_id"`
}

// MarshalJSON writes revenue with two decimals, as the CSV and SQL outputs do.
func (it LineItem) MarshalJSON() ([]byte, error) {
	type plain LineItem
	return json.Marshal(struct {
		plain
		Revenue string `json:"revenue"`
	}{plain(it), it.Revenue.StringFixed(2)})
}

// Stats summarizes a run for logging and reporting.
type Stats struct {
	DaysProcessed     int        `json:"days_processed"`
	Invoices          int        `json:"invoices"`
	Lines             int        `json:"lines"`
	DeviceLines       int        `json:"device_lines"`
	AbandonedAttempts int        `json:"abandoned_attempts"`
	CappedDays        int        `json:"capped_days"`
	ChurnDate         *time.Time `json:"churn_date,omitempty"`
}
