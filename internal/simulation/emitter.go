package simulation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceID formats the identifier of the seq-th invoice of a customer.
func InvoiceID(customerID int64, day time.Time, seq int) string {
	return fmt.Sprintf("%d-%s-%06d", customerID, day.Format("20060102"), seq)
}

// emit turns a resolved basket into line items sharing one invoice id and store.
func (s *Simulator) emit(day time.Time, seq int, b basket) []LineItem {
	invoiceID := InvoiceID(s.params.CustomerID, day, seq)
	storeID := PickOne(s.rng, s.params.StoreIDs)
	date := day.Format(DateLayout)

	products := b.products()
	items := make([]LineItem, 0, len(products))
	for _, pid := range products {
		items = append(items, LineItem{
			InvoiceID:   invoiceID,
			CustomerID:  s.params.CustomerID,
			InvoiceDate: date,
			ProductID:   pid,
			Quantity:    1,
			Revenue:     decimal.Zero,
			StoreID:     storeID,
		})
	}
	return items
}
