package simulation

import (
	"fmt"
	"math"
)

// Validate checks p for configuration errors. It never inspects pools:
// an empty pool is a valid way to disable a basket component.
func (p Params) Validate() error {
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidConfiguration)
	}
	if civil(p.StartDate).After(civil(p.EndDate)) {
		return fmt.Errorf("%w: sales start date %s is after sales end date %s",
			ErrInvalidConfiguration, p.StartDate.Format(DateLayout), p.EndDate.Format(DateLayout))
	}
	if len(p.StoreIDs) == 0 {
		return fmt.Errorf("%w: store_ids must be non-empty", ErrInvalidConfiguration)
	}

	s := p.Schedules
	schedules := []struct {
		name   string
		values []float64
	}{
		{"p_buy_by_year", s.PBuyByYear},
		{"p_invoice_by_nth", s.PInvoiceByNth},
		{"p_device_by_nth", s.PDeviceByNth},
		{"refill_count_probs", s.RefillCountProbs},
	}
	for _, sc := range schedules {
		if len(sc.values) == 0 {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfiguration, sc.name)
		}
		for i, v := range sc.values {
			if !(v >= 0) || math.IsInf(v, 1) {
				return fmt.Errorf("%w: %s[%d] must be a finite non-negative value, got %v", ErrInvalidConfiguration, sc.name, i, v)
			}
		}
	}

	total := 0.0
	for i, w := range s.RefillCountProbs {
		if !(w >= 0) {
			return fmt.Errorf("%w: refill_count_probs[%d] must be a non-negative weight, got %v", ErrInvalidConfiguration, i, w)
		}
		total += w
	}
	if !(total > 0) {
		return fmt.Errorf("%w: refill_count_probs must sum to a positive value", ErrInvalidConfiguration)
	}

	scalars := []struct {
		name  string
		value float64
	}{
		{"p_close_day", s.PCloseDay},
		{"p_refill_invoice", s.PRefillInvoice},
		{"p_accessory_invoice", s.PAccessoryInvoice},
		{"p_spare_part_invoice", s.PSparePartInvoice},
	}
	for _, sc := range scalars {
		if !(sc.value >= 0 && sc.value <= 1) {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrInvalidConfiguration, sc.name, sc.value)
		}
	}
	return nil
}
