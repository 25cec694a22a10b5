package api

import (
	"fmt"

	"salesim/internal/config"
	"salesim/internal/simulation"
)

// SimulationRequest asks for the ledger of a single customer.
type SimulationRequest struct {
	CustomerID int64              `json:"customer_id"`
	StartDate  string             `json:"start_date"`
	Seed       *int64             `json:"seed,omitempty"`
	Overrides  *ScheduleOverrides `json:"overrides,omitempty"`
}

// ScheduleOverrides replaces selected sales settings for one request.
// Absent fields keep the server configuration.
type ScheduleOverrides struct {
	EndDate               *string   `json:"end_date,omitempty"`
	StoreIDs              []int64   `json:"store_ids,omitempty"`
	PBuyByYear            []float64 `json:"p_buy_by_year,omitempty"`
	PCloseDay             *float64  `json:"p_close_day,omitempty"`
	PInvoiceByNth         []float64 `json:"p_invoice_by_nth,omitempty"`
	PDeviceByNth          []float64 `json:"p_device_by_nth,omitempty"`
	RefillCountProbs      []float64 `json:"refill_count_probs,omitempty"`
	PRefillInvoice        *float64  `json:"p_refill_invoice,omitempty"`
	PAccessoryInvoice     *float64  `json:"p_accessory_invoice,omitempty"`
	PSparePartInvoice     *float64  `json:"p_spare_part_invoice,omitempty"`
	StopInvoicesOnLostDay *bool     `json:"stop_invoices_on_lost_day,omitempty"`
}

// Apply returns base with the overrides laid over it. Slices are never shared
// with base.
func (o *ScheduleOverrides) Apply(base config.SalesConfig) (config.SalesConfig, error) {
	out := base
	if o == nil {
		return out, nil
	}
	if o.EndDate != nil {
		end, err := simulation.ParseDate(*o.EndDate)
		if err != nil {
			return out, fmt.Errorf("%w: end_date: %v", simulation.ErrInvalidConfiguration, err)
		}
		out.EndDate = end
	}
	if o.StoreIDs != nil {
		out.StoreIDs = append([]int64(nil), o.StoreIDs...)
	}

	s := &out.Schedules
	if o.PBuyByYear != nil {
		s.PBuyByYear = append(simulation.Schedule(nil), o.PBuyByYear...)
	}
	if o.PInvoiceByNth != nil {
		s.PInvoiceByNth = append(simulation.Schedule(nil), o.PInvoiceByNth...)
	}
	if o.PDeviceByNth != nil {
		s.PDeviceByNth = append(simulation.Schedule(nil), o.PDeviceByNth...)
	}
	if o.RefillCountProbs != nil {
		s.RefillCountProbs = append([]float64(nil), o.RefillCountProbs...)
	}
	if o.PCloseDay != nil {
		s.PCloseDay = *o.PCloseDay
	}
	if o.PRefillInvoice != nil {
		s.PRefillInvoice = *o.PRefillInvoice
	}
	if o.PAccessoryInvoice != nil {
		s.PAccessoryInvoice = *o.PAccessoryInvoice
	}
	if o.PSparePartInvoice != nil {
		s.PSparePartInvoice = *o.PSparePartInvoice
	}
	if o.StopInvoicesOnLostDay != nil {
		s.StopInvoicesOnLostDay = *o.StopInvoicesOnLostDay
	}
	return out, nil
}

// SimulationResponse is the generated ledger plus run statistics.
type SimulationResponse struct {
	CustomerID int64                 `json:"customer_id"`
	StartDate  string                `json:"start_date"`
	EndDate    string                `json:"end_date"`
	Seed       int64                 `json:"seed"`
	Stats      simulation.Stats      `json:"stats"`
	Lines      []simulation.LineItem `json:"lines"`
}

// ConfigResponse describes the effective sales settings.
type ConfigResponse struct {
	EndDate   string               `json:"end_date"`
	StoreIDs  []int64              `json:"store_ids"`
	Seed      int64                `json:"seed"`
	Schedules simulation.Schedules `json:"schedules"`
	Pools     PoolSizes            `json:"pools"`
}

// PoolSizes counts the products available to each basket component.
type PoolSizes struct {
	Devices     int `json:"devices"`
	Refills     int `json:"refills"`
	Accessories int `json:"accessories"`
	SpareParts  int `json:"spare_parts"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
