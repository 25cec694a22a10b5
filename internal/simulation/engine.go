package simulation

import (
	"fmt"
	"time"
)

// Simulator generates the sales ledger of a single customer, one calendar
// day at a time.
type Simulator struct {
	params Params
	start  time.Time
	end    time.Time
	rng    Random
	stats  Stats
}

// New validates params and returns a simulator drawing from rng.
func New(params Params, rng Random) (*Simulator, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: a random source is required", ErrInvalidConfiguration)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		params: params,
		start:  civil(params.StartDate),
		end:    civil(params.EndDate),
		rng:    rng,
	}, nil
}

// Generate runs a full simulation for params. On a configuration error no
// line items are returned.
func Generate(params Params, rng Random) ([]LineItem, error) {
	sim, err := New(params, rng)
	if err != nil {
		return nil, err
	}
	return sim.Run(), nil
}

// Params returns the validated input of the run.
func (s *Simulator) Params() Params { return s.params }

// Stats returns the counters accumulated so far.
func (s *Simulator) Stats() Stats { return s.stats }

// Start returns the initial state positioned on the enrollment date.
func (s *Simulator) Start() State {
	return State{Day: s.start, Active: true}
}

// Run steps from the enrollment date until the customer churns or the
// horizon is passed.
func (s *Simulator) Run() []LineItem {
	st := s.Start()
	var items []LineItem
	for st.Active {
		items = append(items, s.Step(&st)...)
	}
	return items
}

// Step processes the day under st.Day and advances the cursor. Churn or
// reaching the end of the horizon leaves st inactive; stepping an inactive
// state is a no-op.
func (s *Simulator) Step(st *State) []LineItem {
	if !st.Active {
		return nil
	}
	day := civil(st.Day)
	if day.After(s.end) {
		st.Active = false
		return nil
	}
	s.stats.DaysProcessed++

	lost := Bernoulli(s.rng, s.params.Schedules.PCloseDay)
	if lost {
		churned := day
		s.stats.ChurnDate = &churned
		if s.params.Schedules.StopInvoicesOnLostDay {
			st.Active = false
			return nil
		}
	}

	items := s.cascade(st, day)

	if lost {
		st.Active = false
		return items
	}
	st.Day = day.AddDate(0, 0, 1)
	if st.Day.After(s.end) {
		st.Active = false
	}
	return items
}

// cascade generates the invoices of one active day. Every further invoice
// is attempted with the day's purchase probability scaled by the multiplier
// for its order within the day.
func (s *Simulator) cascade(st *State, day time.Time) []LineItem {
	sch := s.params.Schedules
	pBuyDay := sch.PBuyByYear.at(YearIndex(day, s.start))

	var items []LineItem
	order := 0
	for ; order < MaxInvoicesPerDay; order++ {
		pAttempt := pBuyDay * sch.PInvoiceByNth.at(order)
		if s.rng.Float64() >= pAttempt {
			break
		}

		b, ok := s.composeBasket(st.DevicesOwned)
		if !ok {
			s.stats.AbandonedAttempts++
			continue
		}

		st.InvoiceSeq++
		if b.hasDevice {
			st.DevicesOwned++
			s.stats.DeviceLines++
		}
		lines := s.emit(day, st.InvoiceSeq, b)
		s.stats.Invoices++
		s.stats.Lines += len(lines)
		items = append(items, lines...)
	}
	if order == MaxInvoicesPerDay {
		s.stats.CappedDays++
	}
	return items
}
