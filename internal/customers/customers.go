package customers

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"salesim/internal/simulation"
)

// Customer is a generated customer profile. Contact fields are empty when the
// customer left them out; an opt-in is only ever set for a present channel.
type Customer struct {
	ID         int64     `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	EmailOptIn bool      `json:"email_opt_in"`
	SMSOptIn   bool      `json:"sms_opt_in"`
	CallOptIn  bool      `json:"call_opt_in"`
}

// Config bounds the enrollment dates of generated customers (both inclusive)
// and sets how often each contact field is filled in.
type Config struct {
	Count       int
	CreatedFrom time.Time
	CreatedTo   time.Time

	PFirstName  float64
	PLastName   float64
	PEmail      float64
	PPhone      float64
	PEmailOptIn float64 // given an email
	PSMSOptIn   float64 // given a phone
	PCallOptIn  float64 // given a phone
}

func (c Config) validate() error {
	if c.Count < 0 {
		return fmt.Errorf("customers: count must be >= 0, got %d", c.Count)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"p_first_name", c.PFirstName},
		{"p_last_name", c.PLastName},
		{"p_email", c.PEmail},
		{"p_phone", c.PPhone},
		{"p_email_opt_in", c.PEmailOptIn},
		{"p_sms_opt_in", c.PSMSOptIn},
		{"p_call_opt_in", c.PCallOptIn},
	} {
		if !(p.v >= 0 && p.v <= 1) {
			return fmt.Errorf("customers: %s must be within [0, 1], got %v", p.name, p.v)
		}
	}
	return nil
}

// Generate draws Count enrollment dates uniformly by day, orders customers by
// enrollment and numbers them from 1. Contact details are then filled in by id
// order, all from rng, so equal seeds give equal populations.
func Generate(rng simulation.Random, cfg Config) ([]Customer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	from, to := day(cfg.CreatedFrom), day(cfg.CreatedTo)
	if to.Before(from) {
		return nil, fmt.Errorf("customers: created_at range is empty (%s > %s)",
			from.Format(simulation.DateLayout), to.Format(simulation.DateLayout))
	}

	totalDays := int(to.Sub(from).Hours()/24) + 1
	out := make([]Customer, cfg.Count)
	for i := range out {
		out[i].CreatedAt = from.AddDate(0, 0, rng.Intn(totalDays))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	// gofakeit picks a random seed for 0.
	fake := gofakeit.New(uint64(rng.Intn(math.MaxInt32)) + 1)
	for i := range out {
		out[i].ID = int64(i + 1)
		fillContact(rng, fake, cfg, &out[i])
	}
	return out, nil
}

func fillContact(rng simulation.Random, fake *gofakeit.Faker, cfg Config, c *Customer) {
	if simulation.Bernoulli(rng, cfg.PFirstName) {
		c.FirstName = fake.FirstName()
	}
	if simulation.Bernoulli(rng, cfg.PLastName) {
		c.LastName = fake.LastName()
	}
	if simulation.Bernoulli(rng, cfg.PEmail) {
		c.Email = fake.Email()
		c.EmailOptIn = simulation.Bernoulli(rng, cfg.PEmailOptIn)
	}
	if simulation.Bernoulli(rng, cfg.PPhone) {
		c.Phone = fake.Phone()
		c.SMSOptIn = simulation.Bernoulli(rng, cfg.PSMSOptIn)
		c.CallOptIn = simulation.Bernoulli(rng, cfg.PCallOptIn)
	}
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
