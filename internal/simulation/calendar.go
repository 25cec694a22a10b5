package simulation

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date layout used for enrollment dates,
// horizons and LineItem.InvoiceDate.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO 'YYYY-MM-DD' date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// civil truncates t to midnight UTC of its calendar day.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of the month containing t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// YearIndex returns the zero-based customer year of day relative to the
// enrollment date: 0 for the enrollment year, 1 for the next, and so on.
// Years are counted in whole months between the two month starts.
func YearIndex(day, start time.Time) int {
	d := MonthStart(day)
	s := MonthStart(start)
	months := (d.Year()-s.Year())*12 + int(d.Month()) - int(s.Month())
	if months < 0 {
		return 0
	}
	return months / 12
}
