package simulation

import "fmt"

// Schedule is an ordered list of per-period probabilities or multipliers.
// Beyond its last entry a schedule extends flat.
type Schedule []float64

// At returns the value for index i, clamped to the last entry.
func (s Schedule) At(i int) (float64, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("%w: schedule must not be empty", ErrInvalidConfiguration)
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s) {
		return s[len(s)-1], nil
	}
	return s[i], nil
}

// at is At for schedules that already passed validation.
func (s Schedule) at(i int) float64 {
	v, _ := s.At(i)
	return v
}
