package simulation

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"FirstOfMonth", date(2024, 3, 1), date(2024, 3, 1)},
		{"MidMonth", date(2024, 3, 17), date(2024, 3, 1)},
		{"LeapDay", date(2024, 2, 29), date(2024, 2, 1)},
		{"WithClock", time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC), date(2024, 12, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthStart(tt.in); !got.Equal(tt.want) {
				t.Errorf("MonthStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYearIndex(t *testing.T) {
	start := date(2023, 5, 20)
	tests := []struct {
		name string
		day  time.Time
		want int
	}{
		{"EnrollmentDay", start, 0},
		{"SameMonthEarlierDay", date(2023, 5, 1), 0},
		{"ElevenMonthsLater", date(2024, 4, 30), 0},
		{"TwelveMonthsLater", date(2024, 5, 1), 1},
		{"TwentyThreeMonths", date(2025, 4, 28), 1},
		{"ThreeYears", date(2026, 5, 2), 3},
		{"BeforeStart", date(2022, 1, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := YearIndex(tt.day, start); got != tt.want {
				t.Errorf("YearIndex(%s) = %d, want %d", tt.day.Format(DateLayout), got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(date(2024, 2, 29)) {
		t.Errorf("Expected 2024-02-29, got %v", got)
	}

	for _, bad := range []string{"", "2024-13-01", "29/02/2024", "2023-02-29"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestScheduleAt(t *testing.T) {
	s := Schedule{0.2, 0.5}
	tests := []struct {
		idx  int
		want float64
	}{
		{-1, 0.2},
		{0, 0.2},
		{1, 0.5},
		{5, 0.5},
	}
	for _, tt := range tests {
		got, err := s.At(tt.idx)
		if err != nil {
			t.Fatalf("At(%d): unexpected error %v", tt.idx, err)
		}
		if got != tt.want {
			t.Errorf("At(%d) = %v, want %v", tt.idx, got, tt.want)
		}
	}

	if _, err := (Schedule{}).At(0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration for empty schedule, got %v", err)
	}
}
