package date

import (
	"testing"
	"time"
)

func TestPeriod_Range(t *testing.T) {
	testCases := []struct {
		name   string
		period Period
		in     Date
		want   Range
	}{
		{"Daily", Daily, New(2025, time.September, 8), Range{From: New(2025, time.September, 8), To: New(2025, time.September, 8)}},
		{"A Wednesday", Weekly, New(2025, time.September, 10), Range{From: New(2025, time.September, 8), To: New(2025, time.September, 14)}},
		{"A Sunday", Weekly, New(2025, time.September, 14), Range{From: New(2025, time.September, 8), To: New(2025, time.September, 14)}},
		{"A leap year", Monthly, New(2024, time.February, 15), Range{From: New(2024, time.February, 1), To: New(2024, time.February, 29)}},
		{"December", Monthly, New(2025, time.December, 31), Range{From: New(2025, time.December, 1), To: New(2025, time.December, 31)}},
		{"Q2", Quarterly, New(2025, time.May, 20), Range{From: New(2025, time.April, 1), To: New(2025, time.June, 30)}},
		{"Q4", Quarterly, New(2025, time.November, 2), Range{From: New(2025, time.October, 1), To: New(2025, time.December, 31)}},
		{"Yearly", Yearly, New(2025, time.September, 8), Range{From: New(2025, time.January, 1), To: New(2025, time.December, 31)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.period.Range(tc.in); got != tc.want {
				t.Errorf("%v.Range(%v) = %v, want %v", tc.period, tc.in, got, tc.want)
			}
		})
	}
}

func TestRange_Name(t *testing.T) {
	testCases := []struct {
		name string
		in   Range
		want string
	}{
		{"Single Day", Daily.Range(New(2025, time.September, 8)), "daily"},
		{"Standard Week", Weekly.Range(New(2025, time.September, 8)), "weekly"},
		{"Standard Month", Monthly.Range(New(2025, time.September, 1)), "monthly"},
		{"Standard Quarter", Quarterly.Range(New(2025, time.July, 1)), "quarterly"},
		{"Standard Year", Yearly.Range(New(2025, time.January, 1)), "yearly"},
		{"Non-Standard Range", Range{From: New(2025, time.September, 2), To: New(2025, time.September, 10)}, "special"},
		{"Leap Year Month", Monthly.Range(New(2024, time.February, 1)), "monthly"},
		{"Multi Year", Range{From: New(2025, time.January, 1), To: New(2026, time.December, 31)}, "special"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Name(); got != tc.want {
				t.Errorf("Name() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRange_Identifier(t *testing.T) {
	testCases := []struct {
		name string
		in   Range
		want string
	}{
		{"Daily Identifier", Daily.Range(New(2025, time.September, 8)), "2025-09-08"},
		{"Weekly Identifier", Weekly.Range(New(2025, time.September, 8)), "2025-W37"},
		{"Early Week Identifier", Weekly.Range(New(2025, time.January, 6)), "2025-W02"},
		{"Monthly Identifier", Monthly.Range(New(2025, time.September, 1)), "2025-09"},
		{"Quarterly Identifier", Quarterly.Range(New(2025, time.July, 1)), "2025-Q3"},
		{"Yearly Identifier", Yearly.Range(New(2025, time.January, 1)), "2025"},
		{"Custom Range Identifier", Range{From: New(2025, time.September, 2), To: New(2025, time.September, 10)}, "2025-09-02_2025-09-10"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Identifier(); got != tc.want {
				t.Errorf("Identifier() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	testCases := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"daily", Daily, false},
		{"weekly", Weekly, false},
		{"monthly", Monthly, false},
		{"quarterly", Quarterly, false},
		{"yearly", Yearly, false},
		{"day", Daily, false},
		{"week", Weekly, false},
		{"Month", Monthly, false},
		{"quarter", Quarterly, false},
		{"year", Yearly, false},
		{"unknown", Daily, true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePeriod(tc.in)
			if (err != nil) != tc.wantErr {
				t.Errorf("ParsePeriod() error = %v, wantErr %v", err, tc.wantErr)
				return
			}
			if got != tc.want {
				t.Errorf("ParsePeriod() = %v, want %v", got, tc.want)
			}
		})
	}
}
