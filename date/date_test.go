package date

import (
	"encoding/json"
	"slices"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNew_Normalizes(t *testing.T) {
	if got, want := New(2025, time.February, 30), New(2025, time.March, 2); got != want {
		t.Errorf("New(2025-02-30) = %v, want %v", got, want)
	}
	if got, want := New(2025, time.March, 0), New(2025, time.February, 28); got != want {
		t.Errorf("New(2025-03-00) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	today := Today()
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-07-01", New(2025, time.July, 1), false},
		{"2025-7-1", New(2025, time.July, 1), false},
		{" 2025-12-31 ", New(2025, time.December, 31), false},
		{"0d", today, false},
		{"-1d", today.Add(-1), false},
		{"+2w", today.Add(14), false},
		{"-1y", New(today.Year()-1, today.Month(), today.Day()), false},
		{"2025/07/01", Date{}, true},
		{"yesterday", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	d := New(2025, time.August, 3)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2025-08-03"` {
		t.Errorf("Marshal = %s, want %q", data, "2025-08-03")
	}
	var got Date
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != d {
		t.Errorf("Unmarshal = %v, want %v", got, d)
	}
}

func TestRange_Days(t *testing.T) {
	r := Between(New(2024, time.February, 27), New(2024, time.March, 1))
	got := slices.Collect(r.Days())
	want := []Date{
		New(2024, time.February, 27),
		New(2024, time.February, 28),
		New(2024, time.February, 29),
		New(2024, time.March, 1),
	}
	if !slices.Equal(got, want) {
		t.Errorf("Days() = %v, want %v", got, want)
	}
	if r.Len() != 4 {
		t.Errorf("Len() = %d, want 4", r.Len())
	}
	if empty := Between(New(2024, time.March, 2), New(2024, time.March, 1)); empty.Len() != 0 {
		t.Errorf("Len() of an inverted range = %d, want 0", empty.Len())
	}
	if got := Between(New(1, time.January, 1), New(9999, time.December, 31)).Len(); got != 3652059 {
		t.Errorf("Len() over millennia = %d, want 3652059", got)
	}
}

func TestRange_ContainsTime(t *testing.T) {
	r := Monthly.Range(New(2025, time.October, 18))
	in := time.Date(2025, time.October, 31, 23, 59, 0, 0, time.UTC)
	out := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	if !r.ContainsTime(in) {
		t.Errorf("%v should contain %v", r, in)
	}
	if r.ContainsTime(out) {
		t.Errorf("%v should not contain %v", r, out)
	}
}
