package ledger

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		value    string
		currency string
		want     string
	}{
		{"1234.5", "USD", "$1,234.50"},
		{"0.005", "USD", "$0.01"},
		{"-42", "USD", "-$42.00"},
		{"1000", "JPY", "¥1,000"},
	}
	for _, tc := range testCases {
		t.Run(tc.currency+" "+tc.value, func(t *testing.T) {
			if got := FormatAmount(D(tc.value), tc.currency); got != tc.want {
				t.Errorf("FormatAmount(%s, %s) = %q, want %q", tc.value, tc.currency, got, tc.want)
			}
		})
	}

	// unknown currencies fall back to the default one.
	if got, want := FormatAmount(D("1234.5"), "???"), FormatAmount(D("1234.5"), DefaultCurrency); got != want {
		t.Errorf("FormatAmount(unknown) = %q, want %q", got, want)
	}
	if got := FormatAmount(D("1234.5"), ""); !strings.Contains(got, "1,234.50") {
		t.Errorf("FormatAmount(default) = %q, want it to contain 1,234.50", got)
	}
}

func TestFormatSignedAmount(t *testing.T) {
	if got := FormatSignedAmount(D("0"), "USD"); got != "-" {
		t.Errorf("FormatSignedAmount(0) = %q, want -", got)
	}
	if got := FormatSignedAmount(D("3"), "USD"); got != "+$3.00" {
		t.Errorf("FormatSignedAmount(3) = %q, want +$3.00", got)
	}
	if got := FormatSignedAmount(D("-3"), "USD"); got != "-$3.00" {
		t.Errorf("FormatSignedAmount(-3) = %q, want -$3.00", got)
	}
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12", "12", false},
		{" 1,234.56 ", "1234.56", false},
		{"-0.5", "-0.5", false},
		{"", "", true},
		{"   ", "", true},
		{"abc", "", true},
		{"NaN", "", true},
		{"Inf", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidInput", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error = %v", tc.in, err)
			}
			if !got.Equal(D(tc.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestAmountFromFloat(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := AmountFromFloat(f); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("AmountFromFloat(%v) error = %v, want ErrInvalidInput", f, err)
		}
	}
	got, err := AmountFromFloat(0.1)
	if err != nil {
		t.Fatalf("AmountFromFloat(0.1) error = %v", err)
	}
	if !got.Equal(D("0.1")) {
		t.Errorf("AmountFromFloat(0.1) = %s, want 0.1", got)
	}
}
