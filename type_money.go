package ledger

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used to format amounts when none is given.
const DefaultCurrency = "CNY"

// FormatAmount formats value in currency using its symbol, separators and
// fraction digits. An unknown or empty currency falls back to DefaultCurrency.
func FormatAmount(value decimal.Decimal, currency string) string {
	cur := lookupCurrency(currency)
	dec := value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// FormatSignedAmount is like FormatAmount but always prints the sign, zero
// being rendered as "-".
func FormatSignedAmount(value decimal.Decimal, currency string) string {
	if value.IsZero() {
		return "-"
	}
	if value.IsPositive() {
		return "+" + FormatAmount(value, currency)
	}
	return FormatAmount(value, currency)
}

// lookupCurrency returns a never nil currency.
func lookupCurrency(code string) *money.Currency {
	if code != "" {
		if cur := money.GetCurrency(strings.ToUpper(code)); cur != nil {
			return cur
		}
	}
	return money.GetCurrency(DefaultCurrency)
}

// ParseAmount parses a user supplied number. Thousands separators are
// ignored. Empty, non-numeric and non-finite inputs are rejected with
// ErrInvalidInput.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount: %w", ErrInvalidInput)
	}
	sanitized := strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(sanitized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, ErrInvalidInput)
	}
	return d, nil
}

// AmountFromFloat converts f to a decimal, rejecting NaN and infinities.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("non-finite amount %v: %w", f, ErrInvalidInput)
	}
	return decimal.NewFromFloat(f), nil
}
