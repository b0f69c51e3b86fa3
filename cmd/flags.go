package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/date"
)

// rangeFlags are the flags selecting a date range.
type rangeFlags struct {
	period string
	start  string
	end    string
}

// usage of the range flags, to be included in commands usage.
const rangeUsage = `  The range is the period (-p) containing the end date (-d, default today),
  or from the start date (-s) to the end date. Dates are YYYY-MM-DD or
  relative like -1d, -2w, -1m.`

// Range resolves the flags into a date range, the current period by default.
func (r rangeFlags) Range(defaultPeriod date.Period) (date.Range, error) {
	end := date.Today()
	if r.end != "" {
		d, err := date.Parse(r.end)
		if err != nil {
			return date.Range{}, fmt.Errorf("invalid end date: %w", err)
		}
		end = d
	}
	if r.start != "" {
		start, err := date.Parse(r.start)
		if err != nil {
			return date.Range{}, fmt.Errorf("invalid start date: %w", err)
		}
		if start.After(end) {
			return date.Range{}, fmt.Errorf("start date %s is after end date %s", start, end)
		}
		return date.Between(start, end), nil
	}
	period := defaultPeriod
	if r.period != "" {
		p, err := date.ParsePeriod(r.period)
		if err != nil {
			return date.Range{}, err
		}
		period = p
	}
	return period.Range(end), nil
}

func (r rangeFlags) isSet() bool { return r.period != "" || r.start != "" || r.end != "" }

// occurredAt returns the time of a transaction entered for day s: now for
// today or an empty s, and the current clock time on that day otherwise.
func occurredAt(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, ledger.ErrInvalidInput)
	}
	if d == date.Of(now) {
		return now, nil
	}
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location()), nil
}

// resolveAccount finds an active account by id, or by name ignoring case.
func resolveAccount(l *ledger.Ledger, ref string) (ledger.Account, error) {
	if a, ok := l.Account(ref); ok {
		return a, nil
	}
	var found []ledger.Account
	for _, a := range l.Accounts() {
		if strings.EqualFold(a.Name, ref) {
			found = append(found, a)
		}
	}
	switch len(found) {
	case 0:
		return ledger.Account{}, fmt.Errorf("account %q: %w", ref, ledger.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return ledger.Account{}, fmt.Errorf("account name %q is ambiguous, use its id: %w", ref, ledger.ErrInvalidInput)
	}
}

// resolveCategory finds a category by id, or by name ignoring case among
// those of type typ.
func resolveCategory(c *ledger.Categories, ref string, typ ledger.TransactionType) (ledger.Category, error) {
	if cat, ok := c.Get(ref); ok {
		return cat, nil
	}
	for _, cat := range c.OfType(typ) {
		if strings.EqualFold(cat.Name, ref) || strings.EqualFold(strings.TrimPrefix(cat.ID, string(typ)+":"), ref) {
			return cat, nil
		}
	}
	return ledger.Category{}, fmt.Errorf("unknown %s category %q: %w", typ, ref, ledger.ErrInvalidInput)
}
