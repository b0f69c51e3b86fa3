package ledger

import (
	"fmt"
	"time"

	"github.com/etnz/ledger/date"
	"github.com/shopspring/decimal"
)

// Summary totals the active transactions that occurred within a range.
type Summary struct {
	Range   date.Range
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int
}

// Net returns income minus expense.
func (s Summary) Net() decimal.Decimal { return s.Income.Sub(s.Expense) }

// CategoryTotal is the amount spent in one category over a range.
type CategoryTotal struct {
	Category Category
	Total    decimal.Decimal
}

// DayTotal is the amount spent on one day.
type DayTotal struct {
	Day   date.Date
	Total decimal.Decimal
}

// occurredOn returns the local calendar day of the transaction.
func occurredOn(tx Transaction) date.Date { return date.Of(tx.OccurredAt.In(time.Local)) }

// Summarize computes income and expense totals over r.
func Summarize(txs []Transaction, r date.Range) Summary {
	s := Summary{Range: r}
	for _, tx := range txs {
		if tx.IsDeleted || !r.Contains(occurredOn(tx)) {
			continue
		}
		s.Count++
		switch tx.Type {
		case Income:
			s.Income = s.Income.Add(tx.Amount)
		case Expense:
			s.Expense = s.Expense.Add(tx.Amount)
		}
	}
	return s
}

// ExpenseByCategory groups expenses over r by category.
//
// Only categories with a non-zero total are returned, in table order.
// Expenses whose category is unknown are reported last under Uncategorized.
func ExpenseByCategory(txs []Transaction, categories *Categories, r date.Range) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	var orphans decimal.Decimal
	for _, tx := range txs {
		if tx.IsDeleted || tx.Type != Expense || !r.Contains(occurredOn(tx)) {
			continue
		}
		if _, ok := categories.Get(tx.CategoryID); !ok {
			orphans = orphans.Add(tx.Amount)
			continue
		}
		totals[tx.CategoryID] = totals[tx.CategoryID].Add(tx.Amount)
	}

	var res []CategoryTotal
	for _, c := range categories.All() {
		if total := totals[c.ID]; !total.IsZero() {
			res = append(res, CategoryTotal{Category: c, Total: total})
		}
	}
	if !orphans.IsZero() {
		res = append(res, CategoryTotal{Category: Uncategorized, Total: orphans})
	}
	return res
}

// MaxDailyDays is the longest range a daily expense series is served for.
const MaxDailyDays = 366

// CheckDailyRange returns ErrInvalidInput when r is too long for a daily
// expense series.
func CheckDailyRange(r date.Range) error {
	if n := r.Len(); n > MaxDailyDays {
		return fmt.Errorf("range %s spans %d days, a daily series covers at most %d: %w", r, n, MaxDailyDays, ErrInvalidInput)
	}
	return nil
}

// DailyExpenses returns the expense total of every day in r, zero days included.
// Callers bound r with CheckDailyRange.
func DailyExpenses(txs []Transaction, r date.Range) []DayTotal {
	totals := make(map[date.Date]decimal.Decimal)
	for _, tx := range txs {
		if tx.IsDeleted || tx.Type != Expense {
			continue
		}
		day := occurredOn(tx)
		if r.Contains(day) {
			totals[day] = totals[day].Add(tx.Amount)
		}
	}
	res := make([]DayTotal, 0, r.Len())
	for day := range r.Days() {
		res = append(res, DayTotal{Day: day, Total: totals[day]})
	}
	return res
}

// Summary computes the period summary of the active transactions.
func (l *Ledger) Summary(r date.Range) Summary { return Summarize(l.Transactions(), r) }

// ExpenseByCategory groups the active expenses over r by category.
func (l *Ledger) ExpenseByCategory(r date.Range) []CategoryTotal {
	return ExpenseByCategory(l.Transactions(), l.categories, r)
}

// DailyExpenses returns the per-day expense series over r.
func (l *Ledger) DailyExpenses(r date.Range) []DayTotal { return DailyExpenses(l.Transactions(), r) }

// CurrentMonth returns the range of the current month.
func CurrentMonth() date.Range { return date.Monthly.Range(date.Today()) }
