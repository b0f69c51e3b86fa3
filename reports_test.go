package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/ledger/date"
	"github.com/google/go-cmp/cmp"
)

func reportFixture() []Transaction {
	at := func(id string, typ TransactionType, amount, category string, day int) Transaction {
		t := tx(id, "a1", typ, amount)
		t.CategoryID = category
		t.OccurredAt = noon(2025, time.October, day)
		return t
	}
	deleted := at("t9", Expense, "999", "expense:food", 2)
	deleted.IsDeleted = true
	return []Transaction{
		at("t1", Expense, "10", "expense:food", 1),
		at("t2", Expense, "5.5", "expense:transport", 1),
		at("t3", Income, "1000", "income:salary", 2),
		at("t4", Expense, "20", "expense:food", 3),
		at("t5", Expense, "7", "dangling", 3),
		at("t6", Expense, "50", "expense:food", 30), // outside the range below
		deleted,
	}
}

func TestSummarize(t *testing.T) {
	r := date.Between(date.New(2025, time.October, 1), date.New(2025, time.October, 3))
	got := Summarize(reportFixture(), r)
	if !got.Income.Equal(D("1000")) || !got.Expense.Equal(D("42.5")) || got.Count != 5 {
		t.Errorf("Summarize() = %+v", got)
	}
	if !got.Net().Equal(D("957.5")) {
		t.Errorf("Net() = %s, want 957.5", got.Net())
	}

	empty := Summarize(nil, r)
	if !empty.Net().IsZero() || empty.Count != 0 {
		t.Errorf("Summarize(nil) = %+v", empty)
	}
}

func TestExpenseByCategory(t *testing.T) {
	r := date.Between(date.New(2025, time.October, 1), date.New(2025, time.October, 3))
	got := ExpenseByCategory(reportFixture(), DefaultCategories(), r)

	food, _ := DefaultCategories().Get("expense:food")
	transport, _ := DefaultCategories().Get("expense:transport")
	want := []CategoryTotal{
		{Category: food, Total: D("30")},
		{Category: transport, Total: D("5.5")},
		{Category: Uncategorized, Total: D("7")},
	}
	if diff := cmp.Diff(want, got, cmpOpts); diff != "" {
		t.Errorf("ExpenseByCategory() mismatch (-want +got):\n%s", diff)
	}
}

func TestDailyExpenses(t *testing.T) {
	r := date.Between(date.New(2025, time.October, 1), date.New(2025, time.October, 4))
	got := DailyExpenses(reportFixture(), r)
	want := []DayTotal{
		{Day: date.New(2025, time.October, 1), Total: D("15.5")},
		{Day: date.New(2025, time.October, 2), Total: D("0")},
		{Day: date.New(2025, time.October, 3), Total: D("27")},
		{Day: date.New(2025, time.October, 4), Total: D("0")},
	}
	if diff := cmp.Diff(want, got, cmpOpts, cmp.AllowUnexported(date.Date{})); diff != "" {
		t.Errorf("DailyExpenses() mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckDailyRange(t *testing.T) {
	tests := []struct {
		name string
		r    date.Range
		ok   bool
	}{
		{"month", date.Monthly.Range(date.New(2025, time.October, 1)), true},
		{"leap year", date.Yearly.Range(date.New(2024, time.March, 1)), true},
		{"two years", date.Between(date.New(2024, time.January, 1), date.New(2025, time.December, 31)), false},
		{"millennia", date.Between(date.New(1, time.January, 1), date.New(9999, time.December, 31)), false},
	}
	for _, tt := range tests {
		err := CheckDailyRange(tt.r)
		if tt.ok && err != nil {
			t.Errorf("%s: CheckDailyRange() error = %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: CheckDailyRange() error = %v, want ErrInvalidInput", tt.name, err)
		}
	}
}

func TestLedger_Reports(t *testing.T) {
	l := openTest(t, nil)
	cash := mustAccount(t, l, "Cash", "0")
	mustTransaction(t, l, TransactionInput{Amount: D("12"), Type: Expense, CategoryID: "expense:food", AccountID: cash.ID, OccurredAt: noon(2025, time.October, 5)})
	gone := mustTransaction(t, l, TransactionInput{Amount: D("88"), Type: Expense, CategoryID: "expense:food", AccountID: cash.ID, OccurredAt: noon(2025, time.October, 5)})
	if err := l.DeleteTransaction(gone.ID); err != nil {
		t.Fatal(err)
	}

	r := date.Monthly.Range(date.New(2025, time.October, 1))
	if got := l.Summary(r).Expense; !got.Equal(D("12")) {
		t.Errorf("Summary().Expense = %s, want 12", got)
	}
	if got := l.ExpenseByCategory(r); len(got) != 1 || !got[0].Total.Equal(D("12")) {
		t.Errorf("ExpenseByCategory() = %+v", got)
	}
	if got := len(l.DailyExpenses(r)); got != 31 {
		t.Errorf("len(DailyExpenses()) = %d, want 31", got)
	}
}
