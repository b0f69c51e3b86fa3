package renderer

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/date"
	"github.com/shopspring/decimal"
)

// Source is the read side of a ledger.
type Source interface {
	Accounts() []ledger.Account
	Account(id string) (ledger.Account, bool)
	AccountBalance(id string) decimal.Decimal
	Transactions() []ledger.Transaction
	Categories() *ledger.Categories
}

// unknownAccount names transactions whose account does not exist anymore.
const unknownAccount = "(no account)"

// Accounts is the account list view.
type Accounts struct {
	Currency string
	Rows     []AccountRow
	Total    decimal.Decimal
}

// AccountRow is one account and its derived balance.
type AccountRow struct {
	ID             string
	Name           string
	InitialBalance decimal.Decimal
	Balance        decimal.Decimal
}

// NewAccounts builds the account list view, in creation order.
func NewAccounts(src Source, currency string) *Accounts {
	v := &Accounts{Currency: currency}
	for _, a := range src.Accounts() {
		balance := src.AccountBalance(a.ID)
		v.Rows = append(v.Rows, AccountRow{ID: a.ID, Name: a.Name, InitialBalance: a.InitialBalance, Balance: balance})
		v.Total = v.Total.Add(balance)
	}
	return v
}

// Transactions is a journal view, most recent first.
type Transactions struct {
	Currency string
	Title    string
	Rows     []TransactionRow
}

// TransactionRow is one transaction resolved for display.
type TransactionRow struct {
	ID       string
	Date     date.Date
	Type     ledger.TransactionType
	Category ledger.Category
	Account  string
	Signed   decimal.Decimal
	Note     string
}

// Filter selects transactions in a journal view. Zero values select all.
type Filter struct {
	Range     *date.Range
	AccountID string
	Limit     int
}

// NewTransactions builds the journal view: active transactions matching f,
// sorted by decreasing occurrence time.
func NewTransactions(src Source, f Filter, currency string) *Transactions {
	txs := slices.Clone(src.Transactions())
	slices.SortStableFunc(txs, func(a, b ledger.Transaction) int {
		if c := b.OccurredAt.Compare(a.OccurredAt); c != 0 {
			return c
		}
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})

	v := &Transactions{Currency: currency, Title: "Transactions"}
	if f.Range != nil {
		v.Title = fmt.Sprintf("Transactions %s", f.Range.Identifier())
	}
	categories := src.Categories()
	for _, tx := range txs {
		day := date.Of(tx.OccurredAt.Local())
		if f.Range != nil && !f.Range.Contains(day) {
			continue
		}
		if f.AccountID != "" && tx.AccountID != f.AccountID {
			continue
		}
		if f.Limit > 0 && len(v.Rows) == f.Limit {
			break
		}
		v.Rows = append(v.Rows, TransactionRow{
			ID:       tx.ID,
			Date:     day,
			Type:     tx.Type,
			Category: categories.Resolve(tx.CategoryID),
			Account:  accountName(src, tx.AccountID),
			Signed:   tx.Signed(),
			Note:     tx.Note,
		})
	}
	return v
}

func accountName(src Source, id string) string {
	if a, ok := src.Account(id); ok {
		return a.Name
	}
	return unknownAccount
}

// Summary is the period summary view.
type Summary struct {
	Currency   string
	Summary    ledger.Summary
	Categories []CategoryShare
	Daily      []ledger.DayTotal
}

// CategoryShare is a category total and its share of all expenses.
type CategoryShare struct {
	ledger.CategoryTotal
	Share string
}

// NewSummary builds the summary of the active transactions over r. The
// daily series is only computed when daily is set.
func NewSummary(src Source, r date.Range, daily bool, currency string) *Summary {
	txs := src.Transactions()
	s := ledger.Summarize(txs, r)
	v := &Summary{Currency: currency, Summary: s}
	for _, ct := range ledger.ExpenseByCategory(txs, src.Categories(), r) {
		v.Categories = append(v.Categories, CategoryShare{CategoryTotal: ct, Share: share(ct.Total, s.Expense)})
	}
	if daily {
		v.Daily = ledger.DailyExpenses(txs, r)
	}
	return v
}

// Net returns the net result of the period.
func (s *Summary) Net() decimal.Decimal { return s.Summary.Net() }

// share formats part/total as a percentage.
func share(part, total decimal.Decimal) string {
	if total.IsZero() {
		return "-"
	}
	return part.Div(total).Shift(2).StringFixed(1) + "%"
}

// Categories is the category table view.
type Categories struct {
	Rows []ledger.Category
}

// NewCategories builds the category table view, optionally restricted to
// one transaction type.
func NewCategories(c *ledger.Categories, typ ledger.TransactionType) *Categories {
	if typ == "" {
		return &Categories{Rows: c.All()}
	}
	return &Categories{Rows: c.OfType(typ)}
}
