package renderer

import (
	"fmt"

	"github.com/etnz/ledger"
)

// Transaction renders a transaction to a one line sentence.
func Transaction(tx ledger.Transaction, category ledger.Category, currency string) string {
	var s string
	switch tx.Type {
	case ledger.Expense:
		s = fmt.Sprintf("Spent %s on %s", ledger.FormatAmount(tx.Amount, currency), category.Name)
	case ledger.Income:
		s = fmt.Sprintf("Received %s as %s", ledger.FormatAmount(tx.Amount, currency), category.Name)
	default:
		s = fmt.Sprintf("%s %s", tx.Type, ledger.FormatAmount(tx.Amount, currency))
	}
	s += fmt.Sprintf(" on %s", tx.OccurredAt.Local().Format("2006-01-02"))
	if tx.Note != "" {
		s += fmt.Sprintf(" (%s)", tx.Note)
	}
	return s
}
