package ledger

import "github.com/shopspring/decimal"

// Account is a place money is kept: a wallet, a bank account, a card.
//
// Its balance is never stored, see Store.AccountBalance.
type Account struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CreatedAt      Timestamp       `json:"createdAt"`
	UpdatedAt      Timestamp       `json:"updatedAt"`
	IsDeleted      bool            `json:"isDeleted"`
}

// AccountInput holds the user editable fields of an Account.
type AccountInput struct {
	Name           string
	InitialBalance decimal.Decimal
}

func accountID(a Account) string { return a.ID }
func accountActive(a Account) bool { return !a.IsDeleted }
