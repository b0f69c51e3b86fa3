package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells whether a transaction takes money out of an account
// or brings money in.
type TransactionType string

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool { return t == Expense || t == Income }

func (t TransactionType) String() string { return string(t) }

// ParseTransactionType parses "expense" or "income", case insensitive.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q: %w", s, ErrInvalidInput)
	}
	return t, nil
}

// Transaction records money moving in or out of an account.
//
// Amount is always a non negative magnitude, the direction is carried by
// Type. CategoryID and AccountID are plain references: a dangling id is
// tolerated.
type Transaction struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Type       TransactionType `json:"type"`
	CategoryID string          `json:"categoryId"`
	AccountID  string          `json:"accountId"`
	Note       string          `json:"note,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"` // chosen by the user
	CreatedAt  Timestamp       `json:"createdAt"`
	UpdatedAt  Timestamp       `json:"updatedAt"`
	IsDeleted  bool            `json:"isDeleted"`
}

// Signed returns the amount with the sign implied by the transaction type:
// positive for an income, negative for an expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionInput holds the user editable fields of a Transaction.
type TransactionInput struct {
	Amount     decimal.Decimal
	Type       TransactionType
	CategoryID string
	AccountID  string
	OccurredAt time.Time
	Note       string
}

func transactionID(t Transaction) string   { return t.ID }
func transactionActive(t Transaction) bool { return !t.IsDeleted }
