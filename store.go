package ledger

import (
	"slices"

	"github.com/shopspring/decimal"
)

// State is the authoritative content of a Store: every account and every
// transaction in insertion order, soft-deleted ones included.
//
// A State is never modified in place, Reduce returns a new one.
type State struct {
	Accounts     []Account
	Transactions []Transaction
}

// Action is a mutation intent applied to a State by Reduce.
//
// The set of actions is closed: Hydrate, UpsertAccount, UpsertTransaction,
// MarkAccountDeleted and MarkTransactionDeleted.
type Action interface {
	action()
}

// Hydrate replaces the whole state with a loaded snapshot.
type Hydrate struct{ Snapshot Snapshot }

// UpsertAccount inserts Account if its id is unknown, else replaces the
// record with the same id.
type UpsertAccount struct{ Account Account }

// UpsertTransaction inserts Transaction if its id is unknown, else replaces
// the record with the same id.
type UpsertTransaction struct{ Transaction Transaction }

// MarkAccountDeleted soft-deletes the account ID.
type MarkAccountDeleted struct {
	ID        string
	UpdatedAt Timestamp
}

// MarkTransactionDeleted soft-deletes the transaction ID.
type MarkTransactionDeleted struct {
	ID        string
	UpdatedAt Timestamp
}

func (Hydrate) action()                {}
func (UpsertAccount) action()          {}
func (UpsertTransaction) action()      {}
func (MarkAccountDeleted) action()     {}
func (MarkTransactionDeleted) action() {}

// Reduce returns the state resulting from applying a to s. It has no side
// effect: s is left untouched. Unknown ids in delete marks are a no-op.
func Reduce(s State, a Action) State {
	switch v := a.(type) {
	case Hydrate:
		snap := v.Snapshot.Clone()
		return State{Accounts: snap.Accounts, Transactions: snap.Transactions}
	case UpsertAccount:
		s.Accounts = upsert(s.Accounts, v.Account, accountID)
	case UpsertTransaction:
		s.Transactions = upsert(s.Transactions, v.Transaction, transactionID)
	case MarkAccountDeleted:
		s.Accounts = update(s.Accounts, v.ID, accountID, func(a *Account) {
			a.IsDeleted = true
			a.UpdatedAt = v.UpdatedAt
		})
	case MarkTransactionDeleted:
		s.Transactions = update(s.Transactions, v.ID, transactionID, func(t *Transaction) {
			t.IsDeleted = true
			t.UpdatedAt = v.UpdatedAt
		})
	}
	return s
}

// upsert returns a copy of list where item replaces the element with the same
// id, or is appended.
func upsert[T any](list []T, item T, id func(T) string) []T {
	i := slices.IndexFunc(list, func(e T) bool { return id(e) == id(item) })
	if i < 0 {
		// Clip forces append to copy, list may be shared with older states.
		return append(slices.Clip(list), item)
	}
	next := slices.Clone(list)
	next[i] = item
	return next
}

// update returns a copy of list where the element with this id has been
// modified by f, or list itself if there is none.
func update[T any](list []T, key string, id func(T) string, f func(*T)) []T {
	i := slices.IndexFunc(list, func(e T) bool { return id(e) == key })
	if i < 0 {
		return list
	}
	next := slices.Clone(list)
	f(&next[i])
	return next
}

// active returns a copy of the elements of list accepted by keep.
func active[T any](list []T, keep func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, e := range list {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func find[T any](list []T, key string, id func(T) string) (T, bool) {
	i := slices.IndexFunc(list, func(e T) bool { return id(e) == key })
	if i < 0 {
		var zero T
		return zero, false
	}
	return list[i], true
}

// Store holds the authoritative ledger state and applies Actions to it.
//
// A Store is not safe for concurrent use, Ledger serializes access to it.
type Store struct {
	state State
}

// NewStore returns an empty Store.
func NewStore() *Store { return &Store{} }

// Dispatch applies a to the store state.
func (s *Store) Dispatch(a Action) { s.state = Reduce(s.state, a) }

// State returns the current state, soft-deleted entities included.
func (s *Store) State() State {
	return State{
		Accounts:     slices.Clone(s.state.Accounts),
		Transactions: slices.Clone(s.state.Transactions),
	}
}

// Snapshot returns the durable form of the current state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Version:      SnapshotVersion,
		Accounts:     slices.Clone(s.state.Accounts),
		Transactions: slices.Clone(s.state.Transactions),
	}
}

// Accounts returns the active accounts in insertion order.
func (s *Store) Accounts() []Account { return active(s.state.Accounts, accountActive) }

// Transactions returns the active transactions in insertion order.
func (s *Store) Transactions() []Transaction {
	return active(s.state.Transactions, transactionActive)
}

// Account returns the active account with this id.
func (s *Store) Account(id string) (Account, bool) {
	a, ok := s.lookupAccount(id)
	if !ok || a.IsDeleted {
		return Account{}, false
	}
	return a, true
}

// Transaction returns the active transaction with this id.
func (s *Store) Transaction(id string) (Transaction, bool) {
	t, ok := s.lookupTransaction(id)
	if !ok || t.IsDeleted {
		return Transaction{}, false
	}
	return t, true
}

// lookupAccount searches the full collection, soft-deleted accounts included.
func (s *Store) lookupAccount(id string) (Account, bool) {
	return find(s.state.Accounts, id, accountID)
}

// lookupTransaction searches the full collection, soft-deleted transactions
// included.
func (s *Store) lookupTransaction(id string) (Transaction, bool) {
	return find(s.state.Transactions, id, transactionID)
}

// AccountBalance derives the balance of an account: its initial balance plus
// incomes minus expenses over its non-deleted transactions.
//
// Unknown and soft-deleted accounts have a zero balance.
func (s *Store) AccountBalance(id string) decimal.Decimal {
	account, ok := s.Account(id)
	if !ok {
		return decimal.Zero
	}
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range s.state.Transactions {
		if tx.IsDeleted || tx.AccountID != id {
			continue
		}
		switch tx.Type {
		case Income:
			income = income.Add(tx.Amount)
		case Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return account.InitialBalance.Add(income).Sub(expense)
}
