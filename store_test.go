package ledger

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func account(id, initial string) Account {
	return Account{ID: id, Name: id, InitialBalance: D(initial), CreatedAt: 1, UpdatedAt: 1}
}

func tx(id, accountID string, typ TransactionType, amount string) Transaction {
	return Transaction{ID: id, AccountID: accountID, Type: typ, Amount: D(amount), OccurredAt: noon(2025, time.October, 1), CreatedAt: 1, UpdatedAt: 1}
}

func TestReduce(t *testing.T) {
	base := State{
		Accounts:     []Account{account("a1", "100"), account("a2", "0")},
		Transactions: []Transaction{tx("t1", "a1", Expense, "30")},
	}

	renamed := account("a1", "100")
	renamed.Name = "Wallet"
	renamed.UpdatedAt = 5

	deletedA2 := account("a2", "0")
	deletedA2.IsDeleted = true
	deletedA2.UpdatedAt = 9

	deletedT1 := tx("t1", "a1", Expense, "30")
	deletedT1.IsDeleted = true
	deletedT1.UpdatedAt = 7

	testCases := []struct {
		name   string
		action Action
		want   State
	}{
		{
			name:   "hydrate replaces everything",
			action: Hydrate{Snapshot: Snapshot{Accounts: []Account{account("x", "1")}}},
			want:   State{Accounts: []Account{account("x", "1")}},
		},
		{
			name:   "upsert appends an unknown account",
			action: UpsertAccount{Account: account("a3", "5")},
			want: State{
				Accounts:     []Account{account("a1", "100"), account("a2", "0"), account("a3", "5")},
				Transactions: base.Transactions,
			},
		},
		{
			name:   "upsert replaces in place",
			action: UpsertAccount{Account: renamed},
			want: State{
				Accounts:     []Account{renamed, account("a2", "0")},
				Transactions: base.Transactions,
			},
		},
		{
			name:   "upsert appends an unknown transaction",
			action: UpsertTransaction{Transaction: tx("t2", "a2", Income, "12.5")},
			want: State{
				Accounts:     base.Accounts,
				Transactions: []Transaction{tx("t1", "a1", Expense, "30"), tx("t2", "a2", Income, "12.5")},
			},
		},
		{
			name:   "mark account deleted",
			action: MarkAccountDeleted{ID: "a2", UpdatedAt: 9},
			want: State{
				Accounts:     []Account{account("a1", "100"), deletedA2},
				Transactions: base.Transactions,
			},
		},
		{
			name:   "mark transaction deleted",
			action: MarkTransactionDeleted{ID: "t1", UpdatedAt: 7},
			want: State{
				Accounts:     base.Accounts,
				Transactions: []Transaction{deletedT1},
			},
		},
		{
			name:   "mark unknown account is a no-op",
			action: MarkAccountDeleted{ID: "nope", UpdatedAt: 9},
			want:   base,
		},
		{
			name:   "mark unknown transaction is a no-op",
			action: MarkTransactionDeleted{ID: "nope", UpdatedAt: 9},
			want:   base,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := State{
				Accounts:     append([]Account(nil), base.Accounts...),
				Transactions: append([]Transaction(nil), base.Transactions...),
			}
			got := Reduce(base, tc.action)
			if diff := cmp.Diff(tc.want, got, cmpOpts); diff != "" {
				t.Errorf("Reduce() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(before, base, cmpOpts); diff != "" {
				t.Errorf("Reduce() modified its input (-before +after):\n%s", diff)
			}
		})
	}
}

func TestReduce_SharedBacking(t *testing.T) {
	// a state with spare capacity must not leak appends into older states.
	accounts := make([]Account, 1, 4)
	accounts[0] = account("a1", "0")
	s0 := State{Accounts: accounts}

	s1 := Reduce(s0, UpsertAccount{Account: account("a2", "0")})
	s2 := Reduce(s0, UpsertAccount{Account: account("a3", "0")})

	if got := s1.Accounts[1].ID; got != "a2" {
		t.Errorf("s1.Accounts[1].ID = %q, want a2", got)
	}
	if got := s2.Accounts[1].ID; got != "a3" {
		t.Errorf("s2.Accounts[1].ID = %q, want a3", got)
	}
	if len(s0.Accounts) != 1 {
		t.Errorf("len(s0.Accounts) = %d, want 1", len(s0.Accounts))
	}
}

func TestStore_ReadModel(t *testing.T) {
	s := NewStore()
	s.Dispatch(UpsertAccount{Account: account("a1", "0")})
	s.Dispatch(UpsertAccount{Account: account("a2", "0")})
	s.Dispatch(UpsertAccount{Account: account("a3", "0")})
	s.Dispatch(MarkAccountDeleted{ID: "a2", UpdatedAt: 2})

	// updating a1 must keep it first.
	renamed := account("a1", "0")
	renamed.Name = "renamed"
	s.Dispatch(UpsertAccount{Account: renamed})

	var ids []string
	for _, a := range s.Accounts() {
		ids = append(ids, a.ID)
	}
	if diff := cmp.Diff([]string{"a1", "a3"}, ids); diff != "" {
		t.Errorf("Accounts() ids mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.Account("a2"); ok {
		t.Errorf("Account(a2) found a deleted account")
	}
	if _, ok := s.lookupAccount("a2"); !ok {
		t.Errorf("lookupAccount(a2) did not find the deleted account")
	}
	if got := len(s.Snapshot().Accounts); got != 3 {
		t.Errorf("len(Snapshot().Accounts) = %d, want 3", got)
	}

	// the read model is a copy.
	list := s.Accounts()
	list[0].Name = "tampered"
	if a, _ := s.Account("a1"); a.Name != "renamed" {
		t.Errorf("Account(a1).Name = %q, want renamed", a.Name)
	}
}

func TestStore_AccountBalance(t *testing.T) {
	s := NewStore()
	s.Dispatch(UpsertAccount{Account: account("a1", "100")})
	s.Dispatch(UpsertAccount{Account: account("a2", "-20")})
	s.Dispatch(UpsertTransaction{Transaction: tx("t1", "a1", Expense, "30")})
	s.Dispatch(UpsertTransaction{Transaction: tx("t2", "a1", Income, "12.50")})
	s.Dispatch(UpsertTransaction{Transaction: tx("t3", "a1", Expense, "1000")})
	s.Dispatch(MarkTransactionDeleted{ID: "t3", UpdatedAt: 2})
	s.Dispatch(UpsertTransaction{Transaction: tx("t4", "ghost", Income, "5")})

	testCases := []struct {
		id   string
		want decimal.Decimal
	}{
		{"a1", D("82.50")},
		{"a2", D("-20")},   // no transactions: the initial balance
		{"ghost", D("0")},  // dangling transactions do not make an account
		{"unknown", D("0")},
	}
	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			if got := s.AccountBalance(tc.id); !got.Equal(tc.want) {
				t.Errorf("AccountBalance(%q) = %s, want %s", tc.id, got, tc.want)
			}
		})
	}

	s.Dispatch(MarkAccountDeleted{ID: "a1", UpdatedAt: 3})
	if got := s.AccountBalance("a1"); !got.IsZero() {
		t.Errorf("AccountBalance(deleted) = %s, want 0", got)
	}
}

func TestStore_ReadModelRandomSequences(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprint("seed ", seed), func(t *testing.T) {
			r := rand.New(rand.NewPCG(seed, seed))
			s := NewStore()

			// expected state: ids in insertion order and their deleted flag.
			var accountIDs, txIDs []string
			accountDeleted := map[string]bool{}
			txDeleted := map[string]bool{}
			upsert := func(ids *[]string, deleted map[string]bool, id string, isDeleted bool) {
				if _, ok := deleted[id]; !ok {
					*ids = append(*ids, id)
				}
				deleted[id] = isDeleted
			}
			mark := func(deleted map[string]bool, id string) {
				if _, ok := deleted[id]; ok {
					deleted[id] = true
				}
			}

			for step := 0; step < 200; step++ {
				ts := Timestamp(step + 1)
				switch r.IntN(4) {
				case 0:
					a := account(fmt.Sprint("a", r.IntN(6)), "10")
					a.IsDeleted = r.IntN(5) == 0
					a.UpdatedAt = ts
					s.Dispatch(UpsertAccount{Account: a})
					upsert(&accountIDs, accountDeleted, a.ID, a.IsDeleted)
				case 1:
					typ := Expense
					if r.IntN(2) == 0 {
						typ = Income
					}
					rec := tx(fmt.Sprint("t", r.IntN(10)), fmt.Sprint("a", r.IntN(6)), typ, "1")
					rec.IsDeleted = r.IntN(5) == 0
					rec.UpdatedAt = ts
					s.Dispatch(UpsertTransaction{Transaction: rec})
					upsert(&txIDs, txDeleted, rec.ID, rec.IsDeleted)
				case 2:
					id := fmt.Sprint("a", r.IntN(7)) // a6 is never created
					s.Dispatch(MarkAccountDeleted{ID: id, UpdatedAt: ts})
					mark(accountDeleted, id)
				case 3:
					id := fmt.Sprint("t", r.IntN(11))
					s.Dispatch(MarkTransactionDeleted{ID: id, UpdatedAt: ts})
					mark(txDeleted, id)
				}

				var gotAccounts, wantAccounts []string
				for _, a := range s.Accounts() {
					if a.IsDeleted {
						t.Fatalf("step %d: Accounts() returned deleted account %q", step, a.ID)
					}
					gotAccounts = append(gotAccounts, a.ID)
				}
				for _, id := range accountIDs {
					if !accountDeleted[id] {
						wantAccounts = append(wantAccounts, id)
					}
				}
				if !slices.Equal(gotAccounts, wantAccounts) {
					t.Fatalf("step %d: Accounts() = %v, want %v", step, gotAccounts, wantAccounts)
				}

				var gotTxs, wantTxs []string
				for _, rec := range s.Transactions() {
					if rec.IsDeleted {
						t.Fatalf("step %d: Transactions() returned deleted transaction %q", step, rec.ID)
					}
					gotTxs = append(gotTxs, rec.ID)
				}
				for _, id := range txIDs {
					if !txDeleted[id] {
						wantTxs = append(wantTxs, id)
					}
				}
				if !slices.Equal(gotTxs, wantTxs) {
					t.Fatalf("step %d: Transactions() = %v, want %v", step, gotTxs, wantTxs)
				}

				for id, deleted := range accountDeleted {
					if _, ok := s.Account(id); ok == deleted {
						t.Fatalf("step %d: Account(%q) found = %v with deleted = %v", step, id, ok, deleted)
					}
					if deleted && !s.AccountBalance(id).IsZero() {
						t.Fatalf("step %d: AccountBalance(%q) of a deleted account = %s", step, id, s.AccountBalance(id))
					}
				}
			}
		})
	}
}
