package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
)

// cmpOpts compares decimals by value and nil slices as empty ones.
var cmpOpts = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmpopts.EquateEmpty(),
}

// D is a helper for tests to create decimals from literals.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// noon returns noon UTC of the given day, far from any day boundary.
func noon(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }

// fakeClock returns a clock that advances one second on every call.
func fakeClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

// sequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// memGateway is an in-memory Gateway recording every save.
type memGateway struct {
	mu      sync.Mutex
	snap    *Snapshot
	saves   int
	failing bool
}

func (g *memGateway) Load(ctx context.Context) (Snapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.snap == nil {
		return Snapshot{}, false
	}
	return g.snap.Clone(), true
}

func (g *memGateway) Save(ctx context.Context, s Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saves++
	if g.failing {
		return fmt.Errorf("disk full: %w", ErrStorageUnavailable)
	}
	c := s.Clone()
	g.snap = &c
	return nil
}

func (g *memGateway) saved() (Snapshot, bool) { return g.Load(context.Background()) }

func (g *memGateway) setFailing(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failing = v
}

// openTest opens a ledger with a deterministic clock and ids.
func openTest(t *testing.T, g Gateway, opts ...Option) *Ledger {
	t.Helper()
	opts = append([]Option{
		WithClock(fakeClock(noon(2025, time.October, 1))),
		WithIDs(sequentialIDs("id")),
	}, opts...)
	l, err := Open(context.Background(), g, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := l.Close(context.Background()); err != nil && !errors.Is(err, ErrStorageUnavailable) {
			t.Errorf("Close() error = %v", err)
		}
	})
	return l
}

// mustAccount creates an account or fails the test.
func mustAccount(t *testing.T, l *Ledger, name, initial string) Account {
	t.Helper()
	a, err := l.CreateAccount(AccountInput{Name: name, InitialBalance: D(initial)})
	if err != nil {
		t.Fatalf("CreateAccount(%q) error = %v", name, err)
	}
	return a
}

// mustTransaction creates a transaction or fails the test.
func mustTransaction(t *testing.T, l *Ledger, in TransactionInput) Transaction {
	t.Helper()
	tx, err := l.CreateTransaction(in)
	if err != nil {
		t.Fatalf("CreateTransaction(%+v) error = %v", in, err)
	}
	return tx
}
