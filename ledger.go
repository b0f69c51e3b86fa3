package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway is the durable storage of a ledger snapshot.
//
// Load reports false when there is no usable snapshot; it never fails. Save
// overwrites the whole document; its error is only a signal, the in-memory
// state stays authoritative.
type Gateway interface {
	Load(ctx context.Context) (Snapshot, bool)
	Save(ctx context.Context, s Snapshot) error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the source of the current time, time.Now by default.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDs sets the generator of entity ids, random UUIDs by default.
func WithIDs(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// WithCategories sets the category table, DefaultCategories by default.
func WithCategories(c *Categories) Option {
	return func(l *Ledger) { l.categories = c }
}

// WithLogger sets the logger, a discarding one by default.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// Ledger is the public operation surface of the ledger engine.
//
// It owns a Store, validates and stamps every mutation, and schedules a flush
// of the full snapshot through its Gateway after each of them. All methods
// are safe for concurrent use: calls are serialized.
//
// Mutations are refused with ErrNotReady until Hydrate has completed.
type Ledger struct {
	mu         sync.Mutex
	store      *Store
	gateway    Gateway
	categories *Categories
	now        func() time.Time
	newID      func() string
	logger     *slog.Logger

	ready   chan struct{}
	changes uint64 // number of applied actions, guarded by mu
	closed  bool   // guarded by mu

	// single writer flushing snapshots to the gateway.
	saveMu   sync.Mutex
	flushReq chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	errMu    sync.Mutex
	flushErr error
	flushed  uint64 // changes included in the last successful save
}

// New creates a Ledger on top of gateway. A nil gateway keeps the ledger in
// memory only. Call Hydrate before any mutation.
func New(gateway Gateway, opts ...Option) *Ledger {
	l := &Ledger{
		store:      NewStore(),
		gateway:    gateway,
		categories: DefaultCategories(),
		now:        time.Now,
		newID:      uuid.NewString,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		ready:      make(chan struct{}),
		flushReq:   make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open creates a Ledger and hydrates it from gateway.
func Open(ctx context.Context, gateway Gateway, opts ...Option) (*Ledger, error) {
	l := New(gateway, opts...)
	if err := l.Hydrate(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Hydrate loads the persisted snapshot, if any, into the store and marks the
// ledger ready. It only acts once, later calls are no-ops.
func (l *Ledger) Hydrate(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.isReady() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if l.gateway != nil {
		if snap, ok := l.gateway.Load(ctx); ok {
			l.store.Dispatch(Hydrate{Snapshot: snap})
			l.logger.Info("ledger hydrated", "accounts", len(snap.Accounts), "transactions", len(snap.Transactions))
		} else {
			l.logger.Info("no snapshot found, starting empty")
		}
		go l.writer()
	} else {
		close(l.done)
	}
	close(l.ready)
	return nil
}

// Ready returns a channel closed once the ledger has been hydrated.
func (l *Ledger) Ready() <-chan struct{} { return l.ready }

func (l *Ledger) isReady() bool {
	select {
	case <-l.ready:
		return true
	default:
		return false
	}
}

// Sync saves the current snapshot now and returns the gateway signal.
func (l *Ledger) Sync(ctx context.Context) error {
	if l.gateway == nil || !l.isReady() {
		return nil
	}
	return l.flush(ctx)
}

// Close stops the background writer and performs a last Sync if some
// changes have not been saved yet. Mutations are refused with ErrNotReady
// afterwards.
func (l *Ledger) Close(ctx context.Context) error {
	if !l.isReady() {
		return nil
	}
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.stopOnce.Do(func() { close(l.stop) })
	select {
	case <-l.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if !l.pending() {
		return nil
	}
	return l.Sync(ctx)
}

// pending reports whether some changes are not durable yet.
func (l *Ledger) pending() bool {
	l.mu.Lock()
	changes := l.changes
	l.mu.Unlock()
	l.errMu.Lock()
	defer l.errMu.Unlock()
	return l.flushed != changes || l.flushErr != nil
}

// Err returns the error of the last flush, nil if it succeeded.
func (l *Ledger) Err() error {
	l.errMu.Lock()
	defer l.errMu.Unlock()
	return l.flushErr
}

// writer saves the latest snapshot each time a flush is requested.
func (l *Ledger) writer() {
	defer close(l.done)
	for {
		select {
		case <-l.stop:
			return
		case <-l.flushReq:
			_ = l.flush(context.Background())
		}
	}
}

func (l *Ledger) flush(ctx context.Context) error {
	// saves happen one at a time, each with a snapshot at least as recent as
	// the previous one: the last write wins.
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	l.mu.Lock()
	snap := l.store.Snapshot()
	changes := l.changes
	l.mu.Unlock()

	err := l.gateway.Save(ctx, snap)
	l.errMu.Lock()
	l.flushErr = err
	if err == nil {
		l.flushed = changes
	}
	l.errMu.Unlock()
	if err != nil {
		l.logger.Warn("ledger not durable yet, retrying on next change", "error", err)
	}
	return err
}

// apply dispatches a to the store and schedules a flush. l.mu must be held.
func (l *Ledger) apply(a Action) {
	l.store.Dispatch(a)
	l.changes++
	if l.gateway == nil {
		return
	}
	select {
	case l.flushReq <- struct{}{}:
	default: // a flush is already pending, it will pick this change.
	}
}

// stamp returns the current timestamp, never earlier than the previous
// update time of the record.
func (l *Ledger) stamp(updatedAt Timestamp) Timestamp {
	return max(At(l.now()), updatedAt)
}

// writable returns why mutations are refused, if they are. l.mu must be held.
func (l *Ledger) writable() error {
	switch {
	case !l.isReady():
		return ErrNotReady
	case l.closed:
		return fmt.Errorf("ledger is closed: %w", ErrNotReady)
	}
	return nil
}

// CreateAccount creates an account. The name is trimmed and must not be
// empty.
func (l *Ledger) CreateAccount(in AccountInput) (Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writable(); err != nil {
		return Account{}, err
	}
	name, err := validateAccount(in)
	if err != nil {
		return Account{}, err
	}
	ts := At(l.now())
	a := Account{
		ID:             l.newID(),
		Name:           name,
		InitialBalance: in.InitialBalance,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	l.apply(UpsertAccount{Account: a})
	l.logger.Debug("account created", "id", a.ID)
	return a, nil
}

// UpdateAccount replaces the name and initial balance of an active account.
func (l *Ledger) UpdateAccount(id string, in AccountInput) (Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writable(); err != nil {
		return Account{}, err
	}
	existing, ok := l.store.Account(id)
	if !ok {
		return Account{}, fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	name, err := validateAccount(in)
	if err != nil {
		return Account{}, err
	}
	existing.Name = name
	existing.InitialBalance = in.InitialBalance
	existing.UpdatedAt = l.stamp(existing.UpdatedAt)
	l.apply(UpsertAccount{Account: existing})
	l.logger.Debug("account updated", "id", id)
	return existing, nil
}

// DeleteAccount soft-deletes an account. Its transactions are left as they
// are. Deleting an already deleted account is a no-op.
func (l *Ledger) DeleteAccount(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writable(); err != nil {
		return err
	}
	existing, ok := l.store.lookupAccount(id)
	if !ok {
		return fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	if existing.IsDeleted {
		return nil
	}
	l.apply(MarkAccountDeleted{ID: id, UpdatedAt: l.stamp(existing.UpdatedAt)})
	l.logger.Debug("account deleted", "id", id)
	return nil
}

// CreateTransaction records a transaction. The account and category ids are
// not checked: dangling references are tolerated.
func (l *Ledger) CreateTransaction(in TransactionInput) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writable(); err != nil {
		return Transaction{}, err
	}
	if err := validateTransaction(in); err != nil {
		return Transaction{}, err
	}
	ts := At(l.now())
	tx := Transaction{ID: l.newID(), CreatedAt: ts}
	tx = assign(tx, in)
	tx.UpdatedAt = ts
	l.apply(UpsertTransaction{Transaction: tx})
	l.logger.Debug("transaction created", "id", tx.ID, "account", tx.AccountID)
	return tx, nil
}

// UpdateTransaction replaces every mutable field of an active transaction.
func (l *Ledger) UpdateTransaction(id string, in TransactionInput) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writable(); err != nil {
		return Transaction{}, err
	}
	existing, ok := l.store.Transaction(id)
	if !ok {
		return Transaction{}, fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	if err := validateTransaction(in); err != nil {
		return Transaction{}, err
	}
	tx := assign(existing, in)
	tx.UpdatedAt = l.stamp(existing.UpdatedAt)
	l.apply(UpsertTransaction{Transaction: tx})
	l.logger.Debug("transaction updated", "id", id)
	return tx, nil
}

// DeleteTransaction soft-deletes a transaction. Deleting an already deleted
// transaction is a no-op.
func (l *Ledger) DeleteTransaction(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writable(); err != nil {
		return err
	}
	existing, ok := l.store.lookupTransaction(id)
	if !ok {
		return fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	if existing.IsDeleted {
		return nil
	}
	l.apply(MarkTransactionDeleted{ID: id, UpdatedAt: l.stamp(existing.UpdatedAt)})
	l.logger.Debug("transaction deleted", "id", id)
	return nil
}

func validateAccount(in AccountInput) (name string, err error) {
	name = strings.TrimSpace(in.Name)
	if name == "" {
		return "", fmt.Errorf("account name is empty: %w", ErrInvalidInput)
	}
	return name, nil
}

func validateTransaction(in TransactionInput) error {
	if in.Amount.IsNegative() {
		return fmt.Errorf("negative amount %s: %w", in.Amount, ErrInvalidInput)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("unknown transaction type %q: %w", in.Type, ErrInvalidInput)
	}
	if in.OccurredAt.IsZero() {
		return fmt.Errorf("missing occurrence time: %w", ErrInvalidInput)
	}
	return nil
}

// assign copies the input fields into tx.
func assign(tx Transaction, in TransactionInput) Transaction {
	tx.Amount = in.Amount
	tx.Type = in.Type
	tx.CategoryID = in.CategoryID
	tx.AccountID = in.AccountID
	tx.Note = strings.TrimSpace(in.Note)
	tx.OccurredAt = in.OccurredAt.UTC().Truncate(time.Millisecond)
	return tx
}

// Accounts returns the active accounts in creation order.
func (l *Ledger) Accounts() []Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Accounts()
}

// Transactions returns the active transactions in creation order.
func (l *Ledger) Transactions() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Transactions()
}

// Account returns the active account with this id.
func (l *Ledger) Account(id string) (Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Account(id)
}

// Transaction returns the active transaction with this id.
func (l *Ledger) Transaction(id string) (Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Transaction(id)
}

// AccountBalance returns the derived balance of an active account, zero for
// any other id.
func (l *Ledger) AccountBalance(id string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.AccountBalance(id)
}

// Category returns the category with this id.
func (l *Ledger) Category(id string) (Category, bool) { return l.categories.Get(id) }

// Categories returns the category table.
func (l *Ledger) Categories() *Categories { return l.categories }

// Snapshot returns the durable form of the ledger, soft-deleted entities
// included. It is meant for export, not as a read-model.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Snapshot()
}
