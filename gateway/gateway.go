package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/etnz/ledger"
)

// Load results, used as metric labels.
const (
	resultOK      = "ok"
	resultEmpty   = "empty"
	resultError   = "error"
	resultCorrupt = "corrupt"
)

// Gateway loads and saves ledger snapshots in a Slot. It implements
// ledger.Gateway.
type Gateway struct {
	slot    Slot
	logger  *slog.Logger
	metrics *Metrics
}

var _ ledger.Gateway = (*Gateway)(nil)

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger, a discarding one by default.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// WithMetrics sets the metrics recorded on every load and save.
func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// New creates a Gateway storing snapshots in slot.
func New(slot Slot, opts ...Option) *Gateway {
	g := &Gateway{
		slot:   slot,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load reads the snapshot from the slot.
//
// It reports false when there is no usable snapshot: an empty slot, a read
// failure, a corrupt document or one written by a newer version. The cause
// is logged, never returned.
func (g *Gateway) Load(ctx context.Context) (ledger.Snapshot, bool) {
	data, err := g.slot.Read(ctx)
	if errors.Is(err, ErrEmpty) {
		g.logger.Info("no persisted snapshot")
		g.metrics.load(resultEmpty)
		return ledger.Snapshot{}, false
	}
	if err != nil {
		g.logger.Warn("failed to load snapshot, starting empty", "error", err)
		g.metrics.load(resultError)
		return ledger.Snapshot{}, false
	}

	snap, err := ledger.UnmarshalSnapshot(data)
	if err != nil {
		g.logger.Warn("ignoring unreadable snapshot", "error", err, "bytes", len(data))
		g.metrics.load(resultCorrupt)
		return ledger.Snapshot{}, false
	}
	g.metrics.load(resultOK)
	return snap, true
}

// Save overwrites the slot with snap.
//
// A failure is logged and returned wrapping ledger.ErrStorageUnavailable.
func (g *Gateway) Save(ctx context.Context, snap ledger.Snapshot) error {
	start := time.Now()
	err := g.save(ctx, snap)
	if err != nil {
		g.metrics.save(resultError, time.Since(start))
		g.logger.Error("failed to save snapshot", "error", err)
		return fmt.Errorf("%w: %w", ledger.ErrStorageUnavailable, err)
	}
	g.metrics.save(resultOK, time.Since(start))
	g.logger.Debug("snapshot saved", "accounts", len(snap.Accounts), "transactions", len(snap.Transactions))
	return nil
}

func (g *Gateway) save(ctx context.Context, snap ledger.Snapshot) error {
	data, err := ledger.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	return g.slot.Write(ctx, data)
}

// Close releases the slot resources, if any.
func (g *Gateway) Close() error { return closeSlot(g.slot) }

func closeSlot(s Slot) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
