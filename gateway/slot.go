// Package gateway persists ledger snapshots.
//
// A Gateway encodes the whole ledger as one JSON document and stores it in a
// Slot: a single durable value kept in a file, in Redis, in LevelDB, in
// PostgreSQL or in memory. Storage failures never reach the ledger state:
// loading falls back to "no snapshot" and saving only reports a signal.
package gateway

import (
	"context"
	"errors"
)

// ErrEmpty is returned by Slot.Read when nothing has been written yet.
var ErrEmpty = errors.New("slot is empty")

// Slot is a single durable value.
//
// Write replaces the whole value. Read returns the last written value, or
// ErrEmpty.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}
