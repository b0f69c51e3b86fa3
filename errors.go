package ledger

import "errors"

var (
	// ErrNotFound is returned when an operation references an id that the
	// ledger does not know, or that was soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for malformed amounts, unknown transaction
	// types or empty required text.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorageUnavailable signals a load or save failure in the persistence
	// layer. It never blocks the in-memory engine.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNotReady is returned by mutations attempted before the ledger has
	// been hydrated from storage.
	ErrNotReady = errors.New("ledger not ready")
	// ErrSnapshotVersion is returned when decoding a snapshot written by a
	// newer schema than this package supports.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
)
