// Package ledger provides the state engine of a local-first personal finance
// ledger. It records accounts and transactions, derives balances on demand and
// persists the whole state as a single snapshot for offline use.
//
// The package is organized in three layers:
//   - Store: the authoritative in-memory collections of accounts and
//     transactions, mutated only through a pure reducer (Reduce) fed with
//     Actions. It exposes an active-only read-model and balance derivation.
//   - Ledger: the public operation surface. It validates input, assigns ids
//     and timestamps, drives the Store and schedules a flush of the full
//     snapshot through a Gateway after every mutation.
//   - Snapshot: the durable document, encoded as JSON, versioned and migrated
//     on load. Concrete storage lives in the gateway package.
//
// Entities are never physically deleted: deleting an account or a transaction
// flips a soft-delete flag. Soft-deleted entities stay in the snapshot forever
// and are hidden from every read-model.
//
// Categories are a static reference table (see DefaultCategories) and are
// never mutated by the engine.
//
// This package serves as the foundational logic for the `ldg` command-line
// tool and the HTTP API.
package ledger
