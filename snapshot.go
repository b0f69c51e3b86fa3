package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts are persisted as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// SnapshotVersion is the schema version written by EncodeSnapshot.
//
// Version 0 is the legacy layout without the "version" field.
const SnapshotVersion = 1

// Snapshot is the complete durable state of a ledger: every account and every
// transaction, soft-deleted ones included, in insertion order.
type Snapshot struct {
	Version      int           `json:"version"`
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
}

// Clone returns a copy of s that shares no slice with it.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Version:      s.Version,
		Accounts:     slices.Clone(s.Accounts),
		Transactions: slices.Clone(s.Transactions),
	}
}

// MarshalSnapshot encodes s as a JSON document stamped with SnapshotVersion.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	s.Version = SnapshotVersion
	// write [] rather than null for empty collections.
	if s.Accounts == nil {
		s.Accounts = []Account{}
	}
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// EncodeSnapshot writes s to w as a single JSON document.
func EncodeSnapshot(w io.Writer, s Snapshot) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// UnmarshalSnapshot decodes a JSON document into a Snapshot, migrating older
// schema versions to SnapshotVersion. Documents written by a newer schema are
// refused with ErrSnapshotVersion.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("corrupt snapshot: %w", err)
	}
	if s.Version > SnapshotVersion || s.Version < 0 {
		return Snapshot{}, fmt.Errorf("snapshot version %d, want at most %d: %w", s.Version, SnapshotVersion, ErrSnapshotVersion)
	}
	migrate(&s)
	if err := validate(s); err != nil {
		return Snapshot{}, fmt.Errorf("corrupt snapshot: %w", err)
	}
	return s, nil
}

// DecodeSnapshot reads a whole JSON document from r, see UnmarshalSnapshot.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("could not read snapshot: %w", err)
	}
	return UnmarshalSnapshot(data)
}

// migrate upgrades s in place to SnapshotVersion.
func migrate(s *Snapshot) {
	if s.Version == 0 {
		// Legacy writers may have stored signed amounts: fold them into a
		// magnitude and an explicit type.
		for i, tx := range s.Transactions {
			if !tx.Amount.IsNegative() {
				continue
			}
			switch tx.Type {
			case Income:
				tx.Type = Expense
			case Expense:
				tx.Type = Income
			default:
				continue // left to validate
			}
			tx.Amount = tx.Amount.Neg()
			s.Transactions[i] = tx
		}
	}
	// clocks may have stepped back under any writer.
	for i, tx := range s.Transactions {
		s.Transactions[i].UpdatedAt = max(tx.UpdatedAt, tx.CreatedAt)
	}
	for i, a := range s.Accounts {
		s.Accounts[i].UpdatedAt = max(a.UpdatedAt, a.CreatedAt)
	}
	if s.Accounts == nil {
		s.Accounts = []Account{}
	}
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	s.Version = SnapshotVersion
}

// validate checks the records a migrated snapshot must never hold.
func validate(s Snapshot) error {
	for _, tx := range s.Transactions {
		if tx.Amount.IsNegative() {
			return fmt.Errorf("transaction %q has a negative amount %s: %w", tx.ID, tx.Amount, ErrInvalidInput)
		}
		if !tx.Type.Valid() {
			return fmt.Errorf("transaction %q has an unknown type %q: %w", tx.ID, tx.Type, ErrInvalidInput)
		}
	}
	return nil
}
