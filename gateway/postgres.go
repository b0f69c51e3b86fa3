package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" driver
)

// DefaultPostgresSlot is the row name used when none is given.
const DefaultPostgresSlot = "default"

const createSlotsTable = `CREATE TABLE IF NOT EXISTS ledger_slots (
	name       TEXT PRIMARY KEY,
	data       BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresSlot stores the value in one row of the ledger_slots table.
type PostgresSlot struct {
	db   *sql.DB
	name string
}

// NewPostgresSlot creates the ledger_slots table if needed and returns the
// slot stored in its row name.
func NewPostgresSlot(ctx context.Context, db *sql.DB, name string) (*PostgresSlot, error) {
	if name == "" {
		name = DefaultPostgresSlot
	}
	if _, err := db.ExecContext(ctx, createSlotsTable); err != nil {
		return nil, fmt.Errorf("failed to create ledger_slots table: %w", err)
	}
	return &PostgresSlot{db: db, name: name}, nil
}

// Read returns the row data, ErrEmpty if the row does not exist.
func (s *PostgresSlot) Read(ctx context.Context) ([]byte, error) {
	const query = `SELECT data FROM ledger_slots WHERE name = $1`
	var data []byte
	err := s.db.QueryRowContext(ctx, query, s.name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", s.name, err)
	}
	return data, nil
}

// Write upserts the row.
func (s *PostgresSlot) Write(ctx context.Context, data []byte) error {
	const query = `INSERT INTO ledger_slots (name, data, updated_at) VALUES ($1, $2, now())
	ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, s.name, data); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", s.name, err)
	}
	return nil
}

// Close closes the database handle.
func (s *PostgresSlot) Close() error { return s.db.Close() }
