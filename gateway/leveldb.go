package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// leveldbKey is the key of the snapshot in the database.
var leveldbKey = []byte("ledger/snapshot")

// LevelDBSlot stores the value under one key of a LevelDB database.
type LevelDBSlot struct {
	db *leveldb.DB
}

// OpenLevelDB opens, or creates, the database in dir.
func OpenLevelDB(dir string) (*LevelDBSlot, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb %q: %w", dir, err)
	}
	return NewLevelDBSlot(db), nil
}

// NewLevelDBSlot uses an already opened database.
func NewLevelDBSlot(db *leveldb.DB) *LevelDBSlot { return &LevelDBSlot{db: db} }

// Read returns the stored value, ErrEmpty if there is none.
func (s *LevelDBSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.db.Get(leveldbKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read leveldb: %w", err)
	}
	return data, nil
}

// Write stores data with a synced write.
func (s *LevelDBSlot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Put(leveldbKey, data, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("failed to write leveldb: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *LevelDBSlot) Close() error { return s.db.Close() }
