package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	backend "github.com/redis/go-redis/v9"
)

// Open builds the slot described by dsn:
//
//	memory:                       in memory, lost on exit
//	file:<path> or <path>         a JSON file
//	redis://[:pass@]host:port/db  a Redis key, "?key=" overrides DefaultRedisKey
//	leveldb:<dir>                 a LevelDB database
//	postgres://...                a row of ledger_slots, "?slot=" overrides DefaultPostgresSlot
//
// Slots holding connections implement io.Closer.
func Open(ctx context.Context, dsn string) (Slot, error) {
	switch {
	case dsn == "":
		return nil, fmt.Errorf("empty storage location")
	case dsn == "memory:":
		return NewMemorySlot(), nil
	case strings.HasPrefix(dsn, "file:"):
		return NewFileSlot(strings.TrimPrefix(dsn, "file:")), nil
	case strings.HasPrefix(dsn, "leveldb:"):
		return OpenLevelDB(strings.TrimPrefix(dsn, "leveldb:"))
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return openRedis(dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return openPostgres(ctx, dsn)
	default:
		return NewFileSlot(dsn), nil
	}
}

func openRedis(dsn string) (Slot, error) {
	dsn, key, err := extractParam(dsn, "key")
	if err != nil {
		return nil, err
	}
	options, err := backend.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	var opts []RedisOption
	if key != "" {
		opts = append(opts, WithKey(key))
	}
	return NewRedisSlotFromClient(backend.NewClient(options), opts...), nil
}

func openPostgres(ctx context.Context, dsn string) (Slot, error) {
	dsn, name, err := extractParam(dsn, "slot")
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	slot, err := NewPostgresSlot(ctx, db, name)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return slot, nil
}

// extractParam removes the query parameter name from rawURL and returns its
// value. Drivers reject parameters they do not know.
func extractParam(rawURL, name string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid storage url: %w", err)
	}
	q := u.Query()
	value := q.Get(name)
	q.Del(name)
	u.RawQuery = q.Encode()
	return u.String(), value, nil
}
