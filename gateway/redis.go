package gateway

import (
	"context"
	"errors"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key used by RedisSlot unless WithKey is given.
const DefaultRedisKey = "minimal-ledger:state"

// RedisSlot stores the value under one Redis key.
type RedisSlot struct {
	client *backend.Client
	key    string
}

// RedisOption configures a RedisSlot.
type RedisOption func(*RedisSlot)

// WithKey sets the Redis key holding the snapshot.
func WithKey(key string) RedisOption {
	return func(s *RedisSlot) { s.key = key }
}

// NewRedisSlot creates a slot on a new client connected to address.
func NewRedisSlot(address, password string, db int, opts ...RedisOption) *RedisSlot {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisSlotFromClient(rdb, opts...)
}

// NewRedisSlotFromClient creates a slot using an existing client.
func NewRedisSlotFromClient(client *backend.Client, opts ...RedisOption) *RedisSlot {
	s := &RedisSlot{client: client, key: DefaultRedisKey}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the Redis key holding the snapshot.
func (s *RedisSlot) Key() string { return s.key }

// Read returns the value of the key, ErrEmpty if it does not exist.
func (s *RedisSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read redis key %q: %w", s.key, err)
	}
	return data, nil
}

// Write sets the key, without expiration.
func (s *RedisSlot) Write(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write redis key %q: %w", s.key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisSlot) Close() error { return s.client.Close() }
