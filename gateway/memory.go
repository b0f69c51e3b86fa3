package gateway

import (
	"context"
	"slices"
	"sync"
)

// MemorySlot keeps the value in memory. Safe for concurrent use.
type MemorySlot struct {
	mu   sync.RWMutex
	data []byte
	set  bool
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot { return &MemorySlot{} }

// Read returns a copy of the value.
func (s *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return nil, ErrEmpty
	}
	return slices.Clone(s.data), nil
}

// Write stores a copy of data.
func (s *MemorySlot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = slices.Clone(data)
	s.set = true
	return nil
}
