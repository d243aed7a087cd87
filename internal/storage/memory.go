// Package storage persists the process snapshot and bake history in a
// named-slot key-value store.
package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

// Compile-time interface check.
var _ domain.KVStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory key-value store. Safe for concurrent access.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
	log   *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		slots: make(map[string][]byte),
		log:   log,
	}
}

// Get returns a copy of the value stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[key]
	if !ok {
		s.log.Debug("slot not found: %s", key)
		return nil, domain.ErrNotFound
	}
	return slices.Clone(v), nil
}

// Put stores value under key. Overwrites if it already exists.
func (s *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("writing slot %s (%d bytes)", key, len(value))
	s.slots[key] = slices.Clone(value)
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, key)
	s.log.Debug("deleted slot %s", key)
	return nil
}
