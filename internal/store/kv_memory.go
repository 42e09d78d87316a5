package store

import (
	"context"
	"sync"
)

// memoryKVStore is the in-memory KVStore used when no database path is
// configured and in tests. Values survive only for the process lifetime.
type memoryKVStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryKVStore constructs an empty in-memory KVStore.
func NewMemoryKVStore() KVStore {
	return &memoryKVStore{items: make(map[string][]byte)}
}

func (s *memoryKVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *memoryKVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.items[key] = stored
	return nil
}

func (s *memoryKVStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

func (s *memoryKVStore) Close() error {
	return nil
}
