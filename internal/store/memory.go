package store

import (
	"context"
	"sync"
)

// memoryStorage is a Storage kept entirely in process memory. It backs tests
// and ephemeral runs where no durable cache is wanted.
type memoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage returns an empty in-memory [Storage].
func NewMemoryStorage() Storage {
	return &memoryStorage{items: make(map[string]string)}
}

func (m *memoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *memoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *memoryStorage) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}
