package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data     []byte
	storedAt time.Time
}

// MemoryStore is the default process-lifetime cache backend.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string, ttl time.Duration) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.now().Sub(entry.storedAt) >= ttl {
		// Expired entries must not be served again.
		delete(m.entries, key)
		return nil, false, nil
	}
	return entry.data, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{data: value, storedAt: m.now()}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
