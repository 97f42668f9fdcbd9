package repository

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is a process-local CacheRepository. It keeps at most limit
// entries, evicting the oldest first, and drops entries older than ttl.
type MemoryCache struct {
	mu    sync.Mutex
	limit int
	ttl   time.Duration
	order []string
	data  map[string]memoryEntry
	now   func() time.Time
}

// NewMemoryCache creates a memory cache. A limit below 1 or a ttl of zero
// disables that bound.
func NewMemoryCache(limit int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		limit: limit,
		ttl:   ttl,
		data:  make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return "", false
	}
	if m.expired(e) {
		m.remove(key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; exists {
		m.remove(key)
	}
	e := memoryEntry{value: value}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.data[key] = e
	m.order = append(m.order, key)

	for m.limit > 0 && len(m.order) > m.limit {
		delete(m.data, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *MemoryCache) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

func (m *MemoryCache) remove(key string) {
	delete(m.data, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}
