package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value    []byte
	storedAt time.Time
}

// Memory is a process-local Store. Expiry is lazy: an entry is dropped when a
// Get finds it stale, or by the sweep a Set runs once the map outgrows its
// capacity. There is no background goroutine.
type Memory struct {
	mu       sync.Mutex
	items    map[string]memoryEntry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

type MemoryOption func(*Memory)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates an in-memory cache.
// Non-positive ttl and capacity fall back to DefaultTTL and DefaultCapacity.
func NewMemory(ttl time.Duration, capacity int, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := &Memory{
		items:    make(map[string]memoryEntry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) expired(e memoryEntry, now time.Time) bool {
	return now.Sub(e.storedAt) >= m.ttl
}

// Get returns the value stored under key while it is younger than the TTL.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if m.expired(entry, m.now()) {
		delete(m.items, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores value under key, replacing any previous entry. When the map
// holds more than capacity entries afterwards, stale entries are swept.
// Fresh entries are never evicted, so the map may stay above capacity.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	// Copy to decouple from caller's buffer
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.items[key] = memoryEntry{value: valueCopy, storedAt: now}

	if len(m.items) > m.capacity {
		for k, e := range m.items {
			if m.expired(e, now) {
				delete(m.items, k)
			}
		}
	}
	return nil
}

// Len returns the number of entries currently held, stale ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Clear removes all items from cache. Useful for tests or manual resets.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.items = make(map[string]memoryEntry)
	m.mu.Unlock()
}
