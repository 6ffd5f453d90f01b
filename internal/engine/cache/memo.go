package cache

import (
	"sync"
)

// Stats reports memo usage.
type Stats struct {
	Entries int
	Hits    int
	Misses  int
}

// Memo is a bounded in-memory memo. Safe for concurrent use.
type Memo[V any] struct {
	maxEntries int

	mu      sync.RWMutex
	entries map[string]V
	order   []string
	hits    int
	misses  int
}

// NewMemo creates a memo holding at most maxEntries values. A non-positive
// bound means unbounded.
func NewMemo[V any](maxEntries int) *Memo[V] {
	return &Memo[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]V),
	}
}

// Get returns the value stored under key.
func (m *Memo[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.entries[key]
	if !ok {
		m.misses++
		return v, false
	}
	m.hits++
	return v, true
}

// Set stores value under key, evicting the oldest entry when full.
func (m *Memo[V]) Set(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; ok {
		m.entries[key] = value
		return
	}
	if m.maxEntries > 0 && len(m.order) >= m.maxEntries {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}
	m.entries[key] = value
	m.order = append(m.order, key)
}

// Stats returns a snapshot of memo usage.
func (m *Memo[V]) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{Entries: len(m.entries), Hits: m.hits, Misses: m.misses}
}
