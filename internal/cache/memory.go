package cache

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold bounds the fallback backend: once the map grows past this
// many entries, Set evicts everything already expired.
const sweepThreshold = 100

type memoryEntry struct {
	value  []byte
	expiry time.Time
}

// Memory is the in-process fallback backend: a mutex-guarded map with lazy
// expiry on read and a bulk sweep when the entry count crosses
// sweepThreshold. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an in-process cache backend.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// NewMemoryWithClock creates an in-process backend with an injected clock,
// for tests that need to control expiry without sleeping.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (m *Memory) Get(_ context.Context, key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil
	}
	if !entry.expiry.After(m.now()) {
		delete(m.entries, key)
		return nil
	}
	return entry.value
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		value:  value,
		expiry: m.now().Add(ttl),
	}

	if len(m.entries) > sweepThreshold {
		m.sweepLocked()
	}
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

func (m *Memory) Flush(_ context.Context) {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
}

// Len reports the current entry count, expired entries included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// sweepLocked drops every expired entry. Caller holds m.mu.
func (m *Memory) sweepLocked() {
	now := m.now()
	for key, entry := range m.entries {
		if !entry.expiry.After(now) {
			delete(m.entries, key)
		}
	}
}
