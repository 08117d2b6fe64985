package store

import (
	"context"
	"strings"
	"sync"
	"time"
)

// janitorInterval controls how often the in-memory store reclaims expired entries.
const janitorInterval = time.Minute

type memoryEntry struct {
	value string

	// expiresAt is the zero time for entries without a TTL.
	expiresAt time.Time
}

// Memory is an in-process Store implementation backed by a mutex-guarded map.
//
// Expired entries are hidden from readers immediately and physically removed by a
// background janitor. Memory is safe for concurrent goroutines within one process
// but carries no cross-instance guarantees; it exists for single-instance
// deployments and tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	stop    chan struct{}
	once    sync.Once
}

// NewMemory creates an in-memory store and starts its expiry janitor.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}

	go m.runJanitor()

	return m
}

// Close stops the expiry janitor. The store remains usable afterwards, but
// expired entries are then only reclaimed lazily on access.
func (m *Memory) Close() {
	m.once.Do(func() {
		close(m.stop)
	})
}

func (m *Memory) runJanitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for key, entry := range m.entries {
				if entry.expired(now) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || entry.expired(time.Now()) {
		return "", false, nil
	}

	return entry.value, true, nil
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()

	return nil
}

// PutNX implements Store.
func (m *Memory) PutNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.entries[key]; ok && !existing.expired(time.Now()) {
		return false, nil
	}

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = entry

	return true, nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()

	return nil
}

// ListKeys implements Store.
func (m *Memory) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	now := time.Now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0)
	for key, entry := range m.entries {
		if strings.HasPrefix(key, prefix) && !entry.expired(now) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}
