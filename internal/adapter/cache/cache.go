// Package cache stores rendered export artifacts keyed by a content hash of
// the request, so identical exports skip the browser.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("key not found in cache")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// DefaultMemoryEntries bounds the in-process cache. Artifacts are whole
// exported files, so the bound keeps memory flat when Redis is absent.
const DefaultMemoryEntries = 128

// Memory is an in-process Cache used when Redis is not configured. Expired
// entries are swept on every Set; when the cache is full the entry stored
// earliest is evicted.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

type memoryEntry struct {
	value   []byte
	stored  time.Time
	expires time.Time
}

func NewMemory() *Memory {
	return NewMemoryWithLimit(DefaultMemoryEntries)
}

func NewMemoryWithLimit(maxEntries int) *Memory {
	if maxEntries < 1 {
		maxEntries = DefaultMemoryEntries
	}
	return &Memory{entries: map[string]memoryEntry{}, maxEntries: maxEntries, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	if e.expired(m.now()) {
		delete(m.entries, key)
		return nil, ErrNotFound
	}
	return e.value, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)

	if _, ok := m.entries[key]; !ok {
		for len(m.entries) >= m.maxEntries {
			m.evictOldest()
		}
	}
	e := memoryEntry{value: append([]byte(nil), value...), stored: now}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Len reports the number of entries held, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }

func (m *Memory) sweep(now time.Time) {
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
}

func (m *Memory) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for k, e := range m.entries {
		if !found || e.stored.Before(oldest) {
			oldestKey, oldest, found = k, e.stored, true
		}
	}
	if found {
		delete(m.entries, oldestKey)
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}
