// Package cache holds the response cache shared by every request the
// brokerage gateway serves. Entries are refreshed by overwrite; nothing is
// ever evicted, so keys must come from a small bounded set.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache stores raw response bodies by key. ttl is the freshness window the
// caller wants for that key: Get reports a hit only for entries younger than
// ttl, and Set may use it as a storage expiry.
type Cache interface {
	Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type entry struct {
	value    []byte
	storedAt time.Time
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithClock(time.Now)
}

// NewMemoryCacheWithClock is NewMemoryCache with an injected clock.
func NewMemoryCacheWithClock(now func() time.Time) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Get returns the value for key if it was stored less than ttl ago.
func (c *MemoryCache) Get(_ context.Context, key string, ttl time.Duration) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.storedAt) >= ttl {
		return nil, false
	}
	return e.value, true
}

// Set overwrites the entry for key and restamps it.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

// Len reports the number of keys held.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
