package checkout

import (
	"sync"
	"time"
)

type cacheEntry struct {
	variantID string
	storedAt  time.Time
}

// VariantCache remembers resolved merchandise ids for the process lifetime.
// A zero TTL means entries never expire; InvalidateAll is the manual refresh.
// Concurrent lookups of the same key may both miss and both Set, last write wins.
type VariantCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewVariantCache(ttl time.Duration, now func() time.Time) *VariantCache {
	if now == nil {
		now = time.Now
	}
	return &VariantCache{ttl: ttl, now: now, entries: map[string]cacheEntry{}}
}

func (c *VariantCache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) >= c.ttl {
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.storedAt.Equal(entry.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false
	}
	return entry.variantID, true
}

// Set ignores empty ids so misses are always retried.
func (c *VariantCache) Set(key, variantID string) {
	if variantID == "" {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{variantID: variantID, storedAt: c.now()}
	c.mu.Unlock()
}

// InvalidateAll drops every entry and returns how many were removed.
func (c *VariantCache) InvalidateAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = map[string]cacheEntry{}
	return n
}

func (c *VariantCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
