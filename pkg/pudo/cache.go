package pudo

import (
	"sync"
	"time"
)

// Cache is a TTL cache of lookup results keyed by country code, so
// concurrent lookups for different countries never evict each other.
type Cache struct {
	ttl     time.Duration
	entries map[string]cacheEntry
	mu      sync.Mutex
	now     func() time.Time
}

type cacheEntry struct {
	result    Result
	expiresAt time.Time
}

// NewCache creates a cache with the given time-to-live.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the live entry for a country, if any. An expired entry is
// removed and reported as a miss.
func (c *Cache) Get(country string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[country]
	if !ok {
		return Result{}, false
	}
	if !entry.expiresAt.After(c.now()) {
		delete(c.entries, country)
		return Result{}, false
	}
	return entry.result, true
}

// Put stores the lookup result for a country, replacing any prior entry.
func (c *Cache) Put(country string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[country] = cacheEntry{
		result:    result,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
