package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Entry is a single cache entry with expiration.
type Entry struct {
	Value     any
	ExpiresAt time.Time
	Hits      int
}

// Cache is a bounded, thread-safe in-memory cache with TTL support.
// Expired entries are dropped lazily on Get; ClearExpired sweeps the rest.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	defaultTTL time.Duration
	maxSize    int
	hits       int
	misses     int
	now        func() time.Time
}

// Stats is the read-only diagnostic snapshot of cache performance.
type Stats struct {
	Size    int    `json:"size"`
	Hits    int    `json:"hits"`
	Misses  int    `json:"misses"`
	HitRate string `json:"hit_rate"`
}

// ------------------------------------------------------------------------------------------------------
// New creates a cache that holds at most maxSize entries; defaultTTL applies
// when Set is called with a non-positive TTL.
func New(defaultTTL time.Duration, maxSize int) *Cache {
	return &Cache{
		entries:    make(map[string]*Entry),
		defaultTTL: defaultTTL,
		maxSize:    maxSize,
		now:        time.Now,
	}
}

// ------------------------------------------------------------------------------------------------------
// Get returns the value for key. An expired entry counts as a miss and is
// removed on the spot.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	if c.now().After(entry.ExpiresAt) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}

	entry.Hits++
	c.hits++
	return entry.Value, true
}

// ------------------------------------------------------------------------------------------------------
// Set stores value under key. When the cache is full the entries closest to
// expiry are evicted first, so the store never grows past maxSize.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &Entry{
		Value:     value,
		ExpiresAt: c.now().Add(ttl),
	}
}

// ------------------------------------------------------------------------------------------------------
// Delete removes key and reports whether it was present.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		return true
	}
	return false
}

// ------------------------------------------------------------------------------------------------------
// Clear removes all entries. Hit and miss counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
}

// ------------------------------------------------------------------------------------------------------
// ClearExpired sweeps every expired entry and returns how many were removed.
// This is the only eager sweep; nothing runs in the background.
func (c *Cache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// ------------------------------------------------------------------------------------------------------
// evictOldest drops the entries with the nearest expiry, at least one and at
// most a tenth of the store. Nearest-expiry is a proxy for recency: entries
// written longest ago expire soonest under a uniform TTL.
// Caller must hold c.mu.
func (c *Cache) evictOldest() {
	type keyed struct {
		key       string
		expiresAt time.Time
	}

	sorted := make([]keyed, 0, len(c.entries))
	for key, entry := range c.entries {
		sorted = append(sorted, keyed{key: key, expiresAt: entry.ExpiresAt})
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].expiresAt.Before(sorted[j].expiresAt)
	})

	evictCount := (len(sorted) + 9) / 10
	if evictCount < 1 {
		evictCount = 1
	}
	for _, item := range sorted[:evictCount] {
		delete(c.entries, item.key)
	}
}

// ------------------------------------------------------------------------------------------------------
// Stats returns the current size and hit/miss counters. The hit rate is
// pre-formatted for the diagnostic surfaces that display it.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total) * 100
	}

	return Stats{
		Size:    len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: fmt.Sprintf("%.1f%%", hitRate),
	}
}
