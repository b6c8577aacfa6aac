package geo

import (
	"fmt"
	"sync"

	"fieldlens/ports"
)

// CacheKey builds the memo key for a coordinate pair, rounded to 4 decimal
// places (~11 m). Rounding before keying maximizes cache reuse and keeps
// provider load down.
func CacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}

// BoundedCache is an in-memory ports.GeocodeCache with a fixed capacity.
// When full, the oldest entry is evicted in insertion order. Entries never
// expire within the process lifetime.
//
// The geocoder writes sequentially by construction, but the cache still
// carries a mutex because independent report runs may share it.
type BoundedCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]ports.GeocodeResult
	order   []string
}

// NewBoundedCache creates a cache holding at most max entries.
func NewBoundedCache(max int) *BoundedCache {
	if max <= 0 {
		max = 1
	}
	return &BoundedCache{
		max:     max,
		entries: make(map[string]ports.GeocodeResult, max),
	}
}

// Get returns the cached result for key, if present.
func (c *BoundedCache) Get(key string) (ports.GeocodeResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[key]
	return result, ok
}

// Set stores a result, evicting the oldest entry when at capacity.
func (c *BoundedCache) Set(key string, value ports.GeocodeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}
	if len(c.entries) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = value
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *BoundedCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
