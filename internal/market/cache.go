package market

import (
	"strings"
	"sync"
)

// Cache memoises loader and derived-series results for the lifetime of the
// process, keyed by (operation, arguments). Entries are recomputed
// idempotently, so concurrent populate races resolve as last-writer-wins.
// The cache is owned by the caller and injected; there is no global.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewCache builds an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]any)}
}

func cacheKey(op string, args ...string) string {
	if len(args) == 0 {
		return op
	}
	return op + "|" + strings.Join(args, "|")
}

// Get returns the entry for (op, args) if present.
func (c *Cache) Get(op string, args ...string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[cacheKey(op, args...)]
	return value, ok
}

// Set stores an entry for (op, args), replacing any existing value.
func (c *Cache) Set(op string, value any, args ...string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(op, args...)] = value
}

// Invalidate removes every entry whose operation matches op. An empty op
// clears the whole cache.
func (c *Cache) Invalidate(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if op == "" {
		c.entries = make(map[string]any)
		return
	}
	for key := range c.entries {
		if key == op || strings.HasPrefix(key, op+"|") {
			delete(c.entries, key)
		}
	}
}
