package client

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached GET payload stays fresh.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	payload  []byte
	storedAt time.Time
}

// ResponseCache is an in-memory TTL cache of GET payloads keyed by request
// signature (method + path + encoded query). Mutating verbs never touch it.
// Last writer wins; an expired entry counts as a miss and may be overwritten.
type ResponseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResponseCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.payload, true
}

func (c *ResponseCache) Put(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: payload, storedAt: c.now()}
}

// Delete drops a single entry. Callers use it to invalidate a known GET
// signature after a successful mutation on the same resource.
func (c *ResponseCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry. Invoked on any auth-state change so a new
// identity never sees data cached for the previous one.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cacheKey(method, path, rawQuery string) string {
	if rawQuery == "" {
		return method + " " + path
	}
	return method + " " + path + "?" + rawQuery
}
