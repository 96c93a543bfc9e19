package client

import (
	"testing"
	"time"
)

func TestCacheHitWithinTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewResponseCache(5 * time.Minute)
	c.now = func() time.Time { return now }

	key := cacheKey("GET", "/products", "page=1")
	c.Put(key, []byte(`{"ok":true}`))

	now = now.Add(5*time.Minute - time.Second)
	payload, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit just inside TTL")
	}
	if string(payload) != `{"ok":true}` {
		t.Fatalf("unexpected payload: %s", payload)
	}
}

func TestCacheMissAfterTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewResponseCache(5 * time.Minute)
	c.now = func() time.Time { return now }

	key := cacheKey("GET", "/products", "")
	c.Put(key, []byte(`{}`))

	now = now.Add(5*time.Minute + time.Second)
	if _, ok := c.Get(key); ok {
		t.Fatal("expected cache miss after TTL")
	}
	// Expired entry must have been evicted, not just skipped.
	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped, have %d entries", c.Len())
	}
}

func TestCacheClear(t *testing.T) {
	c := NewResponseCache(time.Minute)
	c.Put(cacheKey("GET", "/a", ""), []byte(`1`))
	c.Put(cacheKey("GET", "/b", "x=1"), []byte(`2`))

	c.Clear()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache, have %d entries", c.Len())
	}
	if _, ok := c.Get(cacheKey("GET", "/a", "")); ok {
		t.Fatal("expected miss after clear")
	}
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	a := cacheKey("GET", "/products", "page=1")
	b := cacheKey("GET", "/products", "page=2")
	if a == b {
		t.Fatal("expected distinct keys for distinct queries")
	}
	if cacheKey("GET", "/products", "") != "GET /products" {
		t.Fatalf("unexpected key format: %q", cacheKey("GET", "/products", ""))
	}
}
