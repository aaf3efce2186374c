package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, time.Minute)
	if got, ok := c.Get("a"); !ok || got != 1 {
		t.Fatalf("Get(a) = %d, %v", got, ok)
	}

	c.Set("b", 2, -time.Second)
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expired entry should miss")
	}

	c.Set("c", 3, 0)
	if got, ok := c.Get("c"); !ok || got != 3 {
		t.Fatalf("zero TTL should never expire, got %d, %v", got, ok)
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("deleted entry should miss")
	}
}

func TestTTLCacheSweepsExpiredEntries(t *testing.T) {
	c := NewTTLCache[string, int]()

	for i := 0; i < sweepThreshold; i++ {
		c.Set(fmt.Sprintf("dead-%d", i), i, -time.Second)
	}
	// The next write crosses the threshold and sweeps the dead entries.
	c.Set("live", 1, time.Minute)

	if got := c.Len(); got != 1 {
		t.Fatalf("Len() = %d after sweep, want 1", got)
	}
	if _, ok := c.Get("live"); !ok {
		t.Fatalf("live entry lost in sweep")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *TTLCache[string, int]
	c.Set("a", 1, time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("nil cache should miss")
	}
	c.Delete("a")
	if c.Len() != 0 {
		t.Fatalf("nil cache Len should be 0")
	}
}
