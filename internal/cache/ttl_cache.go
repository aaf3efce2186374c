package cache

import (
	"sync"
	"time"
)

// Cache provides a minimal TTL cache interface for hot-path lookups,
// such as per-principal dashboard aggregates.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(key K)
}

// Sweeping kicks in once the map grows past this many entries. Callers
// that key on a store revision leave a dead entry behind on every
// mutation, so the cache has to clean up after itself.
const sweepThreshold = 512

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache stores values in-memory with per-entry TTLs. Expired entries
// are dropped lazily on read and swept in bulk when the map grows.
type TTLCache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]cacheEntry[V]
}

// NewTTLCache constructs a new TTLCache instance.
func NewTTLCache[K comparable, V any]() *TTLCache[K, V] {
	return &TTLCache[K, V]{items: make(map[K]cacheEntry[V])}
}

// Get returns a cached value if it exists and has not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if entry.expired(time.Now()) {
		c.Delete(key)
		return zero, false
	}
	return entry.value, true
}

// Set stores a value with the provided TTL. A zero TTL means no
// expiry; a negative one expires the entry immediately.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if c == nil {
		return
	}
	var expiresAt time.Time
	if ttl != 0 {
		expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	if len(c.items) >= sweepThreshold {
		c.sweepLocked(time.Now())
	}
	c.items[key] = cacheEntry[V]{
		value:     value,
		expiresAt: expiresAt,
	}
	c.mu.Unlock()
}

// Delete removes a cached entry.
func (c *TTLCache[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len reports the number of live entries, expired ones included until
// the next sweep.
func (c *TTLCache[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *TTLCache[K, V]) sweepLocked(now time.Time) {
	for key, entry := range c.items {
		if entry.expired(now) {
			delete(c.items, key)
		}
	}
}

func (e cacheEntry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NoopCache always returns cache misses and ignores writes.
type NoopCache[K comparable, V any] struct{}

// Get always returns a miss.
func (NoopCache[K, V]) Get(key K) (V, bool) {
	var zero V
	return zero, false
}

// Set is a no-op.
func (NoopCache[K, V]) Set(key K, value V, ttl time.Duration) {}

// Delete is a no-op.
func (NoopCache[K, V]) Delete(key K) {}
