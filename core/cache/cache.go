package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc builds the value for a key on a cache miss.
type LoadFunc[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value V
	built time.Time
}

// Cache is a keyed TTL cache. Concurrent misses for the same key share one load.
//
// Every Set and Invalidate bumps the key's generation. A load only stores its
// result when the generation it started under is still current, so a slow
// load never overwrites a newer value or resurrects an invalidated one.
type Cache[V any] struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]entry[V]
	gens    map[string]uint64
	sf      singleflight.Group
}

// New creates a cache whose entries expire after ttl. A zero ttl disables caching.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
		gens:    make(map[string]uint64),
	}
}

func (c *Cache[V]) expired(e entry[V]) bool {
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(e.built) > c.ttl
}

// Get returns the fresh value stored for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.expired(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value for key. Loads already in flight for key are discarded.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	c.gens[key]++
	if c.ttl > 0 {
		c.entries[key] = entry[V]{value: value, built: c.now()}
	}
	c.mu.Unlock()
	c.sf.Forget(key)
}

func (c *Cache[V]) generation(key string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[key]
}

// setIfCurrent stores value unless key changed since gen was read.
func (c *Cache[V]) setIfCurrent(key string, value V, gen uint64) bool {
	if c.ttl <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return false
	}
	c.entries[key] = entry[V]{value: value, built: c.now()}
	return true
}

// GetOrLoad returns the cached value for key, or runs load once across
// concurrent callers and stores its result.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	result, err, _ := c.sf.Do(key, func() (any, error) {
		// Double-check after winning the flight
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		gen := c.generation(key)
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.setIfCurrent(key, v, gen)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

// Invalidate removes key from the cache. Loads already in flight for key
// are discarded and later callers start a fresh load.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	c.gens[key]++
	delete(c.entries, key)
	c.mu.Unlock()
	c.sf.Forget(key)
}

// Purge drops expired entries and returns how many were removed.
func (c *Cache[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
