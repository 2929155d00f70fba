// Package cache holds short-lived per-session state in memory.
package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultExpiration uses the expiration the cache was created with.
const DefaultExpiration = cache.DefaultExpiration

type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	// Update replaces key with fn(current) atomically with respect to other
	// Update calls, and restarts its ttl.
	Update(key string, ttl time.Duration, fn func(current interface{}, found bool) interface{})
}

type goCache struct {
	store *cache.Cache
	mu    sync.Mutex
}

func NewCache(defaultExpiration, cleanupInterval time.Duration) Cache {
	return &goCache{store: cache.New(defaultExpiration, cleanupInterval)}
}

func (c *goCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *goCache) Set(key string, value interface{}, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

func (c *goCache) Update(key string, ttl time.Duration, fn func(current interface{}, found bool) interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, found := c.store.Get(key)
	c.store.Set(key, fn(current, found), ttl)
}

// GetFromCache reads key and asserts it to T. A value of another type counts
// as missing.
func GetFromCache[T any](c Cache, key string) (T, bool) {
	val, found := c.Get(key)
	if !found {
		var zero T
		return zero, false
	}
	typed, ok := val.(T)
	return typed, ok
}
