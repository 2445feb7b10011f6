package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a size-bounded LRU whose entries also expire after a fixed TTL.
type TTLCache[K comparable, V any] struct {
	lru *lru.Cache[K, cacheItem[V]]
	ttl time.Duration
	now func() time.Time
}

// NewTTLCache panics only when size is not positive.
func NewTTLCache[K comparable, V any](size int, ttl time.Duration) *TTLCache[K, V] {
	l, err := lru.New[K, cacheItem[V]](size)
	if err != nil {
		panic(err)
	}
	return &TTLCache[K, V]{lru: l, ttl: ttl, now: time.Now}
}

func (c *TTLCache[K, V]) Set(key K, value V) {
	c.lru.Add(key, cacheItem[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Get reports a miss for absent and expired keys. Expired keys are evicted.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	item, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(item.expiresAt) {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return item.value, true
}

func (c *TTLCache[K, V]) Len() int {
	return c.lru.Len()
}

// SetClock replaces the time source. Tests only.
func (c *TTLCache[K, V]) SetClock(now func() time.Time) {
	c.now = now
}
