package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultLRUSize is the default number of entries retained in an LRUCache.
const DefaultLRUSize = 128

// LRUCache is an in-process, bounded-size cache with least-recently-used
// eviction. It is safe for concurrent use and ignores TTLs: entries live
// until evicted by capacity pressure or the process exits.
type LRUCache struct {
	inner *lru.Cache[string, string]
}

// NewLRUCache creates an LRUCache holding at most size entries. A size of
// zero or less falls back to DefaultLRUSize.
func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	inner, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{inner: inner}, nil
}

// Get retrieves a value by key, marking the entry as recently used.
func (c *LRUCache) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := c.inner.Get(key)
	return value, ok, nil
}

// Set stores a value, evicting the least-recently-used entry when full.
func (c *LRUCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.inner.Add(key, value)
	return nil
}

// Delete removes a value by key.
func (c *LRUCache) Delete(_ context.Context, key string) error {
	c.inner.Remove(key)
	return nil
}

// Len returns the number of cached entries.
func (c *LRUCache) Len() int {
	return c.inner.Len()
}
