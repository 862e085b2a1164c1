package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching operations.
type Cache interface {
	// Get retrieves a value from the cache by key.
	// The second return value reports whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value in the cache with the given key and TTL.
	// Implementations may ignore the TTL.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	Delete(ctx context.Context, key string) error
}
