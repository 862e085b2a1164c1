package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache provides Redis-backed caching so validation results can be
// shared across replicas. Redis failures are logged and reported as cache
// misses so the caller falls through to the upstream model.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis cache from a connection URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &RedisCache{
		client: redis.NewClient(opts),
		prefix: "validation:",
	}, nil
}

// makeKey creates a cache key by hashing, keeping arbitrary ingredient
// strings out of the Redis keyspace.
func (c *RedisCache) makeKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s%x", c.prefix, hash)
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	if c.client == nil {
		return "", false, nil
	}

	data, err := c.client.Get(ctx, c.makeKey(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		slog.Warn("Redis cache get failed", "error", err)
		return "", false, nil
	}

	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	if err := c.client.Set(ctx, c.makeKey(key), value, ttl).Err(); err != nil {
		slog.Warn("Redis cache set failed", "error", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.makeKey(key)).Err()
}

// Ping checks Redis connectivity, used by the health endpoint.
func (c *RedisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
