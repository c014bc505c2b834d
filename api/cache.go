package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores successful response bodies for the revalidation window
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// RedisCache keeps response bodies in Redis under a namespaced key
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache creates a cache on the given Redis options
func NewRedisCache(opts *redis.Options, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "stockview"
	}
	return &RedisCache{rdb: redis.NewClient(opts), prefix: prefix}
}

func (c *RedisCache) key(k string) string {
	return fmt.Sprintf("%s:response:%s", c.prefix, k)
}

// Get returns the cached body, if present
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}
	return b, true, nil
}

// Set stores body for ttl
func (c *RedisCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, c.key(key), body, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Ping verifies Redis connectivity
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
