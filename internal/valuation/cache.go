package valuation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores encoded valuation responses by request key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	nowFunc func() time.Time
}

type cacheEntry struct {
	val []byte
	exp time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		nowFunc: time.Now,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && c.nowFunc().After(e.exp) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.val, true, nil
}

// Set implements Cache. A non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := cacheEntry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.exp = c.nowFunc().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

const redisKeyPrefix = "dg:valuation:"

// RedisCache shares valuation responses between replicas.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing Redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, redisKeyPrefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
