package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache on a Redis server, for serve
// deployments where multiple instances share one artifact cache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server described by a URL
// ("redis://[user:pass@]host:port/db") and verifies the connection
// with a ping. Connection failures are wrapped as retryable.
func NewRedisCache(ctx context.Context, url string) (Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, Retryable(fmt.Errorf("%w: ping %s: %v", ErrNetwork, opts.Addr, err))
	}

	return &RedisCache{client: client}, nil
}

// Get retrieves a value from Redis. A missing key is a cache miss,
// not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Retryable(fmt.Errorf("%w: get: %v", ErrNetwork, err))
	}
	return data, true, nil
}

// Set stores a value in Redis. A ttl of zero stores without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return Retryable(fmt.Errorf("%w: set: %v", ErrNetwork, err))
	}
	return nil
}

// Delete removes a value from Redis. Deleting a missing key is not an
// error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return Retryable(fmt.Errorf("%w: del: %v", ErrNetwork, err))
	}
	return nil
}

// Close releases the client's connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
