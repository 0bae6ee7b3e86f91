// ABOUTME: Redis-backed JSON cache for backend API responses
// ABOUTME: Caches the lead list and invalidates it on writes
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache stores JSON values with a TTL.
type Cache struct {
	*redis.Client
	prefix string
	ttl    time.Duration
}

// New wraps an existing client. Keys are namespaced under prefix.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		Client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Dial parses a redis:// URL and checks the server is reachable.
func Dial(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return New(client, "roofdesk:", ttl), nil
}

func (c *Cache) key(name string) string {
	return c.prefix + name
}

// GetJSON decodes the cached value into dest.
func (c *Cache) GetJSON(ctx context.Context, name string, dest interface{}) error {
	str, err := c.Get(ctx, c.key(name)).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal([]byte(str), dest)
}

// SetJSON stores value under name for the cache TTL.
func (c *Cache) SetJSON(ctx context.Context, name string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, c.key(name), data, c.ttl).Err()
}

// Invalidate drops the named keys. Deleting is always safe.
func (c *Cache) Invalidate(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = c.key(n)
	}
	return c.Del(ctx, keys...).Err()
}
