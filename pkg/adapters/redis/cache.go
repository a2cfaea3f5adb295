package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/meiyaku-knights/navi/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Cache implements ports.VideoCache on Redis so every API replica shares one feed.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// CacheOption configures the Cache.
type CacheOption func(*Cache)

// WithCachePrefix sets the key prefix (default "navi:cache:").
func WithCachePrefix(prefix string) CacheOption {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// WithCacheExpiry lets Redis evict entries after ttl. Freshness is still decided
// by the entry timestamp; this only bounds storage.
func WithCacheExpiry(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// NewCache creates a cache on an existing client.
func NewCache(client *backend.Client, opts ...CacheOption) *Cache {
	c := &Cache{client: client, prefix: "navi:cache:"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Get(ctx context.Context, key string) (domain.CacheEntry, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.CacheEntry{}, domain.ErrCacheMiss
		}
		return domain.CacheEntry{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(val, &entry); err != nil {
		return domain.CacheEntry{}, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return entry, nil
}

func (c *Cache) Set(ctx context.Context, key string, entry domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache to redis: %w", err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
