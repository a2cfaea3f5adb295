package memory

import (
	"context"
	"sync"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// Cache implements ports.VideoCache in memory.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]domain.CacheEntry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]domain.CacheEntry)}
}

func (c *Cache) Get(ctx context.Context, key string) (domain.CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.CacheEntry{}, domain.ErrCacheMiss
	}
	e.Data = append([]domain.Video(nil), e.Data...)
	return e, nil
}

func (c *Cache) Set(ctx context.Context, key string, entry domain.CacheEntry) error {
	entry.Data = append([]domain.Video(nil), entry.Data...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
