package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meiyaku-knights/navi/internal/fsutil"
	"github.com/meiyaku-knights/navi/pkg/domain"
)

// Cache implements ports.VideoCache as one JSON file per key, the terminal
// counterpart of the browser's local storage.
type Cache struct {
	Dir string
}

// NewCache creates a Cache rooted at dir (default ".navi/cache").
func NewCache(dir string) *Cache {
	if dir == "" {
		dir = filepath.Join(".navi", "cache")
	}
	return &Cache{Dir: dir}
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

func (c *Cache) Get(ctx context.Context, key string) (domain.CacheEntry, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.CacheEntry{}, domain.ErrCacheMiss
		}
		return domain.CacheEntry{}, fmt.Errorf("failed to read cache %s: %w", key, err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.CacheEntry{}, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return entry, nil
}

func (c *Cache) Set(ctx context.Context, key string, entry domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	return fsutil.WriteAtomic(c.path(key), data, 0o600)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache %s: %w", key, err)
	}
	return nil
}
