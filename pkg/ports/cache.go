package ports

import (
	"context"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// VideoCache is the local key-value cache used by the video loader.
type VideoCache interface {
	// Get returns the entry stored under key or domain.ErrCacheMiss.
	// A stored value that cannot be decoded is reported as a non-miss error.
	Get(ctx context.Context, key string) (domain.CacheEntry, error)

	Set(ctx context.Context, key string, entry domain.CacheEntry) error

	Delete(ctx context.Context, key string) error
}
