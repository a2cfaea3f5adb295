// Package videos resolves the video carousel through the local dataset, a
// time-boxed cache and the remote provider, in that order.
package videos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meiyaku-knights/navi/internal/logging"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/ports"
)

// Source tells where a resolution came from.
type Source string

const (
	SourceLocal       Source = "local"
	SourceCache       Source = "cache"
	SourceRemote      Source = "remote"
	SourceFallback    Source = "fallback"
	SourceUnavailable Source = "unavailable"
)

const (
	DefaultTTL        = time.Hour
	DefaultMaxResults = 6
	DefaultHandle     = "@meiyaku_knights"
)

// UnavailableMessage accompanies the static link when nothing could be loaded.
const UnavailableMessage = "動画を読み込めませんでした。YouTubeチャンネルで最新動画をご覧ください。"

// Resolution is the outcome of Resolve. Videos is empty only for SourceUnavailable.
type Resolution struct {
	Videos []domain.Video `json:"videos"`
	Source Source         `json:"source"`
	// ChannelURL is set when Source is SourceUnavailable.
	ChannelURL string `json:"channel_url,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Loader runs the resolution chain.
type Loader struct {
	local    ports.VideoSource
	cache    ports.VideoCache
	remote   ports.RemoteFeed
	handle   string
	max      int64
	ttl      time.Duration
	cacheKey string
	now      func() time.Time
	logger   *slog.Logger
	observe  func(Source)
}

// Option configures the Loader.
type Option func(*Loader)

// WithCache enables the time-boxed cache.
func WithCache(c ports.VideoCache) Option {
	return func(l *Loader) { l.cache = c }
}

// WithRemote enables the remote provider for channel handle.
func WithRemote(r ports.RemoteFeed, handle string) Option {
	return func(l *Loader) {
		l.remote = r
		if handle != "" {
			l.handle = handle
		}
	}
}

// WithTTL sets how long a cache entry stays fresh.
func WithTTL(ttl time.Duration) Option {
	return func(l *Loader) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithMaxResults sets how many uploads the remote step asks for.
func WithMaxResults(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.max = n
		}
	}
}

// WithCacheKey overrides the cache key.
func WithCacheKey(key string) Option {
	return func(l *Loader) {
		if key != "" {
			l.cacheKey = key
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithObserver is called with the source of every resolution (metrics).
func WithObserver(fn func(Source)) Option {
	return func(l *Loader) { l.observe = fn }
}

// NewLoader creates a loader. local may be nil.
func NewLoader(local ports.VideoSource, opts ...Option) *Loader {
	l := &Loader{
		local:    local,
		handle:   DefaultHandle,
		max:      DefaultMaxResults,
		ttl:      DefaultTTL,
		cacheKey: domain.VideoCacheKey,
		now:      time.Now,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ChannelURL is the link offered when nothing could be loaded.
func (l *Loader) ChannelURL() string {
	return "https://www.youtube.com/" + l.handle
}

// Resolve returns the first success of: a non-empty local dataset, a fresh cache
// entry, the remote provider, the local dataset again, or the unavailable marker.
// It never returns an error; failures are logged and fall through.
func (l *Loader) Resolve(ctx context.Context) Resolution {
	res := l.resolve(ctx)
	if l.observe != nil {
		l.observe(res.Source)
	}
	l.logger.Info("videos resolved", "source", res.Source, "count", len(res.Videos))
	return res
}

func (l *Loader) resolve(ctx context.Context) Resolution {
	if videos, err := l.readLocal(ctx); err == nil && len(videos) > 0 {
		return Resolution{Videos: videos, Source: SourceLocal}
	} else if err != nil {
		l.logger.Debug("local dataset unavailable", "err", err)
	}

	if entry, ok := l.cached(ctx); ok {
		return Resolution{Videos: entry.Data, Source: SourceCache}
	}

	videos, err := l.fetch(ctx)
	if err == nil {
		return Resolution{Videos: videos, Source: SourceRemote}
	}
	l.logger.Warn("remote videos failed", "err", err)

	// The fallback accepts whatever the dataset holds, even an empty list.
	if videos, lerr := l.readLocal(ctx); lerr == nil {
		return Resolution{Videos: videos, Source: SourceFallback}
	}

	return Resolution{
		Videos:     []domain.Video{},
		Source:     SourceUnavailable,
		ChannelURL: l.ChannelURL(),
		Message:    UnavailableMessage,
	}
}

func (l *Loader) readLocal(ctx context.Context) ([]domain.Video, error) {
	if l.local == nil {
		return nil, errors.New("no local dataset configured")
	}
	return l.local.Videos(ctx)
}

// cached returns a fresh, usable entry. Corrupt or empty entries are pruned.
func (l *Loader) cached(ctx context.Context) (domain.CacheEntry, bool) {
	if l.cache == nil {
		return domain.CacheEntry{}, false
	}

	entry, err := l.cache.Get(ctx, l.cacheKey)
	switch {
	case errors.Is(err, domain.ErrCacheMiss):
		return domain.CacheEntry{}, false
	case err != nil:
		l.logger.Warn("pruning unreadable cache entry", "key", l.cacheKey, "err", err)
		l.prune(ctx)
		return domain.CacheEntry{}, false
	case len(entry.Data) == 0:
		l.logger.Debug("pruning empty cache entry", "key", l.cacheKey)
		l.prune(ctx)
		return domain.CacheEntry{}, false
	}

	if !entry.Fresh(l.now(), l.ttl) {
		l.logger.Debug("cache entry expired", "key", l.cacheKey, "timestamp", entry.Timestamp)
		return domain.CacheEntry{}, false
	}
	return entry, true
}

func (l *Loader) prune(ctx context.Context) {
	if err := l.cache.Delete(ctx, l.cacheKey); err != nil {
		l.logger.Warn("failed to prune cache", "key", l.cacheKey, "err", err)
	}
}

// fetch calls the remote provider and stores a successful result in the cache.
func (l *Loader) fetch(ctx context.Context) ([]domain.Video, error) {
	if l.remote == nil {
		return nil, errors.New("no remote provider configured")
	}

	videos, err := l.remote.Latest(ctx, l.handle, l.max)
	if err != nil {
		return nil, fmt.Errorf("remote latest %s: %w", l.handle, err)
	}

	if l.cache != nil {
		entry := domain.CacheEntry{Data: videos, Timestamp: l.now().UnixMilli()}
		if err := l.cache.Set(ctx, l.cacheKey, entry); err != nil {
			l.logger.Warn("failed to write video cache", "key", l.cacheKey, "err", err)
		}
	}
	return videos, nil
}
