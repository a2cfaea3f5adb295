package config

import (
	"time"

	"github.com/meiyaku-knights/navi/pkg/catalog"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/videos"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "navi.yaml"

// DefaultConfig returns a Config matching the static site layout.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Graph:     "data/survival-navi.json",
			Judgments: "data/judgments.json",
			Videos:    "data/youtube.json",
			VideosRaw: "data/youtube_raw.json",
		},
		Navigator: NavigatorConfig{
			StartNode:    domain.DefaultStartID,
			ResultPrefix: domain.DefaultResultPrefix,
		},
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     ".navi/sessions",
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     ".navi/cache",
			TTL:     videos.DefaultTTL,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		YouTube: YouTubeConfig{
			Handle:     videos.DefaultHandle,
			MaxResults: videos.DefaultMaxResults,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			RequestTimeout: 60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		MinTagCount: catalog.MinTagCount,
	}
}
