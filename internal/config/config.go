// Package config loads navi settings from defaults, navi.yaml and NAVI_* variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/meiyaku-knights/navi/pkg/persistence/middleware"
)

// EnvPrefix marks navi environment overrides. A double underscore nests:
// NAVI_SERVER__ADDR sets server.addr.
const EnvPrefix = "NAVI_"

// APIKeyEnvVar is read when youtube.api_key is not configured.
const APIKeyEnvVar = "YOUTUBE_API_KEY"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv(APIKeyEnvVar)
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Save writes the configuration to the given YAML file path.
// The API key is never written.
func (c *Config) Save(path string) error {
	out := *c
	out.YouTube.APIKey = ""
	data, err := yamlv3.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validStores = map[Backend]bool{
	BackendMemory: true,
	BackendFile:   true,
	BackendRedis:  true,
}

var validCaches = map[Backend]bool{
	BackendMemory: true,
	BackendFile:   true,
	BackendRedis:  true,
	BackendNone:   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Data.Graph == "" {
		return fmt.Errorf("data.graph is required")
	}
	if c.Navigator.StartNode == "" {
		return fmt.Errorf("navigator.start_node is required")
	}
	if c.Navigator.ResultPrefix == "" {
		return fmt.Errorf("navigator.result_prefix is required")
	}
	if strings.HasPrefix(c.Navigator.StartNode, c.Navigator.ResultPrefix) {
		return fmt.Errorf("navigator.start_node %q must not use the result prefix", c.Navigator.StartNode)
	}

	if !validStores[c.Store.Backend] {
		return fmt.Errorf("invalid store.backend %q: must be one of memory, file, redis", c.Store.Backend)
	}
	if !validCaches[c.Cache.Backend] {
		return fmt.Errorf("invalid cache.backend %q: must be one of memory, file, redis, none", c.Cache.Backend)
	}
	if (c.Store.Backend == BackendRedis || c.Cache.Backend == BackendRedis) && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required for the redis backend")
	}
	if c.Store.Backend == BackendFile && c.Store.Dir == "" {
		return fmt.Errorf("store.dir is required for the file backend")
	}
	if c.Cache.Backend == BackendFile && c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required for the file backend")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("store.ttl must be non-negative")
	}
	if c.Store.EncryptionKey != "" {
		if _, err := middleware.ParseKeys(c.Store.EncryptionKey, c.Store.FallbackKeys...); err != nil {
			return fmt.Errorf("invalid store encryption: %w", err)
		}
	} else if len(c.Store.FallbackKeys) > 0 {
		return fmt.Errorf("store.fallback_keys requires store.encryption_key")
	}

	if c.YouTube.MaxResults < 1 || c.YouTube.MaxResults > 50 {
		return fmt.Errorf("youtube.max_results must be between 1 and 50")
	}
	if c.MinTagCount < 1 {
		return fmt.Errorf("min_tag_count must be positive")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}
	return nil
}
