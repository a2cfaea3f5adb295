package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Q1", cfg.Navigator.StartNode)
	assert.Equal(t, "End_", cfg.Navigator.ResultPrefix)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, int64(6), cfg.YouTube.MaxResults)
	assert.Equal(t, 20, cfg.MinTagCount)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(APIKeyEnvVar, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  graph: nav.yaml
store:
  backend: redis
cache:
  ttl: 30m
youtube:
  handle: "@other"
`), 0o644))

	t.Setenv("NAVI_SERVER__ADDR", ":9090")
	t.Setenv("NAVI_REDIS__DB", "3")
	t.Setenv("NAVI_MIN_TAG_COUNT", "5")
	t.Setenv(APIKeyEnvVar, "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "nav.yaml", cfg.Data.Graph)
	assert.Equal(t, "data/judgments.json", cfg.Data.Judgments, "defaults survive partial files")
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "@other", cfg.YouTube.Handle)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 5, cfg.MinTagCount)
	assert.Equal(t, "secret", cfg.YouTube.APIKey)
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv(APIKeyEnvVar, "")
	path := filepath.Join(t.TempDir(), "navi.yaml")

	original := DefaultConfig()
	original.Store.Backend = BackendMemory
	original.Server.AllowedOrigins = []string{"https://a.example", "https://b.example"}
	original.YouTube.APIKey = "do-not-write"

	require.NoError(t, original.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "do-not-write")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, loaded.Store.Backend)
	assert.Equal(t, original.Server.AllowedOrigins, loaded.Server.AllowedOrigins)
	assert.Equal(t, original.Cache.TTL, loaded.Cache.TTL)
	assert.Empty(t, loaded.YouTube.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"No Graph", func(c *Config) { c.Data.Graph = "" }, "data.graph"},
		{"Prefixed Start", func(c *Config) { c.Navigator.StartNode = "End_X" }, "result prefix"},
		{"Bad Store", func(c *Config) { c.Store.Backend = "sqlite" }, "store.backend"},
		{"None Store", func(c *Config) { c.Store.Backend = BackendNone }, "store.backend"},
		{"Redis Without Addr", func(c *Config) { c.Cache.Backend = BackendRedis; c.Redis.Addr = "" }, "redis.addr"},
		{"Zero TTL", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"Too Many Results", func(c *Config) { c.YouTube.MaxResults = 51 }, "max_results"},
		{"Bad Format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"Short Key", func(c *Config) { c.Store.EncryptionKey = "c2hvcnQ=" }, "store encryption"},
		{"Fallback Without Key", func(c *Config) { c.Store.FallbackKeys = []string{"x"} }, "requires store.encryption_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
