package config

import "time"

// Backend selects a storage implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	// BackendNone disables the video cache.
	BackendNone Backend = "none"
)

// Config is the top-level navi configuration, corresponding to navi.yaml.
type Config struct {
	Data      DataConfig      `yaml:"data" koanf:"data"`
	Navigator NavigatorConfig `yaml:"navigator" koanf:"navigator"`
	Store     StoreConfig     `yaml:"store" koanf:"store"`
	Cache     CacheConfig     `yaml:"cache" koanf:"cache"`
	Redis     RedisConfig     `yaml:"redis" koanf:"redis"`
	YouTube   YouTubeConfig   `yaml:"youtube" koanf:"youtube"`
	Server    ServerConfig    `yaml:"server" koanf:"server"`
	Log       LogConfig       `yaml:"log" koanf:"log"`
	// MinTagCount is the frequency threshold of the judgment filters.
	MinTagCount int `yaml:"min_tag_count" koanf:"min_tag_count"`
}

// DataConfig locates the static datasets.
type DataConfig struct {
	Graph     string `yaml:"graph" koanf:"graph"`
	Judgments string `yaml:"judgments" koanf:"judgments"`
	Videos    string `yaml:"videos" koanf:"videos"`
	VideosRaw string `yaml:"videos_raw" koanf:"videos_raw"`
	// Taxonomy is optional; the embedded default is used when empty.
	Taxonomy string `yaml:"taxonomy" koanf:"taxonomy"`
}

type NavigatorConfig struct {
	StartNode    string `yaml:"start_node" koanf:"start_node"`
	ResultPrefix string `yaml:"result_prefix" koanf:"result_prefix"`
}

type StoreConfig struct {
	Backend Backend `yaml:"backend" koanf:"backend"`
	Dir     string  `yaml:"dir" koanf:"dir"`
	// TTL expires Redis sessions. Zero keeps them forever.
	TTL time.Duration `yaml:"ttl" koanf:"ttl"`
	// EncryptionKey seals stored sessions when set (base64, 32 bytes).
	EncryptionKey string `yaml:"encryption_key,omitempty" koanf:"encryption_key"`
	// FallbackKeys still decrypt sessions sealed before a key rotation.
	FallbackKeys []string `yaml:"fallback_keys,omitempty" koanf:"fallback_keys"`
}

type CacheConfig struct {
	Backend Backend       `yaml:"backend" koanf:"backend"`
	Dir     string        `yaml:"dir" koanf:"dir"`
	TTL     time.Duration `yaml:"ttl" koanf:"ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" koanf:"addr"`
	Password string `yaml:"password" koanf:"password"`
	DB       int    `yaml:"db" koanf:"db"`
}

type YouTubeConfig struct {
	// APIKey falls back to the YOUTUBE_API_KEY environment variable.
	APIKey     string `yaml:"api_key" koanf:"api_key"`
	Handle     string `yaml:"handle" koanf:"handle"`
	MaxResults int64  `yaml:"max_results" koanf:"max_results"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr" koanf:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" koanf:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format" koanf:"format"`
}
