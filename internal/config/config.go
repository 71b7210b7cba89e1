// Package config loads the archsketch configuration file.
//
// Configuration lives at ~/.config/archsketch/config.toml (override with
// ARCHSKETCH_CONFIG). A missing file is not an error: every field has a
// working default so the CLI runs unconfigured.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/archsketch/archsketch/pkg/errors"
)

// Cache backend names.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Store backend names.
const (
	StoreBackendFile  = "file"
	StoreBackendMongo = "mongo"
)

// Config is the full configuration tree.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Layout LayoutConfig `toml:"layout"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// KeyPrefix namespaces keys when a Redis instance is shared.
	KeyPrefix string `toml:"key_prefix"`
}

// StoreConfig selects and configures the round store backend.
type StoreConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LayoutConfig overrides diagram geometry. Zero values keep the built-in
// defaults.
type LayoutConfig struct {
	CanvasWidth  float64 `toml:"canvas_width"`
	LayerSpacing float64 `toml:"layer_spacing"`
	NodeSpacing  float64 `toml:"node_spacing"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		Store: StoreConfig{
			Backend:       StoreBackendFile,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "archsketch",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns the config file location, honoring the
// ARCHSKETCH_CONFIG override.
func DefaultPath() string {
	if p := os.Getenv("ARCHSKETCH_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "archsketch", "config.toml")
}

// Load reads the config file at path, falling back to [DefaultPath] when
// path is empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend: %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreBackendFile, StoreBackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend: %q", c.Store.Backend)
	}
	if c.Layout.CanvasWidth < 0 || c.Layout.LayerSpacing < 0 || c.Layout.NodeSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout dimensions must be positive")
	}
	return nil
}

// CacheDir returns the configured cache directory or the per-user
// default.
func (c CacheConfig) CacheDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return ".archsketch-cache"
	}
	return filepath.Join(base, "archsketch")
}
