// Package config loads the TOML configuration file for the server and CLI.
//
// All fields are optional; the zero config runs an in-memory store with
// caching disabled, which is what the CLI uses when no file is given.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Store backend names.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Cache backend names.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the top-level configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	Store StoreConfig `toml:"store"`
	Cache CacheConfig `toml:"cache"`
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Backend  string `toml:"backend"` // memory | mongo
	URI      string `toml:"uri"`     // mongo connection string
	Database string `toml:"database"`
}

// CacheConfig selects and configures the pipeline cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"` // none | file | redis
	Dir       string `toml:"dir"`     // file cache directory
	Addr      string `toml:"addr"`    // redis address
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr: ":8080",
		Store: StoreConfig{
			Backend: StoreMemory,
		},
		Cache: CacheConfig{
			Backend: CacheNone,
		},
	}
}

// Load reads a TOML config file, layered over [Default].
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks backend names and their required fields.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if c.Store.URI == "" {
			return fmt.Errorf("store.uri is required for the mongo backend")
		}
	default:
		return fmt.Errorf("invalid store.backend: %q (must be one of: memory, mongo)", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.Addr == "" {
			return fmt.Errorf("cache.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid cache.backend: %q (must be one of: none, file, redis)", c.Cache.Backend)
	}

	return nil
}
