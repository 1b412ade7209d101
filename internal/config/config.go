// Package config loads dicesack settings from defaults, an optional YAML
// file and DICESACK_ environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/mmunhall/dice-sack/internal/model"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

const (
	// EnvPrefix prefixes every environment variable
	EnvPrefix = "DICESACK_"

	// PathEnv names the variable holding the config file path
	PathEnv = EnvPrefix + "CONFIG"
)

// Config represents the dicesack configuration
type Config struct {
	Storage    string        `yaml:"storage" env:"STORAGE"`
	SQLitePath string        `yaml:"sqlite_path" env:"SQLITE_PATH"`
	RedisURL   string        `yaml:"redis_url" env:"REDIS_URL"`
	RedisTTL   time.Duration `yaml:"redis_ttl" env:"REDIS_TTL"` // 0 keeps history forever
	DiceCount  int           `yaml:"dice_count" env:"DICE_COUNT"`
	Sides      int           `yaml:"sides" env:"SIDES"`
	LogLevel   string        `yaml:"log_level" env:"LOG_LEVEL"`
	Animate    bool          `yaml:"animate" env:"ANIMATE"`
}

// Default returns the built-in configuration: six six-sided dice with
// history in a SQLite file under the user's home directory
func Default() Config {
	return Config{
		Storage:    StorageSQLite,
		SQLitePath: DefaultSQLitePath(),
		RedisURL:   "redis://localhost:6379",
		DiceCount:  6,
		Sides:      6,
		LogLevel:   "warn",
		Animate:    true,
	}
}

// DefaultSQLitePath returns ~/.dicesack/history.db, or a relative path if
// the home directory is unknown
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".dicesack", "history.db")
	}
	return filepath.Join(home, ".dicesack", "history.db")
}

// Load builds a Config. path may be empty, in which case DICESACK_CONFIG is
// consulted; with neither set no file is read. environ replaces the process
// environment when non-nil.
func Load(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = lookup(environ, PathEnv)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path. Keys absent from the file keep
// their current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage {
	case StorageMemory:
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			errs = append(errs, errors.New("sqlite_path is required for sqlite storage"))
		}
	case StorageRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			errs = append(errs, errors.New("redis_url is required for redis storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid storage %q (must be 'memory', 'redis' or 'sqlite')", c.Storage))
	}

	if c.RedisTTL < 0 {
		errs = append(errs, fmt.Errorf("redis_ttl must be >= 0, got %s", c.RedisTTL))
	}
	if c.DiceCount < 1 {
		errs = append(errs, fmt.Errorf("dice_count must be >= 1, got %d", c.DiceCount))
	}
	if c.Sides < 1 {
		errs = append(errs, fmt.Errorf("sides must be >= 1, got %d", c.Sides))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidArgument, err)
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error)
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

func lookup(environ map[string]string, key string) string {
	if environ != nil {
		return environ[key]
	}
	return os.Getenv(key)
}
