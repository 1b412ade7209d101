package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mmunhall/dice-sack/internal/config"
	"github.com/mmunhall/dice-sack/internal/factory"
	"github.com/mmunhall/dice-sack/internal/services/turn"
	redisstorage "github.com/mmunhall/dice-sack/internal/storage/redis"
)

// Options holds global CLI flags. Empty values leave the loaded
// configuration untouched.
type Options struct {
	ConfigPath string
	Storage    string
	SQLitePath string
	LogFile    string
	Output     string
	Verbose    bool
}

// DefaultOptions returns Options with default values
func DefaultOptions() *Options {
	return &Options{
		Output: "text",
	}
}

// Resolve loads the configuration file and environment, then applies flags
func (o *Options) Resolve() (config.Config, error) {
	settings, err := config.Load(o.ConfigPath, nil)
	if err != nil {
		return config.Config{}, err
	}

	if o.Storage != "" {
		settings.Storage = o.Storage
	}
	if o.SQLitePath != "" {
		settings.SQLitePath = o.SQLitePath
	}
	if o.Verbose {
		settings.LogLevel = "debug"
	}

	if err := settings.Validate(); err != nil {
		return config.Config{}, err
	}
	if o.Output != "text" && o.Output != "json" {
		return config.Config{}, fmt.Errorf("invalid output format %q (must be 'text' or 'json')", o.Output)
	}
	return settings, nil
}

// NewLogger builds the JSON logger. Logs go to the log file when one is set,
// otherwise to fallback; a nil fallback discards them.
func (o *Options) NewLogger(settings config.Config, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := settings.SlogLevel()
	if err != nil {
		return nil, nil, err
	}

	w := fallback
	var closer io.Closer = nopCloser{}
	if o.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(o.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}
	if w == nil {
		w = io.Discard
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	return logger, closer, nil
}

// factoryConfig translates settings into factory wiring
func factoryConfig(settings config.Config, logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		Logger:      logger,
		StorageType: settings.Storage,
		SQLitePath:  settings.SQLitePath,
		Turn: turn.Config{
			DiceCount: settings.DiceCount,
			Sides:     settings.Sides,
		},
	}

	if settings.Storage == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = settings.RedisURL
		redisCfg.HistoryTTL = settings.RedisTTL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
