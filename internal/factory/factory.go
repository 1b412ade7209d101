package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mmunhall/dice-sack/internal/dependencies/clock"
	"github.com/mmunhall/dice-sack/internal/dependencies/ids"
	"github.com/mmunhall/dice-sack/internal/dependencies/random"
	"github.com/mmunhall/dice-sack/internal/events"
	"github.com/mmunhall/dice-sack/internal/model"
	"github.com/mmunhall/dice-sack/internal/services/history"
	"github.com/mmunhall/dice-sack/internal/services/turn"
	"github.com/mmunhall/dice-sack/internal/storage"
	"github.com/mmunhall/dice-sack/internal/storage/memory"
	redisstorage "github.com/mmunhall/dice-sack/internal/storage/redis"
	"github.com/mmunhall/dice-sack/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	IDs    ids.Generator

	// Services
	Hub            *events.Hub
	Roller         *model.Roller
	HistoryService *history.Service
	TurnController *turn.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// Turn sets the dice of the first turn
	// If zero value, defaults to turn.DefaultConfig()
	Turn turn.Config
	// Animation bounds animated rolls
	// If zero value, defaults to model.DefaultAnimationConfig()
	Animation model.AnimationConfig
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeSQLite:
		sqliteStore, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()
	gen := ids.New()

	turnCfg := cfg.Turn
	if turnCfg == (turn.Config{}) {
		turnCfg = turn.DefaultConfig()
	}
	animation := cfg.Animation
	if animation == (model.AnimationConfig{}) {
		animation = model.DefaultAnimationConfig()
	}

	app, err := newWithDependencies(store, clk, rnd, gen, turnCfg, animation, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	gen ids.Generator,
	turnCfg turn.Config,
	animation model.AnimationConfig,
	logger *slog.Logger,
) (*App, error) {
	hub := events.NewHub(logger)
	go hub.Run()

	roller := model.NewRoller(rnd, clk, animation, hub)
	historyService := history.New(store, roller, logger)
	turnController, err := turn.NewController(historyService, roller, gen, clk, turnCfg, logger)
	if err != nil {
		hub.Close()
		return nil, fmt.Errorf("start first turn: %w", err)
	}

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		IDs:            gen,
		Hub:            hub,
		Roller:         roller,
		HistoryService: historyService,
		TurnController: turnController,
	}, nil
}

// Close stops the event hub and releases the storage backend
func (a *App) Close() error {
	a.Hub.Close()
	return a.Storage.Close()
}
