package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/pigdice-go/internal/api/sse"
	"github.com/mcoot/pigdice-go/internal/dependencies/clock"
	"github.com/mcoot/pigdice-go/internal/dependencies/ident"
	"github.com/mcoot/pigdice-go/internal/dependencies/random"
	"github.com/mcoot/pigdice-go/internal/model"
	"github.com/mcoot/pigdice-go/internal/services/bot"
	"github.com/mcoot/pigdice-go/internal/services/game"
	"github.com/mcoot/pigdice-go/internal/services/score"
	"github.com/mcoot/pigdice-go/internal/storage"
	"github.com/mcoot/pigdice-go/internal/storage/file"
	"github.com/mcoot/pigdice-go/internal/storage/memory"
	redisstorage "github.com/mcoot/pigdice-go/internal/storage/redis"
	"github.com/mcoot/pigdice-go/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
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
	Ident  ident.Generator

	// Services
	BotService     *bot.Service
	ScoreService   *score.Service
	GameController *game.Controller
	HubManager     *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "file",
	// "redis" or "sqlite"). If empty, defaults to "memory".
	StorageType string
	// ScorePath is the score file location (file storage only)
	// If empty, defaults to file.DefaultPath
	ScorePath string
	// SQLitePath is the database file location (required for sqlite)
	SQLitePath string
	// RedisConfig holds Redis connection settings (required for redis)
	RedisConfig *redisstorage.Config
	// Rules replaces the default rule set for new sessions (optional)
	Rules *model.Rules
	// CheatEnabled unlocks the cheat action for every session
	CheatEnabled bool
	// Thresholds overrides the computer's hold thresholds per difficulty
	Thresholds map[model.Difficulty]int
	// Seed fixes the dice RNG for reproducible runs (0 seeds from the
	// wall clock)
	Seed int64
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
	case StorageTypeFile:
		path := cfg.ScorePath
		if path == "" {
			path = file.DefaultPath
		}
		store = file.New(path, logger)
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
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'file', 'redis' or 'sqlite'")
	}

	// Resolve the rule set new sessions start from
	rules := model.DefaultRules()
	if cfg.Rules != nil {
		rules = *cfg.Rules
	}
	rules.CheatEnabled = cfg.CheatEnabled
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	var rnd random.Random
	if cfg.Seed != 0 {
		rnd = random.NewSeeded(cfg.Seed)
	} else {
		rnd = random.New()
	}
	idGen := ident.New()

	return newWithDependencies(store, clk, rnd, idGen, rules, bot.Config{Thresholds: cfg.Thresholds}, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	idGen ident.Generator,
	rules model.Rules,
	botCfg bot.Config,
	logger *slog.Logger,
) *App {
	// Create services
	botService := bot.NewService(botCfg, logger)
	scoreService := score.NewService(store, clk, logger)
	gameController := game.NewController(store, botService, scoreService, clk, rnd, idGen, rules, logger)
	hubManager := sse.NewHubManager(logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Ident:          idGen,
		BotService:     botService,
		ScoreService:   scoreService,
		GameController: gameController,
		HubManager:     hubManager,
	}
}
