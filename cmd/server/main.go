package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/pigdice-go/internal/api"
	"github.com/mcoot/pigdice-go/internal/factory"
	"github.com/mcoot/pigdice-go/internal/model"
	redisstorage "github.com/mcoot/pigdice-go/internal/storage/redis"
)

// config is the server configuration, parsed from PIGDICE_* environment
// variables
type config struct {
	Host         string     `env:"PIGDICE_HOST"`
	Port         int        `env:"PIGDICE_PORT" envDefault:"8080"`
	LogLevel     slog.Level `env:"PIGDICE_LOG_LEVEL" envDefault:"info"`
	StorageType  string     `env:"PIGDICE_STORAGE" envDefault:"file"`
	ScorePath    string     `env:"PIGDICE_SCORE_PATH" envDefault:"scores.json"`
	SQLitePath   string     `env:"PIGDICE_SQLITE_PATH" envDefault:"pigdice.db"`
	RedisURL     string     `env:"PIGDICE_REDIS_URL"`
	WinningScore int        `env:"PIGDICE_WINNING_SCORE" envDefault:"100"`
	CheatEnabled bool       `env:"PIGDICE_CHEAT_ENABLED" envDefault:"false"`
	Seed         int64      `env:"PIGDICE_SEED"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	rules := model.DefaultRules()
	rules.WinningScore = cfg.WinningScore

	// Build factory config from environment
	factoryCfg := factory.Config{
		Logger:       logger,
		StorageType:  cfg.StorageType,
		ScorePath:    cfg.ScorePath,
		SQLitePath:   cfg.SQLitePath,
		Rules:        &rules,
		CheatEnabled: cfg.CheatEnabled,
		Seed:         cfg.Seed,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("PIGDICE_REDIS_URL required when PIGDICE_STORAGE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		ScoreService:   app.ScoreService,
		HubManager:     app.HubManager,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", factoryCfg.StorageType),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
