package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/CSE5914-Group99/schedule-planner/internal/backend"
	"github.com/CSE5914-Group99/schedule-planner/internal/config"
	"github.com/CSE5914-Group99/schedule-planner/internal/db"
	"github.com/CSE5914-Group99/schedule-planner/internal/llm"
	"github.com/CSE5914-Group99/schedule-planner/internal/logging"
	"github.com/CSE5914-Group99/schedule-planner/internal/service"
	"github.com/CSE5914-Group99/schedule-planner/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	newLogger := logging.New
	if ui.LaunchesTUI(os.Args[1:]) {
		newLogger = logging.ForTUI
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.New(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = store.Close() }()

	var cache backend.RatingCache = backend.NewMemoryCache()
	if cfg.Cache.RedisURL != "" {
		rc, err := backend.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL.Duration)
		if err != nil {
			log.Warn("redis unavailable, caching ratings in memory", zap.Error(err))
		} else {
			defer func() { _ = rc.Close() }()
			cache = rc
		}
	}

	client, err := backend.New(backend.Options{
		BaseURL: cfg.Backend.BaseURL,
		UserID:  cfg.Backend.UserID,
		Timeout: cfg.Backend.Timeout.Duration,
		Logger:  log,
		Cache:   cache,
	})
	if err != nil {
		return err
	}

	var rec service.Recommender = client
	if cfg.UsesLLM() {
		lc, err := llm.NewClient(ctx, cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL)
		if err != nil {
			return fmt.Errorf("creating llm client: %w", err)
		}
		rec = llm.NewRecommender(lc, cfg.Planner.MaxRetries, llm.IsLocal(cfg.LLM.Provider))
	}

	planner := service.New(service.Options{
		Backend:     client,
		Store:       store,
		Recommender: rec,
		Logger:      log,
		Term:        cfg.Planner.Term,
		Campus:      cfg.Planner.Campus,
		Preferences: cfg.Backend.Preferences,
	})

	app := ui.NewApp(ui.Deps{
		Planner: planner,
		Config:  cfg,
		Logger:  log,
		Health:  client,
	})
	return app.ExecuteContext(ctx)
}
