package initializer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/multicalc/infra/eventbus"
	infra_provider "github.com/amirasaad/multicalc/infra/provider"
	infra_storage "github.com/amirasaad/multicalc/infra/storage"
	"github.com/amirasaad/multicalc/pkg/config"
	"github.com/amirasaad/multicalc/pkg/provider"
	"github.com/amirasaad/multicalc/pkg/storage"
)

const pingTimeout = 5 * time.Second

// InitializeDependencies builds the logger, storage backend, rate feed and event bus.
// The returned cleanup releases connections opened for the storage backend.
func InitializeDependencies(cfg *config.App) (deps *config.Deps, cleanup func(), err error) {
	return NewDependencies(cfg, SetupLogger(cfg.Log))
}

// NewDependencies is InitializeDependencies with a caller-supplied logger.
func NewDependencies(cfg *config.App, logger *slog.Logger) (deps *config.Deps, cleanup func(), err error) {
	if logger == nil {
		logger = slog.Default()
	}
	store, closeStore, err := initStore(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	deps = &config.Deps{
		Feed:     initFeed(cfg, logger),
		EventBus: infra_eventbus.NewWithMemory(logger),
		Store:    store,
		Logger:   logger,
		Config:   cfg,
	}
	cleanup = func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}
	return deps, cleanup, nil
}

// initStore selects the KV backend. An unreachable redis falls back to memory;
// a SQL backend that cannot be opened or migrated is an error.
func initStore(cfg *config.App, logger *slog.Logger) (storage.KV, func() error, error) {
	noop := func() error { return nil }
	driver := ""
	if cfg.Storage != nil {
		driver = strings.ToLower(cfg.Storage.Driver)
	}

	switch driver {
	case "", "memory":
		logger.Info("Using in-memory storage")
		return infra_storage.NewMemory(), noop, nil

	case "postgres", "postgresql", "sqlite", "sqlite3":
		db, err := infra_storage.Open(driver, cfg.Storage.URL, cfg.Env)
		if err != nil {
			return nil, nil, err
		}
		store := infra_storage.NewGorm(db)
		if err := store.Migrate(); err != nil {
			return nil, nil, fmt.Errorf("%w: migrate: %w", storage.ErrStorage, err)
		}
		logger.Info("Using SQL storage", "driver", driver)
		closeDB := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return store, closeDB, nil

	case "redis":
		url := cfg.Storage.URL
		if url == "" && cfg.Redis != nil {
			url = cfg.Redis.URL
		}
		if url == "" {
			return nil, nil, errors.New("redis storage selected but no redis url configured")
		}
		prefix := ""
		if cfg.Redis != nil {
			prefix = cfg.Redis.KeyPrefix
		}
		store, err := infra_storage.NewRedis(url, prefix, logger)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.Warn("Redis unavailable, falling back to in-memory storage", "error", err)
			_ = store.Close()
			return infra_storage.NewMemory(), noop, nil
		}
		logger.Info("Using redis storage", "prefix", prefix)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: unsupported storage driver %q", storage.ErrStorage, driver)
	}
}

// initFeed returns the static seed feed when offline, otherwise the HTTP feed,
// cached when a TTL is configured.
func initFeed(cfg *config.App, logger *slog.Logger) provider.RateFeed {
	rf := cfg.RateFeed
	if rf == nil {
		rf = &config.RateFeed{URL: infra_provider.DefaultFeedURL, HTTPTimeout: 10 * time.Second}
	}
	if rf.Offline {
		logger.Info("Rate feed offline, serving seed rates")
		return infra_provider.NewStaticFeed(infra_provider.SeedPayload())
	}
	url := rf.URL
	if url == "" {
		url = infra_provider.DefaultFeedURL
	}
	return infra_provider.NewCachedFeed(
		infra_provider.NewHTTPFeed(url, rf.HTTPTimeout, logger),
		rf.CacheTTL,
		logger,
	)
}
