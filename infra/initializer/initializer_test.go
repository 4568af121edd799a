package initializer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	infra_provider "github.com/amirasaad/multicalc/infra/provider"
	infra_storage "github.com/amirasaad/multicalc/infra/storage"
	"github.com/amirasaad/multicalc/pkg/config"
	"github.com/amirasaad/multicalc/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitStore_DefaultsToMemory(t *testing.T) {
	store, closeFn, err := initStore(&config.App{}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &infra_storage.Memory{}, store)
	assert.NoError(t, closeFn())
}

func TestInitStore_SQLite(t *testing.T) {
	cfg := &config.App{Storage: &config.Storage{Driver: "sqlite", URL: "file::memory:?cache=shared"}}
	store, closeFn, err := initStore(cfg, discardLogger())
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeFn()) }()
	require.IsType(t, &infra_storage.Gorm{}, store)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeySettings, []byte(`{"darkMode":true}`)))
	got, ok, err := store.Get(ctx, storage.KeySettings)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"darkMode":true}`, string(got))
}

func TestInitStore_SQLRequiresURL(t *testing.T) {
	cfg := &config.App{Storage: &config.Storage{Driver: "postgres"}}
	_, _, err := initStore(cfg, discardLogger())
	assert.ErrorIs(t, err, storage.ErrStorage)
}

func TestInitStore_UnknownDriver(t *testing.T) {
	cfg := &config.App{Storage: &config.Storage{Driver: "mongo"}}
	_, _, err := initStore(cfg, discardLogger())
	assert.ErrorIs(t, err, storage.ErrStorage)
}

func TestInitStore_RedisConnectionErrorFallsBackToMemory(t *testing.T) {
	cfg := &config.App{
		Storage: &config.Storage{Driver: "redis", URL: "redis://127.0.0.1:1/0"},
		Redis:   &config.Redis{KeyPrefix: "test:"},
	}
	store, _, err := initStore(cfg, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &infra_storage.Memory{}, store)
}

func TestInitStore_RedisRequiresURL(t *testing.T) {
	cfg := &config.App{Storage: &config.Storage{Driver: "redis"}}
	_, _, err := initStore(cfg, discardLogger())
	assert.Error(t, err)
}

func TestInitFeed(t *testing.T) {
	t.Run("offline serves seed", func(t *testing.T) {
		feed := initFeed(&config.App{RateFeed: &config.RateFeed{Offline: true}}, discardLogger())
		require.IsType(t, &infra_provider.StaticFeed{}, feed)
		payload, err := feed.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, infra_provider.SeedPayload(), *payload)
	})

	t.Run("uncached http", func(t *testing.T) {
		feed := initFeed(&config.App{RateFeed: &config.RateFeed{}}, discardLogger())
		assert.IsType(t, &infra_provider.HTTPFeed{}, feed)
	})

	t.Run("cached http", func(t *testing.T) {
		cfg := &config.App{RateFeed: &config.RateFeed{CacheTTL: time.Minute}}
		feed := initFeed(cfg, discardLogger())
		assert.IsType(t, &infra_provider.CachedFeed{}, feed)
	})
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Log{Format: "json", Level: -4})
	logger.Info("rates merged", "merged", 4)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rates merged", line["msg"])
	assert.EqualValues(t, 4, line["merged"])
}

func TestNewDependencies_Offline(t *testing.T) {
	cfg := &config.App{
		Storage:  &config.Storage{Driver: "memory"},
		RateFeed: &config.RateFeed{Offline: true},
	}
	deps, cleanup, err := NewDependencies(cfg, discardLogger())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &infra_storage.Memory{}, deps.Store)
	assert.IsType(t, &infra_provider.StaticFeed{}, deps.Feed)
	assert.NotNil(t, deps.EventBus)
	assert.Same(t, cfg, deps.Config)
}
