package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	infra_eventbus "github.com/amirasaad/multicalc/infra/eventbus"
	infra_provider "github.com/amirasaad/multicalc/infra/provider"
	infra_storage "github.com/amirasaad/multicalc/infra/storage"
	"github.com/amirasaad/multicalc/pkg/config"
	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps() *config.Deps {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	payload := infra_provider.SeedPayload()
	payload.BCV.USDVES = 42
	return &config.Deps{
		Feed:     infra_provider.NewStaticFeed(payload),
		EventBus: infra_eventbus.NewWithMemory(logger),
		Store:    infra_storage.NewMemory(),
		Logger:   logger,
	}
}

func TestStart_RefreshOnStart(t *testing.T) {
	deps := testDeps()
	a := New(deps, &config.App{RateFeed: &config.RateFeed{RefreshOnStart: true}})
	require.NoError(t, a.Start(context.Background()))
	assert.InDelta(t, 42.0, a.CalcService.Matrix().Get(currency.USD, currency.VES).Value, 1e-12)

	published := deps.EventBus.(*infra_eventbus.MemoryEventBus).Published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeRatesUpdated, published[0].Type())
}

func TestStart_NoRefresh(t *testing.T) {
	a := New(testDeps(), &config.App{RateFeed: &config.RateFeed{}})
	require.NoError(t, a.Start(context.Background()))
	assert.InDelta(t, 36.5, a.CalcService.Matrix().Get(currency.USD, currency.VES).Value, 1e-12)
}

func TestStart_FailedRefreshKeepsRates(t *testing.T) {
	deps := testDeps()
	deps.Feed = &infra_provider.StaticFeed{Err: assert.AnError}
	a := New(deps, &config.App{RateFeed: &config.RateFeed{RefreshOnStart: true}})
	require.NoError(t, a.Start(context.Background()))
	assert.InDelta(t, 36.5, a.CalcService.ActiveRates()["USD_VES"].Value, 1e-12)
}

func TestEventsPersistState(t *testing.T) {
	deps := testDeps()
	a := New(deps, &config.App{RateFeed: &config.RateFeed{RefreshOnStart: true}})
	require.NoError(t, a.Start(context.Background()))

	restored := New(&config.Deps{Store: deps.Store}, &config.App{})
	require.NoError(t, restored.Start(context.Background()))
	assert.InDelta(t, 42.0, restored.CalcService.ActiveRates()["USD_VES"].Value, 1e-12)
}

func TestStop_Persists(t *testing.T) {
	deps := testDeps()
	deps.EventBus = nil
	a := New(deps, &config.App{})
	require.NoError(t, a.CalcService.SetInputCurrency(context.Background(), currency.EUR))
	require.NoError(t, a.Stop(context.Background()))

	restored := New(&config.Deps{Store: deps.Store}, &config.App{})
	require.NoError(t, restored.Start(context.Background()))
	assert.Equal(t, currency.EUR, restored.CalcService.InputCurrency())
}
