package calc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/multicalc/infra/eventbus"
	infraprovider "github.com/amirasaad/multicalc/infra/provider"
	infrastorage "github.com/amirasaad/multicalc/infra/storage"
	"github.com/amirasaad/multicalc/pkg/calculator"
	"github.com/amirasaad/multicalc/pkg/config"
	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/events"
	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/provider"
	"github.com/amirasaad/multicalc/pkg/settings"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(t *testing.T, ss ...string) []calculator.Key {
	t.Helper()
	out, err := calculator.ParseKeys(ss)
	require.NoError(t, err)
	return out
}

func newTestService(t *testing.T, feed provider.RateFeed) (*Service, *eventbus.MemoryEventBus) {
	t.Helper()
	bus := eventbus.NewWithMemory(nil)
	svc := NewService(config.Deps{Feed: feed, EventBus: bus})
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, bus
}

func TestService_PressRecordsHistory(t *testing.T) {
	svc, bus := newTestService(t, nil)
	ctx := context.Background()

	sess := svc.NewSession()
	assert.Equal(t, "0", sess.Buffer)
	assert.Equal(t, currency.VES, sess.InputCurrency)

	res, err := svc.Press(ctx, sess.ID, keys(t, "1", "2", "+", "3", "=")...)
	require.NoError(t, err)
	require.Len(t, res.Recorded, 1)

	entry := res.Recorded[0]
	assert.Equal(t, "12+3", entry.Expression)
	assert.Equal(t, currency.VES, entry.InputCurrency)
	assert.InDelta(t, 15.0, entry.Results[currency.VES], 1e-9)
	assert.InDelta(t, 15.0/36.5, entry.Results[currency.USD], 1e-9)
	assert.Equal(t, 2024, entry.Timestamp.Year())

	assert.Equal(t, "15,00", res.Session.Buffer)
	assert.InDelta(t, 15.0, res.Session.LastValid, 1e-12)
	require.Len(t, res.Session.Conversions, len(currency.All()))
	for _, c := range res.Session.Conversions {
		assert.True(t, c.Available, c.Currency)
		if c.Currency == currency.VES {
			assert.InDelta(t, 15.0, c.Amount, 1e-12)
			assert.Equal(t, "15,00", c.Formatted)
		}
	}

	assert.Len(t, svc.History(), 1)
	published := bus.Published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeHistoryRecorded, published[0].Type())
}

func TestService_PressWithoutEvaluation(t *testing.T) {
	svc, bus := newTestService(t, nil)
	sess := svc.NewSession()

	res, err := svc.Press(context.Background(), sess.ID, keys(t, "7", "+")...)
	require.NoError(t, err)
	assert.Empty(t, res.Recorded)
	assert.NotNil(t, res.Recorded)
	assert.Equal(t, "7+", res.Session.Buffer)
	assert.Empty(t, svc.History())
	assert.Empty(t, bus.Published())
}

func TestService_UnknownSession(t *testing.T) {
	svc, _ := newTestService(t, nil)
	id := uuid.New()

	_, err := svc.Press(context.Background(), id, calculator.KeyEquals)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Session(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.CloseSession(id), ErrSessionNotFound)

	sess := svc.NewSession()
	require.NoError(t, svc.CloseSession(sess.ID))
	_, err = svc.Session(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_Convert(t *testing.T) {
	svc, _ := newTestService(t, nil)

	t.Run("display notation", func(t *testing.T) {
		res, err := svc.Convert("1.000,5", currency.USD)
		require.NoError(t, err)
		assert.InDelta(t, 1000.5, res.Value, 1e-12)
		amounts := map[currency.Code]float64{}
		for _, c := range res.Conversions {
			amounts[c.Currency] = c.Amount
		}
		assert.InDelta(t, 1000.5*36.5, amounts[currency.VES], 1e-6)
		assert.InDelta(t, 1000.5*4000, amounts[currency.COP], 1e-6)
	})

	t.Run("defaults to input currency", func(t *testing.T) {
		res, err := svc.Convert("2*3", "")
		require.NoError(t, err)
		assert.Equal(t, currency.VES, res.InputCurrency)
		assert.InDelta(t, 6.0, res.EffectiveValue, 1e-12)
	})

	t.Run("cop scaling", func(t *testing.T) {
		svc.UpdateSettings(context.Background(), settings.AppSettings{COPMultiplyByThousand: true})
		res, err := svc.Convert("4", currency.COP)
		require.NoError(t, err)
		assert.InDelta(t, 4000.0, res.EffectiveValue, 1e-12)
		for _, c := range res.Conversions {
			if c.Currency == currency.USD {
				assert.InDelta(t, 1.0, c.Amount, 1e-12)
			}
		}
	})

	t.Run("errors", func(t *testing.T) {
		_, err := svc.Convert("1/0", currency.USD)
		assert.Error(t, err)
		_, err = svc.Convert("1", currency.Code("GBP"))
		assert.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
	})
}

func TestService_ManualRates(t *testing.T) {
	svc, bus := newTestService(t, nil)
	ctx := context.Background()

	entry, err := svc.SetManualRate(ctx, currency.USD, currency.VES, 40)
	require.NoError(t, err)
	assert.Equal(t, exchange.SourceManual, entry.Source)
	assert.InDelta(t, 40.0, svc.Matrix().Get(currency.USD, currency.VES).Value, 1e-12)

	info, ok := svc.RateDisplay(currency.VES, currency.USD)
	require.True(t, ok)
	assert.Equal(t, "1 USD = 40,00 VES", info.Describe())

	require.NoError(t, svc.SetPreferredType(ctx, "USD_VES", exchange.TypeOfficial))
	assert.InDelta(t, 36.5, svc.Matrix().Get(currency.USD, currency.VES).Value, 1e-12)
	assert.Len(t, svc.RateState().ManualRates, 1)

	bus.ClearPublished()
	_, err = svc.SetManualRate(ctx, currency.USD, currency.COP, -1)
	assert.ErrorIs(t, err, exchange.ErrInvalidRate)
	assert.ErrorIs(t, svc.SetPreferredType(ctx, "bad", exchange.TypeManual), exchange.ErrInvalidPairKey)
	assert.Empty(t, bus.Published())
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("merges payload", func(t *testing.T) {
		payload := infraprovider.SeedPayload()
		payload.Date = "2024-05-01T00:00:00.000Z"
		payload.BCV.USDVES = 40
		svc, bus := newTestService(t, infraprovider.NewStaticFeed(payload))

		res, err := svc.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, res.Merged)
		assert.False(t, res.Stale)
		assert.Equal(t, payload.Date, svc.RateState().LastCloudFetchDate)
		assert.InDelta(t, 40.0, svc.ActiveRates()["USD_VES"].Value, 1e-12)
		assert.InDelta(t, 1/40.0, svc.Matrix().Get(currency.VES, currency.USD).Value, 1e-12)

		published := bus.Published()
		require.Len(t, published, 1)
		assert.Equal(t, events.RatesUpdated{Merged: 4, Date: payload.Date}, published[0])
	})

	t.Run("no feed", func(t *testing.T) {
		svc, _ := newTestService(t, nil)
		_, err := svc.Refresh(ctx)
		assert.ErrorIs(t, err, ErrNoFeed)
	})

	t.Run("feed failure keeps rates", func(t *testing.T) {
		feed := &infraprovider.StaticFeed{Err: errors.New("offline")}
		svc, _ := newTestService(t, feed)
		before := svc.ActiveRates()

		_, err := svc.Refresh(ctx)
		assert.ErrorIs(t, err, provider.ErrFetchFailed)
		assert.Equal(t, before, svc.ActiveRates())
	})
}

// gatedFeed blocks its first Fetch until release is closed.
type gatedFeed struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
	first   exchange.FetchedRates
	second  exchange.FetchedRates
}

func (g *gatedFeed) Name() string { return "gated" }

func (g *gatedFeed) Fetch(ctx context.Context) (*exchange.FetchedRates, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	g.mu.Unlock()

	if n == 1 {
		close(g.started)
		<-g.release
		p := g.first
		return &p, nil
	}
	p := g.second
	return &p, nil
}

func TestService_RefreshDropsLatePayload(t *testing.T) {
	feed := &gatedFeed{
		started: make(chan struct{}),
		release: make(chan struct{}),
		first:   exchange.FetchedRates{Date: "old", BCV: &exchange.BCVRates{USDVES: 30, EURVES: 33}},
		second:  exchange.FetchedRates{Date: "new", BCV: &exchange.BCVRates{USDVES: 41, EURVES: 44}},
	}
	svc, _ := newTestService(t, feed)
	ctx := context.Background()

	done := make(chan RefreshResult, 1)
	go func() {
		res, err := svc.Refresh(ctx)
		assert.NoError(t, err)
		done <- res
	}()
	<-feed.started

	res, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.False(t, res.Stale)

	close(feed.release)
	late := <-done
	assert.True(t, late.Stale)
	assert.Equal(t, "old", late.Date)

	assert.InDelta(t, 41.0, svc.ActiveRates()["USD_VES"].Value, 1e-12)
	assert.Equal(t, "new", svc.RateState().LastCloudFetchDate)
}

func TestService_Persistence(t *testing.T) {
	ctx := context.Background()
	kv := infrastorage.NewMemory()
	bus := eventbus.NewWithMemory(nil)

	svc := NewService(config.Deps{Store: kv, EventBus: bus})
	svc.RegisterPersistence(bus)

	sess := svc.NewSession()
	_, err := svc.Press(ctx, sess.ID, keys(t, "9", "*", "2", "=")...)
	require.NoError(t, err)
	_, err = svc.SetManualRate(ctx, currency.EUR, currency.USD, 1.1)
	require.NoError(t, err)
	require.NoError(t, svc.SetInputCurrency(ctx, currency.USD))
	svc.UpdateSettings(ctx, settings.AppSettings{DarkMode: true})

	restored := NewService(config.Deps{Store: kv})
	require.NoError(t, restored.Load(ctx))

	require.Len(t, restored.History(), 1)
	assert.Equal(t, "9*2", restored.History()[0].Expression)
	assert.Equal(t, currency.USD, restored.InputCurrency())
	assert.True(t, restored.Settings().DarkMode)
	assert.InDelta(t, 1.1, restored.RateState().ManualRates["EUR_USD"].Value, 1e-12)
	assert.InDelta(t, 1.1, restored.Matrix().Get(currency.EUR, currency.USD).Value, 1e-12)

	restored.ClearHistory(ctx)
	require.NoError(t, restored.Persist(ctx))
	again := NewService(config.Deps{Store: kv})
	require.NoError(t, again.Load(ctx))
	assert.Empty(t, again.History())
}

func TestService_SetInputCurrencyRejectsUnknown(t *testing.T) {
	svc, bus := newTestService(t, nil)
	err := svc.SetInputCurrency(context.Background(), currency.Code("GBP"))
	assert.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
	assert.Equal(t, currency.VES, svc.InputCurrency())
	assert.Empty(t, bus.Published())
}
