// Package calc provides the calculator application service. It owns the rate store,
// the derived conversion matrix, the history log and the keypad sessions, and
// publishes an event for every state change so persistence can follow.
//
// All operations are serialized by one mutex; each is a single atomic update.
// Events are emitted after the lock is released so handlers may call back in.
package calc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/multicalc/pkg/calculator"
	"github.com/amirasaad/multicalc/pkg/config"
	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/eventbus"
	"github.com/amirasaad/multicalc/pkg/events"
	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/history"
	"github.com/amirasaad/multicalc/pkg/provider"
	"github.com/amirasaad/multicalc/pkg/settings"
	"github.com/amirasaad/multicalc/pkg/storage"
	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoFeed is returned by Refresh when no rate feed is configured.
	ErrNoFeed = errors.New("no rate feed configured")
)

// Service is the calculator application service.
type Service struct {
	mu       sync.Mutex
	store    *exchange.Store
	matrix   exchange.Matrix
	history  *history.Log
	settings settings.AppSettings
	input    currency.Code
	sessions map[uuid.UUID]*calculator.Machine

	// fetchSeq numbers refreshes as they start; mergedSeq is the newest one merged.
	fetchSeq  uint64
	mergedSeq uint64

	feed   provider.RateFeed
	bus    eventbus.Bus
	blobs  *storage.Blobs
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a Service with seeded rates and empty history.
// Call Load to restore persisted state.
func NewService(deps config.Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := history.DefaultLimit
	if deps.Config != nil && deps.Config.History != nil && deps.Config.History.Limit > 0 {
		limit = deps.Config.History.Limit
	}

	s := &Service{
		store:    exchange.NewStore(logger),
		history:  history.NewLog(limit),
		settings: settings.Default(),
		input:    settings.DefaultInputCurrency,
		sessions: make(map[uuid.UUID]*calculator.Machine),
		feed:     deps.Feed,
		bus:      deps.EventBus,
		logger:   logger.With("service", "calc"),
		now:      time.Now,
	}
	if deps.Store != nil {
		s.blobs = storage.NewBlobs(deps.Store, logger)
	}
	s.rebuild()
	return s
}

// rebuild recomputes the matrix from scratch. Callers hold mu.
func (s *Service) rebuild() {
	s.matrix = exchange.BuildMatrix(s.store.ActiveRates(), s.store.OfficialRates())
}

func (s *Service) emit(ctx context.Context, events ...eventbus.Event) {
	if s.bus == nil {
		return
	}
	for _, e := range events {
		if err := s.bus.Emit(ctx, e); err != nil {
			s.logger.Error("event handling failed", "type", e.Type(), "error", err)
		}
	}
}

// Load restores persisted state through the configured store.
func (s *Service) Load(ctx context.Context) error {
	if s.blobs == nil {
		return nil
	}
	st := s.blobs.LoadRates(ctx)
	appSettings := s.blobs.LoadSettings(ctx)
	entries := s.blobs.LoadHistory(ctx)
	input := s.blobs.LoadInputCurrency(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Load(st)
	s.settings = appSettings
	s.history.Load(entries)
	s.input = input
	s.rebuild()
	s.logger.Info("state loaded",
		"official", len(st.OfficialRates), "manual", len(st.ManualRates),
		"history", len(entries), "input", input, "last_fetch", st.LastCloudFetchDate)
	return nil
}

// Persist writes every blob through the configured store.
func (s *Service) Persist(ctx context.Context) error {
	if s.blobs == nil {
		return nil
	}
	s.mu.Lock()
	rates := s.store.State()
	appSettings := s.settings
	entries := s.history.List()
	input := s.input
	s.mu.Unlock()

	return errors.Join(
		s.blobs.SaveRates(ctx, rates),
		s.blobs.SaveSettings(ctx, appSettings),
		s.blobs.SaveHistory(ctx, entries),
		s.blobs.SaveInputCurrency(ctx, input),
	)
}

// Settings returns the current settings.
func (s *Service) Settings() settings.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings replaces the settings.
func (s *Service) UpdateSettings(ctx context.Context, next settings.AppSettings) settings.AppSettings {
	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()

	s.emit(ctx, events.SettingsUpdated{Settings: next})
	return next
}

// InputCurrency returns the active input currency.
func (s *Service) InputCurrency() currency.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// SetInputCurrency changes the currency evaluated amounts are expressed in.
func (s *Service) SetInputCurrency(ctx context.Context, c currency.Code) error {
	if !c.IsValid() {
		return fmt.Errorf("%w: %q", currency.ErrUnsupportedCurrency, c)
	}
	s.mu.Lock()
	s.input = c
	s.mu.Unlock()

	s.emit(ctx, events.InputCurrencyChanged{Currency: c})
	return nil
}

// History returns the entries, newest first.
func (s *Service) History() []history.Entry {
	return s.history.List()
}

// ClearHistory removes every entry.
func (s *Service) ClearHistory(ctx context.Context) {
	s.history.Clear()
	s.emit(ctx, events.HistoryCleared{})
}
