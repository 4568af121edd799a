package app

import (
	"context"

	"github.com/amirasaad/multicalc/pkg/eventbus"
	"github.com/amirasaad/multicalc/pkg/events"
)

// setupEventBus registers the persistence handlers and the audit log.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	if bus == nil {
		return
	}
	a.CalcService.RegisterPersistence(bus)
	a.setupAuditHandlers(bus)
}

func (a *App) setupAuditHandlers(bus eventbus.Bus) {
	logger := a.Deps.Logger.With("handler", "audit")

	bus.Register(events.TypeRatesUpdated, func(ctx context.Context, e eventbus.Event) error {
		ev := e.(events.RatesUpdated)
		logger.Info("Official rates updated", "merged", ev.Merged, "date", ev.Date)
		return nil
	})
	bus.Register(events.TypeManualRateSaved, func(ctx context.Context, e eventbus.Event) error {
		ev := e.(events.ManualRateSaved)
		logger.Info("Manual rate saved", "pair", ev.Pair, "value", ev.Entry.Value)
		return nil
	})
	bus.Register(events.TypePreferenceChanged, func(ctx context.Context, e eventbus.Event) error {
		ev := e.(events.PreferenceChanged)
		logger.Info("Rate preference changed", "pair", ev.Pair, "preferred", ev.Preferred)
		return nil
	})
	bus.Register(events.TypeHistoryRecorded, func(ctx context.Context, e eventbus.Event) error {
		ev := e.(events.HistoryRecorded)
		logger.Debug("Evaluation recorded", "expression", ev.Entry.Expression, "currency", ev.Entry.InputCurrency)
		return nil
	})
}
