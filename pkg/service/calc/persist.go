package calc

import (
	"context"

	"github.com/amirasaad/multicalc/pkg/eventbus"
	"github.com/amirasaad/multicalc/pkg/events"
)

// RegisterPersistence saves the blob affected by each event through the
// configured store. It does nothing when no store is configured.
func (s *Service) RegisterPersistence(bus eventbus.Bus) {
	if s.blobs == nil || bus == nil {
		return
	}
	for _, t := range events.RateEvents {
		bus.Register(t, func(ctx context.Context, _ eventbus.Event) error {
			return s.blobs.SaveRates(ctx, s.RateState())
		})
	}
	for _, t := range events.HistoryEvents {
		bus.Register(t, func(ctx context.Context, _ eventbus.Event) error {
			return s.blobs.SaveHistory(ctx, s.History())
		})
	}
	bus.Register(events.TypeSettingsUpdated, func(ctx context.Context, e eventbus.Event) error {
		return s.blobs.SaveSettings(ctx, e.(events.SettingsUpdated).Settings)
	})
	bus.Register(events.TypeInputCurrencyChanged, func(ctx context.Context, e eventbus.Event) error {
		return s.blobs.SaveInputCurrency(ctx, e.(events.InputCurrencyChanged).Currency)
	})
}
