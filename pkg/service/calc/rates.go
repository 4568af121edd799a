package calc

import (
	"context"
	"fmt"

	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/events"
	"github.com/amirasaad/multicalc/pkg/exchange"
)

// RefreshResult describes the outcome of a feed refresh.
type RefreshResult struct {
	Merged int    `json:"merged"`
	Date   string `json:"date"`
	// Stale is set when a newer refresh had already been merged and this payload was dropped.
	Stale bool `json:"stale"`
}

// ActiveRates returns the rate used for every known pair.
func (s *Service) ActiveRates() exchange.Rates {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ActiveRates()
}

// RateState returns both rate tables, the preferences and the last fetch date.
func (s *Service) RateState() exchange.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.State()
}

// Matrix returns a copy of the conversion matrix.
func (s *Service) Matrix() exchange.Matrix {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(exchange.Matrix, len(s.matrix))
	for from, row := range s.matrix {
		r := make(map[currency.Code]exchange.Cell, len(row))
		for to, c := range row {
			r[to] = c
		}
		out[from] = r
	}
	return out
}

// RateDisplay describes the pair as "1 HIGH = v LOW"; false when no rate is available.
func (s *Service) RateDisplay(from, to currency.Code) (exchange.DisplayInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return exchange.RateDisplay(from, to, s.store.ActiveRates(), s.matrix)
}

// SetManualRate stores "1 base = value quote" and rebuilds the matrix.
func (s *Service) SetManualRate(ctx context.Context, base, quote currency.Code, value float64) (exchange.RateEntry, error) {
	s.mu.Lock()
	if err := s.store.SetManualRate(base, quote, value); err != nil {
		s.mu.Unlock()
		return exchange.RateEntry{}, err
	}
	key, _ := exchange.PairKey(base, quote)
	entry := s.store.ManualRates()[key]
	s.rebuild()
	s.mu.Unlock()

	s.logger.Info("manual rate saved", "pair", key, "value", entry.Value)
	s.emit(ctx, events.ManualRateSaved{Pair: key, Entry: entry})
	return entry, nil
}

// SetPreferredType selects which table wins for the pair and rebuilds the matrix.
func (s *Service) SetPreferredType(ctx context.Context, pairKey string, t exchange.RateType) error {
	s.mu.Lock()
	if err := s.store.SetPreferredType(pairKey, t); err != nil {
		s.mu.Unlock()
		return err
	}
	s.rebuild()
	s.mu.Unlock()

	s.logger.Info("rate preference changed", "pair", pairKey, "preferred", t)
	s.emit(ctx, events.PreferenceChanged{Pair: pairKey, Preferred: t})
	return nil
}

// Refresh fetches the official rates once and merges them. Concurrent refreshes
// are not deduplicated; a payload that arrives after a newer one was merged is dropped.
func (s *Service) Refresh(ctx context.Context) (RefreshResult, error) {
	s.mu.Lock()
	feed := s.feed
	if feed == nil {
		s.mu.Unlock()
		return RefreshResult{}, ErrNoFeed
	}
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	payload, err := feed.Fetch(ctx)
	if err != nil {
		s.logger.Warn("rate refresh failed", "feed", feed.Name(), "error", err)
		return RefreshResult{}, fmt.Errorf("refresh from %s: %w", feed.Name(), err)
	}

	s.mu.Lock()
	if seq < s.mergedSeq {
		s.mu.Unlock()
		s.logger.Info("dropping late rate payload", "seq", seq, "date", payload.Date)
		return RefreshResult{Date: payload.Date, Stale: true}, nil
	}
	merged := s.store.MergeFetched(*payload)
	s.mergedSeq = seq
	s.rebuild()
	s.mu.Unlock()

	s.logger.Info("official rates merged", "feed", feed.Name(), "merged", merged, "date", payload.Date)
	s.emit(ctx, events.RatesUpdated{Merged: merged, Date: payload.Date})
	return RefreshResult{Merged: merged, Date: payload.Date}, nil
}
