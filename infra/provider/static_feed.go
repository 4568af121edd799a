package provider

import (
	"context"
	"fmt"

	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/provider"
)

// StaticFeed returns a fixed payload. It backs offline runs and tests.
type StaticFeed struct {
	Payload exchange.FetchedRates
	Err     error
}

// NewStaticFeed returns a feed that always yields payload.
func NewStaticFeed(payload exchange.FetchedRates) *StaticFeed {
	return &StaticFeed{Payload: payload}
}

// SeedPayload mirrors the seeded official rates.
func SeedPayload() exchange.FetchedRates {
	return exchange.FetchedRates{
		Date:   exchange.EpochFetchDate,
		BCV:    &exchange.BCVRates{USDVES: 36.50, EURVES: 39.80},
		BanRep: &exchange.BanRepRates{USDCOP: 4000},
		BCE:    &exchange.BCERates{EURUSD: 1.08},
	}
}

func (s *StaticFeed) Name() string { return "static" }

func (s *StaticFeed) Fetch(ctx context.Context) (*exchange.FetchedRates, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrFetchFailed, err)
	}
	if s.Err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrFetchFailed, s.Err)
	}
	payload := s.Payload
	return &payload, nil
}

var _ provider.RateFeed = (*StaticFeed)(nil)
