// Package provider defines the source of official exchange rates.
package provider

import (
	"context"
	"errors"

	"github.com/amirasaad/multicalc/pkg/exchange"
)

// ErrFetchFailed wraps any failure to obtain a feed payload.
var ErrFetchFailed = errors.New("rate fetch failed")

// RateFeed fetches the latest official rates. Implementations do not retry.
type RateFeed interface {
	Fetch(ctx context.Context) (*exchange.FetchedRates, error)
	Name() string
}
