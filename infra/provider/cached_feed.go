package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/provider"
	"github.com/patrickmn/go-cache"
)

const cacheKey = "official_rates"

// CachedFeed serves a successful payload from memory for ttl. Failures are never cached.
type CachedFeed struct {
	next   provider.RateFeed
	cache  *cache.Cache
	logger *slog.Logger
}

// NewCachedFeed wraps next. A non-positive ttl returns next unchanged.
func NewCachedFeed(next provider.RateFeed, ttl time.Duration, logger *slog.Logger) provider.RateFeed {
	if ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedFeed{
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger.With("feed", "cached"),
	}
}

// Name identifies the wrapped feed.
func (c *CachedFeed) Name() string { return "cached(" + c.next.Name() + ")" }

// Fetch returns the cached payload or asks the wrapped feed.
func (c *CachedFeed) Fetch(ctx context.Context) (*exchange.FetchedRates, error) {
	if v, found := c.cache.Get(cacheKey); found {
		c.logger.Debug("Cache hit for official rates")
		payload := *v.(*exchange.FetchedRates)
		return &payload, nil
	}

	c.logger.Debug("Cache miss for official rates, fetching from next feed", "next", c.next.Name())
	payload, err := c.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(cacheKey, payload, cache.DefaultExpiration)
	return payload, nil
}

// Invalidate drops the cached payload.
func (c *CachedFeed) Invalidate() {
	c.cache.Delete(cacheKey)
}

var _ provider.RateFeed = (*CachedFeed)(nil)
