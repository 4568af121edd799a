package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/provider"
)

// DefaultFeedURL publishes the BCV, BanRep and BCE reference rates.
const DefaultFeedURL = "https://raw.githubusercontent.com/xenky/exchange_rates/main/rates.json"

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// HTTPFeed fetches the official rates JSON with a single GET.
type HTTPFeed struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPFeed creates a feed for url. An empty url uses DefaultFeedURL.
func NewHTTPFeed(url string, timeout time.Duration, logger *slog.Logger) *HTTPFeed {
	if url == "" {
		url = DefaultFeedURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPFeed{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("feed", "http"),
	}
}

// Name identifies the feed in logs.
func (f *HTTPFeed) Name() string { return "http" }

// Fetch performs one request. Non-2xx responses and undecodable bodies fail.
func (f *HTTPFeed) Fetch(ctx context.Context) (*exchange.FetchedRates, error) {
	f.logger.Info("Fetching official rates", "url", f.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", provider.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrFetchFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: feed returned status %d: %s",
			provider.ErrFetchFailed, resp.StatusCode, string(body))
	}

	var payload exchange.FetchedRates
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", provider.ErrFetchFailed, err)
	}

	f.logger.Info("Official rates fetched", "date", payload.Date)
	return &payload, nil
}

var _ provider.RateFeed = (*HTTPFeed)(nil)
