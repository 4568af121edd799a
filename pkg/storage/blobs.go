package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/history"
	"github.com/amirasaad/multicalc/pkg/settings"
)

// Blobs reads and writes the calculator blobs through a KV.
// Loads never fail on missing or malformed data: they log and return defaults.
type Blobs struct {
	kv     KV
	logger *slog.Logger
}

// NewBlobs returns a codec over kv.
func NewBlobs(kv KV, logger *slog.Logger) *Blobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &Blobs{kv: kv, logger: logger.With("component", "blobs")}
}

// LoadSettings returns the stored settings or the defaults.
func (b *Blobs) LoadSettings(ctx context.Context) settings.AppSettings {
	s := settings.Default()
	if !b.load(ctx, KeySettings, &s) {
		return settings.Default()
	}
	return s
}

// LoadRates returns the stored rate state or the seeded default.
func (b *Blobs) LoadRates(ctx context.Context) exchange.State {
	var st exchange.State
	if !b.load(ctx, KeyRates, &st) {
		return exchange.DefaultState()
	}
	if st.OfficialRates == nil || st.ManualRates == nil {
		b.logger.Warn("rate blob incomplete, using defaults", "key", KeyRates)
		return exchange.DefaultState()
	}
	if st.PreferredRateTypes == nil {
		st.PreferredRateTypes = map[string]exchange.RateType{}
	}
	return st
}

// LoadHistory returns the stored history or an empty list.
func (b *Blobs) LoadHistory(ctx context.Context) []history.Entry {
	var entries []history.Entry
	if !b.load(ctx, KeyHistory, &entries) {
		return []history.Entry{}
	}
	return entries
}

// LoadInputCurrency returns the stored input currency or the default one.
func (b *Blobs) LoadInputCurrency(ctx context.Context) currency.Code {
	var raw string
	if !b.load(ctx, KeyInputCurrency, &raw) {
		return settings.DefaultInputCurrency
	}
	c, err := currency.Parse(raw)
	if err != nil {
		b.logger.Warn("stored input currency invalid, using default", "value", raw, "error", err)
		return settings.DefaultInputCurrency
	}
	return c
}

// SaveSettings persists the settings blob.
func (b *Blobs) SaveSettings(ctx context.Context, s settings.AppSettings) error {
	return b.save(ctx, KeySettings, s)
}

// SaveRates persists the rate state blob.
func (b *Blobs) SaveRates(ctx context.Context, st exchange.State) error {
	return b.save(ctx, KeyRates, st)
}

// SaveHistory persists the history blob.
func (b *Blobs) SaveHistory(ctx context.Context, entries []history.Entry) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	return b.save(ctx, KeyHistory, entries)
}

// SaveInputCurrency persists the active input currency.
func (b *Blobs) SaveInputCurrency(ctx context.Context, c currency.Code) error {
	return b.save(ctx, KeyInputCurrency, c)
}

func (b *Blobs) load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := b.kv.Get(ctx, key)
	if err != nil {
		b.logger.Warn("blob read failed, using defaults", "key", key, "error", err)
		return false
	}
	if !ok {
		b.logger.Debug("blob missing, using defaults", "key", key)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		b.logger.Warn("blob malformed, using defaults", "key", key, "error", err)
		return false
	}
	return true
}

func (b *Blobs) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := b.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
