package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMatrix() exchange.Matrix {
	return exchange.BuildMatrix(exchange.SeedRates(), exchange.SeedRates())
}

func TestNewEntry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewEntry("5+3", 8, currency.USD, settings.Default(), seedMatrix(), now)

	assert.Equal(t, "5+3", e.Expression)
	assert.Equal(t, currency.USD, e.InputCurrency)
	assert.Equal(t, now, e.Timestamp)
	assert.NotEmpty(t, e.ID)
	require.Len(t, e.Results, 4)
	assert.InDelta(t, 8.0, e.Results[currency.USD], 1e-12)
	assert.InDelta(t, 292.0, e.Results[currency.VES], 1e-9)
	assert.InDelta(t, 32000.0, e.Results[currency.COP], 1e-9)
}

func TestNewEntry_COPScaling(t *testing.T) {
	s := settings.AppSettings{COPMultiplyByThousand: true}
	e := NewEntry("4", 4, currency.COP, s, seedMatrix(), time.Now())

	assert.InDelta(t, 4000.0, e.Results[currency.COP], 1e-12)
	assert.InDelta(t, 1.0, e.Results[currency.USD], 1e-12)
}

func TestNewEntry_UnavailableIsZero(t *testing.T) {
	e := NewEntry("1", 1, currency.VES, settings.Default(), exchange.BuildMatrix(nil, nil), time.Now())
	assert.InDelta(t, 1.0, e.Results[currency.VES], 1e-12)
	assert.Zero(t, e.Results[currency.USD])
	assert.Zero(t, e.Results[currency.COP])
	assert.Zero(t, e.Results[currency.EUR])
}

func TestLog(t *testing.T) {
	log := NewLog(0)
	for i := 0; i < DefaultLimit+5; i++ {
		log.Add(Entry{Expression: fmt.Sprintf("%d", i)})
	}

	entries := log.List()
	require.Len(t, entries, DefaultLimit)
	assert.Equal(t, fmt.Sprintf("%d", DefaultLimit+4), entries[0].Expression, "newest first")
	assert.Equal(t, "5", entries[DefaultLimit-1].Expression)

	entries[0].Expression = "mutated"
	assert.NotEqual(t, "mutated", log.List()[0].Expression)

	log.Clear()
	assert.Zero(t, log.Len())
}

func TestLog_Load(t *testing.T) {
	log := NewLog(2)
	log.Load([]Entry{{Expression: "a"}, {Expression: "b"}, {Expression: "c"}})
	entries := log.List()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Expression)
}
