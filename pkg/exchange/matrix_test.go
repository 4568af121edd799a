package exchange

import (
	"testing"

	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatrix_DiagonalIsIdentity(t *testing.T) {
	for _, rates := range []Rates{nil, {}, SeedRates()} {
		m := BuildMatrix(rates, rates)
		for _, c := range currency.All() {
			assert.Equal(t, Cell{Value: 1, Source: SourceSystem}, m.Get(c, c))
		}
	}
}

func TestBuildMatrix_Derivation(t *testing.T) {
	official := Rates{
		"USD_VES": {Value: 36.5, Source: SourceBCV, Type: TypeOfficial, IsDirect: true},
		"EUR_USD": {Value: 1.08, Source: SourceBCE, Type: TypeOfficial, IsDirect: true},
	}
	m := BuildMatrix(official, official)

	eurVes := m.Get(currency.EUR, currency.VES)
	assert.InDelta(t, 1.08*36.5, eurVes.Value, 1e-9)
	assert.Equal(t, SourceDerived, eurVes.Source)

	vesEur := m.Get(currency.VES, currency.EUR)
	assert.InDelta(t, 1/(1.08*36.5), vesEur.Value, 1e-12)

	assert.Equal(t, Cell{Value: 0, Source: SourceUnavailable}, m.Get(currency.VES, currency.COP))
	assert.Equal(t, Cell{Value: 0, Source: SourceUnavailable}, m.Get(currency.USD, currency.COP))
	assert.False(t, m.Get(currency.VES, currency.COP).Available())
}

func TestBuildMatrix_DirectOrientation(t *testing.T) {
	m := BuildMatrix(SeedRates(), SeedRates())

	usdVes := m.Get(currency.USD, currency.VES)
	assert.InDelta(t, 36.5, usdVes.Value, 1e-12)
	assert.Equal(t, SourceBCV, usdVes.Source)

	vesUsd := m.Get(currency.VES, currency.USD)
	assert.InDelta(t, 1/36.5, vesUsd.Value, 1e-12)

	vesCop := m.Get(currency.VES, currency.COP)
	assert.InDelta(t, 4000/36.5, vesCop.Value, 1e-9)
	assert.Equal(t, SourceDerived, vesCop.Source)
}

func TestBuildMatrix_ManualNeverUsedAsLeg(t *testing.T) {
	active := Rates{
		"USD_VES": {Value: 50, Source: SourceManual, Type: TypeManual, IsDirect: true},
		"USD_COP": {Value: 4000, Source: SourceBanRep, Type: TypeOfficial, IsDirect: true},
	}
	official := Rates{
		"USD_COP": active["USD_COP"],
	}
	m := BuildMatrix(active, official)

	assert.InDelta(t, 50.0, m.Get(currency.USD, currency.VES).Value, 1e-12)
	assert.False(t, m.Get(currency.VES, currency.COP).Available())
}

func TestConvert(t *testing.T) {
	m := BuildMatrix(SeedRates(), SeedRates())
	out := Convert(m, currency.USD, 2)

	assert.InDelta(t, 2.0, out[currency.USD], 1e-12)
	assert.InDelta(t, 73.0, out[currency.VES], 1e-9)
	assert.InDelta(t, 8000.0, out[currency.COP], 1e-9)
	assert.InDelta(t, 2/1.08, out[currency.EUR], 1e-9)

	empty := BuildMatrix(nil, nil)
	out = Convert(empty, currency.VES, 10)
	assert.InDelta(t, 10.0, out[currency.VES], 1e-12)
	assert.Zero(t, out[currency.USD])
}

func TestRateDisplay(t *testing.T) {
	store := NewStore(nil)
	active := store.ActiveRates()
	m := BuildMatrix(active, store.OfficialRates())

	t.Run("identity", func(t *testing.T) {
		info, ok := RateDisplay(currency.VES, currency.VES, active, m)
		require.True(t, ok)
		assert.Equal(t, "VES/VES", info.Pair)
		assert.Equal(t, SourceSystem, info.Source)
		assert.InDelta(t, 1.0, info.Value, 1e-12)
		assert.True(t, info.IsDirect)
	})

	t.Run("direct from lower-ranked side", func(t *testing.T) {
		info, ok := RateDisplay(currency.VES, currency.USD, active, m)
		require.True(t, ok)
		assert.Equal(t, "USD/VES", info.Pair)
		assert.InDelta(t, 36.5, info.Value, 1e-12)
		assert.True(t, info.IsDirect)
		assert.Equal(t, "1 USD = 36,50 VES", info.Describe())
	})

	t.Run("derived from lower-ranked side", func(t *testing.T) {
		info, ok := RateDisplay(currency.COP, currency.VES, active, m)
		require.True(t, ok)
		assert.Equal(t, "VES/COP", info.Pair)
		assert.InDelta(t, 4000/36.5, info.Value, 1e-9)
		assert.Equal(t, SourceDerived, info.Source)
		assert.False(t, info.IsDirect)
	})

	t.Run("unavailable", func(t *testing.T) {
		empty := BuildMatrix(nil, nil)
		_, ok := RateDisplay(currency.VES, currency.COP, nil, empty)
		assert.False(t, ok)
	})
}

func TestRateTypeJSON(t *testing.T) {
	var rt RateType
	require.NoError(t, rt.UnmarshalJSON([]byte(`"oficial"`)))
	assert.Equal(t, TypeOfficial, rt)
	require.NoError(t, rt.UnmarshalJSON([]byte(`"manual"`)))
	assert.Equal(t, TypeManual, rt)
	assert.Error(t, rt.UnmarshalJSON([]byte(`"guess"`)))

	p, err := ParsePreference("oficial")
	require.NoError(t, err)
	assert.Equal(t, TypeOfficial, p)
	_, err = ParsePreference("derived")
	assert.ErrorIs(t, err, ErrInvalidPreference)
}
