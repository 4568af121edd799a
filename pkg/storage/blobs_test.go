package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/history"
	"github.com/amirasaad/multicalc/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockKV struct {
	mock.Mock
}

func (m *MockKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Bool(1), args.Error(2)
}

func (m *MockKV) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKV) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestBlobs_LoadDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("missing blobs", func(t *testing.T) {
		kv := new(MockKV)
		kv.On("Get", ctx, mock.Anything).Return(nil, false, nil)
		b := NewBlobs(kv, nil)

		assert.Equal(t, settings.Default(), b.LoadSettings(ctx))
		assert.Equal(t, exchange.DefaultState(), b.LoadRates(ctx))
		assert.Empty(t, b.LoadHistory(ctx))
		assert.Equal(t, currency.VES, b.LoadInputCurrency(ctx))
		kv.AssertNumberOfCalls(t, "Get", 4)
	})

	t.Run("malformed blobs", func(t *testing.T) {
		kv := new(MockKV)
		kv.On("Get", ctx, mock.Anything).Return([]byte("{not json"), true, nil)
		b := NewBlobs(kv, nil)

		assert.Equal(t, settings.Default(), b.LoadSettings(ctx))
		assert.Equal(t, exchange.DefaultState(), b.LoadRates(ctx))
		assert.Empty(t, b.LoadHistory(ctx))
	})

	t.Run("backend failure", func(t *testing.T) {
		kv := new(MockKV)
		kv.On("Get", ctx, KeyRates).Return(nil, false, errors.New("boom"))
		b := NewBlobs(kv, nil)

		assert.Equal(t, exchange.DefaultState(), b.LoadRates(ctx))
	})

	t.Run("rate blob without manual table", func(t *testing.T) {
		kv := new(MockKV)
		kv.On("Get", ctx, KeyRates).Return([]byte(`{"officialRates":{}}`), true, nil)
		b := NewBlobs(kv, nil)

		assert.Equal(t, exchange.DefaultState(), b.LoadRates(ctx))
	})

	t.Run("unknown input currency", func(t *testing.T) {
		kv := new(MockKV)
		kv.On("Get", ctx, KeyInputCurrency).Return([]byte(`"GBP"`), true, nil)
		b := NewBlobs(kv, nil)

		assert.Equal(t, currency.VES, b.LoadInputCurrency(ctx))
	})
}

func TestBlobs_LoadStored(t *testing.T) {
	ctx := context.Background()
	kv := new(MockKV)
	kv.On("Get", ctx, KeySettings).
		Return([]byte(`{"darkMode":true,"copMultiplyByThousand":true}`), true, nil)
	kv.On("Get", ctx, KeyRates).
		Return([]byte(`{"officialRates":{"USD_VES":{"value":90,"source":"BCV","type":"oficial","isDirect":true}},"manualRates":{},"lastCloudFetchDate":"01/01/2026"}`), true, nil)
	kv.On("Get", ctx, KeyInputCurrency).Return([]byte(`"usd"`), true, nil)
	b := NewBlobs(kv, nil)

	s := b.LoadSettings(ctx)
	assert.True(t, s.DarkMode)
	assert.True(t, s.COPMultiplyByThousand)

	st := b.LoadRates(ctx)
	require.Contains(t, st.OfficialRates, "USD_VES")
	assert.Equal(t, exchange.TypeOfficial, st.OfficialRates["USD_VES"].Type)
	assert.NotNil(t, st.PreferredRateTypes)
	assert.Equal(t, "01/01/2026", st.LastCloudFetchDate)

	assert.Equal(t, currency.USD, b.LoadInputCurrency(ctx))
}

func TestBlobs_Save(t *testing.T) {
	ctx := context.Background()
	kv := new(MockKV)
	kv.On("Set", ctx, KeySettings, []byte(`{"darkMode":false,"copMultiplyByThousand":true}`)).Return(nil)
	kv.On("Set", ctx, KeyHistory, []byte(`[]`)).Return(nil)
	kv.On("Set", ctx, KeyInputCurrency, []byte(`"COP"`)).Return(nil)
	kv.On("Set", ctx, KeyRates, mock.Anything).Return(errors.New("disk full"))
	b := NewBlobs(kv, nil)

	require.NoError(t, b.SaveSettings(ctx, settings.AppSettings{COPMultiplyByThousand: true}))
	require.NoError(t, b.SaveHistory(ctx, []history.Entry(nil)))
	require.NoError(t, b.SaveInputCurrency(ctx, currency.COP))

	err := b.SaveRates(ctx, exchange.DefaultState())
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyRates)
	kv.AssertExpectations(t)
}
