// Package events declares the events emitted when calculator state changes.
package events

import (
	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/history"
	"github.com/amirasaad/multicalc/pkg/settings"
)

const (
	TypeHistoryRecorded      = "history.recorded"
	TypeHistoryCleared       = "history.cleared"
	TypeRatesUpdated         = "rates.updated"
	TypeManualRateSaved      = "rates.manual_saved"
	TypePreferenceChanged    = "rates.preference_changed"
	TypeSettingsUpdated      = "settings.updated"
	TypeInputCurrencyChanged = "settings.input_currency_changed"
)

// HistoryRecorded is emitted after a successful evaluation is appended to history.
type HistoryRecorded struct {
	Entry history.Entry
}

func (HistoryRecorded) Type() string { return TypeHistoryRecorded }

// HistoryCleared is emitted when the history is emptied.
type HistoryCleared struct{}

func (HistoryCleared) Type() string { return TypeHistoryCleared }

// RatesUpdated is emitted after a feed payload is merged.
type RatesUpdated struct {
	Merged int
	Date   string
}

func (RatesUpdated) Type() string { return TypeRatesUpdated }

// ManualRateSaved is emitted after a manual rate is stored.
type ManualRateSaved struct {
	Pair  string
	Entry exchange.RateEntry
}

func (ManualRateSaved) Type() string { return TypeManualRateSaved }

// PreferenceChanged is emitted when the preferred rate type of a pair changes.
type PreferenceChanged struct {
	Pair      string
	Preferred exchange.RateType
}

func (PreferenceChanged) Type() string { return TypePreferenceChanged }

// SettingsUpdated is emitted when the app settings change.
type SettingsUpdated struct {
	Settings settings.AppSettings
}

func (SettingsUpdated) Type() string { return TypeSettingsUpdated }

// InputCurrencyChanged is emitted when the active input currency changes.
type InputCurrencyChanged struct {
	Currency currency.Code
}

func (InputCurrencyChanged) Type() string { return TypeInputCurrencyChanged }

// RateEvents are the event types that change the rate blob.
var RateEvents = []string{TypeRatesUpdated, TypeManualRateSaved, TypePreferenceChanged}

// HistoryEvents are the event types that change the history blob.
var HistoryEvents = []string{TypeHistoryRecorded, TypeHistoryCleared}
