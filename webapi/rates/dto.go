package rates

import (
	"github.com/amirasaad/multicalc/pkg/exchange"
)

// ManualRateRequest stores "1 base = value quote".
type ManualRateRequest struct {
	Base  string  `json:"base" validate:"required,len=3"`
	Quote string  `json:"quote" validate:"required,len=3"`
	Value float64 `json:"value" validate:"required"`
}

// PreferenceRequest selects the table used for a pair.
type PreferenceRequest struct {
	Pair string `json:"pair" validate:"required"`
	Type string `json:"type" validate:"required"`
}

// RatesResponse is the full rate state plus the resolved active table.
type RatesResponse struct {
	Official  exchange.Rates               `json:"officialRates"`
	Manual    exchange.Rates               `json:"manualRates"`
	Preferred map[string]exchange.RateType `json:"preferredRateTypes"`
	Active    exchange.Rates               `json:"activeRates"`
	LastFetch string                       `json:"lastCloudFetchDate"`
}

// DisplayResponse is DisplayInfo with its rendered form.
type DisplayResponse struct {
	exchange.DisplayInfo
	Text string `json:"text"`
}
