package exchange

import (
	"fmt"

	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/numfmt"
)

// DisplayInfo describes a pair as "1 HIGH = Value LOW".
type DisplayInfo struct {
	Pair     string        `json:"pair"`
	High     currency.Code `json:"high"`
	Low      currency.Code `json:"low"`
	Value    float64       `json:"value"`
	Source   Source        `json:"source"`
	IsDirect bool          `json:"isDirect"`
}

// Describe renders the rate for humans, e.g. "1 USD = 36,50 VES".
func (d DisplayInfo) Describe() string {
	return fmt.Sprintf("1 %s = %s %s", d.High, numfmt.Format(d.Value, 2, false), d.Low)
}

// RateDisplay returns display information for the pair queried as from→to.
// It reports false when no rate is available.
func RateDisplay(from, to currency.Code, active Rates, m Matrix) (DisplayInfo, bool) {
	if from == to {
		return DisplayInfo{
			Pair:     PairLabel(from, to),
			High:     from,
			Low:      to,
			Value:    1,
			Source:   SourceSystem,
			IsDirect: true,
		}, true
	}

	key, err := PairKey(from, to)
	if err != nil {
		return DisplayInfo{}, false
	}
	high, low := Orient(from, to)
	info := DisplayInfo{Pair: PairLabel(from, to), High: high, Low: low}

	if e, ok := active[key]; ok {
		info.Value = e.Value
		info.Source = e.Source
		info.IsDirect = e.IsDirect
		return info, true
	}

	c := m.Get(from, to)
	if !c.Available() {
		return DisplayInfo{}, false
	}
	info.Value = c.Value
	if from != high {
		info.Value = 1 / c.Value
	}
	info.Source = c.Source
	return info, true
}
