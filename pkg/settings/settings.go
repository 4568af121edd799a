// Package settings holds user preferences that change how evaluated values are used.
package settings

import "github.com/amirasaad/multicalc/pkg/currency"

// COPScale is the multiplier applied to COP input when COPMultiplyByThousand is on.
const COPScale = 1000

// AppSettings are the persisted user preferences.
type AppSettings struct {
	DarkMode              bool `json:"darkMode"`
	COPMultiplyByThousand bool `json:"copMultiplyByThousand"`
}

// Default returns the settings of a fresh install.
func Default() AppSettings {
	return AppSettings{}
}

// DefaultInputCurrency is the input currency of a fresh install.
const DefaultInputCurrency = currency.VES

// EffectiveValue applies the COP scaling policy to an evaluated value.
func (s AppSettings) EffectiveValue(v float64, input currency.Code) float64 {
	if input == currency.COP && s.COPMultiplyByThousand {
		return v * COPScale
	}
	return v
}
