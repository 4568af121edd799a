// Package currency defines the closed set of currencies handled by the calculator
// and the value rank used to orient currency pairs.
package currency

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedCurrency is returned when a code is not one of the known currencies.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Code represents a currency code (e.g., "USD", "VES").
type Code string

const (
	EUR Code = "EUR"
	USD Code = "USD"
	VES Code = "VES"
	COP Code = "COP"
)

// Pivot is the intermediate currency used to derive missing conversion rates.
const Pivot = USD

// Meta holds currency-specific display metadata.
type Meta struct {
	Symbol        string
	Label         string
	LabelSingular string
	// Rank orders currencies inside a pair. It does not imply real-world value.
	Rank int
}

var metas = map[Code]Meta{
	EUR: {Symbol: "€", Label: "Euros", LabelSingular: "Euro", Rank: 4},
	USD: {Symbol: "$", Label: "Dólares", LabelSingular: "Dólar", Rank: 3},
	VES: {Symbol: "Bs.", Label: "Bolívares", LabelSingular: "Bolívar", Rank: 2},
	COP: {Symbol: "COP", Label: "Pesos Colombianos", LabelSingular: "Peso Colombiano", Rank: 1},
}

// All returns the supported currencies in display order.
func All() []Code {
	return []Code{VES, COP, USD, EUR}
}

// Parse converts a case-insensitive code into a supported Code.
func Parse(s string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, s)
	}
	return c, nil
}

// IsValid reports whether the code is one of the supported currencies.
func (c Code) IsValid() bool {
	_, ok := metas[c]
	return ok
}

// Meta returns the metadata for the code. Unknown codes get a zero rank.
func (c Code) Meta() Meta {
	if m, ok := metas[c]; ok {
		return m
	}
	return Meta{Symbol: string(c), Label: string(c), LabelSingular: string(c)}
}

// Rank returns the value rank of the currency.
func (c Code) Rank() int {
	return c.Meta().Rank
}

// Outranks reports whether c has a higher value rank than other.
func (c Code) Outranks(other Code) bool {
	return c.Rank() > other.Rank()
}

// String returns the string representation of the currency code.
func (c Code) String() string {
	return string(c)
}
