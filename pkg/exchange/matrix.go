package exchange

import (
	"github.com/amirasaad/multicalc/pkg/currency"
)

// Cell is one conversion multiplier: 1 unit of the row currency equals Value
// units of the column currency.
type Cell struct {
	Value  float64 `json:"value"`
	Source Source  `json:"source"`
}

var unavailable = Cell{Value: 0, Source: SourceUnavailable}

// Available reports whether the cell holds a usable rate.
func (c Cell) Available() bool {
	return c.Value != 0 && c.Source != SourceUnavailable
}

// Matrix is the dense from→to table over all supported currencies.
type Matrix map[currency.Code]map[currency.Code]Cell

// BuildMatrix derives every conversion from the active rates. Pairs without an
// active rate are derived through the pivot using official rates only.
func BuildMatrix(active, official Rates) Matrix {
	codes := currency.All()
	m := make(Matrix, len(codes))
	for _, from := range codes {
		row := make(map[currency.Code]Cell, len(codes))
		for _, to := range codes {
			row[to] = buildCell(from, to, active, official)
		}
		m[from] = row
	}
	return m
}

func buildCell(from, to currency.Code, active, official Rates) Cell {
	if from == to {
		return Cell{Value: 1, Source: SourceSystem}
	}
	if c, ok := lookup(active, from, to); ok {
		return c
	}
	if from == currency.Pivot || to == currency.Pivot {
		return unavailable
	}
	toPivot, ok1 := lookup(official, from, currency.Pivot)
	fromPivot, ok2 := lookup(official, currency.Pivot, to)
	if !ok1 || !ok2 {
		return unavailable
	}
	return Cell{Value: toPivot.Value * fromPivot.Value, Source: SourceDerived}
}

// lookup orients the stored high→low entry to the from→to direction.
func lookup(rates Rates, from, to currency.Code) (Cell, bool) {
	key, err := PairKey(from, to)
	if err != nil {
		return Cell{}, false
	}
	e, ok := rates[key]
	if !ok || e.Value == 0 {
		return Cell{}, false
	}
	if from.Outranks(to) {
		return Cell{Value: e.Value, Source: e.Source}, true
	}
	return Cell{Value: 1 / e.Value, Source: e.Source}, true
}

// Get returns the cell for from→to, or the unavailable sentinel.
func (m Matrix) Get(from, to currency.Code) Cell {
	if row, ok := m[from]; ok {
		if c, ok := row[to]; ok {
			return c
		}
	}
	return unavailable
}

// Convert multiplies amount, expressed in from, into every supported currency.
// Unavailable conversions yield 0.
func Convert(m Matrix, from currency.Code, amount float64) map[currency.Code]float64 {
	out := make(map[currency.Code]float64, len(currency.All()))
	for _, to := range currency.All() {
		if to == from {
			out[to] = amount
			continue
		}
		c := m.Get(from, to)
		if !c.Available() {
			out[to] = 0
			continue
		}
		out[to] = amount * c.Value
	}
	return out
}
