// Package exchange keeps the official and manual rate tables, resolves the active
// rate per pair and derives the full conversion matrix between supported currencies.
//
// Every stored value is oriented high to low: it is the amount of the lower-ranked
// currency worth one unit of the higher-ranked one.
package exchange

import (
	"encoding/json"
	"fmt"
)

// Source identifies where a rate came from.
type Source string

const (
	SourceBCV     Source = "BCV"
	SourceBanRep  Source = "BANREP"
	SourceBCE     Source = "BCE"
	SourceManual  Source = "Manual"
	SourceDerived Source = "Derived"
	SourceSystem  Source = "System"
	// SourceUnavailable marks a matrix cell with no direct or derivable rate.
	SourceUnavailable Source = "No Disponible"
)

// IsOfficial reports whether s is one of the official publishers.
func (s Source) IsOfficial() bool {
	switch s {
	case SourceBCV, SourceBanRep, SourceBCE:
		return true
	}
	return false
}

// RateType classifies a rate entry.
type RateType string

const (
	TypeOfficial RateType = "official"
	TypeManual   RateType = "manual"
	TypeDerived  RateType = "derived"
	TypeIdentity RateType = "identity"
)

// legacyOfficial is how older blobs spell TypeOfficial.
const legacyOfficial = "oficial"

// UnmarshalJSON accepts the legacy spelling of the official type.
func (t *RateType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == legacyOfficial {
		s = string(TypeOfficial)
	}
	switch RateType(s) {
	case TypeOfficial, TypeManual, TypeDerived, TypeIdentity:
		*t = RateType(s)
		return nil
	}
	return fmt.Errorf("unknown rate type %q", s)
}

// ParsePreference validates a user preference; only official and manual are allowed.
func ParsePreference(s string) (RateType, error) {
	switch s {
	case string(TypeOfficial), legacyOfficial:
		return TypeOfficial, nil
	case string(TypeManual):
		return TypeManual, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPreference, s)
}

// RateEntry is one stored rate, oriented high to low.
type RateEntry struct {
	Value    float64  `json:"value"`
	Source   Source   `json:"source"`
	Type     RateType `json:"type"`
	IsDirect bool     `json:"isDirect"`
}

// Rates maps ordered pair keys to entries.
type Rates map[string]RateEntry

// Clone returns a shallow copy.
func (r Rates) Clone() Rates {
	out := make(Rates, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
