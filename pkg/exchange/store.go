package exchange

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/amirasaad/multicalc/pkg/currency"
)

// BCVRates are the Banco Central de Venezuela leaves of a feed payload.
type BCVRates struct {
	USDVES float64 `json:"usdves,omitempty"`
	EURVES float64 `json:"eurves,omitempty"`
}

// BanRepRates are the Banco de la República leaves of a feed payload.
type BanRepRates struct {
	USDCOP float64 `json:"usdcop,omitempty"`
}

// BCERates are the European Central Bank leaves of a feed payload.
type BCERates struct {
	EURUSD float64 `json:"eurusd,omitempty"`
}

// FetchedRates is the payload published by the official rate feed.
// Any publisher or leaf may be missing.
type FetchedRates struct {
	Date   string       `json:"date"`
	BCV    *BCVRates    `json:"BCV,omitempty"`
	BanRep *BanRepRates `json:"BanRep,omitempty"`
	BCE    *BCERates    `json:"BCE,omitempty"`
}

// State is the persisted form of a Store.
type State struct {
	OfficialRates      Rates               `json:"officialRates"`
	ManualRates        Rates               `json:"manualRates"`
	PreferredRateTypes map[string]RateType `json:"preferredRateTypes"`
	LastCloudFetchDate string              `json:"lastCloudFetchDate,omitempty"`
}

// EpochFetchDate marks a store that has never merged a feed payload.
var EpochFetchDate = time.Unix(0, 0).UTC().Format("2006-01-02T15:04:05.000Z")

// SeedRates returns the fallback official rates used until a feed payload is merged.
func SeedRates() Rates {
	return Rates{
		"USD_VES": {Value: 36.50, Source: SourceBCV, Type: TypeOfficial, IsDirect: true},
		"EUR_VES": {Value: 39.80, Source: SourceBCV, Type: TypeOfficial, IsDirect: true},
		"USD_COP": {Value: 4000.00, Source: SourceBanRep, Type: TypeOfficial, IsDirect: true},
		"EUR_USD": {Value: 1.08, Source: SourceBCE, Type: TypeOfficial, IsDirect: true},
	}
}

// DefaultState returns the state of a freshly seeded store.
func DefaultState() State {
	return State{
		OfficialRates:      SeedRates(),
		ManualRates:        Rates{},
		PreferredRateTypes: map[string]RateType{},
		LastCloudFetchDate: EpochFetchDate,
	}
}

// Store holds the official and manual rate tables plus the per-pair preference.
// It is not safe for concurrent use.
type Store struct {
	official  Rates
	manual    Rates
	preferred map[string]RateType
	lastFetch string
	logger    *slog.Logger
}

// NewStore returns a store seeded with the fallback official rates.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger}
	s.Load(DefaultState())
	return s
}

// SetManualRate stores "1 base = value quote" as a manual rate.
// Invalid input leaves the store untouched.
func (s *Store) SetManualRate(base, quote currency.Code, value float64) error {
	updated, err := s.apply(s.manual, base, quote, value, SourceManual)
	if err != nil {
		s.logger.Warn("manual rate rejected",
			"base", base, "quote", quote, "value", value, "error", err)
		return err
	}
	s.manual = updated
	return nil
}

// SetPreferredType records which table wins for the pair.
func (s *Store) SetPreferredType(pairKey string, t RateType) error {
	if _, _, err := SplitPairKey(pairKey); err != nil {
		return err
	}
	if t != TypeOfficial && t != TypeManual {
		return fmt.Errorf("%w: %q", ErrInvalidPreference, t)
	}
	s.preferred[pairKey] = t
	return nil
}

// Preferred returns the stored preference for the pair, if any.
func (s *Store) Preferred(pairKey string) (RateType, bool) {
	t, ok := s.preferred[pairKey]
	return t, ok
}

// MergeFetched folds a feed payload into the official table and returns how
// many rates were updated. Missing or non-positive leaves are skipped.
func (s *Store) MergeFetched(f FetchedRates) int {
	type leaf struct {
		base, quote currency.Code
		value       float64
		source      Source
	}
	var leaves []leaf
	if f.BCV != nil {
		leaves = append(leaves,
			leaf{currency.USD, currency.VES, f.BCV.USDVES, SourceBCV},
			leaf{currency.EUR, currency.VES, f.BCV.EURVES, SourceBCV})
	}
	if f.BanRep != nil {
		leaves = append(leaves, leaf{currency.USD, currency.COP, f.BanRep.USDCOP, SourceBanRep})
	}
	if f.BCE != nil {
		leaves = append(leaves, leaf{currency.EUR, currency.USD, f.BCE.EURUSD, SourceBCE})
	}

	official := s.official
	merged := 0
	for _, l := range leaves {
		if l.value <= 0 {
			continue
		}
		updated, err := s.apply(official, l.base, l.quote, l.value, l.source)
		if err != nil {
			s.logger.Warn("fetched rate skipped",
				"base", l.base, "quote", l.quote, "source", l.source, "error", err)
			continue
		}
		official = updated
		merged++
	}
	s.official = official
	if f.Date != "" {
		s.lastFetch = f.Date
	}
	return merged
}

// ActiveRates resolves, for every known pair, the entry that conversions should use.
func (s *Store) ActiveRates() Rates {
	return resolveActive(s.official, s.manual, s.preferred)
}

// OfficialRates returns a copy of the official table.
func (s *Store) OfficialRates() Rates { return s.official.Clone() }

// ManualRates returns a copy of the manual table.
func (s *Store) ManualRates() Rates { return s.manual.Clone() }

// LastFetch returns the date of the last merged feed payload.
func (s *Store) LastFetch() string { return s.lastFetch }

// State returns a copy of the store suitable for persistence.
func (s *Store) State() State {
	prefs := make(map[string]RateType, len(s.preferred))
	for k, v := range s.preferred {
		prefs[k] = v
	}
	return State{
		OfficialRates:      s.official.Clone(),
		ManualRates:        s.manual.Clone(),
		PreferredRateTypes: prefs,
		LastCloudFetchDate: s.lastFetch,
	}
}

// Load replaces the store contents. Entries with bad keys or values are dropped,
// and a missing official table falls back to the seed rates.
func (s *Store) Load(st State) {
	official := st.OfficialRates
	if official == nil {
		official = SeedRates()
	}
	s.official = s.sanitize(official, "official")
	s.manual = s.sanitize(st.ManualRates, "manual")

	s.preferred = make(map[string]RateType, len(st.PreferredRateTypes))
	for k, t := range st.PreferredRateTypes {
		if _, _, err := SplitPairKey(k); err != nil || (t != TypeOfficial && t != TypeManual) {
			s.logger.Warn("dropping stored preference", "pair", k, "type", t)
			continue
		}
		s.preferred[k] = t
	}

	s.lastFetch = st.LastCloudFetchDate
	if s.lastFetch == "" {
		s.lastFetch = EpochFetchDate
	}
}

func (s *Store) sanitize(in Rates, table string) Rates {
	out := make(Rates, len(in))
	for k, e := range in {
		if _, _, err := SplitPairKey(k); err != nil {
			s.logger.Warn("dropping stored rate", "table", table, "pair", k, "error", err)
			continue
		}
		if err := validateValue(e.Value); err != nil {
			s.logger.Warn("dropping stored rate", "table", table, "pair", k, "error", err)
			continue
		}
		out[k] = e
	}
	return out
}

// apply returns a copy of rates with "1 base = value quote" stored under the ordered key.
func (s *Store) apply(rates Rates, base, quote currency.Code, value float64, source Source) (Rates, error) {
	key, err := PairKey(base, quote)
	if err != nil {
		return nil, err
	}
	if err := validateValue(value); err != nil {
		return nil, err
	}

	t := TypeDerived
	switch {
	case source == SourceManual:
		t = TypeManual
	case source.IsOfficial():
		t = TypeOfficial
	default:
		s.logger.Warn("unexpected rate source, storing as derived", "source", source, "pair", key)
	}

	out := rates.Clone()
	out[key] = RateEntry{
		Value:    OrientValue(base, quote, value),
		Source:   source,
		Type:     t,
		IsDirect: true,
	}
	return out, nil
}

func validateValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRate, v)
	}
	return nil
}

func resolveActive(official, manual Rates, preferred map[string]RateType) Rates {
	active := make(Rates, len(official)+len(manual))
	keys := make(map[string]struct{}, len(official)+len(manual))
	for k := range official {
		keys[k] = struct{}{}
	}
	for k := range manual {
		keys[k] = struct{}{}
	}

	for k := range keys {
		m, hasManual := manual[k]
		o, hasOfficial := official[k]
		switch pref := preferred[k]; {
		case pref == TypeManual && hasManual:
			active[k] = m
		case pref == TypeOfficial:
			if hasOfficial {
				active[k] = o
			}
		case hasManual:
			active[k] = m
		case hasOfficial:
			active[k] = o
		}
	}
	return active
}
