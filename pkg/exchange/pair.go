package exchange

import (
	"fmt"
	"strings"

	"github.com/amirasaad/multicalc/pkg/currency"
)

const pairSeparator = "_"

// PairKey returns the canonical key for an unordered pair, higher rank first.
func PairKey(c1, c2 currency.Code) (string, error) {
	if c1 == c2 {
		return "", fmt.Errorf("%w: %s", ErrSameCurrency, c1)
	}
	if !c1.IsValid() || !c2.IsValid() {
		return "", fmt.Errorf("%w: %s%s%s", ErrInvalidPairKey, c1, pairSeparator, c2)
	}
	high, low := Orient(c1, c2)
	return string(high) + pairSeparator + string(low), nil
}

// MustPairKey is PairKey for pairs known to be valid.
func MustPairKey(c1, c2 currency.Code) string {
	key, err := PairKey(c1, c2)
	if err != nil {
		panic(err)
	}
	return key
}

// SplitPairKey parses and validates a canonical pair key.
func SplitPairKey(key string) (high, low currency.Code, err error) {
	parts := strings.Split(key, pairSeparator)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPairKey, key)
	}
	high, low = currency.Code(parts[0]), currency.Code(parts[1])
	if !high.IsValid() || !low.IsValid() || high == low || !high.Outranks(low) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPairKey, key)
	}
	return high, low, nil
}

// Orient returns the pair ordered by rank.
func Orient(c1, c2 currency.Code) (high, low currency.Code) {
	if c1.Outranks(c2) {
		return c1, c2
	}
	return c2, c1
}

// OrientValue converts "1 base = value quote" into the high-to-low value stored for the pair.
func OrientValue(base, quote currency.Code, value float64) float64 {
	if base.Outranks(quote) {
		return value
	}
	return 1 / value
}

// PairLabel renders the pair as HIGH/LOW.
func PairLabel(c1, c2 currency.Code) string {
	if c1 == c2 {
		return string(c1) + "/" + string(c1)
	}
	high, low := Orient(c1, c2)
	return string(high) + "/" + string(low)
}
