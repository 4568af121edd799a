// Package numfmt converts between numbers and the display notation used by the
// calculator: "." groups thousands and "," separates decimals (1.234,56).
package numfmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DecimalSeparator separates the integer and fractional parts on display.
	DecimalSeparator = ","
	// ThousandsSeparator groups integer digits on display.
	ThousandsSeparator = "."
	// ErrorText is rendered for values that are not numbers.
	ErrorText = "Error"
	// Placeholder is rendered when there is no value at all.
	Placeholder = "-.--"
	// maxTrimmedDecimals bounds the fraction digits kept when not padding.
	maxTrimmedDecimals = 6
)

// Format renders v in display notation.
//
// With pad set, exactly minDecimals fraction digits are rendered (rounded half away
// from zero). Otherwise up to max(minDecimals, 6) digits are kept and trailing zeros
// beyond minDecimals are trimmed.
func Format(v float64, minDecimals int, pad bool) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrorText
	}
	if minDecimals < 0 {
		minDecimals = 0
	}
	places := minDecimals
	if !pad && places < maxTrimmedDecimals {
		places = maxTrimmedDecimals
	}

	fixed := decimal.NewFromFloat(v).Round(int32(places)).StringFixed(int32(places))
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, _ := strings.Cut(fixed, ".")
	if !pad {
		for len(frac) > minDecimals && strings.HasSuffix(frac, "0") {
			frac = frac[:len(frac)-1]
		}
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(groupThousands(intPart))
	if frac != "" {
		b.WriteString(DecimalSeparator)
		b.WriteString(frac)
	}
	return b.String()
}

// FormatPtr is Format for optional values; nil renders the placeholder.
func FormatPtr(v *float64, minDecimals int, pad bool) string {
	if v == nil {
		return Placeholder
	}
	return Format(*v, minDecimals, pad)
}

// Parse converts display notation back into a number. Malformed input yields NaN,
// so callers must check with math.IsNaN.
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	std := strings.ReplaceAll(s, ThousandsSeparator, "")
	std = strings.Replace(std, DecimalSeparator, ".", 1)
	for _, r := range std {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' {
			return math.NaN()
		}
	}
	f, err := strconv.ParseFloat(std, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(ThousandsSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
