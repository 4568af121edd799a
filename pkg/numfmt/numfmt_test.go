package numfmt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		min    int
		pad    bool
		expect string
	}{
		{name: "padded integer", value: 8, min: 2, pad: true, expect: "8,00"},
		{name: "padded thousands", value: 1234567.891, min: 2, pad: true, expect: "1.234.567,89"},
		{name: "padded negative", value: -1234.5, min: 2, pad: true, expect: "-1.234,50"},
		{name: "padded rounds half away", value: 2.345, min: 2, pad: true, expect: "2,35"},
		{name: "padded zero decimals", value: 1999.6, min: 0, pad: true, expect: "2.000"},
		{name: "trimmed keeps minimum", value: 36.5, min: 2, pad: false, expect: "36,50"},
		{name: "trimmed keeps precision", value: 0.000250, min: 2, pad: false, expect: "0,00025"},
		{name: "trimmed caps at six", value: 1.0 / 3.0, min: 2, pad: false, expect: "0,333333"},
		{name: "trimmed to integer", value: 42, min: 0, pad: false, expect: "42"},
		{name: "small group", value: 999, min: 0, pad: true, expect: "999"},
		{name: "exact group", value: 123456, min: 0, pad: true, expect: "123.456"},
		{name: "nan", value: math.NaN(), min: 2, pad: true, expect: ErrorText},
		{name: "infinity", value: math.Inf(1), min: 2, pad: true, expect: ErrorText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Format(tt.value, tt.min, tt.pad))
		})
	}
}

func TestFormatPtr(t *testing.T) {
	assert.Equal(t, Placeholder, FormatPtr(nil, 2, true))
	v := 3.5
	assert.Equal(t, "3,50", FormatPtr(&v, 2, true))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		expect float64
	}{
		{in: "8,00", expect: 8},
		{in: "1.234.567,89", expect: 1234567.89},
		{in: "-1.234,5", expect: -1234.5},
		{in: "0,", expect: 0},
		{in: "42", expect: 42},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.expect, Parse(tt.in), 1e-9)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{"", "abc", "1,2,3", "Error", "Inf", "NaN", "1e5", "5+3"} {
		t.Run(in, func(t *testing.T) {
			assert.True(t, math.IsNaN(Parse(in)), "expected NaN for %q", in)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 0.01, -0.01, 12.34, -12.34, 1234.56, -987654.32, 36.5, 4000, 1e9 + 0.25}
	for _, v := range values {
		got := Parse(Format(v, 2, true))
		assert.InDelta(t, v, got, 1e-9, "round trip of %v", v)
	}
}
