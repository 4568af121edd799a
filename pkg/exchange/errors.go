package exchange

import "errors"

var (
	// ErrInvalidRate indicates a non-positive or non-finite rate value.
	ErrInvalidRate = errors.New("invalid exchange rate")

	// ErrSameCurrency indicates a pair built from one currency twice.
	ErrSameCurrency = errors.New("pair needs two distinct currencies")

	// ErrInvalidPairKey indicates a pair key that is not HIGH_LOW over supported currencies.
	ErrInvalidPairKey = errors.New("invalid pair key")

	// ErrInvalidPreference indicates a preferred type other than official or manual.
	ErrInvalidPreference = errors.New("invalid rate preference")
)
