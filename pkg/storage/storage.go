// Package storage defines the key-value contract used to persist calculator state
// and the JSON codec for the blobs stored under it.
package storage

import (
	"context"
	"errors"
)

// Keys of the persisted blobs.
const (
	KeySettings      = "appSettings"
	KeyRates         = "exchangeRates"
	KeyHistory       = "operationHistory"
	KeyInputCurrency = "activeInputCurrency"
)

// ErrStorage wraps backend failures.
var ErrStorage = errors.New("storage error")

// KV is a minimal key-value store. A missing key is reported with ok == false and a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
