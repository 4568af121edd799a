// Package history records completed evaluations together with their conversions.
package history

import (
	"math"
	"sync"
	"time"

	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/settings"
	"github.com/google/uuid"
)

// DefaultLimit caps the number of entries kept.
const DefaultLimit = 50

// Entry is one completed evaluation. Entries are never modified after creation.
type Entry struct {
	ID            uuid.UUID                 `json:"id"`
	Expression    string                    `json:"expression"`
	Results       map[currency.Code]float64 `json:"results"`
	InputCurrency currency.Code             `json:"inputCurrency"`
	Timestamp     time.Time                 `json:"timestamp"`
}

// NewEntry converts the raw result into every currency using the matrix.
// Non-finite or unavailable conversions are stored as 0.
func NewEntry(
	expression string,
	raw float64,
	input currency.Code,
	s settings.AppSettings,
	m exchange.Matrix,
	now time.Time,
) Entry {
	effective := s.EffectiveValue(raw, input)
	results := make(map[currency.Code]float64, len(currency.All()))
	for code, v := range exchange.Convert(m, input, effective) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		results[code] = v
	}
	return Entry{
		ID:            uuid.New(),
		Expression:    expression,
		Results:       results,
		InputCurrency: input,
		Timestamp:     now.UTC(),
	}
}

// Log keeps entries newest first, capped at a limit.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
}

// NewLog returns an empty log. A non-positive limit uses DefaultLimit.
func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit}
}

// Add prepends e and drops the oldest entries beyond the limit.
func (l *Log) Add(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > l.limit {
		l.entries = l.entries[:l.limit]
	}
}

// List returns a copy of the entries, newest first.
func (l *Log) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear removes every entry.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Load replaces the entries, keeping at most the limit.
func (l *Log) Load(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(entries) > l.limit {
		entries = entries[:l.limit]
	}
	l.entries = make([]Entry, len(entries))
	copy(l.entries, entries)
}
