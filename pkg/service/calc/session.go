package calc

import (
	"context"
	"fmt"

	"github.com/amirasaad/multicalc/pkg/calculator"
	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/events"
	"github.com/amirasaad/multicalc/pkg/eventbus"
	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/expr"
	"github.com/amirasaad/multicalc/pkg/history"
	"github.com/amirasaad/multicalc/pkg/numfmt"
	"github.com/google/uuid"
)

// Conversion is one of the amounts shown under the keypad.
type Conversion struct {
	Currency  currency.Code         `json:"currency"`
	Amount    float64               `json:"amount"`
	Formatted string                `json:"formatted"`
	Available bool                  `json:"available"`
	Rate      *exchange.DisplayInfo `json:"rate,omitempty"`
}

// SessionView is the read model of a keypad session.
type SessionView struct {
	ID             uuid.UUID     `json:"id"`
	Buffer         string        `json:"buffer"`
	LastValid      float64       `json:"lastValid"`
	EffectiveValue float64       `json:"effectiveValue"`
	InputCurrency  currency.Code `json:"inputCurrency"`
	Conversions    []Conversion  `json:"conversions"`
}

// PressResult is the session after a batch of keys plus the history entries it produced.
type PressResult struct {
	Session  SessionView     `json:"session"`
	Recorded []history.Entry `json:"recorded"`
}

// ConversionResult is the outcome of evaluating a free-standing expression.
type ConversionResult struct {
	Expression     string        `json:"expression"`
	Value          float64       `json:"value"`
	EffectiveValue float64       `json:"effectiveValue"`
	InputCurrency  currency.Code `json:"inputCurrency"`
	Conversions    []Conversion  `json:"conversions"`
}

// NewSession starts a keypad session with buffer "0".
func (s *Service) NewSession() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	m := calculator.New()
	s.sessions[id] = m
	s.logger.Debug("session created", "session", id)
	return s.view(id, m)
}

// Session returns the current view of a session.
func (s *Service) Session(id uuid.UUID) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.sessions[id]
	if !ok {
		return SessionView{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.view(id, m), nil
}

// CloseSession forgets a session.
func (s *Service) CloseSession(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

// Press applies keys in order. Every successful "=" appends a history entry.
func (s *Service) Press(ctx context.Context, id uuid.UUID, keys ...calculator.Key) (PressResult, error) {
	s.mu.Lock()
	m, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return PressResult{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	var recorded []history.Entry
	for _, k := range keys {
		res := m.Press(k)
		if res.Evaluation == nil {
			continue
		}
		entry := history.NewEntry(res.Evaluation.Expression, res.Evaluation.Value,
			s.input, s.settings, s.matrix, s.now())
		s.history.Add(entry)
		recorded = append(recorded, entry)
	}
	view := s.view(id, m)
	s.mu.Unlock()

	evts := make([]eventbus.Event, 0, len(recorded))
	for _, e := range recorded {
		s.logger.Info("evaluation recorded", "session", id, "expression", e.Expression, "input", e.InputCurrency)
		evts = append(evts, events.HistoryRecorded{Entry: e})
	}
	s.emit(ctx, evts...)

	if recorded == nil {
		recorded = []history.Entry{}
	}
	return PressResult{Session: view, Recorded: recorded}, nil
}

// Convert evaluates a display-notation expression in the given currency.
// An empty currency uses the active input currency.
func (s *Service) Convert(expression string, from currency.Code) (ConversionResult, error) {
	v, err := expr.EvaluateDisplay(expression)
	if err != nil {
		return ConversionResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if from == "" {
		from = s.input
	}
	if !from.IsValid() {
		return ConversionResult{}, fmt.Errorf("%w: %q", currency.ErrUnsupportedCurrency, from)
	}
	effective := s.settings.EffectiveValue(v, from)
	return ConversionResult{
		Expression:     expression,
		Value:          v,
		EffectiveValue: effective,
		InputCurrency:  from,
		Conversions:    s.conversions(from, effective),
	}, nil
}

// view builds a SessionView. Callers hold mu.
func (s *Service) view(id uuid.UUID, m *calculator.Machine) SessionView {
	effective := s.settings.EffectiveValue(m.LastValid(), s.input)
	return SessionView{
		ID:             id,
		Buffer:         m.Buffer(),
		LastValid:      m.LastValid(),
		EffectiveValue: effective,
		InputCurrency:  s.input,
		Conversions:    s.conversions(s.input, effective),
	}
}

// conversions expresses amount in every currency. Callers hold mu.
func (s *Service) conversions(from currency.Code, amount float64) []Conversion {
	active := s.store.ActiveRates()
	amounts := exchange.Convert(s.matrix, from, amount)

	out := make([]Conversion, 0, len(currency.All()))
	for _, to := range currency.All() {
		c := Conversion{Currency: to, Formatted: numfmt.Placeholder}
		if to == from || s.matrix.Get(from, to).Available() {
			c.Available = true
			c.Amount = amounts[to]
			c.Formatted = numfmt.Format(c.Amount, 2, false)
		}
		if info, ok := exchange.RateDisplay(from, to, active, s.matrix); ok {
			c.Rate = &info
		}
		out = append(out, c)
	}
	return out
}
