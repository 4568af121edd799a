// Package calculator implements the keypad state machine that builds an arithmetic
// expression one key at a time and keeps a live preview of its value.
package calculator

import (
	"math"
	"strings"

	"github.com/amirasaad/multicalc/pkg/expr"
	"github.com/amirasaad/multicalc/pkg/numfmt"
)

const (
	initialBuffer = "0"
	errorBuffer   = numfmt.ErrorText
	decimalSep    = numfmt.DecimalSeparator
)

// Evaluation is emitted when "=" completes successfully.
type Evaluation struct {
	Expression string  `json:"expression"`
	Value      float64 `json:"value"`
}

// Result describes the outcome of a single key press.
type Result struct {
	Buffer     string      `json:"buffer"`
	LastValid  float64     `json:"lastValid"`
	Changed    bool        `json:"changed"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// State is a serializable snapshot of a Machine.
type State struct {
	Buffer        string  `json:"buffer"`
	JustEvaluated bool    `json:"justEvaluated"`
	FreshOperand  bool    `json:"freshOperand"`
	LastValid     float64 `json:"lastValid"`
}

// Machine holds one calculator's expression buffer. It is not safe for concurrent use.
type Machine struct {
	buffer string
	// segStart indexes the first byte of the numeric segment being typed.
	segStart      int
	justEvaluated bool
	freshOperand  bool
	lastValid     float64
}

// New returns a machine with buffer "0".
func New() *Machine {
	m := &Machine{}
	m.setBuffer(initialBuffer)
	return m
}

// Buffer returns the expression as displayed.
func (m *Machine) Buffer() string { return m.buffer }

// LastValid returns the most recent successfully evaluated value.
func (m *Machine) LastValid() float64 { return m.lastValid }

// Snapshot captures the machine state.
func (m *Machine) Snapshot() State {
	return State{
		Buffer:        m.buffer,
		JustEvaluated: m.justEvaluated,
		FreshOperand:  m.freshOperand,
		LastValid:     m.lastValid,
	}
}

// Restore replaces the machine state. An empty buffer restores to "0".
func (m *Machine) Restore(s State) {
	buf := s.Buffer
	if buf == "" {
		buf = initialBuffer
	}
	m.setBuffer(buf)
	m.justEvaluated = s.JustEvaluated
	m.freshOperand = s.FreshOperand
	m.lastValid = s.LastValid
	if math.IsNaN(m.lastValid) || math.IsInf(m.lastValid, 0) {
		m.lastValid = 0
	}
}

// Press applies one key and refreshes the live preview.
func (m *Machine) Press(k Key) Result {
	before := m.buffer
	var ev *Evaluation

	switch {
	case k == KeyClear:
		m.setBuffer(initialBuffer)
		m.lastValid = 0
	case k == KeyEquals:
		ev = m.equals()
	case k == KeyBackspace:
		m.backspace()
	case m.buffer == errorBuffer:
		m.recoverFromError(k)
	case k == KeySubtract && m.buffer == initialBuffer:
		m.setBuffer(string(KeySubtract))
		m.justEvaluated = false
	case k == KeySubtract && m.last() == '(':
		m.setBuffer(m.buffer + string(KeySubtract))
	case k.IsOperator():
		m.operator(k)
	case k == KeyDecimal:
		m.decimal()
	case k == KeyOpen:
		m.open()
	case k == KeyClose:
		m.close()
	case k == KeyParens:
		m.toggleParens()
	case k.IsDigit():
		m.digit(k)
	}

	changed := m.buffer != before
	if changed {
		m.preview()
	}
	return Result{
		Buffer:     m.buffer,
		LastValid:  m.lastValid,
		Changed:    changed || ev != nil,
		Evaluation: ev,
	}
}

func (m *Machine) equals() *Evaluation {
	last := m.last()
	if m.buffer == errorBuffer || isOperator(last) || last == '(' ||
		strings.HasSuffix(m.buffer, decimalSep) || m.justEvaluated {
		return nil
	}

	expression := m.buffer
	v, err := expr.EvaluateDisplay(expression)
	if err != nil {
		m.setBuffer(errorBuffer)
		m.lastValid = 0
		return nil
	}

	formatted := numfmt.Format(v, 2, true)
	m.setBuffer(formatted)
	m.lastValid = numfmt.Parse(formatted)
	m.justEvaluated = true
	m.freshOperand = true
	return &Evaluation{Expression: expression, Value: m.lastValid}
}

func (m *Machine) backspace() {
	if len(m.buffer) > 1 && m.buffer != errorBuffer {
		m.setBuffer(m.buffer[:len(m.buffer)-1])
		m.justEvaluated = false
		return
	}
	m.setBuffer(initialBuffer)
}

func (m *Machine) recoverFromError(k Key) {
	switch {
	case k.IsDigit():
		m.setBuffer(string(k))
	case k == KeyDecimal:
		m.setBuffer("0" + decimalSep)
	case k == KeySubtract:
		m.setBuffer(string(k))
	case k == KeyOpen, k == KeyParens:
		m.setBuffer("(")
		m.freshOperand = false
	}
	m.justEvaluated = false
}

func (m *Machine) operator(k Key) {
	if m.buffer == initialBuffer && k != KeySubtract && k != KeyPercent {
		return
	}
	last := m.last()
	if isOperator(last) {
		if m.protectedMinus() {
			return
		}
		m.setBuffer(m.buffer[:len(m.buffer)-1] + string(k))
		return
	}
	if last != '(' && !strings.HasSuffix(m.buffer, decimalSep) {
		m.setBuffer(m.buffer + string(k))
		m.justEvaluated = false
	}
}

// protectedMinus reports whether the buffer ends in a unary minus that
// opens the expression or a group.
func (m *Machine) protectedMinus() bool {
	n := len(m.buffer)
	if n == 0 || m.buffer[n-1] != '-' {
		return false
	}
	return n == 1 || m.buffer[n-2] == '('
}

func (m *Machine) decimal() {
	segment := m.buffer[m.segStart:]
	if strings.Contains(segment, decimalSep) {
		return
	}
	if isDigit(m.last()) || m.buffer == initialBuffer {
		m.setBuffer(m.buffer + decimalSep)
	}
}

func (m *Machine) open() {
	last := m.last()
	switch {
	case m.buffer == initialBuffer:
		m.setBuffer("(")
	case isDigit(last) || last == ')':
		m.setBuffer(m.buffer + "*(")
	case isOperator(last) || last == '(':
		m.setBuffer(m.buffer + "(")
	default:
		return
	}
	m.freshOperand = false
}

func (m *Machine) close() {
	last := m.last()
	if m.unclosed() > 0 && (isDigit(last) || last == ')') {
		m.setBuffer(m.buffer + ")")
	}
}

func (m *Machine) toggleParens() {
	last := m.last()
	switch {
	case m.buffer == initialBuffer:
		m.setBuffer("(")
	case m.unclosed() > 0 && (isDigit(last) || last == ')'):
		m.setBuffer(m.buffer + ")")
		return
	case isDigit(last) || last == ')':
		m.setBuffer(m.buffer + "*(")
	case isOperator(last):
		m.setBuffer(m.buffer + "(")
	default:
		return
	}
	m.freshOperand = false
}

func (m *Machine) digit(k Key) {
	switch {
	case m.buffer == initialBuffer:
		m.setBuffer(string(k))
		m.justEvaluated = false
	case m.last() == ')':
		m.setBuffer(m.buffer + "*" + string(k))
	case m.justEvaluated && m.freshOperand:
		m.setBuffer(string(k))
		m.justEvaluated = false
		m.freshOperand = false
	default:
		m.setBuffer(m.buffer + string(k))
		m.justEvaluated = false
	}
}

// preview re-evaluates the buffer for display. Failures keep the previous value.
func (m *Machine) preview() {
	buf := m.buffer
	if buf == errorBuffer || buf == "" || strings.HasSuffix(buf, decimalSep) {
		return
	}
	if last := buf[len(buf)-1]; isOperator(last) || last == '(' {
		buf = buf[:len(buf)-1]
		if buf == "" {
			return
		}
		if prev := buf[len(buf)-1]; isOperator(prev) || prev == '(' {
			return
		}
	}
	v, err := expr.EvaluateDisplay(buf)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	m.lastValid = v
}

func (m *Machine) setBuffer(s string) {
	m.buffer = s
	m.segStart = strings.LastIndexAny(s, "+-*/%()") + 1
}

func (m *Machine) last() byte {
	if m.buffer == "" {
		return 0
	}
	return m.buffer[len(m.buffer)-1]
}

func (m *Machine) unclosed() int {
	return strings.Count(m.buffer, "(") - strings.Count(m.buffer, ")")
}
