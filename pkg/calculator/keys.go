package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned by ParseKey for anything outside the keypad vocabulary.
var ErrUnknownKey = errors.New("unknown key")

// Key is a single keypad event.
type Key string

const (
	KeyClear     Key = "C"
	KeyEquals    Key = "="
	KeyBackspace Key = "⌫"
	KeyDecimal   Key = ","
	KeyAdd       Key = "+"
	KeySubtract  Key = "-"
	KeyMultiply  Key = "*"
	KeyDivide    Key = "/"
	KeyPercent   Key = "%"
	KeyOpen      Key = "("
	KeyClose     Key = ")"
	// KeyParens is the combined parenthesis key: it opens or closes depending on the buffer.
	KeyParens Key = "( )"
)

var aliases = map[string]Key{
	"backspace": KeyBackspace,
	"bksp":      KeyBackspace,
	"del":       KeyBackspace,
	"clear":     KeyClear,
	"c":         KeyClear,
	"ac":        KeyClear,
	"enter":     KeyEquals,
	"()":        KeyParens,
	"parens":    KeyParens,
	"×":         KeyMultiply,
	"x":         KeyMultiply,
	"÷":         KeyDivide,
	"−":         KeySubtract,
	".":         KeyDecimal,
}

// ParseKey maps a textual key name to a Key.
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if k.valid() {
		return k, nil
	}
	if alias, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// ParseKeys parses every key in order and fails on the first unknown one.
func ParseKeys(ss []string) ([]Key, error) {
	keys := make([]Key, 0, len(ss))
	for _, s := range ss {
		k, err := ParseKey(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (k Key) valid() bool {
	if k.IsDigit() || k.IsOperator() {
		return true
	}
	switch k {
	case KeyClear, KeyEquals, KeyBackspace, KeyDecimal, KeyOpen, KeyClose, KeyParens:
		return true
	}
	return false
}

// IsDigit reports whether k is one of 0-9.
func (k Key) IsDigit() bool {
	return len(k) == 1 && k[0] >= '0' && k[0] <= '9'
}

// IsOperator reports whether k is one of + - * / %.
func (k Key) IsOperator() bool {
	return len(k) == 1 && isOperator(k[0])
}

func (k Key) String() string { return string(k) }

func isOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
