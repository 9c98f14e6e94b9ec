// Package values holds the immutable typed values exchanged with the EXI value codec.
//
// Value is a closed variant: only the types of this package implement it, and
// callers dispatch with a type switch. Every value renders itself in its lexical
// form with String and can be parsed back with the matching ParseX function.
// Parse functions report malformed text with a false second result; malformed
// user input is expected and never an error.
package values

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLexical is returned by UnmarshalText for text that does not parse.
var ErrInvalidLexical = errors.New("values: invalid lexical value")

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindInteger
	KindDecimal
	KindFloat
	KindDateTime
	KindBinary
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindFloat:
		return "float"
	case KindDateTime:
		return "datetime"
	case KindBinary:
		return "binary"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is implemented by BooleanValue, IntegerValue, DecimalValue, FloatValue,
// DateTimeValue, BinaryValue and StringValue.
type Value interface {
	Kind() Kind
	String() string
	MarshalText() ([]byte, error)

	value()
}

// xmlWhitespace is the XML S production.
const xmlWhitespace = " \t\r\n"

// collapse strips the leading and trailing whitespace XSD's collapse facet
// removes from atomic non-string values.
func collapse(s string) string {
	return strings.Trim(s, xmlWhitespace)
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// reverseDigits reverses an ASCII digit string.
func reverseDigits(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
