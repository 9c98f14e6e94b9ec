// Package datatype binds XML Schema built-in types to their value codec and
// lexical character set.
//
// A Datatype parses lexical text into a values.Value, writes accepted values
// with the matching codec entry point and reads them back. Values of another
// variant are accepted when their lexical form parses, so an integer datatype
// will write the string "42".
package datatype

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/rony4d/go-exi-asset/charset"
	"github.com/rony4d/go-exi-asset/codec"
	"github.com/rony4d/go-exi-asset/values"
)

var (
	// ErrInvalidValue is returned when a value does not belong to the value
	// space of the datatype.
	ErrInvalidValue = errors.New("datatype: invalid value")
	// ErrUnknownType is returned by ForName for unsupported type names.
	ErrUnknownType = errors.New("datatype: unknown type")
	// ErrRange is returned for n-bit integer bounds wider than MaxNBitRange.
	ErrRange = errors.New("datatype: bounded range too wide")
)

// BuiltInType identifies the codec a datatype uses.
type BuiltInType uint8

const (
	BuiltInBoolean BuiltInType = iota
	BuiltInBooleanPattern
	BuiltInInteger
	BuiltInUnsignedInteger
	BuiltInNBitInteger
	BuiltInDecimal
	BuiltInFloat
	BuiltInDateTime
	BuiltInBinaryBase64
	BuiltInBinaryHex
	BuiltInString
	BuiltInRestrictedString
)

var builtInNames = [...]string{
	BuiltInBoolean:          "boolean",
	BuiltInBooleanPattern:   "boolean-pattern",
	BuiltInInteger:          "integer",
	BuiltInUnsignedInteger:  "unsigned-integer",
	BuiltInNBitInteger:      "nbit-integer",
	BuiltInDecimal:          "decimal",
	BuiltInFloat:            "float",
	BuiltInDateTime:         "datetime",
	BuiltInBinaryBase64:     "binary-base64",
	BuiltInBinaryHex:        "binary-hex",
	BuiltInString:           "string",
	BuiltInRestrictedString: "restricted-string",
}

func (t BuiltInType) String() string {
	if int(t) < len(builtInNames) {
		return builtInNames[t]
	}
	return fmt.Sprintf("builtin(%d)", uint8(t))
}

// Datatype is implemented by every built-in datatype of this package.
type Datatype interface {
	BuiltInType() BuiltInType
	// CharacterSet returns the restricted alphabet of the lexical space, or
	// nil when it is unrestricted.
	CharacterSet() *charset.CharacterSet
	Parse(text string) (values.Value, bool)
	// Format renders a value read by this datatype in its lexical form.
	Format(v values.Value) string
	Write(e *codec.Encoder, v values.Value) error
	Read(d *codec.Decoder) (values.Value, error)
}

func invalid(dt Datatype, v values.Value) error {
	if v == nil {
		return errors.Wrapf(ErrInvalidValue, "%v: nil", dt.BuiltInType())
	}
	return errors.Wrapf(ErrInvalidValue, "%v: %q", dt.BuiltInType(), v.String())
}

// coerce returns v when it already is a T, and otherwise parses its lexical
// form with dt.
func coerce[T values.Value](dt Datatype, v values.Value) (T, error) {
	if res, ok := v.(T); ok {
		return res, nil
	}
	var zero T
	if v == nil {
		return zero, invalid(dt, v)
	}
	parsed, ok := dt.Parse(v.String())
	if !ok {
		return zero, invalid(dt, v)
	}
	res, ok := parsed.(T)
	if !ok {
		return zero, invalid(dt, v)
	}
	return res, nil
}
