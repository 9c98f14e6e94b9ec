package datatype

import (
	"github.com/pkg/errors"

	"github.com/rony4d/go-exi-asset/charset"
	"github.com/rony4d/go-exi-asset/pattern"
	"github.com/rony4d/go-exi-asset/values"
)

// boundedTypes are the built-in integer types narrow enough for n-bit coding.
var boundedTypes = map[string][2]int64{
	"byte":         {-128, 127},
	"unsignedByte": {0, 255},
}

// ForName returns the datatype of an XML Schema built-in type name.
func ForName(name string) (Datatype, error) {
	switch name {
	case "boolean":
		return Boolean{}, nil
	case "integer", "long", "int", "short", "nonPositiveInteger", "negativeInteger":
		return Integer{}, nil
	case "nonNegativeInteger", "positiveInteger", "unsignedLong", "unsignedInt", "unsignedShort":
		return UnsignedInteger{}, nil
	case "decimal":
		return Decimal{}, nil
	case "float", "double":
		return Float{}, nil
	case "base64Binary":
		return Base64Binary{}, nil
	case "hexBinary":
		return HexBinary{}, nil
	case "string", "normalizedString", "token", "anyURI", "language", "Name", "NCName", "NMTOKEN", "ID", "IDREF", "ENTITY":
		return NewString(nil), nil
	}
	if b, ok := boundedTypes[name]; ok {
		dt, err := NewNBitInteger(values.IntegerFromInt64(b[0]), values.IntegerFromInt64(b[1]))
		if err != nil {
			return nil, err
		}
		return dt, nil
	}
	if kind, ok := values.ParseDateTimeKind(name); ok {
		return DateTime{Type: kind}, nil
	}
	return nil, errors.Wrapf(ErrUnknownType, "%q", name)
}

// ForPattern returns a string datatype restricted to the alphabet of an XML
// Schema pattern facet, or an unrestricted one when the pattern admits too
// many characters. Sets are shared through reg.
func ForPattern(reg *charset.Registry, expr string) (*String, error) {
	alphabet, err := pattern.Derive(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "pattern %q", expr)
	}
	if alphabet.Unrestricted {
		return NewString(nil), nil
	}
	set, err := reg.Get(alphabet.CodePoints)
	if err != nil {
		return nil, errors.Wrapf(err, "pattern %q", expr)
	}
	return NewString(set), nil
}
