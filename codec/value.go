package codec

import (
	"fmt"

	"github.com/rony4d/go-exi-asset/values"
)

// EncodeValue writes v with the codec of its variant. Strings are written
// with their length.
func (e *Encoder) EncodeValue(v values.Value) error {
	switch v := v.(type) {
	case values.BooleanValue:
		return e.EncodeBoolean(bool(v))
	case values.IntegerValue:
		return e.EncodeIntegerValue(v)
	case values.DecimalValue:
		return e.EncodeDecimalValue(v)
	case values.FloatValue:
		return e.EncodeFloatValue(v)
	case values.DateTimeValue:
		return e.EncodeDateTimeValue(v)
	case values.BinaryValue:
		return e.EncodeBinary(v)
	case values.StringValue:
		return e.EncodeString(string(v))
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

// DecodeValue reads a value of the same variant as like. Only the variant of
// like matters, plus the Type of a DateTimeValue.
func (d *Decoder) DecodeValue(like values.Value) (values.Value, error) {
	switch like := like.(type) {
	case values.BooleanValue:
		b, err := d.DecodeBoolean()
		return values.BooleanValue(b), err
	case values.IntegerValue:
		return d.DecodeIntegerValue()
	case values.DecimalValue:
		return d.DecodeDecimalValue()
	case values.FloatValue:
		return d.DecodeFloatValue()
	case values.DateTimeValue:
		return d.DecodeDateTimeValue(like.Type)
	case values.BinaryValue:
		return d.DecodeBinary()
	case values.StringValue:
		s, err := d.DecodeString()
		return values.StringValue(s), err
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, like)
}
