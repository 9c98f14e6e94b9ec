// Package codec encodes and decodes EXI typed values over a primitive channel.
//
// Unsigned integers are written as 7-bit groups, least significant group
// first, with the high bit of each octet set while more octets follow. Signed
// integers are a sign bit followed by the magnitude, where a negative value v
// stores -v-1. Every composite value (decimal, float, date/time, string,
// binary) is a fixed sequence of these primitives.
//
// A Decoder or Encoder wraps exactly one channel and inherits its cursor, so
// neither is safe for concurrent use. Independent streams get independent
// instances; no scratch state is shared between them.
package codec

import (
	"errors"

	"github.com/rony4d/go-exi-asset/values"
)

var (
	// ErrNegativeUnsigned is returned when a negative value is passed to an
	// unsigned entry point.
	ErrNegativeUnsigned = errors.New("codec: negative value for unsigned encoding")
	// ErrNegativeLength is returned for negative externally supplied lengths.
	ErrNegativeLength = errors.New("codec: negative length")
	// ErrNBitOverflow is returned when a value does not fit the requested width.
	ErrNBitOverflow = errors.New("codec: value exceeds n-bit width")
	// ErrUnsupportedDateTimeKind is returned for date/time kinds outside the
	// eight defined ones. Nothing is read or written in that case.
	ErrUnsupportedDateTimeKind = errors.New("codec: unsupported date/time kind")
	// ErrYearRange is returned when a decoded year does not fit 32 bits.
	ErrYearRange = errors.New("codec: year out of range")
	// ErrFloatRange is returned for float exponents outside
	// [FloatMinExponent, FloatMaxExponent] that are not the special marker.
	ErrFloatRange = errors.New("codec: float exponent out of range")
	// ErrDateTimeRange is returned for date/time fields that have no lexical
	// form, such as month 13 or minute 60.
	ErrDateTimeRange = errors.New("codec: date/time field out of range")
	// ErrUnsupportedValue is returned by EncodeValue/DecodeValue for values
	// outside the closed variant.
	ErrUnsupportedValue = errors.New("codec: unsupported value")
)

const (
	septetMask   = 0x7F
	continuation = 0x80

	// maxSmallOctets is how many octets always fit 32 bits (4*7 = 28 bits);
	// maxWideOctets how many always fit 63 bits.
	maxSmallOctets = 4
	maxWideOctets  = 9

	// maxPrealloc bounds buffers sized from untrusted length fields.
	maxPrealloc = 4096
)

// dateTimeField is one kind-specific component of a date/time value.
type dateTimeField uint8

const (
	fieldYear dateTimeField = iota
	fieldMonthDay
	// fieldTime is the time of day followed by optional fractional seconds.
	fieldTime
)

// dateTimeLayout lists, per kind, the fields that precede the shared
// timezone block.
var dateTimeLayout = [...][]dateTimeField{
	values.GYear:      {fieldYear},
	values.GYearMonth: {fieldYear, fieldMonthDay},
	values.Date:       {fieldYear, fieldMonthDay},
	values.DateTime:   {fieldYear, fieldMonthDay, fieldTime},
	values.Time:       {fieldTime},
	values.GMonth:     {fieldMonthDay},
	values.GMonthDay:  {fieldMonthDay},
	values.GDay:       {fieldMonthDay},
}
