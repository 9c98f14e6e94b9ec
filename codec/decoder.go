package codec

import (
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/rony4d/go-exi-asset/channel"
	"github.com/rony4d/go-exi-asset/charset"
	"github.com/rony4d/go-exi-asset/values"
)

// Decoder reads typed values from a channel. Channel errors, including
// stream exhaustion, are returned unchanged.
type Decoder struct {
	ch channel.Decoder
}

// NewDecoder wraps ch.
func NewDecoder(ch channel.Decoder) *Decoder {
	return &Decoder{ch: ch}
}

// Channel returns the underlying primitive channel.
func (d *Decoder) Channel() channel.Decoder {
	return d.ch
}

// DecodeBoolean reads one boolean.
func (d *Decoder) DecodeBoolean() (bool, error) {
	return d.ch.ReadBit()
}

// DecodeUnsignedInteger reads an unsigned integer into 32 bits. Groups
// beyond 32 bits are shifted out; callers that can see larger values use
// DecodeUnsignedLong or DecodeUnsignedIntegerValue.
func (d *Decoder) DecodeUnsignedInteger() (uint32, error) {
	var (
		v     uint32
		shift uint
	)
	for {
		b, err := d.ch.ReadOctet()
		if err != nil {
			return 0, err
		}
		v |= uint32(b&septetMask) << shift
		if b&continuation == 0 {
			return v, nil
		}
		shift += 7
	}
}

// DecodeUnsignedLong is DecodeUnsignedInteger at 64 bits.
func (d *Decoder) DecodeUnsignedLong() (uint64, error) {
	var (
		v     uint64
		shift uint
	)
	for {
		b, err := d.ch.ReadOctet()
		if err != nil {
			return 0, err
		}
		v |= uint64(b&septetMask) << shift
		if b&continuation == 0 {
			return v, nil
		}
		shift += 7
	}
}

// DecodeUnsignedIntegerValue reads an unsigned integer of any size.
func (d *Decoder) DecodeUnsignedIntegerValue() (values.IntegerValue, error) {
	var buf [maxWideOctets]byte
	for i := range buf {
		b, err := d.ch.ReadOctet()
		if err != nil {
			return values.IntegerValue{}, err
		}
		buf[i] = b
		if b&continuation != 0 {
			continue
		}
		if i < maxSmallOctets {
			var v int32
			for j := i; j >= 0; j-- {
				v = v<<7 | int32(buf[j]&septetMask)
			}
			return values.IntegerFromInt32(v), nil
		}
		var v int64
		for j := i; j >= 0; j-- {
			v = v<<7 | int64(buf[j]&septetMask)
		}
		return values.IntegerFromInt64(v), nil
	}

	// Beyond 63 bits: positional base-128 sum over every octet.
	acc := new(big.Int)
	for j := len(buf) - 1; j >= 0; j-- {
		acc.Lsh(acc, 7)
		acc.Or(acc, big.NewInt(int64(buf[j]&septetMask)))
	}
	shift := uint(7 * len(buf))
	group := new(big.Int)
	for {
		b, err := d.ch.ReadOctet()
		if err != nil {
			return values.IntegerValue{}, err
		}
		group.SetInt64(int64(b & septetMask))
		acc.Or(acc, group.Lsh(group, shift))
		if b&continuation == 0 {
			return values.IntegerFromBig(acc), nil
		}
		shift += 7
	}
}

// DecodeInteger reads a signed integer into 32 bits.
func (d *Decoder) DecodeInteger() (int32, error) {
	neg, err := d.ch.ReadBit()
	if err != nil {
		return 0, err
	}
	mag, err := d.DecodeUnsignedInteger()
	if err != nil {
		return 0, err
	}
	if neg {
		return -int32(mag) - 1, nil
	}
	return int32(mag), nil
}

// DecodeLong reads a signed integer into 64 bits.
func (d *Decoder) DecodeLong() (int64, error) {
	neg, err := d.ch.ReadBit()
	if err != nil {
		return 0, err
	}
	mag, err := d.DecodeUnsignedLong()
	if err != nil {
		return 0, err
	}
	if neg {
		return -int64(mag) - 1, nil
	}
	return int64(mag), nil
}

// DecodeIntegerValue reads a signed integer of any size.
func (d *Decoder) DecodeIntegerValue() (values.IntegerValue, error) {
	neg, err := d.ch.ReadBit()
	if err != nil {
		return values.IntegerValue{}, err
	}
	mag, err := d.DecodeUnsignedIntegerValue()
	if err != nil {
		return values.IntegerValue{}, err
	}
	if neg {
		return values.IntegerFromInt32(-1).Sub(mag), nil
	}
	return mag, nil
}

// DecodeNBitUnsignedInteger reads a fixed-width unsigned integer.
func (d *Decoder) DecodeNBitUnsignedInteger(n int) (uint32, error) {
	return d.ch.ReadNBits(n)
}

// DecodeNBitUnsignedIntegerValue is DecodeNBitUnsignedInteger as an IntegerValue.
func (d *Decoder) DecodeNBitUnsignedIntegerValue(n int) (values.IntegerValue, error) {
	v, err := d.ch.ReadNBits(n)
	if err != nil {
		return values.IntegerValue{}, err
	}
	return values.IntegerFromUint64(uint64(v)), nil
}

// DecodeDecimalValue reads sign, integral part and reversed fraction.
func (d *Decoder) DecodeDecimalValue() (values.DecimalValue, error) {
	neg, err := d.ch.ReadBit()
	if err != nil {
		return values.DecimalValue{}, err
	}
	integral, err := d.DecodeUnsignedIntegerValue()
	if err != nil {
		return values.DecimalValue{}, err
	}
	revFrac, err := d.DecodeUnsignedIntegerValue()
	if err != nil {
		return values.DecimalValue{}, err
	}
	return values.NewDecimal(neg, integral, revFrac), nil
}

// DecodeFloatValue reads mantissa and exponent as they were written. Exponents
// without a lexical form fail with ErrFloatRange.
func (d *Decoder) DecodeFloatValue() (values.FloatValue, error) {
	mantissa, err := d.DecodeLong()
	if err != nil {
		return values.FloatValue{}, err
	}
	exponent, err := d.DecodeLong()
	if err != nil {
		return values.FloatValue{}, err
	}
	v := values.FloatValue{Mantissa: mantissa, Exponent: exponent}
	if !v.InRange() {
		return values.FloatValue{}, fmt.Errorf("%w: %d", ErrFloatRange, exponent)
	}
	return v, nil
}

// DecodeDateTimeValue reads the fields of kind followed by the optional timezone.
func (d *Decoder) DecodeDateTimeValue(kind values.DateTimeKind) (values.DateTimeValue, error) {
	if !kind.Valid() {
		return values.DateTimeValue{}, fmt.Errorf("%w: %v", ErrUnsupportedDateTimeKind, kind)
	}
	v := values.DateTimeValue{Type: kind}
	for _, f := range dateTimeLayout[kind] {
		var err error
		switch f {
		case fieldYear:
			err = d.decodeYear(&v)
		case fieldMonthDay:
			var md uint32
			md, err = d.ch.ReadNBits(values.MonthDayBits)
			v.MonthDay = uint16(md)
		case fieldTime:
			err = d.decodeTime(&v)
		}
		if err != nil {
			return values.DateTimeValue{}, err
		}
	}

	hasTZ, err := d.ch.ReadBit()
	if err != nil {
		return values.DateTimeValue{}, err
	}
	if hasTZ {
		tz, err := d.ch.ReadNBits(values.TimezoneBits)
		if err != nil {
			return values.DateTimeValue{}, err
		}
		v.HasTimezone = true
		v.TimezoneMinutes = values.TimezoneFromWire(tz)
		if values.TimezoneToWire(v.TimezoneMinutes) != tz {
			return values.DateTimeValue{}, fmt.Errorf("%w: timezone field %d", ErrDateTimeRange, tz)
		}
	}
	if !v.InRange() {
		return values.DateTimeValue{}, fmt.Errorf("%w: %v %q", ErrDateTimeRange, v.Type, v.String())
	}
	return v, nil
}

func (d *Decoder) decodeYear(v *values.DateTimeValue) error {
	y, err := d.DecodeLong()
	if err != nil {
		return err
	}
	if y > math.MaxInt32-values.YearOffset || y < math.MinInt32-values.YearOffset {
		return fmt.Errorf("%w: %d", ErrYearRange, y)
	}
	v.Year = int32(y + values.YearOffset)
	return nil
}

// decodeTime reads the time of day and the optional fractional seconds
// shared by dateTime and time.
func (d *Decoder) decodeTime(v *values.DateTimeValue) error {
	t, err := d.ch.ReadNBits(values.TimeBits)
	if err != nil {
		return err
	}
	v.Time = t
	if v.HasFractionalSeconds, err = d.ch.ReadBit(); err != nil {
		return err
	}
	if v.HasFractionalSeconds {
		v.FractionalSeconds, err = d.DecodeUnsignedInteger()
	}
	return err
}

// DecodeString reads a code point count and then the code points.
func (d *Decoder) DecodeString() (string, error) {
	n, err := d.DecodeUnsignedInteger()
	if err != nil {
		return "", err
	}
	return d.DecodeStringOnly(int(n))
}

// DecodeStringOnly reads n code points whose count was consumed elsewhere.
// Values that are not Unicode scalar values decode as U+FFFD.
func (d *Decoder) DecodeStringOnly(n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}
	buf := make([]byte, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		cp, err := d.DecodeUnsignedInteger()
		if err != nil {
			return "", err
		}
		buf = appendCodePoint(buf, cp)
	}
	return string(buf), nil
}

// DecodeRestrictedString reads a count and then n characters against set.
func (d *Decoder) DecodeRestrictedString(set *charset.CharacterSet) (string, error) {
	n, err := d.DecodeUnsignedInteger()
	if err != nil {
		return "", err
	}
	return d.DecodeRestrictedStringOnly(set, int(n))
}

// DecodeRestrictedStringOnly reads n characters coded against set. A
// not-found code is followed by the character as a full code point.
func (d *Decoder) DecodeRestrictedStringOnly(set *charset.CharacterSet, n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}
	buf := make([]byte, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		cp, ok, err := set.Decode(d.ch)
		if err != nil {
			return "", err
		}
		if ok {
			buf = utf8.AppendRune(buf, cp)
			continue
		}
		fallback, err := d.DecodeUnsignedInteger()
		if err != nil {
			return "", err
		}
		buf = appendCodePoint(buf, fallback)
	}
	return string(buf), nil
}

// DecodeBinary reads a length and then that many octets.
func (d *Decoder) DecodeBinary() (values.BinaryValue, error) {
	n, err := d.DecodeUnsignedInteger()
	if err != nil {
		return values.BinaryValue{}, err
	}
	buf := make([]byte, 0, min(int(n), maxPrealloc))
	for i := uint32(0); i < n; i++ {
		b, err := d.ch.ReadOctet()
		if err != nil {
			return values.BinaryValue{}, err
		}
		buf = append(buf, b)
	}
	return values.NewBinary(buf), nil
}

func appendCodePoint(buf []byte, cp uint32) []byte {
	if cp > utf8.MaxRune {
		return utf8.AppendRune(buf, utf8.RuneError)
	}
	// AppendRune substitutes U+FFFD for surrogates itself.
	return utf8.AppendRune(buf, rune(cp))
}
