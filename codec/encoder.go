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

// Encoder writes typed values to a channel.
type Encoder struct {
	ch channel.Encoder
}

// NewEncoder wraps ch.
func NewEncoder(ch channel.Encoder) *Encoder {
	return &Encoder{ch: ch}
}

// Channel returns the underlying primitive channel.
func (e *Encoder) Channel() channel.Encoder {
	return e.ch
}

// Bytes returns the encoded stream so far.
func (e *Encoder) Bytes() []byte {
	return e.ch.Bytes()
}

// BitLen returns the stream length in bits, excluding the final padding.
func (e *Encoder) BitLen() int {
	return e.ch.BitLen()
}

// EncodeBoolean writes b as a single bit.
func (e *Encoder) EncodeBoolean(b bool) error {
	return e.ch.WriteBit(b)
}

// EncodeUnsignedInteger writes v as 7-bit groups.
// E.g. 300 becomes 0xAC 0x02.
func (e *Encoder) EncodeUnsignedInteger(v uint32) error {
	return e.EncodeUnsignedLong(uint64(v))
}

// EncodeUnsignedLong writes v as 7-bit groups.
func (e *Encoder) EncodeUnsignedLong(v uint64) error {
	for {
		b := byte(v & septetMask)
		v >>= 7
		if v != 0 {
			b |= continuation
		}
		if err := e.ch.WriteOctet(b); err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}

// EncodeUnsignedIntegerValue writes a non-negative integer of any size.
func (e *Encoder) EncodeUnsignedIntegerValue(v values.IntegerValue) error {
	if v.Sign() < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeUnsigned, v)
	}
	if u, ok := v.Uint64(); ok {
		return e.EncodeUnsignedLong(u)
	}

	rest := v.Big()
	group := new(big.Int)
	mask := big.NewInt(septetMask)
	for {
		b := byte(group.And(rest, mask).Uint64())
		rest.Rsh(rest, 7)
		if rest.Sign() != 0 {
			b |= continuation
		}
		if err := e.ch.WriteOctet(b); err != nil {
			return err
		}
		if rest.Sign() == 0 {
			return nil
		}
	}
}

// EncodeInteger writes a sign bit and the magnitude; negative v stores -v-1.
func (e *Encoder) EncodeInteger(v int32) error {
	if v < 0 {
		if err := e.ch.WriteBit(true); err != nil {
			return err
		}
		return e.EncodeUnsignedInteger(uint32(-(v + 1)))
	}
	if err := e.ch.WriteBit(false); err != nil {
		return err
	}
	return e.EncodeUnsignedInteger(uint32(v))
}

// EncodeLong is EncodeInteger at 64 bits.
func (e *Encoder) EncodeLong(v int64) error {
	if v < 0 {
		if err := e.ch.WriteBit(true); err != nil {
			return err
		}
		return e.EncodeUnsignedLong(uint64(-(v + 1)))
	}
	if err := e.ch.WriteBit(false); err != nil {
		return err
	}
	return e.EncodeUnsignedLong(uint64(v))
}

// EncodeIntegerValue writes a signed integer of any size.
func (e *Encoder) EncodeIntegerValue(v values.IntegerValue) error {
	neg := v.Sign() < 0
	if err := e.ch.WriteBit(neg); err != nil {
		return err
	}
	if neg {
		v = v.Neg().Sub(values.IntegerFromInt32(1))
	}
	return e.EncodeUnsignedIntegerValue(v)
}

// EncodeNBitUnsignedInteger writes v in exactly n bits.
func (e *Encoder) EncodeNBitUnsignedInteger(n int, v uint32) error {
	if n >= 0 && n < 32 && uint64(v) >= 1<<uint(n) {
		return fmt.Errorf("%w: %d in %d bits", ErrNBitOverflow, v, n)
	}
	return e.ch.WriteNBits(n, v)
}

// EncodeNBitUnsignedIntegerValue writes v in exactly n bits.
func (e *Encoder) EncodeNBitUnsignedIntegerValue(n int, v values.IntegerValue) error {
	if v.Sign() < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeUnsigned, v)
	}
	u, ok := v.Uint64()
	if !ok || u > math.MaxUint32 {
		return fmt.Errorf("%w: %v in %d bits", ErrNBitOverflow, v, n)
	}
	return e.EncodeNBitUnsignedInteger(n, uint32(u))
}

// EncodeDecimalValue writes sign, integral part and reversed fraction.
func (e *Encoder) EncodeDecimalValue(v values.DecimalValue) error {
	if err := e.ch.WriteBit(v.Negative); err != nil {
		return err
	}
	if err := e.EncodeUnsignedIntegerValue(v.Integral); err != nil {
		return err
	}
	return e.EncodeUnsignedIntegerValue(v.RevFractional)
}

// EncodeFloatValue writes mantissa and exponent without normalising them.
func (e *Encoder) EncodeFloatValue(v values.FloatValue) error {
	if !v.InRange() {
		return fmt.Errorf("%w: %d", ErrFloatRange, v.Exponent)
	}
	if err := e.EncodeLong(v.Mantissa); err != nil {
		return err
	}
	return e.EncodeLong(v.Exponent)
}

// EncodeDateTimeValue writes the fields of v.Type followed by the optional timezone.
func (e *Encoder) EncodeDateTimeValue(v values.DateTimeValue) error {
	if !v.Type.Valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedDateTimeKind, v.Type)
	}
	if !v.InRange() {
		return fmt.Errorf("%w: %v %q", ErrDateTimeRange, v.Type, v.String())
	}
	for _, f := range dateTimeLayout[v.Type] {
		var err error
		switch f {
		case fieldYear:
			err = e.EncodeLong(int64(v.Year) - values.YearOffset)
		case fieldMonthDay:
			err = e.EncodeNBitUnsignedInteger(values.MonthDayBits, uint32(v.MonthDay))
		case fieldTime:
			err = e.encodeTime(v)
		}
		if err != nil {
			return err
		}
	}

	if err := e.ch.WriteBit(v.HasTimezone); err != nil {
		return err
	}
	if v.HasTimezone {
		return e.EncodeNBitUnsignedInteger(values.TimezoneBits, values.TimezoneToWire(v.TimezoneMinutes))
	}
	return nil
}

// encodeTime writes the time of day and the optional fractional seconds
// shared by dateTime and time.
func (e *Encoder) encodeTime(v values.DateTimeValue) error {
	if err := e.EncodeNBitUnsignedInteger(values.TimeBits, v.Time); err != nil {
		return err
	}
	if err := e.ch.WriteBit(v.HasFractionalSeconds); err != nil {
		return err
	}
	if v.HasFractionalSeconds {
		return e.EncodeUnsignedInteger(v.FractionalSeconds)
	}
	return nil
}

// EncodeString writes the code point count and the code points of s.
// Invalid UTF-8 bytes count and encode as U+FFFD.
func (e *Encoder) EncodeString(s string) error {
	if err := e.EncodeUnsignedInteger(uint32(utf8.RuneCountInString(s))); err != nil {
		return err
	}
	return e.EncodeStringOnly(s)
}

// EncodeStringOnly writes the code points of s without a count.
func (e *Encoder) EncodeStringOnly(s string) error {
	for _, r := range s {
		if err := e.EncodeUnsignedInteger(uint32(r)); err != nil {
			return err
		}
	}
	return nil
}

// EncodeRestrictedString writes the count of s and its characters against set.
func (e *Encoder) EncodeRestrictedString(set *charset.CharacterSet, s string) error {
	if err := e.EncodeUnsignedInteger(uint32(utf8.RuneCountInString(s))); err != nil {
		return err
	}
	return e.EncodeRestrictedStringOnly(set, s)
}

// EncodeRestrictedStringOnly writes each character of s as its code in set.
// Characters outside set are written as the not-found code followed by the
// full code point.
func (e *Encoder) EncodeRestrictedStringOnly(set *charset.CharacterSet, s string) error {
	for _, r := range s {
		ok, err := set.Encode(e.ch, r)
		if err != nil {
			return err
		}
		if !ok {
			if err := e.EncodeUnsignedInteger(uint32(r)); err != nil {
				return err
			}
		}
	}
	return nil
}

// EncodeBinary writes the length and the octets of v.
func (e *Encoder) EncodeBinary(v values.BinaryValue) error {
	data := v.Bytes()
	if err := e.EncodeUnsignedInteger(uint32(len(data))); err != nil {
		return err
	}
	for _, b := range data {
		if err := e.ch.WriteOctet(b); err != nil {
			return err
		}
	}
	return nil
}
