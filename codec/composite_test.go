package codec

import (
	"errors"
	"io"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-exi-asset/channel"
	"github.com/rony4d/go-exi-asset/charset"
	"github.com/rony4d/go-exi-asset/values"
)

func TestDecimal_RoundTrip(t *testing.T) {
	huge := values.IntegerFromBig(new(big.Int).Lsh(big.NewInt(3), 90))
	exp := []values.DecimalValue{
		{},
		values.NewDecimal(true, values.IntegerFromInt32(12), values.IntegerFromInt32(5)),
		values.NewDecimal(false, values.IntegerFromInt64(1<<40), values.IntegerFromInt32(1)),
		values.NewDecimal(true, huge, huge),
	}
	for _, s := range []string{"-0.001", "3.14159", "100", ".5", "123456789012345678901234567890.0987654321"} {
		d, ok := values.ParseDecimal(s)
		require.True(t, ok, s)
		exp = append(exp, d)
	}

	roundTrip(t, func(e *Encoder) error {
		for _, v := range exp {
			if err := e.EncodeDecimalValue(v); err != nil {
				return err
			}
		}
		return nil
	}, func(d *Decoder) error {
		for _, v := range exp {
			got, err := d.DecodeDecimalValue()
			require.NoError(t, err)
			require.True(t, v.Equal(got), "%v != %v", v, got)
			require.Equal(t, v.String(), got.String())
		}
		return nil
	})

	// 7.0: sign, integral 7, and a zero fraction that still takes one octet
	raw := encodeBytes(t, channel.ByteAligned, func(e *Encoder) error {
		d, _ := values.ParseDecimal("7")
		return e.EncodeDecimalValue(d)
	})
	assert.Equal(t, []byte{0x00, 0x07, 0x00}, raw)
}

func TestFloat_RoundTrip(t *testing.T) {
	exp := []values.FloatValue{
		{Mantissa: 15, Exponent: -1},
		{Mantissa: 150, Exponent: -2},
		{Mantissa: 0, Exponent: 0},
		{Mantissa: -1, Exponent: values.FloatMaxExponent},
		{Mantissa: math.MaxInt64, Exponent: values.FloatMinExponent},
		{Mantissa: math.MinInt64, Exponent: 0},
		values.FloatInf,
		values.FloatNegInf,
		values.FloatNaN,
		{Mantissa: 7, Exponent: values.FloatSpecialExponent}, // non-canonical NaN
	}

	roundTrip(t, func(e *Encoder) error {
		for _, v := range exp {
			if err := e.EncodeFloatValue(v); err != nil {
				return err
			}
		}
		return nil
	}, func(d *Decoder) error {
		for _, v := range exp {
			got, err := d.DecodeFloatValue()
			require.NoError(t, err)
			// pairs come back exactly as written, NaN payload included
			require.Equal(t, v, got)
			back, ok := values.ParseFloat(got.String())
			require.True(t, ok, got.String())
			require.True(t, back.Equal(got), got.String())
		}
		return nil
	})

	a := encodeBytes(t, channel.ByteAligned, func(e *Encoder) error { return e.EncodeFloatValue(exp[0]) })
	b := encodeBytes(t, channel.ByteAligned, func(e *Encoder) error { return e.EncodeFloatValue(exp[1]) })
	assert.NotEqual(t, a, b)
	assert.Equal(t, []byte{0x00, 0x0F, 0x01, 0x00}, a)
}

func TestFloat_ExponentRange(t *testing.T) {
	for _, a := range alignments {
		for _, exp := range []int64{values.FloatMaxExponent + 1, values.FloatSpecialExponent - 1, 20000, math.MaxInt64, math.MinInt64} {
			raw := encodeBytes(t, a, func(e *Encoder) error {
				if err := e.EncodeLong(1); err != nil {
					return err
				}
				return e.EncodeLong(exp)
			})
			ch, err := channel.NewDecoder(a, raw)
			require.NoError(t, err)
			_, err = NewDecoder(ch).DecodeFloatValue()
			assert.True(t, errors.Is(err, ErrFloatRange), exp)

			enc, err := channel.NewEncoder(a)
			require.NoError(t, err)
			e := NewEncoder(enc)
			err = e.EncodeFloatValue(values.FloatValue{Mantissa: 1, Exponent: exp})
			assert.True(t, errors.Is(err, ErrFloatRange), exp)
			assert.Empty(t, e.Bytes())
		}

		// the bounds themselves decode and parse back
		for _, exp := range []int64{values.FloatMaxExponent, values.FloatMinExponent} {
			raw := encodeBytes(t, a, func(e *Encoder) error {
				if err := e.EncodeLong(1); err != nil {
					return err
				}
				return e.EncodeLong(exp)
			})
			ch, err := channel.NewDecoder(a, raw)
			require.NoError(t, err)
			got, err := NewDecoder(ch).DecodeFloatValue()
			require.NoError(t, err)
			back, ok := values.ParseFloat(got.String())
			require.True(t, ok, got.String())
			assert.Equal(t, got, back)
		}
	}
}

func TestDateTime_FieldRange(t *testing.T) {
	monthDay := func(month, day int) func(e *Encoder) error {
		return func(e *Encoder) error {
			return e.EncodeNBitUnsignedInteger(values.MonthDayBits, uint32(values.PackMonthDay(month, day)))
		}
	}
	timeOfDay := func(h, m, s int) func(e *Encoder) error {
		return func(e *Encoder) error {
			if err := e.EncodeNBitUnsignedInteger(values.TimeBits, values.PackTime(h, m, s)); err != nil {
				return err
			}
			return e.EncodeBoolean(false)
		}
	}
	noTimezone := func(e *Encoder) error { return e.EncodeBoolean(false) }
	timezone := func(field uint32) func(e *Encoder) error {
		return func(e *Encoder) error {
			if err := e.EncodeBoolean(true); err != nil {
				return err
			}
			return e.EncodeNBitUnsignedInteger(values.TimezoneBits, field)
		}
	}
	year := func(y int64) func(e *Encoder) error {
		return func(e *Encoder) error { return e.EncodeLong(y - values.YearOffset) }
	}

	streams := []struct {
		name   string
		kind   values.DateTimeKind
		fields []func(e *Encoder) error
	}{
		{"month 13", values.GMonth, []func(e *Encoder) error{monthDay(13, 0), noTimezone}},
		{"gMonth with day", values.GMonth, []func(e *Encoder) error{monthDay(5, 3), noTimezone}},
		{"day 0", values.GDay, []func(e *Encoder) error{monthDay(0, 0), noTimezone}},
		{"feb 30", values.Date, []func(e *Encoder) error{year(2023), monthDay(2, 30), noTimezone}},
		{"feb 29 non-leap", values.Date, []func(e *Encoder) error{year(1900), monthDay(2, 29), noTimezone}},
		{"hour 31", values.Time, []func(e *Encoder) error{timeOfDay(31, 0, 0), noTimezone}},
		{"minute 60", values.Time, []func(e *Encoder) error{timeOfDay(12, 60, 0), noTimezone}},
		{"second 63", values.Time, []func(e *Encoder) error{timeOfDay(12, 0, 63), noTimezone}},
		{"24:00:01", values.Time, []func(e *Encoder) error{timeOfDay(24, 0, 1), noTimezone}},
		{"timezone minute 60", values.GDay, []func(e *Encoder) error{monthDay(0, 1), timezone(values.TimezoneBias + 60)}},
		{"timezone +15:00", values.GDay, []func(e *Encoder) error{monthDay(0, 1), timezone(values.TimezoneBias + 15*64)}},
	}
	for _, tc := range streams {
		for _, a := range alignments {
			raw := encodeBytes(t, a, func(e *Encoder) error {
				for _, f := range tc.fields {
					if err := f(e); err != nil {
						return err
					}
				}
				return nil
			})
			ch, err := channel.NewDecoder(a, raw)
			require.NoError(t, err)
			_, err = NewDecoder(ch).DecodeDateTimeValue(tc.kind)
			assert.True(t, errors.Is(err, ErrDateTimeRange), "%s: %v", tc.name, err)
		}
	}

	invalid := []values.DateTimeValue{
		{Type: values.GMonth, MonthDay: values.PackMonthDay(13, 0)},
		{Type: values.Time, Time: values.PackTime(24, 0, 1)},
		{Type: values.GYear, Year: 2024, Time: 5},
		{Type: values.GDay, MonthDay: values.PackMonthDay(0, 5), TimezoneMinutes: 30},
		{Type: values.GDay, MonthDay: values.PackMonthDay(0, 5), HasTimezone: true, TimezoneMinutes: 15 * 60},
		{Type: values.Time, FractionalSeconds: 3},
	}
	for _, v := range invalid {
		enc, err := channel.NewEncoder(channel.BitPacked)
		require.NoError(t, err)
		e := NewEncoder(enc)
		err = e.EncodeDateTimeValue(v)
		assert.True(t, errors.Is(err, ErrDateTimeRange), "%+v", v)
		assert.Empty(t, e.Bytes())
	}
}

func TestDateTime_RoundTrip(t *testing.T) {
	lexical := []struct {
		kind values.DateTimeKind
		s    string
	}{
		{values.GYear, "2024"},
		{values.GYear, "-0044Z"},
		{values.GYear, "123456+05:30"},
		{values.GYearMonth, "1999-12"},
		{values.GYearMonth, "2000-01-14:00"},
		{values.Date, "2024-02-29"},
		{values.Date, "1900-12-31+14:00"},
		{values.DateTime, "2024-07-01T12:34:56"},
		{values.DateTime, "2024-07-01T12:34:56.789Z"},
		{values.DateTime, "0001-01-01T24:00:00-01:30"},
		{values.DateTime, "2024-07-01T00:00:00.000120+00:45"},
		{values.Time, "23:59:59"},
		{values.Time, "00:00:00.5Z"},
		{values.GMonth, "--01"},
		{values.GMonth, "--12-10:00"},
		{values.GMonthDay, "--02-29"},
		{values.GMonthDay, "--12-31Z"},
		{values.GDay, "---01"},
		{values.GDay, "---31+02:00"},
	}
	var exp []values.DateTimeValue
	for _, tc := range lexical {
		v, ok := values.ParseDateTime(tc.kind, tc.s)
		require.True(t, ok, tc.s)
		exp = append(exp, v)
	}
	exp = append(exp,
		values.DateTimeValue{Type: values.GYear, Year: math.MaxInt32},
		values.DateTimeValue{Type: values.GYear, Year: math.MinInt32, HasTimezone: true, TimezoneMinutes: -14 * 60},
		values.DateTimeValue{Type: values.Time, Time: values.PackTime(24, 0, 0), HasFractionalSeconds: true},
	)

	roundTrip(t, func(e *Encoder) error {
		for _, v := range exp {
			if err := e.EncodeDateTimeValue(v); err != nil {
				return err
			}
		}
		return nil
	}, func(d *Decoder) error {
		for _, v := range exp {
			got, err := d.DecodeDateTimeValue(v.Type)
			require.NoError(t, err)
			require.Equal(t, v, got)
			require.Equal(t, v.String(), got.String())
			back, ok := values.ParseDateTime(v.Type, got.String())
			require.True(t, ok, got.String())
			require.Equal(t, got, back)
		}
		return nil
	})
}

func TestDateTime_Layout(t *testing.T) {
	gDay, ok := values.ParseDateTime(values.GDay, "---31")
	require.True(t, ok)

	// 9 bits of month-day, then the absent-timezone bit
	raw := encodeBytes(t, channel.BitPacked, func(e *Encoder) error { return e.EncodeDateTimeValue(gDay) })
	assert.Equal(t, []byte{0x0F, 0x80}, raw)

	raw = encodeBytes(t, channel.ByteAligned, func(e *Encoder) error { return e.EncodeDateTimeValue(gDay) })
	assert.Equal(t, []byte{0x1F, 0x00, 0x00}, raw)

	// gYear 2024Z: signed offset 24, timezone present, bias 896 = 0x380
	year, ok := values.ParseDateTime(values.GYear, "2024Z")
	require.True(t, ok)
	raw = encodeBytes(t, channel.ByteAligned, func(e *Encoder) error { return e.EncodeDateTimeValue(year) })
	assert.Equal(t, []byte{0x00, 0x18, 0x01, 0x80, 0x03}, raw)
}

func TestDateTime_UnsupportedKind(t *testing.T) {
	for _, a := range alignments {
		ch, err := channel.NewEncoder(a)
		require.NoError(t, err)
		e := NewEncoder(ch)
		err = e.EncodeDateTimeValue(values.DateTimeValue{Type: values.GDay + 1, Year: 2024})
		assert.True(t, errors.Is(err, ErrUnsupportedDateTimeKind))
		assert.Empty(t, e.Bytes())
	}

	dec := channel.NewByteAlignedDecoder([]byte{0x01, 0x02})
	_, err := NewDecoder(dec).DecodeDateTimeValue(values.DateTimeKind(200))
	assert.True(t, errors.Is(err, ErrUnsupportedDateTimeKind))
	assert.Equal(t, 2, dec.Remaining())
}

func TestDateTime_YearRange(t *testing.T) {
	raw := encodeBytes(t, channel.BitPacked, func(e *Encoder) error {
		if err := e.EncodeLong(math.MaxInt32); err != nil {
			return err
		}
		return e.EncodeBoolean(false)
	})
	_, err := NewDecoder(channel.NewBitPackedDecoder(raw)).DecodeDateTimeValue(values.GYear)
	assert.True(t, errors.Is(err, ErrYearRange))
}

func TestString_RoundTrip(t *testing.T) {
	exp := []string{
		"",
		"hello",
		"\U0001F600",
		"a\U0001F600b",
		"\U0001F600\U0001F601end",
		"start\U0010FFFF",
		"é世界",
		strings.Repeat("x", 1000),
	}

	roundTrip(t, func(e *Encoder) error {
		for _, s := range exp {
			if err := e.EncodeString(s); err != nil {
				return err
			}
		}
		return nil
	}, func(d *Decoder) error {
		for _, s := range exp {
			got, err := d.DecodeString()
			require.NoError(t, err)
			require.Equal(t, s, got)
		}
		return nil
	})
}

func TestString_Layout(t *testing.T) {
	// length counts code points, U+1F600 takes three octets
	raw := encodeBytes(t, channel.ByteAligned, func(e *Encoder) error {
		return e.EncodeString("a\U0001F600b")
	})
	assert.Equal(t, []byte{0x03, 0x61, 0x80, 0xEC, 0x07, 0x62}, raw)

	d := NewDecoder(channel.NewByteAlignedDecoder(raw[1:]))
	got, err := d.DecodeStringOnly(3)
	require.NoError(t, err)
	assert.Equal(t, "a\U0001F600b", got)

	_, err = d.DecodeStringOnly(-1)
	assert.True(t, errors.Is(err, ErrNegativeLength))
}

func TestString_InvalidCodePoints(t *testing.T) {
	raw := encodeBytes(t, channel.ByteAligned, func(e *Encoder) error {
		if err := e.EncodeUnsignedInteger(3); err != nil {
			return err
		}
		for _, cp := range []uint32{0xD800, 0x110000, 'z'} {
			if err := e.EncodeUnsignedInteger(cp); err != nil {
				return err
			}
		}
		return nil
	})
	got, err := NewDecoder(channel.NewByteAlignedDecoder(raw)).DecodeString()
	require.NoError(t, err)
	assert.Equal(t, "��z", got)

	// invalid UTF-8 input travels as U+FFFD
	roundTrip(t, func(e *Encoder) error {
		return e.EncodeString("a\xffb")
	}, func(d *Decoder) error {
		got, err := d.DecodeString()
		require.NoError(t, err)
		require.Equal(t, "a�b", got)
		return nil
	})
}

func TestString_Truncated(t *testing.T) {
	raw := encodeBytes(t, channel.ByteAligned, func(e *Encoder) error {
		return e.EncodeString("abc")
	})
	_, err := NewDecoder(channel.NewByteAlignedDecoder(raw[:len(raw)-1])).DecodeString()
	assert.Equal(t, io.ErrUnexpectedEOF, err)

	// a huge declared length must not allocate up front
	raw = encodeBytes(t, channel.ByteAligned, func(e *Encoder) error {
		return e.EncodeUnsignedInteger(math.MaxUint32 >> 1)
	})
	_, err = NewDecoder(channel.NewByteAlignedDecoder(raw)).DecodeString()
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestRestrictedString(t *testing.T) {
	abc, err := charset.New([]rune{'A', 'B', 'C'})
	require.NoError(t, err)

	// count 4, A=00 B=01, X escapes as 11 then 0x58, C=10
	raw := encodeBytes(t, channel.BitPacked, func(e *Encoder) error {
		return e.EncodeRestrictedString(abc, "ABXC")
	})
	assert.Equal(t, []byte{0x04, 0x1D, 0x62}, raw)

	exp := []string{"", "ABXC", "CCCC", "\U0001F600A\U0001F600", "ABC"}
	sets := []*charset.CharacterSet{abc, charset.Integer, charset.Base64Binary, charset.DateTime}
	for _, set := range sets {
		roundTrip(t, func(e *Encoder) error {
			for _, s := range exp {
				if err := e.EncodeRestrictedString(set, s); err != nil {
					return err
				}
			}
			return nil
		}, func(d *Decoder) error {
			for _, s := range exp {
				got, err := d.DecodeRestrictedString(set)
				require.NoError(t, err)
				require.Equal(t, s, got, set.String())
			}
			return nil
		})
	}

	d := NewDecoder(channel.NewBitPackedDecoder(raw))
	_, err = d.DecodeRestrictedStringOnly(abc, -2)
	assert.True(t, errors.Is(err, ErrNegativeLength))
}

func TestBinary_RoundTrip(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = byte(i * 7)
	}
	exp := []values.BinaryValue{
		values.NewBinary(nil),
		values.NewBinary([]byte{0x00}),
		values.NewBinary([]byte("hello, world")),
		values.NewBinary(long),
	}

	roundTrip(t, func(e *Encoder) error {
		for _, v := range exp {
			if err := e.EncodeBinary(v); err != nil {
				return err
			}
		}
		return nil
	}, func(d *Decoder) error {
		for _, v := range exp {
			got, err := d.DecodeBinary()
			require.NoError(t, err)
			require.True(t, v.Equal(got), "%x != %x", v.Bytes(), got.Bytes())
		}
		return nil
	})

	raw := encodeBytes(t, channel.ByteAligned, func(e *Encoder) error {
		return e.EncodeBinary(values.NewBinary([]byte{0xCA, 0xFE}))
	})
	assert.Equal(t, []byte{0x02, 0xCA, 0xFE}, raw)
}

func TestValue_RoundTrip(t *testing.T) {
	dec, _ := values.ParseDecimal("-12.50")
	dt, _ := values.ParseDateTime(values.DateTime, "2024-07-01T12:34:56.5+01:00")
	exp := []values.Value{
		values.BooleanValue(true),
		values.BooleanValue(false),
		values.IntegerFromInt32(-300),
		values.IntegerFromBig(new(big.Int).Lsh(big.NewInt(1), 80)),
		dec,
		values.FloatValue{Mantissa: 15, Exponent: -1},
		dt,
		values.NewBinary([]byte{1, 2, 3}),
		values.StringValue("a\U0001F600b"),
	}

	roundTrip(t, func(e *Encoder) error {
		for _, v := range exp {
			if err := e.EncodeValue(v); err != nil {
				return err
			}
		}
		return nil
	}, func(d *Decoder) error {
		for _, v := range exp {
			got, err := d.DecodeValue(v)
			require.NoError(t, err)
			require.Equal(t, v.Kind(), got.Kind())
			require.Equal(t, v.String(), got.String())
		}
		return nil
	})

	e := NewEncoder(channel.NewBitPackedEncoder())
	assert.True(t, errors.Is(e.EncodeValue(nil), ErrUnsupportedValue))
	_, err := NewDecoder(channel.NewBitPackedDecoder(nil)).DecodeValue(nil)
	assert.True(t, errors.Is(err, ErrUnsupportedValue))
}
