package codec

import (
	"errors"
	"io"
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-exi-asset/channel"
	"github.com/rony4d/go-exi-asset/values"
)

var alignments = []channel.Alignment{channel.BitPacked, channel.ByteAligned}

// roundTrip writes with w and reads back with r in every alignment, requiring
// the stream to be consumed exactly.
func roundTrip(t *testing.T, w func(*Encoder) error, r func(*Decoder) error) {
	t.Helper()
	for _, a := range alignments {
		raw, err := MarshalAdapter(a, w)
		require.NoError(t, err, a.String())
		require.NoError(t, UnmarshalAdapter(a, raw, r), a.String())
	}
}

func encodeBytes(t *testing.T, a channel.Alignment, w func(*Encoder) error) []byte {
	t.Helper()
	raw, err := MarshalAdapter(a, w)
	require.NoError(t, err)
	return raw
}

func TestUnsignedInteger_Layout(t *testing.T) {
	for _, a := range alignments {
		raw := encodeBytes(t, a, func(e *Encoder) error {
			return e.EncodeUnsignedInteger(300)
		})
		assert.Equal(t, []byte{0xAC, 0x02}, raw, a.String())
	}

	raw := encodeBytes(t, channel.ByteAligned, func(e *Encoder) error {
		return e.EncodeUnsignedLong(0)
	})
	assert.Equal(t, []byte{0x00}, raw)
}

func TestSignedInteger_Layout(t *testing.T) {
	// sign bit 1, then magnitude 5-1 = 4
	raw := encodeBytes(t, channel.ByteAligned, func(e *Encoder) error {
		return e.EncodeInteger(-5)
	})
	assert.Equal(t, []byte{0x01, 0x04}, raw)

	raw = encodeBytes(t, channel.BitPacked, func(e *Encoder) error {
		return e.EncodeInteger(-5)
	})
	assert.Equal(t, []byte{0x82, 0x00}, raw)

	raw = encodeBytes(t, channel.ByteAligned, func(e *Encoder) error {
		return e.EncodeIntegerValue(values.IntegerFromInt32(-1))
	})
	assert.Equal(t, []byte{0x01, 0x00}, raw)
}

func TestUnsigned_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	exp32 := []uint32{0, 1, 127, 128, 300, 1<<28 - 1, 1 << 28, math.MaxUint32}
	exp64 := []uint64{0, 1<<28 - 1, 1 << 28, 1<<63 - 1, 1 << 63, math.MaxUint64}
	for i := 0; i < 100; i++ {
		exp32 = append(exp32, r.Uint32()>>uint(r.Intn(32)))
		exp64 = append(exp64, r.Uint64()>>uint(r.Intn(64)))
	}

	roundTrip(t, func(e *Encoder) error {
		for _, v := range exp32 {
			if err := e.EncodeUnsignedInteger(v); err != nil {
				return err
			}
		}
		for _, v := range exp64 {
			if err := e.EncodeUnsignedLong(v); err != nil {
				return err
			}
		}
		return nil
	}, func(d *Decoder) error {
		for _, exp := range exp32 {
			got, err := d.DecodeUnsignedInteger()
			require.NoError(t, err)
			require.Equal(t, exp, got)
		}
		for _, exp := range exp64 {
			got, err := d.DecodeUnsignedLong()
			require.NoError(t, err)
			require.Equal(t, exp, got)
		}
		return nil
	})
}

func bigPow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

func TestUnsignedIntegerValue_Tiers(t *testing.T) {
	tenPow40, _ := new(big.Int).SetString("10000000000000000000000000000000000000000", 10)
	exp := []values.IntegerValue{
		values.IntegerFromInt32(0),
		values.IntegerFromInt32(1<<28 - 1), // 4 octets
		values.IntegerFromInt64(1 << 28),   // 5 octets
		values.IntegerFromInt64(1<<35 + 17),
		values.IntegerFromInt64(math.MaxInt64), // 9 octets
		values.IntegerFromBig(bigPow2(63)),     // 10 octets
		values.IntegerFromUint64(math.MaxUint64),
		values.IntegerFromBig(bigPow2(70)),
		values.IntegerFromBig(new(big.Int).Sub(bigPow2(100), big.NewInt(1))),
		values.IntegerFromBig(tenPow40),
	}

	roundTrip(t, func(e *Encoder) error {
		for _, v := range exp {
			if err := e.EncodeUnsignedIntegerValue(v); err != nil {
				return err
			}
		}
		return nil
	}, func(d *Decoder) error {
		for _, v := range exp {
			got, err := d.DecodeUnsignedIntegerValue()
			require.NoError(t, err)
			require.True(t, v.Equal(got), "%v != %v", v, got)
			require.Equal(t, v.String(), got.String())
		}
		return nil
	})

	// octet counts at the tier boundaries
	for _, tc := range []struct {
		v      values.IntegerValue
		octets int
	}{
		{exp[1], 4},
		{exp[2], 5},
		{exp[4], 9},
		{exp[5], 10},
	} {
		raw := encodeBytes(t, channel.ByteAligned, func(e *Encoder) error {
			return e.EncodeUnsignedIntegerValue(tc.v)
		})
		assert.Len(t, raw, tc.octets, tc.v.String())
	}
}

func TestSigned_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	exp32 := []int32{0, 1, -1, -5, 63, -64, math.MaxInt32, math.MinInt32}
	exp64 := []int64{0, -1, 1 << 40, -(1 << 40), math.MaxInt64, math.MinInt64}
	for i := 0; i < 100; i++ {
		exp32 = append(exp32, int32(r.Uint32()))
		exp64 = append(exp64, int64(r.Uint64())>>uint(r.Intn(64)))
	}
	minMinusOne := values.IntegerFromInt64(math.MinInt64).Sub(values.IntegerFromInt32(1))
	expV := []values.IntegerValue{
		values.IntegerFromInt32(0),
		values.IntegerFromInt32(-1),
		values.IntegerFromInt64(math.MinInt64),
		minMinusOne,
		values.IntegerFromBig(new(big.Int).Neg(bigPow2(100))),
		values.IntegerFromBig(bigPow2(100)),
	}

	roundTrip(t, func(e *Encoder) error {
		for _, v := range exp32 {
			if err := e.EncodeInteger(v); err != nil {
				return err
			}
		}
		for _, v := range exp64 {
			if err := e.EncodeLong(v); err != nil {
				return err
			}
		}
		for _, v := range expV {
			if err := e.EncodeIntegerValue(v); err != nil {
				return err
			}
		}
		return nil
	}, func(d *Decoder) error {
		for _, exp := range exp32 {
			got, err := d.DecodeInteger()
			require.NoError(t, err)
			require.Equal(t, exp, got)
		}
		for _, exp := range exp64 {
			got, err := d.DecodeLong()
			require.NoError(t, err)
			require.Equal(t, exp, got)
		}
		for _, exp := range expV {
			got, err := d.DecodeIntegerValue()
			require.NoError(t, err)
			require.True(t, exp.Equal(got), "%v != %v", exp, got)
		}
		return nil
	})
}

func TestNBit(t *testing.T) {
	roundTrip(t, func(e *Encoder) error {
		if err := e.EncodeNBitUnsignedInteger(3, 7); err != nil {
			return err
		}
		if err := e.EncodeNBitUnsignedInteger(0, 0); err != nil {
			return err
		}
		if err := e.EncodeNBitUnsignedInteger(32, math.MaxUint32); err != nil {
			return err
		}
		return e.EncodeNBitUnsignedIntegerValue(12, values.IntegerFromInt32(4095))
	}, func(d *Decoder) error {
		v, err := d.DecodeNBitUnsignedInteger(3)
		require.NoError(t, err)
		require.EqualValues(t, 7, v)
		v, err = d.DecodeNBitUnsignedInteger(0)
		require.NoError(t, err)
		require.Zero(t, v)
		v, err = d.DecodeNBitUnsignedInteger(32)
		require.NoError(t, err)
		require.EqualValues(t, uint32(math.MaxUint32), v)
		iv, err := d.DecodeNBitUnsignedIntegerValue(12)
		require.NoError(t, err)
		require.Equal(t, values.IntegerFromInt32(4095), iv)
		return nil
	})

	e := NewEncoder(channel.NewBitPackedEncoder())
	assert.True(t, errors.Is(e.EncodeNBitUnsignedInteger(3, 8), ErrNBitOverflow))
	assert.True(t, errors.Is(e.EncodeNBitUnsignedIntegerValue(3, values.IntegerFromInt32(-1)), ErrNegativeUnsigned))
	assert.True(t, errors.Is(e.EncodeNBitUnsignedIntegerValue(32, values.IntegerFromInt64(1<<32)), ErrNBitOverflow))
	assert.True(t, errors.Is(e.EncodeNBitUnsignedInteger(33, 0), channel.ErrNBitsRange))
	assert.Empty(t, e.Bytes())
}

func TestNegativeUnsigned(t *testing.T) {
	e := NewEncoder(channel.NewByteAlignedEncoder())
	err := e.EncodeUnsignedIntegerValue(values.IntegerFromInt32(-3))
	assert.True(t, errors.Is(err, ErrNegativeUnsigned))

	neg, _ := values.ParseDecimal("1.5")
	neg.Integral = values.IntegerFromInt32(-1)
	assert.True(t, errors.Is(e.EncodeDecimalValue(neg), ErrNegativeUnsigned))
}

func TestVarint_Exhaustion(t *testing.T) {
	truncated := [][]byte{
		nil,
		{0x80},
		{0xFF, 0xFF, 0xFF},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, // big path
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x80},
	}
	for _, raw := range truncated {
		d := NewDecoder(channel.NewByteAlignedDecoder(raw))
		_, err := d.DecodeUnsignedIntegerValue()
		assert.Equal(t, io.ErrUnexpectedEOF, err, "%x", raw)

		d = NewDecoder(channel.NewByteAlignedDecoder(raw))
		_, err = d.DecodeUnsignedLong()
		assert.Equal(t, io.ErrUnexpectedEOF, err, "%x", raw)

		d = NewDecoder(channel.NewByteAlignedDecoder(raw))
		_, err = d.DecodeUnsignedInteger()
		assert.Equal(t, io.ErrUnexpectedEOF, err, "%x", raw)
	}

	d := NewDecoder(channel.NewByteAlignedDecoder([]byte{0x01}))
	_, err := d.DecodeIntegerValue()
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}
