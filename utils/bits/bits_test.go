package bits

import (
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testWord represents a single value to write and read from the bit array.
// 'bits' is the number of bits the value occupies (e.g., 5 bits).
// 'v' is the actual integer value.
type testWord struct {
	bits int
	v    uint
}

// bytesToFit calculates the minimum number of bytes required to store a given number of bits.
func bytesToFit(bits int) int {
	if bits%8 == 0 {
		return bits / 8
	}
	return bits/8 + 1
}

// genTestWords generates a slice of random testWords for fuzz-like testing.
func genTestWords(r *rand.Rand, maxCount int, maxBits int) []testWord {
	count := r.Intn(maxCount)
	words := make([]testWord, count)
	for i := range words {
		if maxBits == 1 {
			words[i].bits = 1
		} else {
			words[i].bits = 1 + r.Intn(maxBits-1)
		}
		words[i].v = uint(r.Int63n(1 << uint(words[i].bits)))
	}
	return words
}

// testBitArray writes every word, checks the array size, reads everything back
// and checks the EOF behaviour on the padding.
func testBitArray(t *testing.T, words []testWord, name string) {
	arr := Array{make([]byte, 0, 100)}
	writer := NewWriter(&arr)
	reader := NewReader(&arr)

	totalBitsWritten := 0
	for _, w := range words {
		writer.Write(w.bits, w.v)
		totalBitsWritten += w.bits
	}

	assert.EqualValuesf(t, bytesToFit(totalBitsWritten), len(arr.Bytes), "%s: byte length mismatch", name)
	assert.Equalf(t, totalBitsWritten, writer.BitLen(), "%s: bit length mismatch", name)

	totalBitsRead := 0
	for _, w := range words {
		remainingBits := bytesToFit(totalBitsWritten)*8 - totalBitsRead
		assert.EqualValuesf(t, remainingBits, reader.NonReadBits(), "%s: NonReadBits mismatch before read", name)
		assert.EqualValuesf(t, bytesToFit(reader.NonReadBits()), reader.NonReadBytes(), "%s: NonReadBytes mismatch before read", name)

		v, err := reader.Read(w.bits)
		require.NoErrorf(t, err, "%s: read failed", name)
		assert.EqualValuesf(t, w.v, v, "%s: read value mismatch", name)
		totalBitsRead += w.bits
	}

	// Reading past the end fails without consuming anything.
	before := reader.NonReadBits()
	_, err := reader.Read(before + 1)
	assert.Equalf(t, io.ErrUnexpectedEOF, err, "%s: should fail when reading past EOF", name)
	assert.Equalf(t, before, reader.NonReadBits(), "%s: failed read must not consume", name)

	// The padding of the last byte is always zero.
	zero, err := reader.Read(reader.NonReadBits())
	require.NoError(t, err)
	assert.EqualValuesf(t, uint(0), zero, "%s: padding bits must be zero", name)

	assert.EqualValuesf(t, 0, reader.NonReadBits(), "%s: should have 0 bits left", name)
	assert.EqualValuesf(t, 0, reader.NonReadBytes(), "%s: should have 0 bytes left", name)
}

func TestBitArrayEmpty(t *testing.T) {
	testBitArray(t, []testWord{}, "empty")
}

func TestBitArrayB0(t *testing.T) {
	testBitArray(t, []testWord{{1, 0b0}}, "b0")
}

func TestBitArrayB1(t *testing.T) {
	testBitArray(t, []testWord{{1, 0b1}}, "b1")
}

// TestBitArrayPatternLong verifies a 17-bit pattern (the EXI time field width),
// crossing two byte boundaries.
func TestBitArrayPatternLong(t *testing.T) {
	testBitArray(t, []testWord{{17, 0b01010101010101010}}, "b01010101010101010")
}

func TestBitArrayRand1(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for i := 0; i < 50; i++ {
		testBitArray(t, genTestWords(r, 24, 1), fmt.Sprintf("1 bit, case#%d", i))
	}
}

func TestBitArrayRand8(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for i := 0; i < 50; i++ {
		testBitArray(t, genTestWords(r, 100, 8), fmt.Sprintf("8 bits, case#%d", i))
	}
}

func TestBitArrayRand32(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for i := 0; i < 50; i++ {
		testBitArray(t, genTestWords(r, 50, 32), fmt.Sprintf("32 bits, case#%d", i))
	}
}

// TestBitArray_MSBFirst pins the on-wire bit order.
func TestBitArray_MSBFirst(t *testing.T) {
	arr := Array{}
	w := NewWriter(&arr)

	w.Write(3, 0b101)
	require.Equal(t, []byte{0b10100000}, arr.Bytes)

	w.WriteBit(true)
	w.Write(8, 0xFF)
	require.Equal(t, []byte{0b10110000 | 0x0F, 0xF0}, arr.Bytes)

	r := NewReader(&arr)
	v, err := r.Read(4)
	require.NoError(t, err)
	assert.EqualValues(t, 0b1011, v)
	b, err := r.ReadBit()
	require.NoError(t, err)
	assert.True(t, b)
}

// TestBitArray_View ensures that View() peeks without advancing the read pointer.
func TestBitArray_View(t *testing.T) {
	arr := Array{make([]byte, 0, 10)}
	writer := NewWriter(&arr)
	reader := NewReader(&arr)

	writer.Write(8, 0xAA)
	writer.Write(8, 0x55)

	v, err := reader.View(8)
	require.NoError(t, err)
	assert.EqualValues(t, 0xAA, v)
	assert.Equal(t, 16, reader.NonReadBits(), "View() should not consume bits")

	v, err = reader.Read(8)
	require.NoError(t, err)
	assert.EqualValues(t, 0xAA, v)
	assert.Equal(t, 8, reader.NonReadBits())

	v, err = reader.View(8)
	require.NoError(t, err)
	assert.EqualValues(t, 0x55, v)
}

// TestBitArray_Boundaries explicitly targets byte boundaries.
func TestBitArray_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		words []testWord
	}{
		{name: "Aligned Byte", words: []testWord{{8, 0xFF}}},
		{name: "Byte + 4 bits", words: []testWord{{8, 0xFF}, {4, 0xA}}},
		{name: "4 bits + Byte (Crossing boundary)", words: []testWord{{4, 0xA}, {8, 0xFF}}},
		{name: "Exact 16 bits", words: []testWord{{16, 0xFFFF}}},
		{name: "7 + 9 + 32", words: []testWord{{7, 0x55}, {9, 0x1FF}, {32, 0xDEADBEEF}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			testBitArray(t, tc.words, tc.name)
		})
	}
}

func BenchmarkArray_write(b *testing.B) {
	for bits := 1; bits <= 9; bits++ {
		b.Run(fmt.Sprintf("%d bits", bits), func(b *testing.B) {
			arr := Array{make([]byte, 0, bytesToFit(bits*b.N))}
			writer := NewWriter(&arr)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				writer.Write(bits, 0xff)
			}
		})
	}
}

func BenchmarkArray_read(b *testing.B) {
	for bits := 1; bits <= 9; bits++ {
		b.Run(fmt.Sprintf("%d bits", bits), func(b *testing.B) {
			arr := Array{make([]byte, bytesToFit(bits*b.N))}
			reader := NewReader(&arr)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = reader.Read(bits)
			}
		})
	}
}
