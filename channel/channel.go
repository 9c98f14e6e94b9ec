// Package channel implements the primitive bit/byte channels the EXI value codec
// is written against.
//
// A channel only knows three shapes of data: octets, single bits and n-bit
// unsigned integers (n <= 32). How those shapes are laid out depends on the
// alignment. In bit-packed streams everything is packed most significant bit
// first with no gaps. In byte-aligned streams every item starts on a byte
// boundary, booleans take a whole octet and n-bit integers take ceil(n/8)
// octets in little-endian order.
//
// Channels are stateful cursors and must not be shared between goroutines.
package channel

import (
	"errors"
	"fmt"
	"strings"
)

// MaxNBits is the widest fixed-width integer a channel reads or writes in one call.
const MaxNBits = 32

var (
	// ErrNBitsRange is returned for fixed-width reads/writes outside 0..MaxNBits.
	ErrNBitsRange = errors.New("channel: n-bit width out of range")
	// ErrUnknownAlignment is returned when an alignment name cannot be resolved.
	ErrUnknownAlignment = errors.New("channel: unknown alignment")
)

// Decoder is the read side of a primitive channel.
type Decoder interface {
	// ReadOctet reads the next 8-bit unsigned value.
	ReadOctet() (byte, error)
	// ReadBit reads one boolean.
	ReadBit() (bool, error)
	// ReadNBits reads an n-bit unsigned integer.
	ReadNBits(n int) (uint32, error)
}

// Encoder is the write side of a primitive channel.
type Encoder interface {
	WriteOctet(b byte) error
	WriteBit(b bool) error
	// WriteNBits writes the low n bits of v.
	WriteNBits(n int, v uint32) error
	// Bytes returns everything written so far, the last byte zero-padded.
	Bytes() []byte
	// BitLen returns the length of the stream in bits, padding excluded.
	BitLen() int
}

// Alignment selects how primitives are laid out in the stream.
type Alignment uint8

const (
	// BitPacked packs every primitive without padding.
	BitPacked Alignment = iota
	// ByteAligned starts every primitive on an octet boundary.
	ByteAligned
)

// String returns the flag spelling of the alignment.
func (a Alignment) String() string {
	switch a {
	case BitPacked:
		return "bitpacked"
	case ByteAligned:
		return "bytealigned"
	default:
		return fmt.Sprintf("alignment(%d)", uint8(a))
	}
}

// ParseAlignment resolves the flag spelling produced by String.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bitpacked", "bit-packed":
		return BitPacked, nil
	case "bytealigned", "byte-aligned":
		return ByteAligned, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlignment, s)
}

// NewDecoder builds a read channel over data with the given alignment.
func NewDecoder(a Alignment, data []byte) (Decoder, error) {
	switch a {
	case BitPacked:
		return NewBitPackedDecoder(data), nil
	case ByteAligned:
		return NewByteAlignedDecoder(data), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownAlignment, a)
}

// NewEncoder builds an empty write channel with the given alignment.
func NewEncoder(a Alignment) (Encoder, error) {
	switch a {
	case BitPacked:
		return NewBitPackedEncoder(), nil
	case ByteAligned:
		return NewByteAlignedEncoder(), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownAlignment, a)
}

func checkNBits(n int) error {
	if n < 0 || n > MaxNBits {
		return fmt.Errorf("%w: %d", ErrNBitsRange, n)
	}
	return nil
}
