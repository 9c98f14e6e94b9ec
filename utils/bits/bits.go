package bits

import "io"

// This package implements the low-level "Bit Stream" Reader and Writer behind the
// bit-packed EXI channel.
// Values are written most-significant-bit first: the first bit written lands in bit 7
// of the first byte. This is the order the EXI bit-packed alignment mandates, so an
// n-bit unsigned integer can be read back one bit at a time or in one call.
//
// Use Case:
// - Booleans and nil flags take a single bit instead of a byte.
// - Restricted character codes, date/time fields and event codes use n-bit integers.
// - Octets of variable-length integers are simply 8-bit writes that may straddle bytes.

type (
	// Array is a container for the underlying byte slice that holds the bitstream.
	// Writers and Readers may share the same Array.
	Array struct {
		Bytes []byte
	}

	// Writer appends bits to an Array.
	// The last byte of the Array is the one currently being filled.
	Writer struct {
		*Array
		bitOffset int // 0-7: number of bits already used in Bytes[last]
	}

	// Reader consumes bits from an Array.
	// It tracks position both by byte index and bit offset within that byte.
	Reader struct {
		*Array
		byteOffset int // Index of the current byte in Bytes
		bitOffset  int // 0-7: number of bits already consumed in Bytes[byteOffset]
	}
)

// NewWriter creates a new bitstream writer appending to the given array.
func NewWriter(arr *Array) *Writer {
	return &Writer{
		Array: arr,
	}
}

// NewReader creates a new bitstream reader starting at the first bit of the given array.
func NewReader(arr *Array) *Reader {
	return &Reader{
		Array: arr,
	}
}

// byteBitsFree returns how many bits are left in the byte being filled.
func (a *Writer) byteBitsFree() int {
	return 8 - a.bitOffset
}

// Write appends the lowest 'bits' bits of 'v', most significant first.
// Example: Write(3, 5) appends 1, 0, 1.
func (a *Writer) Write(bits int, v uint) {
	for bits > 0 {
		// A fresh byte is allocated lazily so the array never carries an empty tail byte.
		if a.bitOffset == 0 {
			a.Bytes = append(a.Bytes, 0)
		}

		free := a.byteBitsFree()
		n := bits
		if n > free {
			n = free
		}

		// Take the top 'n' of the remaining bits and place them right after the
		// bits already used in the current byte.
		chunk := (v >> uint(bits-n)) & (1<<uint(n) - 1)
		a.Bytes[len(a.Bytes)-1] |= byte(chunk << uint(free-n))

		bits -= n
		a.bitOffset = (a.bitOffset + n) % 8
	}
}

// WriteBit appends a single bit.
func (a *Writer) WriteBit(b bool) {
	v := uint(0)
	if b {
		v = 1
	}
	a.Write(1, v)
}

// BitLen returns the number of meaningful bits written so far (padding excluded).
func (a *Writer) BitLen() int {
	if a.bitOffset == 0 {
		return len(a.Bytes) * 8
	}
	return (len(a.Bytes)-1)*8 + a.bitOffset
}

// Read extracts 'bits' bits from the stream, first bit read becoming the most
// significant bit of the result, and advances the cursor.
// If fewer bits remain, nothing is consumed and io.ErrUnexpectedEOF is returned.
func (a *Reader) Read(bits int) (uint, error) {
	if bits == 0 {
		return 0, nil
	}
	if bits > a.NonReadBits() {
		return 0, io.ErrUnexpectedEOF
	}

	var v uint
	for bits > 0 {
		free := 8 - a.bitOffset
		n := bits
		if n > free {
			n = free
		}

		cur := uint(a.Bytes[a.byteOffset])
		chunk := (cur >> uint(free-n)) & (1<<uint(n) - 1)
		v = v<<uint(n) | chunk

		bits -= n
		a.bitOffset += n
		if a.bitOffset == 8 {
			a.bitOffset = 0
			a.byteOffset++
		}
	}
	return v, nil
}

// ReadBit reads a single bit.
func (a *Reader) ReadBit() (bool, error) {
	v, err := a.Read(1)
	return v != 0, err
}

// View peeks at the next 'bits' bits without advancing the cursor.
func (a *Reader) View(bits int) (uint, error) {
	cp := *a // offsets are copied, the Array is shared
	return cp.Read(bits)
}

// NonReadBytes returns the number of bytes that are not fully consumed.
func (a *Reader) NonReadBytes() int {
	return len(a.Bytes) - a.byteOffset
}

// NonReadBits returns the total number of unread bits, trailing padding included.
func (a *Reader) NonReadBits() int {
	return a.NonReadBytes()*8 - a.bitOffset
}
