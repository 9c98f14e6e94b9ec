// Package fast holds the octet buffers behind the byte-aligned channel.
//
// Writer appends to a slice and Reader walks one with a cursor; neither locks.
// Multi-octet fields are little-endian, the order byte-aligned streams use for
// n-bit integers. A read past the end returns io.ErrUnexpectedEOF and leaves
// the cursor where it was, so a truncated stream fails without half-consumed
// fields.
package fast

import "io"

// MaxFieldOctets is the widest little-endian field ReadUint and WriteUint handle.
const MaxFieldOctets = 4

// Reader consumes octets from a fixed slice.
type Reader struct {
	data []byte
	pos  int
}

// Writer accumulates octets.
type Writer struct {
	data []byte
}

// NewReader starts reading at data[0].
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// NewWriter appends to buf, which may be nil or preallocated.
func NewWriter(buf []byte) *Writer {
	return &Writer{data: buf}
}

// WriteByte implements io.ByteWriter and never fails.
func (w *Writer) WriteByte(c byte) error {
	w.data = append(w.data, c)
	return nil
}

// WriteUint appends the low size octets of v, least significant first.
func (w *Writer) WriteUint(v uint32, size int) {
	for ; size > 0; size-- {
		w.data = append(w.data, byte(v))
		v >>= 8
	}
}

// Bytes returns the octets written so far.
func (w *Writer) Bytes() []byte {
	return w.data
}

// Len is the number of octets written.
func (w *Writer) Len() int {
	return len(w.data)
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, io.ErrUnexpectedEOF
	}
	c := r.data[r.pos]
	r.pos++
	return c, nil
}

// Next consumes n octets and returns them without copying.
func (r *Reader) Next(n int) ([]byte, error) {
	if n > r.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	res := r.data[r.pos : r.pos+n]
	r.pos += n
	return res, nil
}

// ReadUint reads a little-endian field of size octets, at most MaxFieldOctets.
func (r *Reader) ReadUint(size int) (uint32, error) {
	buf, err := r.Next(size)
	if err != nil {
		return 0, err
	}
	var v uint32
	for i, c := range buf {
		v |= uint32(c) << uint(8*i)
	}
	return v, nil
}

// Remaining is the number of unread octets.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Drained reports whether every octet has been consumed.
func (r *Reader) Drained() bool {
	return r.pos == len(r.data)
}
