package channel

import "github.com/rony4d/go-exi-asset/utils/bits"

// BitPackedDecoder reads primitives from a bit-packed stream.
type BitPackedDecoder struct {
	r *bits.Reader
}

// NewBitPackedDecoder starts reading at the first bit of data.
func NewBitPackedDecoder(data []byte) *BitPackedDecoder {
	return &BitPackedDecoder{r: bits.NewReader(&bits.Array{Bytes: data})}
}

// ReadOctet reads 8 bits, which need not be byte aligned.
func (d *BitPackedDecoder) ReadOctet() (byte, error) {
	v, err := d.r.Read(8)
	return byte(v), err
}

func (d *BitPackedDecoder) ReadBit() (bool, error) {
	return d.r.ReadBit()
}

func (d *BitPackedDecoder) ReadNBits(n int) (uint32, error) {
	if err := checkNBits(n); err != nil {
		return 0, err
	}
	v, err := d.r.Read(n)
	return uint32(v), err
}

// PeekNBits returns the next n bits without consuming them.
func (d *BitPackedDecoder) PeekNBits(n int) (uint32, error) {
	if err := checkNBits(n); err != nil {
		return 0, err
	}
	v, err := d.r.View(n)
	return uint32(v), err
}

// Remaining returns the unread bits, padding included.
func (d *BitPackedDecoder) Remaining() int {
	return d.r.NonReadBits()
}

// BitPackedEncoder writes primitives into a growing bit-packed stream.
type BitPackedEncoder struct {
	w *bits.Writer
}

// NewBitPackedEncoder creates an empty bit-packed stream.
func NewBitPackedEncoder() *BitPackedEncoder {
	return &BitPackedEncoder{w: bits.NewWriter(&bits.Array{Bytes: make([]byte, 0, 64)})}
}

func (e *BitPackedEncoder) WriteOctet(b byte) error {
	e.w.Write(8, uint(b))
	return nil
}

func (e *BitPackedEncoder) WriteBit(b bool) error {
	e.w.WriteBit(b)
	return nil
}

func (e *BitPackedEncoder) WriteNBits(n int, v uint32) error {
	if err := checkNBits(n); err != nil {
		return err
	}
	e.w.Write(n, uint(v))
	return nil
}

func (e *BitPackedEncoder) Bytes() []byte {
	return e.w.Bytes
}

// BitLen returns the number of bits written, padding excluded.
func (e *BitPackedEncoder) BitLen() int {
	return e.w.BitLen()
}
