package channel

import "github.com/rony4d/go-exi-asset/utils/fast"

// ByteAlignedDecoder reads primitives from a byte-aligned stream.
type ByteAlignedDecoder struct {
	r *fast.Reader
}

// NewByteAlignedDecoder starts reading at the first byte of data.
func NewByteAlignedDecoder(data []byte) *ByteAlignedDecoder {
	return &ByteAlignedDecoder{r: fast.NewReader(data)}
}

func (d *ByteAlignedDecoder) ReadOctet() (byte, error) {
	return d.r.ReadByte()
}

// ReadBit reads a whole octet; any non-zero value is true.
func (d *ByteAlignedDecoder) ReadBit() (bool, error) {
	b, err := d.r.ReadByte()
	return b != 0, err
}

// ReadNBits reads ceil(n/8) octets, least significant first.
func (d *ByteAlignedDecoder) ReadNBits(n int) (uint32, error) {
	if err := checkNBits(n); err != nil {
		return 0, err
	}
	return d.r.ReadUint((n + 7) / 8)
}

// Remaining returns the number of unread bytes.
func (d *ByteAlignedDecoder) Remaining() int {
	return d.r.Remaining()
}

// Drained reports whether the whole stream has been read.
func (d *ByteAlignedDecoder) Drained() bool {
	return d.r.Drained()
}

// ByteAlignedEncoder writes primitives into a growing byte-aligned stream.
type ByteAlignedEncoder struct {
	w *fast.Writer
}

// NewByteAlignedEncoder creates an empty byte-aligned stream.
func NewByteAlignedEncoder() *ByteAlignedEncoder {
	return &ByteAlignedEncoder{w: fast.NewWriter(make([]byte, 0, 64))}
}

func (e *ByteAlignedEncoder) WriteOctet(b byte) error {
	return e.w.WriteByte(b)
}

func (e *ByteAlignedEncoder) WriteBit(b bool) error {
	if b {
		return e.w.WriteByte(1)
	}
	return e.w.WriteByte(0)
}

func (e *ByteAlignedEncoder) WriteNBits(n int, v uint32) error {
	if err := checkNBits(n); err != nil {
		return err
	}
	e.w.WriteUint(v, (n+7)/8)
	return nil
}

func (e *ByteAlignedEncoder) Bytes() []byte {
	return e.w.Bytes()
}

// BitLen returns eight bits per octet written.
func (e *ByteAlignedEncoder) BitLen() int {
	return 8 * e.w.Len()
}
