package codec

import (
	"errors"

	"github.com/rony4d/go-exi-asset/channel"
)

var (
	// ErrNonCanonicalEncoding is returned when a stream carries data after the
	// last value or non-zero padding bits.
	ErrNonCanonicalEncoding = errors.New("codec: non canonical encoding: unread data or non-zero padding")
	// ErrMalformedEncoding is returned when decoding a stream panics.
	ErrMalformedEncoding = errors.New("codec: malformed encoding")
)

// MarshalAdapter runs marshal against a fresh channel of the given alignment
// and returns the finished stream, the last byte zero-padded.
func MarshalAdapter(a channel.Alignment, marshal func(*Encoder) error) ([]byte, error) {
	ch, err := channel.NewEncoder(a)
	if err != nil {
		return nil, err
	}
	e := NewEncoder(ch)
	if err := marshal(e); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// UnmarshalAdapter runs unmarshal over raw and then requires the stream to be
// fully consumed: byte-aligned streams must have no bytes left, bit-packed
// streams at most the zero padding of the last byte.
func UnmarshalAdapter(a channel.Alignment, raw []byte, unmarshal func(*Decoder) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrMalformedEncoding
		}
	}()

	ch, err := channel.NewDecoder(a, raw)
	if err != nil {
		return err
	}
	if err := unmarshal(NewDecoder(ch)); err != nil {
		return err
	}
	return checkConsumed(ch)
}

func checkConsumed(ch channel.Decoder) error {
	switch c := ch.(type) {
	case *channel.BitPackedDecoder:
		rest := c.Remaining()
		if rest >= 8 {
			return ErrNonCanonicalEncoding
		}
		pad, err := c.PeekNBits(rest)
		if err != nil || pad != 0 {
			return ErrNonCanonicalEncoding
		}
	case *channel.ByteAlignedDecoder:
		if !c.Drained() {
			return ErrNonCanonicalEncoding
		}
	}
	return nil
}
