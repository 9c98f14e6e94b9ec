package channel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// Compression selects how a finished channel body is post-processed.
//
// CompressionDeflate is the EXI "compression" option: the body is stored as a raw
// DEFLATE stream. CompressionZstd is a local extension for archives where both ends
// are this implementation.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionDeflate
	CompressionZstd
)

const (
	// DefaultCompressionLevel lets the selected codec pick its own level.
	DefaultCompressionLevel = -1
	// MaxDecompressedSize bounds what Decompress inflates a body to.
	MaxDecompressedSize = 64 << 20
)

var (
	// ErrUnknownCompression is returned for unsupported compression selectors.
	ErrUnknownCompression = errors.New("channel: unknown compression")
	// ErrDecompressedSize is returned when a body inflates beyond the limit.
	ErrDecompressedSize = errors.New("channel: decompressed body exceeds limit")
)

// String returns the flag spelling of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionDeflate:
		return "deflate"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression resolves the flag spelling produced by String.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "deflate":
		return CompressionDeflate, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
}

// Compress post-processes an encoded body.
// For deflate, level follows flate's scale (-2..9, -1 default); for zstd it is a
// zstd level (1..22) mapped onto the closest encoder speed. Level 0 on zstd picks
// the default speed.
func Compress(c Compression, body []byte, level int) ([]byte, error) {
	switch c {
	case CompressionNone:
		return body, nil
	case CompressionDeflate:
		var buf bytes.Buffer
		fw, err := flate.NewWriter(&buf, level)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(body); err != nil {
			return nil, err
		}
		if err := fw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionZstd:
		speed := zstd.SpeedDefault
		if level > 0 {
			speed = zstd.EncoderLevelFromZstd(level)
		}
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(speed))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(body, nil), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownCompression, c)
}

// Decompress reverses Compress, refusing bodies that inflate beyond
// MaxDecompressedSize.
func Decompress(c Compression, body []byte) ([]byte, error) {
	return DecompressLimit(c, body, MaxDecompressedSize)
}

// DecompressLimit is Decompress with an explicit bound in bytes.
func DecompressLimit(c Compression, body []byte, limit int) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch c {
	case CompressionNone:
		return body, nil
	case CompressionDeflate:
		fr := flate.NewReader(bytes.NewReader(body))
		defer fr.Close()
		out, err = io.ReadAll(io.LimitReader(fr, int64(limit)+1))
	case CompressionZstd:
		var dec *zstd.Decoder
		dec, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(limit)+1))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err = dec.DecodeAll(body, nil)
		// the limit also caps the window, so oversized frames fail either way
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
			return nil, fmt.Errorf("%w: %d bytes", ErrDecompressedSize, limit)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCompression, c)
	}
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		return nil, fmt.Errorf("%w: %d bytes", ErrDecompressedSize, limit)
	}
	return out, nil
}
