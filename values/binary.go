package values

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// BinaryValue is an opaque octet sequence. The constructor copies its input,
// so a BinaryValue never aliases caller memory.
type BinaryValue struct {
	data []byte
}

// NewBinary copies b into a new value.
func NewBinary(b []byte) BinaryValue {
	return BinaryValue{data: append([]byte(nil), b...)}
}

// ParseBase64 parses xsd:base64Binary. Embedded whitespace is ignored.
func ParseBase64(s string) (BinaryValue, bool) {
	data, err := base64.StdEncoding.DecodeString(stripWhitespace(s))
	if err != nil {
		return BinaryValue{}, false
	}
	return BinaryValue{data: data}, true
}

// ParseHex parses xsd:hexBinary in either letter case.
func ParseHex(s string) (BinaryValue, bool) {
	s = collapse(s)
	if len(s)%2 != 0 {
		return BinaryValue{}, false
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return BinaryValue{}, false
	}
	return BinaryValue{data: data}, true
}

func stripWhitespace(s string) string {
	if !strings.ContainsAny(s, xmlWhitespace) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(xmlWhitespace, r) {
			return -1
		}
		return r
	}, s)
}

func (b BinaryValue) Kind() Kind { return KindBinary }

func (b BinaryValue) value() {}

// Bytes returns a copy of the octets.
func (b BinaryValue) Bytes() []byte {
	return append([]byte(nil), b.data...)
}

// Len returns the number of octets.
func (b BinaryValue) Len() int { return len(b.data) }

// CharactersLength is the exact length of String without rendering it.
func (b BinaryValue) CharactersLength() int {
	return base64.StdEncoding.EncodedLen(len(b.data))
}

// String renders canonical Base64.
func (b BinaryValue) String() string {
	return base64.StdEncoding.EncodeToString(b.data)
}

// Hex renders canonical (uppercase) hexBinary.
func (b BinaryValue) Hex() string {
	return strings.ToUpper(hex.EncodeToString(b.data))
}

func (b BinaryValue) Equal(o BinaryValue) bool {
	return bytes.Equal(b.data, o.data)
}

func (b BinaryValue) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *BinaryValue) UnmarshalText(input []byte) error {
	res, ok := ParseBase64(string(input))
	if !ok {
		return ErrInvalidLexical
	}
	*b = res
	return nil
}
