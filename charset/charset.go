// Package charset maps small alphabets of code points onto dense fixed-width
// codes.
//
// A CharacterSet of N code points assigns code i to its i-th code point and
// uses ceil(log2(N+1)) bits per character. The extra code N is reserved: it
// is what Code reports for characters outside the set, and what an encoder
// writes before falling back to a full code point. Sets are immutable once
// built and may be shared freely between goroutines.
package charset

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rony4d/go-exi-asset/channel"
)

var (
	// ErrDuplicateCodePoint is returned when a code point is listed twice.
	ErrDuplicateCodePoint = errors.New("charset: duplicate code point")
	// ErrInvalidCodePoint is returned for values that are not Unicode code points.
	ErrInvalidCodePoint = errors.New("charset: invalid code point")
	// ErrCodeOutOfRange is returned for codes that name no character.
	ErrCodeOutOfRange = errors.New("charset: code out of range")
)

// CharacterSet is an ordered alphabet with its code table.
type CharacterSet struct {
	codePoints   []rune
	codes        map[rune]int
	codingLength int
}

// New builds a set whose codes follow the order of codePoints.
func New(codePoints []rune) (*CharacterSet, error) {
	s := &CharacterSet{
		codePoints: make([]rune, len(codePoints)),
		codes:      make(map[rune]int, len(codePoints)),
	}
	for i, cp := range codePoints {
		if cp < 0 || cp > utf8.MaxRune {
			return nil, fmt.Errorf("%w: %#x", ErrInvalidCodePoint, cp)
		}
		if _, dup := s.codes[cp]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCodePoint, cp)
		}
		s.codes[cp] = i
		s.codePoints[i] = cp
	}
	s.codingLength = bits.Len(uint(len(codePoints)))
	return s, nil
}

// FromSet builds a set in ascending code point order, the order alphabets
// derived from patterns use.
func FromSet(set map[rune]struct{}) (*CharacterSet, error) {
	cps := make([]rune, 0, len(set))
	for cp := range set {
		cps = append(cps, cp)
	}
	return FromUnsorted(cps)
}

// FromUnsorted sorts a copy of codePoints ascending and builds the set.
func FromUnsorted(codePoints []rune) (*CharacterSet, error) {
	cps := append([]rune(nil), codePoints...)
	sort.Slice(cps, func(i, j int) bool { return cps[i] < cps[j] })
	return New(cps)
}

func mustFromUnsorted(codePoints []rune) *CharacterSet {
	s, err := FromUnsorted(codePoints)
	if err != nil {
		panic(err)
	}
	return s
}

// Size returns the number of code points. It doubles as the not-found code.
func (s *CharacterSet) Size() int {
	return len(s.codePoints)
}

// CodingLength returns the number of bits per character.
func (s *CharacterSet) CodingLength() int {
	return s.codingLength
}

// Code returns the code of cp. For characters outside the set it returns
// Size() and false.
func (s *CharacterSet) Code(cp rune) (int, bool) {
	code, ok := s.codes[cp]
	if !ok {
		return len(s.codePoints), false
	}
	return code, true
}

// CodePoint is the inverse of Code.
func (s *CharacterSet) CodePoint(code int) (rune, error) {
	if code < 0 || code >= len(s.codePoints) {
		return 0, fmt.Errorf("%w: %d of %d", ErrCodeOutOfRange, code, len(s.codePoints))
	}
	return s.codePoints[code], nil
}

func (s *CharacterSet) Contains(cp rune) bool {
	_, ok := s.codes[cp]
	return ok
}

// CodePoints returns a copy of the alphabet in code order.
func (s *CharacterSet) CodePoints() []rune {
	return append([]rune(nil), s.codePoints...)
}

// Encode writes the code of cp. When cp is outside the set the not-found
// code is written and false returned; the caller then owes the fallback
// encoding of cp.
func (s *CharacterSet) Encode(ch channel.Encoder, cp rune) (bool, error) {
	code, ok := s.Code(cp)
	if err := ch.WriteNBits(s.codingLength, uint32(code)); err != nil {
		return false, err
	}
	return ok, nil
}

// Decode reads one code. It returns false when the not-found code was read
// and the caller must decode the fallback character itself.
func (s *CharacterSet) Decode(ch channel.Decoder) (rune, bool, error) {
	code, err := ch.ReadNBits(s.codingLength)
	if err != nil {
		return 0, false, err
	}
	if int(code) == len(s.codePoints) {
		return 0, false, nil
	}
	cp, err := s.CodePoint(int(code))
	if err != nil {
		return 0, false, err
	}
	return cp, true, nil
}

// String lists the alphabet, e.g. "{A,B,C}".
func (s *CharacterSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, cp := range s.codePoints {
		if i > 0 {
			sb.WriteByte(',')
		}
		if cp > ' ' && cp != ',' && cp != '{' && cp != '}' && cp < 0x7f {
			sb.WriteRune(cp)
		} else {
			fmt.Fprintf(&sb, "%U", cp)
		}
	}
	sb.WriteByte('}')
	return sb.String()
}
