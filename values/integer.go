package values

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// intTier is the in-memory representation chosen for an IntegerValue.
// It is never observable through equality, comparison or rendering.
type intTier uint8

const (
	tierSmall intTier = iota // fits int32
	tierWide                 // fits int64
	tierBig                  // arbitrary precision
)

// IntegerValue is an exact, arbitrary-precision signed integer.
//
// Values are kept in the smallest of three tiers (int32, int64, *big.Int) that
// holds them. The zero value is 0.
type IntegerValue struct {
	tier intTier
	wide int64    // tierSmall and tierWide
	big  *big.Int // tierBig only, never mutated after construction
}

// IntegerFromInt32 wraps a 32-bit value.
func IntegerFromInt32(v int32) IntegerValue {
	return IntegerValue{tier: tierSmall, wide: int64(v)}
}

// IntegerFromInt64 wraps a 64-bit value, narrowing to 32 bits when it fits.
func IntegerFromInt64(v int64) IntegerValue {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return IntegerValue{tier: tierSmall, wide: v}
	}
	return IntegerValue{tier: tierWide, wide: v}
}

// IntegerFromUint64 wraps an unsigned 64-bit value.
func IntegerFromUint64(v uint64) IntegerValue {
	if v <= math.MaxInt64 {
		return IntegerFromInt64(int64(v))
	}
	return IntegerValue{tier: tierBig, big: new(big.Int).SetUint64(v)}
}

// IntegerFromBig copies b, narrowing to a machine word when it fits.
func IntegerFromBig(b *big.Int) IntegerValue {
	if b.IsInt64() {
		return IntegerFromInt64(b.Int64())
	}
	return IntegerValue{tier: tierBig, big: new(big.Int).Set(b)}
}

// ParseInteger parses an optionally signed run of decimal digits.
func ParseInteger(s string) (IntegerValue, bool) {
	s = collapse(s)
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
	if len(s)-len(digits) > 1 || !isDigits(digits) {
		return IntegerValue{}, false
	}

	// 18 digits always fit int64.
	if len(digits) <= 18 {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return IntegerValue{}, false
		}
		return IntegerFromInt64(v), true
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return IntegerValue{}, false
	}
	return IntegerFromBig(b), true
}

func (v IntegerValue) Kind() Kind { return KindInteger }

func (v IntegerValue) value() {}

// Sign returns -1, 0 or +1.
func (v IntegerValue) Sign() int {
	if v.tier == tierBig {
		return v.big.Sign()
	}
	switch {
	case v.wide < 0:
		return -1
	case v.wide > 0:
		return 1
	}
	return 0
}

// Big returns a fresh big.Int holding the value.
func (v IntegerValue) Big() *big.Int {
	if v.tier == tierBig {
		return new(big.Int).Set(v.big)
	}
	return big.NewInt(v.wide)
}

// Int64 returns the value if it fits in an int64.
func (v IntegerValue) Int64() (int64, bool) {
	if v.tier == tierBig {
		return 0, false
	}
	return v.wide, true
}

// Uint64 returns the value if it is non-negative and fits in a uint64.
func (v IntegerValue) Uint64() (uint64, bool) {
	if v.tier == tierBig {
		if v.big.Sign() < 0 || !v.big.IsUint64() {
			return 0, false
		}
		return v.big.Uint64(), true
	}
	if v.wide < 0 {
		return 0, false
	}
	return uint64(v.wide), true
}

// Cmp compares v and o and returns -1, 0 or +1.
func (v IntegerValue) Cmp(o IntegerValue) int {
	if v.tier != tierBig && o.tier != tierBig {
		switch {
		case v.wide < o.wide:
			return -1
		case v.wide > o.wide:
			return 1
		}
		return 0
	}
	return v.Big().Cmp(o.Big())
}

// Equal reports numeric equality, whatever the representation.
func (v IntegerValue) Equal(o IntegerValue) bool {
	return v.Cmp(o) == 0
}

// Add returns v+o, promoting to arbitrary precision on overflow.
func (v IntegerValue) Add(o IntegerValue) IntegerValue {
	if v.tier != tierBig && o.tier != tierBig {
		s := v.wide + o.wide
		overflow := (v.wide > 0 && o.wide > 0 && s < 0) || (v.wide < 0 && o.wide < 0 && s >= 0)
		if !overflow {
			return IntegerFromInt64(s)
		}
	}
	return IntegerFromBig(new(big.Int).Add(v.Big(), o.Big()))
}

// Neg returns -v.
func (v IntegerValue) Neg() IntegerValue {
	if v.tier != tierBig && v.wide != math.MinInt64 {
		return IntegerFromInt64(-v.wide)
	}
	return IntegerFromBig(new(big.Int).Neg(v.Big()))
}

// Sub returns v-o.
func (v IntegerValue) Sub(o IntegerValue) IntegerValue {
	return v.Add(o.Neg())
}

// String renders the canonical decimal form.
func (v IntegerValue) String() string {
	if v.tier == tierBig {
		return v.big.String()
	}
	return strconv.FormatInt(v.wide, 10)
}

func (v IntegerValue) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *IntegerValue) UnmarshalText(input []byte) error {
	res, ok := ParseInteger(string(input))
	if !ok {
		return ErrInvalidLexical
	}
	*v = res
	return nil
}
