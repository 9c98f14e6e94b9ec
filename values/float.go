package values

import (
	"math"
	"strconv"
	"strings"
)

const (
	// FloatSpecialExponent marks INF, -INF and NaN.
	FloatSpecialExponent = -(1 << 14)
	// FloatMaxExponent and FloatMinExponent bound the exponent of finite values.
	FloatMaxExponent = (1 << 14) - 1
	FloatMinExponent = -FloatMaxExponent
)

// FloatValue is Mantissa * 10^Exponent. Pairs are kept exactly as produced;
// 15E-1 and 150E-2 are distinct values on the wire.
type FloatValue struct {
	Mantissa int64
	Exponent int64
}

var (
	FloatInf    = FloatValue{Mantissa: 1, Exponent: FloatSpecialExponent}
	FloatNegInf = FloatValue{Mantissa: -1, Exponent: FloatSpecialExponent}
	FloatNaN    = FloatValue{Mantissa: 0, Exponent: FloatSpecialExponent}
)

// ParseFloat parses the xsd:float and xsd:double lexical spaces. Trailing
// fraction zeros are dropped, so "1.50" yields 15E-1.
func ParseFloat(s string) (FloatValue, bool) {
	s = collapse(s)
	switch s {
	case "INF", "+INF":
		return FloatInf, true
	case "-INF":
		return FloatNegInf, true
	case "NaN":
		return FloatNaN, true
	}

	var exponent int64
	if e := strings.IndexAny(s, "eE"); e >= 0 {
		exp := s[e+1:]
		digits := strings.TrimPrefix(strings.TrimPrefix(exp, "+"), "-")
		if len(exp)-len(digits) > 1 || !isDigits(digits) {
			return FloatValue{}, false
		}
		v, err := strconv.ParseInt(exp, 10, 64)
		if err != nil {
			return FloatValue{}, false
		}
		exponent, s = v, s[:e]
	}

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	integral, fraction := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		integral, fraction = s[:dot], s[dot+1:]
	}
	if integral == "" && fraction == "" {
		return FloatValue{}, false
	}
	if (integral != "" && !isDigits(integral)) || (fraction != "" && !isDigits(fraction)) {
		return FloatValue{}, false
	}
	fraction = strings.TrimRight(fraction, "0")

	mantissa, err := strconv.ParseInt(sign+integral+fraction, 10, 64)
	if err != nil {
		return FloatValue{}, false
	}
	exponent -= int64(len(fraction))
	if exponent < FloatMinExponent || exponent > FloatMaxExponent {
		return FloatValue{}, false
	}
	return FloatValue{Mantissa: mantissa, Exponent: exponent}, true
}

// FloatFromFloat64 converts a binary float into its shortest decimal pair.
func FloatFromFloat64(f float64) FloatValue {
	switch {
	case math.IsNaN(f):
		return FloatNaN
	case math.IsInf(f, 1):
		return FloatInf
	case math.IsInf(f, -1):
		return FloatNegInf
	}
	res, ok := ParseFloat(strconv.FormatFloat(f, 'E', -1, 64))
	if !ok {
		return FloatNaN
	}
	return res
}

func (f FloatValue) Kind() Kind { return KindFloat }

func (f FloatValue) value() {}

// IsSpecial reports whether the value is INF, -INF or NaN.
func (f FloatValue) IsSpecial() bool {
	return f.Exponent == FloatSpecialExponent
}

// InRange reports whether the exponent is within the finite bounds or is the
// special marker. Only such pairs have a lexical form.
func (f FloatValue) InRange() bool {
	return f.IsSpecial() || (f.Exponent >= FloatMinExponent && f.Exponent <= FloatMaxExponent)
}

// IsNaN reports whether the value is any NaN encoding.
func (f FloatValue) IsNaN() bool {
	return f.IsSpecial() && f.Mantissa != 1 && f.Mantissa != -1
}

// Equal compares pairs exactly; every NaN encoding equals every other.
func (f FloatValue) Equal(o FloatValue) bool {
	if f.IsNaN() && o.IsNaN() {
		return true
	}
	return f == o
}

// Float64 returns the nearest binary float.
func (f FloatValue) Float64() float64 {
	if f.IsSpecial() {
		switch f.Mantissa {
		case 1:
			return math.Inf(1)
		case -1:
			return math.Inf(-1)
		}
		return math.NaN()
	}
	v, _ := strconv.ParseFloat(f.String(), 64)
	return v
}

func (f FloatValue) String() string {
	if f.IsSpecial() {
		switch f.Mantissa {
		case 1:
			return "INF"
		case -1:
			return "-INF"
		}
		return "NaN"
	}
	return strconv.FormatInt(f.Mantissa, 10) + "E" + strconv.FormatInt(f.Exponent, 10)
}

func (f FloatValue) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FloatValue) UnmarshalText(input []byte) error {
	res, ok := ParseFloat(string(input))
	if !ok {
		return ErrInvalidLexical
	}
	*f = res
	return nil
}
