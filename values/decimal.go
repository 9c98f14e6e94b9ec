package values

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// DecimalValue is a signed decimal split into an integral part and a fraction
// whose digits are stored in reverse order. Trailing fraction zeros therefore
// vanish as leading zeros of RevFractional, and the digit count stays
// recoverable without a length field.
//
// Both parts are non-negative; Negative carries the sign.
type DecimalValue struct {
	Negative      bool
	Integral      IntegerValue
	RevFractional IntegerValue
}

// NewDecimal builds a decimal from its wire triple.
func NewDecimal(negative bool, integral, revFractional IntegerValue) DecimalValue {
	return DecimalValue{Negative: negative, Integral: integral, RevFractional: revFractional}
}

// ParseDecimal parses the xsd:decimal lexical space: an optional sign, digits,
// an optional '.' and fraction digits. Either side of the point may be empty
// but not both.
func ParseDecimal(s string) (DecimalValue, bool) {
	s = collapse(s)
	var d DecimalValue
	switch {
	case strings.HasPrefix(s, "-"):
		d.Negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	integral, fraction := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		integral, fraction = s[:dot], s[dot+1:]
	}
	if integral == "" && fraction == "" {
		return DecimalValue{}, false
	}
	if integral == "" {
		integral = "0"
	}
	if fraction == "" {
		fraction = "0"
	}
	if !isDigits(integral) || !isDigits(fraction) {
		return DecimalValue{}, false
	}

	var ok bool
	if d.Integral, ok = ParseInteger(integral); !ok {
		return DecimalValue{}, false
	}
	if d.RevFractional, ok = ParseInteger(reverseDigits(fraction)); !ok {
		return DecimalValue{}, false
	}
	return d, true
}

func (d DecimalValue) Kind() Kind { return KindDecimal }

func (d DecimalValue) value() {}

// String renders the value with at least one fraction digit, e.g. "12.0".
func (d DecimalValue) String() string {
	var sb strings.Builder
	if d.Negative {
		sb.WriteByte('-')
	}
	sb.WriteString(d.Integral.String())
	sb.WriteByte('.')
	sb.WriteString(reverseDigits(d.RevFractional.String()))
	return sb.String()
}

func (d DecimalValue) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DecimalValue) UnmarshalText(input []byte) error {
	res, ok := ParseDecimal(string(input))
	if !ok {
		return ErrInvalidLexical
	}
	*d = res
	return nil
}

// Equal reports whether both decimals have the same wire triple.
func (d DecimalValue) Equal(o DecimalValue) bool {
	return d.Negative == o.Negative && d.Integral.Equal(o.Integral) && d.RevFractional.Equal(o.RevFractional)
}

// ToAPD converts the value into an arbitrary-precision apd decimal.
func (d DecimalValue) ToAPD() (*apd.Decimal, error) {
	res, _, err := apd.NewFromString(d.String())
	return res, err
}

// DecimalFromAPD converts a finite apd decimal. NaN and infinities are rejected.
func DecimalFromAPD(x *apd.Decimal) (DecimalValue, bool) {
	if x == nil || x.Form != apd.Finite {
		return DecimalValue{}, false
	}
	return ParseDecimal(x.Text('f'))
}

// NumericEqual compares by numeric value: 1.50, 1.5 and 01.5 are all equal,
// as are -0.0 and 0.0.
func (d DecimalValue) NumericEqual(o DecimalValue) bool {
	a, err := d.ToAPD()
	if err != nil {
		return d.Equal(o)
	}
	b, err := o.ToAPD()
	if err != nil {
		return d.Equal(o)
	}
	return a.Cmp(b) == 0
}
