package values

// BooleanValue wraps a bool. The same one-bit codec also carries nil flags
// for the layers above.
type BooleanValue bool

// ParseBoolean accepts the xsd:boolean lexical forms true, false, 1 and 0.
func ParseBoolean(s string) (BooleanValue, bool) {
	switch collapse(s) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

func (b BooleanValue) Kind() Kind { return KindBoolean }

func (b BooleanValue) value() {}

func (b BooleanValue) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b BooleanValue) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *BooleanValue) UnmarshalText(input []byte) error {
	res, ok := ParseBoolean(string(input))
	if !ok {
		return ErrInvalidLexical
	}
	*b = res
	return nil
}
