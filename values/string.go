package values

// StringValue is character content. It is never whitespace-collapsed.
type StringValue string

func (s StringValue) Kind() Kind { return KindString }

func (s StringValue) value() {}

func (s StringValue) String() string { return string(s) }

func (s StringValue) MarshalText() ([]byte, error) {
	return []byte(s), nil
}
