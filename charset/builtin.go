package charset

// Lexical alphabets of the built-in datatypes. Codes are assigned in
// ascending code point order.
var (
	Boolean      = mustFromUnsorted(withWhitespace("01aeflrstu"))
	Integer      = mustFromUnsorted(withWhitespace("+-0123456789"))
	Decimal      = mustFromUnsorted(withWhitespace("+-.0123456789"))
	Double       = mustFromUnsorted(withWhitespace("+-.0123456789EINae"))
	DateTime     = mustFromUnsorted(withWhitespace("+-.0123456789:TZ"))
	Base64Binary = mustFromUnsorted(withWhitespace("+/0123456789=" + upper + lower))
	HexBinary    = mustFromUnsorted(withWhitespace("0123456789ABCDEFabcdef"))
)

const (
	upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lower = "abcdefghijklmnopqrstuvwxyz"
)

func withWhitespace(chars string) []rune {
	return append([]rune{'\t', '\n', '\r', ' '}, []rune(chars)...)
}

// Builtin returns the lexical alphabet of an XML Schema built-in type name,
// or nil when the type has none.
func Builtin(typeName string) *CharacterSet {
	switch typeName {
	case "boolean":
		return Boolean
	case "integer", "long", "int", "short", "byte",
		"nonNegativeInteger", "nonPositiveInteger", "positiveInteger", "negativeInteger",
		"unsignedLong", "unsignedInt", "unsignedShort", "unsignedByte":
		return Integer
	case "decimal":
		return Decimal
	case "float", "double":
		return Double
	case "dateTime", "date", "time", "gYear", "gYearMonth", "gMonth", "gMonthDay", "gDay":
		return DateTime
	case "base64Binary":
		return Base64Binary
	case "hexBinary":
		return HexBinary
	}
	return nil
}
