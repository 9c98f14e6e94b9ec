package datatype

import (
	"math/bits"
	"strings"

	"github.com/pkg/errors"

	"github.com/rony4d/go-exi-asset/charset"
	"github.com/rony4d/go-exi-asset/codec"
	"github.com/rony4d/go-exi-asset/values"
)

// MaxNBitRange is the widest max-min span written as an n-bit integer.
const MaxNBitRange = 4096

// Boolean writes xsd:boolean as a single bit.
type Boolean struct{}

func (Boolean) BuiltInType() BuiltInType            { return BuiltInBoolean }
func (Boolean) CharacterSet() *charset.CharacterSet { return charset.Boolean }
func (Boolean) Format(v values.Value) string        { return v.String() }
func (Boolean) Parse(text string) (values.Value, bool) {
	v, ok := values.ParseBoolean(text)
	return v, ok
}

func (dt Boolean) Write(e *codec.Encoder, v values.Value) error {
	b, err := coerce[values.BooleanValue](dt, v)
	if err != nil {
		return err
	}
	return e.EncodeBoolean(bool(b))
}

func (Boolean) Read(d *codec.Decoder) (values.Value, error) {
	b, err := d.DecodeBoolean()
	if err != nil {
		return nil, err
	}
	return values.BooleanValue(b), nil
}

// booleanLexicals are the 2-bit codes of BooleanPattern.
var booleanLexicals = [...]string{"false", "0", "true", "1"}

// BooleanPattern writes xsd:boolean restricted by a pattern facet. It keeps
// the lexical form, so "1" and "true" stay distinct.
type BooleanPattern struct{}

func (BooleanPattern) BuiltInType() BuiltInType            { return BuiltInBooleanPattern }
func (BooleanPattern) CharacterSet() *charset.CharacterSet { return charset.Boolean }
func (BooleanPattern) Format(v values.Value) string        { return v.String() }

// Parse returns the boolean as a StringValue holding the trimmed lexical form.
func (BooleanPattern) Parse(text string) (values.Value, bool) {
	code, ok := booleanCode(text)
	if !ok {
		return nil, false
	}
	return values.StringValue(booleanLexicals[code]), true
}

func booleanCode(text string) (uint32, bool) {
	text = strings.Trim(text, " \t\r\n")
	for code, lex := range booleanLexicals {
		if lex == text {
			return uint32(code), true
		}
	}
	return 0, false
}

func (dt BooleanPattern) Write(e *codec.Encoder, v values.Value) error {
	if b, ok := v.(values.BooleanValue); ok {
		if b {
			return e.EncodeNBitUnsignedInteger(2, 2)
		}
		return e.EncodeNBitUnsignedInteger(2, 0)
	}
	if v == nil {
		return invalid(dt, v)
	}
	code, ok := booleanCode(v.String())
	if !ok {
		return invalid(dt, v)
	}
	return e.EncodeNBitUnsignedInteger(2, code)
}

func (BooleanPattern) Read(d *codec.Decoder) (values.Value, error) {
	code, err := d.DecodeNBitUnsignedInteger(2)
	if err != nil {
		return nil, err
	}
	return values.StringValue(booleanLexicals[code]), nil
}

// Integer writes xsd:integer and its unbounded signed derivations.
type Integer struct{}

func (Integer) BuiltInType() BuiltInType            { return BuiltInInteger }
func (Integer) CharacterSet() *charset.CharacterSet { return charset.Integer }
func (Integer) Format(v values.Value) string        { return v.String() }
func (Integer) Parse(text string) (values.Value, bool) {
	v, ok := values.ParseInteger(text)
	return v, ok
}

func (dt Integer) Write(e *codec.Encoder, v values.Value) error {
	i, err := coerce[values.IntegerValue](dt, v)
	if err != nil {
		return err
	}
	return e.EncodeIntegerValue(i)
}

func (Integer) Read(d *codec.Decoder) (values.Value, error) {
	return d.DecodeIntegerValue()
}

// UnsignedInteger writes non-negative integers without a sign bit.
type UnsignedInteger struct{}

func (UnsignedInteger) BuiltInType() BuiltInType            { return BuiltInUnsignedInteger }
func (UnsignedInteger) CharacterSet() *charset.CharacterSet { return charset.Integer }
func (UnsignedInteger) Format(v values.Value) string        { return v.String() }

func (UnsignedInteger) Parse(text string) (values.Value, bool) {
	i, ok := values.ParseInteger(text)
	if !ok || i.Sign() < 0 {
		return nil, false
	}
	return i, true
}

func (dt UnsignedInteger) Write(e *codec.Encoder, v values.Value) error {
	i, err := coerce[values.IntegerValue](dt, v)
	if err != nil {
		return err
	}
	if i.Sign() < 0 {
		return invalid(dt, v)
	}
	return e.EncodeUnsignedIntegerValue(i)
}

func (UnsignedInteger) Read(d *codec.Decoder) (values.Value, error) {
	return d.DecodeUnsignedIntegerValue()
}

// NBitInteger writes integers bounded to [min, max] as the offset from min
// in the fewest bits that hold max-min.
type NBitInteger struct {
	min, max values.IntegerValue
	n        int
}

// NewNBitInteger returns the bounded datatype for [lo, hi].
func NewNBitInteger(lo, hi values.IntegerValue) (*NBitInteger, error) {
	width, ok := hi.Sub(lo).Uint64()
	if !ok || width > MaxNBitRange {
		return nil, errors.Wrapf(ErrRange, "[%v, %v]", lo, hi)
	}
	return &NBitInteger{min: lo, max: hi, n: bits.Len64(width)}, nil
}

// Bits returns the width of every written value.
func (dt *NBitInteger) Bits() int { return dt.n }

func (dt *NBitInteger) BuiltInType() BuiltInType            { return BuiltInNBitInteger }
func (dt *NBitInteger) CharacterSet() *charset.CharacterSet { return charset.Integer }
func (dt *NBitInteger) Format(v values.Value) string        { return v.String() }

func (dt *NBitInteger) Parse(text string) (values.Value, bool) {
	i, ok := values.ParseInteger(text)
	if !ok || i.Cmp(dt.min) < 0 || i.Cmp(dt.max) > 0 {
		return nil, false
	}
	return i, true
}

func (dt *NBitInteger) Write(e *codec.Encoder, v values.Value) error {
	i, err := coerce[values.IntegerValue](dt, v)
	if err != nil {
		return err
	}
	if i.Cmp(dt.min) < 0 || i.Cmp(dt.max) > 0 {
		return invalid(dt, v)
	}
	return e.EncodeNBitUnsignedIntegerValue(dt.n, i.Sub(dt.min))
}

func (dt *NBitInteger) Read(d *codec.Decoder) (values.Value, error) {
	off, err := d.DecodeNBitUnsignedIntegerValue(dt.n)
	if err != nil {
		return nil, err
	}
	return off.Add(dt.min), nil
}

// Decimal writes xsd:decimal.
type Decimal struct{}

func (Decimal) BuiltInType() BuiltInType            { return BuiltInDecimal }
func (Decimal) CharacterSet() *charset.CharacterSet { return charset.Decimal }
func (Decimal) Format(v values.Value) string        { return v.String() }
func (Decimal) Parse(text string) (values.Value, bool) {
	v, ok := values.ParseDecimal(text)
	return v, ok
}

func (dt Decimal) Write(e *codec.Encoder, v values.Value) error {
	dec, err := coerce[values.DecimalValue](dt, v)
	if err != nil {
		return err
	}
	return e.EncodeDecimalValue(dec)
}

func (Decimal) Read(d *codec.Decoder) (values.Value, error) {
	return d.DecodeDecimalValue()
}

// Float writes xsd:float and xsd:double.
type Float struct{}

func (Float) BuiltInType() BuiltInType            { return BuiltInFloat }
func (Float) CharacterSet() *charset.CharacterSet { return charset.Double }
func (Float) Format(v values.Value) string        { return v.String() }
func (Float) Parse(text string) (values.Value, bool) {
	v, ok := values.ParseFloat(text)
	return v, ok
}

func (dt Float) Write(e *codec.Encoder, v values.Value) error {
	f, err := coerce[values.FloatValue](dt, v)
	if err != nil {
		return err
	}
	return e.EncodeFloatValue(f)
}

func (Float) Read(d *codec.Decoder) (values.Value, error) {
	return d.DecodeFloatValue()
}

// DateTime writes one of the eight date/time kinds.
type DateTime struct {
	Type values.DateTimeKind
}

func (DateTime) BuiltInType() BuiltInType            { return BuiltInDateTime }
func (DateTime) CharacterSet() *charset.CharacterSet { return charset.DateTime }
func (DateTime) Format(v values.Value) string        { return v.String() }

func (dt DateTime) Parse(text string) (values.Value, bool) {
	v, ok := values.ParseDateTime(dt.Type, text)
	return v, ok
}

func (dt DateTime) Write(e *codec.Encoder, v values.Value) error {
	if t, ok := v.(values.DateTimeValue); ok && t.Type != dt.Type {
		return invalid(dt, v)
	}
	t, err := coerce[values.DateTimeValue](dt, v)
	if err != nil {
		return err
	}
	return e.EncodeDateTimeValue(t)
}

func (dt DateTime) Read(d *codec.Decoder) (values.Value, error) {
	return d.DecodeDateTimeValue(dt.Type)
}

// Base64Binary writes xsd:base64Binary.
type Base64Binary struct{}

func (Base64Binary) BuiltInType() BuiltInType            { return BuiltInBinaryBase64 }
func (Base64Binary) CharacterSet() *charset.CharacterSet { return charset.Base64Binary }
func (Base64Binary) Format(v values.Value) string        { return v.String() }
func (Base64Binary) Parse(text string) (values.Value, bool) {
	v, ok := values.ParseBase64(text)
	return v, ok
}

func (dt Base64Binary) Write(e *codec.Encoder, v values.Value) error {
	b, err := coerce[values.BinaryValue](dt, v)
	if err != nil {
		return err
	}
	return e.EncodeBinary(b)
}

func (Base64Binary) Read(d *codec.Decoder) (values.Value, error) {
	return d.DecodeBinary()
}

// HexBinary writes xsd:hexBinary. The wire form equals Base64Binary; only
// the lexical space differs.
type HexBinary struct{}

func (HexBinary) BuiltInType() BuiltInType            { return BuiltInBinaryHex }
func (HexBinary) CharacterSet() *charset.CharacterSet { return charset.HexBinary }
func (HexBinary) Parse(text string) (values.Value, bool) {
	v, ok := values.ParseHex(text)
	return v, ok
}

func (HexBinary) Format(v values.Value) string {
	if b, ok := v.(values.BinaryValue); ok {
		return b.Hex()
	}
	return v.String()
}

func (dt HexBinary) Write(e *codec.Encoder, v values.Value) error {
	b, err := coerce[values.BinaryValue](dt, v)
	if err != nil {
		return err
	}
	return e.EncodeBinary(b)
}

func (HexBinary) Read(d *codec.Decoder) (values.Value, error) {
	return d.DecodeBinary()
}

// String writes xsd:string, coded against a restricted alphabet when one
// is set. Any value is accepted through its lexical form.
type String struct {
	rcs *charset.CharacterSet
}

// NewString returns a string datatype; rcs may be nil.
func NewString(rcs *charset.CharacterSet) *String {
	return &String{rcs: rcs}
}

func (dt *String) BuiltInType() BuiltInType {
	if dt.rcs != nil {
		return BuiltInRestrictedString
	}
	return BuiltInString
}

func (dt *String) CharacterSet() *charset.CharacterSet { return dt.rcs }
func (dt *String) Format(v values.Value) string        { return v.String() }

func (dt *String) Parse(text string) (values.Value, bool) {
	return values.StringValue(text), true
}

func (dt *String) Write(e *codec.Encoder, v values.Value) error {
	if v == nil {
		return invalid(dt, v)
	}
	if dt.rcs != nil {
		return e.EncodeRestrictedString(dt.rcs, v.String())
	}
	return e.EncodeString(v.String())
}

func (dt *String) Read(d *codec.Decoder) (values.Value, error) {
	var (
		s   string
		err error
	)
	if dt.rcs != nil {
		s, err = d.DecodeRestrictedString(dt.rcs)
	} else {
		s, err = d.DecodeString()
	}
	if err != nil {
		return nil, err
	}
	return values.StringValue(s), nil
}
