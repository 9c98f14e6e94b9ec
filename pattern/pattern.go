// Package pattern derives restricted alphabets from XML Schema pattern facets.
//
// Derive walks a pattern and collects every code point that can appear in a
// matching string. Quantifiers, groups and alternation only shape the language,
// never the alphabet, so they are validated and skipped. Character classes
// support ranges, negation, subtraction, single and multi character escapes
// and the \p{..} category and block escapes.
//
// The result is either a finite alphabet of at most MaxRestrictedSize code
// points in ascending order, or the Unrestricted sentinel standing for the
// whole set of XML characters.
package pattern

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/rony4d/go-exi-asset/charset"
)

// MaxRestrictedSize is the largest alphabet kept as a restricted set.
const MaxRestrictedSize = 255

var (
	// ErrSyntax is returned for malformed patterns.
	ErrSyntax = errors.New("pattern: syntax error")
	// ErrUnknownProperty is returned for \p{..} names that are neither a
	// category nor a known block.
	ErrUnknownProperty = errors.New("pattern: unknown property")
	// ErrUnrestricted is returned when a character set is requested for the
	// unrestricted alphabet.
	ErrUnrestricted = errors.New("pattern: alphabet is unrestricted")
)

// Alphabet is the outcome of a derivation.
type Alphabet struct {
	// Unrestricted is set when the pattern admits (practically) any XML
	// character. It is distinct from an empty CodePoints.
	Unrestricted bool
	// CodePoints is sorted ascending and nil when Unrestricted.
	CodePoints []rune
}

// CharacterSet builds the restricted set of the alphabet.
func (a Alphabet) CharacterSet() (*charset.CharacterSet, error) {
	if a.Unrestricted {
		return nil, ErrUnrestricted
	}
	return charset.New(a.CodePoints)
}

// Derive computes the alphabet of an XML Schema regular expression.
func Derive(expr string) (Alphabet, error) {
	p := &parser{src: []rune(expr)}
	if err := p.parse(); err != nil {
		return Alphabet{}, err
	}
	if p.unrestricted || p.set.count() > MaxRestrictedSize {
		return Alphabet{Unrestricted: true}, nil
	}
	return Alphabet{CodePoints: p.set.runes()}, nil
}

type parser struct {
	src []rune
	pos int

	set          ranges
	unrestricted bool
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune { return p.src[p.pos] }

func (p *parser) peekAt(n int) (rune, bool) {
	if p.pos+n >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos+n], true
}

func (p *parser) next() rune {
	c := p.src[p.pos]
	p.pos++
	return c
}

func (p *parser) parse() error {
	depth := 0
	quantifiable := false
	for !p.eof() {
		c := p.next()
		switch c {
		case '(':
			depth++
			quantifiable = false
		case ')':
			if depth == 0 {
				return p.errorf("unbalanced ')'")
			}
			depth--
			quantifiable = true
		case '|':
			quantifiable = false
		case '*', '+', '?':
			if !quantifiable {
				return p.errorf("quantifier %q without atom", c)
			}
			quantifiable = false
		case '{':
			if !quantifiable {
				return p.errorf("quantifier without atom")
			}
			if err := p.quantity(); err != nil {
				return err
			}
			quantifiable = false
		case '[':
			cls, err := p.class()
			if err != nil {
				return err
			}
			p.add(cls)
			quantifiable = true
		case '.':
			p.add(single('\n').union(single('\r')).complement())
			quantifiable = true
		case '\\':
			cls, err := p.escape()
			if err != nil {
				return err
			}
			p.add(cls)
			quantifiable = true
		case ']', '}':
			return p.errorf("unexpected %q", c)
		default:
			p.add(single(c))
			quantifiable = true
		}
	}
	if depth != 0 {
		return p.errorf("unbalanced '('")
	}
	return nil
}

func (p *parser) add(r ranges) {
	if p.unrestricted {
		return
	}
	p.set = p.set.union(r)
	if p.set.count() > MaxRestrictedSize {
		p.unrestricted = true
		p.set = nil
	}
}

// quantity consumes "n}", "n,}" or "n,m}" after a '{'.
func (p *parser) quantity() error {
	digits := func() (int, bool) {
		n, seen := 0, false
		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			n = n*10 + int(p.next()-'0')
			seen = true
		}
		return n, seen
	}
	lo, ok := digits()
	if !ok {
		return p.errorf("missing quantity")
	}
	if !p.eof() && p.peek() == ',' {
		p.next()
		if hi, ok := digits(); ok && hi < lo {
			return p.errorf("quantity {%d,%d} out of order", lo, hi)
		}
	}
	if p.eof() || p.next() != '}' {
		return p.errorf("unterminated quantity")
	}
	return nil
}

// class parses a character class expression after its '['.
func (p *parser) class() (ranges, error) {
	negated := false
	if !p.eof() && p.peek() == '^' {
		p.next()
		negated = true
	}

	var set, sub ranges
	first := true
	hasSub := false
	for {
		if p.eof() {
			return nil, p.errorf("unterminated character class")
		}
		c := p.peek()
		if c == ']' && !first {
			p.next()
			break
		}
		if c == '-' && !first {
			if n, ok := p.peekAt(1); ok && n == '[' {
				p.pos += 2
				var err error
				if sub, err = p.class(); err != nil {
					return nil, err
				}
				if p.eof() || p.next() != ']' {
					return nil, p.errorf("subtraction must end the class")
				}
				hasSub = true
				break
			}
		}
		if c == '[' {
			return nil, p.errorf("nested class without subtraction")
		}

		lo, multi, err := p.classAtom()
		if err != nil {
			return nil, err
		}
		first = false
		if multi != nil {
			set = set.union(multi)
			continue
		}
		// a '-' closing the group or opening a subtraction is literal
		if n, ok := p.peekAt(0); ok && n == '-' {
			if after, ok := p.peekAt(1); ok && after != ']' && after != '[' {
				p.next()
				hi, multi, err := p.classAtom()
				if err != nil {
					return nil, err
				}
				if multi != nil || hi < lo {
					return nil, p.errorf("invalid range")
				}
				set = set.union(ranges{{lo, hi}})
				continue
			}
		}
		set = set.union(single(lo))
	}

	if negated {
		set = set.complement()
	}
	if hasSub {
		set = set.minus(sub)
	}
	return set, nil
}

// classAtom reads one character or escape inside a class. Multi character
// escapes come back as a set.
func (p *parser) classAtom() (rune, ranges, error) {
	if p.eof() {
		return 0, nil, p.errorf("unterminated character class")
	}
	c := p.next()
	if c != '\\' {
		return c, nil, nil
	}
	if p.eof() {
		return 0, nil, p.errorf("trailing backslash")
	}
	if r, ok := singleEscape(p.peek()); ok {
		p.next()
		return r, nil, nil
	}
	set, err := p.escape()
	return 0, set, err
}

// escape parses the character after a backslash.
func (p *parser) escape() (ranges, error) {
	if p.eof() {
		return nil, p.errorf("trailing backslash")
	}
	c := p.next()
	if r, ok := singleEscape(c); ok {
		return single(r), nil
	}
	switch c {
	case 's':
		return whitespace, nil
	case 'S':
		return whitespace.complement(), nil
	case 'd':
		return decimalDigits, nil
	case 'D':
		return decimalDigits.complement(), nil
	case 'w':
		return notWord().complement(), nil
	case 'W':
		return notWord(), nil
	case 'i', 'I', 'c', 'C':
		// name character classes; far beyond any restricted size
		p.unrestricted = true
		return nil, nil
	case 'p', 'P':
		set, err := p.property()
		if err != nil {
			return nil, err
		}
		if c == 'P' {
			set = set.complement()
		}
		return set, nil
	}
	return nil, p.errorf("unknown escape \\%c", c)
}

func (p *parser) property() (ranges, error) {
	if p.eof() || p.next() != '{' {
		return nil, p.errorf("expected '{' after \\p")
	}
	start := p.pos
	for !p.eof() && p.peek() != '}' {
		p.next()
	}
	if p.eof() {
		return nil, p.errorf("unterminated property")
	}
	name := string(p.src[start:p.pos])
	p.next()

	if name == "Nd" {
		return decimalDigits, nil
	}
	if t, ok := unicode.Categories[name]; ok {
		return fromTable(t), nil
	}
	if len(name) > 2 && name[:2] == "Is" {
		if b, ok := blocks[name[2:]]; ok {
			return normalize(append([]span(nil), b...)), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}

func singleEscape(c rune) (rune, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case '\\', '|', '.', '?', '*', '+', '(', ')', '{', '}', '-', '[', ']', '^', '$':
		return c, true
	}
	return 0, false
}

var whitespace = normalize([]span{{'\t', '\n'}, {'\r', '\r'}, {' ', ' '}})

// notWord is [\p{P}\p{Z}\p{C}], the complement of \w.
func notWord() ranges {
	return fromTable(unicode.P).union(fromTable(unicode.Z)).union(fromTable(unicode.C))
}

// decimalDigits is Nd as of Unicode 3.1, the version XML Schema 1.0 resolves
// \d against. Later versions grew it past MaxRestrictedSize.
var decimalDigits = normalize([]span{
	{'0', '9'}, {0x0660, 0x0669}, {0x06F0, 0x06F9}, {0x0966, 0x096F},
	{0x09E6, 0x09EF}, {0x0A66, 0x0A6F}, {0x0AE6, 0x0AEF}, {0x0B66, 0x0B6F},
	{0x0BE7, 0x0BEF}, {0x0C66, 0x0C6F}, {0x0CE6, 0x0CEF}, {0x0D66, 0x0D6F},
	{0x0E50, 0x0E59}, {0x0ED0, 0x0ED9}, {0x0F20, 0x0F29}, {0x1040, 0x1049},
	{0x1369, 0x1371}, {0x17E0, 0x17E9}, {0x1810, 0x1819}, {0xFF10, 0xFF19},
	{0x1D7CE, 0x1D7FF},
})

// blocks holds the Unicode 3.1 blocks XML Schema names in \p{IsX}.
var blocks = map[string][]span{
	"BasicLatin":                           {{0x0000, 0x007F}},
	"Latin-1Supplement":                    {{0x0080, 0x00FF}},
	"LatinExtended-A":                      {{0x0100, 0x017F}},
	"LatinExtended-B":                      {{0x0180, 0x024F}},
	"IPAExtensions":                        {{0x0250, 0x02AF}},
	"SpacingModifierLetters":               {{0x02B0, 0x02FF}},
	"CombiningDiacriticalMarks":            {{0x0300, 0x036F}},
	"Greek":                                {{0x0370, 0x03FF}},
	"Cyrillic":                             {{0x0400, 0x04FF}},
	"Armenian":                             {{0x0530, 0x058F}},
	"Hebrew":                               {{0x0590, 0x05FF}},
	"Arabic":                               {{0x0600, 0x06FF}},
	"Syriac":                               {{0x0700, 0x074F}},
	"Thaana":                               {{0x0780, 0x07BF}},
	"Devanagari":                           {{0x0900, 0x097F}},
	"Bengali":                              {{0x0980, 0x09FF}},
	"Gurmukhi":                             {{0x0A00, 0x0A7F}},
	"Gujarati":                             {{0x0A80, 0x0AFF}},
	"Oriya":                                {{0x0B00, 0x0B7F}},
	"Tamil":                                {{0x0B80, 0x0BFF}},
	"Telugu":                               {{0x0C00, 0x0C7F}},
	"Kannada":                              {{0x0C80, 0x0CFF}},
	"Malayalam":                            {{0x0D00, 0x0D7F}},
	"Sinhala":                              {{0x0D80, 0x0DFF}},
	"Thai":                                 {{0x0E00, 0x0E7F}},
	"Lao":                                  {{0x0E80, 0x0EFF}},
	"Tibetan":                              {{0x0F00, 0x0FFF}},
	"Myanmar":                              {{0x1000, 0x109F}},
	"Georgian":                             {{0x10A0, 0x10FF}},
	"HangulJamo":                           {{0x1100, 0x11FF}},
	"Ethiopic":                             {{0x1200, 0x137F}},
	"Cherokee":                             {{0x13A0, 0x13FF}},
	"UnifiedCanadianAboriginalSyllabics":   {{0x1400, 0x167F}},
	"Ogham":                                {{0x1680, 0x169F}},
	"Runic":                                {{0x16A0, 0x16FF}},
	"Khmer":                                {{0x1780, 0x17FF}},
	"Mongolian":                            {{0x1800, 0x18AF}},
	"LatinExtendedAdditional":              {{0x1E00, 0x1EFF}},
	"GreekExtended":                        {{0x1F00, 0x1FFF}},
	"GeneralPunctuation":                   {{0x2000, 0x206F}},
	"SuperscriptsandSubscripts":            {{0x2070, 0x209F}},
	"CurrencySymbols":                      {{0x20A0, 0x20CF}},
	"CombiningMarksforSymbols":             {{0x20D0, 0x20FF}},
	"LetterlikeSymbols":                    {{0x2100, 0x214F}},
	"NumberForms":                          {{0x2150, 0x218F}},
	"Arrows":                               {{0x2190, 0x21FF}},
	"MathematicalOperators":                {{0x2200, 0x22FF}},
	"MiscellaneousTechnical":               {{0x2300, 0x23FF}},
	"ControlPictures":                      {{0x2400, 0x243F}},
	"OpticalCharacterRecognition":          {{0x2440, 0x245F}},
	"EnclosedAlphanumerics":                {{0x2460, 0x24FF}},
	"BoxDrawing":                           {{0x2500, 0x257F}},
	"BlockElements":                        {{0x2580, 0x259F}},
	"GeometricShapes":                      {{0x25A0, 0x25FF}},
	"MiscellaneousSymbols":                 {{0x2600, 0x26FF}},
	"Dingbats":                             {{0x2700, 0x27BF}},
	"BraillePatterns":                      {{0x2800, 0x28FF}},
	"CJKRadicalsSupplement":                {{0x2E80, 0x2EFF}},
	"KangxiRadicals":                       {{0x2F00, 0x2FDF}},
	"IdeographicDescriptionCharacters":     {{0x2FF0, 0x2FFF}},
	"CJKSymbolsandPunctuation":             {{0x3000, 0x303F}},
	"Hiragana":                             {{0x3040, 0x309F}},
	"Katakana":                             {{0x30A0, 0x30FF}},
	"Bopomofo":                             {{0x3100, 0x312F}},
	"HangulCompatibilityJamo":              {{0x3130, 0x318F}},
	"Kanbun":                               {{0x3190, 0x319F}},
	"BopomofoExtended":                     {{0x31A0, 0x31BF}},
	"EnclosedCJKLettersandMonths":          {{0x3200, 0x32FF}},
	"CJKCompatibility":                     {{0x3300, 0x33FF}},
	"CJKUnifiedIdeographsExtensionA":       {{0x3400, 0x4DB5}},
	"CJKUnifiedIdeographs":                 {{0x4E00, 0x9FFF}},
	"YiSyllables":                          {{0xA000, 0xA48F}},
	"YiRadicals":                           {{0xA490, 0xA4CF}},
	"HangulSyllables":                      {{0xAC00, 0xD7A3}},
	"HighSurrogates":                       {{0xD800, 0xDB7F}},
	"HighPrivateUseSurrogates":             {{0xDB80, 0xDBFF}},
	"LowSurrogates":                        {{0xDC00, 0xDFFF}},
	"PrivateUse":                           {{0xE000, 0xF8FF}, {0xF0000, 0xFFFFD}, {0x100000, 0x10FFFD}},
	"CJKCompatibilityIdeographs":           {{0xF900, 0xFAFF}},
	"AlphabeticPresentationForms":          {{0xFB00, 0xFB4F}},
	"ArabicPresentationForms-A":            {{0xFB50, 0xFDFF}},
	"CombiningHalfMarks":                   {{0xFE20, 0xFE2F}},
	"CJKCompatibilityForms":                {{0xFE30, 0xFE4F}},
	"SmallFormVariants":                    {{0xFE50, 0xFE6F}},
	"ArabicPresentationForms-B":            {{0xFE70, 0xFEFE}},
	"Specials":                             {{0xFEFF, 0xFEFF}, {0xFFF0, 0xFFFD}},
	"HalfwidthandFullwidthForms":           {{0xFF00, 0xFFEF}},
	"OldItalic":                            {{0x10300, 0x1032F}},
	"Gothic":                               {{0x10330, 0x1034F}},
	"Deseret":                              {{0x10400, 0x1044F}},
	"ByzantineMusicalSymbols":              {{0x1D000, 0x1D0FF}},
	"MusicalSymbols":                       {{0x1D100, 0x1D1FF}},
	"MathematicalAlphanumericSymbols":      {{0x1D400, 0x1D7FF}},
	"CJKUnifiedIdeographsExtensionB":       {{0x20000, 0x2A6D6}},
	"CJKCompatibilityIdeographsSupplement": {{0x2F800, 0x2FA1F}},
	"Tags":                                 {{0xE0000, 0xE007F}},
}
