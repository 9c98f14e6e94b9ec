package pattern

import (
	"sort"
	"unicode"
)

// span is an inclusive code point interval.
type span struct{ lo, hi rune }

// ranges is a set of code points kept as sorted, disjoint, non-adjacent spans.
type ranges []span

// xmlChars is the XML 1.0 Char production, the universe negations are taken in.
var xmlChars = ranges{
	{0x9, 0xA},
	{0xD, 0xD},
	{0x20, 0xD7FF},
	{0xE000, 0xFFFD},
	{0x10000, 0x10FFFF},
}

func single(r rune) ranges { return ranges{{r, r}} }

func normalize(in []span) ranges {
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(i, j int) bool { return in[i].lo < in[j].lo })
	out := ranges{in[0]}
	for _, s := range in[1:] {
		last := &out[len(out)-1]
		if s.lo <= last.hi+1 {
			if s.hi > last.hi {
				last.hi = s.hi
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r ranges) union(o ranges) ranges {
	all := make([]span, 0, len(r)+len(o))
	all = append(all, r...)
	all = append(all, o...)
	return normalize(all)
}

// minus returns r without the code points of o.
func (r ranges) minus(o ranges) ranges {
	var out ranges
	j := 0
	for _, s := range r {
		lo := s.lo
		for j < len(o) && o[j].hi < lo {
			j++
		}
		for k := j; k < len(o) && o[k].lo <= s.hi; k++ {
			if o[k].lo > lo {
				out = append(out, span{lo, o[k].lo - 1})
			}
			if o[k].hi+1 > lo {
				lo = o[k].hi + 1
			}
		}
		if lo <= s.hi {
			out = append(out, span{lo, s.hi})
		}
	}
	return out
}

// complement is taken within the XML character range.
func (r ranges) complement() ranges {
	return xmlChars.minus(r)
}

func (r ranges) count() int {
	n := 0
	for _, s := range r {
		n += int(s.hi-s.lo) + 1
	}
	return n
}

func (r ranges) runes() []rune {
	out := make([]rune, 0, r.count())
	for _, s := range r {
		for c := s.lo; c <= s.hi; c++ {
			out = append(out, c)
		}
	}
	return out
}

func fromTable(t *unicode.RangeTable) ranges {
	var all []span
	for _, r := range t.R16 {
		all = appendStrided(all, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	for _, r := range t.R32 {
		all = appendStrided(all, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	return normalize(all)
}

func appendStrided(all []span, lo, hi, stride rune) []span {
	if stride == 1 {
		return append(all, span{lo, hi})
	}
	for c := lo; c <= hi; c += stride {
		all = append(all, span{c, c})
	}
	return all
}
