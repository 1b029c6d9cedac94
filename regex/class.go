package regex

import (
	"sort"

	"github.com/dekarrin/gudgeon/automaton"
)

// Class is a sorted, non-overlapping set of scalar-value ranges — the
// character class operand of a Regex's Class variant. Grounded on
// sana_core::regex::Class, which wraps a regex-syntax hir::ClassUnicode in
// the same role.
type Class struct {
	ranges []automaton.Range
}

// NewClass builds a Class from the given ranges, normalizing them into
// sorted, non-overlapping, coalesced form.
func NewClass(ranges ...automaton.Range) Class {
	return Class{ranges: coalesce(ranges)}
}

// Ranges returns the class's ranges in sorted order.
func (c Class) Ranges() []automaton.Range {
	return append([]automaton.Range(nil), c.ranges...)
}

// IsEmpty reports whether the class contains no characters.
func (c Class) IsEmpty() bool {
	return len(c.ranges) == 0
}

// Contains reports whether ch is a member of the class.
func (c Class) Contains(ch rune) bool {
	i := sort.Search(len(c.ranges), func(i int) bool { return c.ranges[i].Hi >= ch })
	return i < len(c.ranges) && c.ranges[i].Contains(ch)
}

// Equal reports whether c and o contain exactly the same characters.
func (c Class) Equal(o Class) bool {
	if len(c.ranges) != len(o.ranges) {
		return false
	}
	for i := range c.ranges {
		if c.ranges[i] != o.ranges[i] {
			return false
		}
	}
	return true
}

func coalesce(ranges []automaton.Range) []automaton.Range {
	if len(ranges) == 0 {
		return nil
	}
	sorted := append([]automaton.Range(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	out := []automaton.Range{sorted[0]}
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi || (last.Hi < automaton.Max && last.Hi+1 == r.Lo) {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// intersect returns the set of characters in both c and o.
func (c Class) intersect(o Class) Class {
	var out []automaton.Range
	i, j := 0, 0
	for i < len(c.ranges) && j < len(o.ranges) {
		a, b := c.ranges[i], o.ranges[j]
		lo := a.Lo
		if b.Lo > lo {
			lo = b.Lo
		}
		hi := a.Hi
		if b.Hi < hi {
			hi = b.Hi
		}
		if lo <= hi {
			out = append(out, automaton.NewRange(lo, hi))
		}
		if a.Hi < b.Hi {
			i++
		} else {
			j++
		}
	}
	return Class{ranges: coalesce(out)}
}

// difference returns the set of characters in c but not in o.
func (c Class) difference(o Class) Class {
	out := append([]automaton.Range(nil), c.ranges...)
	for _, sub := range o.ranges {
		out = subtractOne(out, sub)
	}
	return Class{ranges: coalesce(out)}
}

func subtractOne(ranges []automaton.Range, sub automaton.Range) []automaton.Range {
	var out []automaton.Range
	for _, r := range ranges {
		if sub.Hi < r.Lo || sub.Lo > r.Hi {
			out = append(out, r)
			continue
		}
		if sub.Lo > r.Lo {
			out = append(out, automaton.NewRange(r.Lo, sub.Lo-1))
		}
		if sub.Hi < r.Hi {
			out = append(out, automaton.NewRange(sub.Hi+1, r.Hi))
		}
	}
	return out
}

// complement returns the characters of the full alphabet not in c.
func (c Class) complement() Class {
	full := Class{ranges: []automaton.Range{automaton.Full()}}
	return full.difference(c)
}
