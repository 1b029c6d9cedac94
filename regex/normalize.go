package regex

import "sort"

// Normalize rewrites r to its canonical fixed point: absorbing/identity laws
// applied bottom-up, Or/And lists flattened, sorted by stable hash, and
// deduplicated. Two regexes that are structurally equivalent after these
// laws normalize to an identical value — this is the finiteness property
// DFA construction (spec.md §4.4) depends on for termination. Grounded on
// sana_core::regex::Regex::normalize, preserving its exact law ordering.
func Normalize(r Regex) Regex {
	switch r.Op {
	case OpNothing, OpEmpty, OpAnything, OpLiteral, OpClass:
		return r

	case OpLoop:
		sub := Normalize(*r.Sub)
		switch sub.Op {
		case OpLoop:
			return sub
		case OpNothing, OpEmpty:
			return EmptyStr()
		}
		return Loop(sub)

	case OpNot:
		sub := Normalize(*r.Sub)
		switch sub.Op {
		case OpNot:
			return *sub.Sub
		case OpNothing:
			return Anything()
		case OpAnything:
			return Nothing()
		}
		return Not(sub)

	case OpConcat:
		var flat []Regex
		for _, s := range r.Subs {
			s = Normalize(s)
			if s.Op == OpNothing {
				return Nothing()
			}
			if s.Op == OpEmpty {
				continue
			}
			if s.Op == OpConcat {
				flat = append(flat, s.Subs...)
			} else {
				flat = append(flat, s)
			}
		}
		switch len(flat) {
		case 0:
			return EmptyStr()
		case 1:
			return flat[0]
		default:
			return Regex{Op: OpConcat, Subs: flat}
		}

	case OpOr:
		var flat []Regex
		for _, s := range r.Subs {
			s = Normalize(s)
			if s.Op == OpAnything {
				return Anything()
			}
			if s.Op == OpNothing {
				continue
			}
			if s.Op == OpOr {
				flat = append(flat, s.Subs...)
			} else {
				flat = append(flat, s)
			}
		}
		return sortDedup(OpOr, flat, Nothing())

	case OpAnd:
		var flat []Regex
		for _, s := range r.Subs {
			s = Normalize(s)
			if s.Op == OpNothing {
				return Nothing()
			}
			if s.Op == OpAnything {
				continue
			}
			if s.Op == OpAnd {
				flat = append(flat, s.Subs...)
			} else {
				flat = append(flat, s)
			}
		}
		return sortDedup(OpAnd, flat, Anything())
	}

	panic("regex: unknown op during normalize")
}

// sortDedup sorts flat by stable hash, drops duplicates, and collapses the
// empty/singleton cases to ident or the sole element, per spec.md §3
// invariant 2.
func sortDedup(op Op, flat []Regex, ident Regex) Regex {
	if len(flat) == 0 {
		return ident
	}

	sort.Slice(flat, func(i, j int) bool {
		return flat[i].Hash().Less(flat[j].Hash())
	})

	out := flat[:1]
	for _, s := range flat[1:] {
		if s.Hash() != out[len(out)-1].Hash() {
			out = append(out, s)
		}
	}

	if len(out) == 1 {
		return out[0]
	}
	return Regex{Op: op, Subs: out}
}
