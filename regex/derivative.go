package regex

// Derivative computes D_c(r), the Brzozowski derivative of r with respect to
// character c: the regex matching w such that r matches c·w. The result is
// always normalized, since DFA construction (spec.md §4.4) relies on
// derivatives always being compared in canonical form to terminate.
// Grounded on sana_core::regex::Derivative's impl for Regex.
func (r Regex) Derivative(c rune) Regex {
	return Normalize(r.derivative(c))
}

func (r Regex) derivative(c rune) Regex {
	switch r.Op {
	case OpNothing, OpEmpty:
		return Nothing()
	case OpAnything:
		return Anything()
	case OpLiteral:
		if r.Lit == c {
			return EmptyStr()
		}
		return Nothing()
	case OpClass:
		if r.Class.Contains(c) {
			return EmptyStr()
		}
		return Nothing()
	case OpConcat:
		return concatDerivative(r.Subs, c)
	case OpLoop:
		return Concat(r.Sub.derivative(c), Loop(*r.Sub))
	case OpOr:
		subs := make([]Regex, len(r.Subs))
		for i, s := range r.Subs {
			subs[i] = s.derivative(c)
		}
		return Or(subs...)
	case OpAnd:
		subs := make([]Regex, len(r.Subs))
		for i, s := range r.Subs {
			subs[i] = s.derivative(c)
		}
		return And(subs...)
	case OpNot:
		return Not(r.Sub.derivative(c))
	}
	panic("regex: unknown op during derivative")
}

// concatDerivative computes D_c(Concat([r1,r2,...])) = Or(Concat([D_c(r1),
// r2,...]), D_c(Concat([r2,...]))  if r1 is nullable), recursing through the
// chain of leading nullable children.
func concatDerivative(subs []Regex, c rune) Regex {
	if len(subs) == 0 {
		return Nothing()
	}

	head, tail := subs[0], subs[1:]

	first := Concat(append([]Regex{head.derivative(c)}, tail...)...)
	if !head.IsNullable() {
		return first
	}

	return Or(first, concatDerivative(tail, c))
}
