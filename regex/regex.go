// Package regex implements the extended regular expression algebra of
// spec.md §4.1: the ten-variant Regex type (Nothing, Empty, Literal, Class,
// Concat, Loop, Or, And, Not, Anything), its normalization to a canonical
// fixed point, nullability, and Brzozowski derivatives. It is grounded on
// sana_core/src/regex.rs, translated from an enum-plus-trait-impl shape into
// Go's single tagged-struct idiom — the same shape the standard library's
// own regexp/syntax.Regexp uses for its Op-discriminated tree.
package regex

import (
	"fmt"

	"github.com/dekarrin/gudgeon/automaton"
	"github.com/dekarrin/gudgeon/internal/canon"
)

// Op discriminates the variant a Regex value holds.
type Op uint8

const (
	OpNothing Op = iota
	OpEmpty
	OpLiteral
	OpClass
	OpConcat
	OpLoop
	OpOr
	OpAnd
	OpNot
	OpAnything
)

// Regex is a node in the extended regex algebra. Only the fields relevant to
// Op are meaningful, mirroring how regexp/syntax.Regexp overlays its
// variant-specific data onto one struct rather than an interface hierarchy.
type Regex struct {
	Op    Op
	Lit   rune     // OpLiteral
	Class Class    // OpClass
	Subs  []Regex  // OpConcat, OpOr, OpAnd
	Sub   *Regex   // OpLoop, OpNot

	hash   canon.Hash
	hashed bool
}

// Nothing is the regex matching nothing, ∅.
func Nothing() Regex { return Regex{Op: OpNothing} }

// EmptyStr is the regex matching only the empty string, ε.
func EmptyStr() Regex { return Regex{Op: OpEmpty} }

// Anything is Σ*, matching any string.
func Anything() Regex { return Regex{Op: OpAnything} }

// Lit builds a single-character literal regex.
func Lit(c rune) Regex { return Regex{Op: OpLiteral, Lit: c} }

// LitString builds the concatenation of the literal characters of s.
func LitString(s string) Regex {
	var subs []Regex
	for _, c := range s {
		subs = append(subs, Lit(c))
	}
	return Concat(subs...)
}

// InClass builds a regex matching any single character of c.
func InClass(c Class) Regex { return Regex{Op: OpClass, Class: c} }

// Concat builds an ordered concatenation.
func Concat(rs ...Regex) Regex { return Regex{Op: OpConcat, Subs: rs} }

// Loop builds the Kleene star of r.
func Loop(r Regex) Regex { return Regex{Op: OpLoop, Sub: &r} }

// Plus is the desugaring r+ = Concat([r, Loop(r)]), used by both surface
// syntax ingestion paths (spec.md §6's greedy repetitions).
func Plus(r Regex) Regex { return Concat(r, Loop(r)) }

// Quest is the desugaring r? = Or([r, ε]).
func Quest(r Regex) Regex { return Or(r, EmptyStr()) }

// Or builds a union. The list is treated as a commutative, idempotent set by
// Normalize.
func Or(rs ...Regex) Regex { return Regex{Op: OpOr, Subs: rs} }

// And builds an intersection, likewise commutative and idempotent.
func And(rs ...Regex) Regex { return Regex{Op: OpAnd, Subs: rs} }

// Not builds a complement.
func Not(r Regex) Regex { return Regex{Op: OpNot, Sub: &r} }

// IsNullable reports whether r matches the empty string. Grounded on
// sana_core::regex::Regex::is_nullable.
func (r Regex) IsNullable() bool {
	switch r.Op {
	case OpNothing:
		return false
	case OpEmpty, OpAnything, OpLoop:
		return true
	case OpLiteral:
		return false
	case OpClass:
		return false
	case OpConcat:
		for _, s := range r.Subs {
			if !s.IsNullable() {
				return false
			}
		}
		return true
	case OpOr:
		for _, s := range r.Subs {
			if s.IsNullable() {
				return true
			}
		}
		return false
	case OpAnd:
		for _, s := range r.Subs {
			if !s.IsNullable() {
				return false
			}
		}
		return true
	case OpNot:
		return !r.Sub.IsNullable()
	}
	panic(fmt.Sprintf("regex: unknown op %d", r.Op))
}

// Hash returns the stable content hash used both to sort Or/And operands
// during normalization and, through Vector.Hash, to key the derivative states
// seen during DFA construction.
func (r *Regex) Hash() canon.Hash {
	if r.hashed {
		return r.hash
	}
	b := canon.NewBuilder().WriteTag(uint8(r.Op))
	switch r.Op {
	case OpLiteral:
		b.WriteUint64(uint64(r.Lit))
	case OpClass:
		for _, rg := range r.Class.ranges {
			b.WriteUint64(uint64(rg.Lo)).WriteUint64(uint64(rg.Hi))
		}
	case OpConcat, OpOr, OpAnd:
		for i := range r.Subs {
			b.WriteHash(r.Subs[i].Hash())
		}
	case OpLoop, OpNot:
		b.WriteHash(r.Sub.Hash())
	}
	r.hash = b.Sum()
	r.hashed = true
	return r.hash
}

// Equal reports whether r and o have the same content hash, i.e. are
// structurally identical. It does not normalize either side: Or(a, b) and
// Or(b, a) are Equal only after both have been passed through Normalize.
func (r Regex) Equal(o Regex) bool {
	return r.Hash() == o.Hash()
}

func (r Regex) String() string {
	switch r.Op {
	case OpNothing:
		return "∅"
	case OpEmpty:
		return "ε"
	case OpAnything:
		return "Σ*"
	case OpLiteral:
		return fmt.Sprintf("%q", r.Lit)
	case OpClass:
		return fmt.Sprintf("Class%v", r.Class.ranges)
	case OpConcat:
		return fmt.Sprintf("Concat%v", r.Subs)
	case OpLoop:
		return fmt.Sprintf("Loop(%s)", r.Sub)
	case OpOr:
		return fmt.Sprintf("Or%v", r.Subs)
	case OpAnd:
		return fmt.Sprintf("And%v", r.Subs)
	case OpNot:
		return fmt.Sprintf("Not(%s)", r.Sub)
	}
	return "<invalid regex>"
}
