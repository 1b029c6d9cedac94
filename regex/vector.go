package regex

import "github.com/dekarrin/gudgeon/internal/canon"

// Vector is an ordered sequence of regexes that behaves like a union for
// matching purposes while remembering which original positions (rule
// indices) are nullable at a given derivative — this is how rule identity
// survives through DFA construction (spec.md §3). Grounded on
// sana_core::regex::RegexVector.
type Vector struct {
	Items []Regex
}

// NewVector builds a Vector over the given regexes, in order.
func NewVector(items ...Regex) Vector {
	return Vector{Items: append([]Regex(nil), items...)}
}

// Derivative computes the component-wise derivative of every item,
// normalizing each component, mirroring how DFA construction advances a
// RegexVector state by one input character (spec.md §4.4 step 3).
func (v Vector) Derivative(c rune) Vector {
	out := make([]Regex, len(v.Items))
	for i, r := range v.Items {
		out[i] = r.Derivative(c)
	}
	return Vector{Items: out}
}

// NullableIndices returns the indices of items that match the empty string,
// in ascending order.
func (v Vector) NullableIndices() []int {
	var out []int
	for i, r := range v.Items {
		if r.IsNullable() {
			out = append(out, i)
		}
	}
	return out
}

// Hash returns a stable content hash of the whole vector, used as the key of
// the `stored` map in DFA construction's worklist algorithm. Unlike the
// operands of an Or, which Normalize sorts, position within the vector is
// significant (it is what lets a derivative state recover which rule indices
// are nullable), so each element's hash is chained in order.
func (v Vector) Hash() canon.Hash {
	b := canon.NewBuilder()
	for i := range v.Items {
		h := v.Items[i].Hash()
		b.WriteHash(h)
	}
	return b.Sum()
}
