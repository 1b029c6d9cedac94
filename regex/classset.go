package regex

import "github.com/dekarrin/gudgeon/automaton"

// collectClasses walks r gathering the character classes that appear
// actively in it — the set used to refine the alphabet into derivative
// classes. Grounded on sana_core::regex::Regex::collect_classes.
func collectClasses(r Regex, out *[]Class) {
	switch r.Op {
	case OpLiteral:
		*out = append(*out, NewClass(automaton.NewRange(r.Lit, r.Lit)))
	case OpClass:
		*out = append(*out, r.Class)
	case OpConcat:
		collectConcatClasses(r.Subs, out)
	case OpLoop, OpNot:
		collectClasses(*r.Sub, out)
	case OpOr, OpAnd:
		for _, s := range r.Subs {
			collectClasses(s, out)
		}
	}
}

// collectConcatClasses contributes the classes of subs[0], then of
// subs[1], subs[2], ... for as long as the preceding members are nullable,
// matching spec.md §4.2's Concat traversal rule.
func collectConcatClasses(subs []Regex, out *[]Class) {
	for _, s := range subs {
		collectClasses(s, out)
		if !s.IsNullable() {
			return
		}
	}
}

// ClassSet is a partition of the alphabet into derivative classes of some
// regex: disjoint, non-empty ranges such that every character of a given
// class yields the same derivative.
type ClassSet struct {
	classes []Class
}

// Classes returns the partition's members, each as a representative Class.
func (cs ClassSet) Classes() []Class {
	return append([]Class(nil), cs.classes...)
}

// Pick returns an arbitrary representative character of the class, used to
// compute a single derivative standing in for the whole class.
func (c Class) Pick() rune {
	return c.ranges[0].Lo
}

// ComputeClassSet derives r's derivative classes by successive
// intersection/difference refinement of the full alphabet, grounded on
// sana_core::regex::ClassSet::from_classes.
func ComputeClassSet(r Regex) ClassSet {
	var collected []Class
	collectClasses(r, &collected)

	partition := []Class{NewClass(automaton.Full())}
	for _, c := range collected {
		partition = refine(partition, c)
	}

	return ClassSet{classes: partition}
}

// ComputeVectorClassSet is ComputeClassSet generalized to a Vector: it
// collects classes from every item before refining, since a RegexVector's
// derivative classes must respect every component simultaneously (spec.md
// §4.4 step 3 computes "V's derivative class set" over the whole vector, not
// per item).
func ComputeVectorClassSet(v Vector) ClassSet {
	var collected []Class
	for _, r := range v.Items {
		collectClasses(r, &collected)
	}

	partition := []Class{NewClass(automaton.Full())}
	for _, c := range collected {
		partition = refine(partition, c)
	}

	return ClassSet{classes: partition}
}

func refine(partition []Class, c Class) []Class {
	var out []Class
	for _, x := range partition {
		inter := x.intersect(c)
		diff := x.difference(c)
		if !inter.IsEmpty() {
			out = append(out, inter)
		}
		if !diff.IsEmpty() {
			out = append(out, diff)
		}
	}
	return dedupClasses(out)
}

func dedupClasses(classes []Class) []Class {
	out := classes[:0:0]
	for _, c := range classes {
		dup := false
		for _, seen := range out {
			if seen.Equal(c) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}
