// Package gudgeon is a derivative-based lexer generator and runtime: given a
// set of regex rules it builds a DFA, lowers it to a compact IR, and
// executes that IR with longest-match, priority-resolved semantics. See
// SPEC_FULL.md for the full design; this file and its siblings implement
// spec.md §4.7 "Rule set façade", grounded on sana/src/lib.rs and
// sana_core/src/lib.rs.
package gudgeon

import (
	"fmt"

	"github.com/dekarrin/gudgeon/automaton"
	"github.com/dekarrin/gudgeon/ir"
	"github.com/dekarrin/gudgeon/regex"
)

// Rule binds a regex to a priority and an action value. Higher priority
// wins ties between rules that both accept at the same derivative state.
//
// Pattern and Name are not part of the matching semantics; they are carried
// for diagnostics (AmbiguityError, dot visualization, disassembly) so a
// caller can report "rule 2 (INT, priority 0)" instead of a bare index.
type Rule[A any] struct {
	Regex    regex.Regex
	Priority int
	Action   A

	Pattern string
	Name    string
}

// NullableRuleError reports a rule whose regex matches the empty string,
// which would cause the runtime to loop forever producing zero-length
// matches. Construction-time, per spec.md §7.
type NullableRuleError struct {
	Index int
	Name  string
}

func (e *NullableRuleError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("gudgeon: rule %d (%s) matches the empty string", e.Index, e.Name)
	}
	return fmt.Sprintf("gudgeon: rule %d matches the empty string", e.Index)
}

// AmbiguityError reports two rules of equal priority both nullable at the
// same derivative state — spec.md §7's Ambiguity(i, j), enriched with rule
// provenance per SPEC_FULL.md §4's priority-conflict diagnostics.
type AmbiguityError struct {
	First, Second       int
	FirstName           string
	SecondName          string
	FirstPattern        string
	SecondPattern       string
	Priority            int
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf(
		"gudgeon: ambiguous rules %d (%s, priority %d) and %d (%s, priority %d) both match",
		e.First, describeOrIndex(e.FirstName), e.Priority,
		e.Second, describeOrIndex(e.SecondName), e.Priority,
	)
}

func describeOrIndex(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return name
}

// RuleSet is an ordered list of rules, the façade's main entry point.
type RuleSet[A any] struct {
	Rules []Rule[A]
}

// NewRuleSet validates that no rule's regex is nullable (spec.md §7's
// NullableRuleError, checked eagerly, before any DFA construction) and
// returns the set. The error names the first nullable rule only.
func NewRuleSet[A any](rules []Rule[A]) (*RuleSet[A], error) {
	for i, r := range rules {
		if r.Regex.IsNullable() {
			return nil, &NullableRuleError{Index: i, Name: r.Name}
		}
	}
	return &RuleSet[A]{Rules: rules}, nil
}

// topRule returns the rule of highest priority among the given indices, or
// an AmbiguityError if two of them tie for highest. Grounded on
// sana_core::RuleSet::top_rule, generalized to surface every conflict
// (spec.md §4.4's priority rule applies per derivative state, and the
// original's panic-on-initial-state-only handling is widened here to cover
// every state as spec.md §7 requires).
func (rs *RuleSet[A]) topRule(indices []int) (int, error) {
	if len(indices) == 0 {
		return -1, nil
	}

	topIx := indices[0]
	topPrio := rs.Rules[topIx].Priority
	tieIx := -1

	for _, i := range indices[1:] {
		prio := rs.Rules[i].Priority
		switch {
		case prio < topPrio:
			// lower priority, ignore
		case prio == topPrio:
			if tieIx == -1 {
				tieIx = i
			}
		default:
			topIx, topPrio, tieIx = i, prio, -1
		}
	}

	if tieIx != -1 {
		a, b := rs.Rules[topIx], rs.Rules[tieIx]
		return -1, &AmbiguityError{
			First: topIx, Second: tieIx,
			FirstName: a.Name, SecondName: b.Name,
			FirstPattern: a.Pattern, SecondPattern: b.Pattern,
			Priority: topPrio,
		}
	}

	return topIx, nil
}

// DFA builds the automaton for this rule set by the worklist algorithm of
// spec.md §4.4: a RegexVector state, advanced one derivative class at a
// time, deduplicated by content hash, until the worklist is empty.
func (rs *RuleSet[A]) DFA() (*automaton.Automaton[A], error) {
	items := make([]regex.Regex, len(rs.Rules))
	for i, r := range rs.Rules {
		items[i] = r.Regex
	}
	initial := regex.NewVector(items...)

	label := func(v regex.Vector) (automaton.State[A], error) {
		top, err := rs.topRule(v.NullableIndices())
		if err != nil {
			return automaton.State[A]{}, err
		}
		if top == -1 {
			return automaton.NormalState[A](), nil
		}
		return automaton.ActionState(rs.Rules[top].Action), nil
	}

	initialState, err := label(initial)
	if err != nil {
		return nil, err
	}

	aut := automaton.New(initialState)

	type hashKey = [32]byte
	stored := map[hashKey]int{hashOf(initial): 0}
	queue := []regex.Vector{initial}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		from := stored[hashOf(v)]

		set := regex.ComputeVectorClassSet(v)
		for _, class := range set.Classes() {
			dv := v.Derivative(class.Pick())
			key := hashOf(dv)

			to, ok := stored[key]
			if !ok {
				state, err := label(dv)
				if err != nil {
					return nil, err
				}
				to = aut.AddState(state)
				stored[key] = to
				queue = append(queue, dv)
			}

			for _, r := range class.Ranges() {
				aut.AddEdge(from, to, r)
			}
		}
	}

	return aut, nil
}

func hashOf(v regex.Vector) [32]byte {
	return v.Hash()
}

// BuildIR builds and flattens the IR for this rule set's DFA in one step.
func (rs *RuleSet[A]) BuildIR() ([]ir.Op[A], error) {
	aut, err := rs.DFA()
	if err != nil {
		return nil, err
	}
	return ir.FromAutomaton(aut).Flatten(), nil
}
