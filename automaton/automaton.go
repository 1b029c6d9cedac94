package automaton

import "sort"

// StateKind distinguishes a plain DFA state from one that accepts with a
// particular action, per spec.md §3's "State: either Normal or Action(a)".
type StateKind int

const (
	Normal StateKind = iota
	Action
)

// State is a DFA state label. A Normal state is not accepting; an Action
// state accepts with the given value, which is the action of the
// highest-priority rule nullable in that derivative state.
type State[A any] struct {
	Kind  StateKind
	Value A
}

// NormalState returns a non-accepting state label.
func NormalState[A any]() State[A] {
	return State[A]{Kind: Normal}
}

// ActionState returns an accepting state label carrying the given action.
func ActionState[A any](a A) State[A] {
	return State[A]{Kind: Action, Value: a}
}

// IsAction reports whether the state accepts.
func (s State[A]) IsAction() bool {
	return s.Kind == Action
}

type edge struct {
	from  int
	rng   Range
	to    int
}

// Automaton is the labeled state graph of spec.md §3: states, optionally
// carrying an action, with edges keyed by (state, symbol range). Edges are
// kept in a slice sorted by (from, range) so that the transitions for a
// given source state form a contiguous run, mirroring the BTreeMap<(usize,
// CharRange), usize> of sana_core's Automata.
type Automaton[A any] struct {
	states []State[A]
	edges  []edge
}

// New creates an automaton with a single state, the given initial label, at
// index 0.
func New[A any](initial State[A]) *Automaton[A] {
	return &Automaton[A]{states: []State[A]{initial}}
}

// AddState appends a new state and returns its index.
func (a *Automaton[A]) AddState(s State[A]) int {
	a.states = append(a.states, s)
	return len(a.states) - 1
}

// Len returns the number of states.
func (a *Automaton[A]) Len() int {
	return len(a.states)
}

// State returns the label of the state at the given index.
func (a *Automaton[A]) State(i int) State[A] {
	return a.states[i]
}

// AddEdge inserts an edge from -> to over rng, keeping the edge list sorted
// by (from, range).
func (a *Automaton[A]) AddEdge(from, to int, rng Range) {
	e := edge{from: from, rng: rng, to: to}

	i := sort.Search(len(a.edges), func(i int) bool {
		if a.edges[i].from != from {
			return a.edges[i].from > from
		}
		return !a.edges[i].rng.Less(rng)
	})

	a.edges = append(a.edges, edge{})
	copy(a.edges[i+1:], a.edges[i:])
	a.edges[i] = e
}

// Edge is a single outgoing transition, as returned by TransitionsFrom.
type Edge struct {
	Range Range
	To    int
}

// TransitionsFrom returns the outgoing edges of the given state, in sorted
// range order.
func (a *Automaton[A]) TransitionsFrom(from int) []Edge {
	lo := sort.Search(len(a.edges), func(i int) bool { return a.edges[i].from >= from })
	hi := sort.Search(len(a.edges), func(i int) bool { return a.edges[i].from > from })

	out := make([]Edge, hi-lo)
	for i, e := range a.edges[lo:hi] {
		out[i] = Edge{Range: e.rng, To: e.to}
	}
	return out
}

// Transite returns the destination state reached from `from` on input ch, if
// any transition covers it.
func (a *Automaton[A]) Transite(from int, ch rune) (int, bool) {
	for _, e := range a.TransitionsFrom(from) {
		if e.Range.Contains(ch) {
			return e.To, true
		}
	}
	return 0, false
}

// FindTerminal returns the index of the unique dead state: the state whose
// only outgoing edge is a self-loop over the full alphabet and which carries
// no action. Panics if no such state exists, since every automaton built by
// the DFA builder (spec.md §4.4) has one.
func (a *Automaton[A]) FindTerminal() int {
	for i, s := range a.states {
		if s.IsAction() {
			continue
		}
		edges := a.TransitionsFrom(i)
		if len(edges) == 1 && edges[0].To == i && edges[0].Range.IsFull() {
			return i
		}
	}
	panic("automaton: no terminal state found")
}

// NodeKind classifies a state for IR block layout (spec.md §3 "Node kind").
type NodeKind int

const (
	KindFork NodeKind = iota
	KindLink
	KindLeaf
	KindSink
	KindTerminal
)

type coedgeKey struct {
	to  int
	rng Range
}

// NodeKinds classifies every state. This is a pure function of the state and
// edge lists, and is grounded directly on sana_core::automata::Automata::node_kinds:
// a Sink has more than one incoming edge from a state other than itself; of
// the rest, a state with zero non-self, non-terminal outgoing edges is a
// Leaf, one such edge is a Link, and more than one is a Fork.
func (a *Automaton[A]) NodeKinds() []NodeKind {
	terminal := a.FindTerminal()

	coedges := map[coedgeKey]int{}
	for _, e := range a.edges {
		coedges[coedgeKey{to: e.to, rng: e.rng}] = e.from
	}

	kinds := make([]NodeKind, len(a.states))
	for i := range a.states {
		if i == terminal {
			kinds[i] = KindTerminal
			continue
		}

		farCoedges := 0
		for k, from := range coedges {
			if k.to == i && from != i {
				farCoedges++
			}
		}

		if farCoedges > 1 {
			kinds[i] = KindSink
			continue
		}

		farEdges := 0
		for _, e := range a.TransitionsFrom(i) {
			if e.To != i && e.To != terminal {
				farEdges++
			}
		}

		switch farEdges {
		case 0:
			kinds[i] = KindLeaf
		case 1:
			kinds[i] = KindLink
		default:
			kinds[i] = KindFork
		}
	}

	return kinds
}

// Transform applies f to every state's value, producing a new automaton with
// the same shape. Useful for retargeting an automaton built with one action
// type onto another (e.g. stringifying actions for display).
func Transform[A, B any](a *Automaton[A], f func(A) B) *Automaton[B] {
	out := &Automaton[B]{
		states: make([]State[B], len(a.states)),
		edges:  append([]edge(nil), a.edges...),
	}
	for i, s := range a.states {
		if s.Kind == Action {
			out.states[i] = ActionState(f(s.Value))
		} else {
			out.states[i] = NormalState[B]()
		}
	}
	return out
}
