// Package ir compiles an automaton.Automaton into a compact linear program
// (spec.md §4.5) and executes it with longest-match, priority-resolved
// semantics (spec.md §4.6). Grounded on sana_core/src/ir.rs.
package ir

import (
	"fmt"

	"github.com/dekarrin/gudgeon/automaton"
)

// Op is an IR opcode (spec.md §3 "IR Op").
type Op[A any] struct {
	Kind Kind
	Lo   rune
	Hi   rune
	Dst  int // block index before Flatten, instruction index after
	Val  A   // Set
}

// Kind discriminates an Op's variant.
type Kind uint8

const (
	Shift Kind = iota
	JumpMatches
	JumpNotMatches
	LoopMatches
	Jump
	Set
	Halt
)

func (k Kind) String() string {
	switch k {
	case Shift:
		return "shift"
	case JumpMatches:
		return "jump_matches"
	case JumpNotMatches:
		return "jump_not_matches"
	case LoopMatches:
		return "loop_matches"
	case Jump:
		return "jump"
	case Set:
		return "set"
	case Halt:
		return "halt"
	}
	return "?"
}

// BlockKind discriminates an inlinable Block from an out-of-line Func entry.
type BlockKind uint8

const (
	BlockInline BlockKind = iota
	BlockFunc
)

// Block is a sequence of ops tagged Block (inlinable) or Func (out-of-line
// entry, used for Sink states and the initial state).
type Block[A any] struct {
	Kind BlockKind
	Ops  []Op[A]
}

// Ir is the compiled program: a sequence of blocks, with block index 0 the
// entry point.
type Ir[A any] struct {
	Blocks []Block[A]
}

// FromAutomaton lowers aut into IR per spec.md §4.5's block-planning and
// per-state emission rules.
func FromAutomaton[A any](aut *automaton.Automaton[A]) Ir[A] {
	kinds := aut.NodeKinds()
	terminal := aut.FindTerminal()

	blockOf := make([]int, aut.Len())
	for i := range blockOf {
		blockOf[i] = -1
	}

	var order []int
	blockOf[0] = 0
	order = append(order, 0)
	if terminal != 0 {
		blockOf[terminal] = len(order)
		order = append(order, terminal)
	}

	for qi := 0; qi < len(order); qi++ {
		state := order[qi]
		for _, e := range aut.TransitionsFrom(state) {
			if blockOf[e.To] == -1 {
				blockOf[e.To] = len(order)
				order = append(order, e.To)
			}
		}
	}

	blocks := make([]Block[A], len(order))
	for bi, state := range order {
		kind := BlockInline
		if state == 0 || kinds[state] == automaton.KindSink {
			kind = BlockFunc
		}
		blocks[bi] = Block[A]{Kind: kind, Ops: emit(aut, state, kinds[state], terminal, blockOf)}
	}

	return Ir[A]{Blocks: blocks}
}

// emit lowers a single state into its block's op sequence, per spec.md
// §4.5's "Per-state emission" rules.
func emit[A any](aut *automaton.Automaton[A], state int, kind automaton.NodeKind, terminal int, blockOf []int) []Op[A] {
	var ops []Op[A]

	if kind != automaton.KindTerminal && state != 0 {
		ops = append(ops, Op[A]{Kind: Shift})
	}

	s := aut.State(state)
	if s.IsAction() {
		ops = append(ops, Op[A]{Kind: Set, Val: s.Value})
	}

	switch kind {
	case automaton.KindTerminal:
		ops = append(ops, Op[A]{Kind: Halt})

	case automaton.KindSink, automaton.KindFork:
		for _, e := range aut.TransitionsFrom(state) {
			if e.To == state {
				ops = append(ops, Op[A]{Kind: LoopMatches, Lo: e.Range.Lo, Hi: e.Range.Hi})
			} else {
				ops = append(ops, Op[A]{Kind: JumpMatches, Lo: e.Range.Lo, Hi: e.Range.Hi, Dst: blockOf[e.To]})
			}
		}

	case automaton.KindLink:
		jumps := 0
		for _, e := range aut.TransitionsFrom(state) {
			if e.To == state {
				ops = append(ops, Op[A]{Kind: LoopMatches, Lo: e.Range.Lo, Hi: e.Range.Hi})
				continue
			}
			if e.To == terminal {
				continue
			}
			jumps++
			ops = append(ops, Op[A]{Kind: JumpNotMatches, Lo: e.Range.Lo, Hi: e.Range.Hi, Dst: blockOf[terminal]})
			ops = append(ops, Op[A]{Kind: Jump, Dst: blockOf[e.To]})
		}
		if jumps == 0 {
			ops = append(ops, Op[A]{Kind: Halt})
		}

	case automaton.KindLeaf:
		for _, e := range aut.TransitionsFrom(state) {
			if e.To != state && e.To != terminal {
				panic(fmt.Sprintf("ir: leaf state %d has non-self, non-terminal edge to %d", state, e.To))
			}
			if e.To == state {
				ops = append(ops, Op[A]{Kind: LoopMatches, Lo: e.Range.Lo, Hi: e.Range.Hi})
			}
		}
		ops = append(ops, Op[A]{Kind: Halt})
	}

	return ops
}

// Flatten concatenates the block op-arrays into a single code vector and
// rewrites every Dst field from a block index to an instruction index.
func (ir Ir[A]) Flatten() []Op[A] {
	start := make([]int, len(ir.Blocks))
	offset := 0
	for i, b := range ir.Blocks {
		start[i] = offset
		offset += len(b.Ops)
	}

	code := make([]Op[A], 0, offset)
	for _, b := range ir.Blocks {
		for _, op := range b.Ops {
			switch op.Kind {
			case JumpMatches, JumpNotMatches, Jump:
				op.Dst = start[op.Dst]
			}
			code = append(code, op)
		}
	}
	return code
}
