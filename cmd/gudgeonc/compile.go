package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/gudgeon"
	"github.com/dekarrin/gudgeon/automaton"
	"github.com/dekarrin/gudgeon/cache"
	"github.com/dekarrin/gudgeon/ir"
	"github.com/dekarrin/gudgeon/rulefile"
)

// textOp is the printable form of one compiled instruction.
type textOp string

func (t textOp) String() string { return string(t) }

// loadAndCompile reads and parses ruleFile, then produces its flattened IR.
// If cachePath is non-empty, it consults that cache database first and only
// runs DFA construction (rs.BuildIR) on a miss, storing the result afterward
// so the next invocation over an unchanged rule file hits the cache.
func loadAndCompile(ruleFile, cachePath string) (*gudgeon.RuleSet[string], int, []ir.Op[string], error) {
	data, err := os.ReadFile(ruleFile)
	if err != nil {
		return nil, -1, nil, fmt.Errorf("reading %s: %w", ruleFile, err)
	}

	doc, err := rulefile.Load(ruleFile, data)
	if err != nil {
		return nil, -1, nil, err
	}

	rs, errIdx, err := gudgeon.FromDocument(doc)
	if err != nil {
		return nil, -1, nil, err
	}

	if cachePath == "" {
		ops, err := rs.BuildIR()
		if err != nil {
			return nil, -1, nil, err
		}
		return rs, errIdx, ops, nil
	}

	entries := make([]cache.Entry, len(rs.Rules))
	for i, r := range rs.Rules {
		entries[i] = cache.Entry{Pattern: r.Pattern, Priority: r.Priority}
	}
	key := cache.Key(entries)

	store, err := cache.Open(cachePath)
	if err != nil {
		return nil, -1, nil, err
	}
	defer store.Close()

	if cached, _, found, err := store.Get(key); err != nil {
		return nil, -1, nil, fmt.Errorf("checking compiled lexer cache: %w", err)
	} else if found {
		return rs, errIdx, cached, nil
	}

	ops, err := rs.BuildIR()
	if err != nil {
		return nil, -1, nil, err
	}
	if _, err := store.Put(key, ops); err != nil {
		return nil, -1, nil, err
	}

	return rs, errIdx, ops, nil
}

func formatOps(ops []ir.Op[string]) []textOp {
	out := make([]textOp, len(ops))
	for i, op := range ops {
		switch op.Kind {
		case ir.Shift:
			out[i] = "shift"
		case ir.JumpMatches:
			out[i] = textOp(fmt.Sprintf("jm %q %q -> %d", op.Lo, op.Hi, op.Dst))
		case ir.JumpNotMatches:
			out[i] = textOp(fmt.Sprintf("jnm %q %q -> %d", op.Lo, op.Hi, op.Dst))
		case ir.LoopMatches:
			out[i] = textOp(fmt.Sprintf("lm %q %q", op.Lo, op.Hi))
		case ir.Jump:
			out[i] = textOp(fmt.Sprintf("jump -> %d", op.Dst))
		case ir.Set:
			out[i] = textOp(fmt.Sprintf("set %q", op.Val))
		case ir.Halt:
			out[i] = "halt"
		}
	}
	return out
}

func disassembleDot(rs *gudgeon.RuleSet[string]) error {
	aut, err := rs.DFA()
	if err != nil {
		return err
	}
	return automaton.WriteDot(os.Stdout, aut, func(a string) string { return a })
}

func runInput(ops []ir.Op[string], errorAction, inputPath string) error {
	var data []byte
	var err error
	if inputPath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(inputPath)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	lex := gudgeon.NewLexer(ops, string(data), errorAction)
	for _, sp := range lex.All() {
		fmt.Printf("%d..%d\t%s\n", sp.Start, sp.End, sp.Value)
	}
	return nil
}
