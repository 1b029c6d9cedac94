package gudgeon

import "github.com/dekarrin/gudgeon/ir"

// Spanned pairs a value with the byte span of input it came from, per
// spec.md §4.7's "{ start, end, value }" token iteration triples.
type Spanned[A any] struct {
	Start int
	End   int
	Value A
}

// Lexer wraps a flattened IR program and an input string, and iterates
// tokens by repeatedly calling the VM's run until end of input, per spec.md
// §4.7. Grounded on sana/src/lib.rs's Lexer.
type Lexer[A any] struct {
	code  []ir.Op[A]
	vm    *ir.Vm[A]
	error A
}

// NewLexer creates a Lexer over src using the given flattened IR code. error
// is the sentinel action value returned (with its span) when no rule
// matches at the current position (spec.md §6 "Error value").
func NewLexer[A any](code []ir.Op[A], src string, error A) *Lexer[A] {
	return &Lexer[A]{code: code, vm: ir.NewVm(code, src), error: error}
}

// Position returns the lexer's current byte offset into its input.
func (l *Lexer[A]) Position() int {
	return l.vm.Position()
}

// Rewind resets the lexer to a previously observed Position, without
// affecting which IR code or input string it's bound to.
func (l *Lexer[A]) Rewind(pos int) {
	l.vm.Rewind(pos)
}

// Morph rebuilds the lexer against a different flattened IR program (e.g.
// switching from a default token set to a string-interpolation token set)
// at the current cursor position, continuing over the same input without
// re-scanning what's already been consumed. Grounded on sana/src/lib.rs's
// Lexer::morph, a feature the spec.md distillation alludes to via
// rewind/position but does not itself name.
func (l *Lexer[A]) Morph(code []ir.Op[A], src string) {
	pos := l.Position()
	l.code = code
	l.vm = ir.NewVm(code, src)
	l.vm.Rewind(pos)
}

// Next advances the lexer by one token, returning the span and whether any
// token (including an error span) was produced. At true end of input, ok is
// false.
func (l *Lexer[A]) Next() (Spanned[A], bool) {
	res := l.vm.Run()
	switch res.Kind {
	case ir.ResultAction:
		return Spanned[A]{Start: res.Start, End: res.End, Value: res.Value}, true
	case ir.ResultError:
		return Spanned[A]{Start: res.Start, End: res.End, Value: l.error}, true
	default:
		return Spanned[A]{}, false
	}
}

// All drains the lexer to end of input, collecting every token and error
// span in order. Convenience for callers (the CLI, the HTTP service) that
// want the whole result rather than streaming it.
func (l *Lexer[A]) All() []Spanned[A] {
	var out []Spanned[A]
	for {
		sp, ok := l.Next()
		if !ok {
			return out
		}
		out = append(out, sp)
	}
}

// NewLexerFromRuleSet is a convenience combining RuleSet.BuildIR with
// NewLexer for the common case of compiling and immediately lexing.
func NewLexerFromRuleSet[A any](rs *RuleSet[A], src string, errorAction A) (*Lexer[A], error) {
	code, err := rs.BuildIR()
	if err != nil {
		return nil, err
	}
	return NewLexer(code, src, errorAction), nil
}
