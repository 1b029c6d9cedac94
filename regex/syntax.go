package regex

import (
	"fmt"
	"regexp/syntax"

	"github.com/dekarrin/gudgeon/automaton"
	"golang.org/x/text/unicode/norm"
)

// UnsupportedError reports a regex construct outside the algebra this
// package can represent — spec.md §7's RegexUnsupported. Construction-time,
// fatal for the rule it was raised for.
type UnsupportedError struct {
	Construct string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("regex: %s is not supported", e.Construct)
}

func unsupported(construct string) error {
	return &UnsupportedError{Construct: construct}
}

// FromSyntax converts an ordinary regular expression string into this
// package's algebra by parsing it with the standard library's regexp/syntax
// (in syntax.Perl mode) and walking the resulting tree. This is the ingestion
// path spec.md §6 calls "rule ingestion": it accepts empty string, literals,
// classes, concatenation, alternation, groups (unwrapped), and greedy
// repetition, and rejects everything else with an *UnsupportedError.
//
// pattern is normalized to Unicode NFC first, so that a rule author writing
// an accented literal as a base letter plus a combining mark matches the
// same input as one who wrote the precomposed form.
func FromSyntax(pattern string) (Regex, error) {
	pattern = norm.NFC.String(pattern)

	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return Regex{}, fmt.Errorf("regex: parsing %q: %w", pattern, err)
	}
	return fromSyntaxTree(re)
}

func fromSyntaxTree(re *syntax.Regexp) (Regex, error) {
	switch re.Op {
	case syntax.OpEmptyMatch:
		return EmptyStr(), nil

	case syntax.OpLiteral:
		return literalFromRunes(re.Rune), nil

	case syntax.OpCharClass:
		return InClass(classFromSyntax(re.Rune)), nil

	case syntax.OpAnyCharNotNL:
		c := NewClass(automaton.NewRange(automaton.Min, '\n'-1), automaton.NewRange('\n'+1, automaton.Max))
		return InClass(c), nil

	case syntax.OpAnyChar:
		return InClass(NewClass(automaton.Full())), nil

	case syntax.OpConcat:
		subs := make([]Regex, len(re.Sub))
		for i, s := range re.Sub {
			r, err := fromSyntaxTree(s)
			if err != nil {
				return Regex{}, err
			}
			subs[i] = r
		}
		return Concat(subs...), nil

	case syntax.OpAlternate:
		subs := make([]Regex, len(re.Sub))
		for i, s := range re.Sub {
			r, err := fromSyntaxTree(s)
			if err != nil {
				return Regex{}, err
			}
			subs[i] = r
		}
		return Or(subs...), nil

	case syntax.OpStar:
		if re.Flags&syntax.NonGreedy != 0 {
			return Regex{}, unsupported("non-greedy quantifiers")
		}
		sub, err := fromSyntaxTree(re.Sub[0])
		if err != nil {
			return Regex{}, err
		}
		return Loop(sub), nil

	case syntax.OpPlus:
		if re.Flags&syntax.NonGreedy != 0 {
			return Regex{}, unsupported("non-greedy quantifiers")
		}
		sub, err := fromSyntaxTree(re.Sub[0])
		if err != nil {
			return Regex{}, err
		}
		return Plus(sub), nil

	case syntax.OpQuest:
		if re.Flags&syntax.NonGreedy != 0 {
			return Regex{}, unsupported("non-greedy quantifiers")
		}
		sub, err := fromSyntaxTree(re.Sub[0])
		if err != nil {
			return Regex{}, err
		}
		return Quest(sub), nil

	case syntax.OpCapture:
		return fromSyntaxTree(re.Sub[0])

	case syntax.OpRepeat:
		return Regex{}, unsupported("bounded repetition {n,m}")

	case syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText, syntax.OpEndText:
		return Regex{}, unsupported("anchors")

	case syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return Regex{}, unsupported("word boundaries")

	case syntax.OpNoMatch:
		return Nothing(), nil
	}

	return Regex{}, unsupported(fmt.Sprintf("regex construct %v", re.Op))
}

func literalFromRunes(runes []rune) Regex {
	if len(runes) == 1 {
		return Lit(runes[0])
	}
	subs := make([]Regex, len(runes))
	for i, r := range runes {
		subs[i] = Lit(r)
	}
	return Concat(subs...)
}

// classFromSyntax converts a regexp/syntax rune-pair class (lo1,hi1,lo2,hi2,...)
// into this package's Class.
func classFromSyntax(pairs []rune) Class {
	ranges := make([]automaton.Range, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		ranges = append(ranges, automaton.NewRange(pairs[i], pairs[i+1]))
	}
	return NewClass(ranges...)
}
