package gudgeon

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gudgeon/regex"
	"github.com/dekarrin/gudgeon/regex/surface"
	"github.com/dekarrin/gudgeon/rulefile"
)

// extPrefix marks a rule-file pattern as extended-algebra syntax (regex/surface)
// rather than plain regexp/syntax, per SPEC_FULL.md §3.1.
const extPrefix = "ext:"

// FromDocument compiles a decoded rule file into a RuleSet[string], whose
// action values are the rule's Action name strings. It returns the index
// into doc.Rules of the rule marked Error, and an error if any pattern
// fails to parse, or if more (or fewer) than one rule is marked Error.
func FromDocument(doc rulefile.Document) (rs *RuleSet[string], errorRuleIndex int, err error) {
	errIdx := doc.ErrorRule()
	if errIdx == -1 {
		return nil, -1, fmt.Errorf("gudgeon: rule file names no error rule (exactly one rule must set error = true)")
	}
	for i, entry := range doc.Rules {
		if entry.Error && i != errIdx {
			return nil, -1, fmt.Errorf("gudgeon: rule file names more than one error rule (%d and %d)", errIdx, i)
		}
	}

	rules := make([]Rule[string], len(doc.Rules))
	for i, entry := range doc.Rules {
		r, err := parsePattern(entry.Pattern)
		if err != nil {
			return nil, -1, fmt.Errorf("gudgeon: rule %d (%s): %w", i, entry.Action, err)
		}
		rules[i] = Rule[string]{
			Regex:    r,
			Priority: entry.Priority,
			Action:   entry.Action,
			Pattern:  entry.Pattern,
			Name:     entry.Action,
		}
	}

	rs, err = NewRuleSet(rules)
	if err != nil {
		return nil, -1, err
	}
	return rs, errIdx, nil
}

func parsePattern(pattern string) (regex.Regex, error) {
	if rest, ok := strings.CutPrefix(pattern, extPrefix); ok {
		return surface.Parse(rest)
	}
	return regex.FromSyntax(pattern)
}
