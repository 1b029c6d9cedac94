// Package rulefile reads the on-disk description of a rule set: a TOML or
// YAML document listing patterns, actions, and priorities, consumed by
// cmd/gudgeonc and server/. Grounded on the teacher's own world/config
// loading in internal/tqw/tqw.go and internal/game/marshaling.go, which read
// TOML the same direct-Unmarshal way.
package rulefile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// RuleEntry is one rule as written in a rule file.
type RuleEntry struct {
	// Pattern is a plain regexp/syntax pattern, or, prefixed with "ext:", an
	// extended-algebra pattern parsed by regex/surface.
	Pattern string `toml:"pattern" yaml:"pattern"`

	// Action names the token kind this rule produces.
	Action string `toml:"action" yaml:"action"`

	// Priority breaks ties among rules that match the same input; higher
	// wins.
	Priority int `toml:"priority" yaml:"priority"`

	// Error marks this rule's action as the ERROR sentinel (spec.md §6).
	// Exactly one rule in a Document must set this.
	Error bool `toml:"error" yaml:"error"`
}

// Document is the decoded form of a rule file: an ordered list of rules.
// Ordering is preserved from the file, since rule index is significant
// (AmbiguityError identifies rules by index).
type Document struct {
	Rules []RuleEntry `toml:"rule" yaml:"rules"`
}

// ErrorRule returns the index of the rule marked Error, or -1 if none is.
func (d Document) ErrorRule() int {
	for i, r := range d.Rules {
		if r.Error {
			return i
		}
	}
	return -1
}

// Load reads a rule file, choosing the decoder by filename extension:
// ".toml" for TOML, ".yaml"/".yml" for YAML.
func Load(path string, data []byte) (Document, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return LoadTOML(data)
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		return Document{}, fmt.Errorf("rulefile: unrecognized extension %q (want .toml, .yaml, or .yml)", ext)
	}
}

// LoadTOML decodes a TOML rule file.
func LoadTOML(data []byte) (Document, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("rulefile: parsing TOML: %w", err)
	}
	return doc, nil
}

// LoadYAML decodes a YAML rule file.
func LoadYAML(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("rulefile: parsing YAML: %w", err)
	}
	return doc, nil
}
