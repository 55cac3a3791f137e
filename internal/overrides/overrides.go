// Package overrides holds named content rules that add fixed instructions to
// the generation prompt when a CV contains specific content.
package overrides

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/cover-letter/internal/schemas"
)

//go:embed rules.json
var defaultRules []byte

//go:embed rules.schema.json
var rulesSchema []byte

// Rule adds Instruction to the prompt when every Match.All term occurs in
// the CV text, compared case-insensitively.
type Rule struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Match       Match  `json:"match"`
	Instruction string `json:"instruction"`
}

// Match lists the substrings a CV must contain for a rule to apply.
type Match struct {
	All []string `json:"all"`
}

// Matches reports whether the rule applies to cvText.
func (r Rule) Matches(cvText string) bool {
	haystack := strings.ToLower(cvText)
	for _, term := range r.Match.All {
		if !strings.Contains(haystack, strings.ToLower(term)) {
			return false
		}
	}
	return len(r.Match.All) > 0
}

// Table is an ordered set of rules.
type Table struct {
	Rules []Rule `json:"rules"`
}

// Parse validates data against the rule schema and decodes it.
func Parse(data []byte) (Table, error) {
	if err := schemas.Validate("rules.schema.json", rulesSchema, data); err != nil {
		return Table{}, fmt.Errorf("invalid override rules: %w", err)
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("failed to decode override rules: %w", err)
	}

	seen := make(map[string]bool, len(table.Rules))
	for _, rule := range table.Rules {
		if seen[rule.Name] {
			return Table{}, fmt.Errorf("duplicate override rule %q", rule.Name)
		}
		seen[rule.Name] = true
	}
	return table, nil
}

// Default returns the rule table shipped with the binary.
func Default() Table {
	table, err := Parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("embedded override rules: %v", err))
	}
	return table
}

// Applicable returns the rules that match cvText, in table order.
func (t Table) Applicable(cvText string) []Rule {
	var matched []Rule
	for _, rule := range t.Rules {
		if rule.Matches(cvText) {
			matched = append(matched, rule)
		}
	}
	return matched
}
