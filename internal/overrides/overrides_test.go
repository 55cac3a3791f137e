package overrides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ShipsAccentureRule(t *testing.T) {
	table := Default()
	require.Len(t, table.Rules, 1)
	assert.Equal(t, "accenture-data-ai-associate", table.Rules[0].Name)
	assert.Contains(t, table.Rules[0].Instruction, "building ETL pipelines, developing Power BI dashboards.")
}

func TestApplicable(t *testing.T) {
	table := Default()

	cv := "Fatimah Albaik\nData & AI New Associate (Sep 2025 - Present)\nAccenture | Riyadh"
	matched := table.Applicable(cv)
	require.Len(t, matched, 1)

	// case-insensitive
	assert.Len(t, table.Applicable("FATIMAH ALBAIK data & ai new associate accenture"), 1)

	// every term must be present
	assert.Empty(t, table.Applicable("Fatimah Albaik\nData Analyst Trainee\nSABIC"))
	assert.Empty(t, table.Applicable("John Smith\nData & AI New Associate\nAccenture"))
	assert.Empty(t, table.Applicable(""))
}

func TestRule_EmptyMatchNeverApplies(t *testing.T) {
	assert.False(t, Rule{Name: "x", Instruction: "y"}.Matches("anything"))
}

func TestParse(t *testing.T) {
	table, err := Parse([]byte(`{"rules": [
		{"name": "a", "match": {"all": ["go"]}, "instruction": "- mention Go"},
		{"name": "b", "match": {"all": ["rust", "wasm"]}, "instruction": "- mention WASM"}
	]}`))
	require.NoError(t, err)
	require.Len(t, table.Rules, 2)

	matched := table.Applicable("Go, Rust and WASM")
	require.Len(t, matched, 2)
	assert.Equal(t, "a", matched[0].Name)
	assert.Equal(t, "b", matched[1].Name)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing rules", `{}`},
		{"missing instruction", `{"rules": [{"name": "a", "match": {"all": ["x"]}}]}`},
		{"empty match", `{"rules": [{"name": "a", "match": {"all": []}, "instruction": "i"}]}`},
		{"bad name", `{"rules": [{"name": "Has Spaces", "match": {"all": ["x"]}, "instruction": "i"}]}`},
		{"unknown field", `{"rules": [], "extra": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid override rules")
		})
	}
}

func TestParse_DuplicateNames(t *testing.T) {
	_, err := Parse([]byte(`{"rules": [
		{"name": "a", "match": {"all": ["x"]}, "instruction": "i"},
		{"name": "a", "match": {"all": ["y"]}, "instruction": "j"}
	]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}
