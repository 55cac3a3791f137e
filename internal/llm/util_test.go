package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTextBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "  Dear Jane,\n\nHello.  \n", "Dear Jane,\n\nHello."},
		{"generic fence", "```\nDear Jane,\n\nHello.\n```", "Dear Jane,\n\nHello."},
		{"text fence", "```text\nDear Jane,\n```", "Dear Jane,"},
		{"fence without newline", "```Dear Jane```", "Dear Jane"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanTextBlock(tt.input))
		})
	}
}

func TestExtractTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Dear "), genai.Text("Jane,")}},
		}},
	}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "Dear Jane,", text)
}

func TestExtractTextFromResponse_Empty(t *testing.T) {
	cases := []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}}},
	}
	for _, resp := range cases {
		_, err := extractTextFromResponse(resp)
		assert.ErrorIs(t, err, ErrEmptyResponse)
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(t.Context(), nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(t.Context(), &Config{Provider: "other"}, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}
