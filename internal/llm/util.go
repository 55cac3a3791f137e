package llm

import "strings"

// CleanTextBlock removes a markdown code fence the model sometimes wraps
// around plain-text answers, and trims surrounding whitespace. Text without
// a fence is only trimmed.
func CleanTextBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// drop a language tag such as ```text
	if idx := strings.Index(text, "\n"); idx >= 0 {
		tag := text[:idx]
		if len(tag) < 20 && !strings.Contains(tag, " ") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
