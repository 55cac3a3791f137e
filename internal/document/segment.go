// Package document splits generated letter text into layout blocks and
// classifies each block by its position in the letter.
package document

import "strings"

// Segment splits text into blocks of consecutive non-blank lines.
// Lines that are empty or whitespace-only separate blocks and are never
// part of one. The returned blocks keep source order; empty input yields
// an empty (nil) slice.
func Segment(text string) []string {
	var blocks []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

// Lines returns the individual lines of a block.
func Lines(block string) []string {
	return strings.Split(block, "\n")
}

// Unwrap collapses the line breaks of a block into single spaces.
func Unwrap(block string) string {
	return strings.ReplaceAll(block, "\n", " ")
}
