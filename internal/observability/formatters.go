// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cover-letter/internal/document"
	"github.com/jonathan/cover-letter/internal/export"
	"github.com/jonathan/cover-letter/internal/ingestion"
	"github.com/jonathan/cover-letter/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// previewChars bounds single-line previews of longer text
	previewChars = 40
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// preview returns the first line of s, shortened to previewChars.
func preview(s string) string {
	first, _, more := strings.Cut(strings.TrimSpace(s), "\n")
	if more {
		first += " …"
	}
	return truncate(first, previewChars)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// PrintRequest outputs the fields about to be sent to the model.
func (p *Printer) PrintRequest(req types.GenerationRequest) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Candidate: %s\n", orDash(req.CandidateName)))
	sb.WriteString(fmt.Sprintf("Company:   %s\n", orDash(req.CompanyName)))
	sb.WriteString(fmt.Sprintf("Address:   %s\n", orDash(req.CompanyAddress)))
	sb.WriteString(fmt.Sprintf("Manager:   %s\n", orDash(req.HiringManager)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Job description: %d chars\n", utf8.RuneCountInString(req.JobDescription)))
	sb.WriteString(fmt.Sprintf("  %s\n", preview(req.JobDescription)))
	sb.WriteString(fmt.Sprintf("CV: %d chars\n", utf8.RuneCountInString(req.CVText)))
	sb.WriteString(fmt.Sprintf("  %s\n", preview(req.CVText)))

	p.printBox("GENERATION REQUEST", sb.String())
}

// PrintJobSource outputs where an ingested job description came from.
func (p *Printer) PrintJobSource(meta *ingestion.Metadata, text string) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n", ingestion.FormatSource(meta)))
	sb.WriteString(fmt.Sprintf("Length:   %d chars\n", utf8.RuneCountInString(text)))
	if len(meta.Hash) >= 12 {
		sb.WriteString(fmt.Sprintf("SHA-256:  %s\n", meta.Hash[:12]))
	}

	p.printBox("JOB DESCRIPTION", sb.String())
}

// PrintBlocks outputs each letter block with its layout role.
func (p *Printer) PrintBlocks(blocks []document.Block) {
	var sb strings.Builder

	body := 0
	for _, b := range blocks {
		if b.IsBody() {
			body++
		}
	}
	sb.WriteString(fmt.Sprintf("%d blocks, %d body paragraphs\n\n", len(blocks), body))

	for _, b := range blocks {
		marker := " "
		if b.IsBody() {
			marker = "¶"
		}
		sb.WriteString(fmt.Sprintf("%s %2d %-13s %s\n", marker, b.Index, b.Kind, preview(b.Text)))
	}

	p.printBox("LETTER LAYOUT", sb.String())
}

// PrintDocument outputs a summary of an exported document.
func (p *Printer) PrintDocument(doc *export.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:   %s\n", doc.Name))
	sb.WriteString(fmt.Sprintf("Format: %s (%s)\n", doc.Format, doc.Format.ContentType()))
	sb.WriteString(fmt.Sprintf("Size:   %d bytes\n", len(doc.Data)))
	if doc.Pages > 0 {
		sb.WriteString(fmt.Sprintf("Pages:  %d\n", doc.Pages))
	}

	p.printBox("EXPORTED", sb.String())
}
