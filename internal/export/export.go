// Package export renders the letter text as downloadable documents: plain
// text, a fixed-layout paginated PDF and a flowing Word document.
package export

import (
	"fmt"
	"strings"

	"github.com/jonathan/cover-letter/internal/document"
)

// Format is an export file format.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Formats lists the supported formats in menu order.
var Formats = []Format{FormatText, FormatPDF, FormatDOCX}

// ParseFormat accepts a format name or extension, with or without the dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Document is a rendered export.
type Document struct {
	Format Format
	Name   string
	Data   []byte
	// Pages is the page count for fixed-layout formats and 0 otherwise.
	Pages int
}

// Exporter renders letter text in one format.
type Exporter interface {
	Format() Format
	Export(text string) (*Document, error)
}

// New returns the exporter for format. Block classification comes from
// classifier so every format agrees on which blocks are body paragraphs.
func New(format Format, classifier document.Classifier) (Exporter, error) {
	switch format {
	case FormatText:
		return TextExporter{}, nil
	case FormatPDF:
		return NewPDFExporter(classifier), nil
	case FormatDOCX:
		return NewDOCXExporter(classifier), nil
	default:
		return nil, &Error{Format: format, Message: "unsupported format"}
	}
}

// Letter renders text in format and names the result after the company,
// or the candidate when no company is given.
func Letter(format Format, text, company, candidate string) (*Document, error) {
	exporter, err := New(format, document.DefaultClassifier())
	if err != nil {
		return nil, err
	}
	doc, err := exporter.Export(text)
	if err != nil {
		return nil, err
	}
	doc.Name = FileName(company, candidate, format.Extension())
	return doc, nil
}

// FileName returns Cover-Letter-<company>.<ext>, falling back to the
// candidate name with every space removed when company is blank.
func FileName(company, candidate, ext string) string {
	subject := strings.TrimSpace(company)
	if subject == "" {
		subject = strings.ReplaceAll(candidate, " ", "")
	}
	return fmt.Sprintf("Cover-Letter-%s.%s", subject, strings.TrimPrefix(ext, "."))
}
