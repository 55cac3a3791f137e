// Package extraction pulls plain text out of uploaded CV files.
package extraction

import (
	"context"
	"log"
	"path/filepath"
	"strings"
)

// Extractor returns the text content of one document format.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, data []byte) (string, error)

// Extract implements Extractor.
func (f ExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// Dispatcher picks an extractor by file extension.
type Dispatcher struct {
	DOCX Extractor
	PDF  Extractor
}

// New returns a Dispatcher with the built-in extractors.
func New() *Dispatcher {
	return &Dispatcher{DOCX: DOCXExtractor{}, PDF: PDFExtractor{}}
}

// Extract returns the text of the named file. The extension is checked
// case-insensitively before anything is read; unknown extensions give an
// *UnsupportedFileTypeError and extractor failures an *ExtractionError.
func (d *Dispatcher) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var extractor Extractor
	switch ext {
	case ".docx":
		extractor = d.DOCX
	case ".pdf":
		extractor = d.PDF
	default:
		return "", &UnsupportedFileTypeError{Filename: filename, Extension: ext}
	}

	text, err := extractor.Extract(ctx, data)
	if err != nil {
		log.Printf("[extract] %s: %v", filename, err)
		return "", &ExtractionError{Filename: filename, Cause: err}
	}
	return text, nil
}

// Extract uses the built-in extractors.
func Extract(ctx context.Context, filename string, data []byte) (string, error) {
	return New().Extract(ctx, filename, data)
}
