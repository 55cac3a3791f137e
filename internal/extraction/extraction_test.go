package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExtractor struct {
	calls int
	text  string
	err   error
}

func (c *countingExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	c.calls++
	return c.text, c.err
}

func newTestDispatcher() (*Dispatcher, *countingExtractor, *countingExtractor) {
	docx := &countingExtractor{text: "docx text"}
	pdf := &countingExtractor{text: "pdf text"}
	return &Dispatcher{DOCX: docx, PDF: pdf}, docx, pdf
}

func TestExtract_UnsupportedBeforeAnyExtractor(t *testing.T) {
	for _, name := range []string{"resume.txt", "resume", "resume.doc", "resume.pdf.zip", ".pdfx"} {
		d, docx, pdf := newTestDispatcher()

		_, err := d.Extract(context.Background(), name, []byte("data"))
		require.Error(t, err, name)

		var unsupported *UnsupportedFileTypeError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, UnsupportedFileMessage, err.Error())
		assert.Equal(t, 0, docx.calls, name)
		assert.Equal(t, 0, pdf.calls, name)
	}
}

func TestExtract_DispatchesByExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"cv.docx", "docx text"},
		{"CV.DOCX", "docx text"},
		{"cv.pdf", "pdf text"},
		{"my.cv.Pdf", "pdf text"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			d, _, _ := newTestDispatcher()
			got, err := d.Extract(context.Background(), tt.filename, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_ExtractorFailure(t *testing.T) {
	d, _, pdf := newTestDispatcher()
	cause := errors.New("xref table corrupt")
	pdf.err = cause

	_, err := d.Extract(context.Background(), "cv.pdf", nil)
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "xref table corrupt")
}

func TestExtractionError_Fallback(t *testing.T) {
	assert.Equal(t, FallbackMessage, (&ExtractionError{Filename: "cv.pdf"}).Error())
	assert.Equal(t, FallbackMessage, (&ExtractionError{Filename: "cv.pdf", Cause: errors.New("")}).Error())
}

func TestExtractorFunc(t *testing.T) {
	d := &Dispatcher{
		DOCX: ExtractorFunc(func(context.Context, []byte) (string, error) { return "from func", nil }),
	}
	got, err := d.Extract(context.Background(), "cv.docx", nil)
	require.NoError(t, err)
	assert.Equal(t, "from func", got)
}
