package extraction

import "fmt"

// UnsupportedFileMessage is shown when an upload is neither .pdf nor .docx.
const UnsupportedFileMessage = "Unsupported file type. Please upload a .pdf or .docx file."

// FallbackMessage is shown when an extractor fails without a message.
const FallbackMessage = "Failed to parse the file."

// UnsupportedFileTypeError is returned before any extractor runs when the
// file extension is not recognised.
type UnsupportedFileTypeError struct {
	Filename  string
	Extension string
}

func (e *UnsupportedFileTypeError) Error() string {
	return UnsupportedFileMessage
}

// ExtractionError reports a failed extraction.
type ExtractionError struct {
	Filename string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause == nil || e.Cause.Error() == "" {
		return FallbackMessage
	}
	return fmt.Sprintf("failed to parse %s: %v", e.Filename, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
