package export

// TextExporter writes the letter verbatim as UTF-8.
type TextExporter struct{}

func (TextExporter) Format() Format { return FormatText }

func (TextExporter) Export(text string) (*Document, error) {
	return &Document{Format: FormatText, Data: []byte(text)}, nil
}
