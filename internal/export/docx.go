package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/cover-letter/internal/document"
)

// DOCXStyle holds the document-wide defaults.
type DOCXStyle struct {
	Font string
	// Size is in half-points.
	Size int
	// BorderSize is in eighths of a point.
	BorderSize int
	Modified   time.Time
}

// DefaultDOCXStyle is Arial 11pt with a single-line border on every page.
func DefaultDOCXStyle() DOCXStyle {
	return DOCXStyle{
		Font:       "Arial",
		Size:       22,
		BorderSize: 6,
		Modified:   time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// DOCXExporter writes a flowing Word document. The word processor paginates,
// so the exporter only decides paragraphs and their alignment.
type DOCXExporter struct {
	Classifier document.Classifier
	Style      DOCXStyle
}

// NewDOCXExporter returns a DOCX exporter with the default style.
func NewDOCXExporter(classifier document.Classifier) *DOCXExporter {
	return &DOCXExporter{Classifier: classifier, Style: DefaultDOCXStyle()}
}

func (e *DOCXExporter) Format() Format { return FormatDOCX }

// paragraph is one w:p element. Block is -1 for spacers.
type paragraph struct {
	Block int
	Text  string
	Align string
}

// paragraphs lays out blocks: a justified paragraph per body block, a
// left-aligned paragraph per header or footer line, and an empty spacer
// between adjacent blocks.
func (e *DOCXExporter) paragraphs(blocks []document.Block) []paragraph {
	var out []paragraph
	for i, b := range blocks {
		if b.IsBody() {
			out = append(out, paragraph{Block: b.Index, Text: document.Unwrap(b.Text), Align: "both"})
		} else {
			for _, line := range document.Lines(b.Text) {
				out = append(out, paragraph{Block: b.Index, Text: line, Align: "left"})
			}
		}
		if i < len(blocks)-1 {
			out = append(out, paragraph{Block: -1})
		}
	}
	return out
}

// Export implements Exporter.
func (e *DOCXExporter) Export(text string) (*Document, error) {
	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", e.stylesXML()},
		{"word/document.xml", e.documentXML(e.paragraphs(e.Classifier.Blocks(text)))},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     part.name,
			Method:   zip.Deflate,
			Modified: e.Style.Modified,
		})
		if err != nil {
			return nil, &Error{Format: FormatDOCX, Message: "failed to add " + part.name, Cause: err}
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return nil, &Error{Format: FormatDOCX, Message: "failed to write " + part.name, Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &Error{Format: FormatDOCX, Message: "failed to finish package", Cause: err}
	}

	return &Document{Format: FormatDOCX, Data: buf.Bytes()}, nil
}

func (e *DOCXExporter) documentXML(paragraphs []paragraph) string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:document xmlns:w="` + wordNamespace + `"><w:body>`)
	for _, p := range paragraphs {
		if p.Block < 0 {
			sb.WriteString(`<w:p/>`)
			continue
		}
		sb.WriteString(`<w:p><w:pPr><w:jc w:val="` + p.Align + `"/></w:pPr>`)
		sb.WriteString(`<w:r><w:t xml:space="preserve">`)
		escape(&sb, p.Text)
		sb.WriteString(`</w:t></w:r></w:p>`)
	}

	border := func(side string) string {
		return `<w:` + side + ` w:val="single" w:sz="` + strconv.Itoa(e.Style.BorderSize) + `" w:space="24" w:color="auto"/>`
	}
	sb.WriteString(`<w:sectPr>`)
	sb.WriteString(`<w:pgSz w:w="11906" w:h="16838"/>`)
	sb.WriteString(`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>`)
	sb.WriteString(`<w:pgBorders w:offsetFrom="page">`)
	for _, side := range []string{"top", "left", "bottom", "right"} {
		sb.WriteString(border(side))
	}
	sb.WriteString(`</w:pgBorders></w:sectPr>`)
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

func (e *DOCXExporter) stylesXML() string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:styles xmlns:w="` + wordNamespace + `"><w:docDefaults><w:rPrDefault><w:rPr>`)
	sb.WriteString(`<w:rFonts w:ascii="`)
	escape(&sb, e.Style.Font)
	sb.WriteString(`" w:hAnsi="`)
	escape(&sb, e.Style.Font)
	sb.WriteString(`" w:cs="`)
	escape(&sb, e.Style.Font)
	sb.WriteString(`"/>`)
	size := strconv.Itoa(e.Style.Size)
	sb.WriteString(`<w:sz w:val="` + size + `"/><w:szCs w:val="` + size + `"/>`)
	sb.WriteString(`</w:rPr></w:rPrDefault>`)
	sb.WriteString(`<w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr></w:pPrDefault>`)
	sb.WriteString(`</w:docDefaults></w:styles>`)
	return sb.String()
}

func escape(sb *strings.Builder, s string) {
	// strings.Builder writes never fail
	_ = xml.EscapeText(sb, []byte(s))
}

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const packageRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`
