package export

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/cover-letter/internal/document"
)

// PDFLayout holds the fixed page layout constants, in points.
type PDFLayout struct {
	FontFamily   string
	FontSize     float64
	LineFactor   float64
	Margin       float64
	BorderInset  float64
	PageSize     string
	CreationDate time.Time
}

// DefaultPDFLayout is A4 portrait, Times 11pt with 1.2 line spacing, 40pt
// margins and a border drawn 20pt inside the page edge.
func DefaultPDFLayout() PDFLayout {
	return PDFLayout{
		FontFamily:   "Times",
		FontSize:     11,
		LineFactor:   1.2,
		Margin:       40,
		BorderInset:  20,
		PageSize:     "A4",
		CreationDate: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// LineHeight is the height of one text line.
func (l PDFLayout) LineHeight() float64 {
	return l.FontSize * l.LineFactor
}

// PDFExporter renders the letter on fixed-size pages. Body blocks are
// justified, header and footer blocks keep their lines and are left-aligned.
type PDFExporter struct {
	Classifier document.Classifier
	Layout     PDFLayout
}

// NewPDFExporter returns a PDF exporter with the default layout.
func NewPDFExporter(classifier document.Classifier) *PDFExporter {
	return &PDFExporter{Classifier: classifier, Layout: DefaultPDFLayout()}
}

func (e *PDFExporter) Format() Format { return FormatPDF }

// placement is where one block lands on the page.
type placement struct {
	Block document.Block
	Page  int
	Y     float64
	// Lines are the source lines: one for a body block, one per line
	// otherwise. Height is the wrapped height of all of them.
	Lines  []string
	Height float64
	Align  string
}

// pdfDoc is an fpdf document with the page decoration applied on every
// new page.
type pdfDoc struct {
	*fpdf.Fpdf
	layout    PDFLayout
	translate func(string) string
	pageW     float64
	pageH     float64
}

func (e *PDFExporter) newDoc() *pdfDoc {
	l := e.Layout
	pdf := fpdf.New("P", "pt", l.PageSize, "")
	pdf.SetAutoPageBreak(false, l.Margin)
	pdf.SetMargins(l.Margin, l.Margin, l.Margin)
	pdf.SetCellMargin(0)
	pdf.SetFont(l.FontFamily, "", l.FontSize)
	pdf.SetCreationDate(l.CreationDate)
	pdf.SetModificationDate(l.CreationDate)
	pdf.SetCatalogSort(true)

	w, h := pdf.GetPageSize()
	return &pdfDoc{
		Fpdf:      pdf,
		layout:    l,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		pageW:     w,
		pageH:     h,
	}
}

func (d *pdfDoc) addPage() {
	d.AddPage()
	inset := d.layout.BorderInset
	d.Rect(inset, inset, d.pageW-2*inset, d.pageH-2*inset, "D")
}

func (d *pdfDoc) usableWidth() float64 {
	return d.pageW - 2*d.layout.Margin
}

func (d *pdfDoc) wrappedLines(text string) int {
	return len(d.SplitLines([]byte(d.translate(text)), d.usableWidth()))
}

// plan assigns every block a page and a vertical position. A block that
// would cross the bottom margin starts a new page; blocks are separated by
// one blank line.
func (d *pdfDoc) plan(blocks []document.Block) []placement {
	lineHeight := d.layout.LineHeight()
	bottom := d.pageH - d.layout.Margin

	page, y := 1, d.layout.Margin
	placements := make([]placement, 0, len(blocks))
	for i, b := range blocks {
		p := placement{Block: b, Align: "L"}
		if b.IsBody() {
			p.Align = "J"
			p.Lines = []string{document.Unwrap(b.Text)}
		} else {
			p.Lines = document.Lines(b.Text)
		}
		for _, line := range p.Lines {
			p.Height += float64(d.wrappedLines(line)) * lineHeight
		}

		if y+p.Height > bottom {
			page++
			y = d.layout.Margin
		}
		p.Page, p.Y = page, y
		placements = append(placements, p)
		y += p.Height

		if i < len(blocks)-1 {
			y += lineHeight
			if y > bottom {
				page++
				y = d.layout.Margin
			}
		}
	}
	return placements
}

// Export implements Exporter.
func (e *PDFExporter) Export(text string) (*Document, error) {
	d := e.newDoc()
	placements := d.plan(e.Classifier.Blocks(text))

	d.addPage()
	for _, p := range placements {
		for d.PageNo() < p.Page {
			d.addPage()
		}
		d.SetXY(d.layout.Margin, p.Y)
		for _, line := range p.Lines {
			d.MultiCell(d.usableWidth(), d.layout.LineHeight(), d.translate(line), "", p.Align, false)
		}
	}

	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, &Error{Format: FormatPDF, Message: "failed to write document", Cause: err}
	}
	return &Document{Format: FormatPDF, Data: buf.Bytes(), Pages: d.PageCount()}, nil
}
