package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/notetakerapp/notetaker-server/internal/color"
	"github.com/notetakerapp/notetaker-server/internal/domain"
)

// pdfStyle describes one paragraph style. Sizes are in points.
type pdfStyle struct {
	size        float64
	bold        bool
	color       color.RGB
	align       string
	indent      float64
	spaceBefore float64
	spaceAfter  float64
}

// lineHeight is 1.2x the font size.
func (s pdfStyle) lineHeight() float64 { return s.size * 1.2 }

var pdfStyles = struct {
	title, noteTitle, meta, content pdfStyle
}{
	title:     pdfStyle{size: 18, bold: true, color: color.MustParse("#2C3E50"), align: "C", spaceAfter: 20},
	noteTitle: pdfStyle{size: 14, bold: true, color: color.MustParse("#34495E"), align: "L", spaceBefore: 15, spaceAfter: 10},
	meta:      pdfStyle{size: 9, color: color.MustParse("#7F8C8D"), align: "L", spaceAfter: 8},
	content:   pdfStyle{size: 11, color: color.MustParse("#000000"), align: "L", indent: 20, spaceAfter: 12},
}

const (
	pdfCoreFont = "Helvetica"
	pdfUTF8Font = "NoteFont"
)

// PDFEncoder renders notes as a Letter-size PDF.
type PDFEncoder struct{}

// Format implements Encoder.
func (PDFEncoder) Format() Format { return FormatPDF }

// Encode implements Encoder.
func (PDFEncoder) Encode(notes []domain.Note, opts Options) ([]byte, error) {
	doc, err := newPDFDoc(opts)
	if err != nil {
		return nil, err
	}

	doc.paragraph(pdfStyles.title, "NoteTaker Export")
	doc.paragraph(pdfStyles.meta, exportInfo(opts.Now, len(notes)))
	doc.pdf.Ln(12)

	for i := range notes {
		doc.note(i+1, &notes[i], opts)
	}

	if err := doc.pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfDoc struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
	width  float64 // printable width
	left   float64
}

// newPDFDoc sets up the document and its fonts. A font that fails to load is
// returned before any layout, since fpdf keeps going with an unusable font.
func newPDFDoc(opts Options) (*pdfDoc, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(!opts.DisableCompression)
	pdf.SetCreationDate(opts.Now)
	pdf.SetModificationDate(opts.Now)
	pdf.SetCreator("NoteTaker", false)
	pdf.SetTitle("NoteTaker Export", false)
	pdf.SetMargins(72, 72, 72)
	pdf.SetAutoPageBreak(true, 72)

	d := &pdfDoc{pdf: pdf, family: pdfCoreFont}

	if opts.FontPath != "" {
		pdf.AddUTF8Font(pdfUTF8Font, "", opts.FontPath)
		pdf.AddUTF8Font(pdfUTF8Font, "B", opts.FontPath)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load pdf font %s: %w", opts.FontPath, err)
		}
		d.family = pdfUTF8Font
		d.tr = func(s string) string { return s }
	} else {
		d.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	d.left = left
	d.width = pageW - left - right

	return d, nil
}

func (d *pdfDoc) setStyle(s pdfStyle, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont(d.family, style, s.size)
	d.pdf.SetTextColor(int(s.color.R), int(s.color.G), int(s.color.B))
}

// paragraph writes text in style s. Embedded newlines become line breaks.
func (d *pdfDoc) paragraph(s pdfStyle, text string) {
	if s.spaceBefore > 0 {
		d.pdf.Ln(s.spaceBefore)
	}
	d.setStyle(s, s.bold)
	d.pdf.SetX(d.left + s.indent)
	d.pdf.MultiCell(d.width-s.indent, s.lineHeight(), d.tr(text), "", s.align, false)
	if s.spaceAfter > 0 {
		d.pdf.Ln(s.spaceAfter)
	}
}

// labeled writes a bold label followed by regular text in the content style.
func (d *pdfDoc) labeled(label, text string) {
	s := pdfStyles.content

	d.pdf.SetLeftMargin(d.left + s.indent)
	d.pdf.SetX(d.left + s.indent)

	d.setStyle(s, true)
	d.pdf.Write(s.lineHeight(), d.tr(label))
	d.setStyle(s, false)
	d.pdf.Write(s.lineHeight(), d.tr(text))
	d.pdf.Ln(s.lineHeight())

	d.pdf.SetLeftMargin(d.left)
	d.pdf.Ln(s.spaceAfter)
}

func (d *pdfDoc) note(index int, n *domain.Note, opts Options) {
	d.paragraph(pdfStyles.noteTitle, fmt.Sprintf("%d. %s", index, noteTitle(n)))

	if meta := metaParts(n, "Created: ", "Updated: "); len(meta) > 0 {
		d.paragraph(pdfStyles.meta, strings.Join(meta, " | "))
	}

	if n.Content != "" {
		d.paragraph(pdfStyles.content, n.Content)
	}

	if hasTranslationBlock(n, opts) {
		d.pdf.Ln(8)
		heading := pdfStyles.content
		heading.bold = true
		d.paragraph(heading, "Chinese Translation:")
		if n.TitleZH != "" {
			d.labeled("Title: ", n.TitleZH)
		}
		if n.ContentZH != "" {
			d.labeled("Content: ", n.ContentZH)
		}
	}

	d.pdf.Ln(20)
}
