package export

import (
	"bytes"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	domainerrors "github.com/notetakerapp/notetaker-server/internal/errors"
)

//go:embed templates/docx
var docxFS embed.FS

// docxStaticParts maps package part names to their embedded source files.
var docxStaticParts = []struct{ part, file string }{
	{"[Content_Types].xml", "templates/docx/content_types.xml"},
	{"_rels/.rels", "templates/docx/rels.xml"},
	{"word/_rels/document.xml.rels", "templates/docx/document_rels.xml"},
	{"word/styles.xml", "templates/docx/styles.xml"},
	{"docProps/app.xml", "templates/docx/app.xml"},
}

type docxAssets struct {
	static   map[string][]byte
	document *template.Template
	core     *template.Template
}

// loadDocxAssets reads and checks the embedded OOXML parts once.
var loadDocxAssets = sync.OnceValues(func() (*docxAssets, error) {
	assets := &docxAssets{static: make(map[string][]byte, len(docxStaticParts))}

	for _, p := range docxStaticParts {
		data, err := docxFS.ReadFile(p.file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p.file, err)
		}
		if err := checkWellFormed(data); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p.file, err)
		}
		assets.static[p.part] = data
	}

	var err error
	assets.document, err = template.New("document.xml.tmpl").
		Funcs(template.FuncMap{"runText": docxRunText}).
		ParseFS(docxFS, "templates/docx/document.xml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse document template: %w", err)
	}
	assets.core, err = template.ParseFS(docxFS, "templates/docx/core.xml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse core template: %w", err)
	}

	return assets, nil
})

// DocxSupported reports whether the DOCX encoder can run in this build.
// The result is computed once.
var DocxSupported = sync.OnceValue(func() bool {
	_, err := loadDocxAssets()
	return err == nil
})

func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		if _, err := dec.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

type docxRun struct {
	Text      string
	Bold      bool
	PageBreak bool
}

type docxParagraph struct {
	Style string
	Align string
	Runs  []docxRun
}

func docxPara(style string, runs ...docxRun) docxParagraph {
	return docxParagraph{Style: style, Runs: runs}
}

func plainRun(s string) docxRun { return docxRun{Text: s} }
func boldRun(s string) docxRun { return docxRun{Text: s, Bold: true} }

// docxRunText escapes s and turns newlines into <w:br/>.
func docxRunText(s string) string {
	var b strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		_ = xml.EscapeText(&b, []byte(line))
		b.WriteString("</w:t>")
	}
	return b.String()
}

// DOCXEncoder renders notes as a WordprocessingML package.
type DOCXEncoder struct{}

// Format implements Encoder.
func (DOCXEncoder) Format() Format { return FormatDOCX }

// Encode implements Encoder. It returns ErrCapabilityUnavailable when the
// embedded templates could not be loaded.
func (DOCXEncoder) Encode(notes []domain.Note, opts Options) ([]byte, error) {
	assets, err := loadDocxAssets()
	if err != nil {
		return nil, domainerrors.CapabilityUnavailable("DOCX export not available").WithCause(err)
	}

	var document bytes.Buffer
	if err := assets.document.Execute(&document, struct{ Paragraphs []docxParagraph }{
		Paragraphs: docxParagraphs(notes, opts),
	}); err != nil {
		return nil, fmt.Errorf("render document.xml: %w", err)
	}

	var core bytes.Buffer
	if err := assets.core.Execute(&core, struct{ Created string }{
		Created: opts.Now.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("render core.xml: %w", err)
	}

	var buf bytes.Buffer
	zw := newZipWriter(&buf)

	// docxStaticParts starts with [Content_Types].xml, which must be the first entry.
	for _, p := range docxStaticParts {
		if err := writeZipEntry(zw, p.part, assets.static[p.part], opts.Now); err != nil {
			return nil, err
		}
	}
	if err := writeZipEntry(zw, "docProps/core.xml", core.Bytes(), opts.Now); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "word/document.xml", document.Bytes(), opts.Now); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return buf.Bytes(), nil
}

func docxParagraphs(notes []domain.Note, opts Options) []docxParagraph {
	paras := []docxParagraph{
		{Style: "Title", Align: "center", Runs: []docxRun{plainRun("NoteTaker Export")}},
		{Align: "center", Runs: []docxRun{plainRun(exportInfo(opts.Now, len(notes)))}},
		{Runs: []docxRun{{PageBreak: true}}},
	}

	for i := range notes {
		n := &notes[i]
		paras = append(paras, docxPara("Heading1", plainRun(fmt.Sprintf("%d. %s", i+1, noteTitle(n)))))

		// The metadata paragraph is always present, even when empty.
		meta := docxPara("IntenseQuote")
		if parts := metaParts(n, "Created: ", "Updated: "); len(parts) > 0 {
			meta.Runs = []docxRun{plainRun(strings.Join(parts, " | "))}
		}
		paras = append(paras, meta)

		if n.Content != "" {
			paras = append(paras, docxPara("Normal", plainRun(n.Content)))
		}

		if hasTranslationBlock(n, opts) {
			paras = append(paras, docxPara("Heading2", plainRun("Chinese Translation")))
			if n.TitleZH != "" {
				paras = append(paras, docxPara("", boldRun("Title: "), plainRun(n.TitleZH)))
			}
			if n.ContentZH != "" {
				paras = append(paras, docxPara("", boldRun("Content: "), plainRun(n.ContentZH)))
			}
		}

		paras = append(paras, docxParagraph{})
	}

	return paras
}
