// Package export renders note collections as Markdown, PDF and DOCX documents
// and bundles them into a ZIP archive.
//
// Encoders are stateless and safe for concurrent use. They never mutate the
// notes they are given.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	domainerrors "github.com/notetakerapp/notetaker-server/internal/errors"
)

// Format identifies an export format.
type Format string

// Supported formats. FormatAll bundles every single-document format into a ZIP.
const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatAll      Format = "all"
)

// MIME types for the produced artifacts.
const (
	MimeMarkdown = "text/markdown"
	MimePDF      = "application/pdf"
	MimeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeZIP      = "application/zip"
)

// Timestamp layouts shared by every encoder.
const (
	headerTimeLayout   = "2006-01-02 15:04:05"
	noteTimeLayout     = "2006-01-02T15:04:05"
	filenameTimeLayout = "20060102_150405"
)

// bundleOrder is the fixed order of entries in an "all" archive.
var bundleOrder = []Format{FormatMarkdown, FormatPDF, FormatDOCX}

// ParseFormat matches s case-insensitively against the known formats.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatMarkdown, FormatPDF, FormatDOCX, FormatAll:
		return f, nil
	default:
		return "", domainerrors.UnsupportedFormat(s)
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatPDF:
		return ".pdf"
	case FormatDOCX:
		return ".docx"
	case FormatAll:
		return ".zip"
	default:
		return ""
	}
}

// MimeType returns the Content-Type for the format.
func (f Format) MimeType() string {
	switch f {
	case FormatMarkdown:
		return MimeMarkdown
	case FormatPDF:
		return MimePDF
	case FormatDOCX:
		return MimeDOCX
	case FormatAll:
		return MimeZIP
	default:
		return "application/octet-stream"
	}
}

// Filename returns notes_export_{timestamp}{ext}.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("notes_export_%s%s", now.Format(filenameTimeLayout), f.Extension())
}

// Options controls a single encode.
type Options struct {
	// Now is the export timestamp printed in headers and filenames.
	Now time.Time

	// IncludeTranslations adds the Chinese translation block to notes that have one.
	IncludeTranslations bool

	// FontPath names a TTF font registered for PDF output so CJK text renders.
	// Empty uses the built-in Helvetica, which cannot draw CJK glyphs.
	FontPath string

	// DisableCompression leaves PDF content streams uncompressed.
	DisableCompression bool
}

// Encoder renders notes into one document format.
type Encoder interface {
	// Encode renders notes in order. The slice is read-only.
	Encode(notes []domain.Note, opts Options) ([]byte, error)

	// Format returns the format this encoder produces.
	Format() Format
}

// noteTitle falls back to "Untitled" for blank titles.
func noteTitle(n *domain.Note) string {
	if strings.TrimSpace(n.Title) == "" {
		return "Untitled"
	}
	return n.Title
}

// hasTranslationBlock reports whether a translation section should be rendered.
// A failed translation holds placeholder text, not a translation.
func hasTranslationBlock(n *domain.Note, opts Options) bool {
	if !opts.IncludeTranslations || n.TranslationStatus == domain.TranslationFailed {
		return false
	}
	return n.TitleZH != "" || n.ContentZH != ""
}

// metaParts returns the "Created: x", "Updated: y", "Tags: a, b" fragments that apply to n.
func metaParts(n *domain.Note, createdLabel, updatedLabel string) []string {
	var parts []string
	if !n.CreatedAt.IsZero() {
		parts = append(parts, createdLabel+n.CreatedAt.Format(noteTimeLayout))
	}
	if !n.UpdatedAt.IsZero() {
		parts = append(parts, updatedLabel+n.UpdatedAt.Format(noteTimeLayout))
	}
	if len(n.AutoTags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(n.AutoTags, ", "))
	}
	return parts
}

func exportInfo(now time.Time, count int) string {
	return fmt.Sprintf("Exported on %s | Total Notes: %d", now.Format(headerTimeLayout), count)
}
