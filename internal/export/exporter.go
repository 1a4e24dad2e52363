package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	domainerrors "github.com/notetakerapp/notetaker-server/internal/errors"
)

// ErrEmptyArchive is the cause attached when every format of an "all" export failed
// and the exporter is configured to treat that as an error.
var ErrEmptyArchive = errors.New("export archive is empty")

// SkippedFormat records a format left out of an "all" archive.
type SkippedFormat struct {
	Format Format `json:"format"`
	Reason string `json:"reason"`
}

// Artifact is a finished export ready to be sent or written.
type Artifact struct {
	Filename string
	MimeType string
	Data     []byte
	Skipped  []SkippedFormat
}

// Config configures an Exporter.
type Config struct {
	DocxEnabled        bool
	FailOnEmptyArchive bool
	FontPath           string
	Logger             *slog.Logger
	Now                func() time.Time
}

// Exporter dispatches notes to the right encoder and bundles multi-format exports.
type Exporter struct {
	encoders    map[Format]Encoder
	docxEnabled bool
	failOnEmpty bool
	fontPath    string
	logger      *slog.Logger
	now         func() time.Time

	fontWarning sync.Once
}

// New creates an Exporter with the Markdown, PDF and DOCX encoders.
func New(cfg Config) *Exporter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Exporter{
		encoders: map[Format]Encoder{
			FormatMarkdown: MarkdownEncoder{},
			FormatPDF:      PDFEncoder{},
			FormatDOCX:     DOCXEncoder{},
		},
		docxEnabled: cfg.DocxEnabled,
		failOnEmpty: cfg.FailOnEmptyArchive,
		fontPath:    cfg.FontPath,
		logger:      logger,
		now:         now,
	}
}

// WithEncoder replaces the encoder for its format. It exists for tests and
// alternate renderers and must be called before the Exporter is shared.
func (e *Exporter) WithEncoder(enc Encoder) *Exporter {
	e.encoders[enc.Format()] = enc
	return e
}

// Available reports whether format can be produced right now.
func (e *Exporter) Available(f Format) bool {
	switch f {
	case FormatDOCX:
		return e.docxEnabled && DocxSupported()
	case FormatAll:
		return true
	default:
		_, ok := e.encoders[f]
		return ok
	}
}

func (e *Exporter) options(includeTranslations bool, now time.Time) Options {
	return Options{
		Now:                 now,
		IncludeTranslations: includeTranslations,
		FontPath:            e.fontPath,
	}
}

// ExportSingle renders notes in the named format. "all" is delegated to ExportAll.
// An unknown name returns ErrUnsupportedFormat, a disabled encoder returns
// ErrCapabilityUnavailable and an encoder failure returns ErrInternal.
func (e *Exporter) ExportSingle(ctx context.Context, notes []domain.Note, format string, includeTranslations bool) (*Artifact, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if f == FormatAll {
		return e.ExportAll(ctx, notes, includeTranslations)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !e.Available(f) {
		return nil, domainerrors.CapabilityUnavailable(fmt.Sprintf("%s export not available", f))
	}

	now := e.now()
	data, err := e.encode(f, notes, e.options(includeTranslations, now))
	if err != nil {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domainerrors.Internal(fmt.Sprintf("%s export failed: %v", f, err)).WithCause(err)
	}

	e.logger.Info("export completed", "format", f, "notes", len(notes), "bytes", len(data))

	return &Artifact{
		Filename: f.Filename(now),
		MimeType: f.MimeType(),
		Data:     data,
	}, nil
}

// encode runs one encoder, turning a panic into an error.
func (e *Exporter) encode(f Format, notes []domain.Note, opts Options) (data []byte, err error) {
	enc, ok := e.encoders[f]
	if !ok {
		return nil, domainerrors.UnsupportedFormat(string(f))
	}

	if f == FormatPDF {
		e.warnMissingFont(notes, opts)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s encoder panic: %v", f, r)
		}
	}()

	return enc.Encode(notes, opts)
}

// warnMissingFont logs once when translated text will go through Helvetica,
// which has no CJK glyphs.
func (e *Exporter) warnMissingFont(notes []domain.Note, opts Options) {
	if opts.FontPath != "" || !opts.IncludeTranslations {
		return
	}
	for i := range notes {
		if hasTranslationBlock(&notes[i], opts) {
			e.fontWarning.Do(func() {
				e.logger.Warn("pdf export includes translations but no UTF-8 font is configured; set PDF_FONT_PATH to render CJK text")
			})
			return
		}
	}
}

// ExportAll renders every format concurrently and bundles the successes into a ZIP.
// Failed or unavailable formats are skipped and listed in Artifact.Skipped.
func (e *Exporter) ExportAll(ctx context.Context, notes []domain.Note, includeTranslations bool) (*Artifact, error) {
	now := e.now()
	opts := e.options(includeTranslations, now)

	type result struct {
		data []byte
		err  error
	}
	results := make([]result, len(bundleOrder))

	g := new(errgroup.Group)
	g.SetLimit(len(bundleOrder))

	for i, f := range bundleOrder {
		if !e.Available(f) {
			results[i].err = domainerrors.ErrCapabilityUnavailable
			continue
		}
		g.Go(func() error {
			results[i].data, results[i].err = e.encode(f, notes, opts)
			return nil
		})
	}
	// Workers record failures in their slots, so Wait has nothing to report.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		buf      bytes.Buffer
		skipped  []SkippedFormat
		included int
	)
	zw := newZipWriter(&buf)

	for i, f := range bundleOrder {
		r := results[i]
		if r.err != nil {
			reason := r.err.Error()
			if errors.Is(r.err, domainerrors.ErrCapabilityUnavailable) {
				reason = "not available"
			}
			e.logger.Warn("skipping export format", "format", f, "reason", reason)
			skipped = append(skipped, SkippedFormat{Format: f, Reason: reason})
			continue
		}
		if err := writeZipEntry(zw, f.Filename(now), r.data, now); err != nil {
			return nil, domainerrors.Internal("build export archive").WithCause(err)
		}
		included++
	}

	if err := zw.Close(); err != nil {
		return nil, domainerrors.Internal("build export archive").WithCause(err)
	}

	if included == 0 {
		e.logger.Error("export archive has no documents", "skipped", len(skipped))
		if e.failOnEmpty {
			return nil, domainerrors.Internal("no export format succeeded").WithCause(ErrEmptyArchive)
		}
	}

	e.logger.Info("export completed",
		"format", FormatAll,
		"notes", len(notes),
		"included", included,
		"skipped", len(skipped),
		"bytes", buf.Len(),
	)

	return &Artifact{
		Filename: FormatAll.Filename(now),
		MimeType: MimeZIP,
		Data:     buf.Bytes(),
		Skipped:  skipped,
	}, nil
}
