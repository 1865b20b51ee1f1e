// Package pipeline runs one submission through extract, evaluate, compose and
// render. A run holds no state beyond its own input, so a Pipeline can be
// shared between requests.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dtnitsch/magazine-feedback/models"
	"github.com/dtnitsch/magazine-feedback/pkg/analytics"
	"github.com/dtnitsch/magazine-feedback/pkg/composer"
	"github.com/dtnitsch/magazine-feedback/pkg/extractor"
	"github.com/dtnitsch/magazine-feedback/pkg/language"
	"github.com/dtnitsch/magazine-feedback/pkg/render"
	"github.com/dtnitsch/magazine-feedback/pkg/rubric"
)

const (
	emptyNote    = "No extractable text was found. The PDF may be scanned or image-only; export it with live text and try again."
	languageNote = "The text looks like %s. Cover convention checks only recognize English keywords."
)

// ErrInvalidDocument is returned when the upload is not a readable PDF.
var ErrInvalidDocument = extractor.ErrInvalidDocument

// ErrRender is returned when the feedback document cannot be serialized.
var ErrRender = errors.New("render failed")

const defaultTopKeywords = 10

// Result is a rendered run, ready to be offered for download.
type Result struct {
	Report      *models.Report
	Document    []byte
	Filename    string
	ContentType string
}

type Pipeline struct {
	logger   *slog.Logger
	renderer render.Renderer
	detector *language.Detector
	topN     int
	a        *analytics.Analytics
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithRenderer replaces the default docx renderer.
func WithRenderer(r render.Renderer) Option {
	return func(p *Pipeline) { p.renderer = r }
}

// WithLanguageDetector enables language detection of the extracted text.
func WithLanguageDetector(d *language.Detector) Option {
	return func(p *Pipeline) { p.detector = d }
}

// WithTopKeywords sets how many keywords are reported; 0 disables them.
func WithTopKeywords(n int) Option {
	return func(p *Pipeline) { p.topN = n }
}

func New(logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		logger:   logger,
		renderer: &render.DocxRenderer{},
		topN:     defaultTopKeywords,
		a:        &analytics.Analytics{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze extracts, evaluates and composes. Extraction failures stop the run
// before any evaluation happens.
func (p *Pipeline) Analyze(data []byte, mode models.ReportMode) (*models.Report, error) {
	summary, err := extractor.Extract(data, mode)
	if err != nil {
		return nil, err
	}

	verdicts := rubric.Evaluate(summary)
	report := &models.Report{
		Mode:     mode,
		Summary:  summary,
		Verdicts: verdicts,
		Sections: composer.Compose(summary, verdicts, mode.Detailed()),
	}

	if p.topN > 0 {
		report.TopKeywords = p.a.TopNWords(summary.FullText, p.topN)
	}
	if p.detector != nil {
		report.Language = p.detector.Detect(summary.FullText)
	}

	if summary.Empty() {
		p.logger.Warn("No extractable text in PDF", "pages", summary.PageCount, "mode", mode.String())
	}
	p.logger.Info("Analyzed PDF",
		"mode", mode.String(),
		"pages", summary.PageCount,
		"words", summary.WordCount,
		"images", summary.ImageCount,
		"fonts", len(summary.FontNames),
		"language", report.Language,
	)
	return report, nil
}

// Run analyzes the PDF and renders the feedback document.
func (p *Pipeline) Run(data []byte, mode models.ReportMode) (*Result, error) {
	report, err := p.Analyze(data, mode)
	if err != nil {
		return nil, err
	}

	doc, err := p.renderer.Render(report.Sections)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	return &Result{
		Report:      report,
		Document:    doc,
		Filename:    Filename(mode, p.renderer),
		ContentType: p.renderer.ContentType(),
	}, nil
}

// Filename is the mode's fixed download name with the renderer's extension.
func Filename(mode models.ReportMode, r render.Renderer) string {
	base := mode.Filename()
	return strings.TrimSuffix(base, ".docx") + r.Extension()
}

// ErrorType classifies a run error for reporting.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidDocument):
		return "invalid_document"
	case errors.Is(err, ErrRender):
		return "render_error"
	default:
		return "internal_error"
	}
}

// Notes are the notices a shell shows next to the report.
func Notes(report *models.Report) []string {
	var notes []string
	if report.Summary != nil && report.Summary.Empty() {
		notes = append(notes, emptyNote)
	}
	if !language.IsEnglish(report.Language) {
		notes = append(notes, fmt.Sprintf(languageNote, report.Language))
	}
	return notes
}
