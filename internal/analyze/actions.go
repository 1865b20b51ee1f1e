package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dtnitsch/magazine-feedback/internal/common"
	"github.com/dtnitsch/magazine-feedback/models"
	"github.com/dtnitsch/magazine-feedback/pkg/composer"
	"github.com/dtnitsch/magazine-feedback/pkg/extractor"
	"github.com/dtnitsch/magazine-feedback/pkg/language"
	"github.com/dtnitsch/magazine-feedback/pkg/pipeline"
	"github.com/dtnitsch/magazine-feedback/pkg/render"
	"github.com/dtnitsch/magazine-feedback/pkg/storage"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// maxInputBytes bounds the PDF read from disk.
const maxInputBytes = 200 << 20

// Flags are the analyze command's flags.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "detailed",
			Aliases: []string{"d"},
			Usage:   "Detailed report: pages, fonts, house style, cover conventions and excerpt",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Feedback document path (default: magazine_feedback[_detailed].docx)",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: "text",
			Usage: "Summary printed to stdout: text, yaml or json",
		},
		&cli.StringFlag{
			Name:  "report-format",
			Value: "docx",
			Usage: "Feedback document format: docx, md or html",
		},
		&cli.IntFlag{
			Name:  "keywords",
			Value: 10,
			Usage: "Number of top keywords to report (0 disables)",
		},
		&cli.BoolFlag{
			Name:  "preview",
			Usage: "Print the feedback document as styled terminal text",
		},
		&cli.StringFlag{
			Name:  "preview-style",
			Value: "auto",
			Usage: "Preview style: auto, dark, light, notty or ascii",
		},
		&cli.BoolFlag{
			Name:  "no-language",
			Usage: "Skip language detection",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log errors",
		},
	}
}

// AnalyzeAction analyzes one PDF and writes the feedback document.
func AnalyzeAction(c *cli.Context) error {
	logger := common.NewLogger(os.Stderr, c.Bool("quiet"))

	cfg, err := ConfigFromFlags(c)
	if err != nil {
		return err
	}
	return Run(cfg, logger, os.Stdout)
}

// ConfigFromFlags collects the analyze flags into a config.
func ConfigFromFlags(c *cli.Context) (models.AnalyzeConfig, error) {
	if c.NArg() != 1 {
		return models.AnalyzeConfig{}, fmt.Errorf("expected exactly one PDF path, got %d arguments", c.NArg())
	}

	mode := models.ReportModeBasic
	if c.Bool("detailed") {
		mode = models.ReportModeDetailed
	}

	format := strings.ToLower(c.String("format"))
	switch format {
	case "", "text":
		format = "text"
	case "yaml", "json":
	default:
		return models.AnalyzeConfig{}, fmt.Errorf("invalid format %q (use text, yaml or json)", c.String("format"))
	}

	reportFormat := strings.ToLower(c.String("report-format"))
	if _, err := render.ForFormat(reportFormat); err != nil {
		return models.AnalyzeConfig{}, fmt.Errorf("invalid report format: %w", err)
	}
	if c.Int("keywords") < 0 {
		return models.AnalyzeConfig{}, fmt.Errorf("--keywords must not be negative, got %d", c.Int("keywords"))
	}

	return models.AnalyzeConfig{
		InputPath:      c.Args().First(),
		OutputPath:     c.String("output"),
		Mode:           mode,
		Format:         format,
		ReportFormat:   reportFormat,
		TopKeywords:    c.Int("keywords"),
		Preview:        c.Bool("preview"),
		PreviewStyle:   c.String("preview-style"),
		DetectLanguage: !c.Bool("no-language"),
	}, nil
}

// Run executes one analysis and prints the outcome to w.
func Run(cfg models.AnalyzeConfig, logger *slog.Logger, w io.Writer) error {
	s := &storage.Storage{}

	data, err := s.ReadFile(cfg.InputPath, maxInputBytes)
	if err != nil {
		return fmt.Errorf("failed to read PDF: %w", err)
	}
	logger.Info("Analyzing PDF",
		"path", cfg.InputPath,
		"bytes", len(data),
		"sha256", common.ShortHash(data),
		"mode", cfg.Mode.String(),
	)

	if !extractor.LooksLikePDF(data) {
		logger.Error("Not a PDF", "path", cfg.InputPath, "error_type", "invalid_document")
		return fmt.Errorf("failed to analyze %s: %w: missing %%PDF- header", cfg.InputPath, pipeline.ErrInvalidDocument)
	}

	renderer, err := render.ForFormat(cfg.ReportFormat)
	if err != nil {
		return err
	}
	opts := []pipeline.Option{
		pipeline.WithRenderer(renderer),
		pipeline.WithTopKeywords(cfg.TopKeywords),
	}
	if cfg.DetectLanguage {
		opts = append(opts, pipeline.WithLanguageDetector(language.NewDetector()))
	}

	result, err := pipeline.New(logger, opts...).Run(data, cfg.Mode)
	if err != nil {
		logger.Error("Analysis failed", "path", cfg.InputPath, "error_type", pipeline.ErrorType(err), "error", err)
		return fmt.Errorf("failed to analyze %s: %w", cfg.InputPath, err)
	}

	outPath := cfg.OutputPath
	if outPath == "" {
		outPath = result.Filename
	}
	if s.HasFile(outPath) {
		logger.Warn("Overwriting existing feedback document", "path", outPath)
	}
	if err := s.SaveFile(outPath, result.Document); err != nil {
		return fmt.Errorf("failed to save feedback document: %w", err)
	}
	logger.Info("Feedback document saved", "path", outPath, "bytes", len(result.Document))

	out := newOutput(result.Report, outPath)
	if err := writeOutput(w, out, cfg.Format); err != nil {
		return err
	}

	if cfg.Preview {
		preview, err := renderPreview(result.Report.Sections, cfg.PreviewStyle)
		if err != nil {
			logger.Warn("Preview unavailable", "error", err)
			return nil
		}
		fmt.Fprint(w, preview)
	}
	return nil
}

// output is what the analyze command prints.
type output struct {
	OutputFile string         `json:"output_file" yaml:"output_file"`
	Report     *models.Report `json:"report" yaml:"report"`
	Notes      []string       `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func newOutput(report *models.Report, outPath string) output {
	return output{
		OutputFile: outPath,
		Report:     report,
		Notes:      pipeline.Notes(report),
	}
}

func writeOutput(w io.Writer, out output, format string) error {
	switch format {
	case "yaml":
		yamlBytes, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = w.Write(yamlBytes)
		return err
	case "json":
		jsonBytes, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonBytes))
		return err
	default:
		_, err := io.WriteString(w, textSummary(out))
		return err
	}
}

// textSummary mirrors the results panel of the upload page.
func textSummary(out output) string {
	r := out.Report
	sum := r.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "Feedback saved to: %s\n", filepath.Clean(out.OutputFile))
	fmt.Fprintf(&b, "Mode:   %s\n", r.Mode)
	fmt.Fprintf(&b, "Words:  %d (%s)\n", sum.WordCount, status(r.Verdicts.WordCountOK))
	fmt.Fprintf(&b, "Images: %d (%s)\n", sum.ImageCount, status(r.Verdicts.ImageCountOK))

	if r.Mode.Detailed() {
		fmt.Fprintf(&b, "Pages:  %d\n", sum.PageCount)
		fonts := "none detected"
		if len(sum.FontNames) > 0 {
			fonts = strings.Join(sum.FontNames, ", ")
		}
		fmt.Fprintf(&b, "Fonts:  %s (%s)\n", fonts, status(r.Verdicts.FontVarietyOK))
		b.WriteString("Cover conventions:\n")
		for _, c := range models.Conventions {
			mark := "-"
			if r.Verdicts.Conventions[c] {
				mark = "x"
			}
			fmt.Fprintf(&b, "  [%s] %s\n", mark, c.Label())
		}
	}

	fmt.Fprintf(&b, "Excerpt: %s\n", composer.DisplayExcerpt(sum.TextExcerpt))

	if r.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", r.Language)
	}
	if len(r.TopKeywords) > 0 {
		fmt.Fprintf(&b, "Top keywords: %s\n", strings.Join(r.TopKeywords, ", "))
	}
	for _, note := range out.Notes {
		fmt.Fprintf(&b, "Note: %s\n", note)
	}
	return b.String()
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "needs work"
}

// renderPreview renders the Markdown form of the report for a terminal. An
// empty style picks dark or light from the terminal background.
func renderPreview(sections []models.Section, style string) (string, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create preview renderer: %w", err)
	}
	out, err := r.Render(render.Markdown(sections))
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return out, nil
}
