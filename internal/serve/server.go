// Package serve is the browser upload shell: an upload form, a results page
// and a feedback document download, all backed by the same pipeline.
package serve

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dtnitsch/magazine-feedback/internal/common"
	"github.com/dtnitsch/magazine-feedback/models"
	"github.com/dtnitsch/magazine-feedback/pkg/composer"
	"github.com/dtnitsch/magazine-feedback/pkg/extractor"
	"github.com/dtnitsch/magazine-feedback/pkg/language"
	"github.com/dtnitsch/magazine-feedback/pkg/pipeline"
	"github.com/dtnitsch/magazine-feedback/pkg/render"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	uploadField = "pdf"
	modeField   = "mode"
)

// errUpload marks problems with the request rather than the PDF.
var errUpload = errors.New("bad upload")

type ctxKey struct{}

// Server holds the pieces shared by all requests. Each request runs its own
// pipeline over its own upload.
type Server struct {
	cfg      models.ServeConfig
	logger   *slog.Logger
	limiter  *rate.Limiter
	detector *language.Detector
	html     *render.HTMLRenderer
}

// NewServer builds a Server. A nil detector disables language detection.
func NewServer(cfg models.ServeConfig, logger *slog.Logger, detector *language.Detector) *Server {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		limiter:  rate.NewLimiter(limit, burst),
		detector: detector,
		html:     render.NewHTMLRenderer(),
	}
}

// Handler routes requests. Every response carries an X-Request-ID.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /analyze", s.limited(s.handleAnalyze))
	mux.HandleFunc("POST /feedback", s.limited(s.handleFeedback))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok\n")
	})
	return s.withRequestID(mux)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		logger := s.logger.With("request_id", id)
		logger.Info("Request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, logger)))
	})
}

func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	if logger, ok := r.Context().Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return s.logger
}

// limited rejects uploads beyond the configured rate with 429.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.requestLogger(r).Warn("Upload rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "too many uploads, try again shortly", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, pageData{MaxUploadMB: s.cfg.MaxUploadBytes >> 20})
}

// handleAnalyze renders the results page with an inline download link.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	result, status, err := s.process(w, r)
	if err != nil {
		s.page(w, r, status, pageData{MaxUploadMB: s.cfg.MaxUploadBytes >> 20, Error: userMessage(err)})
		return
	}

	fragment, err := s.html.Render(result.Report.Sections)
	if err != nil {
		s.requestLogger(r).Error("HTML render failed", "error", err)
		http.Error(w, "failed to render feedback", http.StatusInternalServerError)
		return
	}

	s.page(w, r, http.StatusOK, pageData{
		MaxUploadMB: s.cfg.MaxUploadBytes >> 20,
		Result:      newResultView(result, fragment),
	})
}

// handleFeedback answers with the feedback document itself.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	result, status, err := s.process(w, r)
	if err != nil {
		http.Error(w, userMessage(err), status)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Document)))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Document)
}

// process reads the upload and runs the pipeline. The returned status is
// meaningful only when err is non-nil.
func (s *Server) process(w http.ResponseWriter, r *http.Request) (*pipeline.Result, int, error) {
	logger := s.requestLogger(r)

	data, filename, mode, err := s.readUpload(w, r)
	if err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		logger.Warn("Rejected upload", "status", status, "error", err)
		return nil, status, err
	}
	logger.Info("Upload received",
		"filename", filename,
		"bytes", len(data),
		"sha256", common.ShortHash(data),
		"mode", mode.String(),
	)

	if !extractor.LooksLikePDF(data) {
		err := fmt.Errorf("%s: %w: missing %%PDF- header", filename, pipeline.ErrInvalidDocument)
		logger.Warn("Rejected upload", "status", http.StatusUnprocessableEntity, "error", err)
		return nil, http.StatusUnprocessableEntity, err
	}

	var opts []pipeline.Option
	if s.detector != nil {
		opts = append(opts, pipeline.WithLanguageDetector(s.detector))
	}
	result, err := pipeline.New(logger, opts...).Run(data, mode)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrInvalidDocument) {
			status = http.StatusUnprocessableEntity
		}
		logger.Error("Analysis failed", "error_type", pipeline.ErrorType(err), "error", err)
		return nil, status, err
	}
	return result, http.StatusOK, nil
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, models.ReportMode, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		return nil, "", 0, fmt.Errorf("%w: %w", errUpload, err)
	}

	mode, err := models.ParseReportMode(r.FormValue(modeField))
	if err != nil {
		return nil, "", 0, fmt.Errorf("%w: %w", errUpload, err)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, "", 0, fmt.Errorf("%w: missing %q file field", errUpload, uploadField)
	}
	defer file.Close()

	if !common.HasPDFExtension(header.Filename) {
		return nil, "", 0, fmt.Errorf("%w: %s is not a .pdf file", errUpload, header.Filename)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", 0, fmt.Errorf("%w: %w", errUpload, err)
	}
	return data, header.Filename, mode, nil
}

// userMessage is the error text shown to the uploader.
func userMessage(err error) string {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return fmt.Sprintf("The file is larger than the %d MB upload limit.", maxErr.Limit>>20)
	case errors.Is(err, pipeline.ErrInvalidDocument):
		return "That file could not be read as a PDF. Export your magazine as a PDF and upload it again."
	case errors.Is(err, errUpload):
		return "Upload a magazine PDF (.pdf) to get feedback. " + err.Error()
	default:
		return "Something went wrong while analyzing the PDF."
	}
}

type conventionView struct {
	Label    string
	Detected bool
}

type resultView struct {
	Mode        string
	Detailed    bool
	WordCount   int
	ImageCount  int
	PageCount   int
	Fonts       string
	Conventions []conventionView
	Excerpt     string
	Language    string
	TopKeywords []string
	Notes       []string
	Feedback    template.HTML
	Filename    string
	DownloadURL template.URL
}

func newResultView(result *pipeline.Result, fragment []byte) *resultView {
	report := result.Report
	sum := report.Summary

	v := &resultView{
		Mode:        report.Mode.String(),
		Detailed:    report.Mode.Detailed(),
		WordCount:   sum.WordCount,
		ImageCount:  sum.ImageCount,
		PageCount:   sum.PageCount,
		Fonts:       "none detected",
		Excerpt:     composer.DisplayExcerpt(sum.TextExcerpt),
		Language:    report.Language,
		TopKeywords: report.TopKeywords,
		Notes:       pipeline.Notes(report),
		// fragment is goldmark output passed through bluemonday.
		Feedback: template.HTML(fragment),
		Filename: result.Filename,
		DownloadURL: template.URL("data:" + result.ContentType + ";base64," +
			base64.StdEncoding.EncodeToString(result.Document)),
	}
	if len(sum.FontNames) > 0 {
		v.Fonts = strings.Join(sum.FontNames, ", ")
	}
	for _, c := range models.Conventions {
		v.Conventions = append(v.Conventions, conventionView{Label: c.Label(), Detected: report.Verdicts.Conventions[c]})
	}
	return v
}

func (s *Server) page(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.requestLogger(r).Error("Template execution failed", "error", err)
	}
}
