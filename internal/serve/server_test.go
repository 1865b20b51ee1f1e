package serve

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/magazine-feedback/internal/pdftest"
	"github.com/dtnitsch/magazine-feedback/models"
	"github.com/dtnitsch/magazine-feedback/pkg/render"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func testConfig() models.ServeConfig {
	return models.ServeConfig{MaxUploadBytes: 1 << 20}
}

func newTestServer(t *testing.T, cfg models.ServeConfig) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(NewServer(cfg, logger, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func coverPDF() []byte {
	return pdftest.Build(
		pdftest.Page{Runs: []pdftest.Run{
			{Font: "Impact", Text: "VINYL masthead "},
			{Font: "Georgia", Text: "Issue 12 price 4.99 "},
		}, Images: 2},
		pdftest.TextPage("<script>alert(1)</script> liner notes "),
	)
}

func upload(t *testing.T, ts *httptest.Server, path, filename string, data []byte, mode string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if mode != "" {
		if err := mw.WriteField("mode", mode); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("pdf", filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(ts.URL+path, mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func parsePage(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse HTML: %v", err)
	}
	return doc
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, err := uuid.Parse(resp.Header.Get("X-Request-ID")); err != nil {
		t.Errorf("X-Request-ID = %q: %v", resp.Header.Get("X-Request-ID"), err)
	}
	doc := parsePage(t, resp)
	if doc.Find(`form#upload input[type=file][name=pdf]`).Length() != 1 {
		t.Error("upload form missing pdf input")
	}
	if doc.Find("#results").Length() != 0 {
		t.Error("index page shows results")
	}

	missing, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want 404", missing.StatusCode)
	}
}

func TestAnalyze_Detailed(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp := upload(t, ts, "/analyze", "cover.pdf", coverPDF(), "detailed")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	doc := parsePage(t, resp)

	if got := doc.Find("#word-count").Text(); got != "9" {
		t.Errorf("word count = %q, want 9", got)
	}
	if got := doc.Find("#image-count").Text(); got != "2" {
		t.Errorf("image count = %q, want 2", got)
	}
	if got := doc.Find("#fonts").Text(); got != "Georgia, Helvetica, Impact" {
		t.Errorf("fonts = %q", got)
	}

	detected := map[string]string{}
	doc.Find("#conventions li").Each(func(_ int, li *goquery.Selection) {
		state, _ := li.Attr("data-detected")
		detected[strings.SplitN(li.Text(), ":", 2)[0]] = state
	})
	want := map[string]string{"Masthead": "true", "Cover lines": "false", "Barcode": "false", "Price": "true", "Edition info": "true"}
	for label, state := range want {
		if detected[label] != state {
			t.Errorf("convention %s = %q, want %q", label, detected[label], state)
		}
	}

	if doc.Find("script").Length() != 0 {
		t.Error("extracted text injected a script element")
	}
	if !strings.Contains(doc.Find("#excerpt").Text(), "<script>alert(1)</script>") {
		t.Errorf("excerpt = %q, want the literal text", doc.Find("#excerpt").Text())
	}
	if doc.Find(".feedback h1").Text() != "Magazine Submission Feedback" {
		t.Errorf("feedback heading = %q", doc.Find(".feedback h1").Text())
	}

	link := doc.Find("a#download")
	if name, _ := link.Attr("download"); name != "magazine_feedback_detailed.docx" {
		t.Errorf("download name = %q", name)
	}
	href, _ := link.Attr("href")
	prefix := "data:" + render.DocxContentType + ";base64,"
	if !strings.HasPrefix(href, prefix) {
		t.Fatalf("download href = %.60q", href)
	}
	docx, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(href, prefix))
	if err != nil {
		t.Fatalf("decode download: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx))); err != nil {
		t.Errorf("download is not a docx package: %v", err)
	}
}

func TestAnalyze_BasicHidesDetail(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp := upload(t, ts, "/analyze", "cover.pdf", coverPDF(), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	doc := parsePage(t, resp)
	if doc.Find("#conventions").Length() != 0 || doc.Find("#fonts").Length() != 0 {
		t.Error("basic results show detailed sections")
	}
	if excerpt := doc.Find("#excerpt").Text(); !strings.HasPrefix(excerpt, "VINYL masthead") {
		t.Errorf("basic results excerpt = %q", excerpt)
	}
	if name, _ := doc.Find("a#download").Attr("download"); name != "magazine_feedback.docx" {
		t.Errorf("download name = %q", name)
	}
}

func TestAnalyze_EmptyDocumentNote(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp := upload(t, ts, "/analyze", "blank.pdf", pdftest.Build(), "detailed")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	doc := parsePage(t, resp)
	if !strings.Contains(doc.Find(".note").Text(), "No extractable text") {
		t.Error("empty document note missing")
	}
	if doc.Find("#word-count").Text() != "0" {
		t.Errorf("word count = %q", doc.Find("#word-count").Text())
	}
}

func TestFeedback_Download(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp := upload(t, ts, "/feedback", "cover.pdf", coverPDF(), "detailed")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != render.DocxContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="magazine_feedback_detailed.docx"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zip.NewReader(bytes.NewReader(body), int64(len(body))); err != nil {
		t.Errorf("body is not a docx package: %v", err)
	}
}

func TestRejectedUploads(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		filename string
		data     []byte
		mode     string
		want     int
	}{
		{"invalid pdf page", "/analyze", "cover.pdf", []byte("not a pdf at all"), "", http.StatusUnprocessableEntity},
		{"invalid pdf download", "/feedback", "cover.pdf", []byte("not a pdf at all"), "detailed", http.StatusUnprocessableEntity},
		{"truncated pdf", "/feedback", "cover.pdf", coverPDF()[:40], "", http.StatusUnprocessableEntity},
		{"wrong extension", "/feedback", "cover.docx", coverPDF(), "", http.StatusBadRequest},
		{"missing file", "/feedback", "", nil, "", http.StatusBadRequest},
		{"unknown mode", "/feedback", "cover.pdf", coverPDF(), "deluxe", http.StatusBadRequest},
	}

	ts := newTestServer(t, testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := upload(t, ts, tt.path, tt.filename, tt.data, tt.mode)
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if resp.Header.Get("Content-Disposition") != "" {
				t.Error("rejected upload offered a download")
			}
		})
	}

	resp := upload(t, ts, "/analyze", "cover.pdf", []byte("not a pdf at all"), "")
	if !strings.Contains(parsePage(t, resp).Find(".error").Text(), "could not be read as a PDF") {
		t.Error("invalid document message missing from results page")
	}
}

func TestUploadTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadBytes = 1024
	ts := newTestServer(t, cfg)

	resp := upload(t, ts, "/feedback", "big.pdf", bytes.Repeat([]byte("%"), 4096), "")
	if resp.StatusCode == http.StatusOK {
		t.Fatal("oversized upload accepted")
	}
	if resp.Header.Get("Content-Disposition") != "" {
		t.Error("oversized upload offered a download")
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RatePerSecond = 0.001
	cfg.Burst = 1
	ts := newTestServer(t, cfg)

	first := upload(t, ts, "/feedback", "cover.pdf", coverPDF(), "")
	if first.StatusCode != http.StatusOK {
		t.Fatalf("first upload status = %d", first.StatusCode)
	}
	second := upload(t, ts, "/feedback", "cover.pdf", coverPDF(), "")
	if second.StatusCode != http.StatusTooManyRequests {
		t.Errorf("second upload status = %d, want 429", second.StatusCode)
	}

	health, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d while rate limited", health.StatusCode)
	}
}

func TestConfigFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    models.ServeConfig
		wantErr bool
	}{
		{
			name: "defaults",
			want: models.ServeConfig{Addr: ":8080", MaxUploadBytes: 50 << 20, RatePerSecond: 2, Burst: 5, DetectLanguage: true},
		},
		{
			name: "custom",
			args: []string{"--addr", "127.0.0.1:9000", "--max-upload-mb", "5", "--rate", "0", "--burst", "1", "--no-language"},
			want: models.ServeConfig{Addr: "127.0.0.1:9000", MaxUploadBytes: 5 << 20, Burst: 1},
		},
		{name: "zero upload size", args: []string{"--max-upload-mb", "0"}, wantErr: true},
		{name: "negative rate", args: []string{"--rate", "-1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.ServeConfig
			app := &cli.App{
				Flags: Flags(),
				Action: func(c *cli.Context) error {
					var err error
					got, err = ConfigFromFlags(c)
					return err
				},
			}
			err := app.Run(append([]string{"magfeedback"}, tt.args...))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got.ReadTimeout = 0
			if got != tt.want {
				t.Errorf("config = %+v, want %+v", got, tt.want)
			}
		})
	}
}
