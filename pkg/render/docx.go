package render

import (
	"archive/zip"
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/dtnitsch/magazine-feedback/models"
	docx "github.com/fumiama/go-docx"
)

// DocxContentType is the MIME type of a WordprocessingML document.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// maxHeadingLevel is the deepest heading style in docxtemplate/word/styles.xml.
const maxHeadingLevel = 9

// zipEpoch stamps every package entry so identical input renders to identical bytes.
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// docxTemplate replaces the library's styles and document properties. The
// theme, font table, content types and package relationships come from the
// library's default template.
//
//go:embed docxtemplate
var docxTemplate embed.FS

// DocxRenderer writes one body paragraph per section, headings mapped onto
// the Title and Heading N styles.
type DocxRenderer struct{}

func (r *DocxRenderer) ContentType() string { return DocxContentType }
func (r *DocxRenderer) Extension() string   { return ".docx" }

func (r *DocxRenderer) Render(sections []models.Section) ([]byte, error) {
	parts, err := templateParts()
	if err != nil {
		return nil, err
	}

	doc := docx.New().UseTemplate("", docx.DefaultTemplateFilesList, parts)
	for _, s := range sections {
		addParagraph(doc, s)
	}

	var raw bytes.Buffer
	if _, err := doc.WriteTo(&raw); err != nil {
		return nil, fmt.Errorf("failed to write docx package: %w", err)
	}
	return normalizePackage(raw.Bytes())
}

// StyleID is the paragraph style used for a section; empty means Normal.
func StyleID(s models.Section) string {
	if s.Kind != models.SectionHeading {
		return ""
	}
	if s.Level <= 0 {
		return "Title"
	}
	if s.Level > maxHeadingLevel {
		return fmt.Sprintf("Heading%d", maxHeadingLevel)
	}
	return fmt.Sprintf("Heading%d", s.Level)
}

// addParagraph emits one paragraph. Line breaks and tabs in the text become
// breaks and tabs inside a single run.
func addParagraph(doc *docx.Docx, s models.Section) {
	p := doc.AddParagraph()
	if style := StyleID(s); style != "" {
		p.Style(style)
	}
	if s.Text == "" {
		return
	}

	text := strings.ReplaceAll(s.Text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	run := p.AddText(text)
	for _, child := range run.Children {
		if t, ok := child.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
}

// overlayFS serves files from top, falling back to base.
type overlayFS struct {
	top, base fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	if f, err := o.top.Open(name); err == nil {
		return f, nil
	}
	return o.base.Open(name)
}

func templateParts() (fs.FS, error) {
	top, err := fs.Sub(docxTemplate, "docxtemplate")
	if err != nil {
		return nil, fmt.Errorf("failed to open docx template: %w", err)
	}
	base, err := fs.Sub(docx.TemplateXMLFS, "xml/default")
	if err != nil {
		return nil, fmt.Errorf("failed to open default docx template: %w", err)
	}
	return overlayFS{top: top, base: base}, nil
}

// normalizePackage rewrites the zip with entries in name order and a fixed
// timestamp. The library writes parts in map order.
func normalizePackage(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read docx package: %w", err)
	}
	files := append([]*zip.File(nil), zr.File...)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		if err := copyEntry(zw, f); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish docx package: %w", err)
	}
	return buf.Bytes(), nil
}

func copyEntry(zw *zip.Writer, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     f.Name,
		Method:   zip.Deflate,
		Modified: zipEpoch,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", f.Name, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Name, err)
	}
	return nil
}
