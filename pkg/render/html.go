package render

import (
	"bytes"
	"fmt"

	"github.com/dtnitsch/magazine-feedback/models"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// HTMLRenderer converts the Markdown form of the sections with goldmark and
// sanitizes the result, producing an embeddable HTML fragment.
type HTMLRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md:     goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
		policy: bluemonday.UGCPolicy(),
	}
}

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }
func (r *HTMLRenderer) Extension() string   { return ".html" }

func (r *HTMLRenderer) Render(sections []models.Section) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(Markdown(sections)), &buf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}
	return r.policy.SanitizeBytes(buf.Bytes()), nil
}
