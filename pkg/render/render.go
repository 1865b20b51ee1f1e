// Package render serializes feedback sections into downloadable documents.
// Every renderer preserves the section order exactly.
package render

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/magazine-feedback/models"
)

// Renderer turns an ordered section list into a file body.
type Renderer interface {
	Render(sections []models.Section) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat resolves a renderer by name: docx, markdown (md) or html.
func ForFormat(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "docx", "word":
		return &DocxRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "html":
		return NewHTMLRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
}
