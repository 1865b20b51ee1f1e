package render

import (
	"regexp"
	"strings"

	"github.com/dtnitsch/magazine-feedback/models"
)

// MarkdownRenderer writes sections as CommonMark. Headings use one more '#'
// than their level; blank separator paragraphs are dropped.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }
func (r *MarkdownRenderer) Extension() string   { return ".md" }

func (r *MarkdownRenderer) Render(sections []models.Section) ([]byte, error) {
	return []byte(Markdown(sections)), nil
}

// Markdown renders the sections to a Markdown string.
func Markdown(sections []models.Section) string {
	var b strings.Builder
	for _, s := range sections {
		if s.IsBlank() {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if s.Kind == models.SectionHeading {
			level := s.Level + 1
			if level > 6 {
				level = 6
			}
			b.WriteString(strings.Repeat("#", level))
			b.WriteString(" ")
			b.WriteString(escapeMarkdown(strings.Join(strings.Fields(s.Text), " ")))
			b.WriteString("\n")
			continue
		}
		for _, line := range strings.Split(strings.ReplaceAll(s.Text, "\r\n", "\n"), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			b.WriteString(escapeMarkdown(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

var (
	markdownSpecials = strings.NewReplacer(
		`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`,
		`[`, `\[`, `]`, `\]`, `<`, `\<`, `>`, `\>`,
		`#`, `\#`, `|`, `\|`, `~`, `\~`, `!`, `\!`,
	)
	orderedListMarker = regexp.MustCompile(`^(\d+)([.)])`)
	bulletMarker      = regexp.MustCompile(`^([-+=])`)
)

// escapeMarkdown keeps extracted user text from being read as markup.
func escapeMarkdown(s string) string {
	s = markdownSpecials.Replace(s)
	s = orderedListMarker.ReplaceAllString(s, `$1\$2`)
	return bulletMarker.ReplaceAllString(s, `\$1`)
}
