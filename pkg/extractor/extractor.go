// Package extractor turns raw PDF bytes into a models.DocumentSummary: page
// count, concatenated page text, image references and the fonts the text is
// set in.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dtnitsch/magazine-feedback/models"
	"github.com/dtnitsch/magazine-feedback/pkg/analytics"
	"github.com/ledongthuc/pdf"
)

// ErrInvalidDocument is returned when the input cannot be parsed as a PDF.
var ErrInvalidDocument = errors.New("invalid document")

// maxFormDepth bounds recursion into nested form XObjects.
const maxFormDepth = 8

// LooksLikePDF checks the "%PDF-" magic bytes. A true result does not mean
// Extract will succeed.
func LooksLikePDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// Extract reads every page in document order. Page text is appended with no
// separator. Fonts are only collected for detailed reports.
func Extract(data []byte, mode models.ReportMode) (summary *models.DocumentSummary, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidDocument)
	}

	// The pdf package panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			summary = nil
			err = fmt.Errorf("%w: %v", ErrInvalidDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	pageCount := reader.NumPage()
	var text strings.Builder
	imageCount := 0
	fonts := make(map[string]struct{})

	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrInvalidDocument, i, err)
		}
		text.WriteString(pageText)

		imageCount += countImages(page.Resources(), 0)

		if mode.Detailed() {
			collectFonts(page, fonts)
		}
	}

	fullText := text.String()
	excerpt, _ := analytics.Prefix(fullText, mode.ExcerptLimit())

	fontNames := make([]string, 0, len(fonts))
	for name := range fonts {
		fontNames = append(fontNames, name)
	}
	sort.Strings(fontNames)

	return &models.DocumentSummary{
		PageCount:   pageCount,
		WordCount:   analytics.CountWords(fullText),
		ImageCount:  imageCount,
		FontNames:   fontNames,
		TextExcerpt: excerpt,
		FullText:    fullText,
	}, nil
}

// countImages counts image XObject entries in a resource dictionary, following
// form XObjects into their own resources. Entries that point at the same image
// are each counted.
func countImages(resources pdf.Value, depth int) int {
	if depth > maxFormDepth || resources.IsNull() {
		return 0
	}
	xobjects := resources.Key("XObject")
	if xobjects.Kind() != pdf.Dict {
		return 0
	}

	count := 0
	for _, name := range xobjects.Keys() {
		xobj := xobjects.Key(name)
		switch xobj.Key("Subtype").Name() {
		case "Image":
			count++
		case "Form":
			count += countImages(xobj.Key("Resources"), depth+1)
		}
	}
	return count
}

// collectFonts records the font of every glyph the page content shows. The
// pdf package drops subset tags ("ABCDEF+Helvetica"), so subsets of one face
// count as one font.
func collectFonts(page pdf.Page, fonts map[string]struct{}) {
	for _, glyph := range page.Content().Text {
		if name := strings.TrimSpace(glyph.Font); name != "" {
			fonts[name] = struct{}{}
		}
	}
}
