// Package composer builds the ordered feedback sections for a submission from
// its summary and rubric verdicts. The same sequence feeds every renderer.
package composer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dtnitsch/magazine-feedback/models"
	"github.com/dtnitsch/magazine-feedback/pkg/analytics"
	"github.com/dtnitsch/magazine-feedback/pkg/rubric"
)

// DisplayExcerptLimit caps the excerpt shown in the detailed report.
const DisplayExcerptLimit = 800

const (
	Title             = "Magazine Submission Feedback"
	HouseStyleHeading = "House Style & Typography"
	ConventionHeading = "Cover Convention Check"
	ExcerptHeading    = "Excerpt"
)

// Feedback text. The verdict pairs are positive first, warning second.
var (
	imagesOK   = fmt.Sprintf("Good job! Your magazine contains the required minimum of %d original images.", rubric.MinImages)
	imagesWarn = fmt.Sprintf("Warning: Your magazine should contain at least %d original images as per the OCR NEA criteria.", rubric.MinImages)

	wordsOK   = "The word count is within the expected range (around 300 words)."
	wordsWarn = "Note: The double-page spread should contain approximately 300 words. Consider adjusting the length."

	houseStyleGuidance = "Ensure the magazine has consistent use of color, typography, and layout for a strong house style."
	coverGuidance      = "Check the cover conventions such as masthead, cover lines, barcode, price, and edition details."

	fontsOK       = "Multiple font styles detected. This supports a varied and effective house style."
	singleFontMsg = fmt.Sprintf("Only one font style detected. Consider using at least %d consistent fonts for contrast and hierarchy.", rubric.MinFonts)

	noExcerptMsg = "No text could be extracted from this PDF."
)

// Compose returns the feedback sections in reading order. The basic skeleton
// is always present; detailed adds typography, conventions and the excerpt.
func Compose(summary *models.DocumentSummary, verdicts models.Verdicts, detailed bool) []models.Section {
	sections := []models.Section{
		models.Heading(Title, 0),
		models.Paragraph(fmt.Sprintf("Total word count in PDF: %d", summary.WordCount)),
		models.Paragraph(fmt.Sprintf("Total images detected: %d", summary.ImageCount)),
	}

	if detailed {
		sections = append(sections,
			models.Paragraph(fmt.Sprintf("Page count: %d", summary.PageCount)),
			models.Paragraph("Fonts used: "+fontList(summary.FontNames)),
		)
	}

	sections = append(sections,
		models.Blank(),
		models.Paragraph(pick(verdicts.ImageCountOK, imagesOK, imagesWarn)),
		models.Paragraph(pick(verdicts.WordCountOK, wordsOK, wordsWarn)),
		models.Paragraph(houseStyleGuidance),
		models.Paragraph(coverGuidance),
	)

	if !detailed {
		return sections
	}

	sections = append(sections,
		models.Blank(),
		models.Heading(HouseStyleHeading, 1),
		models.Paragraph(pick(verdicts.FontVarietyOK, fontsOK, singleFontMsg)),
		models.Blank(),
		models.Heading(ConventionHeading, 1),
	)
	for _, c := range models.Conventions {
		sections = append(sections, models.Paragraph(ConventionLine(c, verdicts.Conventions[c])))
	}

	sections = append(sections,
		models.Blank(),
		models.Heading(ExcerptHeading, 1),
		models.Paragraph(DisplayExcerpt(summary.TextExcerpt)),
	)
	return sections
}

// ConventionLine is the feedback sentence for one convention.
func ConventionLine(c models.Convention, detected bool) string {
	if detected {
		return c.Label() + " detected."
	}
	return c.Label() + " not clearly detected in text; check your layout visually."
}

// DisplayExcerpt caps the excerpt for display, marking a cut with "...".
func DisplayExcerpt(excerpt string) string {
	if strings.TrimSpace(excerpt) == "" {
		return noExcerptMsg
	}
	shown, truncated := analytics.Prefix(excerpt, DisplayExcerptLimit)
	if truncated {
		return shown + "..."
	}
	return shown
}

func fontList(names []string) string {
	if len(names) == 0 {
		return "none detected"
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}

func pick(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
