// Package rubric applies the fixed NEA magazine thresholds and cover
// convention heuristics to a document summary.
package rubric

import (
	"regexp"

	"github.com/dtnitsch/magazine-feedback/models"
)

const (
	// MinImages is the minimum number of original images the brief asks for.
	MinImages = 4
	// MinWords and MaxWords bound the double-page spread (around 300 words).
	MinWords = 250
	MaxWords = 350
	// MinFonts is the number of distinct faces expected for a house style.
	MinFonts = 2
)

// conventionPatterns are matched case-insensitively against the excerpt.
var conventionPatterns = map[models.Convention]*regexp.Regexp{
	models.Masthead:    regexp.MustCompile(`(?i)masthead`),
	models.CoverLines:  regexp.MustCompile(`(?i)cover line|headline|subheading`),
	models.Barcode:     regexp.MustCompile(`(?i)barcode`),
	models.Price:       regexp.MustCompile(`(?i)£|\$|\d+\.\d{2}`),
	models.EditionInfo: regexp.MustCompile(`(?i)January|February|Spring|Issue|Edition`),
}

// Evaluate runs every check. Convention detection only sees the excerpt, so a
// keyword that first appears after the excerpt cut-off is reported missing.
func Evaluate(summary *models.DocumentSummary) models.Verdicts {
	return models.Verdicts{
		ImageCountOK:  summary.ImageCount >= MinImages,
		WordCountOK:   summary.WordCount >= MinWords && summary.WordCount <= MaxWords,
		FontVarietyOK: distinct(summary.FontNames) >= MinFonts,
		Conventions:   DetectConventions(summary.TextExcerpt),
	}
}

// DetectConventions reports which cover conventions the text mentions.
func DetectConventions(text string) models.ConventionVerdict {
	verdict := make(models.ConventionVerdict, len(models.Conventions))
	for _, c := range models.Conventions {
		verdict[c] = conventionPatterns[c].MatchString(text)
	}
	return verdict
}

func distinct(names []string) int {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		seen[n] = struct{}{}
	}
	return len(seen)
}
