// Package language guesses the language of extracted magazine text. The
// cover convention patterns are English, so shells flag other languages.
package language

import (
	"strings"

	"github.com/dtnitsch/magazine-feedback/pkg/analytics"
	"github.com/pemistahl/lingua-go"
)

const (
	// minWords is the shortest text worth classifying.
	minWords = 5
	// sampleRunes bounds how much text is handed to the detector.
	sampleRunes = 2000
)

var supported = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
}

// Detector is safe for concurrent use once built.
type Detector struct {
	detector lingua.LanguageDetector
}

func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(supported...).
			Build(),
	}
}

// Detect returns the language name ("English"), or "" when the text is too
// short or no language is a clear match.
func (d *Detector) Detect(text string) string {
	if analytics.CountWords(text) < minWords {
		return ""
	}
	sample, _ := analytics.Prefix(text, sampleRunes)
	if lang, ok := d.detector.DetectLanguageOf(sample); ok {
		return lang.String()
	}
	return ""
}

// IsEnglish reports whether a detected name is English. Unknown counts as
// English so that short documents are not flagged.
func IsEnglish(name string) bool {
	return name == "" || strings.EqualFold(name, lingua.English.String())
}
