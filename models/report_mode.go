package models

import (
	"fmt"
	"strings"
)

// ReportMode selects how much of the document is analyzed and reported.
type ReportMode int

const (
	// ReportModeBasic reports counts and the image/word verdicts only.
	ReportModeBasic    ReportMode = iota
	ReportModeDetailed            // Adds pages, fonts, cover conventions and the excerpt
)

const (
	basicExcerptLimit    = 500
	detailedExcerptLimit = 1000
)

// ExcerptLimit is the number of runes kept from the start of the extracted text.
func (m ReportMode) ExcerptLimit() int {
	if m == ReportModeDetailed {
		return detailedExcerptLimit
	}
	return basicExcerptLimit
}

// Detailed reports whether the mode emits the extended sections.
func (m ReportMode) Detailed() bool {
	return m == ReportModeDetailed
}

// Filename is the fixed download name of the rendered feedback document.
func (m ReportMode) Filename() string {
	if m == ReportModeDetailed {
		return "magazine_feedback_detailed.docx"
	}
	return "magazine_feedback.docx"
}

func (m ReportMode) String() string {
	if m == ReportModeDetailed {
		return "detailed"
	}
	return "basic"
}

// MarshalText lets the mode appear by name in YAML and JSON output.
func (m ReportMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseReportMode resolves a mode name from user input.
func ParseReportMode(s string) (ReportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "basic":
		return ReportModeBasic, nil
	case "detailed", "full":
		return ReportModeDetailed, nil
	default:
		return ReportModeBasic, fmt.Errorf("unknown report mode: %s", s)
	}
}
