package models

// Report is the complete result of one analysis run, as surfaced to shells.
type Report struct {
	Mode        ReportMode       `json:"mode" yaml:"mode"`
	Summary     *DocumentSummary `json:"summary" yaml:"summary"`
	Verdicts    Verdicts         `json:"verdicts" yaml:"verdicts"`
	Language    string           `json:"language,omitempty" yaml:"language,omitempty"`
	TopKeywords []string         `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
	Sections    []Section        `json:"-" yaml:"-"`
}
