// Package models defines the data structures shared by the analysis pipeline
// and the shells that drive it.
package models

import "time"

// AnalyzeConfig holds runtime configuration for a single `analyze` run.
// All values come from CLI flags, not external config files.
type AnalyzeConfig struct {
	InputPath      string
	OutputPath     string
	Mode           ReportMode
	Format         string // text, yaml or json
	ReportFormat   string // docx, md or html
	TopKeywords    int
	Preview        bool
	PreviewStyle   string // glamour style name, "auto" by default
	DetectLanguage bool
}

// ServeConfig holds runtime configuration for the HTTP upload shell.
type ServeConfig struct {
	Addr           string
	MaxUploadBytes int64
	RatePerSecond  float64
	Burst          int
	DetectLanguage bool
	ReadTimeout    time.Duration
}
