package models

// DocumentSummary is what the extractor learned about one PDF.
type DocumentSummary struct {
	PageCount   int      `json:"page_count" yaml:"page_count"`
	WordCount   int      `json:"word_count" yaml:"word_count"`
	ImageCount  int      `json:"image_count" yaml:"image_count"`
	FontNames   []string `json:"font_names,omitempty" yaml:"font_names,omitempty"` // deduplicated, sorted
	TextExcerpt string   `json:"excerpt" yaml:"excerpt"`
	FullText    string   `json:"-" yaml:"-"`
}

// Empty reports a document with no pages or no extractable words.
// Such documents are still analyzed; every threshold simply fails.
func (s *DocumentSummary) Empty() bool {
	return s.PageCount == 0 || s.WordCount == 0
}
