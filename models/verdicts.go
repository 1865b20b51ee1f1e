package models

// Convention is a print-magazine cover convention detected by keyword.
type Convention string

const (
	Masthead    Convention = "masthead"
	CoverLines  Convention = "cover_lines"
	Barcode     Convention = "barcode"
	Price       Convention = "price"
	EditionInfo Convention = "edition_info"
)

// Conventions lists every convention in reporting order.
var Conventions = []Convention{Masthead, CoverLines, Barcode, Price, EditionInfo}

var conventionLabels = map[Convention]string{
	Masthead:    "Masthead",
	CoverLines:  "Cover lines",
	Barcode:     "Barcode",
	Price:       "Price",
	EditionInfo: "Edition info",
}

// Label is the human-readable name used in feedback text.
func (c Convention) Label() string {
	if label, ok := conventionLabels[c]; ok {
		return label
	}
	return string(c)
}

// ConventionVerdict records, per convention, whether it was found in the excerpt.
type ConventionVerdict map[Convention]bool

// Verdicts is the outcome of the rubric checks for one document.
type Verdicts struct {
	ImageCountOK  bool              `json:"image_count_ok" yaml:"image_count_ok"`
	WordCountOK   bool              `json:"word_count_ok" yaml:"word_count_ok"`
	FontVarietyOK bool              `json:"font_variety_ok" yaml:"font_variety_ok"`
	Conventions   ConventionVerdict `json:"conventions" yaml:"conventions"`
}
