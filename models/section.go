package models

// SectionKind tags a feedback section.
type SectionKind string

const (
	SectionHeading   SectionKind = "heading"
	SectionParagraph SectionKind = "paragraph"
)

// Section is one block of the feedback document, in reading order.
// Level is only meaningful for headings; level 0 is the document title.
type Section struct {
	Kind  SectionKind `json:"kind" yaml:"kind"`
	Text  string      `json:"text" yaml:"text"`
	Level int         `json:"level,omitempty" yaml:"level,omitempty"`
}

func Heading(text string, level int) Section {
	return Section{Kind: SectionHeading, Text: text, Level: level}
}

func Paragraph(text string) Section {
	return Section{Kind: SectionParagraph, Text: text}
}

// Blank is the empty paragraph used as a visual separator.
func Blank() Section {
	return Section{Kind: SectionParagraph}
}

// IsBlank reports an empty separator paragraph.
func (s Section) IsBlank() bool {
	return s.Kind == SectionParagraph && s.Text == ""
}
