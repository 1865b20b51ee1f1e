package help

const QuickstartYAML = `# magfeedback Quick Start

report_modes:
  basic: "Word and image counts with threshold feedback (default)"
  detailed: "Adds page count, fonts, house style, cover conventions and an excerpt"

thresholds:
  images: "at least 4 images"
  words: "between 250 and 350 words"
  fonts: "at least 2 distinct font families (detailed only)"

commands:
  basic_report: |
    magfeedback analyze cover.pdf

  detailed_report: |
    magfeedback analyze --detailed cover.pdf

  custom_output: |
    magfeedback analyze --detailed --output feedback/issue-3.docx cover.pdf

  yaml_summary: |
    magfeedback analyze --format yaml cover.pdf

  terminal_preview: |
    magfeedback analyze --detailed --preview cover.pdf

  upload_server: |
    magfeedback serve --addr :8080 --max-upload-mb 20

output_files:
  - "magazine_feedback.docx (basic mode)"
  - "magazine_feedback_detailed.docx (detailed mode)"

cover_conventions:
  masthead: "the word 'masthead'"
  cover_lines: "'cover line', 'headline' or 'subheading'"
  barcode: "the word 'barcode'"
  price: "a currency symbol or a price like 3.50"
  edition_info: "January, February, Spring, Issue or Edition"

notes:
  - "Conventions are matched in the text excerpt only, so check layout visually"
  - "Detection patterns are English; non-English text is flagged in the summary"
  - "A PDF with no extractable text still produces a full feedback document"

error_behavior:
  - "Unreadable or non-PDF input: error, no document written"
  - "Exit codes: 0=success, 1=failure"
`
