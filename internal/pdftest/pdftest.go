// Package pdftest writes small, valid PDF files for tests: text runs in named
// Type1 fonts and image XObject references, laid out one object per feature so
// the extractor sees the same structures a real export produces.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Run is a piece of text shown in one font. Font is the PDF BaseFont name.
type Run struct {
	Font string
	Text string
}

// Page describes one fixture page.
type Page struct {
	Runs []Run
	// Images is the number of image XObject entries in the page resources.
	// All entries point at one shared image object.
	Images int
}

// TextPage is a page showing text in Helvetica.
func TextPage(text string) Page {
	return Page{Runs: []Run{{Font: "Helvetica", Text: text}}}
}

// Build encodes the pages as a PDF 1.4 file with a classic xref table.
func Build(pages ...Page) []byte {
	var fonts []string
	fontIndex := map[string]int{}
	for _, p := range pages {
		for _, r := range p.Runs {
			if _, ok := fontIndex[r.Font]; !ok {
				fontIndex[r.Font] = len(fonts)
				fonts = append(fonts, r.Font)
			}
		}
	}

	const (
		catalogNum = 1
		pagesNum   = 2
		imageNum   = 3
		firstFont  = 4
	)
	firstPage := firstFont + len(fonts)
	pageNum := func(i int) int { return firstPage + 2*i }
	contentNum := func(i int) int { return firstPage + 2*i + 1 }
	size := firstPage + 2*len(pages)

	objects := make([]string, size)
	objects[catalogNum] = "<< /Type /Catalog /Pages 2 0 R >>"

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageNum(i))
	}
	objects[pagesNum] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))
	objects[imageNum] = stream("/Type /XObject /Subtype /Image /Width 1 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8", "\xff")

	for i, name := range fonts {
		objects[firstFont+i] = fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", name)
	}

	for i, p := range pages {
		var fontRes, imageRes, content strings.Builder
		seen := map[string]bool{}
		y := 720
		for _, r := range p.Runs {
			idx := fontIndex[r.Font]
			if !seen[r.Font] {
				seen[r.Font] = true
				fmt.Fprintf(&fontRes, " /F%d %d 0 R", idx+1, firstFont+idx)
			}
			fmt.Fprintf(&content, "BT /F%d 12 Tf 72 %d Td (%s) Tj ET\n", idx+1, y, escapeText(r.Text))
			y -= 16
		}
		for n := 0; n < p.Images; n++ {
			fmt.Fprintf(&imageRes, " /Im%d %d 0 R", n+1, imageNum)
		}

		resources := "<<"
		if fontRes.Len() > 0 {
			resources += " /Font <<" + fontRes.String() + " >>"
		}
		if imageRes.Len() > 0 {
			resources += " /XObject <<" + imageRes.String() + " >>"
		}
		resources += " >>"

		objects[pageNum(i)] = fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources %s /Contents %d 0 R >>", resources, contentNum(i))
		objects[contentNum(i)] = stream("", content.String())
	}

	return assemble(objects)
}

func stream(dict, data string) string {
	if dict != "" {
		dict += " "
	}
	return fmt.Sprintf("<< %s/Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

func assemble(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(objects))
	for num := 1; num < len(objects); num++ {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, objects[num])
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects))
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num < len(objects); num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects), xref)
	return buf.Bytes()
}

// escapeText writes a PDF literal string body. Runes in the Latin-1 range are
// emitted as WinAnsi bytes; anything else becomes '?'.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '(' || r == ')' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		case r >= 0xa0 && r <= 0xff:
			fmt.Fprintf(&b, "\\%03o", r)
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
