// Package docviewtest builds small PDFs for tests.
package docviewtest

import (
	"bytes"
	"fmt"
)

// PDF writes a minimal letter-size PDF with one page per content stream,
// using a Helvetica font resource named F1. The xref table is exact, so
// strict readers accept it.
func PDF(contents ...string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	n := len(contents)
	kids := make([]byte, 0, n*8)
	for i := range contents {
		kids = fmt.Appendf(kids, "%d 0 R ", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, n))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	for i, c := range contents {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(c), c))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// Page is a content stream with a red box and the label "Page n".
func Page(n int) string {
	return fmt.Sprintf("1 0 0 rg 72 72 200 100 re f\nBT /F1 24 Tf 72 700 Td (Page %d) Tj ET", n)
}

// Pages returns a PDF with n labelled pages.
func Pages(n int) []byte {
	contents := make([]string, n)
	for i := range contents {
		contents[i] = Page(i + 1)
	}
	return PDF(contents...)
}
