package docview

import (
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []operation {
	t.Helper()
	lx := newContentLexer([]byte(src))
	var out []operation
	for {
		op, err := lx.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, op)
	}
}

func TestContentLexerOperands(t *testing.T) {
	ops := lexAll(t, `% comment
q 1 0 0 1 -2.5 .5 cm
/Span <</MCID 0>> BDC
BT /F#31 12 Tf (a\(b\)\101\
c) Tj [(x) -250 <4142>] TJ ET
BI /W 1 /H 1 ID xyz EI
EMC Q`)

	require.Len(t, ops, 11)
	assert.Equal(t, "q", ops[0].Operator)
	assert.Empty(t, ops[0].Operands)
	assert.Equal(t, "cm", ops[1].Operator)
	assert.Equal(t, []any{1.0, 0.0, 0.0, 1.0, -2.5, 0.5}, ops[1].Operands)
	assert.Equal(t, "BDC", ops[2].Operator)
	assert.Equal(t, []any{pdfName("Span"), pdfDict{}}, ops[2].Operands)
	assert.Equal(t, "Tf", ops[4].Operator)
	assert.Equal(t, []any{pdfName("F1"), 12.0}, ops[4].Operands)
	assert.Equal(t, []any{[]byte("a(b)Ac")}, ops[5].Operands)
	assert.Equal(t, []any{[]any{[]byte("x"), -250.0, []byte("AB")}}, ops[6].Operands)
	assert.Equal(t, "BI", ops[8].Operator)
	assert.Equal(t, "EMC", ops[9].Operator)
	assert.Equal(t, "Q", ops[10].Operator)
}

func TestContentLexerRejectsMalformed(t *testing.T) {
	for _, src := range []string{
		"BT (open",
		"[1 2",
		"<41zz> Tj",
		") Tj",
		"BI /W 1 ID nodata",
	} {
		lx := newContentLexer([]byte(src))
		var err error
		for err == nil {
			_, err = lx.Next()
		}
		assert.False(t, errors.Is(err, io.EOF), "%q should not lex cleanly", src)
	}
}

func paint(t *testing.T, w, h int, src string) *image.RGBA {
	t.Helper()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(dst, white)
	p := newPainter(dst, float64(h), Placement{Scale: 1}, newFaceCache(), nil)
	require.NoError(t, p.run([]byte(src)))
	return dst
}

func TestPainterFillsAndFlipsY(t *testing.T) {
	img := paint(t, 100, 100, "0 0 1 rg 10 10 30 20 re f")
	blue := color.RGBA{0, 0, 255, 255}
	// Page y 10..30 is raster y 70..90.
	assert.Equal(t, blue, img.RGBAAt(25, 80))
	assert.Equal(t, white, img.RGBAAt(25, 20))
	assert.Equal(t, white, img.RGBAAt(50, 80))
}

func TestPainterClipsOffPageFillsWithoutBendingEdges(t *testing.T) {
	// The left corner lies off the raster; its hypotenuse still crosses
	// x = 0 at page y 66.7.
	img := paint(t, 100, 100, "0 0 1 rg -100 0 m 50 0 l 50 100 l f")
	blue := color.RGBA{0, 0, 255, 255}
	assert.Equal(t, blue, img.RGBAAt(10, 50), "page (10, 50) is under the hypotenuse")
	assert.Equal(t, blue, img.RGBAAt(1, 40))
	assert.Equal(t, white, img.RGBAAt(10, 10), "page (10, 90) is above it")
	assert.Equal(t, white, img.RGBAAt(70, 50))
}

func TestClipPolygon(t *testing.T) {
	inside := []point{{1, 1}, {5, 1}, {5, 5}}
	assert.Equal(t, inside, clipPolygon(inside, 10, 10))

	assert.Empty(t, clipPolygon([]point{{-5, -5}, {-1, -5}, {-1, -1}}, 10, 10))

	// Only the 5×10 strip left of x = 5 survives, in the same winding.
	got := clipPolygon([]point{{-10, 0}, {5, 0}, {5, 15}}, 10, 10)
	for _, q := range got {
		assert.True(t, q.x >= 0 && q.x <= 10 && q.y >= 0 && q.y <= 10, "vertex %v", q)
	}
	assert.InDelta(t, 50, signedArea(got), 1e-9)
	assert.InDelta(t, -50, signedArea(clipPolygon([]point{{5, 15}, {5, 0}, {-10, 0}}, 10, 10)), 1e-9)
}

func signedArea(pts []point) float64 {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p.x*q.y - q.x*p.y
	}
	return a / 2
}

func TestPainterStrokesWithLineWidth(t *testing.T) {
	img := paint(t, 100, 100, "0 1 0 RG 6 w 10 50 m 90 50 l S")
	green := color.RGBA{0, 255, 0, 255}
	assert.Equal(t, green, img.RGBAAt(50, 50))
	assert.Equal(t, green, img.RGBAAt(50, 47))
	assert.Equal(t, white, img.RGBAAt(50, 40))
}

func TestPainterStateStack(t *testing.T) {
	img := paint(t, 100, 100, "q 1 0 0 1 50 0 cm 1 0 0 rg Q 0 0 0 rg 0 0 10 10 re f")
	// cm and colour were popped: the square is black at the origin.
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(5, 95))
	assert.Equal(t, white, img.RGBAAt(55, 95))
}

func TestPainterCMYK(t *testing.T) {
	img := paint(t, 20, 20, "0 1 1 0 k 0 0 20 20 re f")
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(10, 10))
}

func TestPainterDrawsText(t *testing.T) {
	img := paint(t, 200, 100, "BT /F1 40 Tf 10 30 Td (HH) Tj ET")
	dark := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			if img.RGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 50)
}

func TestFamilyFor(t *testing.T) {
	assert.Equal(t, familyBold, familyFor("Helvetica-Bold"))
	assert.Equal(t, familyMono, familyFor("Courier-BoldOblique"))
	assert.Equal(t, familyItalic, familyFor("Times-Italic"))
	assert.Equal(t, familyRegular, familyFor("Helvetica"))
	assert.Equal(t, familyRegular, familyFor(""))
}
