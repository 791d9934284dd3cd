package docview

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var (
	white     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	loadingBg = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	borderCol = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	inkDark   = color.RGBA{0x33, 0x33, 0x33, 0xff}
	inkLight  = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

const borderPx = 10

func fill(dst *image.RGBA, c color.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// drawBlank paints the idle canvas shown before any document is loaded.
func drawBlank(dst *image.RGBA, faces *faceCache) {
	fill(dst, white)
	b := dst.Bounds()
	edge := image.NewUniform(borderCol)
	for _, r := range []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+borderPx),
		image.Rect(b.Min.X, b.Max.Y-borderPx, b.Max.X, b.Max.Y),
		image.Rect(b.Min.X, b.Min.Y, b.Min.X+borderPx, b.Max.Y),
		image.Rect(b.Max.X-borderPx, b.Min.Y, b.Max.X, b.Max.Y),
	} {
		draw.Draw(dst, r.Intersect(b), edge, image.Point{}, draw.Src)
	}
	cx, cy := (b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2
	drawCentered(dst, faces.face(familyBold, 48), "Upload a PDF to view", cx, cy-50, inkDark)
	drawCentered(dst, faces.face(familyRegular, 32), "Drop a PDF on the window", cx, cy+30, inkLight)
}

// drawLoading paints the placeholder shown while a document decodes.
func drawLoading(dst *image.RGBA, faces *faceCache) {
	fill(dst, loadingBg)
	b := dst.Bounds()
	drawCentered(dst, faces.face(familyBold, 60), "Loading PDF...", (b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2, inkDark)
}

// drawCentered draws s centred horizontally on cx and vertically on cy. A nil
// face draws nothing.
func drawCentered(dst draw.Image, face font.Face, s string, cx, cy int, c color.Color) {
	if face == nil {
		return
	}
	m := face.Metrics()
	w := font.MeasureString(face, s)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(cx) - w/2,
			Y: fixed.I(cy) + (m.Ascent-m.Descent)/2,
		},
	}
	d.DrawString(s)
}
