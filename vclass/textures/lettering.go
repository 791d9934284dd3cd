package textures

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Lettering renders text in bold Go font at px pixels onto a transparent
// image sized to the text, with pad pixels of margin. The aspect ratio of the
// result is what callers use to size the quad carrying it. Font failures
// return a 1×1 transparent image.
func Lettering(text string, px float64, c color.Color, pad int) *image.RGBA {
	empty := image.NewRGBA(image.Rect(0, 0, 1, 1))
	f, err := opentype.Parse(gobold.TTF)
	if err != nil || text == "" || px < 1 {
		return empty
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: px, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return empty
	}
	defer face.Close()

	m := face.Metrics()
	w := font.MeasureString(face, text).Ceil() + 2*pad
	h := (m.Ascent + m.Descent).Ceil() + 2*pad
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(pad), Y: fixed.I(pad) + m.Ascent},
	}
	d.DrawString(text)
	return img
}

// Aspect is width over height.
func Aspect(img image.Image) float32 {
	b := img.Bounds()
	if b.Dy() == 0 {
		return 1
	}
	return float32(b.Dx()) / float32(b.Dy())
}
