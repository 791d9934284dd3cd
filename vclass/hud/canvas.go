package hud

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"classroom/hal"
)

// canvas draws tinyfont glyphs and panels onto a framebuffer. Colours with
// alpha below 255 are blended over what is already there.
type canvas struct {
	img *image.RGBA
}

var _ drivers.Displayer = (*canvas)(nil)

func newCanvas(fb hal.Framebuffer) *canvas {
	if fb == nil || fb.Format() != hal.PixelFormatRGBA8888 {
		return &canvas{}
	}
	return &canvas{img: fb.Image()}
}

func (d *canvas) Size() (x, y int16) {
	if d.img == nil {
		return 0, 0
	}
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d *canvas) SetPixel(x, y int16, c color.RGBA) {
	if d.img == nil {
		return
	}
	p := image.Pt(int(x), int(y))
	if !p.In(d.img.Rect) {
		return
	}
	if c.A == 0xff {
		d.img.SetRGBA(p.X, p.Y, c)
		return
	}
	dst := d.img.RGBAAt(p.X, p.Y)
	d.img.SetRGBA(p.X, p.Y, over(dst, c))
}

func (d *canvas) Display() error { return nil }

// FillRectangle fills a clipped rectangle, blending translucent colours.
func (d *canvas) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.img == nil {
		return nil
	}
	r := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height)).Intersect(d.img.Rect)
	if r.Empty() {
		return nil
	}
	if c.A == 0xff {
		draw.Draw(d.img, r, image.NewUniform(c), image.Point{}, draw.Src)
		return nil
	}
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			d.img.SetRGBA(px, py, over(d.img.RGBAAt(px, py), c))
		}
	}
	return nil
}

// over composites straight-alpha src onto an opaque dst.
func over(dst, src color.RGBA) color.RGBA {
	a := uint32(src.A)
	mix := func(d, s uint8) uint8 { return uint8((uint32(s)*a + uint32(d)*(255-a) + 127) / 255) }
	return color.RGBA{mix(dst.R, src.R), mix(dst.G, src.G), mix(dst.B, src.B), 0xff}
}

// text writes s with its baseline at y.
func (d *canvas) text(f *tinyfont.Font, x, y int16, s string, c color.RGBA) {
	tinyfont.WriteLine(d, f, x, y, s, c)
}

func textWidth(f *tinyfont.Font, s string) int16 {
	_, outbox := tinyfont.LineWidth(f, s)
	return int16(outbox)
}
