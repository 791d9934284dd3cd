package softgl

import "image/color"

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// Hex converts a 0xRRGGBB literal to an opaque color.
func Hex(v uint32) Color {
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}

func (c Color) WithAlpha(a uint8) Color { c.A = a; return c }

// Vec returns the RGB channels in 0..1.
func (c Color) Vec() Vec3 {
	return V3(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255)
}

// MulScalar scales RGB by s, saturating at 255.
func (c Color) MulScalar(s float32) Color {
	return FromVec(c.Vec().Mul(s), c.A)
}

// ToRGBA returns the image/color form, for interop with image and tinyfont.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// FromVec converts 0..1 channels back to a color, clamping out-of-range values.
func FromVec(v Vec3, a uint8) Color {
	return Color{R: unit8(v[0]), G: unit8(v[1]), B: unit8(v[2]), A: a}
}

func unit8(f float32) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 0xFF
	}
	return uint8(f*255 + 0.5)
}
