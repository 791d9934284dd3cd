package softgl

// Target is a minimal pixel target for software rendering.
//
// Implementations should clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Pixel(x, y int) Color
	Clear(c Color)
}

// RGBATarget draws into a packed 8-bit RGBA buffer such as image.RGBA.Pix or a
// host framebuffer.
type RGBATarget struct {
	Buf    []byte
	Stride int
	W, H   int
}

func (t *RGBATarget) Size() (int, int) { return t.W, t.H }

func (t *RGBATarget) offset(x, y int) int {
	if x < 0 || y < 0 || x >= t.W || y >= t.H {
		return -1
	}
	off := y*t.Stride + x*4
	if off+3 >= len(t.Buf) {
		return -1
	}
	return off
}

func (t *RGBATarget) SetPixel(x, y int, c Color) {
	off := t.offset(x, y)
	if off < 0 {
		return
	}
	t.Buf[off+0] = c.R
	t.Buf[off+1] = c.G
	t.Buf[off+2] = c.B
	t.Buf[off+3] = 0xFF
}

func (t *RGBATarget) Pixel(x, y int) Color {
	off := t.offset(x, y)
	if off < 0 {
		return Color{}
	}
	return RGB(t.Buf[off], t.Buf[off+1], t.Buf[off+2])
}

func (t *RGBATarget) Clear(c Color) {
	for y := 0; y < t.H; y++ {
		row := y * t.Stride
		for x := 0; x < t.W; x++ {
			off := row + x*4
			if off+3 >= len(t.Buf) {
				return
			}
			t.Buf[off+0] = c.R
			t.Buf[off+1] = c.G
			t.Buf[off+2] = c.B
			t.Buf[off+3] = 0xFF
		}
	}
}
