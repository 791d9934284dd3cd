package softgl

import (
	"image"
	"image/draw"

	"github.com/chewxy/math32"
	xdraw "golang.org/x/image/draw"
)

// Texture is an RGBA image with a box-filtered mip chain. Sampling wraps (repeat)
// and uses the three.js convention of v = 0 at the bottom row.
type Texture struct {
	levels []*image.RGBA
}

// NewTexture copies img into a new texture.
func NewTexture(img image.Image) *Texture {
	t := &Texture{}
	t.Upload(img)
	return t
}

// Size returns the base level dimensions.
func (t *Texture) Size() (w, h int) {
	if t == nil || len(t.levels) == 0 {
		return 0, 0
	}
	b := t.levels[0].Bounds()
	return b.Dx(), b.Dy()
}

// Upload replaces the texture contents and rebuilds the mip chain. Buffers are
// reused when the size is unchanged.
func (t *Texture) Upload(img image.Image) {
	if t == nil || img == nil {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		t.levels = nil
		return
	}
	if len(t.levels) == 0 || t.levels[0].Bounds().Size() != b.Size() {
		t.levels = t.levels[:0]
		w, h := b.Dx(), b.Dy()
		for {
			t.levels = append(t.levels, image.NewRGBA(image.Rect(0, 0, w, h)))
			if w == 1 && h == 1 {
				break
			}
			w, h = max(1, w/2), max(1, h/2)
		}
	}
	draw.Draw(t.levels[0], t.levels[0].Bounds(), img, b.Min, draw.Src)
	for i := 1; i < len(t.levels); i++ {
		src := t.levels[i-1]
		dst := t.levels[i]
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	}
}

// level picks the mip level for a triangle covering texelArea texels of the base
// level on screenArea pixels.
func (t *Texture) level(texelArea, screenArea float32) int {
	if t == nil || len(t.levels) < 2 || screenArea <= 0 || texelArea <= screenArea {
		return 0
	}
	lod := int(0.5 * math32.Log2(texelArea/screenArea))
	return min(max(lod, 0), len(t.levels)-1)
}

// Sample returns the texel at (u, v) on the given level as 0..1 RGB plus alpha.
func (t *Texture) Sample(level int, u, v float32) (Vec3, float32) {
	if t == nil || len(t.levels) == 0 {
		return V3(1, 1, 1), 1
	}
	img := t.levels[min(max(level, 0), len(t.levels)-1)]
	w, h := img.Rect.Dx(), img.Rect.Dy()
	u -= math32.Floor(u)
	v -= math32.Floor(v)
	x := int(u * float32(w))
	y := int((1 - v) * float32(h))
	x = min(max(x, 0), w-1)
	y = min(max(y, 0), h-1)
	off := y*img.Stride + x*4
	p := img.Pix[off : off+4 : off+4]
	a := float32(p[3]) / 255
	c := V3(float32(p[0])/255, float32(p[1])/255, float32(p[2])/255)
	if a > 0 && a < 1 {
		// image.RGBA is alpha-premultiplied.
		c = c.Mul(1 / a)
	}
	return c, a
}
