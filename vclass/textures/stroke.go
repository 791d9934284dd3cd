package textures

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/vector"
)

type pt struct{ x, y float32 }

// cubic flattens a cubic Bézier into steps segments.
func cubic(p0, p1, p2, p3 pt, steps int) []pt {
	out := make([]pt, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		u := 1 - t
		a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
		out = append(out, pt{
			a*p0.x + b*p1.x + c*p2.x + d*p3.x,
			a*p0.y + b*p1.y + c*p2.y + d*p3.y,
		})
	}
	return out
}

// strokePolyline adds one quad per segment of width w. Quads share a winding
// so overlaps at the joints do not cancel. Corners are clamped to the
// rasterizer's bounds.
func strokePolyline(r *vector.Rasterizer, pts []pt, w float32) {
	hw := w / 2
	size := r.Size()
	fw, fh := float32(size.X), float32(size.Y)
	at := func(x, y float32) (float32, float32) {
		return min(max(x, 0), fw), min(max(y, 0), fh)
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.x-a.x, b.y-a.y
		l := math32.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		r.MoveTo(at(a.x+nx, a.y+ny))
		r.LineTo(at(b.x+nx, b.y+ny))
		r.LineTo(at(b.x-nx, b.y-ny))
		r.LineTo(at(a.x-nx, a.y-ny))
		r.ClosePath()
	}
}
