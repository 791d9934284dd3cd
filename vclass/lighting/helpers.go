package lighting

import (
	"github.com/chewxy/math32"

	"classroom/vclass/softgl"
)

// basis returns two unit vectors perpendicular to dir.
func basis(dir softgl.Vec3) (softgl.Vec3, softgl.Vec3) {
	up := softgl.V3(0, 1, 0)
	if math32.Abs(dir.Dot(up)) > 0.99 {
		up = softgl.V3(1, 0, 0)
	}
	u := softgl.Normalize(dir.Cross(up))
	return u, softgl.Normalize(dir.Cross(u))
}

// directionalHelper is a square of side size at pos facing target, with a
// line toward the target.
func directionalHelper(pos, target softgl.Vec3, size float32) *softgl.Geometry {
	dir := softgl.Normalize(target.Sub(pos))
	u, v := basis(dir)
	h := size / 2
	c := [4]softgl.Vec3{
		pos.Add(u.Mul(h)).Add(v.Mul(h)),
		pos.Sub(u.Mul(h)).Add(v.Mul(h)),
		pos.Sub(u.Mul(h)).Sub(v.Mul(h)),
		pos.Add(u.Mul(h)).Sub(v.Mul(h)),
	}
	return softgl.Lines(
		c[0], c[1], c[1], c[2], c[2], c[3], c[3], c[0],
		pos, pos.Add(dir.Mul(size*2)),
	)
}

// pointHelper is a wire octahedron of radius r.
func pointHelper(pos softgl.Vec3, r float32) *softgl.Geometry {
	px, nx := pos.Add(softgl.V3(r, 0, 0)), pos.Sub(softgl.V3(r, 0, 0))
	py, ny := pos.Add(softgl.V3(0, r, 0)), pos.Sub(softgl.V3(0, r, 0))
	pz, nz := pos.Add(softgl.V3(0, 0, r)), pos.Sub(softgl.V3(0, 0, r))
	var pairs []softgl.Vec3
	for _, pole := range []softgl.Vec3{py, ny} {
		pairs = append(pairs, pole, px, pole, nx, pole, pz, pole, nz)
	}
	pairs = append(pairs, px, pz, pz, nx, nx, nz, nz, px)
	return softgl.Lines(pairs...)
}

const spotHelperRays = 8

// spotHelper draws the cone: rays from the apex to a ring at the cut-off
// distance along the axis.
func spotHelper(pos, target softgl.Vec3, angle, dist float32) *softgl.Geometry {
	axis := softgl.Normalize(target.Sub(pos))
	if dist <= 0 {
		dist = target.Sub(pos).Len()
	}
	u, v := basis(axis)
	center := pos.Add(axis.Mul(dist))
	radius := dist * math32.Tan(angle)

	var ring [spotHelperRays]softgl.Vec3
	for i := range ring {
		s, c := math32.Sincos(float32(i) / spotHelperRays * 2 * math32.Pi)
		ring[i] = center.Add(u.Mul(c * radius)).Add(v.Mul(s * radius))
	}
	var pairs []softgl.Vec3
	for i, p := range ring {
		pairs = append(pairs, pos, p, p, ring[(i+1)%spotHelperRays])
	}
	return softgl.Lines(pairs...)
}
