package softgl

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type (
	Vec2 = mgl32.Vec2
	Vec3 = mgl32.Vec3
	Vec4 = mgl32.Vec4
	Mat4 = mgl32.Mat4
)

func V2(x, y float32) Vec2    { return Vec2{x, y} }
func V3(x, y, z float32) Vec3 { return Vec3{x, y, z} }

// Normalize returns v scaled to unit length, or the zero vector for degenerate input.
func Normalize(v Vec3) Vec3 {
	l := v.Len()
	if l == 0 || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Finite reports whether every component of v is a real number.
func Finite(v Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Lerp3 linearly interpolates between a and b.
func Lerp3(a, b Vec3, t float32) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Transform is a position/rotation/scale triple. Rotation is Euler XYZ in radians.
//
// A zero Scale is treated as unit scale so zero-value transforms are identities.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// At returns a transform translated to p.
func At(x, y, z float32) Transform {
	return Transform{Position: V3(x, y, z)}
}

// WithRotation returns a copy of t with the given Euler rotation.
func (t Transform) WithRotation(x, y, z float32) Transform {
	t.Rotation = V3(x, y, z)
	return t
}

// WithScale returns a copy of t with the given scale.
func (t Transform) WithScale(x, y, z float32) Transform {
	t.Scale = V3(x, y, z)
	return t
}

// Matrix composes T·Rx·Ry·Rz·S.
func (t Transform) Matrix() Mat4 {
	s := t.Scale
	if s == (Vec3{}) {
		s = V3(1, 1, 1)
	}
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	if t.Rotation != (Vec3{}) {
		m = m.Mul4(mgl32.HomogRotate3DX(t.Rotation[0]))
		m = m.Mul4(mgl32.HomogRotate3DY(t.Rotation[1]))
		m = m.Mul4(mgl32.HomogRotate3DZ(t.Rotation[2]))
	}
	if s != V3(1, 1, 1) {
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}

// TransformPoint applies m to p with w = 1.
func TransformPoint(m Mat4, p Vec3) Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDir applies the rotation/scale part of m to d and renormalizes.
func TransformDir(m Mat4, d Vec3) Vec3 {
	return Normalize(m.Mat3().Mul3x1(d))
}

// AABB is an axis-aligned bounding box. The zero value is not empty; use EmptyBox.
type AABB struct {
	Min, Max Vec3
}

// EmptyBox returns a box that any Extend call replaces.
func EmptyBox() AABB {
	inf := math32.Inf(1)
	return AABB{Min: V3(inf, inf, inf), Max: V3(-inf, -inf, -inf)}
}

// BoxFrom returns the box spanning the given corners.
func BoxFrom(min, max Vec3) AABB { return AABB{Min: min, Max: max} }

func (b AABB) Empty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// Extend grows the box to contain p.
func (b AABB) Extend(p Vec3) AABB {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(o AABB) AABB {
	if o.Empty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

func (b AABB) Center() Vec3 {
	if b.Empty() {
		return Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Size() Vec3 {
	if b.Empty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside the closed box.
func (b AABB) Contains(p Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Clamp moves p onto the closest point inside the box, one axis at a time.
func (b AABB) Clamp(p Vec3) Vec3 {
	for i := 0; i < 3; i++ {
		p[i] = mgl32.Clamp(p[i], b.Min[i], b.Max[i])
	}
	return p
}

// Transformed returns the world box of b after applying m.
func (b AABB) Transformed(m Mat4) AABB {
	if b.Empty() {
		return b
	}
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		c := V3(b.Min[0], b.Min[1], b.Min[2])
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out = out.Extend(TransformPoint(m, c))
	}
	return out
}
