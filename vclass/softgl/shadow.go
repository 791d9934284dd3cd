package softgl

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Shadow map sizes and frusta. Directional shadows cover a square of
// ±ShadowExtent around the light's target.
const (
	MaxShadowLights = 4

	ShadowExtent       = 15
	directionalMapSize = 512
	spotMapSize        = 256
	pointMapSize       = 128

	shadowNear     = 0.5
	directionalFar = 40
	defaultFar     = 20

	// shadowBias is in world units along the light's view axis.
	shadowBias         = 0.05
	shadowNormalOffset = 0.05
)

// shadowMap holds the depth of the nearest caster per texel, as seen from one
// light view. Perspective maps store view distance; orthographic maps store
// distance past the near plane. Both are in world units.
type shadowMap struct {
	vp    Mat4
	ortho bool
	size  int
	depth []float32
}

func (m *shadowMap) reset(vp Mat4, ortho bool, size int) {
	m.vp, m.ortho, m.size = vp, ortho, size
	if cap(m.depth) < size*size {
		m.depth = make([]float32, size*size)
	}
	m.depth = m.depth[:size*size]
	inf := math32.Inf(1)
	for i := range m.depth {
		m.depth[i] = inf
	}
}

type shadowVert struct {
	x, y float32
	d    float32 // depth for ortho maps, 1/w for perspective ones
}

func (m *shadowMap) project(c Vec4) shadowVert {
	invW := 1 / c[3]
	v := shadowVert{
		x: (c[0]*invW*0.5 + 0.5) * float32(m.size),
		y: (1 - (c[1]*invW*0.5 + 0.5)) * float32(m.size),
	}
	if m.ortho {
		v.d = (c[2]*0.5 + 0.5) * (directionalFar - shadowNear)
	} else {
		v.d = invW
	}
	return v
}

// drawCaster rasterizes a mesh's triangles into the map. Both faces are drawn.
func (m *shadowMap) drawCaster(g *Geometry, world Mat4, scratch []clipVert) {
	mvp := m.vp.Mul4(world)
	for i := 0; i+2 < len(g.Indices); i += 3 {
		var tri [3]clipVert
		ok := true
		for k := range 3 {
			idx := g.Indices[i+k]
			if int(idx) >= len(g.Vertices) {
				ok = false
				break
			}
			tri[k] = clipVert{pos: mvp.Mul4x1(g.Vertices[idx].Pos.Vec4(1))}
		}
		if !ok {
			continue
		}
		poly := clipNear(tri[:], scratch[:0])
		if len(poly) < 3 {
			continue
		}
		a := m.project(poly[0].pos)
		for k := 1; k+1 < len(poly); k++ {
			m.fill(a, m.project(poly[k].pos), m.project(poly[k+1].pos))
		}
	}
}

func (m *shadowMap) fill(a, b, c shadowVert) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 || math32.IsNaN(area) {
		return
	}
	minX := max(int(math32.Floor(min(a.x, b.x, c.x))), 0)
	maxX := min(int(math32.Ceil(max(a.x, b.x, c.x))), m.size-1)
	minY := max(int(math32.Floor(min(a.y, b.y, c.y))), 0)
	maxY := min(int(math32.Ceil(max(a.y, b.y, c.y))), m.size-1)
	inv := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(b.x, b.y, c.x, c.y, px, py) * inv
			w1 := edge(c.x, c.y, a.x, a.y, px, py) * inv
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			d := w0*a.d + w1*b.d + w2*c.d
			if !m.ortho {
				if d <= 0 {
					continue
				}
				d = 1 / d
			}
			if i := y*m.size + x; d < m.depth[i] {
				m.depth[i] = d
			}
		}
	}
}

// covers reports whether p falls inside the map's frustum and, if so, whether
// a caster sits between p and the light.
func (m *shadowMap) covers(p Vec3) (covered, shadowed bool) {
	c := m.vp.Mul4x1(p.Vec4(1))
	if c[3] <= 0 {
		return false, false
	}
	x, y, z := c[0]/c[3], c[1]/c[3], c[2]/c[3]
	if x < -1 || x > 1 || y < -1 || y > 1 || z < -1 || z > 1 {
		return false, false
	}
	px := min(int((x*0.5+0.5)*float32(m.size)), m.size-1)
	py := min(int((1-(y*0.5+0.5))*float32(m.size)), m.size-1)
	d := c[3]
	if m.ortho {
		d = (z*0.5 + 0.5) * (directionalFar - shadowNear)
	}
	return true, d-shadowBias > m.depth[py*m.size+px]
}

// lightShadow is the set of maps for one casting light: one view for
// directional and spot lights, six cube faces for point lights.
type lightShadow struct {
	faces []shadowMap
}

// Cube face axes, indexed +X -X +Y -Y +Z -Z.
var cubeFaces = [6]struct{ dir, up Vec3 }{
	{V3(1, 0, 0), V3(0, 1, 0)},
	{V3(-1, 0, 0), V3(0, 1, 0)},
	{V3(0, 1, 0), V3(0, 0, 1)},
	{V3(0, -1, 0), V3(0, 0, 1)},
	{V3(0, 0, 1), V3(0, 1, 0)},
	{V3(0, 0, -1), V3(0, 1, 0)},
}

func (ls *lightShadow) setup(l Light) {
	far := float32(defaultFar)
	if l.Distance > 0 {
		far = l.Distance
	}
	switch l.Kind {
	case LightDirectional:
		ls.resize(1)
		view := lookAt(l.Position, l.Target)
		proj := mgl32.Ortho(-ShadowExtent, ShadowExtent, -ShadowExtent, ShadowExtent, shadowNear, directionalFar)
		ls.faces[0].reset(proj.Mul4(view), true, directionalMapSize)
	case LightSpot:
		ls.resize(1)
		fov := mgl32.Clamp(2*l.Angle+0.1, 0.1, math32.Pi-0.1)
		proj := mgl32.Perspective(fov, 1, shadowNear, far)
		ls.faces[0].reset(proj.Mul4(lookAt(l.Position, l.Target)), false, spotMapSize)
	case LightPoint:
		ls.resize(6)
		proj := mgl32.Perspective(math32.Pi/2, 1, shadowNear, far)
		for i, f := range cubeFaces {
			view := mgl32.LookAtV(l.Position, l.Position.Add(f.dir), f.up)
			ls.faces[i].reset(proj.Mul4(view), false, pointMapSize)
		}
	default:
		ls.resize(0)
	}
}

func (ls *lightShadow) resize(n int) {
	if cap(ls.faces) < n {
		ls.faces = make([]shadowMap, n)
	}
	ls.faces = ls.faces[:n]
}

// shadowed reports whether a caster hides p from the light.
func (ls *lightShadow) shadowed(p Vec3) bool {
	for i := range ls.faces {
		if covered, hit := ls.faces[i].covers(p); covered {
			return hit
		}
	}
	return false
}

func lookAt(eye, target Vec3) Mat4 {
	up := V3(0, 1, 0)
	if d := Normalize(target.Sub(eye)); math32.Abs(d.Dot(up)) > 0.99 {
		up = V3(0, 0, 1)
	}
	return mgl32.LookAtV(eye, target, up)
}

// renderShadows assigns shadow slots to casting lights and fills their maps
// with every visible opaque mesh whose material casts.
func (r *Renderer) renderShadows(s *Scene) {
	r.castLights = r.castLights[:0]
	for i := range r.lights {
		l := &r.lights[i]
		l.slot = -1
		if !l.castShadow || l.kind == LightAmbient || len(r.castLights) == MaxShadowLights {
			continue
		}
		l.slot = len(r.castLights)
		if len(r.shadows) <= l.slot {
			r.shadows = append(r.shadows, lightShadow{})
		}
		r.shadows[l.slot].setup(l.src)
		r.castLights = append(r.castLights, i)
	}
	if len(r.castLights) == 0 {
		return
	}
	for i := range s.meshes {
		m := &s.meshes[i]
		mat := m.Material
		if !mat.CastShadow || mat.Wire || mat.Transparent || m.Geometry == nil || !s.Visible(m.Node) {
			continue
		}
		world := s.World(m.Node)
		for slot := range r.castLights {
			for f := range r.shadows[slot].faces {
				r.shadows[slot].faces[f].drawCaster(m.Geometry, world, r.poly[:0])
			}
		}
	}
	r.Stats.ShadowLights = len(r.castLights)
}
