package softgl

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Stats counts work done by the last Render call.
type Stats struct {
	Triangles    int
	Culled       int
	Points       int
	ShadowLights int
}

// Renderer is a fixed-pipeline software renderer.
//
// Create it once and reuse it; scratch buffers grow to the largest mesh seen.
type Renderer struct {
	Stats Stats

	depthBuf []float32
	w, h     int

	lights []preparedLight
	clip   []Vec4
	light  []Vec3
	cast   [][MaxShadowLights]Vec3
	world  []Vec3
	poly   [8]clipVert
	blend  []drawItem

	shadows    []lightShadow
	castLights []int
}

// NewRenderer creates a renderer for a given target size.
func NewRenderer(w, h int) *Renderer {
	r := &Renderer{}
	r.resize(w, h)
	return r
}

func (r *Renderer) resize(w, h int) {
	if w == r.w && h == r.h && len(r.depthBuf) == w*h {
		return
	}
	r.w, r.h = w, h
	if w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	r.depthBuf = make([]float32, w*h)
}

func (r *Renderer) clearDepth() {
	for i := range r.depthBuf {
		r.depthBuf[i] = 1
	}
}

type frame struct {
	t      Target
	w, h   int
	vp     Mat4
	near   float32
	fog    Fog
	fogCol Vec3
}

type drawItem struct {
	mesh  *Mesh
	world Mat4
	depth float32
}

// Render draws the scene into the target.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	r.resize(w, h)
	r.clearDepth()
	r.Stats = Stats{}
	t.Clear(s.Background)

	s.UpdateWorld()
	r.prepareLights(s.Lights)
	r.renderShadows(s)

	view := s.Camera.View()
	proj := s.Camera.Projection(float32(w) / float32(h))
	f := frame{
		t:      t,
		w:      w,
		h:      h,
		vp:     proj.Mul4(view),
		near:   s.Camera.Near,
		fog:    s.Fog,
		fogCol: s.Fog.Color.Vec(),
	}

	r.blend = r.blend[:0]
	var wires []drawItem
	for i := range s.meshes {
		m := &s.meshes[i]
		if !s.Visible(m.Node) {
			continue
		}
		world := s.World(m.Node)
		switch {
		case m.Material.Wire:
			wires = append(wires, drawItem{mesh: m, world: world})
		case m.Material.Transparent:
			c := TransformPoint(view.Mul4(world), m.Geometry.Bounds.Center())
			r.blend = append(r.blend, drawItem{mesh: m, world: world, depth: c[2]})
		default:
			r.drawMesh(&f, m, world, false)
		}
	}

	// View space looks down -Z: most negative is farthest.
	sort.SliceStable(r.blend, func(i, j int) bool { return r.blend[i].depth < r.blend[j].depth })
	for _, it := range r.blend {
		r.drawMesh(&f, it.mesh, it.world, true)
	}
	for _, it := range wires {
		r.drawWire(&f, it.mesh, it.world)
	}
	for _, p := range s.points {
		r.drawPoints(&f, p)
	}
}

type preparedLight struct {
	src        Light
	castShadow bool
	slot       int // shadow slot, or -1

	kind     LightKind
	color    Vec3
	pos      Vec3
	dir      Vec3
	distance float32
	decay    float32
	cosOuter float32
	cosInner float32
}

func (r *Renderer) prepareLights(ls []Light) {
	r.lights = r.lights[:0]
	for _, l := range ls {
		if l.Disabled || l.Intensity <= 0 {
			continue
		}
		p := preparedLight{
			src:        l,
			castShadow: l.CastShadow,
			slot:       -1,
			kind:       l.Kind,
			color:      l.Color.Vec().Mul(l.Intensity),
			pos:        l.Position,
			distance:   l.Distance,
			decay:      l.Decay,
		}
		switch l.Kind {
		case LightDirectional:
			p.dir = Normalize(l.Position.Sub(l.Target))
		case LightSpot:
			p.dir = Normalize(l.Target.Sub(l.Position))
			p.cosOuter = math32.Cos(l.Angle)
			p.cosInner = math32.Cos(l.Angle * (1 - mgl32.Clamp(l.Penumbra, 0, 1)))
		}
		if p.kind == LightPoint && p.decay == 0 {
			p.decay = 1
		}
		r.lights = append(r.lights, p)
	}
}

// shade returns the light reaching a surface point with normal n. With split
// set, light from shadow-casting sources is returned per shadow slot instead
// of in the sum.
func (r *Renderer) shade(p, n Vec3, twoSided, split bool) (sum Vec3, cast [MaxShadowLights]Vec3) {
	for i := range r.lights {
		l := &r.lights[i]
		if l.kind == LightAmbient {
			sum = sum.Add(l.color)
			continue
		}

		var ld Vec3
		atten := float32(1)
		if l.kind == LightDirectional {
			ld = l.dir
		} else {
			d := l.pos.Sub(p)
			dist := d.Len()
			if dist == 0 {
				continue
			}
			ld = d.Mul(1 / dist)
			if l.distance > 0 {
				atten = math32.Pow(mgl32.Clamp(1-dist/l.distance, 0, 1), l.decay)
			}
			if l.kind == LightSpot {
				atten *= smoothstep(l.cosOuter, l.cosInner, ld.Mul(-1).Dot(l.dir))
			}
			if atten <= 0 {
				continue
			}
		}

		ndl := n.Dot(ld)
		if twoSided {
			ndl = math32.Abs(ndl)
		}
		if ndl <= 0 {
			continue
		}
		c := l.color.Mul(ndl * atten)
		if split && l.slot >= 0 {
			cast[l.slot] = c
			continue
		}
		sum = sum.Add(c)
	}
	return sum, cast
}

func smoothstep(e0, e1, x float32) float32 {
	if e1 == e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := mgl32.Clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

type clipVert struct {
	pos   Vec4
	uv    Vec2
	light Vec3
	world Vec3
	cast  [MaxShadowLights]Vec3
}

func lerpClip(a, b clipVert, t float32) clipVert {
	v := clipVert{
		pos:   a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
		uv:    a.uv.Add(b.uv.Sub(a.uv).Mul(t)),
		light: a.light.Add(b.light.Sub(a.light).Mul(t)),
		world: Lerp3(a.world, b.world, t),
	}
	for k := range v.cast {
		v.cast[k] = Lerp3(a.cast[k], b.cast[k], t)
	}
	return v
}

// clipNear clips a convex polygon against z >= -w (the OpenGL near plane).
func clipNear(in []clipVert, out []clipVert) []clipVert {
	out = out[:0]
	n := len(in)
	for i := 0; i < n; i++ {
		a := in[i]
		b := in[(i+1)%n]
		da := a.pos[2] + a.pos[3]
		db := b.pos[2] + b.pos[3]
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, lerpClip(a, b, da/(da-db)))
		}
	}
	return out
}

type screenVert struct {
	x, y, z float32
	invW    float32
	uv      Vec2
	light   Vec3
	world   Vec3
	cast    [MaxShadowLights]Vec3
}

func (f *frame) project(v clipVert) screenVert {
	invW := 1 / v.pos[3]
	return screenVert{
		x:     (v.pos[0]*invW*0.5 + 0.5) * float32(f.w),
		y:     (1 - (v.pos[1]*invW*0.5 + 0.5)) * float32(f.h),
		z:     v.pos[2]*invW*0.5 + 0.5,
		invW:  invW,
		uv:    v.uv,
		light: v.light,
		world: v.world,
		cast:  v.cast,
	}
}

func (r *Renderer) ensureScratch(n int) {
	if cap(r.clip) < n {
		r.clip = make([]Vec4, n)
		r.light = make([]Vec3, n)
		r.cast = make([][MaxShadowLights]Vec3, n)
		r.world = make([]Vec3, n)
	}
	r.clip = r.clip[:n]
	r.light = r.light[:n]
	r.cast = r.cast[:n]
	r.world = r.world[:n]
}

func (r *Renderer) drawMesh(f *frame, m *Mesh, world Mat4, blended bool) {
	g := m.Geometry
	if g == nil || len(g.Vertices) == 0 || len(g.Indices) < 3 {
		return
	}
	mat := m.Material
	twoSided := mat.Side == SideDouble
	rep := mat.repeat()

	mvp := f.vp.Mul4(world)
	normalM := world.Mat3()
	receive := mat.ReceiveShadow && !mat.Unlit && len(r.castLights) > 0
	r.ensureScratch(len(g.Vertices))
	for i, v := range g.Vertices {
		r.clip[i] = mvp.Mul4x1(v.Pos.Vec4(1))
		if mat.Unlit {
			r.light[i] = V3(1, 1, 1)
			r.cast[i] = [MaxShadowLights]Vec3{}
			continue
		}
		wp, n := TransformPoint(world, v.Pos), Normalize(normalM.Mul3x1(v.Normal))
		r.light[i], r.cast[i] = r.shade(wp, n, twoSided, receive)
		// Shadow lookups start slightly off the surface so it does not shadow itself.
		r.world[i] = wp.Add(n.Mul(shadowNormalOffset))
	}

	sh := shader{
		base:     mat.Color.Vec(),
		tex:      mat.Texture,
		emissive: mat.Emissive.Vec().Mul(mat.EmissiveIntensity),
		emisMap:  mat.EmissiveMap && mat.Texture != nil,
		emisK:    mat.EmissiveIntensity,
		opacity:  mat.opacity(),
		blended:  blended,
		receive:  receive,
	}
	if mat.Color == (Color{}) {
		sh.base = V3(1, 1, 1)
	}
	if sh.emisMap && mat.Emissive == (Color{}) {
		sh.emissive = Vec3{}
	}

	for i := 0; i+2 < len(g.Indices); i += 3 {
		var tri [3]clipVert
		ok := true
		for k := 0; k < 3; k++ {
			idx := g.Indices[i+k]
			if int(idx) >= len(g.Vertices) {
				ok = false
				break
			}
			uv := g.Vertices[idx].UV
			tri[k] = clipVert{
				pos:   r.clip[idx],
				uv:    V2(uv[0]*rep[0], uv[1]*rep[1]),
				light: r.light[idx],
				world: r.world[idx],
				cast:  r.cast[idx],
			}
		}
		if !ok {
			continue
		}
		poly := clipNear(tri[:], r.poly[:0])
		if len(poly) < 3 {
			continue
		}
		var sv [8]screenVert
		for k := range poly {
			sv[k] = f.project(poly[k])
		}
		for k := 1; k+1 < len(poly); k++ {
			r.rasterize(f, &sh, mat.Side, sv[0], sv[k], sv[k+1])
		}
	}
}

type shader struct {
	base     Vec3
	tex      *Texture
	emissive Vec3
	emisMap  bool
	emisK    float32
	opacity  float32
	blended  bool
	receive  bool
	level    int
}

func (r *Renderer) rasterize(f *frame, sh *shader, side Side, a, b, c screenVert) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 || math32.IsNaN(area) {
		return
	}
	// Counter-clockwise in NDC comes out positive here because of the y flip.
	if side == SideFront && area < 0 {
		r.Stats.Culled++
		return
	}
	r.Stats.Triangles++

	if sh.tex != nil {
		tw, th := sh.tex.Size()
		uvArea := math32.Abs((b.uv[0]-a.uv[0])*(c.uv[1]-a.uv[1]) - (c.uv[0]-a.uv[0])*(b.uv[1]-a.uv[1]))
		sh.level = sh.tex.level(uvArea*float32(tw*th), math32.Abs(area))
	}

	minX := int(math32.Floor(min(a.x, b.x, c.x)))
	maxX := int(math32.Ceil(max(a.x, b.x, c.x)))
	minY := int(math32.Floor(min(a.y, b.y, c.y)))
	maxY := int(math32.Ceil(max(a.y, b.y, c.y)))
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, f.w-1)
	maxY = min(maxY, f.h-1)
	if minX > maxX || minY > maxY {
		return
	}

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
			z := w0*a.z + w1*b.z + w2*c.z
			idx := y*f.w + x
			if z < 0 || z >= r.depthBuf[idx] {
				continue
			}

			iw := w0*a.invW + w1*b.invW + w2*c.invW
			if iw <= 0 {
				continue
			}
			p0 := w0 * a.invW / iw
			p1 := w1 * b.invW / iw
			p2 := w2 * c.invW / iw

			col := sh.base
			alpha := sh.opacity
			var emis Vec3
			if sh.tex != nil {
				u := p0*a.uv[0] + p1*b.uv[0] + p2*c.uv[0]
				v := p0*a.uv[1] + p1*b.uv[1] + p2*c.uv[1]
				texel, ta := sh.tex.Sample(sh.level, u, v)
				alpha *= ta
				if sh.emisMap {
					emis = texel.Mul(sh.emisK)
				}
				col = V3(col[0]*texel[0], col[1]*texel[1], col[2]*texel[2])
			}
			if alpha <= 0.01 {
				continue
			}
			light := a.light.Mul(p0).Add(b.light.Mul(p1)).Add(c.light.Mul(p2))
			if sh.receive {
				light = light.Add(r.unshadowed(a, b, c, p0, p1, p2))
			}
			out := V3(col[0]*light[0], col[1]*light[1], col[2]*light[2]).Add(sh.emissive).Add(emis)
			out = f.applyFog(out, 1/iw)

			if sh.blended || alpha < 1 {
				dst := f.t.Pixel(x, y).Vec()
				out = Lerp3(dst, out, alpha)
			} else {
				r.depthBuf[idx] = z
			}
			f.t.SetPixel(x, y, FromVec(out, 0xFF))
		}
	}
}

// unshadowed sums the casting lights that reach the interpolated surface
// point.
func (r *Renderer) unshadowed(a, b, c screenVert, p0, p1, p2 float32) Vec3 {
	var sum Vec3
	wp := a.world.Mul(p0).Add(b.world.Mul(p1)).Add(c.world.Mul(p2))
	for k := range r.castLights {
		lk := a.cast[k].Mul(p0).Add(b.cast[k].Mul(p1)).Add(c.cast[k].Mul(p2))
		if lk == (Vec3{}) || r.shadows[k].shadowed(wp) {
			continue
		}
		sum = sum.Add(lk)
	}
	return sum
}

func (f *frame) applyFog(c Vec3, depth float32) Vec3 {
	if !f.fog.Enabled || f.fog.Far <= f.fog.Near {
		return c
	}
	k := mgl32.Clamp((depth-f.fog.Near)/(f.fog.Far-f.fog.Near), 0, 1)
	if k == 0 {
		return c
	}
	return Lerp3(c, f.fogCol, k)
}

func edge(x0, y0, x1, y1, x, y float32) float32 {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func (r *Renderer) drawWire(f *frame, m *Mesh, world Mat4) {
	g := m.Geometry
	if g == nil {
		return
	}
	mvp := f.vp.Mul4(world)
	c := m.Material.Color
	line := func(i0, i1 uint32) {
		if int(i0) >= len(g.Vertices) || int(i1) >= len(g.Vertices) {
			return
		}
		a := clipVert{pos: mvp.Mul4x1(g.Vertices[i0].Pos.Vec4(1))}
		b := clipVert{pos: mvp.Mul4x1(g.Vertices[i1].Pos.Vec4(1))}
		da := a.pos[2] + a.pos[3]
		db := b.pos[2] + b.pos[3]
		if da < 0 && db < 0 {
			return
		}
		if da < 0 {
			a = lerpClip(a, b, da/(da-db))
		} else if db < 0 {
			b = lerpClip(a, b, da/(da-db))
		}
		sa, sb := f.project(a), f.project(b)
		r.drawLine(f, sa, sb, c)
	}
	if len(g.Edges) > 0 {
		for i := 0; i+1 < len(g.Edges); i += 2 {
			line(g.Edges[i], g.Edges[i+1])
		}
		return
	}
	for i := 0; i+2 < len(g.Indices); i += 3 {
		line(g.Indices[i], g.Indices[i+1])
		line(g.Indices[i+1], g.Indices[i+2])
		line(g.Indices[i+2], g.Indices[i])
	}
}

// drawLine is Bresenham with a depth test against the opaque pass.
func (r *Renderer) drawLine(f *frame, a, b screenVert, c Color) {
	x0, y0 := int(a.x), int(a.y)
	x1, y1 := int(b.x), int(b.y)
	steps := max(absInt(x1-x0), absInt(y1-y0), 1)
	if steps > 4*(f.w+f.h) {
		return
	}
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	e := dx + dy
	for i := 0; ; i++ {
		if x0 >= 0 && y0 >= 0 && x0 < f.w && y0 < f.h {
			z := a.z + (b.z-a.z)*float32(i)/float32(steps)
			if z <= r.depthBuf[y0*f.w+x0] {
				f.t.SetPixel(x0, y0, c)
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (r *Renderer) drawPoints(f *frame, p *PointCloud) {
	if p == nil || !p.Visible {
		return
	}
	size := max(p.Size, 1)
	op := mgl32.Clamp(p.Opacity, 0, 1)
	if op == 0 {
		op = 1
	}
	col := p.Color.Vec()
	for _, pos := range p.Positions {
		cp := f.vp.Mul4x1(pos.Vec4(1))
		if cp[3] <= f.near || cp[2] < -cp[3] || cp[2] > cp[3] {
			continue
		}
		s := f.project(clipVert{pos: cp})
		x0 := int(s.x) - size/2
		y0 := int(s.y) - size/2
		drawn := false
		for y := y0; y < y0+size; y++ {
			if y < 0 || y >= f.h {
				continue
			}
			for x := x0; x < x0+size; x++ {
				if x < 0 || x >= f.w || s.z >= r.depthBuf[y*f.w+x] {
					continue
				}
				dst := f.t.Pixel(x, y).Vec()
				var out Vec3
				if p.Additive {
					out = dst.Add(col.Mul(op))
				} else {
					out = Lerp3(dst, col, op)
				}
				f.t.SetPixel(x, y, FromVec(out, 0xFF))
				drawn = true
			}
		}
		if drawn {
			r.Stats.Points++
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
