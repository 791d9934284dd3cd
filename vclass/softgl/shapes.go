package softgl

import "github.com/chewxy/math32"

// Box returns an axis-aligned box centred on the origin. Each face has its own
// four vertices so normals and UVs stay per-face.
func Box(w, h, d float32) *Geometry {
	hw, hh, hd := w/2, h/2, d/2
	faces := [6]struct {
		n, u, v Vec3
		du, dv  float32
		dn      float32
	}{
		{V3(1, 0, 0), V3(0, 0, -1), V3(0, 1, 0), hd, hh, hw},
		{V3(-1, 0, 0), V3(0, 0, 1), V3(0, 1, 0), hd, hh, hw},
		{V3(0, 1, 0), V3(1, 0, 0), V3(0, 0, -1), hw, hd, hh},
		{V3(0, -1, 0), V3(1, 0, 0), V3(0, 0, 1), hw, hd, hh},
		{V3(0, 0, 1), V3(1, 0, 0), V3(0, 1, 0), hw, hh, hd},
		{V3(0, 0, -1), V3(-1, 0, 0), V3(0, 1, 0), hw, hh, hd},
	}
	g := &Geometry{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	corners := [4]struct{ su, sv float32 }{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range faces {
		base := uint32(len(g.Vertices))
		c := f.n.Mul(f.dn)
		for _, k := range corners {
			p := c.Add(f.u.Mul(k.su * f.du)).Add(f.v.Mul(k.sv * f.dv))
			g.Vertices = append(g.Vertices, Vertex{
				Pos:    p,
				Normal: f.n,
				UV:     V2((k.su+1)/2, (k.sv+1)/2),
			})
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	g.ComputeBounds()
	return g
}

// Plane returns a w×h grid in the XY plane facing +Z. Subdivision lets vertex
// lighting vary across large surfaces.
func Plane(w, h float32, segX, segY int) *Geometry {
	segX = max(segX, 1)
	segY = max(segY, 1)
	g := &Geometry{
		Vertices: make([]Vertex, 0, (segX+1)*(segY+1)),
		Indices:  make([]uint32, 0, segX*segY*6),
	}
	for iy := 0; iy <= segY; iy++ {
		fy := float32(iy) / float32(segY)
		for ix := 0; ix <= segX; ix++ {
			fx := float32(ix) / float32(segX)
			g.Vertices = append(g.Vertices, Vertex{
				Pos:    V3(fx*w-w/2, h/2-fy*h, 0),
				Normal: V3(0, 0, 1),
				UV:     V2(fx, 1-fy),
			})
		}
	}
	row := uint32(segX + 1)
	for iy := 0; iy < segY; iy++ {
		for ix := 0; ix < segX; ix++ {
			a := uint32(ix) + row*uint32(iy)
			b := uint32(ix) + row*uint32(iy+1)
			c := uint32(ix+1) + row*uint32(iy+1)
			d := uint32(ix+1) + row*uint32(iy)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	g.ComputeBounds()
	return g
}

// SphereOpts selects a partial sphere. Zero lengths mean a full sphere.
type SphereOpts struct {
	PhiStart, PhiLength     float32
	ThetaStart, ThetaLength float32
}

// Sphere returns a UV sphere of radius r.
func Sphere(r float32, wSeg, hSeg int, o SphereOpts) *Geometry {
	wSeg = max(wSeg, 3)
	hSeg = max(hSeg, 2)
	if o.PhiLength == 0 {
		o.PhiLength = 2 * math32.Pi
	}
	if o.ThetaLength == 0 {
		o.ThetaLength = math32.Pi
	}
	thetaEnd := min(o.ThetaStart+o.ThetaLength, math32.Pi)

	g := &Geometry{}
	grid := make([][]uint32, hSeg+1)
	for iy := 0; iy <= hSeg; iy++ {
		v := float32(iy) / float32(hSeg)
		theta := o.ThetaStart + v*o.ThetaLength
		st, ct := math32.Sincos(theta)
		grid[iy] = make([]uint32, wSeg+1)
		for ix := 0; ix <= wSeg; ix++ {
			u := float32(ix) / float32(wSeg)
			sp, cp := math32.Sincos(o.PhiStart + u*o.PhiLength)
			p := V3(-r*cp*st, r*ct, r*sp*st)
			grid[iy][ix] = uint32(len(g.Vertices))
			g.Vertices = append(g.Vertices, Vertex{Pos: p, Normal: Normalize(p), UV: V2(u, 1-v)})
		}
	}
	for iy := 0; iy < hSeg; iy++ {
		for ix := 0; ix < wSeg; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 || o.ThetaStart > 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != hSeg-1 || thetaEnd < math32.Pi {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	g.ComputeBounds()
	return g
}

// Cylinder returns a capped cylinder (or truncated cone) along Y, centred on
// the origin.
func Cylinder(rTop, rBottom, height float32, radial int) *Geometry {
	radial = max(radial, 3)
	half := height / 2
	slope := float32(0)
	if height != 0 {
		slope = (rBottom - rTop) / height
	}
	g := &Geometry{}
	var rows [2][]uint32
	for iy := 0; iy <= 1; iy++ {
		v := float32(iy)
		radius := v*(rBottom-rTop) + rTop
		rows[iy] = make([]uint32, radial+1)
		for ix := 0; ix <= radial; ix++ {
			u := float32(ix) / float32(radial)
			s, c := math32.Sincos(u * 2 * math32.Pi)
			rows[iy][ix] = uint32(len(g.Vertices))
			g.Vertices = append(g.Vertices, Vertex{
				Pos:    V3(radius*s, half-v*height, radius*c),
				Normal: Normalize(V3(s, slope, c)),
				UV:     V2(u, 1-v),
			})
		}
	}
	for ix := 0; ix < radial; ix++ {
		a := rows[0][ix]
		b := rows[1][ix]
		c := rows[1][ix+1]
		d := rows[0][ix+1]
		g.Indices = append(g.Indices, a, b, d, b, c, d)
	}
	cylinderCap(g, rTop, half, radial, true)
	cylinderCap(g, rBottom, half, radial, false)
	g.ComputeBounds()
	return g
}

func cylinderCap(g *Geometry, radius, half float32, radial int, top bool) {
	if radius <= 0 {
		return
	}
	sign := float32(1)
	if !top {
		sign = -1
	}
	center := uint32(len(g.Vertices))
	for ix := 0; ix < radial; ix++ {
		g.Vertices = append(g.Vertices, Vertex{
			Pos:    V3(0, half*sign, 0),
			Normal: V3(0, sign, 0),
			UV:     V2(0.5, 0.5),
		})
	}
	ring := uint32(len(g.Vertices))
	for ix := 0; ix <= radial; ix++ {
		u := float32(ix) / float32(radial)
		s, c := math32.Sincos(u * 2 * math32.Pi)
		g.Vertices = append(g.Vertices, Vertex{
			Pos:    V3(radius*s, half*sign, radius*c),
			Normal: V3(0, sign, 0),
			UV:     V2(c*0.5+0.5, s*0.5*sign+0.5),
		})
	}
	for ix := uint32(0); ix < uint32(radial); ix++ {
		if top {
			g.Indices = append(g.Indices, ring+ix, ring+ix+1, center+ix)
		} else {
			g.Indices = append(g.Indices, ring+ix+1, ring+ix, center+ix)
		}
	}
}

// Lines returns a line-segment geometry from point pairs, for wire helpers.
func Lines(pairs ...Vec3) *Geometry {
	g := &Geometry{Vertices: make([]Vertex, 0, len(pairs))}
	for i, p := range pairs {
		g.Vertices = append(g.Vertices, Vertex{Pos: p})
		g.Edges = append(g.Edges, uint32(i))
	}
	if len(g.Edges)%2 == 1 {
		g.Edges = g.Edges[:len(g.Edges)-1]
	}
	g.ComputeBounds()
	return g
}

// Merge concatenates geometries into one, for static props drawn with a single
// material.
func Merge(parts ...*Geometry) *Geometry {
	out := &Geometry{}
	for _, p := range parts {
		if p == nil {
			continue
		}
		base := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, p.Vertices...)
		for _, i := range p.Indices {
			out.Indices = append(out.Indices, base+i)
		}
	}
	out.ComputeBounds()
	return out
}

// Transformed returns a copy of g with every vertex and normal transformed by t.
func Transformed(g *Geometry, t Transform) *Geometry {
	m := t.Matrix()
	out := &Geometry{
		Vertices: make([]Vertex, len(g.Vertices)),
		Indices:  append([]uint32(nil), g.Indices...),
	}
	for i, v := range g.Vertices {
		v.Pos = TransformPoint(m, v.Pos)
		v.Normal = TransformDir(m, v.Normal)
		out.Vertices[i] = v
	}
	out.ComputeBounds()
	return out
}
