package docview

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// matrix is a PDF affine transform [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns a·b: apply a first, then b.
func (a matrix) mul(b matrix) matrix {
	return matrix{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}

func (a matrix) apply(x, y float64) (float64, float64) {
	return a[0]*x + a[2]*y + a[4], a[1]*x + a[3]*y + a[5]
}

// scale is the mean linear scale factor of the transform.
func (a matrix) scale() float64 {
	return math.Sqrt(math.Abs(a[0]*a[3] - a[1]*a[2]))
}

type point struct{ x, y float64 }

type subpath struct {
	pts    []point
	closed bool
}

type textState struct {
	font      pdfName
	size      float64
	charSpace float64
	wordSpace float64
	hscale    float64
	leading   float64
	rise      float64
}

type graphicsState struct {
	ctm       matrix
	fill      color.RGBA
	stroke    color.RGBA
	lineWidth float64
	text      textState
}

const (
	maxStateDepth = 256
	curveSteps    = 16
)

// painter interprets one page content stream onto a raster. Page space maps
// to raster space through base, which flips y and applies the fit placement.
type painter struct {
	dst   *image.RGBA
	base  matrix
	gs    graphicsState
	stack []graphicsState

	tm, tlm matrix

	path       []subpath
	cur        *subpath
	curX, curY float64 // current point in user space
	startX     float64
	startY     float64

	rast      *vector.Rasterizer
	faces     *faceCache
	fontNames map[string]string
}

func newPainter(dst *image.RGBA, pageH float64, p Placement, faces *faceCache, fontNames map[string]string) *painter {
	b := dst.Bounds()
	return &painter{
		dst:  dst,
		base: matrix{p.Scale, 0, 0, -p.Scale, p.OffsetX, p.OffsetY + pageH*p.Scale},
		gs: graphicsState{
			ctm:       identity,
			fill:      color.RGBA{A: 255},
			stroke:    color.RGBA{A: 255},
			lineWidth: 1,
			text:      textState{hscale: 100},
		},
		tm:        identity,
		tlm:       identity,
		rast:      vector.NewRasterizer(b.Dx(), b.Dy()),
		faces:     faces,
		fontNames: fontNames,
	}
}

// run interprets the whole stream. Tokenizer errors abort the page.
func (p *painter) run(content []byte) error {
	lx := newContentLexer(content)
	for {
		op, err := lx.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		p.do(op)
	}
}

func (p *painter) do(op operation) {
	args := op.Operands
	switch op.Operator {
	case "q":
		if len(p.stack) < maxStateDepth {
			p.stack = append(p.stack, p.gs)
		}
	case "Q":
		if n := len(p.stack); n > 0 {
			p.gs = p.stack[n-1]
			p.stack = p.stack[:n-1]
		}
	case "cm":
		if m, ok := matrixArg(args); ok {
			p.gs.ctm = m.mul(p.gs.ctm)
		}
	case "w":
		if v, ok := nums(args, 1); ok {
			p.gs.lineWidth = v[0]
		}

	case "g", "G", "rg", "RG", "k", "K", "sc", "SC", "scn", "SCN":
		p.setColor(op.Operator, args)

	case "m":
		if v, ok := nums(args, 2); ok {
			p.moveTo(v[0], v[1])
		}
	case "l":
		if v, ok := nums(args, 2); ok {
			p.lineTo(v[0], v[1])
		}
	case "c":
		if v, ok := nums(args, 6); ok {
			p.curveTo(v[0], v[1], v[2], v[3], v[4], v[5])
		}
	case "v":
		if v, ok := nums(args, 4); ok {
			p.curveTo(p.curX, p.curY, v[0], v[1], v[2], v[3])
		}
	case "y":
		if v, ok := nums(args, 4); ok {
			p.curveTo(v[0], v[1], v[2], v[3], v[2], v[3])
		}
	case "h":
		p.closePath()
	case "re":
		if v, ok := nums(args, 4); ok {
			x, y, w, h := v[0], v[1], v[2], v[3]
			p.moveTo(x, y)
			p.lineTo(x+w, y)
			p.lineTo(x+w, y+h)
			p.lineTo(x, y+h)
			p.closePath()
		}
	case "f", "F", "f*":
		p.fillPath()
		p.endPath()
	case "S":
		p.strokePath()
		p.endPath()
	case "s":
		p.closePath()
		p.strokePath()
		p.endPath()
	case "B", "B*":
		p.fillPath()
		p.strokePath()
		p.endPath()
	case "b", "b*":
		p.closePath()
		p.fillPath()
		p.strokePath()
		p.endPath()
	case "n":
		p.endPath()

	case "BT":
		p.tm, p.tlm = identity, identity
	case "Tc":
		if v, ok := nums(args, 1); ok {
			p.gs.text.charSpace = v[0]
		}
	case "Tw":
		if v, ok := nums(args, 1); ok {
			p.gs.text.wordSpace = v[0]
		}
	case "Tz":
		if v, ok := nums(args, 1); ok {
			p.gs.text.hscale = v[0]
		}
	case "TL":
		if v, ok := nums(args, 1); ok {
			p.gs.text.leading = v[0]
		}
	case "Ts":
		if v, ok := nums(args, 1); ok {
			p.gs.text.rise = v[0]
		}
	case "Tf":
		if len(args) == 2 {
			if n, ok := args[0].(pdfName); ok {
				p.gs.text.font = n
			}
			if s, ok := args[1].(float64); ok {
				p.gs.text.size = s
			}
		}
	case "Td":
		if v, ok := nums(args, 2); ok {
			p.newLine(v[0], v[1])
		}
	case "TD":
		if v, ok := nums(args, 2); ok {
			p.gs.text.leading = -v[1]
			p.newLine(v[0], v[1])
		}
	case "Tm":
		if m, ok := matrixArg(args); ok {
			p.tm, p.tlm = m, m
		}
	case "T*":
		p.newLine(0, -p.gs.text.leading)
	case "Tj":
		if len(args) == 1 {
			p.showText(args[0])
		}
	case "TJ":
		if len(args) == 1 {
			if arr, ok := args[0].([]any); ok {
				for _, el := range arr {
					if n, ok := el.(float64); ok {
						p.advance(-n / 1000 * p.gs.text.size * p.gs.text.hscale / 100)
						continue
					}
					p.showText(el)
				}
			}
		}
	case "'":
		if len(args) == 1 {
			p.newLine(0, -p.gs.text.leading)
			p.showText(args[0])
		}
	case "\"":
		if len(args) == 3 {
			if v, ok := nums(args[:2], 2); ok {
				p.gs.text.wordSpace, p.gs.text.charSpace = v[0], v[1]
			}
			p.newLine(0, -p.gs.text.leading)
			p.showText(args[2])
		}
	}
}

func nums(args []any, n int) ([]float64, bool) {
	if len(args) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, a := range args {
		f, ok := a.(float64)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

func matrixArg(args []any) (matrix, bool) {
	v, ok := nums(args, 6)
	if !ok {
		return matrix{}, false
	}
	return matrix{v[0], v[1], v[2], v[3], v[4], v[5]}, true
}

func (p *painter) setColor(opName string, args []any) {
	stroke := opName[0] >= 'A' && opName[0] <= 'Z'
	var v []float64
	for _, a := range args {
		if f, ok := a.(float64); ok {
			v = append(v, f)
		}
	}
	var c color.RGBA
	switch len(v) {
	case 1:
		g := unit(v[0])
		c = color.RGBA{g, g, g, 255}
	case 3:
		c = color.RGBA{unit(v[0]), unit(v[1]), unit(v[2]), 255}
	case 4:
		k := 1 - clamp01(v[3])
		c = color.RGBA{
			unit((1 - clamp01(v[0])) * k),
			unit((1 - clamp01(v[1])) * k),
			unit((1 - clamp01(v[2])) * k),
			255,
		}
	default:
		return
	}
	if stroke {
		p.gs.stroke = c
	} else {
		p.gs.fill = c
	}
}

func clamp01(v float64) float64 { return min(max(v, 0), 1) }

func unit(v float64) uint8 { return uint8(math.Round(clamp01(v) * 255)) }

func (p *painter) device(x, y float64) point {
	dx, dy := p.gs.ctm.mul(p.base).apply(x, y)
	return point{dx, dy}
}

func (p *painter) moveTo(x, y float64) {
	p.path = append(p.path, subpath{pts: []point{p.device(x, y)}})
	p.cur = &p.path[len(p.path)-1]
	p.curX, p.curY = x, y
	p.startX, p.startY = x, y
}

func (p *painter) lineTo(x, y float64) {
	if p.cur == nil {
		p.moveTo(x, y)
		return
	}
	p.cur.pts = append(p.cur.pts, p.device(x, y))
	p.curX, p.curY = x, y
}

func (p *painter) curveTo(x1, y1, x2, y2, x3, y3 float64) {
	if p.cur == nil {
		p.moveTo(x1, y1)
	}
	x0, y0 := p.curX, p.curY
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
		p.cur.pts = append(p.cur.pts, p.device(
			a*x0+b*x1+c*x2+d*x3,
			a*y0+b*y1+c*y2+d*y3,
		))
	}
	p.curX, p.curY = x3, y3
}

func (p *painter) closePath() {
	if p.cur == nil {
		return
	}
	p.cur.closed = true
	p.curX, p.curY = p.startX, p.startY
	p.cur = nil
}

func (p *painter) endPath() {
	p.path = p.path[:0]
	p.cur = nil
}

func (p *painter) fillPath() {
	drew := false
	for _, sp := range p.path {
		if len(sp.pts) < 3 {
			continue
		}
		if !drew {
			p.resetRaster()
			drew = true
		}
		p.polygon(sp.pts)
	}
	if drew {
		p.flush(p.gs.fill)
	}
}

func (p *painter) strokePath() {
	hw := max(p.gs.lineWidth*p.gs.ctm.mul(p.base).scale(), 1) / 2
	drew := false
	for _, sp := range p.path {
		pts := sp.pts
		if sp.closed && len(pts) > 1 {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		for i := 1; i < len(pts); i++ {
			q, ok := segmentQuad(pts[i-1], pts[i], hw)
			if !ok {
				continue
			}
			if !drew {
				p.resetRaster()
				drew = true
			}
			p.polygon(q[:])
		}
	}
	if drew {
		p.flush(p.gs.stroke)
	}
}

// segmentQuad widens a segment into a rectangle with square caps. The quad
// always winds the same way so overlapping pieces never cancel.
func segmentQuad(a, b point, hw float64) ([4]point, bool) {
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return [4]point{}, false
	}
	ux, uy := dx/l*hw, dy/l*hw
	nx, ny := -uy, ux
	a = point{a.x - ux, a.y - uy}
	b = point{b.x + ux, b.y + uy}
	return [4]point{
		{a.x + nx, a.y + ny},
		{b.x + nx, b.y + ny},
		{b.x - nx, b.y - ny},
		{a.x - nx, a.y - ny},
	}, true
}

func (p *painter) resetRaster() {
	b := p.dst.Bounds()
	p.rast.Reset(b.Dx(), b.Dy())
}

// polygon adds a closed contour clipped to the raster, so the rasterizer
// never sees far out-of-range coordinates.
func (p *painter) polygon(pts []point) {
	b := p.dst.Bounds()
	local := make([]point, 0, len(pts))
	for _, q := range pts {
		if !finite(q.x) || !finite(q.y) {
			return
		}
		local = append(local, point{q.x - float64(b.Min.X), q.y - float64(b.Min.Y)})
	}
	clipped := clipPolygon(local, float64(b.Dx()), float64(b.Dy()))
	if len(clipped) < 3 {
		return
	}
	p.rast.MoveTo(float32(clipped[0].x), float32(clipped[0].y))
	for _, q := range clipped[1:] {
		p.rast.LineTo(float32(q.x), float32(q.y))
	}
	p.rast.ClosePath()
}

// clipPolygon clips a closed contour to [0, w]×[0, h] one edge of the
// rectangle at a time (Sutherland-Hodgman). Edges keep their direction, so the
// winding of the visible part is unchanged.
func clipPolygon(pts []point, w, h float64) []point {
	edges := []struct {
		inside func(point) bool
		cross  func(a, b point) point
	}{
		{func(q point) bool { return q.x >= 0 }, func(a, b point) point { return atX(a, b, 0) }},
		{func(q point) bool { return q.x <= w }, func(a, b point) point { return atX(a, b, w) }},
		{func(q point) bool { return q.y >= 0 }, func(a, b point) point { return atY(a, b, 0) }},
		{func(q point) bool { return q.y <= h }, func(a, b point) point { return atY(a, b, h) }},
	}
	out := pts
	for _, e := range edges {
		if len(out) == 0 {
			return nil
		}
		in := out
		out = make([]point, 0, len(in)+4)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch ci, pi := e.inside(cur), e.inside(prev); {
			case ci && pi:
				out = append(out, cur)
			case ci:
				out = append(out, e.cross(prev, cur), cur)
			case pi:
				out = append(out, e.cross(prev, cur))
			}
			prev = cur
		}
	}
	return out
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func atX(a, b point, x float64) point {
	t := (x - a.x) / (b.x - a.x)
	return point{x, a.y + (b.y-a.y)*t}
}

func atY(a, b point, y float64) point {
	t := (y - a.y) / (b.y - a.y)
	return point{a.x + (b.x-a.x)*t, y}
}

func (p *painter) flush(c color.RGBA) {
	p.rast.DrawOp = draw.Over
	p.rast.Draw(p.dst, p.dst.Bounds(), image.NewUniform(c), image.Point{})
}

// onRaster reports whether a glyph of size px at baseline (x, y) can touch
// the raster.
func (p *painter) onRaster(x, y, px float64) bool {
	b := p.dst.Bounds()
	return x > float64(b.Min.X)-px && x < float64(b.Max.X)+px &&
		y > float64(b.Min.Y)-px && y < float64(b.Max.Y)+2*px
}

func (p *painter) newLine(tx, ty float64) {
	p.tlm = matrix{1, 0, 0, 1, tx, ty}.mul(p.tlm)
	p.tm = p.tlm
}

// advance moves the text matrix tx units along the baseline.
func (p *painter) advance(tx float64) {
	p.tm = matrix{1, 0, 0, 1, tx, 0}.mul(p.tm)
}

// showText draws a string operand glyph by glyph with a Go font standing in
// for the page font. Bytes are read as Latin-1.
func (p *painter) showText(v any) {
	s, ok := v.([]byte)
	if !ok || len(s) == 0 {
		return
	}
	ts := p.gs.text
	th := ts.hscale / 100
	toDevice := p.tm.mul(p.gs.ctm).mul(p.base)
	px := ts.size * toDevice.scale()
	fam := familyFor(p.fontNames[string(ts.font)])
	face := p.faces.face(fam, px)

	src := image.NewUniform(p.gs.fill)
	for _, ch := range s {
		r := rune(ch)
		var w0 float64
		if face != nil {
			adv, ok := face.GlyphAdvance(r)
			if !ok {
				adv, _ = face.GlyphAdvance('?')
			}
			w0 = float64(adv) / 64 / float64(max(int(math.Round(min(px, maxFacePx))), 1))
			m := p.tm.mul(p.gs.ctm).mul(p.base)
			x, y := m.apply(0, ts.rise)
			if r != ' ' && p.onRaster(x, y, px) {
				d := font.Drawer{
					Dst:  p.dst,
					Src:  src,
					Face: face,
					Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
				}
				d.DrawString(string(r))
			}
		} else {
			w0 = 0.5
		}
		tx := w0*ts.size + ts.charSpace
		if ch == ' ' {
			tx += ts.wordSpace
		}
		p.advance(tx * th)
	}
}
