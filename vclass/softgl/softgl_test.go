package softgl

import (
	"image"
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func newTarget(w, h int) *RGBATarget {
	return &RGBATarget{Buf: make([]byte, w*h*4), Stride: w * 4, W: w, H: h}
}

func unlit(c Color) Material {
	return Material{Color: c, Unlit: true}
}

func TestZeroTransformIsIdentity(t *testing.T) {
	if got := (Transform{}).Matrix(); !got.ApproxEqual(mgl32.Ident4()) {
		t.Fatalf("zero transform = %v, want identity", got)
	}
}

func TestTransformComposesTranslateRotateScale(t *testing.T) {
	tr := At(1, 2, 3).WithRotation(0, math32.Pi/2, 0).WithScale(2, 2, 2)
	got := TransformPoint(tr.Matrix(), V3(1, 0, 0))
	want := V3(1, 2, 1)
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("point = %v, want %v", got, want)
	}
}

func TestAABB(t *testing.T) {
	b := EmptyBox()
	if !b.Empty() {
		t.Fatal("expected empty box")
	}
	b = b.Extend(V3(-1, 0, 2)).Extend(V3(3, 4, -2))
	if b.Center() != V3(1, 2, 0) {
		t.Fatalf("center = %v", b.Center())
	}
	if b.Size() != V3(4, 4, 4) {
		t.Fatalf("size = %v", b.Size())
	}
	if got := b.Clamp(V3(10, -10, 1)); got != V3(3, 0, 1) {
		t.Fatalf("clamp = %v", got)
	}
	moved := b.Transformed(At(1, 0, 0).Matrix())
	if moved.Min != V3(0, 0, -2) || moved.Max != V3(4, 4, 2) {
		t.Fatalf("transformed = %+v", moved)
	}
}

func checkOutwardWinding(t *testing.T, name string, g *Geometry) {
	t.Helper()
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a := g.Vertices[g.Indices[i]]
		b := g.Vertices[g.Indices[i+1]]
		c := g.Vertices[g.Indices[i+2]]
		n := b.Pos.Sub(a.Pos).Cross(c.Pos.Sub(a.Pos))
		if n.Len() == 0 {
			continue
		}
		if n.Dot(a.Normal) <= 0 {
			t.Fatalf("%s: triangle %d winds against its normal", name, i/3)
		}
	}
}

func TestShapesWindCounterClockwise(t *testing.T) {
	checkOutwardWinding(t, "box", Box(1, 2, 3))
	checkOutwardWinding(t, "plane", Plane(2, 1, 3, 2))
	checkOutwardWinding(t, "sphere", Sphere(1, 12, 8, SphereOpts{}))
	checkOutwardWinding(t, "cylinder", Cylinder(0.5, 0.5, 1, 8))
}

func TestBoxBounds(t *testing.T) {
	g := Box(2, 4, 6)
	if g.Bounds.Min != V3(-1, -2, -3) || g.Bounds.Max != V3(1, 2, 3) {
		t.Fatalf("bounds = %+v", g.Bounds)
	}
	if len(g.Vertices) != 24 || len(g.Indices) != 36 {
		t.Fatalf("box has %d vertices, %d indices", len(g.Vertices), len(g.Indices))
	}
}

func TestRenderDrawsFrontFaceAndCullsBackFace(t *testing.T) {
	s := NewScene(1, 1)
	s.Background = RGB(0, 0, 0)
	s.Camera.Target = V3(0, 0, 0)
	s.AddMesh(Mesh{Node: Root, Geometry: Plane(2, 2, 1, 1), Material: unlit(RGB(255, 0, 0))})

	r := NewRenderer(32, 32)
	tg := newTarget(32, 32)

	s.Camera.Position = V3(0, 0, 3)
	r.Render(tg, s)
	if got := tg.Pixel(16, 16); got != RGB(255, 0, 0) {
		t.Fatalf("front view centre = %+v, want red", got)
	}
	if r.Stats.Triangles != 2 {
		t.Fatalf("drew %d triangles, want 2", r.Stats.Triangles)
	}

	s.Camera.Position = V3(0, 0, -3)
	r.Render(tg, s)
	if got := tg.Pixel(16, 16); got != RGB(0, 0, 0) {
		t.Fatalf("back view centre = %+v, want background", got)
	}
	if r.Stats.Culled != 2 {
		t.Fatalf("culled %d triangles, want 2", r.Stats.Culled)
	}
}

func TestRenderDepthKeepsNearestSurface(t *testing.T) {
	s := NewScene(2, 2)
	s.Camera.Position = V3(0, 0, 3)
	near := s.AddNode(Root, At(0, 0, 0.5))
	far := s.AddNode(Root, At(0, 0, 0))
	s.AddMesh(Mesh{Node: near, Geometry: Plane(1, 1, 1, 1), Material: unlit(RGB(255, 0, 0))})
	s.AddMesh(Mesh{Node: far, Geometry: Plane(2, 2, 1, 1), Material: unlit(RGB(0, 0, 255))})

	tg := newTarget(32, 32)
	NewRenderer(32, 32).Render(tg, s)
	if got := tg.Pixel(16, 16); got != RGB(255, 0, 0) {
		t.Fatalf("centre = %+v, want red", got)
	}
	if got := tg.Pixel(8, 16); got != RGB(0, 0, 255) {
		t.Fatalf("edge = %+v, want blue", got)
	}
}

func TestRenderClipsGeometryBehindCamera(t *testing.T) {
	s := NewScene(1, 1)
	s.Background = RGB(0, 0, 0)
	s.Camera.Position = V3(0, 1, 0)
	s.Camera.Target = V3(0, 1, -5)
	floor := s.AddNode(Root, Transform{Rotation: V3(-math32.Pi/2, 0, 0)})
	s.AddMesh(Mesh{Node: floor, Geometry: Plane(40, 40, 1, 1), Material: unlit(RGB(0, 255, 0))})

	tg := newTarget(32, 32)
	NewRenderer(32, 32).Render(tg, s)
	if got := tg.Pixel(16, 30); got != RGB(0, 255, 0) {
		t.Fatalf("below horizon = %+v, want floor", got)
	}
	if got := tg.Pixel(16, 2); got != RGB(0, 0, 0) {
		t.Fatalf("above horizon = %+v, want background", got)
	}
}

func TestHiddenParentHidesChildren(t *testing.T) {
	s := NewScene(2, 1)
	s.Camera.Position = V3(0, 0, 3)
	group := s.AddNode(Root, Transform{})
	child := s.AddNode(group, Transform{})
	s.AddMesh(Mesh{Node: child, Geometry: Plane(2, 2, 1, 1), Material: unlit(RGB(255, 0, 0))})
	s.SetVisible(group, false)

	if s.Visible(child) {
		t.Fatal("child of hidden group reported visible")
	}
	tg := newTarget(16, 16)
	r := NewRenderer(16, 16)
	r.Render(tg, s)
	if r.Stats.Triangles != 0 {
		t.Fatalf("drew %d triangles under hidden group", r.Stats.Triangles)
	}
}

func TestSceneBoundsFollowHierarchy(t *testing.T) {
	s := NewScene(2, 1)
	group := s.AddNode(Root, At(2, 0, 0))
	arm := s.AddNode(group, At(0, 1, 0))
	s.AddMesh(Mesh{Node: arm, Geometry: Box(1, 1, 1)})

	b := s.Bounds(group)
	if !b.Center().ApproxEqual(V3(2, 1, 0)) {
		t.Fatalf("centre = %v", b.Center())
	}
	if !s.Bounds(s.AddNode(Root, Transform{})).Empty() {
		t.Fatal("empty subtree should have empty bounds")
	}
}

func TestDirectionalLightFacesSurface(t *testing.T) {
	r := &Renderer{}
	r.prepareLights([]Light{
		{Kind: LightDirectional, Color: RGB(255, 255, 255), Intensity: 1, Position: V3(0, 10, 0)},
	})
	up, _ := r.shade(V3(0, 0, 0), V3(0, 1, 0), false, false)
	down, _ := r.shade(V3(0, 0, 0), V3(0, -1, 0), false, false)
	if !up.ApproxEqual(V3(1, 1, 1)) {
		t.Fatalf("lit side = %v", up)
	}
	if down != (Vec3{}) {
		t.Fatalf("unlit side = %v", down)
	}
	if two, _ := r.shade(V3(0, 0, 0), V3(0, -1, 0), true, false); !two.ApproxEqual(V3(1, 1, 1)) {
		t.Fatalf("two-sided = %v", two)
	}
}

// shadowScene is a receiving floor under a casting slab, lit by a slanted sun
// and seen from straight above. The slab's shadow falls around x = -1.
func shadowScene(cast bool) *Scene {
	sc := NewScene(4, 4)
	sc.Camera = Camera{Position: V3(0, 10, 0), Up: V3(0, 0, -1), FOVYRad: math32.Pi / 3, Near: 0.1, Far: 50}
	floor := sc.AddNode(Root, Transform{}.WithRotation(-math32.Pi/2, 0, 0))
	sc.AddMesh(Mesh{Node: floor, Geometry: Plane(10, 10, 1, 1), Material: Material{Color: RGB(255, 255, 255), ReceiveShadow: true}})
	slab := sc.AddNode(Root, At(0, 2, 0))
	sc.AddMesh(Mesh{Node: slab, Geometry: Box(2, 0.2, 2), Material: Material{Color: RGB(255, 255, 255), CastShadow: true}})
	sc.Lights = append(sc.Lights, Light{
		Kind: LightDirectional, Color: RGB(255, 255, 255), Intensity: 1,
		Position: V3(5, 10, 0), CastShadow: cast,
	})
	return sc
}

func TestDirectionalShadowDarkensReceiver(t *testing.T) {
	const size = 64
	// World x = -1.5 and x = 3 on the z = 0 row.
	shadowPx, litPx := 23, 48

	r := NewRenderer(size, size)
	tgt := newTarget(size, size)
	r.Render(tgt, shadowScene(true))
	if r.Stats.ShadowLights != 1 {
		t.Fatalf("shadow lights = %d, want 1", r.Stats.ShadowLights)
	}
	lit := tgt.Pixel(litPx, size/2)
	if lit.R < 200 {
		t.Fatalf("open floor = %v, want lit", lit)
	}
	if got := tgt.Pixel(shadowPx, size/2); got.R > 20 {
		t.Fatalf("floor under slab = %v, want shadowed", got)
	}

	r.Render(tgt, shadowScene(false))
	if r.Stats.ShadowLights != 0 {
		t.Fatalf("shadow lights = %d, want 0", r.Stats.ShadowLights)
	}
	if got := tgt.Pixel(shadowPx, size/2); absInt(int(got.R)-int(lit.R)) > 2 {
		t.Fatalf("floor with shadows off = %v, want about %v", got, lit)
	}
}

func TestShadowMapCoversOnlyItsFrustum(t *testing.T) {
	var ls lightShadow
	ls.setup(Light{Kind: LightSpot, Position: V3(0, 5, 0), Angle: math32.Pi / 8, Distance: 10})
	g := Box(1, 0.1, 1)
	for i := range ls.faces {
		ls.faces[i].drawCaster(g, At(0, 3, 0).Matrix(), nil)
	}
	if !ls.shadowed(V3(0, 0, 0)) {
		t.Fatal("point below the caster is lit")
	}
	if ls.shadowed(V3(0, 4, 0)) {
		t.Fatal("point between caster and light is shadowed")
	}
	if ls.shadowed(V3(6, 0, 0)) {
		t.Fatal("point outside the cone is shadowed")
	}

	ls.setup(Light{Kind: LightPoint, Position: V3(0, 3, 0), Distance: 10})
	if len(ls.faces) != 6 {
		t.Fatalf("point light faces = %d", len(ls.faces))
	}
	for i := range ls.faces {
		ls.faces[i].drawCaster(g, At(2, 3, 0).Matrix(), nil)
	}
	if !ls.shadowed(V3(4, 3, 0)) {
		t.Fatal("point behind the side caster is lit")
	}
	if ls.shadowed(V3(0, 0, 0)) {
		t.Fatal("point below the light is shadowed")
	}
}

func TestSpotLightConeAndRange(t *testing.T) {
	r := &Renderer{}
	r.prepareLights([]Light{{
		Kind: LightSpot, Color: RGB(255, 255, 255), Intensity: 1,
		Position: V3(0, 5, 0), Target: V3(0, 0, 0),
		Angle: math32.Pi / 6, Distance: 10, Decay: 1,
	}})
	inside, _ := r.shade(V3(0, 0, 0), V3(0, 1, 0), false, false)
	outside, _ := r.shade(V3(8, 0, 0), V3(0, 1, 0), false, false)
	if inside[0] <= 0 {
		t.Fatalf("point under spot unlit: %v", inside)
	}
	if outside != (Vec3{}) {
		t.Fatalf("point outside cone lit: %v", outside)
	}
}

func TestTextureSamplesWithRepeat(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	img.Set(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	tex := NewTexture(img)

	// v = 0 is the bottom row.
	if c, _ := tex.Sample(0, 0.25, 0.25); c != V3(0, 0, 1) {
		t.Fatalf("bottom-left = %v", c)
	}
	if c, _ := tex.Sample(0, 1.25, 0.75); c != V3(1, 0, 0) {
		t.Fatalf("wrapped top-left = %v", c)
	}
	if w, h := tex.Size(); w != 2 || h != 2 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if n := len(tex.levels); n != 2 {
		t.Fatalf("mip levels = %d, want 2", n)
	}
}
