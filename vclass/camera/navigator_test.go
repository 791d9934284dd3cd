package camera

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/vclass/softgl"
)

const ms = time.Millisecond

func assertVec(t *testing.T, want, got softgl.Vec3, msg string) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-4, "%s axis %d: want %v got %v", msg, i, want, got)
	}
}

func TestEaseInOutQuad(t *testing.T) {
	assert.Equal(t, float32(0), EaseInOutQuad(0))
	assert.Equal(t, float32(1), EaseInOutQuad(1))
	assert.InDelta(t, 0.125, EaseInOutQuad(0.25), 1e-6)
	assert.InDelta(t, 0.5, EaseInOutQuad(0.5), 1e-6)
	assert.InDelta(t, 0.875, EaseInOutQuad(0.75), 1e-6)
}

func TestTransitionFollowsEasedBlend(t *testing.T) {
	cfg := DefaultConfig()
	n := New(cfg, nil)
	n.Update(0)
	from := n.Pose()
	n.FocusBoard()
	require.True(t, n.Transitioning())

	n.Update(375 * ms)
	eased := softgl.Lerp3(from.Position, cfg.Board.Position, 0.125)
	linear := softgl.Lerp3(from.Position, cfg.Board.Position, 0.25)
	assertVec(t, eased, n.Pose().Position, "quarter")
	assert.NotEqual(t, linear, n.Pose().Position)

	n.Update(750 * ms)
	assertVec(t, softgl.Lerp3(from.Position, cfg.Board.Position, EaseInOutQuad(0.5)), n.Pose().Position, "half")
	assertVec(t, softgl.Lerp3(from.Target, cfg.Board.Target, EaseInOutQuad(0.5)), n.Pose().Target, "half target")

	n.Update(1500 * ms)
	assertVec(t, cfg.Board.Position, n.Pose().Position, "end")
	assertVec(t, cfg.Board.Target, n.Pose().Target, "end target")
	assert.False(t, n.Transitioning())
}

func TestLastTransitionWins(t *testing.T) {
	cfg := DefaultConfig()
	n := New(cfg, nil)
	n.Update(0)
	n.FocusBoard()
	n.Update(500 * ms)
	mid := n.Pose()
	n.Reset()
	n.Update(500 * ms)
	assertVec(t, mid.Position, n.Pose().Position, "restart")

	n.Update(2000 * ms)
	assertVec(t, cfg.Home.Position, n.Pose().Position, "home")
	assertVec(t, cfg.Home.Target, n.Pose().Target, "home target")
}

func TestTransitionIgnoresPointerInput(t *testing.T) {
	cfg := DefaultConfig()
	n := New(cfg, nil)
	n.Update(0)
	n.FocusBoard()
	n.Rotate(500, 300, 480)
	n.Zoom(20)
	n.Update(1500 * ms)
	assertVec(t, cfg.Board.Position, n.Pose().Position, "end")
}

func TestUpdateKeepsPositionInsideRoom(t *testing.T) {
	cfg := DefaultConfig()
	n := New(cfg, nil)
	rng := rand.New(rand.NewPCG(1, 2))
	now := time.Duration(0)
	for i := 0; i < 2000; i++ {
		switch rng.IntN(4) {
		case 0:
			n.Rotate(rng.Float32()*4000-2000, rng.Float32()*4000-2000, 480)
		case 1:
			n.Zoom(rng.Float32()*40 - 20)
		case 2:
			n.Pan(rng.Float32()*4000-2000, rng.Float32()*4000-2000, 480)
		case 3:
			if rng.IntN(10) == 0 {
				n.FocusOnObject(softgl.BoxFrom(softgl.V3(-50, -50, -50), softgl.V3(50, 50, 50)), 3)
			}
		}
		now += 16 * ms
		n.Update(now)
		p := n.Pose().Position
		require.True(t, cfg.Bounds.Contains(p), "frame %d: %v outside room", i, p)
	}
}

func TestZoomRespectsMinimumDistance(t *testing.T) {
	n := New(DefaultConfig(), nil)
	for i := 0; i < 200; i++ {
		n.Zoom(10)
		n.Update(time.Duration(i) * 16 * ms)
	}
	p := n.Pose()
	assert.InDelta(t, 3, p.Position.Sub(p.Target).Len(), 1e-3)
}

func TestPolarAngleStaysAboveFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bounds = softgl.BoxFrom(softgl.V3(-100, -100, -100), softgl.V3(100, 100, 100))
	n := New(cfg, nil)
	for i := 0; i < 500; i++ {
		n.Rotate(0, 5000, 480)
		n.Update(time.Duration(i) * 16 * ms)
	}
	p := n.Pose()
	off := p.Position.Sub(p.Target)
	polar := math32.Acos(off[1] / off.Len())
	assert.LessOrEqual(t, polar, cfg.MaxPolar+1e-4)
	assert.GreaterOrEqual(t, polar, cfg.MinPolar-1e-4)
}

func TestFocusOnObjectFramesLargestExtent(t *testing.T) {
	n := New(DefaultConfig(), nil)
	n.Update(0)
	center := softgl.V3(0, 1.5, 0)
	n.FocusOnObject(softgl.BoxFrom(center.Sub(softgl.V3(0.5, 0.5, 0.5)), center.Add(softgl.V3(0.5, 0.5, 0.5))), 1)
	n.Update(2 * time.Second)

	// 1 / sin(30°) = 2.
	want := center.Add(softgl.Normalize(softgl.V3(0, 0.3, 1)).Mul(2))
	assertVec(t, want, n.Pose().Position, "position")
	assertVec(t, center, n.Pose().Target, "target")
}

func TestFocusOnDegenerateObjectUsesDefaultDistance(t *testing.T) {
	cfg := DefaultConfig()
	n := New(cfg, nil)
	n.Update(0)
	p := softgl.V3(0, 1.5, 0)
	n.FocusOnObject(softgl.BoxFrom(p, p), 2)
	n.Update(2 * time.Second)
	assert.InDelta(t, cfg.FocusDistance, n.Pose().Position.Sub(p).Len(), 1e-4)

	before := n.Pose().Target
	n.FocusOnObject(softgl.EmptyBox(), 2)
	n.Update(4 * time.Second)
	assertVec(t, before, n.Pose().Target, "empty box keeps target")
}

func TestDisabledNavigatorIgnoresPointer(t *testing.T) {
	n := New(DefaultConfig(), nil)
	n.Update(0)
	before := n.Pose()
	n.SetEnabled(false)
	n.Rotate(300, 0, 480)
	n.Zoom(5)
	n.Update(16 * ms)
	assertVec(t, before.Position, n.Pose().Position, "disabled")
}

func TestAutoRotateOrbitsAroundTarget(t *testing.T) {
	n := New(DefaultConfig(), nil)
	n.SetAutoRotate(true)
	require.True(t, n.AutoRotate())
	n.Update(0)
	start := n.Pose().Position
	for i := 1; i < 120; i++ {
		n.Update(time.Duration(i) * 16 * ms)
	}
	assert.NotEqual(t, start[0], n.Pose().Position[0])
	assert.Equal(t, DefaultConfig().Home.Target, n.Pose().Target)
}
