package lighting

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/vclass/softgl"
)

func newSet(t *testing.T) (*Set, *softgl.Scene) {
	t.Helper()
	sc := softgl.NewScene(32, 32)
	return New(sc, DefaultConfig(), nil), sc
}

func TestDefaultLightSet(t *testing.T) {
	s, sc := newSet(t)
	require.Len(t, sc.Lights, 9)

	amb := s.Ambient()
	assert.Equal(t, softgl.LightAmbient, amb.Kind)
	assert.InDelta(t, 0.4, amb.Intensity, 1e-6)

	sun := s.Directional()
	assert.Equal(t, softgl.V3(10, 15, 5), sun.Position)
	assert.InDelta(t, 0.6, sun.Intensity, 1e-6)
	assert.True(t, sun.CastShadow)

	for i := 0; i < 6; i++ {
		c := s.Ceiling(i)
		assert.Equal(t, softgl.LightPoint, c.Kind)
		assert.InDelta(t, 3.8, c.Position[1], 1e-6)
		assert.InDelta(t, 15, c.Distance, 1e-6)
		assert.Equal(t, i < 2, c.CastShadow, "ceiling %d", i)
		assert.True(t, sc.Visible(s.Bulb(i)))
	}

	spot := s.Spot()
	assert.InDelta(t, math32.Pi/6, spot.Angle, 1e-6)
	assert.InDelta(t, 2, spot.Decay, 1e-6)
	assert.Equal(t, softgl.V3(0, 2, -9.5), spot.Target)
}

func TestSetShadowsTogglesCasters(t *testing.T) {
	s, _ := newSet(t)
	s.SetShadows(false)
	assert.False(t, s.Shadows())
	assert.False(t, s.Directional().CastShadow)
	assert.False(t, s.Ceiling(0).CastShadow)
	assert.False(t, s.Ceiling(1).CastShadow)
	assert.False(t, s.Spot().CastShadow)

	s.SetShadows(true)
	assert.True(t, s.Directional().CastShadow)
	assert.True(t, s.Ceiling(1).CastShadow)
	assert.False(t, s.Ceiling(2).CastShadow, "only the first two fixtures cast")
	assert.True(t, s.Spot().CastShadow)
}

func TestHelpersStartHidden(t *testing.T) {
	s, sc := newSet(t)
	require.Len(t, s.Helpers(), 4)
	for _, n := range s.Helpers() {
		assert.False(t, sc.Visible(n))
	}
	s.SetHelpersVisible(true)
	assert.True(t, s.HelpersVisible())
	for _, n := range s.Helpers() {
		assert.True(t, sc.Visible(n))
	}
}

func TestFlickerIsThrottled(t *testing.T) {
	s, _ := newSet(t)
	s.Update(0)
	for i := 0; i < 6; i++ {
		assert.InDelta(t, 0.5+math32.Sin(float32(i))*0.02, s.Ceiling(i).Intensity, 1e-6)
	}

	s.Update(1050 * time.Millisecond)
	first := s.Ceiling(0).Intensity
	assert.InDelta(t, 0.5+math32.Sin(1.05)*0.02, first, 1e-6)

	s.Update(1120 * time.Millisecond)
	assert.Equal(t, first, s.Ceiling(0).Intensity, "applied within 100 ms of the last flicker")

	s.Update(1150 * time.Millisecond)
	assert.InDelta(t, 0.5+math32.Sin(1.15)*0.02, s.Ceiling(0).Intensity, 1e-6)
}

func TestTimeOfDay(t *testing.T) {
	s, _ := newSet(t)
	cases := []struct {
		hour    float32
		sun     float32
		color   uint32
		ceiling float32
	}{
		{0, 0.2, 0xfff5e6, 0.8},
		{6, math32.Sin(math32.Pi/4) * 0.8, 0xfff5e6, 0.3 + (1-math32.Sin(math32.Pi/4))*0.5},
		{12, 0.8, 0xffffff, 0.3},
		{17, math32.Sin(17.0/24*math32.Pi) * 0.8, 0xffffff, 0.3 + (1-math32.Sin(17.0/24*math32.Pi))*0.5},
		{20, math32.Sin(20.0/24*math32.Pi) * 0.8, 0xffdbac, 0.3 + (1-math32.Sin(20.0/24*math32.Pi))*0.5},
	}
	for _, c := range cases {
		s.SetTimeOfDay(c.hour)
		assert.InDelta(t, c.sun, s.Directional().Intensity, 1e-5, "hour %v", c.hour)
		assert.Equal(t, softgl.Hex(c.color), s.Directional().Color, "hour %v", c.hour)
		for i := 0; i < 6; i++ {
			assert.InDelta(t, c.ceiling, s.Ceiling(i).Intensity, 1e-5, "hour %v", c.hour)
		}
	}
}

func TestFlickerFollowsTimeOfDayLevel(t *testing.T) {
	s, _ := newSet(t)
	s.SetTimeOfDay(12)
	s.Update(2 * time.Second)
	assert.InDelta(t, 0.3+math32.Sin(2)*0.02, s.Ceiling(0).Intensity, 1e-6)
}

func TestCycleTimeOfDay(t *testing.T) {
	s, _ := newSet(t)
	var got []float32
	for i := 0; i < 5; i++ {
		got = append(got, s.CycleTimeOfDay())
	}
	assert.Equal(t, []float32{8, 12, 17, 20, 8}, got)
	assert.Equal(t, float32(8), s.Hour())
}
