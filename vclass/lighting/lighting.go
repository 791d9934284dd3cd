// Package lighting owns the classroom's fixed light set: ambient fill, the
// sun, six ceiling fixtures and the board spot, plus the visual bulbs and the
// optional wire helpers that show where each light sits.
package lighting

import (
	"log/slog"
	"time"

	"github.com/chewxy/math32"

	"classroom/vclass/softgl"
)

// Config selects the initial presets.
type Config struct {
	FlickerInterval time.Duration
	Shadows         bool
	Helpers         bool
}

func DefaultConfig() Config {
	return Config{FlickerInterval: 100 * time.Millisecond, Shadows: true}
}

const (
	ceilingY         = 3.8
	ceilingIntensity = 0.5
	flickerAmount    = 0.02
	shadowCeilings   = 2
)

// CeilingPositions are the (x, z) fixture positions.
var CeilingPositions = [6][2]float32{{-5, -3}, {0, -3}, {5, -3}, {-5, 3}, {0, 3}, {5, 3}}

// Hours is the time-of-day preset cycle.
var Hours = [...]float32{8, 12, 17, 20}

// Set is the light set. Light records live in the scene's Lights slice and
// are addressed by index.
type Set struct {
	log   *slog.Logger
	scene *softgl.Scene
	cfg   Config

	ambient     int
	directional int
	spot        int
	ceiling     [6]int

	bulbs   [6]softgl.NodeID
	helpers []softgl.NodeID

	shadows   bool
	helpersOn bool

	// ceilingBase is the level flicker oscillates around.
	ceilingBase float32
	lastFlicker time.Duration
	flickered   bool

	hourIdx int
	hour    float32
}

// New adds the light set, bulbs and hidden helpers to scene.
func New(scene *softgl.Scene, cfg Config, log *slog.Logger) *Set {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.FlickerInterval <= 0 {
		cfg.FlickerInterval = DefaultConfig().FlickerInterval
	}
	s := &Set{
		log:         log.With("component", "lighting"),
		scene:       scene,
		cfg:         cfg,
		ceilingBase: ceilingIntensity,
		hourIdx:     -1,
	}

	s.ambient = s.add(softgl.Light{Kind: softgl.LightAmbient, Color: softgl.Hex(0xffffff), Intensity: 0.4})
	s.directional = s.add(softgl.Light{
		Kind:       softgl.LightDirectional,
		Color:      softgl.Hex(0xffffff),
		Intensity:  0.6,
		Position:   softgl.V3(10, 15, 5),
		CastShadow: true,
	})
	s.addHelper(directionalHelper(softgl.V3(10, 15, 5), softgl.Vec3{}, 1), softgl.Hex(0xffffff))

	bulb := softgl.Sphere(0.1, 8, 8, softgl.SphereOpts{})
	for i, p := range CeilingPositions {
		pos := softgl.V3(p[0], ceilingY, p[1])
		s.ceiling[i] = s.add(softgl.Light{
			Kind:       softgl.LightPoint,
			Color:      softgl.Hex(0xfff5e6),
			Intensity:  ceilingIntensity,
			Position:   pos,
			Distance:   15,
			CastShadow: i < shadowCeilings,
		})
		s.bulbs[i] = scene.AddNode(softgl.Root, softgl.At(pos[0], pos[1], pos[2]))
		scene.AddMesh(softgl.Mesh{
			Node:     s.bulbs[i],
			Geometry: bulb,
			Material: softgl.Material{Color: softgl.Hex(0xffffee), Unlit: true},
		})
		if i < shadowCeilings {
			s.addHelper(pointHelper(pos, 0.3), softgl.Hex(0xfff5e6))
		}
	}

	spot := softgl.Light{
		Kind:       softgl.LightSpot,
		Color:      softgl.Hex(0xffffff),
		Intensity:  0.8,
		Position:   softgl.V3(0, 3.5, -6),
		Target:     softgl.V3(0, 2, -9.5),
		Angle:      math32.Pi / 6,
		Penumbra:   0.3,
		Decay:      2,
		Distance:   10,
		CastShadow: true,
	}
	s.spot = s.add(spot)
	s.addHelper(spotHelper(spot.Position, spot.Target, spot.Angle, spot.Distance), softgl.Hex(0xffffff))

	s.SetShadows(cfg.Shadows)
	s.SetHelpersVisible(cfg.Helpers)
	return s
}

func (s *Set) add(l softgl.Light) int {
	s.scene.Lights = append(s.scene.Lights, l)
	return len(s.scene.Lights) - 1
}

func (s *Set) addHelper(g *softgl.Geometry, c softgl.Color) {
	n := s.scene.AddNode(softgl.Root, softgl.Transform{})
	s.scene.AddMesh(softgl.Mesh{Node: n, Geometry: g, Material: softgl.Material{Color: c, Wire: true, Unlit: true}})
	s.scene.SetVisible(n, false)
	s.helpers = append(s.helpers, n)
}

func (s *Set) light(i int) *softgl.Light { return &s.scene.Lights[i] }

// SetShadows toggles shadow casting on the sun, the first two ceiling
// fixtures and the board spot.
func (s *Set) SetShadows(on bool) {
	s.shadows = on
	s.light(s.directional).CastShadow = on
	for i := 0; i < shadowCeilings; i++ {
		s.light(s.ceiling[i]).CastShadow = on
	}
	s.light(s.spot).CastShadow = on
	s.log.Info("shadows", "enabled", on)
}

func (s *Set) Shadows() bool { return s.shadows }

// SetHelpersVisible shows or hides the wire helpers.
func (s *Set) SetHelpersVisible(on bool) {
	s.helpersOn = on
	for _, n := range s.helpers {
		s.scene.SetVisible(n, on)
	}
}

func (s *Set) HelpersVisible() bool { return s.helpersOn }

// Helpers returns the helper node ids.
func (s *Set) Helpers() []softgl.NodeID { return s.helpers }

// Update applies ceiling flicker for frame time now, at most once per flicker
// interval: ceiling i becomes base + sin(t+i)·0.02.
func (s *Set) Update(now time.Duration) {
	if s.flickered && now-s.lastFlicker < s.cfg.FlickerInterval {
		return
	}
	s.flickered = true
	s.lastFlicker = now
	t := float32(now.Seconds())
	for i, idx := range s.ceiling {
		s.light(idx).Intensity = s.ceilingBase + math32.Sin(t+float32(i))*flickerAmount
	}
	s.log.Debug("flicker", "t", t)
}

// SetTimeOfDay sets the sun and ceiling levels for an hour in [0, 24).
func (s *Set) SetTimeOfDay(hour float32) {
	s.hour = hour
	day := math32.Sin(hour / 24 * math32.Pi)

	sun := s.light(s.directional)
	sun.Intensity = max(0.2, day*0.8)
	switch {
	case hour < 12:
		sun.Color = softgl.Hex(0xfff5e6)
	case hour < 18:
		sun.Color = softgl.Hex(0xffffff)
	default:
		sun.Color = softgl.Hex(0xffdbac)
	}

	s.ceilingBase = 0.3 + (1-day)*0.5
	for _, idx := range s.ceiling {
		s.light(idx).Intensity = s.ceilingBase
	}
	s.log.Info("time of day", "hour", hour, "sun", sun.Intensity, "ceiling", s.ceilingBase)
}

// CycleTimeOfDay steps to the next preset hour and returns it.
func (s *Set) CycleTimeOfDay() float32 {
	s.hourIdx = (s.hourIdx + 1) % len(Hours)
	s.SetTimeOfDay(Hours[s.hourIdx])
	return s.hour
}

// Hour is the last preset applied, or zero before any.
func (s *Set) Hour() float32 { return s.hour }

func (s *Set) Ambient() softgl.Light     { return *s.light(s.ambient) }
func (s *Set) Directional() softgl.Light { return *s.light(s.directional) }
func (s *Set) Spot() softgl.Light        { return *s.light(s.spot) }

// Ceiling returns fixture i, 0 ≤ i < 6.
func (s *Set) Ceiling(i int) softgl.Light { return *s.light(s.ceiling[i]) }

// Bulb returns the node of fixture i's visible bulb.
func (s *Set) Bulb(i int) softgl.NodeID { return s.bulbs[i] }
