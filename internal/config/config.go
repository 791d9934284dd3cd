// Package config loads the classroom settings from TOML over built-in
// defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Window    Window    `toml:"window"`
	Render    Render    `toml:"render"`
	Camera    Camera    `toml:"camera"`
	Layout    Layout    `toml:"layout"`
	Document  Document  `toml:"document"`
	Frame     Frame     `toml:"frame"`
	Lighting  Lighting  `toml:"lighting"`
	Particles Particles `toml:"particles"`
}

type Window struct {
	Title string `toml:"title"`
	Scale int    `toml:"scale"`
}

// Render sizes the framebuffer and the projection.
type Render struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	FOVDegrees float32 `toml:"fovDegrees"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
	// Background is a "#rrggbb" colour, also used for fog.
	Background string `toml:"background"`
	Fog        bool   `toml:"fog"`
}

type Camera struct {
	Damping         float32    `toml:"damping"`
	MinDistance     float32    `toml:"minDistance"`
	MaxDistance     float32    `toml:"maxDistance"`
	MinPolar        float32    `toml:"minPolar"`
	MaxPolar        float32    `toml:"maxPolar"`
	RotateSpeed     float32    `toml:"rotateSpeed"`
	ZoomSpeed       float32    `toml:"zoomSpeed"`
	AutoRotate      bool       `toml:"autoRotate"`
	AutoRotateSpeed float32    `toml:"autoRotateSpeed"`
	TransitionMS    int        `toml:"transitionMs"`
	BoundsMin       [3]float32 `toml:"boundsMin"`
	BoundsMax       [3]float32 `toml:"boundsMax"`
}

// Layout seeds palette and phase choices.
type Layout struct {
	Seed uint64 `toml:"seed"`
}

type Document struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Brightness float32 `toml:"brightness"`
}

// Frame holds the per-subsystem cadences, in frames.
type Frame struct {
	Camera     uint64 `toml:"camera"`
	Characters uint64 `toml:"characters"`
	Particles  uint64 `toml:"particles"`
	Lighting   uint64 `toml:"lighting"`
	Document   uint64 `toml:"document"`
	FPS        uint64 `toml:"fps"`
}

type Lighting struct {
	FlickerMS int  `toml:"flickerMs"`
	Shadows   bool `toml:"shadows"`
	Helpers   bool `toml:"helpers"`
}

type Particles struct {
	Dust    int  `toml:"dust"`
	Books   int  `toml:"books"`
	Enabled bool `toml:"enabled"`
}

// Default returns the stock classroom settings.
func Default() Config {
	return Config{
		Window: Window{Title: "Virtual Classroom", Scale: 1},
		Render: Render{
			Width:      960,
			Height:     720,
			FOVDegrees: 60,
			Near:       0.1,
			Far:        100,
			Background: "#87ceeb",
			Fog:        true,
		},
		Camera: Camera{
			Damping:         0.05,
			MinDistance:     3,
			MaxDistance:     18,
			MinPolar:        0.1,
			MaxPolar:        1.8708,
			RotateSpeed:     1,
			ZoomSpeed:       1,
			AutoRotateSpeed: 0.5,
			TransitionMS:    1500,
			BoundsMin:       [3]float32{-9, 0.5, -7},
			BoundsMax:       [3]float32{9, 3.5, 7},
		},
		Layout:    Layout{Seed: 1},
		Document:  Document{Width: 1920, Height: 1440, Brightness: 0.7},
		Frame:     Frame{Camera: 1, Characters: 2, Particles: 2, Lighting: 3, Document: 3, FPS: 10},
		Lighting:  Lighting{FlickerMS: 100, Shadows: true},
		Particles: Particles{Dust: 200, Books: 5, Enabled: true},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(field string, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %s", field, fmt.Sprintf(format, args...)))
	}

	if c.Window.Scale < 1 {
		bad("window.scale", "must be at least 1, got %d", c.Window.Scale)
	}
	if c.Render.Width < 16 || c.Render.Height < 16 {
		bad("render.width/height", "must be at least 16, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.FOVDegrees <= 0 || c.Render.FOVDegrees >= 180 {
		bad("render.fovDegrees", "must be in (0, 180), got %v", c.Render.FOVDegrees)
	}
	if c.Render.Near <= 0 || c.Render.Far <= c.Render.Near {
		bad("render.near/far", "need 0 < near < far, got %v..%v", c.Render.Near, c.Render.Far)
	}
	if _, err := ParseColor(c.Render.Background); err != nil {
		bad("render.background", "%v", err)
	}

	cam := c.Camera
	if cam.Damping < 0 || cam.Damping > 1 {
		bad("camera.damping", "must be in [0, 1], got %v", cam.Damping)
	}
	if cam.MinDistance <= 0 || cam.MaxDistance < cam.MinDistance {
		bad("camera.minDistance/maxDistance", "need 0 < min <= max, got %v..%v", cam.MinDistance, cam.MaxDistance)
	}
	if cam.MinPolar < 0 || cam.MaxPolar < cam.MinPolar {
		bad("camera.minPolar/maxPolar", "need 0 <= min <= max, got %v..%v", cam.MinPolar, cam.MaxPolar)
	}
	if cam.RotateSpeed <= 0 || cam.ZoomSpeed <= 0 {
		bad("camera.rotateSpeed/zoomSpeed", "must be positive")
	}
	if cam.TransitionMS < 0 {
		bad("camera.transitionMs", "must not be negative, got %d", cam.TransitionMS)
	}
	for i := range 3 {
		if cam.BoundsMin[i] > cam.BoundsMax[i] {
			bad("camera.boundsMin/boundsMax", "axis %d is inverted", i)
		}
	}

	if c.Document.Width < 16 || c.Document.Height < 16 {
		bad("document.width/height", "must be at least 16, got %dx%d", c.Document.Width, c.Document.Height)
	}
	if c.Document.Brightness < 0 || c.Document.Brightness > 2 {
		bad("document.brightness", "must be in [0, 2], got %v", c.Document.Brightness)
	}

	f := c.Frame
	for _, cad := range []struct {
		name  string
		every uint64
	}{
		{"camera", f.Camera}, {"characters", f.Characters}, {"particles", f.Particles},
		{"lighting", f.Lighting}, {"document", f.Document}, {"fps", f.FPS},
	} {
		if cad.every == 0 {
			bad("frame."+cad.name, "cadence must be at least 1")
		}
	}

	if c.Lighting.FlickerMS <= 0 {
		bad("lighting.flickerMs", "must be positive, got %d", c.Lighting.FlickerMS)
	}
	if c.Particles.Dust < 0 || c.Particles.Books < 0 {
		bad("particles.dust/books", "must not be negative")
	}
	return errors.Join(errs...)
}

// ParseColor parses "#rrggbb" (the "#" is optional) into 0xrrggbb.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("colour %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("colour %q is not #rrggbb", s)
	}
	return uint32(v), nil
}
