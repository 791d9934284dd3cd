// Package app wires the classroom together against a HAL: it builds the
// scene, registers the per-frame tasks, routes input and uploads, and renders
// each frame into the host framebuffer.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"classroom/hal"
	"classroom/internal/buildinfo"
	"classroom/internal/config"
	"classroom/internal/mathutil"
	"classroom/vclass/camera"
	"classroom/vclass/docview"
	"classroom/vclass/frame"
	"classroom/vclass/hud"
	"classroom/vclass/lighting"
	"classroom/vclass/particles"
	"classroom/vclass/scene"
	"classroom/vclass/softgl"
	"classroom/vclass/textures"
)

// Random streams per consumer; textures use 1 to 4.
const (
	streamClassroom = 10
	streamParticles = 11
)

// System is the running classroom. Step must be called from one goroutine.
type System struct {
	log *slog.Logger
	cfg config.Config

	fb       hal.Framebuffer
	target   softgl.RGBATarget
	clock    hal.Time
	keys     <-chan hal.KeyEvent
	pointer  <-chan hal.PointerEvent
	uploads  <-chan hal.Upload
	renderer *softgl.Renderer

	scene  *softgl.Scene
	room   *scene.Classroom
	lights *lighting.Set
	fx     *particles.Effects
	nav    *camera.Navigator
	doc    *docview.Surface
	hud    *hud.HUD
	driver *frame.Driver
	keymap []binding

	fileSize int64
	now      time.Duration
	halted   error
}

// New builds the classroom against h. The HAL must provide a display and a
// clock; input and uploads are optional.
func New(h hal.HAL, cfg config.Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	log := slog.New(slog.NewTextHandler(hal.LogWriter{L: h.Logger()}, nil))
	log.Info("starting", "version", buildinfo.Short())

	var fb hal.Framebuffer
	if d := h.Display(); d != nil {
		fb = d.Framebuffer()
	}
	if fb == nil || fb.Format() != hal.PixelFormatRGBA8888 {
		return nil, errors.New("app: no RGBA framebuffer")
	}
	clock := h.Time()
	if clock == nil {
		return nil, errors.New("app: no clock")
	}

	s := &System{
		log:      log,
		cfg:      cfg,
		fb:       fb,
		clock:    clock,
		renderer: softgl.NewRenderer(fb.Width(), fb.Height()),
		target: softgl.RGBATarget{
			Buf:    fb.Buffer(),
			Stride: fb.StrideBytes(),
			W:      fb.Width(),
			H:      fb.Height(),
		},
	}
	if in := h.Input(); in != nil {
		if k := in.Keyboard(); k != nil {
			s.keys = k.Events()
		}
		if p := in.Pointer(); p != nil {
			s.pointer = p.Events()
		}
	}
	if u := h.Uploads(); u != nil {
		s.uploads = u.Uploads()
	}

	if err := s.build(); err != nil {
		return nil, err
	}
	if err := s.schedule(); err != nil {
		return nil, err
	}
	log.Info("classroom ready", "width", fb.Width(), "height", fb.Height(), "seed", cfg.Layout.Seed)
	return s, nil
}

func (s *System) build() error {
	cfg := s.cfg
	tex, err := textures.Generate(context.Background(), cfg.Layout.Seed)
	if err != nil {
		return fmt.Errorf("app: textures: %w", err)
	}
	s.log.Info("textures generated")

	s.scene = softgl.NewScene(512, 512)
	s.room = scene.New(s.scene, *tex, mathutil.NewRand(cfg.Layout.Seed, streamClassroom), s.log)

	bg, _ := config.ParseColor(cfg.Render.Background)
	s.scene.Background = softgl.Hex(bg)
	s.scene.Fog.Color = s.scene.Background
	s.scene.Fog.Enabled = cfg.Render.Fog
	s.scene.Camera.FOVYRad = mgl32.DegToRad(cfg.Render.FOVDegrees)
	s.scene.Camera.Near = cfg.Render.Near
	s.scene.Camera.Far = cfg.Render.Far

	s.lights = lighting.New(s.scene, lighting.Config{
		FlickerInterval: time.Duration(cfg.Lighting.FlickerMS) * time.Millisecond,
		Shadows:         cfg.Lighting.Shadows,
		Helpers:         cfg.Lighting.Helpers,
	}, s.log)
	s.fx = particles.New(s.scene, particles.Config{
		Dust:    cfg.Particles.Dust,
		Books:   cfg.Particles.Books,
		Enabled: cfg.Particles.Enabled,
	}, mathutil.NewRand(cfg.Layout.Seed, streamParticles), s.log)

	s.nav = camera.New(cameraConfig(cfg), s.log)
	s.nav.Apply(&s.scene.Camera)

	s.doc = docview.New(docview.Config{
		Width:      cfg.Document.Width,
		Height:     cfg.Document.Height,
		Brightness: cfg.Document.Brightness,
	}, nil, s.log)
	s.room.Display().SetBrightness(s.doc.Brightness())

	s.hud = hud.New(s.log)
	s.keymap = defaultKeymap()
	s.hud.SetHelp(helpLines(s.keymap))
	return nil
}

func cameraConfig(cfg config.Config) camera.Config {
	c := camera.DefaultConfig()
	cc := cfg.Camera
	c.Damping = cc.Damping
	c.MinDistance, c.MaxDistance = cc.MinDistance, cc.MaxDistance
	c.MinPolar, c.MaxPolar = cc.MinPolar, cc.MaxPolar
	c.RotateSpeed, c.PanSpeed = cc.RotateSpeed, cc.RotateSpeed
	c.ZoomSpeed = cc.ZoomSpeed
	c.AutoRotate = cc.AutoRotate
	c.AutoRotateSpeed = cc.AutoRotateSpeed
	c.Transition = time.Duration(cc.TransitionMS) * time.Millisecond
	c.FOVYRad = mgl32.DegToRad(cfg.Render.FOVDegrees)
	c.Bounds = softgl.BoxFrom(softgl.Vec3(cc.BoundsMin), softgl.Vec3(cc.BoundsMax))
	return c
}

// schedule registers the per-frame tasks. Order matters: the camera moves
// before anything reads it, and the document is uploaded after input.
func (s *System) schedule() error {
	s.driver = frame.New(s.clock)
	f := s.cfg.Frame
	tasks := []struct {
		name  string
		every uint64
		fn    frame.TaskFunc
	}{
		{"camera", f.Camera, func(c *frame.Context) {
			s.nav.Update(c.Now)
			s.nav.Apply(&s.scene.Camera)
		}},
		{"characters", f.Characters, func(c *frame.Context) { s.room.Update(c.Seconds()) }},
		{"particles", f.Particles, func(c *frame.Context) { s.fx.Update(c.Seconds()) }},
		{"lighting", f.Lighting, func(c *frame.Context) { s.lights.Update(c.Now) }},
		{"document", f.Document, func(*frame.Context) {
			display := s.room.Display()
			s.doc.ConsumeDirty(func(img *image.RGBA) { display.Upload(img) })
			display.SetBrightness(s.doc.Brightness())
		}},
		{"fps", f.FPS, func(c *frame.Context) { s.hud.FPS().Update(c.Now) }},
	}
	for _, t := range tasks {
		if _, ok := s.driver.AddTask(t.name, t.every, t.fn); !ok {
			return fmt.Errorf("app: task table full at %q", t.name)
		}
	}
	return nil
}

// Step runs one display frame: input, uploads, scheduled tasks, then the 3D
// render and the overlay.
func (s *System) Step() (err error) {
	if s.halted != nil {
		return s.halted
	}
	defer s.recoverStep(&err)

	s.now = s.clock.Now()
	s.pollKeys()
	s.pollPointer()
	s.drainUploads()

	s.driver.Tick()
	s.hud.FPS().Frame()

	s.renderer.Render(&s.target, s.scene)
	s.hud.Draw(s.fb, s.now, s.hudState())
	return s.fb.Present()
}

func (s *System) hudState() hud.State {
	cam := s.nav.Config()
	return hud.State{
		PageLabel:   s.doc.Label(),
		FileName:    s.doc.Name(),
		FileSize:    s.fileSize,
		Brightness:  s.doc.Brightness(),
		RotateSpeed: cam.RotateSpeed,
		ZoomSpeed:   cam.ZoomSpeed,
		Hour:        s.lights.Hour(),
		AutoRotate:  s.nav.AutoRotate(),
		Shadows:     s.lights.Shadows(),
		Helpers:     s.lights.HelpersVisible(),
		Particles:   s.fx.Visible(),
	}
}

// Surface exposes the document surface.
func (s *System) Surface() *docview.Surface { return s.doc }

func (s *System) Navigator() *camera.Navigator { return s.nav }

func (s *System) HUD() *hud.HUD { return s.hud }

func (s *System) Classroom() *scene.Classroom { return s.room }

func (s *System) Lights() *lighting.Set { return s.lights }

func (s *System) Particles() *particles.Effects { return s.fx }

// Frames is the number of completed frames.
func (s *System) Frames() uint64 { return s.driver.Frame() }

// Factory adapts New to the host runners.
func Factory(cfg config.Config) hal.AppFactory {
	return func(h hal.HAL) (func() error, error) {
		s, err := New(h, cfg)
		if err != nil {
			return nil, err
		}
		return s.Step, nil
	}
}
