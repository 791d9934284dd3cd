// Package camera implements the orbit navigator: pointer-driven orbit, dolly
// and pan with damping, a hard clamp to the room box, and eased scripted
// transitions between viewpoints.
package camera

import (
	"log/slog"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"classroom/vclass/softgl"
)

// Pose is a camera position and look-at target.
type Pose struct {
	Position softgl.Vec3
	Target   softgl.Vec3
}

// Config holds the navigator limits and speeds.
type Config struct {
	Damping     float32
	MinDistance float32
	MaxDistance float32
	MinPolar    float32
	MaxPolar    float32

	RotateSpeed     float32
	ZoomSpeed       float32
	PanSpeed        float32
	AutoRotate      bool
	AutoRotateSpeed float32

	Transition time.Duration
	FOVYRad    float32
	Bounds     softgl.AABB

	Home  Pose
	Board Pose
	// FocusDistance is used when an object has no usable size.
	FocusDistance float32
}

// DefaultConfig returns the classroom navigator settings.
func DefaultConfig() Config {
	return Config{
		Damping:         0.05,
		MinDistance:     3,
		MaxDistance:     18,
		MinPolar:        0.1,
		MaxPolar:        math32.Pi/2 + 0.3,
		RotateSpeed:     1,
		ZoomSpeed:       1,
		PanSpeed:        1,
		AutoRotateSpeed: 0.5,
		Transition:      1500 * time.Millisecond,
		FOVYRad:         mgl32.DegToRad(60),
		Bounds:          softgl.BoxFrom(softgl.V3(-9, 0.5, -7), softgl.V3(9, 3.5, 7)),
		Home:            Pose{Position: softgl.V3(0, 3.5, 7), Target: softgl.V3(0, 2, -5)},
		Board:           Pose{Position: softgl.V3(0, 2.5, -2), Target: softgl.V3(0, 2.5, -7.3)},
		FocusDistance:   5,
	}
}

const settle = 1e-6

// Navigator owns the camera pose. Every method must be called from the frame
// loop goroutine.
type Navigator struct {
	cfg Config
	log *slog.Logger

	pose    Pose
	enabled bool

	dTheta float32
	dPhi   float32
	scale  float32
	pan    softgl.Vec3

	tr  *transition
	now time.Duration
}

// New returns a navigator at the home pose.
func New(cfg Config, log *slog.Logger) *Navigator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	n := &Navigator{
		cfg:     cfg,
		log:     log.With("component", "camera"),
		enabled: true,
		scale:   1,
	}
	n.pose = cfg.Home
	n.pose.Position = cfg.Bounds.Clamp(n.pose.Position)
	return n
}

// Pose returns the current pose.
func (n *Navigator) Pose() Pose { return n.pose }

// Config returns the active configuration, including speed changes.
func (n *Navigator) Config() Config { return n.cfg }

// SetEnabled gates pointer input. Scripted transitions still run.
func (n *Navigator) SetEnabled(on bool) { n.enabled = on }

func (n *Navigator) AutoRotate() bool { return n.cfg.AutoRotate }

func (n *Navigator) SetAutoRotate(on bool) { n.cfg.AutoRotate = on }

// SetRotateSpeed sets the orbit and pan speed factor (clamped to 0.1..5).
func (n *Navigator) SetRotateSpeed(v float32) {
	n.cfg.RotateSpeed = mgl32.Clamp(v, 0.1, 5)
	n.cfg.PanSpeed = n.cfg.RotateSpeed
}

// SetZoomSpeed sets the dolly speed factor (clamped to 0.1..5).
func (n *Navigator) SetZoomSpeed(v float32) {
	n.cfg.ZoomSpeed = mgl32.Clamp(v, 0.1, 5)
}

// Rotate queues an orbit from a pointer drag of (dx, dy) pixels on a viewport
// of the given height.
func (n *Navigator) Rotate(dx, dy, viewportH float32) {
	if !n.enabled || viewportH <= 0 {
		return
	}
	k := 2 * math32.Pi / viewportH * n.cfg.RotateSpeed
	n.dTheta -= dx * k
	n.dPhi -= dy * k
}

// Zoom dollies by wheel steps; positive steps move closer.
func (n *Navigator) Zoom(steps float32) {
	if !n.enabled || steps == 0 {
		return
	}
	n.scale *= math32.Pow(math32.Pow(0.95, n.cfg.ZoomSpeed), steps)
}

// Pan queues a screen-space pan from a drag of (dx, dy) pixels.
func (n *Navigator) Pan(dx, dy, viewportH float32) {
	if !n.enabled || viewportH <= 0 {
		return
	}
	offset := n.pose.Position.Sub(n.pose.Target)
	dist := offset.Len() * math32.Tan(n.cfg.FOVYRad/2)
	forward := softgl.Normalize(offset.Mul(-1))
	right := softgl.Normalize(forward.Cross(softgl.V3(0, 1, 0)))
	up := right.Cross(forward)
	k := 2 * dist / viewportH * n.cfg.PanSpeed
	n.pan = n.pan.Add(right.Mul(-dx * k)).Add(up.Mul(dy * k))
}

// Reset eases back to the home viewpoint.
func (n *Navigator) Reset() {
	n.log.Info("reset view")
	n.AnimateTo(n.cfg.Home)
}

// FocusBoard eases to the board viewpoint.
func (n *Navigator) FocusBoard() {
	n.log.Info("focus board")
	n.AnimateTo(n.cfg.Board)
}

// FocusTeacher frames the teacher character, whose world bounds the caller
// supplies.
func (n *Navigator) FocusTeacher(teacher softgl.AABB) {
	n.log.Info("focus teacher")
	n.FocusOnObject(teacher, 0.8)
}

// FocusOnObject eases to a viewpoint framing box, at factor times the distance
// that fits its largest extent in the field of view. Unusable boxes fall back
// to the configured focus distance.
func (n *Navigator) FocusOnObject(box softgl.AABB, factor float32) {
	center := box.Center()
	if box.Empty() || !softgl.Finite(center) {
		center = n.pose.Target
	}
	size := box.Size()
	maxDim := max(size[0], size[1], size[2])

	dist := math32.Abs(maxDim/math32.Sin(n.cfg.FOVYRad/2)) * factor
	if box.Empty() || maxDim <= 0 || dist <= 0 || math32.IsNaN(dist) || math32.IsInf(dist, 0) {
		dist = n.cfg.FocusDistance
	}

	dir := softgl.Normalize(softgl.V3(0, 0.3, 1))
	n.log.Info("focus object", "center", center, "distance", dist)
	n.AnimateTo(Pose{Position: center.Add(dir.Mul(dist)), Target: center})
}

// AnimateTo starts a scripted transition from the current pose. A transition
// already in flight is replaced.
func (n *Navigator) AnimateTo(to Pose) {
	n.tr = &transition{
		from:     n.pose,
		to:       to,
		start:    n.now,
		duration: n.cfg.Transition,
	}
}

// Transitioning reports whether a scripted transition owns the camera.
func (n *Navigator) Transitioning() bool { return n.tr != nil }

// Update advances the camera to the frame time now, then clamps the position
// into the room box.
func (n *Navigator) Update(now time.Duration) {
	if n.tr != nil && n.tr.start > now {
		n.tr.start = now
	}
	n.now = now

	if n.tr != nil {
		p := n.tr.progress(now)
		n.pose = n.tr.at(p)
		n.dropInput()
		if p >= 1 {
			n.tr = nil
		}
	} else {
		n.orbit()
	}
	n.pose.Position = n.cfg.Bounds.Clamp(n.pose.Position)
}

// Apply copies the pose into a render camera.
func (n *Navigator) Apply(cam *softgl.Camera) {
	if cam == nil {
		return
	}
	cam.Position = n.pose.Position
	cam.Target = n.pose.Target
	cam.Up = softgl.V3(0, 1, 0)
	cam.FOVYRad = n.cfg.FOVYRad
}

func (n *Navigator) dropInput() {
	n.dTheta, n.dPhi = 0, 0
	n.scale = 1
	n.pan = softgl.Vec3{}
}

func (n *Navigator) orbit() {
	offset := n.pose.Position.Sub(n.pose.Target)
	radius := offset.Len()
	if radius < settle {
		radius = n.cfg.MinDistance
		offset = softgl.V3(0, 0, radius)
	}
	theta := math32.Atan2(offset[0], offset[2])
	phi := math32.Acos(mgl32.Clamp(offset[1]/radius, -1, 1))

	if n.cfg.AutoRotate {
		n.dTheta -= 2 * math32.Pi / 60 / 60 * n.cfg.AutoRotateSpeed
	}

	k := float32(1)
	if n.cfg.Damping > 0 {
		k = n.cfg.Damping
	}
	theta += n.dTheta * k
	phi += n.dPhi * k
	phi = mgl32.Clamp(phi, n.cfg.MinPolar, n.cfg.MaxPolar)
	phi = mgl32.Clamp(phi, settle, math32.Pi-settle)

	radius = mgl32.Clamp(radius*n.scale, n.cfg.MinDistance, n.cfg.MaxDistance)
	n.pose.Target = n.pose.Target.Add(n.pan.Mul(k))

	sp, cp := math32.Sincos(phi)
	st, ct := math32.Sincos(theta)
	n.pose.Position = n.pose.Target.Add(softgl.V3(radius*sp*st, radius*cp, radius*sp*ct))

	if n.cfg.Damping > 0 {
		n.dTheta *= 1 - k
		n.dPhi *= 1 - k
		n.pan = n.pan.Mul(1 - k)
		if math32.Abs(n.dTheta) < settle {
			n.dTheta = 0
		}
		if math32.Abs(n.dPhi) < settle {
			n.dPhi = 0
		}
		if n.pan.Len() < settle {
			n.pan = softgl.Vec3{}
		}
	} else {
		n.dTheta, n.dPhi = 0, 0
		n.pan = softgl.Vec3{}
	}
	n.scale = 1
}
