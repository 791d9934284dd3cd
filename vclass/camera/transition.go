package camera

import (
	"time"

	"classroom/vclass/softgl"
)

// EaseInOutQuad maps linear progress t in [0, 1] onto a quadratic ease.
func EaseInOutQuad(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

type transition struct {
	from, to Pose
	start    time.Duration
	duration time.Duration
}

func (tr *transition) progress(now time.Duration) float32 {
	if tr.duration <= 0 {
		return 1
	}
	p := float32(now-tr.start) / float32(tr.duration)
	return min(max(p, 0), 1)
}

// at returns the pose at linear progress p.
func (tr *transition) at(p float32) Pose {
	if p >= 1 {
		return tr.to
	}
	e := EaseInOutQuad(p)
	return Pose{
		Position: softgl.Lerp3(tr.from.Position, tr.to.Position, e),
		Target:   softgl.Lerp3(tr.from.Target, tr.to.Target, e),
	}
}
