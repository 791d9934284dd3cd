//go:build !tinygo

package hal

import "time"

// hostTime is the frame clock. With a fixed step it advances exactly step per
// frame, which keeps headless runs reproducible; otherwise it follows the
// wall clock from the first frame.
type hostTime struct {
	step  time.Duration
	start time.Time
	now   time.Duration
}

func newHostTime(step time.Duration) *hostTime {
	return &hostTime{step: step}
}

func (t *hostTime) Now() time.Duration { return t.now }

// advance moves the clock to the next frame.
func (t *hostTime) advance() {
	if t.step > 0 {
		t.now += t.step
		return
	}
	wall := time.Now()
	if t.start.IsZero() {
		t.start = wall
	}
	t.now = wall.Sub(t.start)
}
