package hud

import (
	"image/color"
	"math"
	"strconv"
	"time"
)

// FPSCounter averages frame rate over windows of at least one second.
// Frame is called every display frame; Update may be called less often.
type FPSCounter struct {
	frames  int
	last    time.Duration
	started bool
	fps     int
}

// NewFPSCounter starts at the nominal 60 fps.
func NewFPSCounter() *FPSCounter { return &FPSCounter{fps: 60} }

func (c *FPSCounter) Frame() { c.frames++ }

// Update recomputes the rate when a second or more has passed since the last
// recompute, and reports whether it did.
func (c *FPSCounter) Update(now time.Duration) bool {
	if !c.started {
		c.started = true
		c.last = now
		c.frames = 0
		return false
	}
	elapsed := now - c.last
	if elapsed < time.Second {
		return false
	}
	c.fps = int(math.Round(float64(c.frames) / elapsed.Seconds()))
	c.frames = 0
	c.last = now
	return true
}

func (c *FPSCounter) FPS() int { return c.fps }

var (
	fpsGood = color.RGBA{0x50, 0xc8, 0x78, 0xff}
	fpsFair = color.RGBA{0xff, 0xa5, 0x00, 0xff}
	fpsPoor = color.RGBA{0xff, 0x6b, 0x6b, 0xff}
)

// FPSColor grades a rate: green from 50, orange from 30, red below.
func FPSColor(fps int) color.RGBA {
	switch {
	case fps >= 50:
		return fpsGood
	case fps >= 30:
		return fpsFair
	}
	return fpsPoor
}

var sizeUnits = [...]string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count in binary units with at most two
// decimals, e.g. "1.5 KB". Sizes beyond the largest unit stay in GB.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	i = min(max(i, 0), len(sizeUnits)-1)
	v := math.Round(float64(bytes)/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
