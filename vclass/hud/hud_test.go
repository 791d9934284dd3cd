package hud

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/hal"
)

type memFB struct{ img *image.RGBA }

func newMemFB(w, h int) *memFB { return &memFB{img: image.NewRGBA(image.Rect(0, 0, w, h))} }

func (f *memFB) Width() int              { return f.img.Rect.Dx() }
func (f *memFB) Height() int             { return f.img.Rect.Dy() }
func (f *memFB) Format() hal.PixelFormat { return hal.PixelFormatRGBA8888 }
func (f *memFB) StrideBytes() int        { return f.img.Stride }
func (f *memFB) Buffer() []byte          { return f.img.Pix }
func (f *memFB) Image() *image.RGBA      { return f.img }
func (f *memFB) Present() error          { return nil }
func (f *memFB) ClearRGB(r, g, b uint8) {
	for i := 0; i < len(f.img.Pix); i += 4 {
		f.img.Pix[i], f.img.Pix[i+1], f.img.Pix[i+2], f.img.Pix[i+3] = r, g, b, 0xff
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := map[int64]string{
		0:           "0 Bytes",
		-5:          "0 Bytes",
		1:           "1 Bytes",
		1023:        "1023 Bytes",
		1024:        "1 KB",
		1536:        "1.5 KB",
		1048576:     "1 MB",
		1234567:     "1.18 MB",
		3 * 1 << 30: "3 GB",
		5 * 1 << 40: "5120 GB",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatFileSize(in), "bytes %d", in)
	}
}

func TestFPSCounter(t *testing.T) {
	c := NewFPSCounter()
	assert.Equal(t, 60, c.FPS())
	assert.False(t, c.Update(0), "first update only anchors the window")

	for range 45 {
		c.Frame()
	}
	assert.False(t, c.Update(900*time.Millisecond))
	for range 45 {
		c.Frame()
	}
	require.True(t, c.Update(1500*time.Millisecond))
	assert.Equal(t, 60, c.FPS())

	for range 20 {
		c.Frame()
	}
	require.True(t, c.Update(2500*time.Millisecond))
	assert.Equal(t, 20, c.FPS())
}

func TestFPSColor(t *testing.T) {
	assert.Equal(t, color.RGBA{0x50, 0xc8, 0x78, 0xff}, FPSColor(50))
	assert.Equal(t, color.RGBA{0xff, 0xa5, 0x00, 0xff}, FPSColor(49))
	assert.Equal(t, color.RGBA{0xff, 0xa5, 0x00, 0xff}, FPSColor(30))
	assert.Equal(t, color.RGBA{0xff, 0x6b, 0x6b, 0xff}, FPSColor(29))
}

func TestNoticeBlocksUntilDismissed(t *testing.T) {
	h := New(nil)
	assert.False(t, h.Dismiss())
	h.Notify("Please select a valid PDF file")
	assert.True(t, h.NoticeOpen())
	assert.Equal(t, "Please select a valid PDF file", h.Notice())
	assert.True(t, h.Dismiss())
	assert.False(t, h.NoticeOpen())
}

func TestStatusExpires(t *testing.T) {
	h := New(nil)
	h.Flash(time.Second, "shadows on")
	assert.Equal(t, "shadows on", h.Status(2*time.Second))
	assert.Empty(t, h.Status(3500*time.Millisecond))
}

func TestToggleHelp(t *testing.T) {
	h := New(nil)
	assert.True(t, h.ToggleHelp())
	assert.True(t, h.HelpVisible())
	assert.False(t, h.ToggleHelp())
}

func TestDrawPaintsOverlay(t *testing.T) {
	fb := newMemFB(640, 480)
	fb.ClearRGB(0xff, 0xff, 0xff)
	h := New(nil)
	h.SetHelp([]string{"Space  reset camera", "F1     toggle help"})
	h.ToggleHelp()
	h.Notify("Please select a valid PDF file")

	h.Draw(fb, 0, State{PageLabel: "Page 1 / 3", FileName: "notes.pdf", FileSize: 2048, Hour: 12})

	bar := fb.img.RGBAAt(320, 479)
	assert.Less(t, bar.R, uint8(0xff), "bottom bar darkens the frame")
	assert.NotEqual(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, fb.img.RGBAAt(320, 240), "notice box covers the centre")
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, fb.img.RGBAAt(320, 120), "clear areas stay untouched")
}

func TestCanvasClipsAndBlends(t *testing.T) {
	fb := newMemFB(4, 4)
	fb.ClearRGB(0, 0, 0)
	d := newCanvas(fb)
	d.SetPixel(-1, 2, color.RGBA{0xff, 0, 0, 0xff})
	d.SetPixel(4, 0, color.RGBA{0xff, 0, 0, 0xff})
	d.SetPixel(1, 1, color.RGBA{0xff, 0xff, 0xff, 0x80})
	got := fb.img.RGBAAt(1, 1)
	assert.InDelta(t, 0x80, int(got.R), 1)
	assert.Equal(t, uint8(0xff), got.A)

	require.NoError(t, d.FillRectangle(2, 2, 10, 10, color.RGBA{0, 0xff, 0, 0xff}))
	assert.Equal(t, color.RGBA{0, 0xff, 0, 0xff}, fb.img.RGBAAt(3, 3))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, fb.img.RGBAAt(1, 2))
}

func TestClock(t *testing.T) {
	assert.Equal(t, "08:00", clock(8))
	assert.Equal(t, "17:30", clock(17.5))
}

func TestTakeRunes(t *testing.T) {
	p, r := takeRunes("çalışma", 3)
	assert.Equal(t, "çal", p)
	assert.Equal(t, "ışma", r)

	p, r = takeRunes("ab", 5)
	assert.Equal(t, "ab", p)
	assert.Empty(t, r)
}

func TestDrawFatalClearsAndWrites(t *testing.T) {
	fb := newMemFB(200, 60)
	fb.ClearRGB(0x20, 0x40, 0x60)
	DrawFatal(fb, []string{"panic: boom", strings.Repeat("x", 200), "never drawn"})

	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, fb.img.RGBAAt(199, 0))
	dark := 0
	for y := range 30 {
		for x := range 200 {
			if fb.img.RGBAAt(x, y).R < 0x80 {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "text is drawn in black")
}
