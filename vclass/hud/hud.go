// Package hud draws the 2D overlay on top of the rendered classroom: frame
// rate, document label, control readouts, the key help panel and blocking
// notices.
package hud

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"

	"classroom/hal"
)

var (
	small = &proggy.TinySZ8pt7b
	large = &freemono.Bold9pt7b

	colorPanel  = color.RGBA{0x10, 0x10, 0x18, 0xb4}
	colorNotice = color.RGBA{0x20, 0x20, 0x28, 0xf0}
	colorFG     = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorDim    = color.RGBA{0xaa, 0xaa, 0xaa, 0xff}
	colorAccent = color.RGBA{0xff, 0xd7, 0x00, 0xff}
)

const (
	margin     = 8
	statusLife = 2 * time.Second
)

// State is the per-frame readout the overlay shows.
type State struct {
	PageLabel string
	FileName  string
	FileSize  int64

	Brightness  float32
	RotateSpeed float32
	ZoomSpeed   float32
	Hour        float32

	AutoRotate bool
	Shadows    bool
	Helpers    bool
	Particles  bool
}

// HUD holds overlay state between frames.
type HUD struct {
	log *slog.Logger
	fps *FPSCounter

	help     []string
	helpOn   bool
	notice   string
	status   string
	statusAt time.Duration
}

func New(log *slog.Logger) *HUD {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &HUD{log: log.With("component", "hud"), fps: NewFPSCounter()}
}

func (h *HUD) FPS() *FPSCounter { return h.fps }

// SetHelp sets the lines of the instructions panel.
func (h *HUD) SetHelp(lines []string) { h.help = lines }

// ToggleHelp flips the instructions panel and returns its new state.
func (h *HUD) ToggleHelp() bool {
	h.helpOn = !h.helpOn
	return h.helpOn
}

func (h *HUD) HelpVisible() bool { return h.helpOn }

// Notify opens a blocking notice. While it is open the app should ignore all
// input but Dismiss.
func (h *HUD) Notify(msg string) {
	h.notice = msg
	h.log.Info("notice", "msg", msg)
}

// Dismiss closes the notice, reporting whether one was open.
func (h *HUD) Dismiss() bool {
	open := h.notice != ""
	h.notice = ""
	return open
}

func (h *HUD) NoticeOpen() bool { return h.notice != "" }

func (h *HUD) Notice() string { return h.notice }

// Flash shows a short-lived status line from frame time now.
func (h *HUD) Flash(now time.Duration, msg string) {
	h.status = msg
	h.statusAt = now
}

// Status returns the status line if it is still showing at now.
func (h *HUD) Status(now time.Duration) string {
	if h.status == "" || now-h.statusAt > statusLife {
		return ""
	}
	return h.status
}

// Draw paints the overlay for frame time now.
func (h *HUD) Draw(fb hal.Framebuffer, now time.Duration, st State) {
	d := newCanvas(fb)
	w, ht := d.Size()
	if w == 0 || ht == 0 {
		return
	}
	h.drawFPS(d)
	if s := h.Status(now); s != "" {
		sw := textWidth(small, s)
		_ = d.FillRectangle(w-sw-3*margin, margin, sw+2*margin, lineHeight(small)+margin, colorPanel)
		d.text(small, w-sw-2*margin, margin+lineHeight(small), s, colorFG)
	}
	h.drawBar(d, w, ht, st)
	if h.helpOn {
		h.drawHelp(d, w, ht)
	}
	if h.notice != "" {
		h.drawNotice(d, w, ht)
	}
}

func lineHeight(f *tinyfont.Font) int16 { return int16(f.YAdvance) }

func (h *HUD) drawFPS(d *canvas) {
	fps := h.fps.FPS()
	label := fmt.Sprintf("FPS: %d", fps)
	lw := textWidth(large, label)
	_ = d.FillRectangle(margin, margin, lw+2*margin, lineHeight(large)+margin, colorPanel)
	d.text(large, 2*margin, margin+lineHeight(large), label, FPSColor(fps))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func clock(hour float32) string {
	hh := int(hour) % 24
	mm := int((hour - float32(int(hour))) * 60)
	return fmt.Sprintf("%02d:%02d", hh, mm)
}

// drawBar paints the bottom bar: document on the first row, settings on the
// second.
func (h *HUD) drawBar(d *canvas, w, ht int16, st State) {
	rows := int16(2)
	barH := rows*lineHeight(small) + lineHeight(large) + margin
	top := ht - barH
	_ = d.FillRectangle(0, top, w, barH, colorPanel)

	label := st.PageLabel
	lw := textWidth(large, label)
	d.text(large, (w-lw)/2, top+lineHeight(large), label, colorAccent)

	y := top + lineHeight(large) + lineHeight(small)
	if st.FileName != "" {
		d.text(small, margin, y, fmt.Sprintf("%s (%s)", st.FileName, FormatFileSize(st.FileSize)), colorFG)
	}
	hint := "F1: help"
	d.text(small, w-textWidth(small, hint)-margin, y, hint, colorDim)

	y += lineHeight(small)
	settings := fmt.Sprintf("brightness %.1f  rotate %.1fx  zoom %.1fx  time %s  auto %s  shadows %s  helpers %s  particles %s",
		st.Brightness, st.RotateSpeed, st.ZoomSpeed, clock(st.Hour),
		onOff(st.AutoRotate), onOff(st.Shadows), onOff(st.Helpers), onOff(st.Particles))
	d.text(small, margin, y, settings, colorDim)
}

func (h *HUD) drawHelp(d *canvas, w, ht int16) {
	if len(h.help) == 0 {
		return
	}
	var pw int16
	for _, l := range h.help {
		pw = max(pw, textWidth(small, l))
	}
	lh := lineHeight(small)
	title := "Controls"
	pw = max(pw, textWidth(large, title)) + 2*margin
	ph := lineHeight(large) + int16(len(h.help))*lh + 2*margin
	x := w - pw - margin
	y := (ht - ph) / 2
	_ = d.FillRectangle(x, y, pw, ph, colorPanel)
	d.text(large, x+margin, y+margin+lineHeight(large)-4, title, colorAccent)
	for i, l := range h.help {
		d.text(small, x+margin, y+margin+lineHeight(large)+int16(i+1)*lh-2, l, colorFG)
	}
}

func (h *HUD) drawNotice(d *canvas, w, ht int16) {
	hint := "Press Enter or Esc to dismiss"
	nw := max(textWidth(large, h.notice), textWidth(small, hint)) + 4*margin
	nh := lineHeight(large) + lineHeight(small) + 4*margin
	x, y := (w-nw)/2, (ht-nh)/2
	_ = d.FillRectangle(x, y, nw, nh, colorNotice)
	d.text(large, x+(nw-textWidth(large, h.notice))/2, y+margin+lineHeight(large), h.notice, colorFG)
	d.text(small, x+(nw-textWidth(small, hint))/2, y+2*margin+lineHeight(large)+lineHeight(small), hint, colorDim)
}
