package hud

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"classroom/hal"
)

var (
	colorFatalBG = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorFatalFG = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

// DrawFatal replaces the frame with a crash screen listing lines, wrapped to
// the framebuffer width. Lines that do not fit vertically are dropped.
func DrawFatal(fb hal.Framebuffer, lines []string) {
	d := newCanvas(fb)
	w, h := d.Size()
	if w == 0 || h == 0 {
		return
	}
	_ = d.FillRectangle(0, 0, w, h, colorFatalBG)

	cw := textWidth(small, "0")
	lh := lineHeight(small)
	if cw <= 0 || lh <= 0 {
		return
	}
	cols := max((w-2*margin)/cw, 1)

	y := margin + lh
	for _, line := range lines {
		for {
			if y > h-margin {
				return
			}
			chunk, rest := takeRunes(line, cols)
			d.text(small, margin, y, chunk, colorFatalFG)
			y += lh
			line = strings.TrimLeft(rest, " \t")
			if line == "" {
				break
			}
		}
	}
}

// takeRunes splits s after n runes.
func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	for count := int16(0); i < len(s) && count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], s[i:]
}
