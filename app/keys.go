package app

import (
	"fmt"
	"slices"
	"unicode"

	"github.com/chewxy/math32"

	"classroom/hal"
)

// Slider steps for the keyboard stand-ins.
const (
	brightnessStep = 0.1
	speedStep      = 0.1
)

// binding maps keys to an action. A key matches either by code or, for
// printable keys, by lower-cased rune.
type binding struct {
	label  string
	help   string
	codes  []hal.KeyCode
	runes  []rune
	action func(*System, hal.KeyEvent)
}

func (b binding) matches(ev hal.KeyEvent) bool {
	if ev.Code != hal.KeyUnknown {
		return slices.Contains(b.codes, ev.Code)
	}
	return slices.Contains(b.runes, unicode.ToLower(ev.Rune))
}

func defaultKeymap() []binding {
	return []binding{
		{label: "Space", help: "reset camera", runes: []rune{' '}, action: func(s *System, _ hal.KeyEvent) {
			s.nav.Reset()
			s.hud.Flash(s.now, "camera reset")
		}},
		{label: "F", help: "focus board", runes: []rune{'f'}, action: func(s *System, _ hal.KeyEvent) { s.nav.FocusBoard() }},
		{label: "T", help: "focus teacher", runes: []rune{'t'}, action: func(s *System, _ hal.KeyEvent) {
			s.nav.FocusTeacher(s.room.TeacherBounds())
		}},
		{label: "R", help: "auto-rotate", runes: []rune{'r'}, action: func(s *System, _ hal.KeyEvent) {
			s.nav.SetAutoRotate(!s.nav.AutoRotate())
			s.hud.Flash(s.now, "auto-rotate "+onOff(s.nav.AutoRotate()))
		}},
		{label: "S", help: "shadows", runes: []rune{'s'}, action: func(s *System, _ hal.KeyEvent) {
			s.lights.SetShadows(!s.lights.Shadows())
			s.hud.Flash(s.now, "shadows "+onOff(s.lights.Shadows()))
		}},
		{label: "H", help: "light helpers", runes: []rune{'h'}, action: func(s *System, _ hal.KeyEvent) {
			s.lights.SetHelpersVisible(!s.lights.HelpersVisible())
			s.hud.Flash(s.now, "helpers "+onOff(s.lights.HelpersVisible()))
		}},
		{label: "P", help: "particles", runes: []rune{'p'}, action: func(s *System, _ hal.KeyEvent) {
			s.fx.SetVisible(!s.fx.Visible())
			s.hud.Flash(s.now, "particles "+onOff(s.fx.Visible()))
		}},
		{label: "[ ]", help: "PDF brightness", runes: []rune{'[', ']'}, action: slide},
		{label: "- =", help: "rotate speed", runes: []rune{'-', '=', '+'}, action: slide},
		{label: ", .", help: "zoom speed", runes: []rune{',', '.'}, action: slide},
		{label: "N", help: "time of day", runes: []rune{'n'}, action: func(s *System, _ hal.KeyEvent) {
			h := s.lights.CycleTimeOfDay()
			s.hud.Flash(s.now, fmt.Sprintf("time of day %02d:00", int(h)))
		}},
		{label: "Left Up", help: "previous page", codes: []hal.KeyCode{hal.KeyLeft, hal.KeyUp}, action: func(s *System, _ hal.KeyEvent) {
			if s.doc.Loaded() {
				_ = s.doc.PrevPage()
			}
		}},
		{label: "Right Down", help: "next page", codes: []hal.KeyCode{hal.KeyRight, hal.KeyDown}, action: func(s *System, _ hal.KeyEvent) {
			if s.doc.Loaded() {
				_ = s.doc.NextPage()
			}
		}},
		{label: "F1", help: "this help", codes: []hal.KeyCode{hal.KeyF1}, action: func(s *System, _ hal.KeyEvent) { s.hud.ToggleHelp() }},
		{label: "Enter Esc", help: "dismiss", codes: []hal.KeyCode{hal.KeyEnter, hal.KeyEscape}, action: func(s *System, _ hal.KeyEvent) {
			if s.hud.HelpVisible() {
				s.hud.ToggleHelp()
			}
		}},
	}
}

// slide handles the paired keys that nudge a value down or up.
func slide(s *System, ev hal.KeyEvent) {
	switch r := ev.Rune; r {
	case '[', ']':
		s.doc.SetBrightness(nudge(s.doc.Brightness(), brightnessStep, r == ']'))
		s.room.Display().SetBrightness(s.doc.Brightness())
		s.hud.Flash(s.now, fmt.Sprintf("brightness %.1f", s.doc.Brightness()))
	case '-', '=', '+':
		s.nav.SetRotateSpeed(nudge(s.nav.Config().RotateSpeed, speedStep, r != '-'))
		s.hud.Flash(s.now, fmt.Sprintf("rotate speed %.1fx", s.nav.Config().RotateSpeed))
	case ',', '.':
		s.nav.SetZoomSpeed(nudge(s.nav.Config().ZoomSpeed, speedStep, r == '.'))
		s.hud.Flash(s.now, fmt.Sprintf("zoom speed %.1fx", s.nav.Config().ZoomSpeed))
	}
}

// nudge steps v and snaps it to the step grid so repeated presses do not
// drift.
func nudge(v, step float32, up bool) float32 {
	if up {
		v += step
	} else {
		v -= step
	}
	return math32.Round(v/step) * step
}

func helpLines(keymap []binding) []string {
	lines := make([]string, 0, len(keymap)+1)
	for _, b := range keymap {
		lines = append(lines, fmt.Sprintf("%-10s %s", b.label, b.help))
	}
	return append(lines, fmt.Sprintf("%-10s %s", "Mouse", "drag orbit, right-drag pan, wheel zoom"))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// pollKeys drains pending key presses. While a notice is open only Enter and
// Esc are honoured, and they only dismiss it.
func (s *System) pollKeys() {
	for {
		var ev hal.KeyEvent
		select {
		case e, ok := <-s.keys:
			if !ok {
				s.keys = nil
				return
			}
			ev = e
		default:
			return
		}
		if !ev.Press {
			continue
		}
		if s.hud.NoticeOpen() {
			if ev.Code == hal.KeyEnter || ev.Code == hal.KeyEscape {
				s.hud.Dismiss()
			}
			continue
		}
		s.handleKey(ev)
	}
}

func (s *System) handleKey(ev hal.KeyEvent) {
	for _, b := range s.keymap {
		if b.matches(ev) {
			b.action(s, ev)
			return
		}
	}
}
