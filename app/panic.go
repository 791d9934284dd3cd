package app

import (
	"fmt"
	"runtime/debug"
	"strings"

	"classroom/hal"
	"classroom/vclass/hud"
)

// recoverStep turns a panic inside Step into a crash screen and a halting
// error. Later Steps return the same error without running.
func (s *System) recoverStep(err *error) {
	r := recover()
	if r == nil {
		return
	}
	stack := strings.Split(strings.TrimSpace(string(debug.Stack())), "\n")
	frame := s.driver.Frame()
	s.log.Error("panic", "frame", frame, "panic", fmt.Sprint(r), "stack", strings.Join(stack, " | "))

	lines := []string{
		"Classroom panic:",
		fmt.Sprintf("frame: %d", frame),
		fmt.Sprintf("panic: %v", r),
		"stack:",
	}
	for _, l := range stack {
		if l != "" {
			lines = append(lines, strings.ReplaceAll(l, "\t", "  "))
		}
	}
	hud.DrawFatal(s.fb, lines)
	_ = s.fb.Present()

	s.halted = fmt.Errorf("app: panic in frame %d: %v: %w", frame, r, hal.ErrHalted)
	*err = s.halted
}
