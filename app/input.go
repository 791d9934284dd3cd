package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"classroom/hal"
	"classroom/vclass/docview"
)

// dollyPerPixel converts a middle-button drag into wheel steps.
const dollyPerPixel = 0.05

const invalidUpload = "Please select a valid PDF file"

// pollPointer drains pointer events into the navigator: left drag orbits,
// right drag pans, middle drag and the wheel dolly. The navigator is disabled
// while a notice is open, so those events fall through.
func (s *System) pollPointer() {
	h := float32(s.fb.Height())
	s.nav.SetEnabled(!s.hud.NoticeOpen())
	for {
		var ev hal.PointerEvent
		select {
		case e, ok := <-s.pointer:
			if !ok {
				s.pointer = nil
				return
			}
			ev = e
		default:
			return
		}
		switch ev.Kind {
		case hal.PointerMove:
			switch ev.Button {
			case hal.ButtonLeft:
				s.nav.Rotate(ev.DX, ev.DY, h)
			case hal.ButtonRight:
				s.nav.Pan(ev.DX, ev.DY, h)
			case hal.ButtonMiddle:
				s.nav.Zoom(-ev.DY * dollyPerPixel)
			}
		case hal.PointerWheel:
			s.nav.Zoom(ev.Wheel)
		}
	}
}

// drainUploads loads every pending upload in arrival order. The last valid one
// wins; invalid ones raise the notice and leave the document as it was.
func (s *System) drainUploads() {
	for {
		select {
		case up, ok := <-s.uploads:
			if !ok {
				s.uploads = nil
				return
			}
			s.load(up)
		default:
			return
		}
	}
}

func (s *System) load(up hal.Upload) {
	name := filepath.Base(up.Name)
	if up.Err != nil {
		s.log.Error("upload unreadable", "name", up.Name, "err", up.Err)
		s.hud.Notify(fmt.Sprintf("Could not read %s", name))
		return
	}
	if _, err := s.doc.Load(name, docview.DeclaredMIME(name), up.Data); err != nil {
		var derr *docview.DecodeError
		if errors.As(err, &derr) {
			s.hud.Notify(invalidUpload)
			return
		}
		s.log.Error("upload failed", "name", name, "err", err)
		return
	}
	s.fileSize = int64(len(up.Data))
	s.hud.Flash(s.now, "loaded "+name)
}
