//go:build !tinygo && cgo

package hal

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"classroom/internal/buildinfo"
)

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Title string
	Scale int
}

// RunWindow starts a desktop window that displays the framebuffer, forwards
// keyboard and mouse input and accepts dropped files. It blocks until the
// window closes.
func RunWindow(cfg WindowConfig, host HostConfig, newApp AppFactory) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.Title == "" {
		cfg.Title = "Virtual Classroom"
	}
	host.FrameStep = 0

	h, err := newHost(host)
	if err != nil {
		return err
	}
	defer h.Close()

	step, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle(cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.Width()*cfg.Scale, h.fb.Height()*cfg.Scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll()
	if files := ebiten.DroppedFiles(); files != nil {
		g.h.uploads.offerFS(files)
	}
	g.h.t.advance()
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrHalted) {
				g.h.logger.WriteLineString("level=ERROR msg=\"app halted; close the window to exit\" err=\"" + err.Error() + "\"")
				g.step = nil
				return nil
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.Width(), fb.Height()
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
		g.scratch = make([]byte, len(fb.Buffer()))
	}
	fb.snapshot(g.scratch)
	g.fbImg.WritePixels(g.scratch)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.Width(), g.h.fb.Height()
}
