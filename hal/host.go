//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"time"
)

// HostConfig sizes the host HAL.
type HostConfig struct {
	Width, Height int
	// WatchDir, when set, is an upload inbox: PDFs written there are offered
	// to the app.
	WatchDir string
	// Files are read once at startup and offered as uploads.
	Files []string
	// FrameStep fixes the clock advance per frame. Zero uses wall time.
	FrameStep time.Duration
	// Color enables ANSI colouring of warn and error log lines.
	Color bool
}

type hostHAL struct {
	logger  *hostLogger
	fb      *hostFramebuffer
	kbd     *hostKeyboard
	ptr     *hostPointer
	t       *hostTime
	uploads *hostUploads
}

// newHost returns the host HAL. The caller must Close it to stop the
// inbox watcher.
func newHost(cfg HostConfig) (*hostHAL, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("hal: invalid framebuffer size %dx%d", cfg.Width, cfg.Height)
	}
	logger := newHostLogger(os.Stdout, cfg.Color)
	up := newHostUploads()
	for _, path := range cfg.Files {
		up.offerFile(path)
	}
	if cfg.WatchDir != "" {
		if err := up.watch(cfg.WatchDir, logger); err != nil {
			return nil, err
		}
	}
	return &hostHAL{
		logger:  logger,
		fb:      newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:     newHostKeyboard(),
		ptr:     newHostPointer(),
		t:       newHostTime(cfg.FrameStep),
		uploads: up,
	}, nil
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Uploads() Uploads { return h.uploads }

// Close stops background watchers.
func (h *hostHAL) Close() error { return h.uploads.close() }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }
