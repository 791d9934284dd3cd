//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	// Snapshot, when set, receives the final frame as PNG.
	Snapshot string
}

// RunHeadless runs the app without opening a window. The frame clock advances
// a fixed 1/Hz per tick.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, host HostConfig, newApp AppFactory) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("hal: invalid headless hz: %d", cfg.Hz)
	}
	host.FrameStep = d

	h, err := newHost(host)
	if err != nil {
		return err
	}
	defer h.Close()

	step, err := newApp(h)
	if err != nil {
		return err
	}

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.advance()
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return writeSnapshot(h.fb, cfg.Snapshot)
			}
		}
	}
}

func writeSnapshot(fb *hostFramebuffer, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("hal: snapshot: %w", err)
	}
	fb.mu.Lock()
	err = png.Encode(f, fb.img)
	fb.mu.Unlock()
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("hal: snapshot: %w", err)
	}
	return nil
}
