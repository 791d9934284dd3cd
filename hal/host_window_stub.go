//go:build !tinygo && !cgo

package hal

import "errors"

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Title string
	Scale int
}

func RunWindow(_ WindowConfig, _ HostConfig, _ AppFactory) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
