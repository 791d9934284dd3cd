package docview

import (
	"errors"
	"fmt"
)

var (
	ErrNoDocument = errors.New("docview: no document loaded")
	ErrPageRange  = errors.New("docview: page out of range")
)

// DecodeError reports an upload that is not a usable PDF. Document state is
// left untouched when it is returned.
type DecodeError struct {
	Name   string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("docview: %s: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("docview: %s: %s", e.Name, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RenderError reports a page that failed to rasterize.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("docview: render page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
