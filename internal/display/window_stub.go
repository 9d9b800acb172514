//go:build !cgo

package display

import "context"

// Window is unavailable without cgo.
type Window struct {
	opts Options
}

// NewWindow creates a window surface that always fails to run.
func NewWindow(opts Options) *Window {
	return &Window{opts: opts}
}

// Run implements Surface.
func (w *Window) Run(context.Context, Frame) error {
	return ErrWindowUnsupported
}
