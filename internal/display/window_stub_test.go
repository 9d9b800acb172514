//go:build !cgo

package display

import (
	"context"
	"errors"
	"testing"
)

func TestWindowUnsupported(t *testing.T) {
	err := NewWindow(Options{}).Run(context.Background(), nil)
	if !errors.Is(err, ErrWindowUnsupported) {
		t.Errorf("Run = %v, want ErrWindowUnsupported", err)
	}
}
