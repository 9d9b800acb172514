// Package display runs the frame loop on an output surface and feeds key
// input back to the caller.
package display

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/ip2k/internal/input"
	"github.com/taigrr/ip2k/pkg/render"
)

// ErrWindowUnsupported is returned by the window surface in builds
// without cgo.
var ErrWindowUnsupported = errors.New("window display requires a cgo build")

// Tick is what a surface hands the frame callback once per frame.
type Tick struct {
	Width, Height int     // buffer size the surface will show
	DT            float64 // seconds since the previous frame, clamped
	FPS           float64
	Input         input.Frame
}

// Frame renders one frame and returns the finished buffer. The buffer
// must be Width x Height.
type Frame func(Tick) (*render.RenderBuffer, error)

// Surface shows frames until the context ends, the user quits or frame
// fails.
type Surface interface {
	Run(ctx context.Context, frame Frame) error
}

// Options configures a surface.
type Options struct {
	Title  string
	Width  int // window size in pixels; the terminal follows its own size
	Height int
	FPS    int

	// Status returns the text for the status line. Nil hides it.
	Status func(fps float64) string

	State *input.State
	Log   *zap.Logger
}

// New creates the surface for a backend name.
func New(backend string, opts Options) (Surface, error) {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	switch strings.ToLower(backend) {
	case "", "terminal", "term", "tty":
		return NewTerminal(opts), nil
	case "window", "ebiten":
		return NewWindow(opts), nil
	default:
		return nil, fmt.Errorf("unknown display backend %q", backend)
	}
}

// StatusText formats the default status line.
func StatusText(fps float64, stats render.Stats, strategy render.Strategy) string {
	return fmt.Sprintf("%3.0f fps  %d/%d tris  culled %d  off %d  %s",
		fps, stats.Drawn, stats.Submitted, stats.Culled, stats.OffScreen, strategy)
}
