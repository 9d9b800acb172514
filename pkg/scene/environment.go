package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/ip2k/pkg/math3d"
	"github.com/taigrr/ip2k/pkg/render"
)

var (
	// ErrAlreadyFinalized is returned by a second call to Finalize.
	ErrAlreadyFinalized = errors.New("environment already finalized")
	// ErrFinalized is returned when nodes are added after Finalize.
	ErrFinalized = errors.New("environment is finalized")
	// ErrNotFinalized is returned when rendering before Finalize.
	ErrNotFinalized = errors.New("environment not finalized")
	// ErrNoCamera is returned when the scene holds no camera.
	ErrNoCamera = errors.New("scene has no camera")
)

// Environment owns the node tree and renders it through the active camera.
// It moves from unfinalized to finalized once; rendering is single-threaded
// and each frame completes before the buffer is returned.
type Environment struct {
	Root *Group

	Strategy   render.Strategy
	Lighting   bool   // per-vertex headlight attenuation
	Cull       bool   // skip bodies outside the view frustum
	Wireframe  bool   // outline faces after the fill
	WireColor  uint32 // 0x00RRGGBB
	Background uint32 // 0x00RRGGBB

	Log *zap.Logger

	cameras   []*CameraNode
	bodies    []*Body
	active    *CameraNode
	focus     Node
	raster    *render.Rasterizer
	finalized bool
	frames    uint64
}

// NewEnvironment creates an empty, unfinalized environment with the
// perspective-correct strategy and bounds culling enabled.
func NewEnvironment() *Environment {
	return &Environment{
		Root:      NewGroup("root"),
		Strategy:  render.StrategyPerspective,
		Cull:      true,
		WireColor: render.White,
		Log:       zap.NewNop(),
	}
}

// Add attaches a node to the root.
func (e *Environment) Add(n Node) error {
	if e.finalized {
		return ErrFinalized
	}
	return e.Root.AddChild(n)
}

// Finalize walks the tree once: models finalize their faces, cameras build
// their view planes and bodies are registered for toggling. The first
// camera in tree order becomes active.
func (e *Environment) Finalize() error {
	if e.finalized {
		return ErrAlreadyFinalized
	}
	e.cameras = e.cameras[:0]
	e.bodies = e.bodies[:0]
	if err := e.Root.finalize(e); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	if len(e.cameras) == 0 {
		return ErrNoCamera
	}
	e.Root.freeze()
	e.active = e.cameras[0]
	e.raster = render.NewRasterizer(e.active.Camera.Buffer, e.Strategy)
	e.finalized = true

	e.Log.Info("scene finalized",
		zap.Int("cameras", len(e.cameras)),
		zap.Int("bodies", len(e.bodies)),
		zap.String("camera", e.active.Name()))
	return nil
}

// Finalized reports whether Finalize succeeded.
func (e *Environment) Finalized() bool {
	return e.finalized
}

// ActiveCamera returns the camera used by RenderFrame, or nil before
// Finalize.
func (e *Environment) ActiveCamera() *CameraNode {
	return e.active
}

// Cameras returns the finalized cameras in tree order.
func (e *Environment) Cameras() []*CameraNode {
	return e.cameras
}

// SetActiveCamera switches to camera i of Cameras.
func (e *Environment) SetActiveCamera(i int) error {
	if !e.finalized {
		return ErrNotFinalized
	}
	if i < 0 || i >= len(e.cameras) {
		return fmt.Errorf("camera %d of %d: %w", i, len(e.cameras), ErrNoCamera)
	}
	e.active = e.cameras[i]
	return nil
}

// Bodies returns the body nodes in tree order. Toggle indices refer to
// this order.
func (e *Environment) Bodies() []*Body {
	return e.bodies
}

// SetFocus selects the node that rotation input turns. A nil focus turns
// the first model node.
func (e *Environment) SetFocus(n Node) {
	e.focus = n
}

// Stats returns the rasterizer statistics of the last frame.
func (e *Environment) Stats() render.Stats {
	if e.raster == nil {
		return render.Stats{}
	}
	return e.raster.Stats
}

// Frames returns the number of frames rendered.
func (e *Environment) Frames() uint64 {
	return e.frames
}

// frame is the per-frame traversal state.
type frame struct {
	env    *Environment
	cam    *render.Camera
	raster *render.Rasterizer
	number uint64
	wire   [][3]render.ScreenSample
}

// RenderFrame clears the active camera's buffer, rebuilds its view plane
// from its composed transform, renders the tree depth-first and returns
// the finished buffer.
func (e *Environment) RenderFrame() (*render.RenderBuffer, error) {
	if !e.finalized {
		return nil, ErrNotFinalized
	}
	if e.active == nil {
		return nil, ErrNoCamera
	}
	cam := e.active.Camera
	if err := cam.UpdateViewPlane(e.active.World()); err != nil {
		return nil, fmt.Errorf("camera %q: %w", e.active.Name(), err)
	}

	buf := cam.Buffer
	buf.Clear(e.Background)
	e.raster.Buffer = buf
	e.raster.Strategy = e.Strategy
	e.raster.ResetStats()

	e.frames++
	f := &frame{env: e, cam: cam, raster: e.raster, number: e.frames}
	e.Root.render(f, math3d.IdentityTransform())

	for _, w := range f.wire {
		buf.DrawWireTriangle(w[0], w[1], w[2], e.WireColor)
	}
	return buf, nil
}
