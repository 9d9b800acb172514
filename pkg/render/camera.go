package render

import (
	"fmt"
	"math"

	"github.com/taigrr/ip2k/pkg/math3d"
)

// ScreenSample is a vertex projected onto the view plane.
type ScreenSample struct {
	X, Y  float64 // pixel coordinates, origin top-left
	Depth float64 // distance from the camera; smaller is nearer
	W     float64 // distance along the view axis, for perspective correction
}

// Camera projects world geometry onto a view plane in front of it and owns
// the buffer it renders into.
//
// In camera space the camera sits at the origin looking along +X. The view
// plane is the rectangle at X = Distance spanning PlaneWidth along +Y
// (screen right) and PlaneHeight along +Z (screen down).
type Camera struct {
	Distance    float64
	PlaneWidth  float64
	PlaneHeight float64 // 0 derives the height from the buffer aspect ratio

	Buffer *RenderBuffer

	final   math3d.Transform
	plane   ViewPlane
	frustum Frustum
	ready   bool
}

// NewCamera creates a camera with a view plane at distance and a buffer of
// width×height pixels.
func NewCamera(distance, planeWidth float64, width, height int) *Camera {
	return &Camera{
		Distance:   distance,
		PlaneWidth: planeWidth,
		Buffer:     NewRenderBuffer(width, height),
		final:      math3d.IdentityTransform(),
	}
}

// Resize reallocates the buffer. The view plane must be updated before the
// next projection.
func (c *Camera) Resize(width, height int) {
	if c.Buffer != nil && c.Buffer.Width == width && c.Buffer.Height == height {
		return
	}
	c.Buffer = NewRenderBuffer(width, height)
	c.ready = false
}

// planeHeight returns the effective view plane height.
func (c *Camera) planeHeight() float64 {
	if c.PlaneHeight > 0 {
		return c.PlaneHeight
	}
	if c.Buffer == nil || c.Buffer.Width == 0 {
		return c.PlaneWidth
	}
	return c.PlaneWidth * float64(c.Buffer.Height) / float64(c.Buffer.Width)
}

// UpdateViewPlane records the camera's composed transform and rebuilds the
// view plane and frustum. It must run after any change of transform or
// resolution and before the frame's first projection.
func (c *Camera) UpdateViewPlane(final math3d.Transform) error {
	w := c.PlaneWidth / 2
	h := c.planeHeight() / 2
	d := c.Distance
	plane, err := NewViewPlane(
		math3d.V3(d, -w, -h),
		math3d.V3(d, w, -h),
		math3d.V3(d, -w, h),
	)
	if err != nil {
		return fmt.Errorf("camera view plane (distance %v, %vx%v): %w", d, 2*w, 2*h, err)
	}
	c.final = final
	c.plane = plane
	c.frustum = NewViewFrustum(plane)
	c.ready = true
	return nil
}

// Ready reports whether the view plane is current.
func (c *Camera) Ready() bool {
	return c.ready
}

// Transform returns the composed transform the view plane was built from.
func (c *Camera) Transform() math3d.Transform {
	return c.final
}

// ViewPlane returns the camera-space view plane.
func (c *Camera) ViewPlane() ViewPlane {
	return c.plane
}

// Frustum returns the camera-space view frustum.
func (c *Camera) Frustum() Frustum {
	return c.frustum
}

// ToCameraSpace moves a world point into camera space: the camera position
// is subtracted and the camera rotation undone Z→Y→X.
func (c *Camera) ToCameraSpace(world math3d.Vec3) math3d.Vec3 {
	return math3d.InverseRotateZYX(world.Sub(c.final.Position), c.final.Rotation)
}

// DirToCameraSpace rotates a world direction into camera space.
func (c *Camera) DirToCameraSpace(dir math3d.Vec3) math3d.Vec3 {
	return math3d.InverseRotateZYX(dir, c.final.Rotation)
}

// Project projects a world point. It reports false when the point is not
// in front of the view plane's facing direction.
func (c *Camera) Project(world math3d.Vec3) (ScreenSample, bool) {
	return c.ProjectCameraSpace(c.ToCameraSpace(world))
}

// ProjectCameraSpace intersects the line from the camera through p with the
// view plane and converts the hit to pixel coordinates.
func (c *Camera) ProjectCameraSpace(p math3d.Vec3) (ScreenSample, bool) {
	line := Line{Direction: p}
	t, facing, ok := c.plane.Intersect(line)
	if !ok {
		return ScreenSample{}, false
	}
	s, u := c.plane.Solve(line.At(t))
	x := s * float64(c.Buffer.Width)
	y := u * float64(c.Buffer.Height)
	if !finite(x) || !finite(y) {
		return ScreenSample{}, false
	}
	return ScreenSample{X: x, Y: y, Depth: p.Len(), W: facing}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
