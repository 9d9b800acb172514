package render

import (
	"github.com/taigrr/ip2k/pkg/math3d"
)

// Frustum represents the 5 planes bounding what a camera can see: the
// plane through the camera facing the view direction and the four sides
// through the camera and the view plane edges.
// Each plane's normal points inward.
type Frustum struct {
	Planes [5]Plane
}

// FrustumPlane indices for clarity.
const (
	FrustumNear = iota
	FrustumLeft
	FrustumRight
	FrustumTop
	FrustumBottom
)

// NewViewFrustum builds the camera-space frustum of a view plane seen from
// the origin.
func NewViewFrustum(vp ViewPlane) Frustum {
	c00 := vp.Anchor
	c10 := vp.Anchor.Add(vp.S)
	c01 := vp.Anchor.Add(vp.T)
	c11 := c10.Add(vp.T)
	center := c00.Add(c11).Scale(0.5)

	var f Frustum
	f.Planes[FrustumNear] = Plane{Normal: vp.Normal}
	f.Planes[FrustumLeft] = sidePlane(c00, c01, center)
	f.Planes[FrustumRight] = sidePlane(c10, c11, center)
	f.Planes[FrustumTop] = sidePlane(c00, c10, center)
	f.Planes[FrustumBottom] = sidePlane(c01, c11, center)
	return f
}

// sidePlane returns the plane through the origin, a and b, oriented so the
// view centre is on its positive side.
func sidePlane(a, b, center math3d.Vec3) Plane {
	n := a.Cross(b).Normalize()
	if n.Dot(center) < 0 {
		n = n.Negate()
	}
	return Plane{Normal: n}
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the 8 corners of the box.
func (b AABB) Corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Map returns an AABB that bounds the box's 8 corners after f.
func (b AABB) Map(f func(math3d.Vec3) math3d.Vec3) AABB {
	corners := b.Corners()
	first := f(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := f(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// Extend grows the box to contain p.
func (b AABB) Extend(p math3d.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB tests if the AABB intersects or is inside the frustum.
// Returns true if any part of the AABB may be visible.
// Uses the "positive vertex" optimization for faster rejection.
func (f Frustum) IntersectAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		// The corner furthest along the normal is the last one to leave.
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)

		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// BoundsVisible reports whether a model-space box placed by a composed
// transform may be visible to the camera.
func (c *Camera) BoundsVisible(local AABB, final math3d.Transform) bool {
	view := local.Map(func(p math3d.Vec3) math3d.Vec3 {
		return c.ToCameraSpace(final.Apply(p))
	})
	return c.frustum.IntersectAABB(view)
}
