package render

import (
	"errors"
	"math"

	"github.com/taigrr/ip2k/pkg/math3d"
)

// epsilon guards divisions in plane intersection and span solving.
const epsilon = 1e-9

// ErrDegeneratePlane is returned when three plane anchors are collinear.
var ErrDegeneratePlane = errors.New("degenerate plane: anchors are collinear")

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the negated distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// PlaneFromPoints builds the plane through a, b and c with unit normal
// (b-a)×(c-a).
func PlaneFromPoints(a, b, c math3d.Vec3) (Plane, error) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < epsilon {
		return Plane{}, ErrDegeneratePlane
	}
	n = n.Scale(1 / l)
	return Plane{Normal: n, D: -n.Dot(a)}, nil
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Line is a ray source and direction; points are Origin + t*Direction.
type Line struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// At returns the point at parameter t.
func (l Line) At(t float64) math3d.Vec3 {
	return l.Origin.Add(l.Direction.Scale(t))
}

// Intersect solves dot(dir, n)·t = -D - dot(origin, n). It fails when the
// line runs parallel to the plane or crosses it going backwards, i.e. when
// dot(dir, n) <= epsilon. facing is dot(dir, n).
func (p Plane) Intersect(l Line) (t, facing float64, ok bool) {
	facing = l.Direction.Dot(p.Normal)
	if facing <= epsilon {
		return 0, facing, false
	}
	return (-p.D - l.Origin.Dot(p.Normal)) / facing, facing, true
}

// ViewPlane is a plane with a parametric frame: an anchor vertex and the
// two span vectors S and T, so that plane points are Anchor + s*S + t*T.
type ViewPlane struct {
	Plane
	Anchor math3d.Vec3
	S      math3d.Vec3
	T      math3d.Vec3

	// inverse Gram matrix of (S, T)
	iss, ist, itt float64
}

// NewViewPlane builds a view plane from three anchors: a is the origin
// corner, b ends the S span and c ends the T span.
func NewViewPlane(a, b, c math3d.Vec3) (ViewPlane, error) {
	plane, err := PlaneFromPoints(a, b, c)
	if err != nil {
		return ViewPlane{}, err
	}
	s := b.Sub(a)
	t := c.Sub(a)
	ss, st, tt := s.Dot(s), s.Dot(t), t.Dot(t)
	det := ss*tt - st*st
	if math.Abs(det) < epsilon*ss*tt || det == 0 {
		return ViewPlane{}, ErrDegeneratePlane
	}
	return ViewPlane{
		Plane:  plane,
		Anchor: a,
		S:      s,
		T:      t,
		iss:    tt / det,
		ist:    -st / det,
		itt:    ss / det,
	}, nil
}

// Solve returns the plane-local coordinates (s, t) of a point on the plane.
// Points off the plane are projected orthogonally first.
func (v ViewPlane) Solve(p math3d.Vec3) (s, t float64) {
	d := p.Sub(v.Anchor)
	a := d.Dot(v.S)
	b := d.Dot(v.T)
	return v.iss*a + v.ist*b, v.ist*a + v.itt*b
}
