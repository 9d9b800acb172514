package scene

import (
	"github.com/taigrr/ip2k/pkg/math3d"
	"github.com/taigrr/ip2k/pkg/models"
	"github.com/taigrr/ip2k/pkg/render"
)

// NewModelNode builds the structure node of a model: a group with one Body
// child per body group, in model order. The model is finalized when the
// environment is.
func NewModelNode(m *models.Model) *Group {
	g := NewGroup(m.Name)
	g.model = m
	for _, bg := range m.Groups {
		b := &Body{Group: bg, owner: g}
		b.setParent(g)
		g.children = append(g.children, b)
	}
	return g
}

// projectionCache holds each vertex's projection for the current frame, so
// vertices shared by several faces are projected once.
type projectionCache struct {
	stamp   []uint64
	samples []render.ScreenSample
	visible []bool
	cos     []float64 // cosine between the vertex normal and the view axis
}

func newProjectionCache(n int) *projectionCache {
	return &projectionCache{
		stamp:   make([]uint64, n),
		samples: make([]render.ScreenSample, n),
		visible: make([]bool, n),
		cos:     make([]float64, n),
	}
}

// project returns vertex vi placed by final and projected by the frame's
// camera, computing it on the first request of the frame.
func (c *projectionCache) project(f *frame, m *models.Model, final math3d.Transform, vi int) (render.ScreenSample, bool) {
	if c.stamp[vi] == f.number {
		return c.samples[vi], c.visible[vi]
	}
	v := &m.Vertices[vi]
	c.samples[vi], c.visible[vi] = f.cam.Project(final.Apply(v.Position))
	if f.env.Lighting {
		// The light sits at the camera; a normal facing it points along -X
		// in camera space.
		n := f.cam.DirToCameraSpace(math3d.RotateXYZ(v.Normal, final.Rotation))
		c.cos[vi] = -n.X
	}
	c.stamp[vi] = f.number
	return c.samples[vi], c.visible[vi]
}
