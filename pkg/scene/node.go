// Package scene holds the node tree of an ip2k scene and the Environment
// that finalizes it and renders it through the active camera.
package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/ip2k/pkg/math3d"
	"github.com/taigrr/ip2k/pkg/models"
	"github.com/taigrr/ip2k/pkg/render"
)

var (
	// ErrAttached is returned when a node that already has a parent is
	// attached again.
	ErrAttached = errors.New("node already attached")
	// ErrCycle is returned when attaching a node under itself or one of its
	// descendants.
	ErrCycle = errors.New("node would become its own ancestor")
	// ErrBodyParent is returned when a Body is attached outside its model
	// node.
	ErrBodyParent = errors.New("body can only belong to its model node")
)

// Kind identifies the closed set of node variants.
type Kind int

const (
	KindGroup Kind = iota
	KindBody
	KindCamera
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindBody:
		return "body"
	case KindCamera:
		return "camera"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is one of *Group, *Body or *CameraNode.
type Node interface {
	Kind() Kind
	Name() string
	Parent() *Group

	setParent(g *Group)
	finalize(e *Environment) error
	render(f *frame, parent math3d.Transform)
}

// link is the parent pointer shared by every node kind.
type link struct {
	parent *Group
}

// Parent returns the group the node is attached to, or nil.
func (l *link) Parent() *Group { return l.parent }

func (l *link) setParent(g *Group) { l.parent = g }

// Group is a structure node: a local transform and ordered children. A
// group built by NewModelNode also owns a model and its body children.
type Group struct {
	link
	name      string
	Transform math3d.Transform
	children  []Node
	final     math3d.Transform
	frozen    bool

	model *models.Model
	cache *projectionCache
}

// NewGroup creates an empty group with an identity transform.
func NewGroup(name string) *Group {
	return &Group{name: name, Transform: math3d.IdentityTransform(), final: math3d.IdentityTransform()}
}

// Kind returns KindGroup.
func (g *Group) Kind() Kind { return KindGroup }

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Children returns the group's children in render order.
func (g *Group) Children() []Node { return g.children }

// Model returns the model of a model node, or nil.
func (g *Group) Model() *models.Model { return g.model }

// Final returns the transform composed during the last frame.
func (g *Group) Final() math3d.Transform { return g.final }

// AddChild attaches n as the last child of g. A node can be attached once,
// never under its own descendants, and not after the environment holding g
// was finalized.
func (g *Group) AddChild(n Node) error {
	if g.frozen {
		return ErrFinalized
	}
	if n.Parent() != nil {
		return fmt.Errorf("%s %q: %w", n.Kind(), n.Name(), ErrAttached)
	}
	if n.Kind() == KindBody {
		return fmt.Errorf("%q: %w", n.Name(), ErrBodyParent)
	}
	if child, ok := n.(*Group); ok {
		for a := g; a != nil; a = a.parent {
			if a == child {
				return fmt.Errorf("group %q: %w", child.name, ErrCycle)
			}
		}
	}
	n.setParent(g)
	g.children = append(g.children, n)
	return nil
}

func (g *Group) finalize(e *Environment) error {
	if g.model != nil {
		if err := g.model.Finalize(); err != nil {
			return fmt.Errorf("model %q: %w", g.model.Name, err)
		}
		g.cache = newProjectionCache(len(g.model.Vertices))
	}
	for _, c := range g.children {
		if err := c.finalize(e); err != nil {
			return err
		}
	}
	return nil
}

// freeze stops g and its descendant groups from accepting children.
func (g *Group) freeze() {
	g.frozen = true
	for _, c := range g.children {
		if child, ok := c.(*Group); ok {
			child.freeze()
		}
	}
}

func (g *Group) render(f *frame, parent math3d.Transform) {
	g.final = math3d.Compose(g.Transform, parent)
	for _, c := range g.children {
		c.render(f, g.final)
	}
}

// Body renders the faces of one model body group. Bodies are created by
// NewModelNode and use the transform of their model node.
type Body struct {
	link
	Group *models.BodyGroup
	owner *Group
}

// Kind returns KindBody.
func (b *Body) Kind() Kind { return KindBody }

// Name returns the body group name.
func (b *Body) Name() string { return b.Group.Name }

// Visible reports whether the body is drawn.
func (b *Body) Visible() bool { return b.Group.Visible }

// SetVisible shows or hides the body.
func (b *Body) SetVisible(v bool) { b.Group.Visible = v }

// Toggle flips the body's visibility.
func (b *Body) Toggle() { b.Group.Visible = !b.Group.Visible }

func (b *Body) finalize(e *Environment) error {
	e.bodies = append(e.bodies, b)
	return nil
}

func (b *Body) render(f *frame, parent math3d.Transform) {
	g := b.Group
	if !g.Visible {
		return
	}
	if f.env.Cull && !f.cam.BoundsVisible(g.Bounds, parent) {
		f.raster.Stats.Culled += len(g.Faces)
		return
	}

	m := b.owner.model
	cache := b.owner.cache
	mat := g.Material
	if mat == nil {
		mat = fallbackMaterial
	}
	lit := f.env.Lighting

	var tri render.Triangle
	tri.Texture = mat.Texture
	tri.Lit = lit
	for _, fi := range g.Faces {
		face := &m.Faces[fi]
		visible := true
		for k, vi := range face.V {
			s, ok := cache.project(f, m, parent, vi)
			if !ok {
				visible = false
				break
			}
			tv := &tri.V[k]
			tv.ScreenSample = s
			tv.U, tv.V = face.TexelUV[k].X, face.TexelUV[k].Y
			if lit {
				tv.Light = mat.Attenuation(cache.cos[vi])
			}
		}
		if !visible {
			f.raster.Stats.Culled++
			continue
		}
		f.raster.FillTriangle(&tri)
		if f.env.Wireframe {
			f.wire = append(f.wire, [3]render.ScreenSample{tri.V[0].ScreenSample, tri.V[1].ScreenSample, tri.V[2].ScreenSample})
		}
	}
}

// fallbackMaterial stands in for a group whose material was cleared after
// Finalize.
var fallbackMaterial = render.DefaultMaterial()

// CameraNode places a camera in the tree.
type CameraNode struct {
	link
	name      string
	Transform math3d.Transform
	Camera    *render.Camera
}

// NewCameraNode wraps a camera with an identity transform.
func NewCameraNode(name string, cam *render.Camera) *CameraNode {
	return &CameraNode{name: name, Transform: math3d.IdentityTransform(), Camera: cam}
}

// Kind returns KindCamera.
func (c *CameraNode) Kind() Kind { return KindCamera }

// Name returns the camera name.
func (c *CameraNode) Name() string { return c.name }

// World composes the camera's transform through its ancestors.
func (c *CameraNode) World() math3d.Transform {
	return worldTransform(c.Transform, c.parent)
}

func (c *CameraNode) finalize(e *Environment) error {
	if err := c.Camera.UpdateViewPlane(c.World()); err != nil {
		return fmt.Errorf("camera %q: %w", c.name, err)
	}
	e.cameras = append(e.cameras, c)
	return nil
}

func (c *CameraNode) render(*frame, math3d.Transform) {}

// worldTransform composes local under every ancestor starting at parent.
func worldTransform(local math3d.Transform, parent *Group) math3d.Transform {
	var chain []math3d.Transform
	for g := parent; g != nil; g = g.parent {
		chain = append(chain, g.Transform)
	}
	final := math3d.IdentityTransform()
	for i := len(chain) - 1; i >= 0; i-- {
		final = math3d.Compose(chain[i], final)
	}
	return math3d.Compose(local, final)
}
