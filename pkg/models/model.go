// Package models provides the arena representation of 3D models and the
// loaders that build it from OBJ/MTL and glTF files.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/ip2k/pkg/math3d"
	"github.com/taigrr/ip2k/pkg/render"
)

var (
	// ErrFaceOverflow is returned when a fourth vertex is added to a face.
	ErrFaceOverflow = errors.New("face already has 3 vertices")
	// ErrFaceIncomplete is returned by Finalize for a face with fewer than
	// 3 vertices.
	ErrFaceIncomplete = errors.New("face has fewer than 3 vertices")
	// ErrIndex is returned for a vertex, face or group index the model did
	// not hand out.
	ErrIndex = errors.New("index out of range")
)

// Vertex is a model-space vertex. Faces lists the faces using it and is
// rebuilt by Finalize.
type Vertex struct {
	Position  math3d.Vec3
	Normal    math3d.Vec3
	UV        math3d.Vec2 // normalized, origin top-left
	HasNormal bool
	Faces     []int
}

// Face is a triangle of vertex indices belonging to one body group.
type Face struct {
	V     [3]int
	Count int // vertices added so far
	Group int

	// Set by Finalize.
	Normal     math3d.Vec3
	TexelUV    [3]math3d.Vec2 // vertex UVs in texel units of the group texture
	TexS, TexT math3d.Vec2    // TexelUV[1]-TexelUV[0], TexelUV[2]-TexelUV[0]
}

// BodyGroup is a named set of faces sharing one material. It is the unit
// of visibility toggling.
type BodyGroup struct {
	Name     string
	Material *render.Material
	Faces    []int
	Visible  bool
	Bounds   render.AABB
}

// Model owns flat vertex, face and body group arrays. Faces refer to
// vertices by index and vertices list their faces by index, so the model
// has no pointer cycles.
type Model struct {
	Name     string
	Vertices []Vertex
	Faces    []Face
	Groups   []*BodyGroup
	Bounds   render.AABB

	finalized bool
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddVertex appends a vertex and returns its index.
func (m *Model) AddVertex(v Vertex) int {
	m.Vertices = append(m.Vertices, v)
	m.finalized = false
	return len(m.Vertices) - 1
}

// AddGroup appends a visible body group and returns its index. A nil
// material selects the default material.
func (m *Model) AddGroup(name string, mat *render.Material) int {
	if mat == nil {
		mat = render.DefaultMaterial()
	}
	m.Groups = append(m.Groups, &BodyGroup{Name: name, Material: mat, Visible: true})
	return len(m.Groups) - 1
}

// Group returns the first body group with the given name, or nil.
func (m *Model) Group(name string) *BodyGroup {
	for _, g := range m.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// AddFace appends an empty face to a group and returns its index.
func (m *Model) AddFace(group int) (int, error) {
	if group < 0 || group >= len(m.Groups) {
		return 0, fmt.Errorf("group %d: %w", group, ErrIndex)
	}
	m.Faces = append(m.Faces, Face{Group: group})
	idx := len(m.Faces) - 1
	g := m.Groups[group]
	g.Faces = append(g.Faces, idx)
	m.finalized = false
	return idx, nil
}

// AddFaceVertex adds a vertex to a face. Adding a fourth vertex fails with
// ErrFaceOverflow.
func (m *Model) AddFaceVertex(face, vertex int) error {
	if face < 0 || face >= len(m.Faces) {
		return fmt.Errorf("face %d: %w", face, ErrIndex)
	}
	if vertex < 0 || vertex >= len(m.Vertices) {
		return fmt.Errorf("vertex %d: %w", vertex, ErrIndex)
	}
	f := &m.Faces[face]
	if f.Count == 3 {
		return fmt.Errorf("face %d: %w", face, ErrFaceOverflow)
	}
	f.V[f.Count] = vertex
	f.Count++
	return nil
}

// AddTriangle appends a complete face to a group.
func (m *Model) AddTriangle(group, a, b, c int) (int, error) {
	face, err := m.AddFace(group)
	if err != nil {
		return 0, err
	}
	for _, v := range [3]int{a, b, c} {
		if err := m.AddFaceVertex(face, v); err != nil {
			return 0, err
		}
	}
	return face, nil
}

// Finalized reports whether Finalize succeeded since the last change.
func (m *Model) Finalized() bool {
	return m.finalized
}

// Finalize checks that every face is a triangle, gives groups without a
// material the default one and precomputes face
// normals, texel-space UVs and S/T edge vectors, vertex normals where the
// source had none, vertex→face back references and bounds.
func (m *Model) Finalize() error {
	for i := range m.Faces {
		if m.Faces[i].Count < 3 {
			return fmt.Errorf("face %d (%d vertices): %w", i, m.Faces[i].Count, ErrFaceIncomplete)
		}
	}

	for _, g := range m.Groups {
		if g.Material == nil {
			g.Material = render.DefaultMaterial()
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Faces = m.Vertices[i].Faces[:0]
	}
	for i := range m.Faces {
		f := &m.Faces[i]
		p0 := m.Vertices[f.V[0]].Position
		p1 := m.Vertices[f.V[1]].Position
		p2 := m.Vertices[f.V[2]].Position
		f.Normal = p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()

		tex := m.Groups[f.Group].Material.Texture
		if tex == nil {
			tex = render.DefaultTexture()
		}
		size := math3d.V2(float64(tex.Width()), float64(tex.Height()))
		for k, vi := range f.V {
			f.TexelUV[k] = m.Vertices[vi].UV.Mul(size)
			m.Vertices[vi].Faces = append(m.Vertices[vi].Faces, i)
		}
		f.TexS = f.TexelUV[1].Sub(f.TexelUV[0])
		f.TexT = f.TexelUV[2].Sub(f.TexelUV[0])
	}

	m.smoothNormals()
	m.calculateBounds()
	m.finalized = true
	return nil
}

// smoothNormals gives every vertex without a source normal the area
// weighted average of its faces' normals.
func (m *Model) smoothNormals() {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		if v.HasNormal {
			continue
		}
		var sum math3d.Vec3
		for _, fi := range v.Faces {
			f := &m.Faces[fi]
			p0 := m.Vertices[f.V[0]].Position
			p1 := m.Vertices[f.V[1]].Position
			p2 := m.Vertices[f.V[2]].Position
			sum = sum.Add(p1.Sub(p0).Cross(p2.Sub(p0))) // don't normalize yet
		}
		v.Normal = sum.Normalize()
	}
}

// calculateBounds computes the model and body group bounding boxes.
func (m *Model) calculateBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = render.AABB{}
		return
	}
	first := m.Vertices[0].Position
	m.Bounds = render.NewAABB(first, first)
	for _, v := range m.Vertices[1:] {
		m.Bounds = m.Bounds.Extend(v.Position)
	}

	for _, g := range m.Groups {
		if len(g.Faces) == 0 {
			g.Bounds = render.AABB{}
			continue
		}
		p := m.Vertices[m.Faces[g.Faces[0]].V[0]].Position
		b := render.NewAABB(p, p)
		for _, fi := range g.Faces {
			for _, vi := range m.Faces[fi].V {
				b = b.Extend(m.Vertices[vi].Position)
			}
		}
		g.Bounds = b
	}
}

// Transform applies a matrix to every vertex position and normal.
func (m *Model) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulVec3(v.Position)
		v.Normal = mat.MulVec3Dir(v.Normal).Normalize()
	}
	m.calculateBounds()
}

// Fit recentres the model on the origin and scales it uniformly so its
// largest dimension equals size.
func (m *Model) Fit(size float64) {
	m.calculateBounds()
	largest := m.Bounds.Size().MaxComponent()
	if largest <= 0 || size <= 0 {
		return
	}
	s := size / largest
	m.Transform(math3d.Scale(math3d.V3(s, s, s)).Mul(math3d.Translate(m.Bounds.Center().Negate())))
}

// TriangleCount returns the number of faces.
func (m *Model) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Model) VertexCount() int {
	return len(m.Vertices)
}
