package models

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/ip2k/pkg/math3d"
	"github.com/taigrr/ip2k/pkg/render"
)

func writeGLB(t *testing.T, withMaterial bool) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})

	prim := &gltf.Primitive{
		Indices:    gltf.Index(idx),
		Attributes: map[string]int{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
	}
	if withMaterial {
		doc.Materials = []*gltf.Material{{
			Name: "green",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{0, 1, 0, 1},
			},
		}}
		prim.Material = gltf.Index(0)
	}
	doc.Meshes = []*gltf.Mesh{{Name: "quad", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "quad", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLTF(t *testing.T) {
	path := writeGLB(t, true)

	m, err := LoadGLTF(path, GLTFOptions{})
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if m.Name != "quad" || m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Fatalf("model %q has %d vertices and %d faces", m.Name, m.VertexCount(), m.TriangleCount())
	}
	if len(m.Groups) != 1 || m.Groups[0].Name != "quad" {
		t.Fatalf("groups = %+v", m.Groups)
	}

	mat := m.Groups[0].Material
	if mat.Name != "green" || mat.Texture.At(0, 0) != render.ARGB(0xFF, 0, 0xFF, 0) {
		t.Errorf("material %q texel %08x, want the base colour factor", mat.Name, mat.Texture.At(0, 0))
	}
	if m.Vertices[2].Position != math3d.V3(1, 1, 0) || m.Vertices[2].UV != math3d.V2(1, 1) {
		t.Errorf("vertex 2 = %+v", m.Vertices[2])
	}
	if m.Faces[1].V != [3]int{0, 2, 3} {
		t.Errorf("face 1 = %v", m.Faces[1].V)
	}

	if err := m.Finalize(); err != nil {
		t.Fatal(err)
	}
	if m.Vertices[0].HasNormal || m.Vertices[0].Normal != math3d.V3(0, 0, 1) {
		t.Errorf("derived normal = %v", m.Vertices[0].Normal)
	}
}

func TestLoadGLTFDefaultMaterial(t *testing.T) {
	m, err := Load(writeGLB(t, false), OBJOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if m.Groups[0].Material.Name != render.DefaultMaterialName {
		t.Errorf("material = %q, want default", m.Groups[0].Material.Name)
	}
}

func TestLoadGLTFErrors(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/path.glb", GLTFOptions{}); err == nil {
		t.Error("expected error for nonexistent file")
	}

	doc := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGLTF(path, GLTFOptions{}); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("err = %v, want ErrNoGeometry", err)
	}
}
