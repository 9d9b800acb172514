package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taigrr/ip2k/pkg/math3d"
	"github.com/taigrr/ip2k/pkg/render"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const testMTL = `
# two materials
newmtl red
Ka 0.1 0.1 0.1
Kd 1 0 0
Ks 0.5
Ns 10
illum 2

newmtl broken
Kd 0 1 0
map_Kd -s 1 1 1 textures/missing.png
`

const testOBJ = `
mtllib scene.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vn 0 0 1

g front
usemtl red
f 1/1/1 2/2/1 3/3/1
f -4/1/1 -2/3/1 -1/2/1

g back
usemtl broken
f 1 3 2

usemtl nowhere
f 1//1 4//1 3//1
s off
`

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

func TestLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scene.mtl", testMTL)
	path := writeFile(t, dir, "scene.obj", testOBJ)
	log, logs := observedLogger()

	m, err := LoadOBJ(path, OBJOptions{Logger: log})
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if m.Name != "scene" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.TriangleCount() != 4 {
		t.Fatalf("faces = %d, want 4", m.TriangleCount())
	}
	if len(m.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(m.Groups))
	}

	front := m.Group("front")
	if front == nil || front.Material.Name != "red" || len(front.Faces) != 2 {
		t.Fatalf("front group = %+v", front)
	}
	if front.Material.Texture.At(0, 0) != render.ARGB(0xFF, 0xFF, 0, 0) {
		t.Errorf("red texel = %08x, want the Kd colour", front.Material.Texture.At(0, 0))
	}
	if front.Material.Specular != [3]float64{0.5, 0.5, 0.5} || front.Material.Illum != 2 {
		t.Errorf("red material = %+v", front.Material)
	}

	// Negative indices resolve relative to the end of each list.
	if got := m.Faces[1].V; m.Vertices[got[1]].Position != math3d.V3(1, 1, 0) {
		t.Errorf("second face vertex 2 = %v", m.Vertices[got[1]].Position)
	}
	// Shared references share a vertex.
	if m.Faces[0].V[0] != m.Faces[1].V[0] {
		t.Error("identical v/vt/vn references should share one vertex")
	}
	// vt is flipped to a top-left origin.
	if uv := m.Vertices[m.Faces[0].V[2]].UV; uv != math3d.V2(1, 0) {
		t.Errorf("uv = %v, want (1, 0)", uv)
	}

	if n := logs.FilterMessage("texture unreadable, using default").Len(); n != 1 {
		t.Errorf("texture warnings = %d, want 1", n)
	}
	if n := logs.FilterMessage("material not found, using default").Len(); n != 1 {
		t.Errorf("material warnings = %d, want 1", n)
	}

	fallback := m.Groups[2]
	if fallback.Material.Name != render.DefaultMaterialName || fallback.Material.Texture.At(0, 0) != render.DefaultTexel {
		t.Errorf("unknown material should fall back to default, got %+v", fallback.Material)
	}
	broken := m.Group("back")
	if broken.Material.Texture.At(0, 0) != render.DefaultTexel {
		t.Error("unreadable texture should fall back to the default texel")
	}

	if err := m.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
}

func TestOBJFaceOverflow(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"

	_, err := ParseOBJ(strings.NewReader(src), "quad", ".", OBJOptions{})
	if !errors.Is(err, ErrFaceOverflow) {
		t.Fatalf("err = %v, want ErrFaceOverflow", err)
	}
	if !strings.Contains(err.Error(), "line 5") {
		t.Errorf("error %q should name the line", err)
	}

	m, err := ParseOBJ(strings.NewReader(src), "quad", ".", OBJOptions{Triangulate: true})
	if err != nil {
		t.Fatalf("triangulated: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("faces = %d, want 2", m.TriangleCount())
	}
}

func TestOBJIncompleteFace(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nf 1 2\n"
	m, err := ParseOBJ(strings.NewReader(src), "line", ".", OBJOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Finalize(); !errors.Is(err, ErrFaceIncomplete) {
		t.Errorf("Finalize err = %v, want ErrFaceIncomplete", err)
	}
}

func TestOBJBadInput(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"zero index", "v 0 0 0\nf 0 1 1\n"},
		{"bad float", "v 0 zero 0\n"},
		{"short vertex", "v 0 0\n"},
		{"bad reference", "v 0 0 0\nf 1/1/1/1 1 1\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseOBJ(strings.NewReader(tc.src), "bad", ".", OBJOptions{}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestOBJMissingLibrary(t *testing.T) {
	log, logs := observedLogger()
	src := "mtllib nope.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

	m, err := ParseOBJ(strings.NewReader(src), "m", t.TempDir(), OBJOptions{Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("material library unreadable").Len() != 1 {
		t.Error("missing mtllib should be logged")
	}
	if m.Groups[0].Name != DefaultGroupName || m.Groups[0].Material.Name != render.DefaultMaterialName {
		t.Errorf("group = %q/%q", m.Groups[0].Name, m.Groups[0].Material.Name)
	}
}

func TestParseMTLTexture(t *testing.T) {
	dir := t.TempDir()
	buf := render.NewRenderBuffer(2, 2)
	buf.SetPixel(1, 1, render.Green)
	if err := buf.SavePNG(filepath.Join(dir, "skin.png")); err != nil {
		t.Fatal(err)
	}

	mats, err := ParseMTL(strings.NewReader("newmtl skin\nmap_Kd skin.png\nd 0.25\n"), dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	skin := mats["skin"]
	if skin == nil {
		t.Fatal("material missing")
	}
	if skin.Texture.Width() != 2 || skin.Texture.At(1, 1) != render.ARGB(0xFF, 0, 0xFF, 0) {
		t.Errorf("texture not loaded: %dx%d %08x", skin.Texture.Width(), skin.Texture.Height(), skin.Texture.At(1, 1))
	}
	if skin.Transparency != 0.75 {
		t.Errorf("Transparency = %v, want 0.75", skin.Transparency)
	}
}

func TestParseMTLBadValue(t *testing.T) {
	_, err := ParseMTL(strings.NewReader("newmtl a\nKd 1 x 0\n"), ".", nil)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want a line 2 error", err)
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load("model.fbx", OBJOptions{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}
