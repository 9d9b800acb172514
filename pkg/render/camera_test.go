package render

import (
	"math"
	"testing"

	"github.com/taigrr/ip2k/pkg/math3d"
)

func TestProjectCenter(t *testing.T) {
	cam := testCamera(t)

	tests := []struct {
		name  string
		point math3d.Vec3
		x, y  float64
		depth float64
	}{
		{"on axis", math3d.V3(5, 0, 0), 50, 50, 5},
		{"on the view plane", math3d.V3(1, 0, 0), 50, 50, 1},
		{"down right", math3d.V3(2, 0.5, 0.5), 75, 75, math.Sqrt(4.5)},
		{"top left corner", math3d.V3(1, -0.5, -0.5), 0, 0, math.Sqrt(1.5)},
		{"inside the view plane distance", math3d.V3(0.5, 0.1, 0), 70, 50, math.Sqrt(0.26)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, ok := cam.Project(tc.point)
			if !ok {
				t.Fatal("point was culled")
			}
			if math.Abs(s.X-tc.x) > 1e-9 || math.Abs(s.Y-tc.y) > 1e-9 {
				t.Errorf("screen = (%v, %v), want (%v, %v)", s.X, s.Y, tc.x, tc.y)
			}
			if math.Abs(s.Depth-tc.depth) > 1e-9 {
				t.Errorf("depth = %v, want %v", s.Depth, tc.depth)
			}
			if math.Abs(s.W-tc.point.X) > 1e-9 {
				t.Errorf("W = %v, want the view-axis distance %v", s.W, tc.point.X)
			}
		})
	}
}

func TestProjectCulled(t *testing.T) {
	cam := testCamera(t)

	for _, p := range []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(-5, 0, 0),
		math3d.V3(0, 3, 0),
		math3d.V3(-1, 0.2, 0.2),
	} {
		if s, ok := cam.Project(p); ok {
			t.Errorf("Project(%v) = %+v, want culled", p, s)
		}
	}
}

func TestDepthIncreasesAlongRay(t *testing.T) {
	cam := testCamera(t)
	dir := math3d.V3(1, 0.2, -0.1)

	prev := 0.0
	for _, k := range []float64{0.5, 1, 2, 4, 8, 100} {
		s, ok := cam.Project(dir.Scale(k))
		if !ok {
			t.Fatalf("k=%v culled", k)
		}
		if s.Depth <= prev {
			t.Errorf("k=%v depth %v not greater than %v", k, s.Depth, prev)
		}
		prev = s.Depth
	}
}

func TestProjectMovedCamera(t *testing.T) {
	cam := NewCamera(1, 1, 100, 100)
	// Yawing a quarter turn about Z turns the view axis from +X to +Y.
	final := math3d.Transform{Position: math3d.V3(10, 0, 0), Rotation: math3d.V3(0, 0, math.Pi/2), Scale: math3d.One3()}
	if err := cam.UpdateViewPlane(final); err != nil {
		t.Fatal(err)
	}

	s, ok := cam.Project(math3d.V3(10, 5, 0))
	if !ok {
		t.Fatal("point ahead of the turned camera was culled")
	}
	if math.Abs(s.X-50) > 0.1 || math.Abs(s.Y-50) > 0.1 || math.Abs(s.Depth-5) > 1e-3 {
		t.Errorf("Project = %+v, want centre at depth 5", s)
	}

	if _, ok := cam.Project(math3d.V3(10, -5, 0)); ok {
		t.Error("point behind the turned camera should be culled")
	}
	if _, ok := cam.Project(math3d.V3(10, 0, 0)); ok {
		t.Error("point at the camera position should be culled")
	}
}

func TestCameraPlaneHeight(t *testing.T) {
	cam := NewCamera(1, 2, 200, 100)
	if err := cam.UpdateViewPlane(math3d.IdentityTransform()); err != nil {
		t.Fatal(err)
	}
	// Plane is 2 wide and 1 high, so (1, 1, 0.5) lands on the right edge
	// at the bottom.
	s, ok := cam.Project(math3d.V3(1, 1, 0.5))
	if !ok {
		t.Fatal("culled")
	}
	if math.Abs(s.X-200) > 1e-9 || math.Abs(s.Y-100) > 1e-9 {
		t.Errorf("screen = (%v, %v), want (200, 100)", s.X, s.Y)
	}
}

func TestCameraResize(t *testing.T) {
	cam := testCamera(t)
	if !cam.Ready() {
		t.Fatal("camera should be ready after UpdateViewPlane")
	}

	cam.Resize(100, 100)
	if !cam.Ready() {
		t.Error("resizing to the same size should keep the view plane")
	}

	cam.Resize(64, 32)
	if cam.Ready() {
		t.Error("resize should invalidate the view plane")
	}
	if cam.Buffer.Width != 64 || cam.Buffer.Height != 32 {
		t.Errorf("buffer = %dx%d, want 64x32", cam.Buffer.Width, cam.Buffer.Height)
	}
}

func TestCameraDegeneratePlane(t *testing.T) {
	cam := NewCamera(1, 0, 10, 10)
	if err := cam.UpdateViewPlane(math3d.IdentityTransform()); err == nil {
		t.Error("zero-width view plane should fail")
	}
	if cam.Ready() {
		t.Error("camera should not be ready after a failed update")
	}
}
