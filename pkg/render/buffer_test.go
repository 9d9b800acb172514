package render

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRenderBufferCleared(t *testing.T) {
	buf := NewRenderBuffer(7, 5)
	if len(buf.Pixels) != 35 || len(buf.Depth) != 35 {
		t.Fatalf("buffer lengths %d/%d, want 35", len(buf.Pixels), len(buf.Depth))
	}
	for i := range buf.Pixels {
		if buf.Pixels[i] != Black || !math.IsInf(buf.Depth[i], 1) {
			t.Fatalf("element %d not cleared", i)
		}
	}
}

func TestClear(t *testing.T) {
	buf := NewRenderBuffer(33, 17)
	buf.Pixels[100] = Red
	buf.Depth[100] = 3

	buf.Clear(Blue)
	for i := range buf.Pixels {
		if buf.Pixels[i] != Blue || !math.IsInf(buf.Depth[i], 1) {
			t.Fatalf("element %d = %06x/%v after Clear", i, buf.Pixels[i], buf.Depth[i])
		}
	}
}

func TestOutOfBoundsAccess(t *testing.T) {
	buf := NewRenderBuffer(4, 4)
	buf.SetPixel(-1, 0, Red)
	buf.SetPixel(4, 0, Red)
	buf.SetPixel(0, 4, Red)

	for _, p := range buf.Pixels {
		if p != Black {
			t.Fatal("out-of-bounds SetPixel wrote into the buffer")
		}
	}
	if buf.Pixel(9, 9) != 0 || !math.IsInf(buf.DepthAt(-1, 2), 1) {
		t.Error("out-of-bounds reads should return zero colour and +Inf depth")
	}
}

func TestDrawLine(t *testing.T) {
	buf := NewRenderBuffer(8, 8)
	buf.DrawLine(0, 0, 7, 7, White)
	for i := range 8 {
		if buf.Pixel(i, i) != White {
			t.Errorf("diagonal pixel %d not drawn", i)
		}
	}
	if buf.Pixel(1, 0) != Black {
		t.Error("off-diagonal pixel drawn")
	}
	if !math.IsInf(buf.DepthAt(3, 3), 1) {
		t.Error("lines must not write depth")
	}
}

func TestDrawSegmentClips(t *testing.T) {
	buf := NewRenderBuffer(10, 10)

	// Huge coordinates from points near the view plane edge.
	buf.DrawSegment(-1e12, 5, 1e12, 5, Green)
	for x := range 10 {
		if buf.Pixel(x, 5) != Green {
			t.Errorf("pixel (%d,5) not drawn", x)
		}
	}

	buf.Clear(Black)
	buf.DrawSegment(-50, -50, -10, 30, Green)
	for i, p := range buf.Pixels {
		if p != Black {
			t.Fatalf("segment outside the buffer drew pixel %d", i)
		}
	}
}

func TestDrawWireTriangle(t *testing.T) {
	buf := NewRenderBuffer(16, 16)
	buf.DrawWireTriangle(
		ScreenSample{X: 1, Y: 1},
		ScreenSample{X: 14, Y: 1},
		ScreenSample{X: 1, Y: 14},
		White,
	)
	for _, p := range [][2]int{{1, 1}, {8, 1}, {14, 1}, {1, 8}, {1, 14}} {
		if buf.Pixel(p[0], p[1]) != White {
			t.Errorf("edge pixel %v not drawn", p)
		}
	}
	if buf.Pixel(4, 4) != Black {
		t.Error("wireframe filled the interior")
	}
}

func TestToImageAndCopyRGBA(t *testing.T) {
	buf := NewRenderBuffer(2, 1)
	buf.SetPixel(0, 0, 0x102030)
	buf.SetPixel(1, 0, 0xFFFFFF)

	img := buf.ToImage()
	if c := img.RGBAAt(0, 0); c.R != 0x10 || c.G != 0x20 || c.B != 0x30 || c.A != 0xFF {
		t.Errorf("ToImage pixel = %+v", c)
	}

	dst := make([]byte, 8)
	buf.CopyRGBA(dst)
	want := []byte{0x10, 0x20, 0x30, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("CopyRGBA = %v, want %v", dst, want)
		}
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	buf := NewRenderBuffer(4, 3)
	buf.SetPixel(2, 1, Red)

	for _, name := range []string{"frame.png", "frame.webp", "FRAME.PNG"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := buf.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, _, err := image.Decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
				t.Errorf("decoded size %v", img.Bounds())
			}
			r, g, b, _ := img.At(2, 1).RGBA()
			if r>>8 != 0xFF || g != 0 || b != 0 {
				t.Errorf("decoded pixel = %d,%d,%d, want red", r>>8, g>>8, b>>8)
			}
		})
	}

	if err := buf.Save(filepath.Join(dir, "frame.bmp")); err == nil {
		t.Error("unsupported extension should fail")
	}
}

func BenchmarkClear(b *testing.B) {
	buf := NewRenderBuffer(320, 200)
	for b.Loop() {
		buf.Clear(Black)
	}
}
