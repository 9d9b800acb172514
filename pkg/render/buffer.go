// Package render implements the ip2k software pipeline: view-plane
// projection, depth-buffered texture-mapped triangle fill and the buffers
// that hold the result.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// RenderBuffer is a camera's raster: a colour array and a parallel depth
// array, both indexed x + y*Width.
type RenderBuffer struct {
	Width  int
	Height int
	Pixels []uint32  // 0x00RRGGBB, row-major, origin top-left
	Depth  []float64 // smaller is nearer, +Inf when empty
}

// NewRenderBuffer creates a cleared buffer of the given size.
func NewRenderBuffer(width, height int) *RenderBuffer {
	width = max(width, 0)
	height = max(height, 0)
	b := &RenderBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
		Depth:  make([]float64, width*height),
	}
	b.Clear(0)
	return b
}

// Clear fills the colour array with c and the depth array with +Inf.
func (b *RenderBuffer) Clear(c uint32) {
	fillDoubling(b.Pixels, c)
	fillDoubling(b.Depth, math.Inf(1))
}

// fillDoubling sets every element of s to v by repeatedly copying the
// already-filled prefix.
func fillDoubling[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for i := 1; i < len(s); i *= 2 {
		copy(s[i:], s[:i])
	}
}

// InBounds reports whether (x, y) is inside the buffer.
func (b *RenderBuffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// SetPixel sets a pixel at (x, y) to the given colour without touching depth.
// Out-of-bounds writes are ignored.
func (b *RenderBuffer) SetPixel(x, y int, c uint32) {
	if !b.InBounds(x, y) {
		return
	}
	b.Pixels[y*b.Width+x] = c
}

// Pixel returns the colour at (x, y), or 0 if out of bounds.
func (b *RenderBuffer) Pixel(x, y int) uint32 {
	if !b.InBounds(x, y) {
		return 0
	}
	return b.Pixels[y*b.Width+x]
}

// DepthAt returns the depth at (x, y), or +Inf if out of bounds.
func (b *RenderBuffer) DepthAt(x, y int) float64 {
	if !b.InBounds(x, y) {
		return math.Inf(1)
	}
	return b.Depth[y*b.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm. Lines ignore and do not update depth.
func (b *RenderBuffer) DrawLine(x0, y0, x1, y1 int, c uint32) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		b.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the buffer to an opaque image.RGBA.
func (b *RenderBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			img.SetRGBA(x, y, ToRGBA(b.Pixels[y*b.Width+x]))
		}
	}
	return img
}

// CopyRGBA writes the buffer into dst as 8-bit RGBA bytes, four per pixel.
// dst must hold at least Width*Height*4 bytes.
func (b *RenderBuffer) CopyRGBA(dst []byte) {
	for i, p := range b.Pixels {
		o := i * 4
		dst[o] = uint8(p >> 16)
		dst[o+1] = uint8(p >> 8)
		dst[o+2] = uint8(p)
		dst[o+3] = 0xFF
	}
}

// SavePNG saves the buffer as a PNG file.
func (b *RenderBuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return png.Encode(f, b.ToImage())
}

// ToRGBA converts a 0xRRGGBB pixel to an opaque color.RGBA.
func ToRGBA(p uint32) color.RGBA {
	return color.RGBA{uint8(p >> 16), uint8(p >> 8), uint8(p), 0xFF}
}
