package render

import "math"

// DrawWireTriangle outlines a projected triangle. Edges are clipped to the
// buffer before drawing; depth is neither tested nor written.
func (b *RenderBuffer) DrawWireTriangle(p0, p1, p2 ScreenSample, color uint32) {
	b.DrawSegment(p0.X, p0.Y, p1.X, p1.Y, color)
	b.DrawSegment(p1.X, p1.Y, p2.X, p2.Y, color)
	b.DrawSegment(p2.X, p2.Y, p0.X, p0.Y, color)
}

// DrawSegment draws a line between continuous pixel coordinates, clipped
// to the buffer with the Liang-Barsky algorithm.
func (b *RenderBuffer) DrawSegment(x0, y0, x1, y1 float64, color uint32) {
	if b.Width == 0 || b.Height == 0 {
		return
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return false
			}
			t1 = math.Min(t1, r)
		}
		return true
	}
	maxX := float64(b.Width) - 1
	maxY := float64(b.Height) - 1
	if !clip(-dx, x0) || !clip(dx, maxX-x0) || !clip(-dy, y0) || !clip(dy, maxY-y0) {
		return
	}
	b.DrawLine(
		int(math.Round(x0+t0*dx)), int(math.Round(y0+t0*dy)),
		int(math.Round(x0+t1*dx)), int(math.Round(y0+t1*dy)),
		color,
	)
}
