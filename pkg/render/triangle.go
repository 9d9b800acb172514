package render

import (
	"fmt"
	"math"
	"strings"
)

// TriVertex is one corner of a screen-space triangle.
type TriVertex struct {
	ScreenSample
	U, V  float64 // texture coordinates in texel units
	Light float64 // attenuation in [0, 1], used when the triangle is lit
}

// Triangle is a projected face ready for filling.
type Triangle struct {
	V       [3]TriVertex
	Texture *Texture // nil samples the default texture
	Lit     bool
}

// Strategy selects how attributes are interpolated across a triangle.
type Strategy int

const (
	// StrategyPerspective interpolates attributes divided by view-axis depth
	// and divides back per pixel, so textures do not swim under perspective.
	StrategyPerspective Strategy = iota
	// StrategyAffine interpolates attributes linearly in screen space.
	StrategyAffine
)

// String returns the config name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyPerspective:
		return "perspective"
	case StrategyAffine:
		return "affine"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a config name.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "perspective", "ppr":
		return StrategyPerspective, nil
	case "affine", "linear":
		return StrategyAffine, nil
	default:
		return 0, fmt.Errorf("unknown interpolation strategy %q", name)
	}
}

// Interpolated attribute slots. The affine strategy uses depth, u, v and
// light directly; the perspective strategy stores them divided by W and
// keeps 1/W in attrInvW.
const (
	attrDepth = iota
	attrU
	attrV
	attrLight
	attrInvW
	attrCount
)

// minArea is the smallest signed parallelogram area accepted for a triangle.
const minArea = 1e-9

// setupResult says why a triangle was or was not set up.
type setupResult int

const (
	setupOK setupResult = iota
	setupDegenerate
	setupOffScreen
)

// Scratch holds the per-triangle setup of the rasterizer. It is reused from
// one triangle to the next and is not safe for concurrent use.
type Scratch struct {
	order [3]int // vertex indices sorted by Y

	minX, maxX, minY, maxY float64

	// s,t basis derivatives over the bounding box
	dsdx, dtdx, dsdy, dtdy float64

	origin [attrCount]float64 // attributes at (minX, minY)
	dadx   [attrCount]float64
	dady   [attrCount]float64

	perspective bool
}

// setup validates the triangle and prepares incremental interpolation.
// Every interpolated value is v0 + s*(v1-v0) + t*(v2-v0); s and t are
// evaluated at the bounding box's origin, x-axis and y-axis corners to get
// their per-pixel and per-row steps.
func (sc *Scratch) setup(tri *Triangle, width, height int, strategy Strategy) setupResult {
	v := &tri.V
	sx, sy := v[1].X-v[0].X, v[1].Y-v[0].Y
	tx, ty := v[2].X-v[0].X, v[2].Y-v[0].Y
	if (sx == 0 && sy == 0) || (tx == 0 && ty == 0) {
		return setupDegenerate
	}
	det := sx*ty - tx*sy
	if math.Abs(det) < minArea || !finite(det) {
		return setupDegenerate
	}

	sc.minX, sc.maxX = minMax3(v[0].X, v[1].X, v[2].X)
	sc.minY, sc.maxY = minMax3(v[0].Y, v[1].Y, v[2].Y)
	bw, bh := sc.maxX-sc.minX, sc.maxY-sc.minY
	if bw <= 0 || bh <= 0 {
		return setupDegenerate
	}
	if sc.maxX <= 0 || sc.maxY <= 0 || sc.minX >= float64(width) || sc.minY >= float64(height) {
		return setupOffScreen
	}

	st := func(x, y float64) (s, t float64) {
		dx, dy := x-v[0].X, y-v[0].Y
		return (dx*ty - dy*tx) / det, (sx*dy - sy*dx) / det
	}
	s0, t0 := st(sc.minX, sc.minY)
	sX, tX := st(sc.maxX, sc.minY)
	sY, tY := st(sc.minX, sc.maxY)
	sc.dsdx, sc.dtdx = (sX-s0)/bw, (tX-t0)/bw
	sc.dsdy, sc.dtdy = (sY-s0)/bh, (tY-t0)/bh

	sc.perspective = strategy == StrategyPerspective && v[0].W > 0 && v[1].W > 0 && v[2].W > 0

	var attrs [3][attrCount]float64
	for i := range 3 {
		a := &attrs[i]
		a[attrDepth], a[attrU], a[attrV], a[attrLight] = v[i].Depth, v[i].U, v[i].V, v[i].Light
		if sc.perspective {
			iw := 1 / v[i].W
			for k := range attrInvW {
				a[k] *= iw
			}
			a[attrInvW] = iw
		}
	}
	for k := range attrCount {
		a0 := attrs[0][k]
		dS := attrs[1][k] - a0
		dT := attrs[2][k] - a0
		sc.origin[k] = a0 + s0*dS + t0*dT
		sc.dadx[k] = sc.dsdx*dS + sc.dtdx*dT
		sc.dady[k] = sc.dsdy*dS + sc.dtdy*dT
	}

	sc.order = [3]int{0, 1, 2}
	if v[sc.order[1]].Y < v[sc.order[0]].Y {
		sc.order[0], sc.order[1] = sc.order[1], sc.order[0]
	}
	if v[sc.order[2]].Y < v[sc.order[1]].Y {
		sc.order[1], sc.order[2] = sc.order[2], sc.order[1]
	}
	if v[sc.order[1]].Y < v[sc.order[0]].Y {
		sc.order[0], sc.order[1] = sc.order[1], sc.order[0]
	}
	return setupOK
}

// at returns attribute k at pixel centre (px, py).
func (sc *Scratch) at(k int, px, py float64) float64 {
	return sc.origin[k] + (px-sc.minX)*sc.dadx[k] + (py-sc.minY)*sc.dady[k]
}

func minMax3(a, b, c float64) (lo, hi float64) {
	lo, hi = a, a
	if b < lo {
		lo = b
	} else if b > hi {
		hi = b
	}
	if c < lo {
		lo = c
	} else if c > hi {
		hi = c
	}
	return lo, hi
}

// pixelSpan converts a continuous coordinate range to the half-open pixel
// range whose centres it covers, clamped to [0, limit).
func pixelSpan(lo, hi float64, limit int) (start, end int) {
	l := float64(limit)
	start = int(math.Ceil(clampFloat(lo, 0, l+0.5) - 0.5))
	end = int(math.Ceil(clampFloat(hi, 0, l+0.5) - 0.5))
	return min(start, limit), min(end, limit)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
