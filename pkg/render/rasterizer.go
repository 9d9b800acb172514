package render

// Stats counts what happened to the triangles of a frame.
type Stats struct {
	Submitted  int // triangles handed to FillTriangle
	Drawn      int // triangles that reached the scan loop
	Degenerate int // zero-area or non-finite triangles
	OffScreen  int // bounding box outside the buffer
	Culled     int // faces dropped before rasterization (behind the view plane, hidden bodies)
	Pixels     int // pixels that passed depth and alpha tests
}

// Rasterizer fills screen-space triangles into a RenderBuffer with a depth
// test, bitmask-wrapped texture lookup and an alpha test.
//
// A Rasterizer owns its scratch state and must not be shared between
// goroutines.
type Rasterizer struct {
	Buffer   *RenderBuffer
	Strategy Strategy
	Stats    Stats

	scratch Scratch
}

// NewRasterizer creates a rasterizer drawing into buf.
func NewRasterizer(buf *RenderBuffer, strategy Strategy) *Rasterizer {
	return &Rasterizer{Buffer: buf, Strategy: strategy}
}

// ResetStats zeroes the statistics (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// FillTriangle rasterizes one triangle. Degenerate and fully off-screen
// triangles are skipped and counted; partially visible ones are clipped to
// the buffer by clamping the scan bounds.
func (r *Rasterizer) FillTriangle(tri *Triangle) {
	r.Stats.Submitted++
	buf := r.Buffer
	sc := &r.scratch

	switch sc.setup(tri, buf.Width, buf.Height, r.Strategy) {
	case setupDegenerate:
		r.Stats.Degenerate++
		return
	case setupOffScreen:
		r.Stats.OffScreen++
		return
	}
	r.Stats.Drawn++

	tex := tri.Texture
	if tex == nil {
		tex = DefaultTexture()
	}

	top, mid, bot := &tri.V[sc.order[0]], &tri.V[sc.order[1]], &tri.V[sc.order[2]]
	yStart, yMid := pixelSpan(top.Y, mid.Y, buf.Height)
	_, yEnd := pixelSpan(top.Y, bot.Y, buf.Height)

	// The long edge runs top to bottom; the short edges split at mid.
	longStep := (bot.X - top.X) / (bot.Y - top.Y)

	if yStart < yMid {
		step := (mid.X - top.X) / (mid.Y - top.Y)
		r.scanHalf(tri, tex, yStart, yMid, top, longStep, top, step)
	}
	if yMid < yEnd {
		yFrom := max(yStart, yMid)
		step := (bot.X - mid.X) / (bot.Y - mid.Y)
		r.scanHalf(tri, tex, yFrom, yEnd, top, longStep, mid, step)
	}
}

// scanHalf fills rows [y0, y1) between the long edge starting at longFrom
// and a short edge starting at shortFrom.
func (r *Rasterizer) scanHalf(tri *Triangle, tex *Texture, y0, y1 int, longFrom *TriVertex, longStep float64, shortFrom *TriVertex, shortStep float64) {
	sc := &r.scratch
	buf := r.Buffer

	py := float64(y0) + 0.5
	xLong := longFrom.X + (py-longFrom.Y)*longStep
	xShort := shortFrom.X + (py-shortFrom.Y)*shortStep

	// row holds every attribute at (minX, py) and steps by dady per row.
	var row [attrCount]float64
	for k := range attrCount {
		row[k] = sc.at(k, sc.minX, py)
	}

	for y := y0; y < y1; y++ {
		left, right := xLong, xShort
		if left > right {
			left, right = right, left
		}
		xs, xe := pixelSpan(left, right, buf.Width)
		if xs < xe {
			offset := float64(xs) + 0.5 - sc.minX
			if sc.perspective {
				r.spanPerspective(tri, tex, y*buf.Width, xs, xe, &row, offset)
			} else {
				r.spanAffine(tri, tex, y*buf.Width, xs, xe, &row, offset)
			}
		}

		xLong += longStep
		xShort += shortStep
		for k := range attrCount {
			row[k] += sc.dady[k]
		}
	}
}

// spanAffine fills pixels [xs, xe) of one row with linearly interpolated
// attributes.
func (r *Rasterizer) spanAffine(tri *Triangle, tex *Texture, rowStart, xs, xe int, row *[attrCount]float64, offset float64) {
	sc := &r.scratch
	pixels, depth := r.Buffer.Pixels, r.Buffer.Depth
	texels := tex.Texels
	wMask, hMask, wBits := tex.W.Mask, tex.H.Mask, tex.W.Bits

	z := row[attrDepth] + offset*sc.dadx[attrDepth]
	u := row[attrU] + offset*sc.dadx[attrU]
	v := row[attrV] + offset*sc.dadx[attrV]
	l := row[attrLight] + offset*sc.dadx[attrLight]
	dz, du, dv, dl := sc.dadx[attrDepth], sc.dadx[attrU], sc.dadx[attrV], sc.dadx[attrLight]

	for i := rowStart + xs; i < rowStart+xe; i++ {
		if depth[i] > z {
			texel := texels[floorInt(u)&wMask|(floorInt(v)&hMask)<<wBits]
			if Opaque(texel) {
				if tri.Lit {
					pixels[i] = Attenuate(texel, l)
				} else {
					pixels[i] = texel & 0xFFFFFF
				}
				depth[i] = z
				r.Stats.Pixels++
			}
		}
		z += dz
		u += du
		v += dv
		l += dl
	}
}

// spanPerspective fills pixels [xs, xe) of one row, interpolating
// attributes over W and 1/W and dividing back per pixel.
func (r *Rasterizer) spanPerspective(tri *Triangle, tex *Texture, rowStart, xs, xe int, row *[attrCount]float64, offset float64) {
	sc := &r.scratch
	pixels, depth := r.Buffer.Pixels, r.Buffer.Depth
	texels := tex.Texels
	wMask, hMask, wBits := tex.W.Mask, tex.H.Mask, tex.W.Bits

	zw := row[attrDepth] + offset*sc.dadx[attrDepth]
	uw := row[attrU] + offset*sc.dadx[attrU]
	vw := row[attrV] + offset*sc.dadx[attrV]
	lw := row[attrLight] + offset*sc.dadx[attrLight]
	iw := row[attrInvW] + offset*sc.dadx[attrInvW]
	dzw, duw, dvw, dlw, diw := sc.dadx[attrDepth], sc.dadx[attrU], sc.dadx[attrV], sc.dadx[attrLight], sc.dadx[attrInvW]

	for i := rowStart + xs; i < rowStart+xe; i++ {
		if iw > 0 {
			w := 1 / iw
			z := zw * w
			if depth[i] > z {
				texel := texels[floorInt(uw*w)&wMask|(floorInt(vw*w)&hMask)<<wBits]
				if Opaque(texel) {
					if tri.Lit {
						pixels[i] = Attenuate(texel, lw*w)
					} else {
						pixels[i] = texel & 0xFFFFFF
					}
					depth[i] = z
					r.Stats.Pixels++
				}
			}
		}
		zw += dzw
		uw += duw
		vw += dvw
		lw += dlw
		iw += diw
	}
}
