package render

import "image/color"

// Texels are packed 0xAARRGGBB; buffer pixels are packed 0x00RRGGBB.

// Common colours as buffer pixels.
const (
	Black uint32 = 0x000000
	White uint32 = 0xFFFFFF
	Red   uint32 = 0xFF0000
	Green uint32 = 0x00FF00
	Blue  uint32 = 0x0000FF
)

// RGB packs 8-bit channels into a buffer pixel.
func RGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// ARGB packs 8-bit channels into a texel.
func ARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Opaque reports whether a texel passes the alpha test: the high bit of its
// alpha byte is set, i.e. the texel is negative as a signed 32-bit value.
func Opaque(texel uint32) bool {
	return int32(texel) < 0
}

// StripAlpha drops the alpha byte of a texel.
func StripAlpha(texel uint32) uint32 {
	return texel & 0xFFFFFF
}

// Attenuate scales the red, green and blue channels of c by light, clamped
// to [0, 1]. The alpha byte is dropped.
func Attenuate(c uint32, light float64) uint32 {
	if light >= 1 {
		return c & 0xFFFFFF
	}
	if light <= 0 {
		return 0
	}
	l := uint32(light * 256)
	r := (c >> 16 & 0xFF) * l >> 8
	g := (c >> 8 & 0xFF) * l >> 8
	b := (c & 0xFF) * l >> 8
	return r<<16 | g<<8 | b
}

// TexelFromColor converts any colour to a non-premultiplied texel.
func TexelFromColor(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(n.A, n.R, n.G, n.B)
}

// TexelFromFloats converts 0-1 channel values to a texel.
func TexelFromFloats(a, r, g, b float64) uint32 {
	return ARGB(unitByte(a), unitByte(r), unitByte(g), unitByte(b))
}

func unitByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xFF
	}
	return uint8(v*255 + 0.5)
}
