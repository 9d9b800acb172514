package render

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math/bits"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp" // Register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrNotPowerOfTwo is returned when a texture dimension is not a power of two.
var ErrNotPowerOfTwo = errors.New("texture dimension is not a power of two")

// DefaultTexel is the fallback texel: opaque blue.
const DefaultTexel uint32 = 0xFF0000FF

// BinarySize is a power-of-two texture dimension with its wrap mask and
// shift, so coordinates wrap with & instead of %.
type BinarySize struct {
	Size int
	Mask int // Size - 1
	Bits int // log2(Size)
}

// NewBinarySize validates n and returns its BinarySize.
func NewBinarySize(n int) (BinarySize, error) {
	if n <= 0 || n&(n-1) != 0 {
		return BinarySize{}, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, n)
	}
	return BinarySize{Size: n, Mask: n - 1, Bits: bits.TrailingZeros(uint(n))}, nil
}

// CeilPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func CeilPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Texture is a power-of-two ARGB texel grid.
type Texture struct {
	W      BinarySize
	H      BinarySize
	Texels []uint32 // 0xAARRGGBB, row-major
}

// NewTexture creates a transparent texture. Both dimensions must be powers
// of two.
func NewTexture(width, height int) (*Texture, error) {
	w, err := NewBinarySize(width)
	if err != nil {
		return nil, fmt.Errorf("width: %w", err)
	}
	h, err := NewBinarySize(height)
	if err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}
	return &Texture{W: w, H: h, Texels: make([]uint32, width*height)}, nil
}

// SolidTexture returns a 1×1 texture holding texel.
func SolidTexture(texel uint32) *Texture {
	one := BinarySize{Size: 1}
	return &Texture{W: one, H: one, Texels: []uint32{texel}}
}

// DefaultTexture returns the 1×1 opaque blue fallback texture.
func DefaultTexture() *Texture {
	return SolidTexture(DefaultTexel)
}

// NewCheckerTexture creates a procedural checkerboard texture. size and
// check are rounded up to powers of two.
func NewCheckerTexture(size, check int, c1, c2 uint32) *Texture {
	size = CeilPowerOfTwo(size)
	check = max(check, 1)
	tex, _ := NewTexture(size, size)
	for y := range size {
		for x := range size {
			c := c2
			if (x/check+y/check)%2 == 0 {
				c = c1
			}
			tex.Texels[y*size+x] = c
		}
	}
	return tex
}

// LoadTexture decodes an image file (PNG, JPEG, GIF, BMP, WebP or TGA)
// into a texture. TGA has no magic number, so it is chosen by extension.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = tga.Decode(f)
	} else {
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage packs an image into a texture, rescaling it with nearest
// neighbour sampling to the next power of two in each dimension.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	if bounds.Empty() {
		return DefaultTexture()
	}
	width := CeilPowerOfTwo(bounds.Dx())
	height := CeilPowerOfTwo(bounds.Dy())

	src := img
	if width != bounds.Dx() || height != bounds.Dy() {
		dst := image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		src = dst
	}

	tex, _ := NewTexture(width, height)
	sb := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok {
		for y := range height {
			for x := range width {
				o := n.PixOffset(sb.Min.X+x, sb.Min.Y+y)
				tex.Texels[y*width+x] = ARGB(n.Pix[o+3], n.Pix[o], n.Pix[o+1], n.Pix[o+2])
			}
		}
		return tex
	}
	for y := range height {
		for x := range width {
			tex.Texels[y*width+x] = TexelFromColor(src.At(sb.Min.X+x, sb.Min.Y+y))
		}
	}
	return tex
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.W.Size }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.H.Size }

// Index returns the texel index of integer texel coordinates, wrapping both
// axes with the power-of-two masks.
func (t *Texture) Index(tx, ty int) int {
	return tx&t.W.Mask | (ty&t.H.Mask)<<t.W.Bits
}

// At returns the texel at integer texel coordinates, wrapped.
func (t *Texture) At(tx, ty int) uint32 {
	return t.Texels[t.Index(tx, ty)]
}

// Sample returns the texel at normalized coordinates (u, v), with (0, 0) the
// top-left corner. Coordinates wrap, so u and u+k sample the same texel for
// every integer k.
func (t *Texture) Sample(u, v float64) uint32 {
	return t.At(floorInt(u*float64(t.W.Size)), floorInt(v*float64(t.H.Size)))
}

// floorInt is math.Floor for values in int range without the float round
// trip.
func floorInt(f float64) int {
	i := int(f)
	if float64(i) > f {
		i--
	}
	return i
}

// Set writes a texel at integer texel coordinates, wrapped.
func (t *Texture) Set(tx, ty int, texel uint32) {
	t.Texels[t.Index(tx, ty)] = texel
}
