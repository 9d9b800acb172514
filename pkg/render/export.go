package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// SaveWebP saves the buffer as a lossless WebP file.
func (b *RenderBuffer) SaveWebP(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, b.ToImage(), nil); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	return nil
}

// Save writes the buffer as PNG or WebP, chosen by the file extension.
func (b *RenderBuffer) Save(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return b.SavePNG(path)
	case ".webp":
		return b.SaveWebP(path)
	default:
		return fmt.Errorf("unsupported snapshot format %q (use .png or .webp)", filepath.Ext(path))
	}
}
