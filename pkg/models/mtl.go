package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/ip2k/pkg/render"
)

// LoadMTL reads a material library. Texture paths are resolved relative to
// the library's directory.
func LoadMTL(path string, log *zap.Logger) (map[string]*render.Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mtl: %w", err)
	}
	defer f.Close()

	mats, err := ParseMTL(f, filepath.Dir(path), log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mats, nil
}

// ParseMTL parses material library statements from r and loads the
// referenced textures. An unreadable texture is logged and replaced with
// the default texture; a material without map_Kd gets a 1×1 texture of its
// diffuse colour.
func ParseMTL(r io.Reader, dir string, log *zap.Logger) (map[string]*render.Material, error) {
	if log == nil {
		log = zap.NewNop()
	}
	mats := make(map[string]*render.Material)
	var order []*render.Material
	var cur *render.Material

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(stripComment(scanner.Text()))
		if len(fields) == 0 {
			continue
		}
		key, args := fields[0], fields[1:]

		if key == "newmtl" {
			name := strings.Join(args, " ")
			cur = render.NewMaterial(name)
			cur.Texture = nil
			mats[name] = cur
			order = append(order, cur)
			continue
		}
		if cur == nil {
			continue
		}

		var err error
		switch key {
		case "Ka":
			cur.Ambient, err = parseColor(args)
		case "Kd":
			cur.Diffuse, err = parseColor(args)
		case "Ks":
			cur.Specular, err = parseColor(args)
		case "Ke":
			cur.Emissive, err = parseColor(args)
		case "Ns":
			cur.Shininess, err = parseScalar(args)
		case "d":
			var d float64
			d, err = parseScalar(args)
			cur.Transparency = 1 - d
		case "Tr":
			cur.Transparency, err = parseScalar(args)
		case "illum":
			var v float64
			v, err = parseScalar(args)
			cur.Illum = int(v)
		case "map_Kd":
			if len(args) == 0 {
				err = errMissingPath
				break
			}
			// Options such as -s or -o precede the file name.
			cur.TexturePath = filepath.Join(dir, filepath.FromSlash(args[len(args)-1]))
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mtl: %w", err)
	}

	for _, m := range order {
		if m.TexturePath == "" {
			a := 1 - m.Transparency
			m.Texture = render.SolidTexture(render.TexelFromFloats(a, m.Diffuse[0], m.Diffuse[1], m.Diffuse[2]))
			continue
		}
		tex, err := render.LoadTexture(m.TexturePath)
		if err != nil {
			log.Warn("texture unreadable, using default",
				zap.String("material", m.Name),
				zap.String("path", m.TexturePath),
				zap.Error(err))
			tex = render.DefaultTexture()
		}
		m.Texture = tex
	}
	return mats, nil
}

var errMissingPath = errors.New("missing path")

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseFloats(args []string, out []float64) error {
	if len(args) < len(out) {
		return fmt.Errorf("want %d values, got %d", len(out), len(args))
	}
	for i := range out {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}

func parseScalar(args []string) (float64, error) {
	var v [1]float64
	err := parseFloats(args, v[:])
	return v[0], err
}

// parseColor reads an RGB triple; a single value is used for all three.
func parseColor(args []string) ([3]float64, error) {
	var c [3]float64
	if len(args) == 1 {
		v, err := parseScalar(args)
		return [3]float64{v, v, v}, err
	}
	err := parseFloats(args, c[:])
	return c, err
}
