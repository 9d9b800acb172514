package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/ip2k/pkg/math3d"
	"github.com/taigrr/ip2k/pkg/render"
)

// DefaultGroupName names faces that appear before any g or o statement.
const DefaultGroupName = "default"

// OBJOptions configures the OBJ loader.
type OBJOptions struct {
	// Triangulate fan-splits faces with more than 3 vertices. Without it
	// such faces fail with ErrFaceOverflow.
	Triangulate bool
	Logger      *zap.Logger
}

// LoadOBJ reads a Wavefront OBJ file and the material libraries it names.
// The returned model is not finalized.
func LoadOBJ(path string, opts OBJOptions) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := ParseOBJ(f, name, filepath.Dir(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// objVertexKey identifies a unique position/uv/normal combination.
type objVertexKey struct{ v, vt, vn int }

type objParser struct {
	opts OBJOptions
	log  *zap.Logger
	dir  string
	m    *Model

	positions []math3d.Vec3
	uvs       []math3d.Vec2
	normals   []math3d.Vec3

	vertices  map[objVertexKey]int
	materials map[string]*render.Material
	missing   map[string]bool
	fallback  *render.Material

	groupName string
	material  *render.Material
	groups    map[string]int
	current   int // -1 until a face needs a group
}

// ParseOBJ parses OBJ statements from r. dir resolves mtllib paths.
func ParseOBJ(r io.Reader, name, dir string, opts OBJOptions) (*Model, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	p := &objParser{
		opts:      opts,
		log:       log.With(zap.String("model", name)),
		dir:       dir,
		m:         NewModel(name),
		vertices:  make(map[objVertexKey]int),
		materials: make(map[string]*render.Material),
		missing:   make(map[string]bool),
		groupName: DefaultGroupName,
		groups:    make(map[string]int),
		current:   -1,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(stripComment(scanner.Text()))
		if len(fields) == 0 {
			continue
		}
		if err := p.statement(fields[0], fields[1:]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	p.log.Debug("obj loaded",
		zap.Int("positions", len(p.positions)),
		zap.Int("uvs", len(p.uvs)),
		zap.Int("normals", len(p.normals)),
		zap.Int("vertices", len(p.m.Vertices)),
		zap.Int("faces", len(p.m.Faces)),
		zap.Int("groups", len(p.m.Groups)))
	return p.m, nil
}

func (p *objParser) statement(key string, args []string) error {
	switch key {
	case "v":
		var c [3]float64
		if err := parseFloats(args, c[:]); err != nil {
			return fmt.Errorf("v: %w", err)
		}
		p.positions = append(p.positions, math3d.V3(c[0], c[1], c[2]))
	case "vt":
		var c [2]float64
		if len(args) == 1 {
			args = append(args, "0")
		}
		if err := parseFloats(args, c[:]); err != nil {
			return fmt.Errorf("vt: %w", err)
		}
		// OBJ puts v=0 at the bottom; textures are stored top row first.
		p.uvs = append(p.uvs, math3d.V2(c[0], 1-c[1]))
	case "vn":
		var c [3]float64
		if err := parseFloats(args, c[:]); err != nil {
			return fmt.Errorf("vn: %w", err)
		}
		p.normals = append(p.normals, math3d.V3(c[0], c[1], c[2]).Normalize())
	case "f":
		return p.face(args)
	case "g", "o":
		name := DefaultGroupName
		if len(args) > 0 {
			name = strings.Join(args, " ")
		}
		if name != p.groupName {
			p.groupName = name
			p.current = -1
		}
	case "usemtl":
		name := strings.Join(args, " ")
		p.material = p.resolveMaterial(name)
		p.current = -1
	case "mtllib":
		for _, lib := range args {
			p.loadLibrary(lib)
		}
	}
	// s, l, p and unknown statements are ignored.
	return nil
}

func (p *objParser) loadLibrary(lib string) {
	path := filepath.Join(p.dir, filepath.FromSlash(lib))
	mats, err := LoadMTL(path, p.log)
	if err != nil {
		p.log.Warn("material library unreadable", zap.String("path", path), zap.Error(err))
		return
	}
	for name, mat := range mats {
		p.materials[name] = mat
	}
}

// resolveMaterial looks up a material by name, falling back to the shared
// default material with one warning per unknown name.
func (p *objParser) resolveMaterial(name string) *render.Material {
	if mat, ok := p.materials[name]; ok {
		return mat
	}
	if !p.missing[name] {
		p.missing[name] = true
		p.log.Warn("material not found, using default", zap.String("material", name))
	}
	if p.fallback == nil {
		p.fallback = render.DefaultMaterial()
	}
	return p.fallback
}

// group returns the body group for the current group name and material,
// creating it on first use.
func (p *objParser) group() int {
	if p.current >= 0 {
		return p.current
	}
	mat := p.material
	if mat == nil {
		if p.fallback == nil {
			p.fallback = render.DefaultMaterial()
		}
		mat = p.fallback
	}
	key := p.groupName + "\x00" + mat.Name
	idx, ok := p.groups[key]
	if !ok {
		name := p.groupName
		if p.material != nil && name == DefaultGroupName {
			name = mat.Name
		}
		idx = p.m.AddGroup(name, mat)
		p.groups[key] = idx
	}
	p.current = idx
	return idx
}

func (p *objParser) face(args []string) error {
	refs := make([]int, len(args))
	for i, a := range args {
		v, err := p.vertex(a)
		if err != nil {
			return fmt.Errorf("f: %w", err)
		}
		refs[i] = v
	}
	group := p.group()

	if p.opts.Triangulate && len(refs) > 3 {
		for i := 1; i+1 < len(refs); i++ {
			if _, err := p.m.AddTriangle(group, refs[0], refs[i], refs[i+1]); err != nil {
				return fmt.Errorf("f: %w", err)
			}
		}
		return nil
	}

	face, err := p.m.AddFace(group)
	if err != nil {
		return fmt.Errorf("f: %w", err)
	}
	for _, v := range refs {
		if err := p.m.AddFaceVertex(face, v); err != nil {
			return fmt.Errorf("f with %d vertices: %w", len(refs), err)
		}
	}
	return nil
}

// vertex resolves one v, v/vt, v//vn or v/vt/vn reference to a model
// vertex, sharing vertices with identical references.
func (p *objParser) vertex(ref string) (int, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return 0, fmt.Errorf("bad vertex reference %q", ref)
	}
	var key objVertexKey
	var err error
	if key.v, err = resolveIndex(parts[0], len(p.positions)); err != nil {
		return 0, fmt.Errorf("position %q: %w", ref, err)
	}
	key.vt, key.vn = -1, -1
	if len(parts) > 1 && parts[1] != "" {
		if key.vt, err = resolveIndex(parts[1], len(p.uvs)); err != nil {
			return 0, fmt.Errorf("texture coordinate %q: %w", ref, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if key.vn, err = resolveIndex(parts[2], len(p.normals)); err != nil {
			return 0, fmt.Errorf("normal %q: %w", ref, err)
		}
	}

	if idx, ok := p.vertices[key]; ok {
		return idx, nil
	}
	v := Vertex{Position: p.positions[key.v]}
	if key.vt >= 0 {
		v.UV = p.uvs[key.vt]
	}
	if key.vn >= 0 {
		v.Normal = p.normals[key.vn]
		v.HasNormal = true
	}
	idx := p.m.AddVertex(v)
	p.vertices[key] = idx
	return idx, nil
}

// resolveIndex converts a 1-based or negative relative OBJ index into a
// 0-based index below n.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("%d of %d: %w", i, n, ErrIndex)
}
