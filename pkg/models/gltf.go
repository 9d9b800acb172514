package models

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/taigrr/ip2k/pkg/math3d"
	"github.com/taigrr/ip2k/pkg/render"
)

// ErrNoGeometry is returned when a glTF document has no triangle primitives.
var ErrNoGeometry = errors.New("no triangle primitives")

// GLTFOptions configures the glTF loader.
type GLTFOptions struct {
	Logger *zap.Logger
}

// LoadGLTF reads a .gltf or .glb file. Every triangle primitive becomes a
// body group whose material is the primitive's base colour texture or, when
// it has none, its base colour factor. The returned model is not finalized.
func LoadGLTF(path string, opts GLTFOptions) (*Model, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	l := &gltfLoader{
		doc:       doc,
		dir:       filepath.Dir(path),
		log:       log.With(zap.String("model", name)),
		m:         NewModel(name),
		materials: make(map[int]*render.Material),
	}
	for i, mesh := range doc.Meshes {
		if err := l.mesh(i, mesh); err != nil {
			return nil, fmt.Errorf("%s: mesh %q: %w", path, mesh.Name, err)
		}
	}
	if len(l.m.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}
	return l.m, nil
}

type gltfLoader struct {
	doc       *gltf.Document
	dir       string
	log       *zap.Logger
	m         *Model
	materials map[int]*render.Material
	fallback  *render.Material
}

func (l *gltfLoader) mesh(index int, mesh *gltf.Mesh) error {
	for pi, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// lines, points, strips and fans
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(l.doc, l.doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(l.doc, l.doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = modeler.ReadTextureCoord(l.doc, l.doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = modeler.ReadIndices(l.doc, l.doc.Accessors[*prim.Indices], nil); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		name := mesh.Name
		if name == "" {
			name = fmt.Sprintf("mesh%d", index)
		}
		if len(mesh.Primitives) > 1 {
			name = fmt.Sprintf("%s.%d", name, pi)
		}
		group := l.m.AddGroup(name, l.material(prim.Material))

		base := len(l.m.Vertices)
		for i, p := range positions {
			v := Vertex{Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
			if i < len(normals) {
				n := normals[i]
				v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
				v.HasNormal = true
			}
			if i < len(uvs) {
				// glTF already has its UV origin at the top left.
				v.UV = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
			}
			l.m.AddVertex(v)
		}

		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if _, err := l.m.AddTriangle(group, base+a, base+b, base+c); err != nil {
				return fmt.Errorf("triangle %d: %w", i/3, err)
			}
		}
	}
	return nil
}

// material converts a glTF material index, caching by index. Missing or
// broken materials fall back to the default material with a warning.
func (l *gltfLoader) material(index *int) *render.Material {
	if index == nil || *index < 0 || *index >= len(l.doc.Materials) {
		return l.defaultMaterial()
	}
	if mat, ok := l.materials[*index]; ok {
		return mat
	}

	src := l.doc.Materials[*index]
	mat := render.NewMaterial(src.Name)
	if mat.Name == "" {
		mat.Name = fmt.Sprintf("material%d", *index)
	}

	factor := [4]float64{1, 1, 1, 1}
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			factor = *pbr.BaseColorFactor
		}
		mat.Diffuse = [3]float64{factor[0], factor[1], factor[2]}
		if pbr.BaseColorTexture != nil {
			tex, err := l.texture(pbr.BaseColorTexture.Index)
			if err != nil {
				l.log.Warn("base colour texture unreadable, using default",
					zap.String("material", mat.Name), zap.Error(err))
				tex = render.DefaultTexture()
			}
			mat.Texture = tex
			l.materials[*index] = mat
			return mat
		}
	}
	mat.Texture = render.SolidTexture(render.TexelFromFloats(factor[3], factor[0], factor[1], factor[2]))
	l.materials[*index] = mat
	return mat
}

func (l *gltfLoader) defaultMaterial() *render.Material {
	if l.fallback == nil {
		l.fallback = render.DefaultMaterial()
	}
	return l.fallback
}

// texture decodes the image behind a glTF texture, embedded in a buffer
// view or stored in a file next to the document.
func (l *gltfLoader) texture(index int) (*render.Texture, error) {
	if index < 0 || index >= len(l.doc.Textures) {
		return nil, fmt.Errorf("texture %d: %w", index, ErrIndex)
	}
	src := l.doc.Textures[index].Source
	if src == nil || *src < 0 || *src >= len(l.doc.Images) {
		return nil, fmt.Errorf("texture %d has no image", index)
	}
	img := l.doc.Images[*src]

	var data []byte
	switch {
	case img.BufferView != nil:
		bv := l.doc.BufferViews[*img.BufferView]
		buf := l.doc.Buffers[bv.Buffer]
		start, end := bv.ByteOffset, bv.ByteOffset+bv.ByteLength
		if end > len(buf.Data) {
			return nil, fmt.Errorf("image %d: buffer view out of range", *src)
		}
		data = buf.Data[start:end]
	case img.URI != "":
		if img.IsEmbeddedResource() {
			var err error
			if data, err = img.MarshalData(); err != nil {
				return nil, fmt.Errorf("image %d: %w", *src, err)
			}
			break
		}
		return render.LoadTexture(filepath.Join(l.dir, filepath.FromSlash(img.URI)))
	default:
		return nil, fmt.Errorf("image %d has no data", *src)
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %d: %w", *src, err)
	}
	return render.TextureFromImage(decoded), nil
}

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Load dispatches on the file extension: .obj, .gltf or .glb.
func Load(path string, opts OBJOptions) (*Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path, opts)
	case ".gltf", ".glb":
		return LoadGLTF(path, GLTFOptions{Logger: opts.Logger})
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}
