package render

// DefaultMaterialName names the fallback material.
const DefaultMaterialName = "default"

// Material is a surface description: a texture plus the scalar lighting
// coefficients of a material library entry.
type Material struct {
	Name string

	Ambient  [3]float64 // Ka
	Diffuse  [3]float64 // Kd
	Specular [3]float64 // Ks
	Emissive [3]float64 // Ke

	Shininess    float64 // Ns
	Transparency float64 // Tr, 1 - d
	Illum        int

	TexturePath string
	Texture     *Texture
}

// NewMaterial returns a material with the library defaults and the
// fallback texture.
func NewMaterial(name string) *Material {
	return &Material{
		Name:     name,
		Ambient:  [3]float64{0.2, 0.2, 0.2},
		Diffuse:  [3]float64{0.8, 0.8, 0.8},
		Specular: [3]float64{0, 0, 0},
		Illum:    1,
		Texture:  DefaultTexture(),
	}
}

// DefaultMaterial returns the fallback material: a 1×1 opaque blue texture.
func DefaultMaterial() *Material {
	return NewMaterial(DefaultMaterialName)
}

// Attenuation returns the per-vertex light factor for a surface whose normal
// makes cosine cosTheta with the light direction. The result is in [0, 1].
func (m *Material) Attenuation(cosTheta float64) float64 {
	l := luminance(m.Ambient) + luminance(m.Emissive)
	if cosTheta > 0 {
		l += luminance(m.Diffuse) * cosTheta
	}
	return min(max(l, 0), 1)
}

func luminance(c [3]float64) float64 {
	return 0.299*c[0] + 0.587*c[1] + 0.114*c[2]
}
