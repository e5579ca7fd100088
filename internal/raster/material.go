package raster

import (
	"math"

	"arface-renderer/internal/mathutil"
)

// Material holds the Blinn-Phong coefficients a draw call shades with.
type Material struct {
	Ambient       float64
	Diffuse       float64
	Specular      float64
	SpecularPower float64
}

// DefaultMaterial matches the accessory material the original overlay used.
func DefaultMaterial() Material {
	return Material{Ambient: 0.0, Diffuse: 1.0, Specular: 0.1, SpecularPower: 6.0}
}

// Fixed scene light and view directions for flat shading. The per-frame
// light estimate arrives as the color-correction vector instead.
var (
	lightDir = mathutil.Vec3{0.25, 0.86, 0.44}.Normalize()
	viewDir  = mathutil.Vec3{0, 0, -1}
	halfVec  = lightDir.Sub(viewDir).Normalize()
)

// Shade returns the combined lighting scalar for a face normal.
// Lambertian term uses abs so back faces of thin accessories stay lit.
func (m Material) Shade(normal mathutil.Vec3) float64 {
	ndl := math.Abs(normal.Dot(lightDir))
	ndh := normal.Dot(halfVec)
	if ndh < 0 {
		ndh = 0
	}
	spec := 0.0
	if m.Specular > 0 {
		spec = math.Pow(ndh, m.SpecularPower) * m.Specular
	}
	return m.Ambient + ndl*m.Diffuse + spec
}

// ColorCorrection is the frame light estimate: rgb scale factors plus the
// average pixel intensity in gamma space, applied multiplicatively the way
// the original overlay shader consumed it.
type ColorCorrection [4]float64

// NeutralColorCorrection leaves colors untouched.
func NeutralColorCorrection() ColorCorrection {
	return ColorCorrection{1, 1, 1, 1}
}

// ColorCorrectionFrom converts the capture's float32 vector. A zero vector
// (no light estimate) becomes neutral.
func ColorCorrectionFrom(v [4]float32) ColorCorrection {
	if v == ([4]float32{}) {
		return NeutralColorCorrection()
	}
	return ColorCorrection{float64(v[0]), float64(v[1]), float64(v[2]), float64(v[3])}
}

const invGamma = 1.0 / 2.2

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
