package overlay

import (
	"fmt"
	"path/filepath"

	"arface-renderer/internal/facemesh"
	"arface-renderer/internal/objmesh"
	"arface-renderer/internal/raster"
	"arface-renderer/internal/texture"
)

// BindingSpec is the configuration form of a binding: asset names instead of
// loaded assets.
type BindingSpec struct {
	Name       string
	Anchor     string
	Model      string
	Texture    string
	Blend      string
	RegionPose bool
	Scale      float64
}

// ParseBlendMode maps a config blend name to a raster mode. Empty defaults
// to alpha blending, the mode the accessory pass uses.
func ParseBlendMode(s string) (raster.BlendMode, error) {
	switch s {
	case "", "alpha":
		return raster.AlphaBlend, nil
	case "opaque":
		return raster.Opaque, nil
	case "additive":
		return raster.Additive, nil
	}
	return raster.AlphaBlend, fmt.Errorf("overlay: unknown blend mode %q", s)
}

// LoadBindings resolves binding specs into ready bindings: OBJ models from
// assetDir, textures through the shared resolver.
func LoadBindings(specs []BindingSpec, assetDir string, tex texture.Resolver) ([]Binding, error) {
	bindings := make([]Binding, 0, len(specs))
	for _, spec := range specs {
		anchor := facemesh.Landmark(spec.Anchor)
		if _, ok := anchor.VertexIndex(); !ok {
			return nil, fmt.Errorf("overlay: binding %q: unknown anchor %q", spec.Name, spec.Anchor)
		}

		model, err := objmesh.Load(filepath.Join(assetDir, spec.Model))
		if err != nil {
			return nil, fmt.Errorf("overlay: binding %q: %w", spec.Name, err)
		}

		blend, err := ParseBlendMode(spec.Blend)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", spec.Name, err)
		}

		// A missing texture is not fatal; the rasterizer falls back to a
		// flat default color.
		img := tex.Resolve(spec.Texture)

		bindings = append(bindings, Binding{
			Name:       spec.Name,
			Anchor:     anchor,
			RegionPose: spec.RegionPose,
			Model:      model,
			Texture:    img,
			Blend:      blend,
			Scale:      spec.Scale,
		})
	}
	return bindings, nil
}
