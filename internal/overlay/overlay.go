// Package overlay turns one captured frame into an ordered draw list: the
// face mesh first, then accessories anchored to facial landmarks, nose last
// so nothing occludes it. This is the per-frame caller of the landmark
// transform.
package overlay

import (
	"image"

	"arface-renderer/internal/capture"
	"arface-renderer/internal/facemesh"
	"arface-renderer/internal/mathutil"
	"arface-renderer/internal/objmesh"
	"arface-renderer/internal/pose"
	"arface-renderer/internal/raster"
)

// Binding attaches one accessory model to a facial landmark.
type Binding struct {
	Name   string
	Anchor facemesh.Landmark
	// RegionPose anchors to the tracker's dedicated region pose instead of
	// the landmark's mesh vertex.
	RegionPose bool
	Model      *objmesh.Mesh
	Texture    *image.NRGBA
	Blend      raster.BlendMode
	Scale      float64
}

// DrawItem is one ready-to-rasterize draw call.
type DrawItem struct {
	Name     string
	Mesh     *raster.Mesh
	Texture  *image.NRGBA
	Material raster.Material
	Blend    raster.BlendMode
}

// Skip records an entity dropped from one frame and why. Skips are per-frame
// and non-fatal; the next frame brings fresh poses.
type Skip struct {
	Name string
	Err  error
}

// ComposeFace builds the draw list for one tracked face. Faces that are not
// actively tracking draw nothing. An invalid pose or missing landmark skips
// only the affected entity.
func ComposeFace(face *capture.Face, bindings []Binding, faceTex *image.NRGBA) ([]DrawItem, []Skip) {
	if face.State != pose.Tracking {
		return nil, nil
	}

	var items []DrawItem
	var skips []Skip

	// 1. The face mesh, behind everything anchored to it.
	if mesh, err := faceMeshItem(face); err != nil {
		skips = append(skips, Skip{Name: "face_mesh", Err: err})
	} else if mesh != nil {
		items = append(items, DrawItem{
			Name:     "face_mesh",
			Mesh:     mesh,
			Texture:  faceTex,
			Material: raster.DefaultMaterial(),
			Blend:    raster.AlphaBlend,
		})
	}

	// 2. Accessories, nose last so forehead objects cannot occlude it.
	ordered := make([]Binding, 0, len(bindings))
	var nose []Binding
	for _, b := range bindings {
		if b.Anchor == facemesh.NoseTip {
			nose = append(nose, b)
			continue
		}
		ordered = append(ordered, b)
	}
	ordered = append(ordered, nose...)

	for _, b := range ordered {
		item, err := accessoryItem(face, b)
		if err != nil {
			skips = append(skips, Skip{Name: b.Name, Err: err})
			continue
		}
		items = append(items, item)
	}

	return items, skips
}

func faceMeshItem(face *capture.Face) (*raster.Mesh, error) {
	if face.Mesh.VertexCount() == 0 {
		return nil, nil
	}
	if err := face.Mesh.Validate(); err != nil {
		return nil, err
	}
	if err := face.Center.Validate(); err != nil {
		return nil, err
	}

	model := face.Center.Matrix()
	n := face.Mesh.VertexCount()
	out := &raster.Mesh{
		Positions: make([]mathutil.Vec3, n),
		UVs:       make([][2]float32, 0, n),
	}
	for i := 0; i < n; i++ {
		v, _ := face.Mesh.VertexOffset(i)
		out.Positions[i] = model.MulPoint(v)
	}
	for i := 0; i+1 < len(face.Mesh.UVs); i += 2 {
		out.UVs = append(out.UVs, [2]float32{face.Mesh.UVs[i], face.Mesh.UVs[i+1]})
	}

	out.Tris = make([]raster.Tri, 0, len(face.Mesh.TriIndices)/3)
	for i := 0; i+2 < len(face.Mesh.TriIndices); i += 3 {
		vi := [3]int{int(face.Mesh.TriIndices[i]), int(face.Mesh.TriIndices[i+1]), int(face.Mesh.TriIndices[i+2])}
		out.Tris = append(out.Tris, raster.Tri{V: vi, T: vi})
	}
	return out, nil
}

func accessoryItem(face *capture.Face, b Binding) (DrawItem, error) {
	model, err := anchorMatrix(face, b)
	if err != nil {
		return DrawItem{}, err
	}

	scale := b.Scale
	if scale <= 0 {
		scale = 1.0
	}
	if scale != 1.0 {
		model = model.ScaleRotation(scale)
	}

	mesh := lowerObj(b.Model, model)
	return DrawItem{
		Name:     b.Name,
		Mesh:     mesh,
		Texture:  b.Texture,
		Material: raster.DefaultMaterial(),
		Blend:    b.Blend,
	}, nil
}

// anchorMatrix computes the accessory model matrix: either the tracker's
// region pose directly, or the landmark transform from the center pose and
// the landmark's mesh-vertex offset.
func anchorMatrix(face *capture.Face, b Binding) (mathutil.Mat4, error) {
	if b.RegionPose {
		region, ok := facemesh.RegionForLandmark(b.Anchor)
		if !ok {
			return mathutil.Mat4{}, &pose.InvalidInputError{Reason: "no region pose for landmark " + string(b.Anchor)}
		}
		p := face.Regions[region]
		if err := p.Validate(); err != nil {
			return mathutil.Mat4{}, err
		}
		return p.Matrix(), nil
	}

	offset, err := face.Mesh.LandmarkOffset(b.Anchor)
	if err != nil {
		return mathutil.Mat4{}, err
	}
	return pose.LandmarkTransform(face.Center, offset)
}

func lowerObj(m *objmesh.Mesh, model mathutil.Mat4) *raster.Mesh {
	out := &raster.Mesh{
		Positions: make([]mathutil.Vec3, len(m.Positions)),
		UVs:       m.UVs,
		Tris:      make([]raster.Tri, len(m.Tris)),
	}
	for i, p := range m.Positions {
		out.Positions[i] = model.MulPoint(p)
	}
	for i, tri := range m.Tris {
		for c := 0; c < 3; c++ {
			out.Tris[i].V[c] = tri.Corners[c].V
			out.Tris[i].T[c] = tri.Corners[c].T
		}
	}
	return out
}
