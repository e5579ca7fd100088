package raster

import (
	"image"

	"arface-renderer/internal/camera"
	"arface-renderer/internal/mathutil"
)

// Tri indexes one triangle's corners into a Mesh's position and UV arrays.
// A T index of -1 means the corner has no texcoord.
type Tri struct {
	V [3]int
	T [3]int
}

// Mesh is the rasterizer's input geometry: world-space positions with
// parallel UV indexing. Both the face mesh and OBJ accessories are lowered
// to this form before drawing.
type Mesh struct {
	Positions []mathutil.Vec3
	UVs       [][2]float32
	Tris      []Tri
}

// DrawMesh projects and rasterizes a mesh with flat shading.
func DrawMesh(
	fb *FrameBuffer,
	m *Mesh,
	view, proj mathutil.Mat4,
	tex *image.NRGBA,
	mat Material,
	cc ColorCorrection,
	mode BlendMode,
) {
	if len(m.Positions) == 0 || len(m.Tris) == 0 {
		return
	}

	px, py, pz := camera.ProjectVertices(m.Positions, view, proj, fb.Width, fb.Height)

	var defR, defG, defB, defA uint8 = 160, 160, 170, 255
	if tex != nil {
		defR, defG, defB, defA = averageColor(tex)
	}

	for _, tri := range m.Tris {
		if !validTri(tri.V, len(m.Positions)) {
			continue
		}
		// Flat shading from the world-space face normal.
		p0 := m.Positions[tri.V[0]]
		e1 := m.Positions[tri.V[1]].Sub(p0)
		e2 := m.Positions[tri.V[2]].Sub(p0)
		n := e1.Cross(e2)
		if n.Len() < 1e-12 {
			continue
		}
		shade := mat.Shade(n.Normalize())

		drawTriangle(fb, px, py, pz, m.UVs, tri.V, tri.T, tex, shade, cc, mode, defR, defG, defB, defA)
	}
}

func validTri(vi [3]int, n int) bool {
	for _, i := range vi {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}

func averageColor(tex *image.NRGBA) (uint8, uint8, uint8, uint8) {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 160, 160, 170, 255
	}

	var sumR, sumG, sumB float64
	stride := tex.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255
}
