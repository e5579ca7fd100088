// Package camera converts the tracking session's view/projection matrices
// into viewport coordinates for the software rasterizer.
package camera

import (
	"math"

	"arface-renderer/internal/mathutil"
)

// Near/far planes the tracking session uses for its projection matrix.
const (
	DefaultNear   = 0.1
	DefaultFar    = 100.0
	DefaultFOVDeg = 60.0
)

// Perspective builds a GL-style perspective projection (row-major).
// fovYDeg is the vertical field of view.
func Perspective(fovYDeg, aspect, near, far float64) mathutil.Mat4 {
	f := 1.0 / math.Tan(mathutil.Deg2Rad(fovYDeg)/2)
	return mathutil.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / (near - far), 2 * far * near / (near - far),
		0, 0, -1, 0,
	}
}

// ProjectVertices maps world-space positions through view and projection to
// viewport pixels. px/py are pixel coordinates with y growing downward; pz
// grows toward the camera so the z-buffer's larger-wins test works directly.
// Vertices behind the camera get a -Inf depth, which the rasterizer uses to
// reject any triangle touching them.
func ProjectVertices(positions []mathutil.Vec3, view, proj mathutil.Mat4, width, height int) (px, py, pz []float64) {
	vp := mathutil.Mat4Mul(proj, view)
	n := len(positions)
	px = make([]float64, n)
	py = make([]float64, n)
	pz = make([]float64, n)

	w2 := float64(width) * 0.5
	h2 := float64(height) * 0.5

	for i, v := range positions {
		p, w := vp.MulPointW(v)
		if w <= 1e-9 {
			pz[i] = math.Inf(-1)
			continue
		}
		invW := 1.0 / w
		px[i] = (p[0]*invW + 1) * w2
		py[i] = (1 - p[1]*invW) * h2
		pz[i] = -p[2] * invW
	}
	return px, py, pz
}
