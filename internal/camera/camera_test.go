package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arface-renderer/internal/mathutil"
)

func TestProjectVerticesCenter(t *testing.T) {
	t.Parallel()

	proj := Perspective(60, 1.0, DefaultNear, DefaultFar)
	view := mathutil.Mat4Identity()

	// A point straight ahead on the optical axis lands in the viewport
	// center.
	px, py, pz := ProjectVertices([]mathutil.Vec3{{0, 0, -1}}, view, proj, 200, 200)
	require.Len(t, px, 1)
	assert.InDelta(t, 100, px[0], 1e-9)
	assert.InDelta(t, 100, py[0], 1e-9)
	assert.False(t, math.IsInf(pz[0], -1))
}

func TestProjectVerticesDepthOrder(t *testing.T) {
	t.Parallel()

	proj := Perspective(60, 1.0, DefaultNear, DefaultFar)
	view := mathutil.Mat4Identity()

	_, _, pz := ProjectVertices([]mathutil.Vec3{{0, 0, -0.5}, {0, 0, -2}}, view, proj, 100, 100)
	// Nearer points get larger depth values (z-buffer larger-wins).
	assert.Greater(t, pz[0], pz[1])
}

func TestProjectVerticesBehindCamera(t *testing.T) {
	t.Parallel()

	proj := Perspective(60, 1.0, DefaultNear, DefaultFar)
	view := mathutil.Mat4Identity()

	_, _, pz := ProjectVertices([]mathutil.Vec3{{0, 0, 1}}, view, proj, 100, 100)
	assert.True(t, math.IsInf(pz[0], -1))
}

func TestProjectVerticesScreenDirections(t *testing.T) {
	t.Parallel()

	proj := Perspective(60, 1.0, DefaultNear, DefaultFar)
	view := mathutil.Mat4Identity()

	pts := []mathutil.Vec3{
		{0.2, 0, -1},  // world right
		{0, 0.2, -1},  // world up
		{-0.2, 0, -1}, // world left
	}
	px, py, _ := ProjectVertices(pts, view, proj, 100, 100)

	assert.Greater(t, px[0], 50.0, "world +x goes right")
	assert.Less(t, py[1], 50.0, "world +y goes up (pixel y down)")
	assert.Less(t, px[2], 50.0, "world -x goes left")
}

func TestPerspectiveShape(t *testing.T) {
	t.Parallel()

	p := Perspective(90, 2.0, 0.1, 100)
	// 90° vertical FOV: f = 1.
	assert.InDelta(t, 0.5, p[0], 1e-12) // f/aspect
	assert.InDelta(t, 1.0, p[5], 1e-12)
	assert.Equal(t, -1.0, p[14])
	assert.Equal(t, 0.0, p[15])
}
