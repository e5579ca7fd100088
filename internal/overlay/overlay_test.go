package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arface-renderer/internal/capture"
	"arface-renderer/internal/facemesh"
	"arface-renderer/internal/mathutil"
	"arface-renderer/internal/objmesh"
	"arface-renderer/internal/pose"
	"arface-renderer/internal/raster"
)

func testFaceMesh(n int) facemesh.Mesh {
	m := facemesh.Mesh{}
	for i := 0; i < n; i++ {
		m.Vertices = append(m.Vertices, float32(i)*0.001, 0.002, -0.003)
		m.Normals = append(m.Normals, 0, 0, 1)
		m.UVs = append(m.UVs, 0.5, 0.5)
	}
	m.TriIndices = []int16{0, 1, 2}
	return m
}

func testFace() *capture.Face {
	f := &capture.Face{
		State: pose.Tracking,
		Center: pose.Pose{
			Rotation:    mathutil.QuatIdentity(),
			Translation: mathutil.Vec3{0.05, -0.06, -0.4},
		},
		Mesh: testFaceMesh(facemesh.CanonicalVertexCount),
	}
	for i := range f.Regions {
		f.Regions[i] = pose.Pose{
			Rotation:    mathutil.QuatIdentity(),
			Translation: mathutil.Vec3{0, 0, -0.38},
		}
	}
	return f
}

func pointModel() *objmesh.Mesh {
	return &objmesh.Mesh{
		Positions: []mathutil.Vec3{{0, 0, 0}, {0.01, 0, 0}, {0, 0.01, 0}},
		Tris: []objmesh.Triangle{{Corners: [3]objmesh.Corner{
			{V: 0, T: -1, N: -1}, {V: 1, T: -1, N: -1}, {V: 2, T: -1, N: -1},
		}}},
	}
}

func testBindings() []Binding {
	return []Binding{
		{Name: "nose", Anchor: facemesh.NoseTip, Model: pointModel(), Blend: raster.AlphaBlend, Scale: 1},
		{Name: "left_ear", Anchor: facemesh.ForeheadLeft, RegionPose: true, Model: pointModel(), Blend: raster.AlphaBlend, Scale: 1},
	}
}

func TestComposeFaceSkipsNonTracking(t *testing.T) {
	t.Parallel()

	for _, state := range []pose.TrackingState{pose.Paused, pose.Stopped} {
		f := testFace()
		f.State = state
		items, skips := ComposeFace(f, testBindings(), nil)
		assert.Empty(t, items, "state %s", state)
		assert.Empty(t, skips, "state %s", state)
	}
}

// Draw order: face mesh first, nose accessory last.
func TestComposeFaceOrdering(t *testing.T) {
	t.Parallel()

	items, skips := ComposeFace(testFace(), testBindings(), nil)
	require.Empty(t, skips)
	require.Len(t, items, 3)
	assert.Equal(t, "face_mesh", items[0].Name)
	assert.Equal(t, "left_ear", items[1].Name)
	assert.Equal(t, "nose", items[2].Name)
}

// A landmark-anchored accessory lands at pose translation + vertex offset,
// with the offset left unrotated.
func TestComposeFaceLandmarkPlacement(t *testing.T) {
	t.Parallel()

	face := testFace()
	items, skips := ComposeFace(face, testBindings()[:1], nil)
	require.Empty(t, skips)
	require.Len(t, items, 2)

	noseIdx, _ := facemesh.NoseTip.VertexIndex()
	offset, err := face.Mesh.VertexOffset(noseIdx)
	require.NoError(t, err)
	want := face.Center.Translation.Add(offset)

	// Model vertex 0 sits at the accessory origin.
	got := items[1].Mesh.Positions[0]
	assert.InDelta(t, want[0], got[0], 1e-12)
	assert.InDelta(t, want[1], got[1], 1e-12)
	assert.InDelta(t, want[2], got[2], 1e-12)
}

// An invalid region pose drops only that binding; everything else renders.
func TestComposeFaceInvalidRegionPose(t *testing.T) {
	t.Parallel()

	face := testFace()
	face.Regions[facemesh.RegionForeheadLeft] = pose.Pose{} // zero quaternion

	items, skips := ComposeFace(face, testBindings(), nil)

	require.Len(t, skips, 1)
	assert.Equal(t, "left_ear", skips[0].Name)
	var invalid *pose.InvalidInputError
	assert.ErrorAs(t, skips[0].Err, &invalid)

	require.Len(t, items, 2)
	assert.Equal(t, "face_mesh", items[0].Name)
	assert.Equal(t, "nose", items[1].Name)
}

// An invalid center pose drops the face mesh and landmark-anchored
// accessories but leaves region-anchored ones alone.
func TestComposeFaceInvalidCenterPose(t *testing.T) {
	t.Parallel()

	face := testFace()
	face.Center.Rotation = mathutil.Quat{} // degenerate

	items, skips := ComposeFace(face, testBindings(), nil)

	require.Len(t, skips, 2)
	names := []string{skips[0].Name, skips[1].Name}
	assert.Contains(t, names, "face_mesh")
	assert.Contains(t, names, "nose")

	require.Len(t, items, 1)
	assert.Equal(t, "left_ear", items[0].Name)
}

// A mesh too small for the landmark index skips the binding.
func TestComposeFaceMissingLandmark(t *testing.T) {
	t.Parallel()

	face := testFace()
	face.Mesh = testFaceMesh(10) // nose tip index 4 fits, forehead 297 will not

	bindings := []Binding{
		{Name: "brow", Anchor: facemesh.ForeheadLeft, Model: pointModel(), Blend: raster.AlphaBlend, Scale: 1},
	}
	items, skips := ComposeFace(face, bindings, nil)

	require.Len(t, skips, 1)
	assert.Equal(t, "brow", skips[0].Name)
	// The face mesh itself still draws.
	require.Len(t, items, 1)
	assert.Equal(t, "face_mesh", items[0].Name)
}

func TestParseBlendMode(t *testing.T) {
	t.Parallel()

	for s, want := range map[string]raster.BlendMode{
		"":         raster.AlphaBlend,
		"alpha":    raster.AlphaBlend,
		"opaque":   raster.Opaque,
		"additive": raster.Additive,
	} {
		got, err := ParseBlendMode(s)
		require.NoError(t, err)
		assert.Equal(t, want, got, "mode %q", s)
	}

	_, err := ParseBlendMode("screen")
	assert.Error(t, err)
}
