package facemesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arface-renderer/internal/mathutil"
)

func gridMesh(n int) Mesh {
	m := Mesh{}
	for i := 0; i < n; i++ {
		m.Vertices = append(m.Vertices, float32(i), float32(i)*0.5, -float32(i))
		m.Normals = append(m.Normals, 0, 0, 1)
		m.UVs = append(m.UVs, 0, 0)
	}
	return m
}

func TestLandmarkVertexIndices(t *testing.T) {
	t.Parallel()

	cases := map[Landmark]int{
		NoseTip:       4,
		ForeheadLeft:  297,
		ForeheadRight: 67,
	}
	for lm, want := range cases {
		got, ok := lm.VertexIndex()
		require.True(t, ok, "landmark %s", lm)
		assert.Equal(t, want, got)
	}

	_, ok := Landmark("chin").VertexIndex()
	assert.False(t, ok)
}

func TestLandmarkOffset(t *testing.T) {
	t.Parallel()

	m := gridMesh(CanonicalVertexCount)
	off, err := m.LandmarkOffset(ForeheadLeft)
	require.NoError(t, err)
	assert.Equal(t, mathutil.Vec3{297, 148.5, -297}, off)

	// Mesh too small for the landmark index.
	small := gridMesh(10)
	_, err = small.LandmarkOffset(ForeheadLeft)
	assert.Error(t, err)

	_, err = m.LandmarkOffset(Landmark("eyebrow"))
	assert.Error(t, err)
}

func TestVertexOffsetBounds(t *testing.T) {
	t.Parallel()

	m := gridMesh(8)
	v, err := m.VertexOffset(3)
	require.NoError(t, err)
	assert.Equal(t, mathutil.Vec3{3, 1.5, -3}, v)

	_, err = m.VertexOffset(-1)
	assert.Error(t, err)
	_, err = m.VertexOffset(8)
	assert.Error(t, err)
}

func TestMeshValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		m := gridMesh(4)
		m.TriIndices = []int16{0, 1, 2, 1, 3, 2}
		assert.NoError(t, m.Validate())
	})

	t.Run("vertex buffer not multiple of 3", func(t *testing.T) {
		t.Parallel()
		m := Mesh{Vertices: []float32{1, 2}}
		assert.Error(t, m.Validate())
	})

	t.Run("normal buffer mismatch", func(t *testing.T) {
		t.Parallel()
		m := gridMesh(4)
		m.Normals = m.Normals[:6]
		assert.Error(t, m.Validate())
	})

	t.Run("uv buffer mismatch", func(t *testing.T) {
		t.Parallel()
		m := gridMesh(4)
		m.UVs = append(m.UVs, 0.5)
		assert.Error(t, m.Validate())
	})

	t.Run("triangle index out of range", func(t *testing.T) {
		t.Parallel()
		m := gridMesh(4)
		m.TriIndices = []int16{0, 1, 4}
		assert.Error(t, m.Validate())
	})

	t.Run("triangle count not multiple of 3", func(t *testing.T) {
		t.Parallel()
		m := gridMesh(4)
		m.TriIndices = []int16{0, 1}
		assert.Error(t, m.Validate())
	})
}
