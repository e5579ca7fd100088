package objmesh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arface-renderer/internal/mathutil"
)

const cubeFace = `
# accessory fragment
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestDecodeQuadTriangulation(t *testing.T) {
	t.Parallel()

	m, err := Decode(strings.NewReader(cubeFace))
	require.NoError(t, err)

	assert.Len(t, m.Positions, 4)
	assert.Len(t, m.UVs, 4)
	assert.Len(t, m.Normals, 1)
	// Quad fans into two triangles sharing corner 0.
	require.Len(t, m.Tris, 2)
	assert.Equal(t, [3]Corner{{0, 0, 0}, {1, 1, 0}, {2, 2, 0}}, m.Tris[0].Corners)
	assert.Equal(t, [3]Corner{{0, 0, 0}, {2, 2, 0}, {3, 3, 0}}, m.Tris[1].Corners)

	assert.Equal(t, mathutil.Vec3{1, 1, 0}, m.Positions[2])
	assert.Equal(t, [2]float32{1, 1}, m.UVs[2])
}

func TestDecodeCornerForms(t *testing.T) {
	t.Parallel()

	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1 2 3
f 1//1 2//1 3//1
f -3 -2 -1
`
	m, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Tris, 3)

	// Bare vertex index: no uv, no normal.
	assert.Equal(t, Corner{V: 0, T: -1, N: -1}, m.Tris[0].Corners[0])
	// v//n form.
	assert.Equal(t, Corner{V: 0, T: -1, N: 0}, m.Tris[1].Corners[0])
	// Negative (relative) indices count back from the end.
	assert.Equal(t, Corner{V: 0, T: -1, N: -1}, m.Tris[2].Corners[0])
	assert.Equal(t, Corner{V: 2, T: -1, N: -1}, m.Tris[2].Corners[2])
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":               "",
		"no vertices":         "vn 0 0 1\n",
		"short vertex":        "v 1 2\n",
		"bad component":       "v a b c\n",
		"face index range":    "v 0 0 0\nf 1 2 3\n",
		"face too few":        "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"zero index":          "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"bad face corner":     "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/2/3/4 2 3\n",
		"missing uv for face": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/2 3/3\n",
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir() + "/missing.obj")
	assert.Error(t, err)
}
