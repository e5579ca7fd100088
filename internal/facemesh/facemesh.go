// Package facemesh defines the per-frame face geometry buffers delivered by
// the tracking contract and the named-landmark table over the canonical
// face-mesh topology.
package facemesh

import (
	"fmt"

	"arface-renderer/internal/mathutil"
)

// CanonicalVertexCount is the vertex count of the canonical face-mesh
// topology (468 vertices, 1404 position floats).
const CanonicalVertexCount = 468

// Mesh holds one face's geometry for one frame, as flat numeric buffers in
// the layout the tracker delivers: 3 floats per vertex position and normal,
// 2 per UV, triangle indices as int16 triples. Positions are offsets from the
// face center pose's origin, meters.
type Mesh struct {
	Vertices   []float32
	Normals    []float32
	UVs        []float32
	TriIndices []int16
}

// VertexCount returns the number of vertices in the position buffer.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// Validate checks buffer length consistency and triangle index bounds.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("facemesh: vertex buffer length %d not a multiple of 3", len(m.Vertices))
	}
	n := m.VertexCount()
	if len(m.Normals) != 0 && len(m.Normals) != n*3 {
		return fmt.Errorf("facemesh: normal buffer length %d, want %d", len(m.Normals), n*3)
	}
	if len(m.UVs) != 0 && len(m.UVs) != n*2 {
		return fmt.Errorf("facemesh: uv buffer length %d, want %d", len(m.UVs), n*2)
	}
	if len(m.TriIndices)%3 != 0 {
		return fmt.Errorf("facemesh: triangle index count %d not a multiple of 3", len(m.TriIndices))
	}
	for i, idx := range m.TriIndices {
		if int(idx) < 0 || int(idx) >= n {
			return fmt.Errorf("facemesh: triangle index %d out of range at %d (vertices %d)", idx, i, n)
		}
	}
	return nil
}

// VertexOffset returns vertex i's position relative to the face center
// pose's origin.
func (m *Mesh) VertexOffset(i int) (mathutil.Vec3, error) {
	if i < 0 || i*3+2 >= len(m.Vertices) {
		return mathutil.Vec3{}, fmt.Errorf("facemesh: vertex index %d out of range (vertices %d)", i, m.VertexCount())
	}
	return mathutil.Vec3{
		float64(m.Vertices[i*3+0]),
		float64(m.Vertices[i*3+1]),
		float64(m.Vertices[i*3+2]),
	}, nil
}

// LandmarkOffset returns the named landmark's position relative to the face
// center pose's origin.
func (m *Mesh) LandmarkOffset(l Landmark) (mathutil.Vec3, error) {
	idx, ok := l.VertexIndex()
	if !ok {
		return mathutil.Vec3{}, fmt.Errorf("facemesh: unknown landmark %q", l)
	}
	return m.VertexOffset(idx)
}
