// Package objmesh loads the Wavefront OBJ subset the accessory models use:
// v/vn/vt records and polygonal faces, which are fan-triangulated.
package objmesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"arface-renderer/internal/mathutil"
)

// Corner references one vertex of a triangle. N and T are -1 when the face
// record carried no normal or texcoord index.
type Corner struct {
	V, T, N int
}

// Triangle is one triangulated face.
type Triangle struct {
	Corners [3]Corner
}

// Mesh is an indexed accessory model.
type Mesh struct {
	Positions []mathutil.Vec3
	Normals   []mathutil.Vec3
	UVs       [][2]float32
	Tris      []Triangle
}

// Load parses an OBJ file.
func Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("objmesh: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("objmesh: parse %s: %w", path, err)
	}
	return m, nil
}

// Decode parses OBJ text from r.
func Decode(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			m.Positions = append(m.Positions, v)
		case "vn":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			m.Normals = append(m.Normals, v)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: texcoord needs 2 components", lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 64)
			v, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: bad texcoord", lineNo)
			}
			m.UVs = append(m.UVs, [2]float32{float32(u), float32(v)})
		case "f":
			if err := m.parseFace(fields[1:]); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
		// o, g, s, usemtl, mtllib: ignored, the renderer textures per binding.
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(m.Positions) == 0 {
		return nil, fmt.Errorf("no vertices")
	}
	return m, nil
}

func parseVec3(fields []string) (mathutil.Vec3, error) {
	if len(fields) < 3 {
		return mathutil.Vec3{}, fmt.Errorf("needs 3 components, got %d", len(fields))
	}
	var v mathutil.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return mathutil.Vec3{}, fmt.Errorf("bad component %q", fields[i])
		}
		v[i] = f
	}
	return v, nil
}

func (m *Mesh) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 corners, got %d", len(fields))
	}

	corners := make([]Corner, len(fields))
	for i, fld := range fields {
		c, err := m.parseCorner(fld)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	// Fan triangulation for quads and larger polygons.
	for i := 1; i+1 < len(corners); i++ {
		m.Tris = append(m.Tris, Triangle{Corners: [3]Corner{corners[0], corners[i], corners[i+1]}})
	}
	return nil
}

// parseCorner handles "v", "v/t", "v//n", and "v/t/n" with OBJ's 1-based and
// negative (relative) indexing.
func (m *Mesh) parseCorner(s string) (Corner, error) {
	c := Corner{V: -1, T: -1, N: -1}
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return c, fmt.Errorf("bad face corner %q", s)
	}

	v, err := resolveIndex(parts[0], len(m.Positions))
	if err != nil {
		return c, fmt.Errorf("face corner %q: %w", s, err)
	}
	c.V = v

	if len(parts) > 1 && parts[1] != "" {
		t, err := resolveIndex(parts[1], len(m.UVs))
		if err != nil {
			return c, fmt.Errorf("face corner %q: %w", s, err)
		}
		c.T = t
	}
	if len(parts) > 2 && parts[2] != "" {
		n, err := resolveIndex(parts[2], len(m.Normals))
		if err != nil {
			return c, fmt.Errorf("face corner %q: %w", s, err)
		}
		c.N = n
	}
	return c, nil
}

func resolveIndex(s string, count int) (int, error) {
	raw, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	idx := raw
	if raw < 0 {
		idx = count + raw + 1
	}
	if idx < 1 || idx > count {
		return 0, fmt.Errorf("index %d out of range (have %d)", raw, count)
	}
	return idx - 1, nil
}
