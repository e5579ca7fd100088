package capture

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"arface-renderer/internal/pose"
)

// Encode serializes a capture to its binary form.
func Encode(c *Capture) []byte {
	w := &writer{}
	w.str(magic)
	w.u32(uint32(len(c.Frames)))
	for i := range c.Frames {
		w.frame(&c.Frames[i])
	}
	return w.buf
}

// Write serializes a capture to a file.
func Write(path string, c *Capture) error {
	if err := os.WriteFile(path, Encode(c), 0644); err != nil {
		return fmt.Errorf("capture: write %s: %w", path, err)
	}
	return nil
}

type writer struct {
	buf []byte
}

func (w *writer) str(s string) {
	w.buf = append(w.buf, s...)
}

func (w *writer) byte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *writer) u16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *writer) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *writer) f32Padded(vals []float32, n int) {
	for i := 0; i < n; i++ {
		if i < len(vals) {
			w.f32(vals[i])
		} else {
			w.f32(0)
		}
	}
}

func (w *writer) pose(p pose.Pose) {
	for _, c := range p.Rotation {
		w.f32(float32(c))
	}
	for _, c := range p.Translation {
		w.f32(float32(c))
	}
}

func (w *writer) frame(f *Frame) {
	w.u64(uint64(f.TimestampUS))
	for _, c := range f.ColorCorrection {
		w.f32(c)
	}
	for _, c := range f.View {
		w.f32(c)
	}
	for _, c := range f.Projection {
		w.f32(c)
	}
	w.u16(uint16(len(f.Faces)))
	for i := range f.Faces {
		w.face(&f.Faces[i])
	}
}

func (w *writer) face(face *Face) {
	w.byte(byte(face.State))
	w.pose(face.Center)
	for _, rp := range face.Regions {
		w.pose(rp)
	}
	if face.State != pose.Tracking {
		return
	}

	vcount := len(face.Mesh.Vertices) / 3
	w.u32(uint32(vcount))
	for _, v := range face.Mesh.Vertices[:vcount*3] {
		w.f32(v)
	}
	// Normal and UV buffers are fixed-size per vertex on the wire; pad with
	// zeros when the tracker supplied none.
	w.f32Padded(face.Mesh.Normals, vcount*3)
	w.f32Padded(face.Mesh.UVs, vcount*2)
	w.u32(uint32(len(face.Mesh.TriIndices)))
	for _, idx := range face.Mesh.TriIndices {
		w.u16(uint16(idx))
	}
}
