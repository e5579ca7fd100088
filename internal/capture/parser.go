package capture

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"arface-renderer/internal/facemesh"
	"arface-renderer/internal/mathutil"
	"arface-renderer/internal/pose"
)

// magic identifies a face-tracking capture file, version 1.
const magic = "FAC1"

// Parse reads a capture file and returns the recorded frames.
func Parse(path string) (*Capture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("capture: read %s: %w", path, err)
	}
	c, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("capture: %s: %w", path, err)
	}
	return c, nil
}

// Decode parses capture bytes.
func Decode(data []byte) (*Capture, error) {
	if len(data) < 8 || string(data[:4]) != magic {
		return nil, fmt.Errorf("invalid header")
	}

	r := &reader{data: data, off: 4}
	frameCount := int(r.readU32())

	// A frame is at least a timestamp, color correction, two matrices, and a
	// face count on the wire. A count the remaining bytes cannot hold is a
	// garbled header; reject it before allocating.
	const minFrameSize = 8 + 4*4 + 16*4 + 16*4 + 2
	if frameCount > (len(data)-8)/minFrameSize {
		return nil, fmt.Errorf("frame count %d exceeds file size %d", frameCount, len(data))
	}

	c := &Capture{Frames: make([]Frame, 0, frameCount)}
	for i := 0; i < frameCount; i++ {
		f := r.readFrame()
		if r.truncated {
			return nil, fmt.Errorf("truncated at frame %d of %d", i, frameCount)
		}
		c.Frames = append(c.Frames, f)
	}
	return c, nil
}

type reader struct {
	data      []byte
	off       int
	truncated bool
}

func (r *reader) readU16() uint16 {
	if r.off+2 > len(r.data) {
		r.off = len(r.data)
		r.truncated = true
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) readI16() int16 {
	return int16(r.readU16())
}

func (r *reader) readU32() uint32 {
	if r.off+4 > len(r.data) {
		r.off = len(r.data)
		r.truncated = true
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) readU64() uint64 {
	if r.off+8 > len(r.data) {
		r.off = len(r.data)
		r.truncated = true
		return 0
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v
}

func (r *reader) readF32() float32 {
	return math.Float32frombits(r.readU32())
}

func (r *reader) readByte() byte {
	if r.off >= len(r.data) {
		r.truncated = true
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *reader) readF32Slice(n int) []float32 {
	if n < 0 || r.off+n*4 > len(r.data) {
		r.off = len(r.data)
		r.truncated = true
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = r.readF32()
	}
	return out
}

func (r *reader) readMat16() [16]float32 {
	var m [16]float32
	for i := range m {
		m[i] = r.readF32()
	}
	return m
}

func (r *reader) readPose() pose.Pose {
	var q mathutil.Quat
	for i := range q {
		q[i] = float64(r.readF32())
	}
	var t mathutil.Vec3
	for i := range t {
		t[i] = float64(r.readF32())
	}
	return pose.Pose{Rotation: q, Translation: t}
}

func (r *reader) readFrame() Frame {
	var f Frame
	f.TimestampUS = int64(r.readU64())
	for i := range f.ColorCorrection {
		f.ColorCorrection[i] = r.readF32()
	}
	f.View = r.readMat16()
	f.Projection = r.readMat16()

	faceCount := int(r.readU16())
	if r.truncated {
		return f
	}
	f.Faces = make([]Face, 0, faceCount)
	for i := 0; i < faceCount; i++ {
		f.Faces = append(f.Faces, r.readFace())
		if r.truncated {
			return f
		}
	}
	return f
}

func (r *reader) readFace() Face {
	var face Face
	face.State = pose.TrackingState(r.readByte())
	face.Center = r.readPose()
	for i := range face.Regions {
		face.Regions[i] = r.readPose()
	}

	// Mesh buffers are present only for tracking faces.
	if face.State != pose.Tracking {
		return face
	}

	vcount := int(r.readU32())
	face.Mesh = facemesh.Mesh{
		Vertices: r.readF32Slice(vcount * 3),
		Normals:  r.readF32Slice(vcount * 3),
		UVs:      r.readF32Slice(vcount * 2),
	}
	tcount := int(r.readU32())
	if tcount < 0 || r.off+tcount*2 > len(r.data) {
		r.truncated = true
		return face
	}
	face.Mesh.TriIndices = make([]int16, tcount)
	for i := range face.Mesh.TriIndices {
		face.Mesh.TriIndices[i] = r.readI16()
	}
	return face
}
