package capture

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arface-renderer/internal/facemesh"
	"arface-renderer/internal/mathutil"
	"arface-renderer/internal/pose"
)

func sampleCapture() *Capture {
	mesh := facemesh.Mesh{
		Vertices:   []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1},
		Normals:    []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		UVs:        []float32{0, 0, 1, 0, 0, 1, 1, 1},
		TriIndices: []int16{0, 1, 2, 1, 3, 2},
	}

	tracked := Face{
		State: pose.Tracking,
		Center: pose.Pose{
			Rotation:    mathutil.Quat{0, 0.25, 0, 0.96875},
			Translation: mathutil.Vec3{0.0625, -0.078125, -0.40625},
		},
		Mesh: mesh,
	}
	for i := range tracked.Regions {
		tracked.Regions[i] = pose.Pose{
			Rotation:    mathutil.QuatIdentity(),
			Translation: mathutil.Vec3{float64(i) * 0.03125, 0, -0.375},
		}
	}

	paused := Face{State: pose.Paused, Center: pose.Identity()}
	for i := range paused.Regions {
		paused.Regions[i] = pose.Identity()
	}

	return &Capture{Frames: []Frame{
		{
			TimestampUS:     33333,
			ColorCorrection: [4]float32{1, 0.5, 0.25, 0.875},
			View:            mathutil.Mat4Identity().ColMajor(),
			Projection:      mathutil.Mat4Identity().ColMajor(),
			Faces:           []Face{tracked, paused},
		},
		{
			TimestampUS: 66666,
			View:        mathutil.Mat4Identity().ColMajor(),
			Projection:  mathutil.Mat4Identity().ColMajor(),
		},
	}}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	want := sampleCapture()
	got, err := Decode(Encode(want))
	require.NoError(t, err)

	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("capture round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWriteFile(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/session.fac"
	want := sampleCapture()
	require.NoError(t, Write(path, want))

	got, err := Parse(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("file round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBadHeader(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("BOGUS DATA"))
	assert.ErrorContains(t, err, "invalid header")

	_, err = Decode([]byte{})
	assert.Error(t, err)
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()

	full := Encode(sampleCapture())

	// Any prefix that cuts into frame data must error, not panic.
	for _, n := range []int{9, 20, 60, len(full) / 2, len(full) - 3} {
		_, err := Decode(full[:n])
		assert.Error(t, err, "prefix length %d", n)
	}
}

func TestDecodeHostileFrameCount(t *testing.T) {
	t.Parallel()

	// A tiny file claiming the maximum frame count must error out before any
	// allocation sized from the header.
	data := append([]byte("FAC1"), 0xff, 0xff, 0xff, 0xff)
	data = append(data, make([]byte, 32)...)

	_, err := Decode(data)
	require.Error(t, err)
	assert.ErrorContains(t, err, "frame count")

	// A count just past what the remaining bytes can hold is rejected too.
	short := Encode(sampleCapture())
	short[4] = 0xe8
	short[5] = 0x03 // claims 1000 frames
	_, err = Decode(short)
	assert.ErrorContains(t, err, "frame count")
}

func TestDecodeEmptyCapture(t *testing.T) {
	t.Parallel()

	got, err := Decode(Encode(&Capture{}))
	require.NoError(t, err)
	assert.Empty(t, got.Frames)
}

func TestParseMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Parse(t.TempDir() + "/nope.fac")
	assert.Error(t, err)
}
