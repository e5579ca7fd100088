package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"arface-renderer/internal/camera"
	"arface-renderer/internal/capture"
	"arface-renderer/internal/facemesh"
	"arface-renderer/internal/mathutil"
	"arface-renderer/internal/pose"
)

// Generates a synthetic tracking capture: one face on an ellipsoid head
// sweeping through a yaw/pitch animation. Lets the renderer be exercised
// without a recorded session.
func main() {
	out := flag.String("o", "synthetic.fac", "Output capture path")
	frames := flag.Int("frames", 120, "Number of frames")
	fps := flag.Float64("fps", 30, "Capture frame rate")
	flag.Parse()

	mesh := buildHeadMesh()
	proj := camera.Perspective(camera.DefaultFOVDeg, 1.0, camera.DefaultNear, camera.DefaultFar).ColMajor()
	view := mathutil.Mat4Identity().ColMajor()

	c := &capture.Capture{Frames: make([]capture.Frame, 0, *frames)}
	for i := 0; i < *frames; i++ {
		t := float64(i) / *fps

		frame := capture.Frame{
			TimestampUS: int64(t * 1e6),
			ColorCorrection: [4]float32{
				1, 1, 1,
				float32(0.8 + 0.2*math.Sin(2*math.Pi*t/5)),
			},
			View:       view,
			Projection: proj,
		}

		// A short tracking dropout partway through, so downstream skip
		// handling gets exercised.
		if i%50 == 49 {
			frame.Faces = []capture.Face{{State: pose.Paused, Center: pose.Identity()}}
			c.Frames = append(c.Frames, frame)
			continue
		}

		yaw := mathutil.Deg2Rad(25 * math.Sin(2*math.Pi*t/4))
		pitch := mathutil.Deg2Rad(10 * math.Sin(2*math.Pi*t/6))
		center := pose.Pose{
			Rotation:    mathutil.EulerToQuat(pitch, yaw, 0),
			Translation: mathutil.Vec3{0.02 * math.Sin(2 * math.Pi * t / 7), -0.03, -0.45},
		}

		face := capture.Face{
			State:  pose.Tracking,
			Center: center,
			Mesh:   mesh,
		}
		for _, lm := range facemesh.Landmarks() {
			region, _ := facemesh.RegionForLandmark(lm)
			offset, err := mesh.LandmarkOffset(lm)
			if err != nil {
				fmt.Fprintf(os.Stderr, "landmark %s: %v\n", lm, err)
				os.Exit(1)
			}
			face.Regions[region] = center.Mul(pose.Pose{
				Rotation:    mathutil.QuatIdentity(),
				Translation: offset,
			})
		}

		frame.Faces = []capture.Face{face}
		c.Frames = append(c.Frames, frame)
	}

	if err := capture.Write(*out, c); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d frames to %s\n", len(c.Frames), *out)
}

// buildHeadMesh makes an ellipsoid with the canonical topology's vertex
// count (18 latitude rows × 26 longitude columns = 468) so the named
// landmark indices resolve.
func buildHeadMesh() facemesh.Mesh {
	const rows, cols = 18, 26
	const rx, ry, rz = 0.08, 0.11, 0.09 // meters

	var m facemesh.Mesh
	for r := 0; r < rows; r++ {
		theta := math.Pi * (float64(r) + 0.5) / rows // 0..pi, poles excluded
		for c := 0; c < cols; c++ {
			phi := 2 * math.Pi * float64(c) / cols
			x := rx * math.Sin(theta) * math.Sin(phi)
			y := ry * math.Cos(theta)
			z := rz * math.Sin(theta) * math.Cos(phi)
			m.Vertices = append(m.Vertices, float32(x), float32(y), float32(z))

			n := mathutil.Vec3{x / (rx * rx), y / (ry * ry), z / (rz * rz)}.Normalize()
			m.Normals = append(m.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
			m.UVs = append(m.UVs, float32(c)/(cols-1), float32(r)/(rows-1))
		}
	}

	for r := 0; r+1 < rows; r++ {
		for c := 0; c < cols; c++ {
			c1 := (c + 1) % cols
			a := int16(r*cols + c)
			b := int16(r*cols + c1)
			d := int16((r+1)*cols + c)
			e := int16((r+1)*cols + c1)
			m.TriIndices = append(m.TriIndices, a, d, b, b, d, e)
		}
	}
	return m
}
