package main

import (
	"flag"
	"fmt"
	"os"

	"arface-renderer/internal/capture"
	"arface-renderer/internal/facemesh"
	"arface-renderer/internal/pose"
)

func main() {
	verbose := flag.Bool("v", false, "Print model matrices per landmark")
	maxFrames := flag.Int("frames", 0, "Limit to first N frames")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-v] [-frames N] capture.fac ...")
		os.Exit(1)
	}

	for _, arg := range flag.Args() {
		c, err := capture.Parse(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			continue
		}

		frames := c.Frames
		if *maxFrames > 0 && *maxFrames < len(frames) {
			frames = frames[:*maxFrames]
		}
		fmt.Printf("\n=== %s (frames=%d) ===\n", arg, len(c.Frames))

		for fi := range frames {
			printFrame(fi, &frames[fi], *verbose)
		}
	}
}

func printFrame(idx int, f *capture.Frame, verbose bool) {
	fmt.Printf("frame %d  t=%dus  cc=[%.3f %.3f %.3f %.3f]  faces=%d\n",
		idx, f.TimestampUS,
		f.ColorCorrection[0], f.ColorCorrection[1], f.ColorCorrection[2], f.ColorCorrection[3],
		len(f.Faces))

	for i := range f.Faces {
		face := &f.Faces[i]
		fmt.Printf("  face %d  %s  center=%s\n", i, face.State, fmtPose(face.Center))
		if face.State != pose.Tracking {
			continue
		}
		for r := facemesh.Region(0); r < facemesh.RegionCount; r++ {
			fmt.Printf("    region %-14s %s\n", r, fmtPose(face.Regions[r]))
		}
		fmt.Printf("    mesh: %d vertices, %d triangles\n",
			face.Mesh.VertexCount(), len(face.Mesh.TriIndices)/3)

		for _, lm := range facemesh.Landmarks() {
			offset, err := face.Mesh.LandmarkOffset(lm)
			if err != nil {
				fmt.Printf("    landmark %-14s <%v>\n", lm, err)
				continue
			}
			m, err := pose.LandmarkTransform(face.Center, offset)
			if err != nil {
				fmt.Printf("    landmark %-14s <%v>\n", lm, err)
				continue
			}
			world := m.Translation()
			fmt.Printf("    landmark %-14s world=[%.3f %.3f %.3f]\n", lm, world[0], world[1], world[2])
			if verbose {
				fmt.Printf("      model(col-major)=%v\n", m.ColMajor())
			}
		}
	}
}

func fmtPose(p pose.Pose) string {
	return fmt.Sprintf("t:[%.3f %.3f %.3f] q:[%.2f %.2f %.2f %.2f]",
		p.Translation[0], p.Translation[1], p.Translation[2],
		p.Rotation[0], p.Rotation[1], p.Rotation[2], p.Rotation[3])
}
