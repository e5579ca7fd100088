package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"arface-renderer/internal/camera"
	"arface-renderer/internal/capture"
	"arface-renderer/internal/mathutil"
	"arface-renderer/internal/overlay"
	"arface-renderer/internal/postprocess"
	"arface-renderer/internal/raster"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Bindings    []overlay.Binding
	FaceTexture *image.NRGBA
	RenderSize  int
	Supersample int
	Workers     int
	FOVDeg      float64
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame       int
	TimestampUS int64
	Success     bool
	Error       string
	Skipped     []string // entities dropped this frame (invalid pose etc.)
}

// Run renders all capture frames using a worker pool.
func Run(cfg Config, frames []capture.Frame) []Result {
	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = renderFrame(cfg, idx, &frames[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func renderFrame(cfg Config, idx int, frame *capture.Frame) Result {
	res := Result{Frame: idx, TimestampUS: frame.TimestampUS}

	view := mathutil.FromColMajor(frame.View)
	proj := mathutil.FromColMajor(frame.Projection)
	if frame.Projection == ([16]float32{}) {
		proj = camera.Perspective(cfg.FOVDeg, 1.0, camera.DefaultNear, camera.DefaultFar)
	}

	renderSize := cfg.RenderSize * cfg.Supersample
	fb := raster.NewFrameBuffer(renderSize, renderSize)
	cc := raster.ColorCorrectionFrom(frame.ColorCorrection)

	for f := range frame.Faces {
		items, skips := overlay.ComposeFace(&frame.Faces[f], cfg.Bindings, cfg.FaceTexture)
		for _, s := range skips {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s: %v", s.Name, s.Err))
		}
		for _, item := range items {
			raster.DrawMesh(fb, item.Mesh, view, proj, item.Texture, item.Material, cc, item.Blend)
		}
	}

	img := fb.Image()
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}
	img = postprocess.RemoveSmallClusters(img, 0.002)

	outPath := filepath.Join(cfg.OutputDir, FrameFileName(idx))
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	res.Success = true
	return res
}

// FrameFileName returns the output file name for a frame index.
func FrameFileName(idx int) string {
	return fmt.Sprintf("%05d.webp", idx)
}

// SummarizeSkips flattens skip messages across results, deduplicated, for
// the end-of-run report.
func SummarizeSkips(results []Result) []string {
	seen := make(map[string]int)
	var order []string
	for _, r := range results {
		for _, s := range r.Skipped {
			if _, ok := seen[s]; !ok {
				order = append(order, s)
			}
			seen[s]++
		}
	}
	out := make([]string, 0, len(order))
	for _, s := range order {
		if n := seen[s]; n > 1 {
			out = append(out, fmt.Sprintf("%s (%d frames)", s, n))
		} else {
			out = append(out, s)
		}
	}
	return out
}
