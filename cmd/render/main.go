package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"arface-renderer/internal/batch"
	"arface-renderer/internal/capture"
	"arface-renderer/internal/config"
	"arface-renderer/internal/overlay"
	"arface-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	capturePath := flag.String("capture", "", "Path to recorded tracking capture (.fac)")
	assetDir := flag.String("assets", "", "Asset directory with models/ and textures")
	outputDir := flag.String("output", "", "Output directory (default: <capture dir>/renders)")
	frameLimit := flag.Int("frames", 0, "Render only first N frames for testing")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		AssetDir:    *assetDir,
		CapturePath: *capturePath,
		OutputDir:   *outputDir,
		Workers:     *workers,
	})

	if cfg.CapturePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no capture file. Use -capture flag or config.json.")
		os.Exit(1)
	}

	// Load capture
	rec, err := capture.Parse(cfg.CapturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading capture: %v\n", err)
		os.Exit(1)
	}
	frames := rec.Frames
	if *frameLimit > 0 && *frameLimit < len(frames) {
		frames = frames[:*frameLimit]
	}
	if len(frames) == 0 {
		fmt.Println("No frames to render.")
		os.Exit(0)
	}

	// Texture index + bindings
	texIndex := texture.BuildIndex(cfg.AssetDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	specs := make([]overlay.BindingSpec, len(cfg.Bindings))
	for i, b := range cfg.Bindings {
		specs[i] = overlay.BindingSpec{
			Name:       b.Name,
			Anchor:     b.Anchor,
			Model:      b.Model,
			Texture:    b.Texture,
			Blend:      b.Blend,
			RegionPose: b.RegionPose,
			Scale:      b.Scale,
		}
	}
	bindings, err := overlay.LoadBindings(specs, cfg.AssetDir, texCache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bindings: %v\n", err)
		os.Exit(1)
	}

	faceTex := texCache.Resolve(cfg.FaceTexture)

	mode := ""
	if *frameLimit > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *frameLimit)
	}
	fmt.Printf("Face capture → WebP overlay renderer%s\n", mode)
	fmt.Printf("Frames: %d, Bindings: %d, Workers: %d\n", len(frames), len(bindings), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir:   cfg.OutputDir,
		Bindings:    bindings,
		FaceTexture: faceTex,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		FOVDeg:      cfg.FOVDeg,
	}, frames)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := 0, 0
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
		}
	}
	fmt.Printf("Rendered: %d/%d\n", success, len(frames))

	if skips := batch.SummarizeSkips(results); len(skips) > 0 {
		fmt.Printf("\nSkipped entities (%d):\n", len(skips))
		limit := 20
		if len(skips) < limit {
			limit = len(skips)
		}
		for _, s := range skips[:limit] {
			fmt.Printf("  %s\n", s)
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
