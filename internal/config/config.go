package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Binding configures one accessory attachment.
type Binding struct {
	Name       string  `json:"name"`
	Anchor     string  `json:"anchor"` // nose_tip, forehead_left, forehead_right
	Model      string  `json:"model"`  // OBJ path relative to asset_dir
	Texture    string  `json:"texture"`
	Blend      string  `json:"blend"` // alpha (default), opaque, additive
	RegionPose bool    `json:"region_pose"`
	Scale      float64 `json:"scale"`
}

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	AssetDir    string `json:"asset_dir"`
	CapturePath string `json:"capture"`
	OutputDir   string `json:"output_dir"`
	FaceTexture string `json:"face_texture"`

	// Render settings. Output WebP is lossless, so there is no quality knob.
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	Workers     int     `json:"workers"`
	FOVDeg      float64 `json:"fov_deg"`

	Bindings []Binding `json:"bindings"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	AssetDir    string
	CapturePath string
	OutputDir   string
	Workers     int
}

// Resolve fills in any empty fields with defaults. CLI flags take priority
// when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.AssetDir != "" {
		c.AssetDir = flags.AssetDir
	}
	if flags.CapturePath != "" {
		c.CapturePath = flags.CapturePath
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.AssetDir == "" {
		c.AssetDir = "assets"
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(filepath.Dir(c.CapturePath), "renders")
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.FOVDeg <= 0 {
		c.FOVDeg = 60
	}

	if len(c.Bindings) == 0 {
		c.Bindings = DefaultBindings()
	}
	for i := range c.Bindings {
		if c.Bindings[i].Scale <= 0 {
			c.Bindings[i].Scale = 1.0
		}
	}
}

// DefaultBindings is the classic overlay set: fur nose on the nose tip,
// ear models on the forehead regions.
func DefaultBindings() []Binding {
	return []Binding{
		{Name: "left_ear", Anchor: "forehead_left", Model: "models/forehead_left.obj", Texture: "ear_fur", RegionPose: true, Scale: 1.0},
		{Name: "right_ear", Anchor: "forehead_right", Model: "models/forehead_right.obj", Texture: "ear_fur", RegionPose: true, Scale: 1.0},
		{Name: "nose", Anchor: "nose_tip", Model: "models/nose.obj", Texture: "nose_fur", RegionPose: true, Scale: 1.0},
	}
}
