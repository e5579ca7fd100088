package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry records one rendered frame in the output manifest.
type ManifestEntry struct {
	Frame       int      `json:"frame"`
	TimestampUS int64    `json:"timestamp_us"`
	Image       string   `json:"image"`
	Success     bool     `json:"success"`
	Skipped     []string `json:"skipped,omitempty"`
}

// WriteManifest writes manifest.json next to the rendered frames.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Frame:       r.Frame,
			TimestampUS: r.TimestampUS,
			Image:       FrameFileName(r.Frame),
			Success:     r.Success,
			Skipped:     r.Skipped,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write manifest %s: %w", path, err)
	}
	return nil
}
