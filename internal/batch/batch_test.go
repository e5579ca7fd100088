package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arface-renderer/internal/capture"
)

func TestFrameFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00000.webp", FrameFileName(0))
	assert.Equal(t, "00042.webp", FrameFileName(42))
	assert.Equal(t, "12345.webp", FrameFileName(12345))
}

func TestSummarizeSkips(t *testing.T) {
	t.Parallel()

	results := []Result{
		{Skipped: []string{"nose: invalid pose", "left_ear: invalid pose"}},
		{Skipped: []string{"nose: invalid pose"}},
		{},
		{Skipped: []string{"nose: invalid pose"}},
	}

	got := SummarizeSkips(results)
	assert.Equal(t, []string{
		"nose: invalid pose (3 frames)",
		"left_ear: invalid pose",
	}, got)

	assert.Empty(t, SummarizeSkips([]Result{{}, {}}))
}

func TestWriteManifest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.json")
	results := []Result{
		{Frame: 0, TimestampUS: 100, Success: true},
		{Frame: 1, TimestampUS: 200, Success: false, Skipped: []string{"nose: invalid pose"}},
	}
	require.NoError(t, WriteManifest(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "00000.webp", entries[0].Image)
	assert.True(t, entries[0].Success)
	assert.Empty(t, entries[0].Skipped)
	assert.Equal(t, int64(200), entries[1].TimestampUS)
	assert.Equal(t, []string{"nose: invalid pose"}, entries[1].Skipped)
}

func TestRunEmptyFrames(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	cfg := Config{
		OutputDir:   outDir,
		RenderSize:  8,
		Supersample: 1,
		Workers:     2,
		FOVDeg:      60,
	}
	frames := []capture.Frame{
		{TimestampUS: 100},
		{TimestampUS: 200},
	}

	results := Run(cfg, frames)
	require.Len(t, results, 2)
	for i, r := range results {
		assert.True(t, r.Success, "frame %d: %s", i, r.Error)
		assert.Empty(t, r.Skipped)
		_, err := os.Stat(filepath.Join(outDir, FrameFileName(i)))
		assert.NoError(t, err, "frame %d output", i)
	}
	assert.Equal(t, int64(100), results[0].TimestampUS)
}
