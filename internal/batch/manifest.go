package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest describes one batch run in the output directory.
type Manifest struct {
	RunID     string          `json:"run_id"`
	Created   time.Time       `json:"created"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Animation string          `json:"animation,omitempty"`
	Frames    []ManifestEntry `json:"frames"`
}

// ManifestEntry represents one rendered frame.
type ManifestEntry struct {
	Index    int         `json:"index"`
	Tick     int         `json:"tick"`
	Image    string      `json:"image,omitempty"`
	Checksum string      `json:"xxhash64"`
	Bodies   []BodyState `json:"bodies"`
}

// WriteManifest writes manifest.json for the given results.
func WriteManifest(path string, m Manifest, results []Result) error {
	m.Frames = make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		m.Frames = append(m.Frames, ManifestEntry{
			Index:    r.Frame.Index,
			Tick:     r.Frame.Tick,
			Image:    r.Image,
			Checksum: fmt.Sprintf("%016x", r.Checksum),
			Bodies:   r.Frame.Bodies,
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write manifest: %w", err)
	}
	return nil
}
