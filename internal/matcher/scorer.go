package matcher

import (
	"path/filepath"

	"github.com/ziprune/ziprune/internal/filesystem"
)

// RecordingThreshold is the fixed bar a candidate must strictly exceed to be
// persisted. It is independent from the caller's reporting threshold.
const RecordingThreshold = 0.7

// ShouldRecord reports whether confidence clears RecordingThreshold.
func ShouldRecord(confidence float64) bool {
	return confidence > RecordingThreshold
}

// Score returns the fraction of entries that exist under dir. Entry names use
// forward slashes as stored in the archive. No entries scores 0.
func Score(entries []string, dir string) float64 {
	if len(entries) == 0 {
		return 0
	}
	present := 0
	for _, entry := range entries {
		if filesystem.FileExists(filepath.Join(dir, filepath.FromSlash(entry))) {
			present++
		}
	}
	return float64(present) / float64(len(entries))
}
