package analysis

import "time"

// Config holds the thresholds driving update decisions and sample
// construction.
type Config struct {
	NewSongThreshold   int           // absolute new-song count that forces an update
	ChangeFraction     float64       // fraction of the window that must be new
	StaleAfter         time.Duration // age after which an analysis is refreshed regardless of new songs
	HeavyRotationPlays int           // plays at or above which a song is heavy rotation
	SampleSize         int           // maximum sample tracks per analysis
}

// DefaultConfig returns the recommended thresholds.
func DefaultConfig() Config {
	return Config{
		NewSongThreshold:   8,
		ChangeFraction:     0.4,
		StaleAfter:         6 * time.Hour,
		HeavyRotationPlays: 3,
		SampleSize:         5,
	}
}
