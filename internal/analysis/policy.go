package analysis

import "time"

// Decision captures what changed between the stored analysis and the
// current window. It is derived fresh on every request and never
// persisted.
type Decision struct {
	NewTrackIDs []string // window track IDs absent from the stored analysis
	TotalTracks int      // distinct track IDs in the current window
	HoursSince  float64  // hours since the stored analysis was last updated

	cfg Config
}

// Decide compares the current window against the IDs already folded
// into the stored analysis.
func Decide(windowIDs, analyzedIDs []string, lastUpdated, now time.Time, cfg Config) Decision {
	analyzed := make(map[string]bool, len(analyzedIDs))
	for _, id := range analyzedIDs {
		analyzed[id] = true
	}

	var newIDs []string
	for _, id := range windowIDs {
		if !analyzed[id] {
			newIDs = append(newIDs, id)
		}
	}

	return Decision{
		NewTrackIDs: newIDs,
		TotalTracks: len(windowIDs),
		HoursSince:  now.Sub(lastUpdated).Hours(),
		cfg:         cfg,
	}
}

// ChangeFraction is the share of the window not yet analyzed.
func (d Decision) ChangeFraction() float64 {
	if d.TotalTracks == 0 {
		return 0
	}
	return float64(len(d.NewTrackIDs)) / float64(d.TotalTracks)
}

// ShouldUpdate reports whether the stored analysis must be refreshed.
// Three independent triggers, any of which suffices:
//
//   - absolute: at least NewSongThreshold new songs (inclusive)
//   - proportional: new songs make up ChangeFraction of the window,
//     and at least one song is actually new
//   - staleness: the analysis is older than StaleAfter; this is the
//     only trigger that fires with zero new songs
func (d Decision) ShouldUpdate() bool {
	newCount := len(d.NewTrackIDs)

	if newCount >= d.cfg.NewSongThreshold {
		return true
	}
	if newCount > 0 && d.ChangeFraction() >= d.cfg.ChangeFraction {
		return true
	}
	return d.HoursSince >= d.cfg.StaleAfter.Hours()
}
