// Package history provides the listening-history domain types and the
// pure computations over a single day's play events: play counting,
// deduplication, window filtering and sample selection.
package history

import "time"

// PlayEvent is a single play of a track, as reported by the listening
// history source. Events arrive in reverse-chronological order and the
// same TrackID may appear multiple times (one event per play).
type PlayEvent struct {
	TrackID     string
	Name        string
	Artist      string // primary artist only
	AlbumArtURL string
	PlayedAt    time.Time
}

// SongKey identifies a song by name and primary artist. This is the
// dedup identity for play counting: track IDs can repeat or be missing,
// so two events with the same name and artist are the same song even
// when their IDs differ.
type SongKey struct {
	Name   string
	Artist string
}

// Song returns the dedup key for this event.
func (e PlayEvent) Song() SongKey {
	return SongKey{Name: e.Name, Artist: e.Artist}
}

// CountPlays returns the number of plays per song within the window.
// The counts always sum to len(events).
func CountPlays(events []PlayEvent) map[SongKey]int {
	counts := make(map[SongKey]int, len(events))
	for _, e := range events {
		counts[e.Song()]++
	}
	return counts
}

// Dedupe returns the distinct songs in the window, preserving input
// order. The first occurrence of each song wins, so with
// reverse-chronological input the result is ordered most recent first.
func Dedupe(events []PlayEvent) []PlayEvent {
	seen := make(map[SongKey]bool, len(events))
	var distinct []PlayEvent
	for _, e := range events {
		key := e.Song()
		if seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, e)
	}
	return distinct
}

// TrackIDs returns the distinct non-empty track IDs in the window,
// preserving first-occurrence order.
func TrackIDs(events []PlayEvent) []string {
	seen := make(map[string]bool, len(events))
	var ids []string
	for _, e := range events {
		if e.TrackID == "" || seen[e.TrackID] {
			continue
		}
		seen[e.TrackID] = true
		ids = append(ids, e.TrackID)
	}
	return ids
}
