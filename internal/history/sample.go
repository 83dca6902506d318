package history

import "slices"

// SampleTrack is one entry of the bounded track sample that accompanies
// a mood analysis.
type SampleTrack struct {
	Name        string `json:"track_name"`
	Artist      string `json:"artist"`
	PlayCount   int    `json:"play_count"`
	AlbumArtURL string `json:"album_art_url,omitempty"`
}

// SelectSample picks at most maxSize representative tracks from the
// window. Songs played at least heavyPlays times ("heavy rotation")
// come first, sorted by play count descending with ties kept in recency
// order; remaining slots are filled with the most recent distinct
// tracks not already selected. Track name is the identity used to
// prevent resampling, matching the dedup identity of CountPlays.
func SelectSample(events []PlayEvent, counts map[SongKey]int, maxSize, heavyPlays int) []SampleTrack {
	if maxSize <= 0 {
		return nil
	}

	distinct := Dedupe(events)

	var heavy []PlayEvent
	for _, e := range distinct {
		if counts[e.Song()] >= heavyPlays {
			heavy = append(heavy, e)
		}
	}
	slices.SortStableFunc(heavy, func(a, b PlayEvent) int {
		return counts[b.Song()] - counts[a.Song()]
	})
	if len(heavy) > maxSize {
		heavy = heavy[:maxSize]
	}

	sample := make([]SampleTrack, 0, maxSize)
	taken := make(map[string]bool, maxSize)
	for _, e := range heavy {
		sample = append(sample, toSampleTrack(e, counts))
		taken[e.Name] = true
	}

	for _, e := range distinct {
		if len(sample) >= maxSize {
			break
		}
		if taken[e.Name] {
			continue
		}
		sample = append(sample, toSampleTrack(e, counts))
		taken[e.Name] = true
	}

	return sample
}

func toSampleTrack(e PlayEvent, counts map[SongKey]int) SampleTrack {
	count := counts[e.Song()]
	if count == 0 {
		count = 1
	}
	return SampleTrack{
		Name:        e.Name,
		Artist:      e.Artist,
		PlayCount:   count,
		AlbumArtURL: e.AlbumArtURL,
	}
}
