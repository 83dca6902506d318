package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-spotify-mood-diary/internal/history"
)

// FetchLimit is the most recently played tracks Spotify returns in one
// request; the API does not page further back.
const FetchLimit = 50

// RecentlyPlayed retrieves the user's recently played tracks, most
// recent first. limit is clamped to FetchLimit; zero or negative means
// the maximum.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]history.PlayEvent, error) {
	if limit <= 0 || limit > FetchLimit {
		limit = FetchLimit
	}

	items, err := c.api.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{Limit: spotify.Numeric(limit)})
	if err != nil {
		return nil, fmt.Errorf("fetching recently played: %w", err)
	}

	events := make([]history.PlayEvent, 0, len(items))
	for _, item := range items {
		events = append(events, convertPlayItem(item))
	}
	return events, nil
}

// convertPlayItem converts a Spotify play item to a history.PlayEvent.
// Only the primary artist is kept; it is part of the song identity used
// for deduplication.
func convertPlayItem(item spotify.RecentlyPlayedItem) history.PlayEvent {
	var artist string
	if len(item.Track.Artists) > 0 {
		artist = item.Track.Artists[0].Name
	}

	var albumArt string
	if len(item.Track.Album.Images) > 0 {
		albumArt = item.Track.Album.Images[0].URL
	}

	return history.PlayEvent{
		TrackID:     item.Track.ID.String(),
		Name:        item.Track.Name,
		Artist:      artist,
		AlbumArtURL: albumArt,
		PlayedAt:    item.PlayedAt,
	}
}
