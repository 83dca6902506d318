package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-spotify-mood-diary/internal/history"
)

// User represents a Spotify user profile.
type User struct {
	ID          string // Spotify user ID
	DisplayName string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session represents an authenticated web session.
type Session struct {
	ID           string
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// DailyAnalysis is the stored mood analysis for one (user, calendar
// date) pair. AnalyzedTrackIDs is the cumulative set of track IDs
// already folded into the analysis; upserts only ever grow it.
// IsComplete marks an explicitly requested past date as settled.
type DailyAnalysis struct {
	ID               uuid.UUID
	UserID           string
	Date             string // YYYY-MM-DD
	MoodSummary      string
	Analysis         string
	SampleTracks     []history.SampleTrack
	GradientCSS      string
	AnalyzedTrackIDs []string
	IsComplete       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TrackCount is the number of distinct tracks folded into the analysis.
func (a *DailyAnalysis) TrackCount() int {
	return len(a.AnalyzedTrackIDs)
}

// OnboardingRequest is a pending access request from the landing page.
type OnboardingRequest struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Status    string // "pending", "approved" or "rejected"
	CreatedAt time.Time
}
