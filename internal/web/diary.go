package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-spotify-mood-diary/internal/analysis"
	"github.com/justestif/go-spotify-mood-diary/internal/db"
	"github.com/justestif/go-spotify-mood-diary/internal/history"
	spotifyapi "github.com/justestif/go-spotify-mood-diary/internal/spotify"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const defaultHistoryLimit = 30

// moodResponse is the JSON shape shared by the analyze endpoints.
type moodResponse struct {
	Success     bool                  `json:"success"`
	Cached      bool                  `json:"cached,omitempty"`
	Updated     bool                  `json:"updated,omitempty"`
	Message     string                `json:"message,omitempty"`
	Date        string                `json:"date,omitempty"`
	MoodSummary string                `json:"mood_summary,omitempty"`
	Analysis    string                `json:"ai_analysis,omitempty"`
	Samples     []history.SampleTrack `json:"sample_tracks,omitempty"`
	Gradient    string                `json:"mood_gradient,omitempty"`
	TrackCount  int                   `json:"track_count,omitempty"`
	LastUpdated *time.Time            `json:"last_updated,omitempty"`

	SuggestRecentDay bool   `json:"suggest_recent_day,omitempty"`
	RecentDate       string `json:"recent_date,omitempty"`
	RecentCount      int    `json:"recent_count,omitempty"`
	Error            string `json:"error,omitempty"`
}

// historyEntry is one record in the mood-history response.
type historyEntry struct {
	Date        string                `json:"date"`
	MoodSummary string                `json:"mood_summary"`
	Analysis    string                `json:"ai_analysis"`
	Samples     []history.SampleTrack `json:"sample_tracks"`
	Gradient    string                `json:"mood_gradient"`
	TrackCount  int                   `json:"track_count"`
	IsComplete  bool                  `json:"is_complete"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// AnalyzeMood analyzes today's listening (POST /api/analyze-mood).
func (h *Handlers) AnalyzeMood(w http.ResponseWriter, r *http.Request) {
	session, client := h.authedClient(w, r)
	if session == nil {
		return
	}

	events, err := client.RecentlyPlayed(r.Context(), spotifyapi.FetchLimit)
	if err != nil {
		log.Printf("Fetching listening history: %v", err)
		respondError(w, http.StatusBadGateway, "Failed to fetch listening history")
		return
	}
	h.persistToken(r, session, client)

	result, err := h.analyzer.AnalyzeToday(r.Context(), session.UserID, events)
	if err != nil {
		if errors.Is(err, analysis.ErrNoListening) {
			respondError(w, http.StatusBadRequest, "No recent listening history found")
			return
		}
		log.Printf("Analyzing today's mood: %v", err)
		respondError(w, http.StatusInternalServerError, "Mood analysis failed")
		return
	}

	h.respondResult(w, result)
}

// AnalyzeMoodDate analyzes a specific date's listening
// (POST /api/analyze-mood-date).
func (h *Handlers) AnalyzeMoodDate(w http.ResponseWriter, r *http.Request) {
	session, client := h.authedClient(w, r)
	if session == nil {
		return
	}

	var body struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !datePattern.MatchString(body.Date) {
		respondError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}
	today := history.LocalDateString(timeNow())
	if body.Date > today {
		respondError(w, http.StatusBadRequest, "Cannot analyze future dates")
		return
	}

	events, err := client.RecentlyPlayed(r.Context(), spotifyapi.FetchLimit)
	if err != nil {
		log.Printf("Fetching listening history: %v", err)
		respondError(w, http.StatusBadGateway, "Failed to fetch listening history")
		return
	}

	h.persistToken(r, session, client)

	dateEvents := history.FilterToDate(events, body.Date)
	if len(dateEvents) == 0 {
		respondError(w, http.StatusBadRequest, "No songs found for "+body.Date)
		return
	}

	// Past dates are settled once analyzed; today stays open.
	markComplete := body.Date < today

	result, err := h.analyzer.Analyze(r.Context(), session.UserID, body.Date, dateEvents, markComplete)
	if err != nil {
		log.Printf("Analyzing mood for %s: %v", body.Date, err)
		respondError(w, http.StatusInternalServerError, "Mood analysis failed")
		return
	}

	// A cached hit skips the write path, so an explicitly requested past
	// date may still be marked open.
	if markComplete && result.Outcome == analysis.OutcomeCached && !result.Record.IsComplete && h.database != nil {
		if err := h.database.Analyses().MarkComplete(r.Context(), session.UserID, body.Date); err != nil {
			log.Printf("Marking %s complete: %v", body.Date, err)
		} else {
			result.Record.IsComplete = true
		}
	}

	h.respondResult(w, result)
}

// MoodHistory returns the user's stored analyses, newest first
// (GET /api/mood-history).
func (h *Handlers) MoodHistory(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}
	if h.database == nil {
		respondError(w, http.StatusServiceUnavailable, "Mood history is not available")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	analyses, err := h.database.Analyses().ListForUser(r.Context(), session.UserID, limit)
	if err != nil {
		log.Printf("Fetching mood history: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch mood history")
		return
	}

	entries := make([]historyEntry, 0, len(analyses))
	for _, a := range analyses {
		entries = append(entries, historyEntry{
			Date:        a.Date,
			MoodSummary: a.MoodSummary,
			Analysis:    a.Analysis,
			Samples:     a.SampleTracks,
			Gradient:    a.GradientCSS,
			TrackCount:  a.TrackCount(),
			IsComplete:  a.IsComplete,
			CreatedAt:   a.CreatedAt,
			UpdatedAt:   a.UpdatedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{"analyses": entries})
}

// MoodToday returns today's stored analysis if one exists
// (GET /api/mood-today).
func (h *Handlers) MoodToday(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}
	if h.database == nil {
		respondError(w, http.StatusServiceUnavailable, "Mood data is not available")
		return
	}

	today := history.LocalDateString(timeNow())
	a, err := h.database.Analyses().Get(r.Context(), session.UserID, today)
	if errors.Is(err, db.ErrNotFound) {
		respondJSON(w, http.StatusOK, map[string]any{"exists": false})
		return
	}
	if err != nil {
		log.Printf("Fetching today's mood: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch today's mood")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Exists bool `json:"exists"`
		historyEntry
	}{
		Exists: true,
		historyEntry: historyEntry{
			Date:        a.Date,
			MoodSummary: a.MoodSummary,
			Analysis:    a.Analysis,
			Samples:     a.SampleTracks,
			Gradient:    a.GradientCSS,
			TrackCount:  a.TrackCount(),
			IsComplete:  a.IsComplete,
			CreatedAt:   a.CreatedAt,
			UpdatedAt:   a.UpdatedAt,
		},
	})
}

// respondResult translates an analysis result into the endpoint's JSON.
func (h *Handlers) respondResult(w http.ResponseWriter, result *analysis.Result) {
	switch result.Outcome {
	case analysis.OutcomeSuggestion:
		respondJSON(w, http.StatusOK, moodResponse{
			Success:          false,
			SuggestRecentDay: true,
			RecentDate:       result.SuggestedDate,
			RecentCount:      result.SuggestedTrackCount,
			Error:            "No songs played today yet",
		})
	case analysis.OutcomeNothing:
		respondError(w, http.StatusBadRequest, "No songs played today yet")
	default:
		resp := moodResponse{
			Success:     true,
			Cached:      result.Outcome == analysis.OutcomeCached,
			Updated:     result.Outcome == analysis.OutcomeUpdated,
			Message:     result.Message,
			Date:        result.Date,
			MoodSummary: result.Record.MoodSummary,
			Analysis:    result.Record.Analysis,
			Samples:     result.Record.SampleTracks,
			Gradient:    result.Record.GradientCSS,
			TrackCount:  result.TrackCount,
		}
		if resp.Cached {
			updated := result.Record.UpdatedAt
			resp.LastUpdated = &updated
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// requireSession resolves the request's session or writes a 401.
func (h *Handlers) requireSession(w http.ResponseWriter, r *http.Request) *Session {
	session := h.sessionFromRequest(r)
	if session == nil {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return nil
	}
	return session
}

// authedClient resolves the session and builds a Spotify client from
// its token. The oauth2 transport refreshes the token transparently;
// persistToken writes the refreshed token back after a successful call.
func (h *Handlers) authedClient(w http.ResponseWriter, r *http.Request) (*Session, *spotifyapi.Client) {
	session := h.requireSession(w, r)
	if session == nil {
		return nil, nil
	}
	client := spotifyapi.New(spotify.New(h.auth.Client(r.Context(), session.Token)))
	return session, client
}

// persistToken saves the client's token back to the session when the
// transport refreshed it during the request.
func (h *Handlers) persistToken(r *http.Request, session *Session, client *spotifyapi.Client) {
	token, err := client.Token()
	if err != nil || token.AccessToken == session.Token.AccessToken {
		return
	}
	if token.RefreshToken == "" {
		token.RefreshToken = session.Token.RefreshToken
	}
	h.sessions.UpdateToken(r.Context(), session.ID, token)
}

// moodDataFromAnalysis converts a stored analysis for template use.
func moodDataFromAnalysis(a *db.DailyAnalysis) *MoodData {
	return &MoodData{
		Date:        a.Date,
		MoodSummary: a.MoodSummary,
		Analysis:    a.Analysis,
		Samples:     a.SampleTracks,
		Gradient:    a.GradientCSS,
		TrackCount:  a.TrackCount(),
		UpdatedAt:   a.UpdatedAt,
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
