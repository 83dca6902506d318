package web

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/justestif/go-spotify-mood-diary/internal/analysis"
	"github.com/justestif/go-spotify-mood-diary/internal/db"
	"github.com/justestif/go-spotify-mood-diary/internal/history"
	spotifyapi "github.com/justestif/go-spotify-mood-diary/internal/spotify"
)

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	auth      *spotifyauth.Authenticator
	sessions  SessionManager
	templates *Templates
	database  *db.DB
	analyzer  *analysis.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(auth *spotifyauth.Authenticator, sessions SessionManager, templates *Templates, database *db.DB, analyzer *analysis.Service) *Handlers {
	return &Handlers{
		auth:      auth,
		sessions:  sessions,
		templates: templates,
		database:  database,
		analyzer:  analyzer,
	}
}

// sessionFromRequest resolves the session named by the request cookie,
// or nil when there is none.
func (h *Handlers) sessionFromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return h.sessions.Get(r.Context(), cookie.Value)
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFromRequest(r)

	data := HomePageData{
		PageData: PageData{
			Title:       "Spotify Mood Diary",
			CurrentPath: r.URL.Path,
		},
		Authenticated: session != nil,
	}

	if session != nil {
		data.User = &UserData{
			ID:   session.UserID,
			Name: session.UserName,
		}
		data.TodayMood = h.todayMood(r, session.UserID)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "home", data); err != nil {
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}

// todayMood loads today's stored analysis for the home page, if any.
func (h *Handlers) todayMood(r *http.Request, userID string) *MoodData {
	if h.database == nil {
		return nil
	}

	today := history.LocalDateString(timeNow())
	a, err := h.database.Analyses().Get(r.Context(), userID, today)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.Printf("Loading today's mood: %v", err)
		}
		return nil
	}
	return moodDataFromAnalysis(a)
}

// Login initiates the Spotify OAuth flow (GET /auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	// Generate state for CSRF protection
	state, err := generateOAuthState()
	if err != nil {
		http.Error(w, "Failed to generate state", http.StatusInternalServerError)
		return
	}

	// Store state in cookie for validation on callback
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300, // 5 minutes
	})

	// Redirect to Spotify auth
	url := h.auth.AuthURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Callback handles the OAuth callback from Spotify (GET /callback).
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	// Verify state
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil {
		http.Error(w, "Missing state cookie", http.StatusBadRequest)
		return
	}

	state := r.URL.Query().Get("state")
	if state != stateCookie.Value {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	// Check for error from Spotify
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, fmt.Sprintf("Spotify auth error: %s", errMsg), http.StatusBadRequest)
		return
	}

	// Exchange code for token
	token, err := h.auth.Token(r.Context(), state, r)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		return
	}

	// Get user info from Spotify
	client := spotifyapi.New(spotify.New(h.auth.Client(r.Context(), token)))
	profile, err := client.CurrentUser(r.Context())
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}

	// Keep the stored profile in step with Spotify's
	if h.database != nil {
		user := &db.User{
			ID:          profile.ID,
			DisplayName: profile.DisplayName,
			Email:       profile.Email,
		}
		if err := h.database.Users().Upsert(r.Context(), user); err != nil {
			http.Error(w, "Failed to save user", http.StatusInternalServerError)
			return
		}
	}

	// Create session
	session, err := h.sessions.Create(r.Context(), token, profile.ID, profile.DisplayName)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	// Set session cookie
	setSessionCookie(w, session.ID)

	// Redirect to home
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// Logout clears the session and redirects to home (POST /auth/logout).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFromRequest(r)
	if session != nil {
		h.sessions.Delete(r.Context(), session.ID)
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// Onboarding records an access request from the landing page
// (POST /api/onboarding).
func (h *Handlers) Onboarding(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Name == "" || body.Email == "" || !strings.Contains(body.Email, "@") {
		respondError(w, http.StatusBadRequest, "Name and a valid email are required")
		return
	}

	if h.database == nil {
		respondError(w, http.StatusServiceUnavailable, "Onboarding is not available")
		return
	}

	req := &db.OnboardingRequest{Name: body.Name, Email: body.Email}
	if err := h.database.Onboarding().Create(r.Context(), req); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			respondError(w, http.StatusConflict, "A request for this email already exists")
			return
		}
		log.Printf("Creating onboarding request: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to save request")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"success": true})
}

// generateOAuthState creates a random state string for OAuth.
func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
