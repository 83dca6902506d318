// Package analysis implements the incremental mood-analysis engine:
// deciding whether a day's listening should be served from cache,
// analyzed from scratch, or updated with only the newly observed plays.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/justestif/go-spotify-mood-diary/internal/db"
	"github.com/justestif/go-spotify-mood-diary/internal/gradient"
	"github.com/justestif/go-spotify-mood-diary/internal/history"
)

// Common errors.
var (
	// ErrNoListening is returned when the request has no play events at
	// all to work with.
	ErrNoListening = errors.New("no listening history")
)

// Generator produces the free-text mood analysis for a prompt. It is
// treated as a black box; the orchestrator only relies on the MOOD: and
// ANALYSIS: line convention, with fallbacks when the response ignores
// it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Store is the persistence capability the orchestrator needs. Upsert
// must be atomic per (user, date) and merge analyzed track IDs by
// union.
type Store interface {
	Get(ctx context.Context, userID, date string) (*db.DailyAnalysis, error)
	Upsert(ctx context.Context, a *db.DailyAnalysis) error
}

// Outcome classifies what a request ended up doing.
type Outcome int

const (
	// OutcomeAnalyzed means a first analysis was generated and stored.
	OutcomeAnalyzed Outcome = iota
	// OutcomeUpdated means an existing analysis was refreshed.
	OutcomeUpdated
	// OutcomeCached means the stored analysis was returned unchanged.
	OutcomeCached
	// OutcomeSuggestion means today is empty but an earlier day is
	// worth analyzing; SuggestedDate and SuggestedTrackCount are set.
	OutcomeSuggestion
	// OutcomeNothing means today is empty and every earlier day is
	// already up to date.
	OutcomeNothing
)

// Result is the outcome of one analysis request.
type Result struct {
	Outcome      Outcome
	Date         string
	Record       *db.DailyAnalysis // nil for suggestion/nothing outcomes
	NewSongCount int
	TrackCount   int // plays in the window, or analyzed tracks when cached
	Message      string

	SuggestedDate       string
	SuggestedTrackCount int
}

// Service orchestrates mood analysis for (user, date) requests. All
// collaborators are injected; the service holds no ambient state.
type Service struct {
	store Store
	gen   Generator
	cfg   Config
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithConfig overrides the default thresholds.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates an analysis service.
func New(store Store, gen Generator, opts ...Option) *Service {
	s := &Service{
		store: store,
		gen:   gen,
		cfg:   DefaultConfig(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs the state machine for one (user, date) window. events
// must already be filtered to the target date. markComplete settles the
// record, for explicitly requested past dates.
//
// With no prior record the policy is bypassed and a first analysis
// always runs. With a prior record the update policy decides between
// returning it unchanged and generating an evolution update from the
// newly observed tracks. A settled record (IsComplete) is returned
// unchanged without consulting the policy; it is never rewritten. Any
// generator or store failure aborts with no partial write.
func (s *Service) Analyze(ctx context.Context, userID, date string, events []history.PlayEvent, markComplete bool) (*Result, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoListening, date)
	}

	prior, err := s.getPrior(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if prior != nil && prior.IsComplete {
		return &Result{
			Outcome:    OutcomeCached,
			Date:       date,
			Record:     prior,
			TrackCount: prior.TrackCount(),
			Message:    fmt.Sprintf("Analysis for %s is complete", date),
		}, nil
	}

	now := s.now()
	counts := history.CountPlays(events)
	windowIDs := history.TrackIDs(events)

	var prompt string
	var newEvents []history.PlayEvent

	if prior == nil {
		prompt = buildFirstPrompt(events, counts)
	} else {
		decision := Decide(windowIDs, prior.AnalyzedTrackIDs, prior.UpdatedAt, now, s.cfg)
		if !decision.ShouldUpdate() {
			newCount := len(decision.NewTrackIDs)
			return &Result{
				Outcome:      OutcomeCached,
				Date:         date,
				Record:       prior,
				NewSongCount: newCount,
				TrackCount:   prior.TrackCount(),
				Message: fmt.Sprintf("Analysis is up to date (%s, only %d new song%s)",
					history.FormatTimeSince(prior.UpdatedAt, now), newCount, plural(newCount)),
			}, nil
		}

		newEvents = filterToIDs(events, decision.NewTrackIDs)
		prompt = buildUpdatePrompt(prior.Analysis, history.FormatTimeSince(prior.UpdatedAt, now), newEvents, counts)
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating analysis: %w", err)
	}
	mood, body := parseResponse(text)

	record := &db.DailyAnalysis{
		UserID:           userID,
		Date:             date,
		MoodSummary:      mood,
		Analysis:         body,
		SampleTracks:     history.SelectSample(events, counts, s.cfg.SampleSize, s.cfg.HeavyRotationPlays),
		GradientCSS:      gradient.Build(mood).CSS(),
		AnalyzedTrackIDs: mergeIDs(prior, windowIDs),
		IsComplete:       markComplete,
	}
	if prior != nil {
		record.ID = prior.ID
	}

	if err := s.store.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}

	if prior == nil {
		return &Result{
			Outcome:    OutcomeAnalyzed,
			Date:       date,
			Record:     record,
			TrackCount: len(events),
		}, nil
	}

	newCount := len(newEvents)
	return &Result{
		Outcome:      OutcomeUpdated,
		Date:         date,
		Record:       record,
		NewSongCount: newCount,
		TrackCount:   len(events),
		Message:      fmt.Sprintf("Analysis updated (%d new song%s since last check)", newCount, plural(newCount)),
	}, nil
}

// AnalyzeToday analyzes the current day from the full recent history.
// When nothing was played today, it either returns today's existing
// record, suggests the most recent non-empty day that still needs
// attention, or reports that there is nothing to analyze.
func (s *Service) AnalyzeToday(ctx context.Context, userID string, events []history.PlayEvent) (*Result, error) {
	if len(events) == 0 {
		return nil, ErrNoListening
	}

	now := s.now()
	today := history.LocalDateString(now)

	if todays := history.FilterToDate(events, today); len(todays) > 0 {
		return s.Analyze(ctx, userID, today, todays, false)
	}

	// Nothing played today. An existing record for today still serves.
	prior, err := s.getPrior(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		return &Result{
			Outcome:    OutcomeCached,
			Date:       today,
			Record:     prior,
			TrackCount: prior.TrackCount(),
			Message: fmt.Sprintf("Analysis is up to date (%s, no new songs detected)",
				history.FormatTimeSince(prior.UpdatedAt, now)),
		}, nil
	}

	// Events arrive most recent first, so the first one names the most
	// recent non-empty day.
	recentDate := history.LocalDateString(events[0].PlayedAt)
	recentEvents := history.FilterToDate(events, recentDate)

	recentPrior, err := s.getPrior(ctx, userID, recentDate)
	if err != nil {
		return nil, err
	}

	suggest := recentPrior == nil
	if recentPrior != nil {
		decision := Decide(history.TrackIDs(recentEvents), recentPrior.AnalyzedTrackIDs, recentPrior.UpdatedAt, now, s.cfg)
		suggest = decision.ShouldUpdate()
	}

	if suggest {
		return &Result{
			Outcome:             OutcomeSuggestion,
			Date:                today,
			Message:             "No songs played today yet",
			SuggestedDate:       recentDate,
			SuggestedTrackCount: len(recentEvents),
		}, nil
	}

	return &Result{
		Outcome: OutcomeNothing,
		Date:    today,
		Message: "No songs played today yet",
	}, nil
}

// getPrior loads the stored analysis, mapping not-found to nil.
func (s *Service) getPrior(ctx context.Context, userID, date string) (*db.DailyAnalysis, error) {
	prior, err := s.store.Get(ctx, userID, date)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading stored analysis: %w", err)
	}
	return prior, nil
}

// filterToIDs keeps the events whose track ID is in ids, preserving
// order.
func filterToIDs(events []history.PlayEvent, ids []string) []history.PlayEvent {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var filtered []history.PlayEvent
	for _, e := range events {
		if wanted[e.TrackID] {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// mergeIDs unions the prior analyzed IDs with the current window's,
// sorted for deterministic storage. The store performs the same union
// atomically; doing it here as well keeps the returned record accurate
// even before the round trip.
func mergeIDs(prior *db.DailyAnalysis, windowIDs []string) []string {
	seen := make(map[string]bool, len(windowIDs))
	var merged []string
	if prior != nil {
		for _, id := range prior.AnalyzedTrackIDs {
			if !seen[id] {
				seen[id] = true
				merged = append(merged, id)
			}
		}
	}
	for _, id := range windowIDs {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	slices.Sort(merged)
	return merged
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
