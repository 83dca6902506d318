package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-spotify-mood-diary/internal/history"
)

// AnalysisRepository handles daily mood analysis database operations.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

// Upsert creates or replaces the analysis for (user, date) in a single
// atomic statement. On conflict the analyzed_track_ids column becomes
// the union of the stored set and the incoming set, computed inside the
// statement, so two concurrent requests for the same day cannot lose
// each other's track IDs. The merged set and timestamps are scanned
// back into a.
func (r *AnalysisRepository) Upsert(ctx context.Context, a *DailyAnalysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	sampleJSON, err := json.Marshal(a.SampleTracks)
	if err != nil {
		return fmt.Errorf("encoding sample tracks: %w", err)
	}

	query := `
		INSERT INTO daily_mood_analyses
			(id, user_id, date, mood_summary, ai_analysis, sample_tracks, mood_gradient, analyzed_track_ids, is_complete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (user_id, date) DO UPDATE SET
			mood_summary = EXCLUDED.mood_summary,
			ai_analysis = EXCLUDED.ai_analysis,
			sample_tracks = EXCLUDED.sample_tracks,
			mood_gradient = EXCLUDED.mood_gradient,
			analyzed_track_ids = ARRAY(
				SELECT DISTINCT unnest(daily_mood_analyses.analyzed_track_ids || EXCLUDED.analyzed_track_ids)
				ORDER BY 1
			),
			is_complete = EXCLUDED.is_complete,
			updated_at = NOW()
		RETURNING id, analyzed_track_ids, created_at, updated_at
	`
	err = r.pool.QueryRow(ctx, query,
		a.ID,
		a.UserID,
		a.Date,
		a.MoodSummary,
		a.Analysis,
		sampleJSON,
		a.GradientCSS,
		a.AnalyzedTrackIDs,
		a.IsComplete,
	).Scan(&a.ID, &a.AnalyzedTrackIDs, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting analysis: %w", err)
	}
	return nil
}

const analysisColumns = `
	id, user_id, date::text, mood_summary, ai_analysis, sample_tracks, mood_gradient, analyzed_track_ids, is_complete, created_at, updated_at
`

// Get retrieves the analysis for a user and date (YYYY-MM-DD).
func (r *AnalysisRepository) Get(ctx context.Context, userID, date string) (*DailyAnalysis, error) {
	query := `
		SELECT ` + analysisColumns + `
		FROM daily_mood_analyses
		WHERE user_id = $1 AND date = $2
	`
	a, err := scanAnalysis(r.pool.QueryRow(ctx, query, userID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying analysis: %w", err)
	}
	return a, nil
}

// ListForUser retrieves a user's analyses ordered by date descending.
// A limit of 0 or less returns all records.
func (r *AnalysisRepository) ListForUser(ctx context.Context, userID string, limit int) ([]DailyAnalysis, error) {
	query := `
		SELECT ` + analysisColumns + `
		FROM daily_mood_analyses
		WHERE user_id = $1
		ORDER BY date DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying user analyses: %w", err)
	}
	defer rows.Close()

	var analyses []DailyAnalysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		analyses = append(analyses, *a)
	}
	return analyses, rows.Err()
}

// MarkComplete settles an analysis for a historical date.
func (r *AnalysisRepository) MarkComplete(ctx context.Context, userID, date string) error {
	query := `
		UPDATE daily_mood_analyses
		SET is_complete = TRUE, updated_at = NOW()
		WHERE user_id = $1 AND date = $2
	`
	result, err := r.pool.Exec(ctx, query, userID, date)
	if err != nil {
		return fmt.Errorf("marking analysis complete: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanAnalysis reads one row into a DailyAnalysis.
func scanAnalysis(row pgx.Row) (*DailyAnalysis, error) {
	var a DailyAnalysis
	var sampleJSON []byte

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Date,
		&a.MoodSummary,
		&a.Analysis,
		&sampleJSON,
		&a.GradientCSS,
		&a.AnalyzedTrackIDs,
		&a.IsComplete,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(sampleJSON) > 0 {
		if err := json.Unmarshal(sampleJSON, &a.SampleTracks); err != nil {
			return nil, fmt.Errorf("decoding sample tracks: %w", err)
		}
	}
	if a.SampleTracks == nil {
		a.SampleTracks = []history.SampleTrack{}
	}
	return &a, nil
}
