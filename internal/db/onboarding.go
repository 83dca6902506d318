package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateEmail is returned when an onboarding request already
// exists for the email address.
var ErrDuplicateEmail = errors.New("onboarding request already exists for email")

// OnboardingRepository handles onboarding request database operations.
type OnboardingRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new pending onboarding request.
func (r *OnboardingRepository) Create(ctx context.Context, req *OnboardingRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = "pending"
	}

	query := `
		INSERT INTO onboarding_requests (id, name, email, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		req.ID,
		req.Name,
		req.Email,
		req.Status,
	).Scan(&req.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting onboarding request: %w", err)
	}
	return nil
}
