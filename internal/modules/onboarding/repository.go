package onboarding

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// Repository persists onboarding submissions as JSON documents.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new onboarding repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "onboarding").Logger(),
	}
}

// Save upserts a record.
func (r *Repository) Save(rec *Record) error {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("failed to encode onboarding data: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO onboarding_records (user_id, onboarding_id, data, completed_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			onboarding_id = excluded.onboarding_id,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		rec.UserID, rec.OnboardingID, string(data), rec.CompletedAt.Unix(), rec.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save onboarding record: %w", err)
	}
	return nil
}

// Get returns a user's record, or ErrNotFound.
func (r *Repository) Get(userID string) (*Record, error) {
	row := r.db.QueryRow(`
		SELECT user_id, onboarding_id, data, completed_at, updated_at
		FROM onboarding_records WHERE user_id = ?`, userID)

	var rec Record
	var data string
	var completedAt, updatedAt int64
	err := row.Scan(&rec.UserID, &rec.OnboardingID, &data, &completedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: onboarding record for user %s", domain.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding record: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
		return nil, fmt.Errorf("failed to decode onboarding data: %w", err)
	}
	rec.CompletedAt = time.Unix(completedAt, 0).UTC()
	rec.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &rec, nil
}
