package portfolio

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// Repository persists holdings keyed by (user, symbol).
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new holdings repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "holdings").Logger(),
	}
}

// List returns all of a user's holdings ordered by symbol.
func (r *Repository) List(userID string) ([]Holding, error) {
	rows, err := r.db.Query(`
		SELECT user_id, symbol, shares, avg_cost, updated_at
		FROM holdings WHERE user_id = ?
		ORDER BY symbol ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []Holding
	for rows.Next() {
		var h Holding
		var updatedAt int64
		if err := rows.Scan(&h.UserID, &h.Symbol, &h.Shares, &h.AvgCost, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		h.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// Get returns one holding, or ErrNotFound.
func (r *Repository) Get(userID, symbol string) (*Holding, error) {
	row := r.db.QueryRow(`
		SELECT user_id, symbol, shares, avg_cost, updated_at
		FROM holdings WHERE user_id = ? AND symbol = ?`, userID, symbol)

	var h Holding
	var updatedAt int64
	err := row.Scan(&h.UserID, &h.Symbol, &h.Shares, &h.AvgCost, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no holding in %s", domain.ErrNotFound, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load holding: %w", err)
	}
	h.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &h, nil
}

// Save upserts a holding.
func (r *Repository) Save(h *Holding) error {
	_, err := r.db.Exec(`
		INSERT INTO holdings (user_id, symbol, shares, avg_cost, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, symbol) DO UPDATE SET
			shares = excluded.shares,
			avg_cost = excluded.avg_cost,
			updated_at = excluded.updated_at`,
		h.UserID, h.Symbol, h.Shares, h.AvgCost, h.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save holding: %w", err)
	}
	return nil
}

// Delete removes a holding entirely.
func (r *Repository) Delete(userID, symbol string) error {
	res, err := r.db.Exec(`DELETE FROM holdings WHERE user_id = ? AND symbol = ?`, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: no holding in %s", domain.ErrNotFound, symbol)
	}
	return nil
}
