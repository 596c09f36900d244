package queue

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// Repository persists queue items. Positions are dense per user; List
// returns items ordered by position then insertion time.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new queue repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "queue").Logger(),
	}
}

// List returns all of a user's queue items in order.
func (r *Repository) List(userID string) ([]Item, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, symbol, confidence, position, added_at
		FROM queue_items WHERE user_id = ?
		ORDER BY position ASC, added_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		var addedAt int64
		if err := rows.Scan(&item.ID, &item.UserID, &item.Symbol, &item.Confidence, &item.Position, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan queue item: %w", err)
		}
		item.AddedAt = time.Unix(addedAt, 0).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

// Get returns one item by user and symbol, or ErrNotFound.
func (r *Repository) Get(userID, symbol string) (*Item, error) {
	row := r.db.QueryRow(`
		SELECT id, user_id, symbol, confidence, position, added_at
		FROM queue_items WHERE user_id = ? AND symbol = ?`, userID, symbol)

	var item Item
	var addedAt int64
	err := row.Scan(&item.ID, &item.UserID, &item.Symbol, &item.Confidence, &item.Position, &addedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s is not queued", domain.ErrNotFound, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load queue item: %w", err)
	}
	item.AddedAt = time.Unix(addedAt, 0).UTC()
	return &item, nil
}

// Insert adds a new item at the end of the user's queue.
func (r *Repository) Insert(item *Item) error {
	_, err := r.db.Exec(`
		INSERT INTO queue_items (id, user_id, symbol, confidence, position, added_at)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM queue_items WHERE user_id = ?), ?)`,
		item.ID, item.UserID, item.Symbol, string(item.Confidence), item.UserID, item.AddedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert queue item: %w", err)
	}
	return nil
}

// UpdateConfidence changes the confidence of an existing item.
func (r *Repository) UpdateConfidence(userID, symbol string, confidence domain.Confidence) error {
	res, err := r.db.Exec(`
		UPDATE queue_items SET confidence = ? WHERE user_id = ? AND symbol = ?`,
		string(confidence), userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to update queue item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s is not queued", domain.ErrNotFound, symbol)
	}
	return nil
}

// Delete removes one item.
func (r *Repository) Delete(userID, symbol string) error {
	res, err := r.db.Exec(`DELETE FROM queue_items WHERE user_id = ? AND symbol = ?`, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete queue item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s is not queued", domain.ErrNotFound, symbol)
	}
	return nil
}

// Clear removes all of a user's items.
func (r *Repository) Clear(userID string) error {
	if _, err := r.db.Exec(`DELETE FROM queue_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}

// Reorder rewrites positions to match the given symbol order. Symbols not
// present are ignored; items not mentioned keep their relative order after
// the mentioned ones.
func (r *Repository) Reorder(userID string, symbols []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin reorder: %w", err)
	}
	defer tx.Rollback()

	for i, symbol := range symbols {
		if _, err := tx.Exec(`
			UPDATE queue_items SET position = ? WHERE user_id = ? AND symbol = ?`,
			i, userID, symbol); err != nil {
			return fmt.Errorf("failed to reposition %s: %w", symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	return nil
}
