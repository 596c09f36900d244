package watchlist

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// Repository persists watchlist items.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new watchlist repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "watchlist").Logger(),
	}
}

// List returns a user's watchlist, newest first.
func (r *Repository) List(userID string) ([]Item, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, symbol, note, priority, added_at
		FROM watchlist_items WHERE user_id = ?
		ORDER BY added_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		var addedAt int64
		if err := rows.Scan(&item.ID, &item.UserID, &item.Symbol, &item.Note, &item.Priority, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		item.AddedAt = time.Unix(addedAt, 0).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

// Upsert inserts or updates an item, keyed by user and symbol.
func (r *Repository) Upsert(item *Item) error {
	_, err := r.db.Exec(`
		INSERT INTO watchlist_items (id, user_id, symbol, note, priority, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, symbol) DO UPDATE SET
			note = excluded.note,
			priority = excluded.priority`,
		item.ID, item.UserID, item.Symbol, item.Note, string(item.Priority), item.AddedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save watchlist item: %w", err)
	}
	return nil
}

// Delete removes one item.
func (r *Repository) Delete(userID, symbol string) error {
	res, err := r.db.Exec(`DELETE FROM watchlist_items WHERE user_id = ? AND symbol = ?`, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s is not watched", domain.ErrNotFound, symbol)
	}
	return nil
}
