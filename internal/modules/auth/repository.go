package auth

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// Repository persists user accounts.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new user repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "users").Logger(),
	}
}

// Create inserts a new user. A duplicate email surfaces as ErrInvalidInput.
func (r *Repository) Create(u *User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, email, password_hash, first_name, last_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ByEmail returns the user with the given email, or ErrNotFound.
func (r *Repository) ByEmail(email string) (*User, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, email, password_hash, first_name, last_name, created_at
		FROM users WHERE email = ?`, email))
}

// ByID returns the user with the given ID, or ErrNotFound.
func (r *Repository) ByID(id string) (*User, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, email, password_hash, first_name, last_name, created_at
		FROM users WHERE id = ?`, id))
}

func (r *Repository) scanOne(row *sql.Row) (*User, error) {
	var u User
	var createdAt int64
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}
