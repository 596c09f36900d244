// Package database provides database connection and initialization functionality.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the SQLite connection used by all repositories.
type DB struct {
	conn *sql.DB
	path string
}

// Config holds database configuration
type Config struct {
	Path string
}

// New opens the application database, applying WAL mode and a busy timeout
// so concurrent request handlers do not trip over each other.
func New(cfg Config) (*DB, error) {
	path := cfg.Path
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path = absPath
	}

	conn, err := sql.Open("sqlite", buildConnectionString(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; keeping one open connection avoids
	// SQLITE_BUSY churn under concurrent handlers.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// buildConnectionString appends the PRAGMAs we need to the DSN.
func buildConnectionString(path string) string {
	if path == ":memory:" {
		return path
	}
	if strings.HasPrefix(path, "file:") {
		return path
	}
	params := url.Values{}
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + path + "?" + params.Encode()
}

// Conn exposes the raw *sql.DB for repositories.
func (d *DB) Conn() *sql.DB {
	return d.conn
}

// Path returns the resolved database file path.
func (d *DB) Path() string {
	return d.path
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// InitSchema creates all tables used by the application. Idempotent.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agent_profiles (
		user_id TEXT PRIMARY KEY,
		id TEXT NOT NULL,
		risk_tolerance TEXT NOT NULL,
		time_horizon TEXT NOT NULL,
		investment_goals TEXT NOT NULL DEFAULT '[]',
		preferred_sectors TEXT NOT NULL DEFAULT '[]',
		excluded_sectors TEXT NOT NULL DEFAULT '[]',
		max_sector_concentration REAL NOT NULL DEFAULT 30.0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS behavior_records (
		user_id TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		last_activity INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS queue_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		confidence TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		added_at INTEGER NOT NULL,
		UNIQUE(user_id, symbol)
	);
	CREATE INDEX IF NOT EXISTS idx_queue_items_user ON queue_items(user_id, position);

	CREATE TABLE IF NOT EXISTS watchlist_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'medium',
		added_at INTEGER NOT NULL,
		UNIQUE(user_id, symbol)
	);

	CREATE TABLE IF NOT EXISTS holdings (
		user_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		shares REAL NOT NULL,
		avg_cost REAL NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, symbol)
	);

	CREATE TABLE IF NOT EXISTS onboarding_records (
		user_id TEXT PRIMARY KEY,
		onboarding_id TEXT NOT NULL,
		data TEXT NOT NULL,
		completed_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
