package agent

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/swiprhq/swipr/internal/domain"
)

// BehaviorRepository persists behavior records in the behavior_records
// table. The record body (history plus score accumulators) is stored as one
// msgpack blob; last_activity is kept in its own column for the staleness
// sweep.
type BehaviorRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewBehaviorRepository creates a new behavior repository.
func NewBehaviorRepository(db *sql.DB, log zerolog.Logger) *BehaviorRepository {
	return &BehaviorRepository{
		db:  db,
		log: log.With().Str("repo", "behavior").Logger(),
	}
}

// Save upserts one record.
func (r *BehaviorRepository) Save(rec *BehaviorRecord) error {
	blob, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode behavior record: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO behavior_records (user_id, data, last_activity, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			data = excluded.data,
			last_activity = excluded.last_activity,
			updated_at = excluded.updated_at`,
		rec.UserID, blob, rec.LastActivity.Unix(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save behavior record: %w", err)
	}
	return nil
}

// LoadAll reads every persisted record.
func (r *BehaviorRepository) LoadAll() ([]*BehaviorRecord, error) {
	rows, err := r.db.Query("SELECT user_id, data FROM behavior_records")
	if err != nil {
		return nil, fmt.Errorf("failed to query behavior records: %w", err)
	}
	defer rows.Close()

	var records []*BehaviorRecord
	for rows.Next() {
		var userID string
		var blob []byte
		if err := rows.Scan(&userID, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan behavior record: %w", err)
		}

		var rec BehaviorRecord
		if err := msgpack.Unmarshal(blob, &rec); err != nil {
			// A corrupt blob should not take the whole service down.
			r.log.Error().Err(err).Str("user_id", userID).Msg("Skipping undecodable behavior record")
			continue
		}
		if rec.SectorScores == nil {
			rec.SectorScores = make(map[string]float64)
		}
		if rec.RiskScores == nil {
			rec.RiskScores = make(map[domain.RiskLevel]float64)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating behavior records: %w", err)
	}
	return records, nil
}
