package agent

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// ProfileRepository persists advisory profiles in the agent_profiles table.
// List fields are stored as JSON arrays.
type ProfileRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *sql.DB, log zerolog.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:  db,
		log: log.With().Str("repo", "profile").Logger(),
	}
}

// Save upserts a profile.
func (r *ProfileRepository) Save(p *Profile) error {
	goals, err := json.Marshal(p.InvestmentGoals)
	if err != nil {
		return fmt.Errorf("failed to encode investment goals: %w", err)
	}
	preferred, err := json.Marshal(p.PreferredSectors)
	if err != nil {
		return fmt.Errorf("failed to encode preferred sectors: %w", err)
	}
	excluded, err := json.Marshal(p.ExcludedSectors)
	if err != nil {
		return fmt.Errorf("failed to encode excluded sectors: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO agent_profiles (
			user_id, id, risk_tolerance, time_horizon, investment_goals,
			preferred_sectors, excluded_sectors, max_sector_concentration,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			risk_tolerance = excluded.risk_tolerance,
			time_horizon = excluded.time_horizon,
			investment_goals = excluded.investment_goals,
			preferred_sectors = excluded.preferred_sectors,
			excluded_sectors = excluded.excluded_sectors,
			max_sector_concentration = excluded.max_sector_concentration,
			updated_at = excluded.updated_at`,
		p.UserID, p.ID, string(p.RiskTolerance), string(p.TimeHorizon),
		string(goals), string(preferred), string(excluded), p.MaxSectorConcentration,
		p.CreatedAt.Unix(), p.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Get returns the profile for a user, or ErrNotFound.
func (r *ProfileRepository) Get(userID string) (*Profile, error) {
	row := r.db.QueryRow(`
		SELECT user_id, id, risk_tolerance, time_horizon, investment_goals,
		       preferred_sectors, excluded_sectors, max_sector_concentration,
		       created_at, updated_at
		FROM agent_profiles WHERE user_id = ?`, userID)

	var p Profile
	var tolerance, horizon, goals, preferred, excluded string
	var createdAt, updatedAt int64
	err := row.Scan(&p.UserID, &p.ID, &tolerance, &horizon, &goals,
		&preferred, &excluded, &p.MaxSectorConcentration, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: profile for user %s", domain.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	p.RiskTolerance = domain.RiskTolerance(tolerance)
	p.TimeHorizon = domain.TimeHorizon(horizon)
	if err := json.Unmarshal([]byte(goals), &p.InvestmentGoals); err != nil {
		return nil, fmt.Errorf("failed to decode investment goals: %w", err)
	}
	if err := json.Unmarshal([]byte(preferred), &p.PreferredSectors); err != nil {
		return nil, fmt.Errorf("failed to decode preferred sectors: %w", err)
	}
	if err := json.Unmarshal([]byte(excluded), &p.ExcludedSectors); err != nil {
		return nil, fmt.Errorf("failed to decode excluded sectors: %w", err)
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &p, nil
}
