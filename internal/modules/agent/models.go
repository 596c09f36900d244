package agent

import (
	"time"

	"github.com/swiprhq/swipr/internal/domain"
)

// SwipeEvent is a single user decision on an instrument card. Immutable once
// recorded.
type SwipeEvent struct {
	Symbol     string             `json:"symbol" msgpack:"symbol"`
	Action     domain.SwipeAction `json:"action" msgpack:"action"`
	Confidence domain.Confidence  `json:"confidence,omitempty" msgpack:"confidence,omitempty"`
	Sector     string             `json:"sector" msgpack:"sector"`
	Risk       domain.RiskLevel   `json:"risk" msgpack:"risk"`
	Timestamp  time.Time          `json:"timestamp" msgpack:"timestamp"`
}

// maxSwipeHistory bounds the per-user history; oldest events are evicted.
const maxSwipeHistory = 100

// BehaviorRecord is the per-user behavioral state. Owned by the Store;
// mutated only through the scorer update step.
type BehaviorRecord struct {
	UserID       string                       `json:"userId" msgpack:"user_id"`
	SwipeHistory []SwipeEvent                 `json:"swipeHistory" msgpack:"swipe_history"`
	SectorScores map[string]float64           `json:"sectorScores" msgpack:"sector_scores"`
	RiskScores   map[domain.RiskLevel]float64 `json:"riskScores" msgpack:"risk_scores"`
	LastActivity time.Time                    `json:"lastActivity" msgpack:"last_activity"`
	StreakDays   int                          `json:"streakDays" msgpack:"streak_days"`
}

func newBehaviorRecord(userID string, now time.Time) *BehaviorRecord {
	return &BehaviorRecord{
		UserID:       userID,
		SectorScores: make(map[string]float64),
		RiskScores:   make(map[domain.RiskLevel]float64),
		LastActivity: now,
	}
}

// clone returns a deep copy so callers can read a snapshot without holding
// the store's per-user lock.
func (b *BehaviorRecord) clone() *BehaviorRecord {
	out := &BehaviorRecord{
		UserID:       b.UserID,
		SwipeHistory: append([]SwipeEvent(nil), b.SwipeHistory...),
		SectorScores: make(map[string]float64, len(b.SectorScores)),
		RiskScores:   make(map[domain.RiskLevel]float64, len(b.RiskScores)),
		LastActivity: b.LastActivity,
		StreakDays:   b.StreakDays,
	}
	for k, v := range b.SectorScores {
		out.SectorScores[k] = v
	}
	for k, v := range b.RiskScores {
		out.RiskScores[k] = v
	}
	return out
}

// Profile is a user's advisory profile, created during setup.
type Profile struct {
	ID                     string               `json:"id"`
	UserID                 string               `json:"userId"`
	RiskTolerance          domain.RiskTolerance `json:"riskTolerance"`
	TimeHorizon            domain.TimeHorizon   `json:"timeHorizon"`
	InvestmentGoals        []string             `json:"investmentGoals"`
	PreferredSectors       []string             `json:"preferredSectors"`
	ExcludedSectors        []string             `json:"excludedSectors"`
	MaxSectorConcentration float64              `json:"maxSectorConcentration"`
	CreatedAt              time.Time            `json:"createdAt"`
	UpdatedAt              time.Time            `json:"updatedAt"`
}

// ProfileParams carries the caller-supplied profile fields.
type ProfileParams struct {
	RiskTolerance          domain.RiskTolerance `json:"riskTolerance"`
	TimeHorizon            domain.TimeHorizon   `json:"timeHorizon"`
	InvestmentGoals        []string             `json:"investmentGoals"`
	PreferredSectors       []string             `json:"preferredSectors"`
	ExcludedSectors        []string             `json:"excludedSectors"`
	MaxSectorConcentration float64              `json:"maxSectorConcentration"`
}

// Intervention is a generated advisory nudge. Interventions are built fresh
// on every generation call and never persisted.
type Intervention struct {
	ID            string                  `json:"id"`
	Type          domain.InterventionType `json:"type"`
	Title         string                  `json:"title"`
	Message       string                  `json:"message"`
	ActionText    string                  `json:"actionText,omitempty"`
	ActionType    string                  `json:"actionType,omitempty"`
	Priority      domain.Priority         `json:"priority"`
	TriggerReason string                  `json:"triggerReason"`
	CreatedAt     time.Time               `json:"createdAt"`
	Dismissed     bool                    `json:"dismissed"`
}

// QueueEntry is the slice of the user's queue the generator needs.
type QueueEntry struct {
	Symbol     string            `json:"symbol"`
	Confidence domain.Confidence `json:"confidence"`
}

// Insights is the behavior summary shared by the chat responder and other
// consumers of derived preferences.
type Insights struct {
	TopSectors     []string         `json:"topSectors"`
	RiskPreference domain.RiskLevel `json:"riskPreference"`
	TotalSwipes    int              `json:"totalSwipes"`
	StreakDays     int              `json:"streakDays"`
}
