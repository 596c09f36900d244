package agent

import (
	"time"

	"github.com/swiprhq/swipr/internal/domain"
)

// swipeWeight maps an action to its preference weight. The switch is
// exhaustive over the SwipeAction variants; unknown actions are rejected by
// validation before this point.
func swipeWeight(action domain.SwipeAction) float64 {
	switch action {
	case domain.ActionSkip:
		return -1
	case domain.ActionWatchlist:
		return 2
	case domain.ActionQueue:
		return 3
	}
	return 0
}

// applySwipe is the preference scorer update step: it folds one event into
// the record's accumulators, appends it to the bounded history and advances
// lastActivity. Scores are unbounded running totals; no normalization.
//
// The caller holds the per-user lock.
func applySwipe(rec *BehaviorRecord, event SwipeEvent, now time.Time) {
	if event.Timestamp.IsZero() {
		event.Timestamp = now
	}

	weight := swipeWeight(event.Action)
	rec.SectorScores[event.Sector] += weight
	rec.RiskScores[event.Risk] += weight

	rec.SwipeHistory = append(rec.SwipeHistory, event)
	if len(rec.SwipeHistory) > maxSwipeHistory {
		rec.SwipeHistory = rec.SwipeHistory[len(rec.SwipeHistory)-maxSwipeHistory:]
	}
	rec.LastActivity = event.Timestamp
}
