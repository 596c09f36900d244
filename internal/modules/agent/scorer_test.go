package agent

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiprhq/swipr/internal/domain"
)

func TestSwipeWeight(t *testing.T) {
	assert.Equal(t, -1.0, swipeWeight(domain.ActionSkip))
	assert.Equal(t, 2.0, swipeWeight(domain.ActionWatchlist))
	assert.Equal(t, 3.0, swipeWeight(domain.ActionQueue))
}

func TestApplySwipe_AccumulatesScores(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := newBehaviorRecord("u1", now)

	applySwipe(rec, SwipeEvent{Symbol: "AAPL", Action: domain.ActionQueue, Sector: "Technology", Risk: domain.RiskMedium}, now)
	applySwipe(rec, SwipeEvent{Symbol: "MSFT", Action: domain.ActionWatchlist, Sector: "Technology", Risk: domain.RiskLow}, now)
	applySwipe(rec, SwipeEvent{Symbol: "XOM", Action: domain.ActionSkip, Sector: "Energy", Risk: domain.RiskHigh}, now)

	assert.Equal(t, 5.0, rec.SectorScores["Technology"])
	assert.Equal(t, -1.0, rec.SectorScores["Energy"])
	assert.Equal(t, 3.0, rec.RiskScores[domain.RiskMedium])
	assert.Equal(t, 2.0, rec.RiskScores[domain.RiskLow])
	assert.Equal(t, -1.0, rec.RiskScores[domain.RiskHigh])
	assert.Len(t, rec.SwipeHistory, 3)
}

func TestApplySwipe_DefaultsTimestampAndAdvancesActivity(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := newBehaviorRecord("u1", now.Add(-48*time.Hour))

	applySwipe(rec, SwipeEvent{Symbol: "AAPL", Action: domain.ActionQueue, Sector: "Technology", Risk: domain.RiskMedium}, now)

	require.Len(t, rec.SwipeHistory, 1)
	assert.Equal(t, now, rec.SwipeHistory[0].Timestamp)
	assert.Equal(t, now, rec.LastActivity)
}

func TestApplySwipe_HistoryCappedAtHundred(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := newBehaviorRecord("u1", now)

	for i := 0; i < 150; i++ {
		applySwipe(rec, SwipeEvent{
			Symbol: fmt.Sprintf("S%03d", i),
			Action: domain.ActionQueue,
			Sector: "Technology",
			Risk:   domain.RiskMedium,
		}, now.Add(time.Duration(i)*time.Minute))
	}

	require.Len(t, rec.SwipeHistory, maxSwipeHistory)
	// Oldest events are evicted; the window holds the last 100.
	assert.Equal(t, "S050", rec.SwipeHistory[0].Symbol)
	assert.Equal(t, "S149", rec.SwipeHistory[len(rec.SwipeHistory)-1].Symbol)
	// Scores keep counting evicted events.
	assert.Equal(t, 450.0, rec.SectorScores["Technology"])
}
