package agent

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiprhq/swipr/internal/domain"
)

type stubSectors map[string]string

func (s stubSectors) SectorOf(symbol string) (string, bool) {
	sector, ok := s[symbol]
	return sector, ok
}

var genNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestGenerator(sectors stubSectors) *Generator {
	g := NewGenerator(sectors, zerolog.Nop())
	g.SetClock(func() time.Time { return genNow })
	return g
}

func testProfile(tolerance domain.RiskTolerance) *Profile {
	return &Profile{
		UserID:                 "u1",
		RiskTolerance:          tolerance,
		TimeHorizon:            domain.HorizonLong,
		MaxSectorConcentration: 30,
	}
}

func activeBehavior() *BehaviorRecord {
	rec := newBehaviorRecord("u1", genNow)
	rec.LastActivity = genNow
	return rec
}

func TestGenerate_NilInputs(t *testing.T) {
	g := newTestGenerator(stubSectors{})
	assert.Nil(t, g.Generate(nil, activeBehavior(), nil))
	assert.Nil(t, g.Generate(testProfile(domain.ToleranceModerate), nil, nil))
}

func TestSectorConcentration_AllOneSector(t *testing.T) {
	sectors := stubSectors{"AAPL": "Technology", "MSFT": "Technology", "GOOG": "Technology", "NVDA": "Technology", "META": "Technology"}
	g := newTestGenerator(sectors)

	queue := []QueueEntry{{Symbol: "AAPL"}, {Symbol: "MSFT"}, {Symbol: "GOOG"}, {Symbol: "NVDA"}, {Symbol: "META"}}
	out := g.Generate(testProfile(domain.ToleranceModerate), activeBehavior(), queue)

	require.Len(t, out, 1)
	assert.Equal(t, domain.InterventionDiversification, out[0].Type)
	assert.Equal(t, domain.PriorityMedium, out[0].Priority)
	assert.Contains(t, out[0].Message, "100% in Technology")
	assert.NotEmpty(t, out[0].ID)
	assert.Equal(t, genNow, out[0].CreatedAt)
}

func TestSectorConcentration_UsesRealSectors(t *testing.T) {
	// Queue mixes sectors; the dominant one stays at 60% which exceeds 30.
	sectors := stubSectors{"AAPL": "Technology", "MSFT": "Technology", "GOOG": "Technology", "XOM": "Energy", "JNJ": "Healthcare"}
	g := newTestGenerator(sectors)

	queue := []QueueEntry{{Symbol: "AAPL"}, {Symbol: "MSFT"}, {Symbol: "GOOG"}, {Symbol: "XOM"}, {Symbol: "JNJ"}}
	out := g.Generate(testProfile(domain.ToleranceModerate), activeBehavior(), queue)

	require.Len(t, out, 1)
	assert.Contains(t, out[0].Message, "60% in Technology")
}

func TestSectorConcentration_EmptyQueueSkipsCheck(t *testing.T) {
	g := newTestGenerator(stubSectors{})
	out := g.Generate(testProfile(domain.ToleranceModerate), activeBehavior(), nil)
	assert.Empty(t, out)
}

func TestSectorConcentration_UnderThresholdNoNudge(t *testing.T) {
	sectors := stubSectors{"AAPL": "Technology", "XOM": "Energy", "JNJ": "Healthcare", "JPM": "Financial"}
	g := newTestGenerator(sectors)

	profile := testProfile(domain.ToleranceModerate)
	profile.MaxSectorConcentration = 50
	queue := []QueueEntry{{Symbol: "AAPL"}, {Symbol: "XOM"}, {Symbol: "JNJ"}, {Symbol: "JPM"}}
	assert.Empty(t, g.Generate(profile, activeBehavior(), queue))
}

func TestRiskAlignment_TooRisky(t *testing.T) {
	g := newTestGenerator(stubSectors{})
	behavior := activeBehavior()
	behavior.RiskScores[domain.RiskHigh] = 10 // avg 3.0 > 2.0 + 0.5

	out := g.Generate(testProfile(domain.ToleranceModerate), behavior, nil)

	require.Len(t, out, 1)
	assert.Equal(t, domain.InterventionRiskCheck, out[0].Type)
	assert.Equal(t, domain.PriorityHigh, out[0].Priority)
	assert.Equal(t, "Off-track from your goal?", out[0].Title)
}

func TestRiskAlignment_TooConservative(t *testing.T) {
	g := newTestGenerator(stubSectors{})
	behavior := activeBehavior()
	behavior.RiskScores[domain.RiskLow] = 10 // avg 1.0 < 2.5 - 0.5

	out := g.Generate(testProfile(domain.ToleranceAggressive), behavior, nil)

	require.Len(t, out, 1)
	assert.Equal(t, domain.InterventionRiskCheck, out[0].Type)
	assert.Equal(t, domain.PriorityMedium, out[0].Priority)
	assert.Equal(t, "Too conservative?", out[0].Title)
}

func TestRiskAlignment_WithinBand(t *testing.T) {
	g := newTestGenerator(stubSectors{})
	behavior := activeBehavior()
	behavior.RiskScores[domain.RiskMedium] = 10 // avg 2.0, dead on target

	assert.Empty(t, g.Generate(testProfile(domain.ToleranceModerate), behavior, nil))
}

func TestRiskAlignment_NegativeTotalFallsBackToNeutral(t *testing.T) {
	g := newTestGenerator(stubSectors{})
	behavior := activeBehavior()
	behavior.RiskScores[domain.RiskHigh] = -5 // skip-dominated, total <= 0 -> 2.0

	assert.Empty(t, g.Generate(testProfile(domain.ToleranceModerate), behavior, nil))
}

func TestThemeDetection(t *testing.T) {
	g := newTestGenerator(stubSectors{})
	behavior := activeBehavior()
	for i := 0; i < 4; i++ {
		behavior.SwipeHistory = append(behavior.SwipeHistory, SwipeEvent{
			Action: domain.ActionQueue, Sector: "Healthcare", Risk: domain.RiskMedium, Timestamp: genNow,
		})
	}
	behavior.SwipeHistory = append(behavior.SwipeHistory, SwipeEvent{
		Action: domain.ActionWatchlist, Sector: "Energy", Risk: domain.RiskMedium, Timestamp: genNow,
	})

	out := g.Generate(testProfile(domain.ToleranceModerate), behavior, nil)

	require.Len(t, out, 1)
	assert.Equal(t, domain.InterventionStrategyFocus, out[0].Type)
	assert.Equal(t, domain.PriorityLow, out[0].Priority)
	assert.Contains(t, out[0].Message, "Healthcare")
}

func TestThemeDetection_SkipsDoNotCount(t *testing.T) {
	g := newTestGenerator(stubSectors{})
	behavior := activeBehavior()
	// 4 skips in the same sector plus 2 non-skips: window has only 2 usable
	// swipes, below the 3 minimum.
	for i := 0; i < 4; i++ {
		behavior.SwipeHistory = append(behavior.SwipeHistory, SwipeEvent{
			Action: domain.ActionSkip, Sector: "Technology", Risk: domain.RiskMedium, Timestamp: genNow,
		})
	}
	behavior.SwipeHistory = append(behavior.SwipeHistory,
		SwipeEvent{Action: domain.ActionQueue, Sector: "Energy", Risk: domain.RiskMedium, Timestamp: genNow},
		SwipeEvent{Action: domain.ActionQueue, Sector: "Healthcare", Risk: domain.RiskMedium, Timestamp: genNow},
	)

	assert.Empty(t, g.Generate(testProfile(domain.ToleranceModerate), behavior, nil))
}

func TestRebalancing_StaleWithBigQueue(t *testing.T) {
	sectors := stubSectors{"A": "S1", "B": "S2", "C": "S3", "D": "S4"}
	g := newTestGenerator(sectors)

	profile := testProfile(domain.ToleranceModerate)
	profile.MaxSectorConcentration = 100
	behavior := activeBehavior()
	behavior.LastActivity = genNow.Add(-8 * 24 * time.Hour)

	queue := []QueueEntry{{Symbol: "A"}, {Symbol: "B"}, {Symbol: "C"}, {Symbol: "D"}}
	out := g.Generate(profile, behavior, queue)

	require.Len(t, out, 1)
	assert.Equal(t, domain.InterventionRebalancing, out[0].Type)
	assert.Contains(t, out[0].TriggerReason, "8 days")
}

func TestRebalancing_RecentActivityOrSmallQueue(t *testing.T) {
	sectors := stubSectors{"A": "S1", "B": "S2", "C": "S3", "D": "S4"}
	g := newTestGenerator(sectors)
	profile := testProfile(domain.ToleranceModerate)
	profile.MaxSectorConcentration = 100

	// Stale but queue of 3: no nudge.
	behavior := activeBehavior()
	behavior.LastActivity = genNow.Add(-8 * 24 * time.Hour)
	assert.Empty(t, g.Generate(profile, behavior, []QueueEntry{{Symbol: "A"}, {Symbol: "B"}, {Symbol: "C"}}))

	// Big queue but active today: no nudge.
	behavior = activeBehavior()
	assert.Empty(t, g.Generate(profile, behavior, []QueueEntry{{Symbol: "A"}, {Symbol: "B"}, {Symbol: "C"}, {Symbol: "D"}}))
}

func TestGenerate_AtMostTwoHighestPriorityFirst(t *testing.T) {
	// Trip concentration (medium), risk (high) and theme (low) at once.
	sectors := stubSectors{"AAPL": "Technology", "MSFT": "Technology", "GOOG": "Technology", "NVDA": "Technology", "META": "Technology"}
	g := newTestGenerator(sectors)

	behavior := activeBehavior()
	behavior.RiskScores[domain.RiskHigh] = 10
	for i := 0; i < 4; i++ {
		behavior.SwipeHistory = append(behavior.SwipeHistory, SwipeEvent{
			Action: domain.ActionQueue, Sector: "Technology", Risk: domain.RiskHigh, Timestamp: genNow,
		})
	}

	queue := []QueueEntry{{Symbol: "AAPL"}, {Symbol: "MSFT"}, {Symbol: "GOOG"}, {Symbol: "NVDA"}, {Symbol: "META"}}
	out := g.Generate(testProfile(domain.ToleranceModerate), behavior, queue)

	require.Len(t, out, 2)
	assert.Equal(t, domain.InterventionRiskCheck, out[0].Type)
	assert.Equal(t, domain.InterventionDiversification, out[1].Type)
}
