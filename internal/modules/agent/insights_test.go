package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/swiprhq/swipr/internal/domain"
)

func TestDeriveInsights_TopSectorsOrderedAndCapped(t *testing.T) {
	rec := newBehaviorRecord("u1", time.Now())
	rec.SectorScores = map[string]float64{
		"Technology": 10,
		"Healthcare": 8,
		"Energy":     8,
		"Financial":  1,
	}

	insights := DeriveInsights(rec)

	// Score descending, name ascending on ties, at most three.
	assert.Equal(t, []string{"Technology", "Energy", "Healthcare"}, insights.TopSectors)
}

func TestDeriveInsights_RiskArgmax(t *testing.T) {
	rec := newBehaviorRecord("u1", time.Now())
	rec.RiskScores = map[domain.RiskLevel]float64{
		domain.RiskLow:  5,
		domain.RiskHigh: 5,
	}

	// Equal scores keep the lower level; only strictly greater wins.
	assert.Equal(t, domain.RiskLow, DeriveInsights(rec).RiskPreference)

	rec.RiskScores[domain.RiskHigh] = 6
	assert.Equal(t, domain.RiskHigh, DeriveInsights(rec).RiskPreference)
}

func TestDeriveInsights_EmptyRecordDefaults(t *testing.T) {
	insights := DeriveInsights(newBehaviorRecord("u1", time.Now()))
	assert.Empty(t, insights.TopSectors)
	assert.Equal(t, domain.RiskMedium, insights.RiskPreference)
	assert.Zero(t, insights.TotalSwipes)

	assert.Equal(t, domain.RiskMedium, DeriveInsights(nil).RiskPreference)
}

func TestAverageRisk(t *testing.T) {
	// (1*2 + 3*6) / 8 = 2.5
	avg := averageRisk(map[domain.RiskLevel]float64{
		domain.RiskLow:  2,
		domain.RiskHigh: 6,
	})
	assert.InDelta(t, 2.5, avg, 1e-9)
}

func TestAverageRisk_NonPositiveTotalIsNeutral(t *testing.T) {
	assert.Equal(t, 2.0, averageRisk(map[domain.RiskLevel]float64{}))
	assert.Equal(t, 2.0, averageRisk(map[domain.RiskLevel]float64{domain.RiskHigh: -4}))
	assert.Equal(t, 2.0, averageRisk(map[domain.RiskLevel]float64{domain.RiskLow: 3, domain.RiskHigh: -3}))
}
