package agent

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/swiprhq/swipr/internal/domain"
)

// DeriveInsights summarizes a behavior record. Both the chat responder and
// the interventions surface read preferences through this one function so
// they cannot drift apart.
func DeriveInsights(rec *BehaviorRecord) Insights {
	insights := Insights{RiskPreference: domain.RiskMedium}
	if rec == nil {
		return insights
	}

	type sectorScore struct {
		sector string
		score  float64
	}
	sectors := make([]sectorScore, 0, len(rec.SectorScores))
	for sector, score := range rec.SectorScores {
		sectors = append(sectors, sectorScore{sector, score})
	}
	sort.SliceStable(sectors, func(i, j int) bool {
		if sectors[i].score != sectors[j].score {
			return sectors[i].score > sectors[j].score
		}
		return sectors[i].sector < sectors[j].sector
	})
	for i := 0; i < len(sectors) && i < 3; i++ {
		insights.TopSectors = append(insights.TopSectors, sectors[i].sector)
	}

	// Preferred risk level is the accumulator argmax; Medium when nothing
	// has been observed yet. Ties resolve low-to-high so only a strictly
	// higher score moves the preference.
	best := 0.0
	first := true
	for _, level := range []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh} {
		score, ok := rec.RiskScores[level]
		if !ok {
			continue
		}
		if first || score > best {
			best = score
			insights.RiskPreference = level
			first = false
		}
	}

	insights.TotalSwipes = len(rec.SwipeHistory)
	insights.StreakDays = rec.StreakDays
	return insights
}

// averageRisk computes the score-weighted mean risk on the 1..3 scale:
// sum(levelWeight * score) / sum(score). A zero denominator falls back to
// 2.0 (Medium), the documented neutral default.
func averageRisk(riskScores map[domain.RiskLevel]float64) float64 {
	levels := []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh}
	weights := make([]float64, 0, len(levels))
	scores := make([]float64, 0, len(levels))
	for _, level := range levels {
		if score, ok := riskScores[level]; ok {
			weights = append(weights, level.Weight())
			scores = append(scores, score)
		}
	}

	total := floats.Sum(scores)
	if total <= 0 {
		return 2.0
	}
	return floats.Dot(weights, scores) / total
}
