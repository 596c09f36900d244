package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swiprhq/swipr/internal/domain"
)

func chatInsights() Insights {
	return Insights{
		TopSectors:     []string{"Technology", "Healthcare", "Energy"},
		RiskPreference: domain.RiskMedium,
		TotalSwipes:    42,
		StreakDays:     5,
	}
}

func TestRespond_RecommendationCategory(t *testing.T) {
	out := Respond("What should I buy this week?", testProfile(domain.ToleranceModerate), chatInsights())
	assert.Contains(t, out, "I'd recommend")
	assert.Contains(t, out, "Technology, Healthcare")

	out = Respond("can you recommend something", nil, chatInsights())
	assert.Contains(t, out, "I'd recommend")
}

func TestRespond_RiskCategory(t *testing.T) {
	out := Respond("Is my portfolio too risky?", nil, chatInsights())
	// "risky" outranks "portfolio": categories are checked in priority order.
	assert.Contains(t, out, "Your risk profile shows")
	assert.Contains(t, out, "42 total investment decisions")
	assert.Contains(t, out, "moderate in your approach")
}

func TestRespond_HedgeCategory(t *testing.T) {
	out := Respond("How do I protect my downside?", nil, chatInsights())
	assert.Contains(t, out, "To hedge your current portfolio")
}

func TestRespond_PortfolioCategory(t *testing.T) {
	out := Respond("analyze my holdings please", nil, chatInsights())
	assert.Contains(t, out, "Portfolio Analysis")
	assert.Contains(t, out, "Streak: 5 days")
}

func TestRespond_RebalanceCategory(t *testing.T) {
	out := Respond("should I rebalance?", nil, chatInsights())
	assert.Contains(t, out, "Rebalancing suggestions")
	assert.Contains(t, out, "Your Technology allocation might be high")
}

func TestRespond_StrategyCategory(t *testing.T) {
	insights := chatInsights()
	out := Respond("what's my strategy", nil, insights)
	assert.Contains(t, out, "balanced growth")

	insights.RiskPreference = domain.RiskHigh
	out = Respond("what's my strategy", nil, insights)
	assert.Contains(t, out, "aggressive growth")
}

func TestRespond_FallbackMenu(t *testing.T) {
	out := Respond("hello there", nil, chatInsights())
	assert.True(t, strings.HasPrefix(out, "I'd be happy to help!"))
}

func TestRespond_NoSectorsDefaultsToTechnology(t *testing.T) {
	out := Respond("recommend me something", nil, Insights{RiskPreference: domain.RiskMedium})
	assert.Contains(t, out, "Technology")
}

func TestRespond_CaseInsensitive(t *testing.T) {
	out := Respond("RECOMMEND", nil, chatInsights())
	assert.Contains(t, out, "I'd recommend")
}
