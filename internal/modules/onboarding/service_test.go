package onboarding

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/swiprhq/swipr/internal/database"
	"github.com/swiprhq/swipr/internal/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.InitSchema(db))

	svc := NewService(NewRepository(db, zerolog.Nop()), zerolog.Nop())
	svc.SetClock(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) })
	return svc
}

func completeSubmission() Submission {
	return Submission{
		"user_type":        "intermediate",
		"sector_interests": []interface{}{"technology", "healthcare"},
		"primary_goal":     "wealth-building",
		"risk_tolerance":   float64(5),
	}
}

func TestSubmit_RequiresCoreFields(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Submit("u1", Submission{"user_type": "beginner"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "risk_tolerance")
}

func TestSubmit_SkippedBypassesValidation(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Submit("u1", Submission{"skipped": true})
	require.NoError(t, err)
	assert.Equal(t, 25.0, result.Insights.OnboardingScore)
	assert.True(t, result.PersonalizationReady)
}

func TestSubmit_DerivesInsights(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Submit("u1", completeSubmission())
	require.NoError(t, err)
	assert.NotEmpty(t, result.OnboardingID)
	// tolerance 5, stay-calm default +2, moderate default +1 = 8
	assert.Equal(t, string(domain.ToleranceModerate), result.Insights.RiskProfile)
	assert.Equal(t, "balanced", result.Insights.InvestmentStyle)
	assert.Equal(t, []string{"technology", "healthcare"}, result.Insights.SectorFocus)
	assert.InDelta(t, 4.0/16*100, result.Insights.OnboardingScore, 0.001)
}

func TestRiskProfile_Buckets(t *testing.T) {
	cases := []struct {
		name string
		data Submission
		want string
	}{
		{
			name: "panic seller with conservative target",
			data: Submission{"risk_tolerance": float64(3), "loss_comfort": "panic-sell", "target_return": "conservative"},
			want: string(domain.ToleranceConservative),
		},
		{
			name: "middle of the road",
			data: Submission{"risk_tolerance": float64(5), "loss_comfort": "worry-hold", "target_return": "moderate"},
			want: string(domain.ToleranceConservative),
		},
		{
			name: "dip buyer chasing speculative returns",
			data: Submission{"risk_tolerance": float64(8), "loss_comfort": "buy-more", "target_return": "speculative"},
			want: string(domain.ToleranceAggressive),
		},
		{
			name: "boundary at twelve stays moderate",
			data: Submission{"risk_tolerance": float64(7), "loss_comfort": "stay-calm", "target_return": "aggressive"},
			want: string(domain.ToleranceModerate),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, riskProfileFor(tc.data))
		})
	}
}

func TestInvestmentStyle(t *testing.T) {
	assert.Equal(t, "educational", investmentStyleFor(Submission{"user_type": "beginner"}))
	assert.Equal(t, "educational", investmentStyleFor(Submission{"primary_goal": "learning"}))
	assert.Equal(t, "income-focused", investmentStyleFor(Submission{"primary_goal": "income"}))
	assert.Equal(t, "growth-focused", investmentStyleFor(Submission{"investment_timeline": "long"}))
	assert.Equal(t, "balanced", investmentStyleFor(Submission{}))
}

func TestSuggestedAllocation_SmallAccountsTiltToStocks(t *testing.T) {
	base := suggestedAllocation(string(domain.ToleranceModerate), Submission{})
	assert.Equal(t, Allocation{Stocks: 60, Bonds: 30, Cash: 10}, base)

	small := suggestedAllocation(string(domain.ToleranceModerate), Submission{"investment_amount": "small"})
	assert.Equal(t, Allocation{Stocks: 70, Bonds: 20, Cash: 10}, small)

	conservative := suggestedAllocation(string(domain.ToleranceConservative), Submission{})
	assert.Equal(t, Allocation{Stocks: 40, Bonds: 50, Cash: 10}, conservative)

	aggressive := suggestedAllocation(string(domain.ToleranceAggressive), Submission{})
	assert.Equal(t, Allocation{Stocks: 80, Bonds: 15, Cash: 5}, aggressive)
}

func TestUpdatePreferences_MergesAndRederives(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Submit("u1", completeSubmission())
	require.NoError(t, err)

	rec, insights, err := svc.UpdatePreferences("u1", Submission{
		"risk_tolerance": float64(9),
		"loss_comfort":   "buy-more",
		"target_return":  "speculative",
	})
	require.NoError(t, err)
	assert.Equal(t, "intermediate", rec.Data.str("user_type", ""))
	assert.Equal(t, string(domain.ToleranceAggressive), insights.RiskProfile)
}

func TestUpdatePreferences_UnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.UpdatePreferences("ghost", Submission{"risk_tolerance": float64(5)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPersonalization_DefaultsForUnknownUser(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Personalization("ghost")
	require.NoError(t, err)
	assert.Equal(t, []string{"Reuters", "Yahoo Finance"}, p.NewsSources)
	assert.Equal(t, string(domain.ToleranceModerate), p.StockFilters.RiskLevel)
	assert.Equal(t, "quarterly", p.PortfolioSuggestions.RebalancingFrequency)
}

func TestPersonalization_ConservativeRebalancesMonthly(t *testing.T) {
	svc := newTestService(t)

	data := completeSubmission()
	data["risk_tolerance"] = float64(1)
	data["loss_comfort"] = "panic-sell"
	data["target_return"] = "conservative"
	_, err := svc.Submit("u1", data)
	require.NoError(t, err)

	p, err := svc.Personalization("u1")
	require.NoError(t, err)
	assert.Equal(t, "monthly", p.PortfolioSuggestions.RebalancingFrequency)
	assert.Equal(t, []string{"technology", "healthcare"}, p.StockFilters.Sectors)
}

func TestRecommendedNewsSources(t *testing.T) {
	sources := recommendedNewsSources(Submission{
		"sector_interests":  []interface{}{"technology"},
		"investment_themes": []interface{}{"fintech"},
	})
	assert.Equal(t, []string{
		"American Banker", "Ars Technica", "Financial Times",
		"Reuters", "TechCrunch", "Yahoo Finance",
	}, sources)
}
