package portfolio

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
	"github.com/swiprhq/swipr/internal/modules/market"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.InitSchema(db))
	return db
}

func ptr(v float64) *float64 { return &v }

func holdingsCatalogue() *market.Catalogue {
	return market.NewCatalogueFrom([]market.Stock{
		{Symbol: "AAPL", Name: "Apple Inc.", Price: 200, ChangePercent: 1.0, Sector: "Technology", Risk: domain.RiskMedium, DividendYield: ptr(0.5)},
		{Symbol: "XOM", Name: "Exxon Mobil", Price: 100, ChangePercent: -2.0, Sector: "Energy", Risk: domain.RiskLow, DividendYield: ptr(3.0)},
		{Symbol: "NVDA", Name: "NVIDIA", Price: 700, ChangePercent: 2.0, Sector: "Technology", Risk: domain.RiskHigh},
	}, zerolog.Nop())
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	catalogue := holdingsCatalogue()
	estimator := FixedEstimator{Return: 9, Risk: 5}
	svc := NewService(
		NewRepository(setupTestDB(t), zerolog.Nop()),
		catalogue,
		NewOptimizer(catalogue, estimator, zerolog.Nop()),
		estimator,
		zerolog.Nop(),
	)
	svc.SetClock(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) })
	return svc
}

func TestAddHolding_NewPosition(t *testing.T) {
	svc := newTestService(t)

	h, err := svc.AddHolding("u1", "aapl", 10, 150)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", h.Symbol)
	assert.Equal(t, 10.0, h.Shares)
	assert.Equal(t, 150.0, h.AvgCost)
}

func TestAddHolding_MergesAtBlendedCost(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddHolding("u1", "AAPL", 10, 100)
	require.NoError(t, err)
	h, err := svc.AddHolding("u1", "AAPL", 10, 200)
	require.NoError(t, err)

	assert.Equal(t, 20.0, h.Shares)
	assert.InDelta(t, 150, h.AvgCost, 1e-9)
}

func TestAddHolding_PartialSaleKeepsAvgCost(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddHolding("u1", "AAPL", 10, 100)
	require.NoError(t, err)
	h, err := svc.AddHolding("u1", "AAPL", -4, 0)
	require.NoError(t, err)

	assert.Equal(t, 6.0, h.Shares)
	assert.Equal(t, 100.0, h.AvgCost)
}

func TestAddHolding_FullSaleClosesPosition(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddHolding("u1", "AAPL", 10, 100)
	require.NoError(t, err)
	_, err = svc.AddHolding("u1", "AAPL", -10, 0)
	require.NoError(t, err)

	views, err := svc.Holdings("u1")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestAddHolding_Oversell(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddHolding("u1", "AAPL", 5, 100)
	require.NoError(t, err)
	_, err = svc.AddHolding("u1", "AAPL", -6, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddHolding_UnknownSymbol(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.AddHolding("u1", "ZZZZ", 1, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddHolding_DefaultsToCataloguePrice(t *testing.T) {
	svc := newTestService(t)

	h, err := svc.AddHolding("u1", "XOM", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, h.AvgCost)
}

func TestHoldings_ViewsIncludeGains(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddHolding("u1", "AAPL", 10, 100) // now worth 200
	require.NoError(t, err)

	views, err := svc.Holdings("u1")
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, 2000.0, v.Value)
	assert.Equal(t, 1000.0, v.GainLoss)
	assert.InDelta(t, 100, v.GainLossPct, 1e-9)
	assert.Equal(t, "Technology", v.Sector)
}

func TestExecute_AppliesPlan(t *testing.T) {
	svc := newTestService(t)

	plan, err := svc.Optimize(10000, domain.ToleranceModerate, nil)
	require.NoError(t, err)

	applied, err := svc.Execute("u1", plan)
	require.NoError(t, err)
	assert.Len(t, applied, len(plan.RecommendedInstruments))

	views, err := svc.Holdings("u1")
	require.NoError(t, err)
	assert.Len(t, views, len(plan.RecommendedInstruments))
}

func TestExecute_EmptyPlanRejected(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Execute("u1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Execute("u1", &AllocationPlan{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnalytics_EmptyPortfolio(t *testing.T) {
	svc := newTestService(t)

	analytics, err := svc.AnalyticsFor("u1", domain.ToleranceModerate)
	require.NoError(t, err)
	assert.Zero(t, analytics.TotalValue)
	assert.Zero(t, analytics.DividendYield)
	assert.Zero(t, analytics.Holdings)
	assert.Equal(t, 5.0, analytics.RiskScore)
}

func TestAnalytics_WeightedNumbers(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddHolding("u1", "AAPL", 10, 100) // value 2000, yield 0.5, +1%/day
	require.NoError(t, err)
	_, err = svc.AddHolding("u1", "XOM", 20, 90) // value 2000, yield 3.0, -2%/day
	require.NoError(t, err)

	analytics, err := svc.AnalyticsFor("u1", domain.ToleranceModerate)
	require.NoError(t, err)

	assert.InDelta(t, 4000, analytics.TotalValue, 1e-9)
	assert.Equal(t, 2, analytics.Holdings)
	// Value-weighted: (2000*0.5 + 2000*3.0) / 4000 = 1.75
	assert.InDelta(t, 1.75, analytics.DividendYield, 1e-9)
	// Day change: 2000*1% - 2000*2% = -20; pct = -0.5
	assert.InDelta(t, -20, analytics.DayChange, 1e-9)
	assert.InDelta(t, -0.5, analytics.DayChangePct, 1e-9)
	assert.InDelta(t, 50, analytics.SectorAllocation["Technology"], 1e-9)
	assert.InDelta(t, 50, analytics.SectorAllocation["Energy"], 1e-9)
}
