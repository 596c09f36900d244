package portfolio

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/market"
)

// distinctSectorCatalogue builds n instruments in n distinct sectors with
// descending momentum, so selection order is the slice order.
func distinctSectorCatalogue(n int) *market.Catalogue {
	stocks := make([]market.Stock, n)
	for i := range stocks {
		stocks[i] = market.Stock{
			Symbol:        fmt.Sprintf("S%02d", i),
			Name:          fmt.Sprintf("Stock %d", i),
			Price:         100,
			ChangePercent: float64(n - i),
			Sector:        fmt.Sprintf("Sector %d", i),
			Risk:          domain.RiskMedium,
		}
	}
	return market.NewCatalogueFrom(stocks, zerolog.Nop())
}

func newTestOptimizer(c *market.Catalogue) *Optimizer {
	return NewOptimizer(c, FixedEstimator{Return: 9.5, Risk: 5}, zerolog.Nop())
}

func TestOptimize_ModerateTenThousand(t *testing.T) {
	o := newTestOptimizer(distinctSectorCatalogue(10))

	plan, err := o.Optimize(10000, domain.ToleranceModerate, nil)
	require.NoError(t, err)

	assert.InDelta(t, 7000, plan.StockAllocation, 1e-9)
	assert.InDelta(t, 2000, plan.BondAllocation, 1e-9)
	assert.InDelta(t, 1000, plan.CashAllocation, 1e-9)

	require.Len(t, plan.RecommendedInstruments, 8)
	first := plan.RecommendedInstruments[0]
	assert.InDelta(t, 1750, first.AllocationAmount, 1e-9) // 25% of 7000
	assert.InDelta(t, 25, first.AllocationPercent, 1e-9)
	assert.InDelta(t, 17.5, first.ShareCount, 1e-9)

	assert.InDelta(t, 100, plan.Fees.PlatformFee, 1e-9)
	assert.InDelta(t, 5, plan.Fees.RegulatoryFee, 1e-9)
	assert.InDelta(t, 105, plan.Fees.TotalFee, 1e-9)

	// 8 distinct sectors caps the score at 100.
	assert.Equal(t, 100.0, plan.DiversificationScore)
	assert.Equal(t, 9.5, plan.ExpectedReturn)
	assert.Equal(t, 5.0, plan.RiskScore)
}

func TestOptimize_TierAssignments(t *testing.T) {
	o := newTestOptimizer(distinctSectorCatalogue(10))

	plan, err := o.Optimize(10000, domain.ToleranceModerate, nil)
	require.NoError(t, err)

	wantPercents := []float64{25, 20, 20, 20, 5, 5, 5, 5}
	for i, rec := range plan.RecommendedInstruments {
		assert.InDelta(t, wantPercents[i], rec.AllocationPercent, 1e-9, "pick %d", i)
	}
}

func TestOptimize_BucketSplits(t *testing.T) {
	o := newTestOptimizer(distinctSectorCatalogue(4))

	conservative, err := o.Optimize(1000, domain.ToleranceConservative, nil)
	require.NoError(t, err)
	assert.InDelta(t, 600, conservative.StockAllocation, 1e-9)
	assert.InDelta(t, 300, conservative.BondAllocation, 1e-9)
	assert.InDelta(t, 100, conservative.CashAllocation, 1e-9)

	aggressive, err := o.Optimize(1000, domain.ToleranceAggressive, nil)
	require.NoError(t, err)
	assert.InDelta(t, 850, aggressive.StockAllocation, 1e-9)
	assert.InDelta(t, 100, aggressive.BondAllocation, 1e-9)
	assert.InDelta(t, 50, aggressive.CashAllocation, 1e-9)
}

func TestOptimize_SectorCap(t *testing.T) {
	// Twelve instruments across three sectors: the cap admits two per sector.
	stocks := make([]market.Stock, 12)
	for i := range stocks {
		stocks[i] = market.Stock{
			Symbol:        fmt.Sprintf("S%02d", i),
			Price:         50,
			ChangePercent: float64(12 - i),
			Sector:        fmt.Sprintf("Sector %d", i%3),
			Risk:          domain.RiskMedium,
		}
	}
	o := newTestOptimizer(market.NewCatalogueFrom(stocks, zerolog.Nop()))

	plan, err := o.Optimize(10000, domain.ToleranceModerate, nil)
	require.NoError(t, err)

	require.Len(t, plan.RecommendedInstruments, 6)
	perSector := make(map[string]int)
	for _, rec := range plan.RecommendedInstruments {
		perSector[rec.Sector]++
	}
	for sector, count := range perSector {
		assert.LessOrEqual(t, count, 2, sector)
	}
	assert.Equal(t, 60.0, plan.DiversificationScore)
}

func TestOptimize_RanksByMomentumStable(t *testing.T) {
	stocks := []market.Stock{
		{Symbol: "FLAT1", Price: 10, ChangePercent: 1.0, Sector: "A", Risk: domain.RiskLow},
		{Symbol: "HOT", Price: 10, ChangePercent: 5.0, Sector: "B", Risk: domain.RiskHigh},
		{Symbol: "FLAT2", Price: 10, ChangePercent: 1.0, Sector: "C", Risk: domain.RiskLow},
	}
	o := newTestOptimizer(market.NewCatalogueFrom(stocks, zerolog.Nop()))

	plan, err := o.Optimize(1000, domain.ToleranceModerate, nil)
	require.NoError(t, err)

	require.Len(t, plan.RecommendedInstruments, 3)
	assert.Equal(t, "HOT", plan.RecommendedInstruments[0].Symbol)
	// Equal movers keep catalogue order.
	assert.Equal(t, "FLAT1", plan.RecommendedInstruments[1].Symbol)
	assert.Equal(t, "FLAT2", plan.RecommendedInstruments[2].Symbol)
}

func TestOptimize_PreferredSectorFilter(t *testing.T) {
	o := newTestOptimizer(distinctSectorCatalogue(10))

	plan, err := o.Optimize(1000, domain.ToleranceModerate, []string{"Sector 3", "Sector 7"})
	require.NoError(t, err)

	require.Len(t, plan.RecommendedInstruments, 2)
	for _, rec := range plan.RecommendedInstruments {
		assert.Contains(t, []string{"Sector 3", "Sector 7"}, rec.Sector)
	}
}

func TestOptimize_FewPicksLeaveHeadroom(t *testing.T) {
	o := newTestOptimizer(distinctSectorCatalogue(2))

	plan, err := o.Optimize(10000, domain.ToleranceModerate, nil)
	require.NoError(t, err)

	require.Len(t, plan.RecommendedInstruments, 2)
	allocated := plan.RecommendedInstruments[0].AllocationAmount + plan.RecommendedInstruments[1].AllocationAmount
	// 25% + 20% of the stock bucket; the rest stays unallocated.
	assert.InDelta(t, 0.45*7000, allocated, 1e-9)
	assert.Less(t, allocated, plan.StockAllocation)
}

func TestOptimize_InvalidAmount(t *testing.T) {
	o := newTestOptimizer(distinctSectorCatalogue(4))

	_, err := o.Optimize(0, domain.ToleranceModerate, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = o.Optimize(-100, domain.ToleranceModerate, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOptimize_UnknownToleranceRejected(t *testing.T) {
	o := newTestOptimizer(distinctSectorCatalogue(4))

	_, err := o.Optimize(1000, "yolo", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
