package portfolio

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/market"
)

const (
	maxPicks        = 8
	maxPerSector    = 2
	platformFeeRate = 0.01
	regulatoryRate  = 0.0005
)

// allocationTiers is the stock-bucket share handed to each pick, in
// selection order. With fewer than four picks the remainder stays
// unallocated; that headroom is intentional.
var allocationTiers = [maxPicks]float64{0.25, 0.20, 0.20, 0.20, 0.05, 0.05, 0.05, 0.05}

// Optimizer builds diversified allocation plans from the catalogue.
type Optimizer struct {
	catalogue *market.Catalogue
	estimator Estimator
	log       zerolog.Logger
}

// NewOptimizer creates a new optimizer.
func NewOptimizer(catalogue *market.Catalogue, estimator Estimator, log zerolog.Logger) *Optimizer {
	return &Optimizer{
		catalogue: catalogue,
		estimator: estimator,
		log:       log.With().Str("service", "optimizer").Logger(),
	}
}

// bucketSplit returns the {stocks, bonds, cash} fractions for a tolerance.
func bucketSplit(tolerance domain.RiskTolerance) (stocks, bonds, cash float64) {
	switch tolerance {
	case domain.ToleranceConservative:
		return 0.60, 0.30, 0.10
	case domain.ToleranceAggressive:
		return 0.85, 0.10, 0.05
	default:
		return 0.70, 0.20, 0.10
	}
}

// Optimize builds an allocation plan for an investable amount. When
// preferredSectors is non-empty, only those sectors are considered.
func (o *Optimizer) Optimize(amount float64, tolerance domain.RiskTolerance, preferredSectors []string) (*AllocationPlan, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: investable amount must be positive", domain.ErrInvalidInput)
	}
	if tolerance == "" {
		tolerance = domain.ToleranceModerate
	}
	if _, err := domain.ParseRiskTolerance(string(tolerance)); err != nil {
		return nil, err
	}

	candidates := o.catalogue.BySectors(preferredSectors)

	// Stable: equal movers keep catalogue order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ChangePercent > candidates[j].ChangePercent
	})

	stockFrac, bondFrac, cashFrac := bucketSplit(tolerance)
	stockBudget := amount * stockFrac

	sectorCounts := make(map[string]int)
	var picks []market.Stock
	for _, candidate := range candidates {
		if len(picks) == maxPicks {
			break
		}
		if sectorCounts[candidate.Sector] >= maxPerSector {
			continue
		}
		sectorCounts[candidate.Sector]++
		picks = append(picks, candidate)
	}

	recommended := make([]RecommendedInstrument, 0, len(picks))
	for i, pick := range picks {
		tier := allocationTiers[i]
		dollars := tier * stockBudget
		var shares float64
		if pick.Price > 0 {
			shares = dollars / pick.Price
		}
		recommended = append(recommended, RecommendedInstrument{
			Symbol:            pick.Symbol,
			Name:              pick.Name,
			Sector:            pick.Sector,
			AllocationPercent: tier * 100,
			AllocationAmount:  dollars,
			ShareCount:        shares,
			Reasoning:         reasoningFor(pick, i),
		})
	}

	plan := &AllocationPlan{
		RecommendedInstruments: recommended,
		StockAllocation:        stockBudget,
		BondAllocation:         amount * bondFrac,
		CashAllocation:         amount * cashFrac,
		Fees: Fees{
			PlatformFee:   amount * platformFeeRate,
			RegulatoryFee: amount * regulatoryRate,
			TotalFee:      amount*platformFeeRate + amount*regulatoryRate,
		},
		ExpectedReturn:       o.estimator.ExpectedReturn(tolerance),
		RiskScore:            o.estimator.RiskScore(tolerance),
		DiversificationScore: math.Min(100, 20*float64(len(sectorCounts))),
	}

	o.log.Debug().
		Float64("amount", amount).
		Str("tolerance", string(tolerance)).
		Int("picks", len(picks)).
		Msg("Allocation plan built")
	return plan, nil
}

func reasoningFor(s market.Stock, rank int) string {
	switch {
	case rank == 0:
		return fmt.Sprintf("Top recent performer (%+.2f%%) in %s", s.ChangePercent, s.Sector)
	case s.ChangePercent >= 0:
		return fmt.Sprintf("Positive momentum (%+.2f%%) with %s risk", s.ChangePercent, string(s.Risk))
	default:
		return fmt.Sprintf("Sector diversification via %s at %s risk", s.Sector, string(s.Risk))
	}
}
