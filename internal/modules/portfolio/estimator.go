package portfolio

import (
	"math/rand"

	"github.com/swiprhq/swipr/internal/domain"
)

// Estimator supplies the illustrative expected-return and risk numbers on an
// allocation plan. These are presentation values, not a market model, so the
// implementation is swappable for a deterministic one in tests.
type Estimator interface {
	ExpectedReturn(tolerance domain.RiskTolerance) float64
	RiskScore(tolerance domain.RiskTolerance) float64
}

// RangeEstimator draws from fixed plausible ranges: expected return in
// [8, 12) percent, risk score in [3, 7).
type RangeEstimator struct {
	rng *rand.Rand
}

// NewRangeEstimator creates the production estimator.
func NewRangeEstimator(seed int64) *RangeEstimator {
	return &RangeEstimator{rng: rand.New(rand.NewSource(seed))}
}

func (e *RangeEstimator) ExpectedReturn(domain.RiskTolerance) float64 {
	return 8 + e.rng.Float64()*4
}

func (e *RangeEstimator) RiskScore(domain.RiskTolerance) float64 {
	return 3 + e.rng.Float64()*4
}

// FixedEstimator returns constant values. Test double.
type FixedEstimator struct {
	Return float64
	Risk   float64
}

func (e FixedEstimator) ExpectedReturn(domain.RiskTolerance) float64 { return e.Return }
func (e FixedEstimator) RiskScore(domain.RiskTolerance) float64      { return e.Risk }
