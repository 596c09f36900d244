package market

import (
	"hash/fnv"
	"math"

	"github.com/markcheno/go-talib"
)

const chartDays = 252

// Chart synthesizes a daily price history for a stock and computes SMA/RSI
// overlays. The series is deterministic per symbol: it interpolates between
// price anchors implied by the trailing returns and adds a seeded wiggle, so
// repeated requests chart identical curves.
func (c *Catalogue) ChartFor(symbol string) (Chart, error) {
	s, err := c.Get(symbol)
	if err != nil {
		return Chart{}, err
	}

	closes := synthesizeSeries(s)

	points := make([]ChartPoint, len(closes))
	for i, p := range closes {
		points[i] = ChartPoint{Day: i - len(closes) + 1, Price: round2(p)}
	}

	return Chart{
		Symbol: s.Symbol,
		Points: points,
		SMA20:  talib.Sma(closes, 20),
		RSI14:  talib.Rsi(closes, 14),
	}, nil
}

// synthesizeSeries builds chartDays closing prices ending at the current
// price, anchored one year, six months and one month back by the trailing
// returns when available.
func synthesizeSeries(s Stock) []float64 {
	ret := s.Returns
	if ret == nil {
		ret = &Returns{}
	}

	// Anchor prices derived from trailing returns: price_then = price_now / (1 + r).
	anchors := []struct {
		day   int
		price float64
	}{
		{0, s.Price / (1 + ret.OneYear/100)},
		{chartDays - 126, s.Price / (1 + ret.SixMonth/100)},
		{chartDays - 21, s.Price / (1 + ret.OneMonth/100)},
		{chartDays - 1, s.Price},
	}

	closes := make([]float64, chartDays)
	seed := symbolSeed(s.Symbol)
	for seg := 0; seg < len(anchors)-1; seg++ {
		from, to := anchors[seg], anchors[seg+1]
		span := to.day - from.day
		for i := 0; i <= span; i++ {
			t := float64(i) / float64(span)
			// Geometric interpolation keeps the path positive.
			base := from.price * math.Pow(to.price/from.price, t)
			day := from.day + i
			closes[day] = base * (1 + wiggle(seed, day))
		}
	}
	// Endpoints are exact, wiggle notwithstanding.
	closes[0] = anchors[0].price
	closes[chartDays-1] = s.Price
	return closes
}

// wiggle returns a small deterministic perturbation in [-1.5%, +1.5%].
func wiggle(seed uint64, day int) float64 {
	x := seed + uint64(day)*0x9e3779b97f4a7c15
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	return (float64(x%10000)/10000 - 0.5) * 0.03
}

func symbolSeed(symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum64()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
