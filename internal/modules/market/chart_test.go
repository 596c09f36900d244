package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiprhq/swipr/internal/domain"
)

func TestChartFor(t *testing.T) {
	c := seededCatalogue()

	chart, err := c.ChartFor("AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", chart.Symbol)
	require.Len(t, chart.Points, chartDays)
	assert.Len(t, chart.SMA20, chartDays)
	assert.Len(t, chart.RSI14, chartDays)

	// series ends at the live price, with day offsets counting back from 0
	last := chart.Points[len(chart.Points)-1]
	assert.Equal(t, 0, last.Day)
	assert.Equal(t, 182.52, last.Price)
	assert.Equal(t, 1-chartDays, chart.Points[0].Day)

	for _, p := range chart.Points {
		assert.Positive(t, p.Price)
	}
}

func TestChartFor_Deterministic(t *testing.T) {
	c := seededCatalogue()

	first, err := c.ChartFor("NVDA")
	require.NoError(t, err)
	second, err := c.ChartFor("NVDA")
	require.NoError(t, err)
	assert.Equal(t, first.Points, second.Points)
}

func TestChartFor_UnknownSymbol(t *testing.T) {
	c := seededCatalogue()

	_, err := c.ChartFor("ZZZZ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
