package market

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiprhq/swipr/internal/domain"
)

func seededCatalogue() *Catalogue {
	return NewCatalogue(zerolog.Nop())
}

func TestGet_CaseInsensitive(t *testing.T) {
	c := seededCatalogue()

	stock, err := c.Get("aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", stock.Symbol)
	assert.Equal(t, "Technology", stock.Sector)

	_, err = c.Get("ZZZZ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSectorOf(t *testing.T) {
	c := seededCatalogue()

	sector, ok := c.SectorOf("jnj")
	require.True(t, ok)
	assert.Equal(t, "Healthcare", sector)

	_, ok = c.SectorOf("ZZZZ")
	assert.False(t, ok)
}

func TestAll_PreservesSeedOrder(t *testing.T) {
	c := NewCatalogueFrom([]Stock{
		{Symbol: "BBB", Sector: "Energy"},
		{Symbol: "AAA", Sector: "Technology"},
	}, zerolog.Nop())

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "BBB", all[0].Symbol)
	assert.Equal(t, "AAA", all[1].Symbol)
}

func TestBySectors(t *testing.T) {
	c := seededCatalogue()

	assert.Len(t, c.BySectors(nil), len(c.All()))

	tech := c.BySectors([]string{"Technology"})
	require.Len(t, tech, 2)
	assert.Equal(t, "AAPL", tech[0].Symbol)
	assert.Equal(t, "NVDA", tech[1].Symbol)
}

func TestSearch_MatchesSymbolAndName(t *testing.T) {
	c := seededCatalogue()

	bySymbol := c.Search("nvda", 0)
	require.Len(t, bySymbol, 1)
	assert.Equal(t, "NVDA", bySymbol[0].Symbol)

	byName := c.Search("johnson", 0)
	require.Len(t, byName, 1)
	assert.Equal(t, "JNJ", byName[0].Symbol)

	limited := c.Search("a", 2)
	assert.Len(t, limited, 2)
}

func TestFiltered(t *testing.T) {
	c := seededCatalogue()

	tech := c.Filtered(Filters{Sector: "Technology"})
	assert.Len(t, tech, 2)

	all := c.Filtered(Filters{Sector: "All", Performance: "All"})
	assert.Len(t, all, len(c.All()))

	lowPE := c.Filtered(Filters{PE: "Low P/E (<15)"})
	require.Len(t, lowPE, 1)
	assert.Equal(t, "JPM", lowPE[0].Symbol)

	dividends := c.Filtered(Filters{Dividend: "Dividend Stocks"})
	symbols := make([]string, 0, len(dividends))
	for _, s := range dividends {
		symbols = append(symbols, s.Symbol)
	}
	assert.Equal(t, []string{"AAPL", "JPM", "JNJ"}, symbols)

	// unknown filter values pass everything through
	permissive := c.Filtered(Filters{Performance: "made-up"})
	assert.Len(t, permissive, len(c.All()))
}

func TestMovers_SortedByMagnitude(t *testing.T) {
	c := NewCatalogueFrom([]Stock{
		{Symbol: "UP1", ChangePercent: 1.5},
		{Symbol: "DOWN1", ChangePercent: -4.0},
		{Symbol: "UP2", ChangePercent: 3.0},
		{Symbol: "FLAT", ChangePercent: 0},
		{Symbol: "DOWN2", ChangePercent: -1.0},
	}, zerolog.Nop())

	movers := c.Movers(0)
	require.Len(t, movers.Gainers, 2)
	assert.Equal(t, "UP2", movers.Gainers[0].Symbol)
	assert.Equal(t, "UP1", movers.Gainers[1].Symbol)
	require.Len(t, movers.Losers, 2)
	assert.Equal(t, "DOWN1", movers.Losers[0].Symbol)

	limited := c.Movers(1)
	assert.Len(t, limited.Gainers, 1)
	assert.Len(t, limited.Losers, 1)
}

func TestSectorPerformance(t *testing.T) {
	c := NewCatalogueFrom([]Stock{
		{Symbol: "T1", Sector: "Technology", ChangePercent: 2.0},
		{Symbol: "T2", Sector: "Technology", ChangePercent: -1.0},
		{Symbol: "E1", Sector: "Energy", ChangePercent: 4.0},
	}, zerolog.Nop())

	perf := c.SectorPerformance()
	require.Len(t, perf, 2)

	// sorted by sector name
	assert.Equal(t, "Energy", perf[0].Sector)
	assert.InDelta(t, 4.0, perf[0].AvgChange, 0.001)
	assert.Equal(t, []string{"E1"}, perf[0].Gainers)

	assert.Equal(t, "Technology", perf[1].Sector)
	assert.InDelta(t, 0.5, perf[1].AvgChange, 0.001)
	assert.Equal(t, 2, perf[1].Stocks)
	assert.Equal(t, []string{"T1"}, perf[1].Gainers)
	assert.Equal(t, []string{"T2"}, perf[1].Losers)
}

func TestNews(t *testing.T) {
	c := seededCatalogue()

	news, err := c.News("TSLA")
	require.NoError(t, err)
	require.NotEmpty(t, news)
	assert.Contains(t, news[0].Title, "Tesla")

	_, err = c.News("ZZZZ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
