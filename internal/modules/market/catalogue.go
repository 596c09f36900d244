// Package market provides the instrument catalogue and derived market views.
//
// The catalogue is a static in-memory table seeded at construction. In
// production this would sit in front of a market data API; every consumer
// goes through the same lookup methods either way.
package market

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/swiprhq/swipr/internal/domain"
)

// Catalogue owns the instrument table. Immutable after construction, so it
// is safe for concurrent readers without locking.
type Catalogue struct {
	stocks map[string]Stock
	order  []string // seed order, preserved for stable listings
	log    zerolog.Logger
}

// NewCatalogue creates a catalogue seeded with the built-in instrument set.
func NewCatalogue(log zerolog.Logger) *Catalogue {
	c := &Catalogue{
		stocks: make(map[string]Stock),
		log:    log.With().Str("service", "catalogue").Logger(),
	}
	for _, s := range seedStocks() {
		c.stocks[s.Symbol] = s
		c.order = append(c.order, s.Symbol)
	}
	c.log.Info().Int("instruments", len(c.order)).Msg("Catalogue seeded")
	return c
}

// NewCatalogueFrom creates a catalogue over a caller-supplied instrument
// set, preserving slice order for listings.
func NewCatalogueFrom(stocks []Stock, log zerolog.Logger) *Catalogue {
	c := &Catalogue{
		stocks: make(map[string]Stock, len(stocks)),
		log:    log.With().Str("service", "catalogue").Logger(),
	}
	for _, s := range stocks {
		c.stocks[s.Symbol] = s
		c.order = append(c.order, s.Symbol)
	}
	return c
}

// Get returns the stock for a symbol, case-insensitive.
func (c *Catalogue) Get(symbol string) (Stock, error) {
	s, ok := c.stocks[strings.ToUpper(symbol)]
	if !ok {
		return Stock{}, fmt.Errorf("%w: stock %s", domain.ErrNotFound, symbol)
	}
	return s, nil
}

// SectorOf resolves a symbol to its sector.
func (c *Catalogue) SectorOf(symbol string) (string, bool) {
	s, ok := c.stocks[strings.ToUpper(symbol)]
	if !ok {
		return "", false
	}
	return s.Sector, true
}

// All returns every instrument in seed order.
func (c *Catalogue) All() []Stock {
	out := make([]Stock, 0, len(c.order))
	for _, sym := range c.order {
		out = append(out, c.stocks[sym])
	}
	return out
}

// BySectors returns instruments whose sector is in the given list, in seed
// order. An empty list returns the full catalogue.
func (c *Catalogue) BySectors(sectors []string) []Stock {
	if len(sectors) == 0 {
		return c.All()
	}
	wanted := make(map[string]bool, len(sectors))
	for _, s := range sectors {
		wanted[s] = true
	}
	var out []Stock
	for _, stock := range c.All() {
		if wanted[stock.Sector] {
			out = append(out, stock)
		}
	}
	return out
}

// Filtered applies the card-deck filters. Unknown filter values pass
// everything through, matching the permissive original behavior.
func (c *Catalogue) Filtered(f Filters) []Stock {
	stocks := c.All()

	if f.Sector != "" && f.Sector != "All" {
		stocks = keep(stocks, func(s Stock) bool { return s.Sector == f.Sector })
	}
	if f.Performance != "" && f.Performance != "All" {
		stocks = filterByPerformance(stocks, f.Performance)
	}
	if f.PE != "" && f.PE != "All" {
		stocks = filterByPE(stocks, f.PE)
	}
	if f.Dividend != "" && f.Dividend != "All" {
		stocks = filterByDividend(stocks, f.Dividend)
	}
	// Market cap values are display strings in the seed data; the filter is
	// accepted but not applied, as in the original service.
	return stocks
}

// Search matches symbol or name substrings, case-insensitive.
func (c *Catalogue) Search(query string, limit int) []Stock {
	q := strings.ToLower(query)
	var out []Stock
	for _, s := range c.All() {
		if strings.Contains(strings.ToLower(s.Symbol), q) || strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// News returns the headlines for a symbol.
func (c *Catalogue) News(symbol string) ([]NewsItem, error) {
	s, err := c.Get(symbol)
	if err != nil {
		return nil, err
	}
	return s.News, nil
}

// SectorPerformance aggregates average change and top movers per sector,
// sorted by sector name for stable output.
func (c *Catalogue) SectorPerformance() []SectorPerformance {
	bySector := make(map[string][]Stock)
	for _, s := range c.All() {
		bySector[s.Sector] = append(bySector[s.Sector], s)
	}

	sectors := make([]string, 0, len(bySector))
	for name := range bySector {
		sectors = append(sectors, name)
	}
	sort.Strings(sectors)

	out := make([]SectorPerformance, 0, len(sectors))
	for _, name := range sectors {
		stocks := bySector[name]
		changes := make([]float64, 0, len(stocks))
		var gainers, losers []string
		for _, s := range stocks {
			changes = append(changes, s.ChangePercent)
			if s.ChangePercent > 0 {
				gainers = append(gainers, s.Symbol)
			} else {
				losers = append(losers, s.Symbol)
			}
		}
		out = append(out, SectorPerformance{
			Sector:    name,
			AvgChange: stat.Mean(changes, nil),
			Stocks:    len(stocks),
			Gainers:   top(gainers, 3),
			Losers:    top(losers, 3),
		})
	}
	return out
}

// Movers returns the catalogue split into gainers and losers, each sorted by
// magnitude of today's move.
func (c *Catalogue) Movers(limit int) Movers {
	var gainers, losers []Stock
	for _, s := range c.All() {
		if s.ChangePercent > 0 {
			gainers = append(gainers, s)
		} else if s.ChangePercent < 0 {
			losers = append(losers, s)
		}
	}
	sort.SliceStable(gainers, func(i, j int) bool { return gainers[i].ChangePercent > gainers[j].ChangePercent })
	sort.SliceStable(losers, func(i, j int) bool { return losers[i].ChangePercent < losers[j].ChangePercent })
	return Movers{Gainers: top(gainers, limit), Losers: top(losers, limit)}
}

func keep(stocks []Stock, pred func(Stock) bool) []Stock {
	var out []Stock
	for _, s := range stocks {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}

func top[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func filterByPerformance(stocks []Stock, performance string) []Stock {
	switch performance {
	case "Today's Gainers (>5%)":
		return keep(stocks, func(s Stock) bool { return s.ChangePercent > 5 })
	case "Today's Losers (<-5%)":
		return keep(stocks, func(s Stock) bool { return s.ChangePercent < -5 })
	case "Weekly Gainers (>10%)":
		return keep(stocks, func(s Stock) bool { return s.ChangePercent > 10 })
	case "Weekly Losers (<-10%)":
		return keep(stocks, func(s Stock) bool { return s.ChangePercent < -10 })
	case "Monthly Winners (>20%)":
		return keep(stocks, func(s Stock) bool { return s.Returns != nil && s.Returns.OneMonth > 20 })
	case "Monthly Losers (<-20%)":
		return keep(stocks, func(s Stock) bool { return s.Returns != nil && s.Returns.OneMonth < -20 })
	case "YTD Winners (>50%)":
		return keep(stocks, func(s Stock) bool { return s.Returns != nil && s.Returns.OneYear > 50 })
	case "YTD Losers (<-50%)":
		return keep(stocks, func(s Stock) bool { return s.Returns != nil && s.Returns.OneYear < -50 })
	}
	return stocks
}

func filterByPE(stocks []Stock, peFilter string) []Stock {
	switch peFilter {
	case "Low P/E (<15)":
		return keep(stocks, func(s Stock) bool { return s.PE != nil && *s.PE < 15 })
	case "Medium P/E (15-25)":
		return keep(stocks, func(s Stock) bool { return s.PE != nil && *s.PE >= 15 && *s.PE <= 25 })
	case "High P/E (>25)":
		return keep(stocks, func(s Stock) bool { return s.PE != nil && *s.PE > 25 })
	}
	return stocks
}

func filterByDividend(stocks []Stock, dividendFilter string) []Stock {
	switch dividendFilter {
	case "Dividend Stocks":
		return keep(stocks, func(s Stock) bool { return s.DividendYield != nil && *s.DividendYield > 0 })
	case "No Dividend":
		return keep(stocks, func(s Stock) bool { return s.DividendYield == nil || *s.DividendYield == 0 })
	}
	return stocks
}

func ptr(v float64) *float64 { return &v }

// seedStocks is the built-in instrument table.
func seedStocks() []Stock {
	return []Stock{
		{
			Symbol: "AAPL", Name: "Apple Inc.", Price: 182.52, Change: 2.31, ChangePercent: 1.28,
			Volume: "52.4M", MarketCap: "2.85T", PE: ptr(29.8), DividendYield: ptr(0.5),
			Sector: "Technology", IsGainer: true, NewsSummary: "Strong iPhone sales, AI momentum",
			Returns: &Returns{OneMonth: 3.2, SixMonth: 12.7, OneYear: 18.4}, EarningsDate: "Jan 25, 2024",
			Risk: domain.RiskMedium,
			News: []NewsItem{{
				Title: "Apple unveils new iPhone 15 Pro with titanium design", Source: "TechCrunch", Time: "2h ago",
				Summary: "Apple's latest flagship phone features a titanium build and improved camera system.",
			}},
		},
		{
			Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 138.21, Change: 1.82, ChangePercent: 1.33,
			Volume: "28.1M", MarketCap: "1.75T", PE: ptr(27.3),
			Sector: "Communication Services", IsGainer: true, NewsSummary: "Search dominance, AI investments",
			Returns: &Returns{OneMonth: 4.1, SixMonth: 15.3, OneYear: 22.8},
			Risk:    domain.RiskMedium,
			News: []NewsItem{{
				Title: "Google Search updates combat AI-generated content", Source: "Search Engine Land", Time: "2h ago",
				Summary: "New algorithm updates aim to prioritize authentic content.",
			}},
		},
		{
			Symbol: "TSLA", Name: "Tesla, Inc.", Price: 238.77, Change: -8.32, ChangePercent: -3.37,
			Volume: "89.7M", MarketCap: "759.8B", PE: ptr(73.2),
			Sector: "Consumer Discretionary", IsGainer: false, NewsSummary: "Production delays, competition fears",
			Returns: &Returns{OneMonth: -5.2, SixMonth: 8.1, OneYear: 45.2},
			Risk:    domain.RiskHigh,
			News: []NewsItem{{
				Title: "Tesla recalls Model S vehicles over brake concerns", Source: "CNN Business", Time: "1h ago",
				Summary: "NHTSA investigation prompts voluntary recall affecting thousands.",
			}},
		},
		{
			Symbol: "AMZN", Name: "Amazon.com, Inc.", Price: 144.05, Change: 1.88, ChangePercent: 1.32,
			Volume: "44.3M", MarketCap: "1.50T", PE: ptr(45.6),
			Sector: "Consumer Discretionary", IsGainer: true, NewsSummary: "AWS growth, retail margins up",
			Returns: &Returns{OneMonth: 2.8, SixMonth: 18.9, OneYear: 31.7},
			Risk:    domain.RiskMedium,
			News: []NewsItem{{
				Title: "Amazon Prime Day breaks sales records", Source: "CNBC", Time: "3h ago",
				Summary: "Annual shopping event generates record revenue.",
			}},
		},
		{
			Symbol: "NVDA", Name: "NVIDIA Corporation", Price: 722.48, Change: 12.63, ChangePercent: 1.78,
			Volume: "38.9M", MarketCap: "1.78T", PE: ptr(65.4),
			Sector: "Technology", IsGainer: true, NewsSummary: "AI chip demand, data center growth",
			Returns: &Returns{OneMonth: 8.9, SixMonth: 42.1, OneYear: 218.6},
			Risk:    domain.RiskHigh,
			News: []NewsItem{{
				Title: "NVIDIA announces next-generation AI accelerators", Source: "Reuters", Time: "4h ago",
				Summary: "New chips target large language model training workloads.",
			}},
		},
		{
			Symbol: "JPM", Name: "JPMorgan Chase & Co.", Price: 154.23, Change: -0.87, ChangePercent: -0.56,
			Volume: "11.2M", MarketCap: "445.1B", PE: ptr(10.8), DividendYield: ptr(2.7),
			Sector: "Financial Services", IsGainer: false, NewsSummary: "Rate environment favorable, deposits stable",
			Returns: &Returns{OneMonth: 1.1, SixMonth: 6.4, OneYear: 12.3},
			Risk:    domain.RiskLow,
			News: []NewsItem{{
				Title: "JPMorgan beats earnings expectations on trading revenue", Source: "Bloomberg", Time: "5h ago",
				Summary: "Strong quarter driven by fixed income trading desk.",
			}},
		},
		{
			Symbol: "JNJ", Name: "Johnson & Johnson", Price: 161.42, Change: 0.34, ChangePercent: 0.21,
			Volume: "6.8M", MarketCap: "388.6B", PE: ptr(15.2), DividendYield: ptr(3.0),
			Sector: "Healthcare", IsGainer: true, NewsSummary: "Pipeline progress, dividend stability",
			Returns: &Returns{OneMonth: 0.8, SixMonth: 3.2, OneYear: 5.9},
			Risk:    domain.RiskLow,
			News: []NewsItem{{
				Title: "J&J oncology drug shows promise in late-stage trial", Source: "STAT News", Time: "6h ago",
				Summary: "Promising results in Phase 3 trials for new oncology drug.",
			}},
		},
	}
}
