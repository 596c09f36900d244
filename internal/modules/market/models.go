package market

import "github.com/swiprhq/swipr/internal/domain"

// NewsItem is a single headline attached to a stock.
type NewsItem struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	Time    string `json:"time"`
	Summary string `json:"summary"`
}

// Returns holds trailing performance figures in percent.
type Returns struct {
	OneMonth float64 `json:"oneMonth"`
	SixMonth float64 `json:"sixMonth"`
	OneYear  float64 `json:"oneYear"`
}

// Stock is a catalogue instrument.
type Stock struct {
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	Price         float64          `json:"price"`
	Change        float64          `json:"change"`
	ChangePercent float64          `json:"changePercent"`
	Volume        string           `json:"volume"`
	MarketCap     string           `json:"marketCap"`
	PE            *float64         `json:"pe,omitempty"`
	DividendYield *float64         `json:"dividendYield,omitempty"`
	Sector        string           `json:"sector"`
	IsGainer      bool             `json:"isGainer"`
	News          []NewsItem       `json:"news"`
	NewsSummary   string           `json:"newsSummary"`
	Returns       *Returns         `json:"returns,omitempty"`
	EarningsDate  string           `json:"earningsDate,omitempty"`
	Risk          domain.RiskLevel `json:"risk"`
}

// Filters narrows catalogue listings. "All" disables a dimension.
type Filters struct {
	Sector      string `json:"sector"`
	MarketCap   string `json:"marketCap"`
	Performance string `json:"performance"`
	PE          string `json:"pe"`
	Dividend    string `json:"dividend"`
}

// SectorPerformance aggregates per-sector catalogue statistics.
type SectorPerformance struct {
	Sector    string   `json:"sector"`
	AvgChange float64  `json:"avgChange"`
	Stocks    int      `json:"stocks"`
	Gainers   []string `json:"gainers"`
	Losers    []string `json:"losers"`
}

// Movers splits the catalogue into today's gainers and losers.
type Movers struct {
	Gainers []Stock `json:"gainers"`
	Losers  []Stock `json:"losers"`
}

// ChartPoint is one bar of the synthesized daily price history.
type ChartPoint struct {
	Day   int     `json:"day"`
	Price float64 `json:"price"`
}

// Chart is the price history of one stock with indicator overlays.
type Chart struct {
	Symbol string       `json:"symbol"`
	Points []ChartPoint `json:"points"`
	SMA20  []float64    `json:"sma20"`
	RSI14  []float64    `json:"rsi14"`
}
