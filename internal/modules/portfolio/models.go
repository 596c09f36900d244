package portfolio

import (
	"time"
)

// RecommendedInstrument is one row of an allocation plan.
type RecommendedInstrument struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Sector            string  `json:"sector"`
	AllocationPercent float64 `json:"allocationPercent"`
	AllocationAmount  float64 `json:"allocationAmount"`
	ShareCount        float64 `json:"shareCount"`
	Reasoning         string  `json:"reasoning"`
}

// Fees breaks down what the platform charges on an invested amount.
type Fees struct {
	PlatformFee   float64 `json:"platformFee"`
	RegulatoryFee float64 `json:"regulatoryFee"`
	TotalFee      float64 `json:"totalFee"`
}

// AllocationPlan is the optimizer's output. Plans are computed fresh per
// request and never persisted.
type AllocationPlan struct {
	RecommendedInstruments []RecommendedInstrument `json:"recommendedInstruments"`
	StockAllocation        float64                 `json:"stockAllocation"`
	BondAllocation         float64                 `json:"bondAllocation"`
	CashAllocation         float64                 `json:"cashAllocation"`
	Fees                   Fees                    `json:"fees"`
	ExpectedReturn         float64                 `json:"expectedReturn"`
	RiskScore              float64                 `json:"riskScore"`
	DiversificationScore   float64                 `json:"diversificationScore"`
}

// Holding is one position in a user's portfolio.
type Holding struct {
	UserID    string    `json:"-"`
	Symbol    string    `json:"symbol"`
	Shares    float64   `json:"shares"`
	AvgCost   float64   `json:"avgCost"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HoldingView is a holding joined with live catalogue data.
type HoldingView struct {
	Holding
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Price         float64 `json:"price"`
	Value         float64 `json:"value"`
	GainLoss      float64 `json:"gainLoss"`
	GainLossPct   float64 `json:"gainLossPct"`
	ChangePercent float64 `json:"changePercent"`
}

// Analytics summarizes a portfolio.
type Analytics struct {
	TotalValue       float64            `json:"totalValue"`
	DayChange        float64            `json:"dayChange"`
	DayChangePct     float64            `json:"dayChangePct"`
	SectorAllocation map[string]float64 `json:"sectorAllocation"`
	DividendYield    float64            `json:"dividendYield"`
	Holdings         int                `json:"holdings"`
	RiskScore        float64            `json:"riskScore"`
}
