package onboarding

import "time"

// Submission is the raw onboarding form payload. The form evolves on the
// client side, so answers stay schemaless and are interpreted through the
// typed accessors below.
type Submission map[string]interface{}

func (s Submission) str(key, fallback string) string {
	if v, ok := s[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func (s Submission) number(key string, fallback float64) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}

func (s Submission) boolean(key string) bool {
	v, ok := s[key].(bool)
	return ok && v
}

func (s Submission) list(key string) []string {
	raw, ok := s[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func (s Submission) has(key string) bool {
	v, ok := s[key]
	if !ok || v == nil {
		return false
	}
	if list, ok := v.([]interface{}); ok {
		return len(list) > 0
	}
	return true
}

// Record is a stored onboarding submission.
type Record struct {
	UserID       string     `json:"userId"`
	OnboardingID string     `json:"onboardingId"`
	Data         Submission `json:"data"`
	CompletedAt  time.Time  `json:"completedAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Allocation is the suggested {stocks, bonds, cash} split in percent.
type Allocation struct {
	Stocks float64 `json:"stocks"`
	Bonds  float64 `json:"bonds"`
	Cash   float64 `json:"cash"`
}

// Insights is what the rest of the app consumes from onboarding.
type Insights struct {
	RiskProfile           string     `json:"riskProfile"`
	InvestmentStyle       string     `json:"investmentStyle"`
	AIAssistanceLevel     string     `json:"aiAssistanceLevel"`
	SectorFocus           []string   `json:"sectorFocus"`
	RecommendedAllocation Allocation `json:"recommendedAllocation"`
	OnboardingScore       float64    `json:"onboardingScore"`
}

// SubmitResult is returned from a successful submission.
type SubmitResult struct {
	OnboardingID         string   `json:"onboardingId"`
	Insights             Insights `json:"insights"`
	PersonalizationReady bool     `json:"personalizationReady"`
}

// StockFilters narrows discovery surfaces to the user's interests.
type StockFilters struct {
	Sectors   []string `json:"sectors"`
	RiskLevel string   `json:"riskLevel"`
	Themes    []string `json:"themes"`
}

// AISettings tunes how pushy the advisory layer is.
type AISettings struct {
	InvolvementLevel string   `json:"involvementLevel"`
	Notifications    []string `json:"notifications"`
	ResearchDepth    string   `json:"researchDepth"`
}

// PortfolioSuggestions seeds the portfolio page.
type PortfolioSuggestions struct {
	Allocation           Allocation `json:"allocation"`
	RebalancingFrequency string     `json:"rebalancingFrequency"`
}

// Personalization is the frontend configuration derived from onboarding.
type Personalization struct {
	NewsSources          []string             `json:"newsSources"`
	StockFilters         StockFilters         `json:"stockFilters"`
	AISettings           AISettings           `json:"aiSettings"`
	PortfolioSuggestions PortfolioSuggestions `json:"portfolioSuggestions"`
}
