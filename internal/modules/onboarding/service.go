package onboarding

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// totalQuestions is the size of the current onboarding form; the completion
// score is answered/total.
const totalQuestions = 16

var requiredFields = []string{"user_type", "sector_interests", "primary_goal", "risk_tolerance"}

// Service captures onboarding submissions and derives the personalization
// profile from them.
type Service struct {
	repo  *Repository
	clock func() time.Time
	log   zerolog.Logger
}

// NewService creates a new onboarding service.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		clock: time.Now,
		log:   log.With().Str("service", "onboarding").Logger(),
	}
}

// SetClock overrides the time source. Test hook.
func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Submit validates and stores a submission. A skipped submission bypasses
// the required-field check and gets the minimal completion score.
func (s *Service) Submit(userID string, data Submission) (*SubmitResult, error) {
	if data == nil {
		data = Submission{}
	}

	if !data.boolean("skipped") {
		var missing []string
		for _, field := range requiredFields {
			if !data.has(field) {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: missing required fields: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
		}
	}

	now := s.clock().UTC()
	rec := &Record{
		UserID:       userID,
		OnboardingID: uuid.NewString(),
		Data:         data,
		CompletedAt:  now,
		UpdatedAt:    now,
	}
	if err := s.repo.Save(rec); err != nil {
		return nil, err
	}

	insights := deriveInsights(data)
	s.log.Info().Str("user_id", userID).Str("risk_profile", insights.RiskProfile).Msg("Onboarding saved")
	return &SubmitResult{
		OnboardingID:         rec.OnboardingID,
		Insights:             insights,
		PersonalizationReady: true,
	}, nil
}

// Get returns the stored record with freshly derived insights.
func (s *Service) Get(userID string) (*Record, *Insights, error) {
	rec, err := s.repo.Get(userID)
	if err != nil {
		return nil, nil, err
	}
	insights := deriveInsights(rec.Data)
	return rec, &insights, nil
}

// UpdatePreferences merges new answers into an existing submission.
func (s *Service) UpdatePreferences(userID string, updates Submission) (*Record, *Insights, error) {
	rec, err := s.repo.Get(userID)
	if err != nil {
		return nil, nil, err
	}

	for k, v := range updates {
		rec.Data[k] = v
	}
	rec.UpdatedAt = s.clock().UTC()
	if err := s.repo.Save(rec); err != nil {
		return nil, nil, err
	}

	insights := deriveInsights(rec.Data)
	return rec, &insights, nil
}

// Personalization builds the frontend configuration. Unknown users get the
// moderate defaults.
func (s *Service) Personalization(userID string) (*Personalization, error) {
	rec, err := s.repo.Get(userID)
	if err != nil {
		return defaultPersonalization(), nil
	}

	insights := deriveInsights(rec.Data)
	frequency := "quarterly"
	if insights.RiskProfile == string(domain.ToleranceConservative) {
		frequency = "monthly"
	}

	return &Personalization{
		NewsSources: recommendedNewsSources(rec.Data),
		StockFilters: StockFilters{
			Sectors:   rec.Data.list("sector_interests"),
			RiskLevel: insights.RiskProfile,
			Themes:    rec.Data.list("investment_themes"),
		},
		AISettings: AISettings{
			InvolvementLevel: rec.Data.str("ai_involvement", "advisory"),
			Notifications:    rec.Data.list("notification_preferences"),
			ResearchDepth:    rec.Data.str("research_depth", "balanced"),
		},
		PortfolioSuggestions: PortfolioSuggestions{
			Allocation:           insights.RecommendedAllocation,
			RebalancingFrequency: frequency,
		},
	}, nil
}

func deriveInsights(data Submission) Insights {
	riskProfile := riskProfileFor(data)
	return Insights{
		RiskProfile:           riskProfile,
		InvestmentStyle:       investmentStyleFor(data),
		AIAssistanceLevel:     data.str("ai_involvement", "advisory"),
		SectorFocus:           data.list("sector_interests"),
		RecommendedAllocation: suggestedAllocation(riskProfile, data),
		OnboardingScore:       completionScore(data),
	}
}

// riskProfileFor buckets a composite score: the 1-10 tolerance answer plus
// adjustments for loss comfort and target return.
func riskProfileFor(data Submission) string {
	score := data.number("risk_tolerance", 5)

	switch data.str("loss_comfort", "stay-calm") {
	case "panic-sell":
		score -= 2
	case "worry-hold":
		score += 0
	case "stay-calm":
		score += 2
	case "buy-more":
		score += 4
	}

	switch data.str("target_return", "moderate") {
	case "conservative":
		score--
	case "moderate":
		score++
	case "aggressive":
		score += 3
	case "speculative":
		score += 5
	}

	switch {
	case score <= 6:
		return string(domain.ToleranceConservative)
	case score <= 12:
		return string(domain.ToleranceModerate)
	default:
		return string(domain.ToleranceAggressive)
	}
}

func investmentStyleFor(data Submission) string {
	userType := data.str("user_type", "intermediate")
	goal := data.str("primary_goal", "wealth-building")
	timeline := data.str("investment_timeline", "medium")

	switch {
	case userType == "beginner" || goal == "learning":
		return "educational"
	case goal == "income" || timeline == "short":
		return "income-focused"
	case goal == "retirement" || timeline == "long":
		return "growth-focused"
	default:
		return "balanced"
	}
}

// suggestedAllocation starts from the risk-profile split and shifts small
// accounts ten points toward stocks for growth.
func suggestedAllocation(riskProfile string, data Submission) Allocation {
	var alloc Allocation
	switch riskProfile {
	case string(domain.ToleranceConservative):
		alloc = Allocation{Stocks: 40, Bonds: 50, Cash: 10}
	case string(domain.ToleranceAggressive):
		alloc = Allocation{Stocks: 80, Bonds: 15, Cash: 5}
	default:
		alloc = Allocation{Stocks: 60, Bonds: 30, Cash: 10}
	}

	if data.str("investment_amount", "medium") == "small" {
		alloc.Stocks += 10
		alloc.Bonds -= 10
	}
	return alloc
}

func completionScore(data Submission) float64 {
	if data.boolean("skipped") {
		return 25
	}
	answered := 0
	for key := range data {
		if data.has(key) {
			answered++
		}
	}
	score := float64(answered) / totalQuestions * 100
	if score > 100 {
		score = 100
	}
	return score
}

func recommendedNewsSources(data Submission) []string {
	sectors := data.list("sector_interests")
	themes := data.list("investment_themes")

	contains := func(list []string, v string) bool {
		for _, item := range list {
			if item == v {
				return true
			}
		}
		return false
	}

	set := map[string]bool{"Reuters": true, "Yahoo Finance": true}
	if contains(sectors, "technology") || contains(themes, "ai") {
		set["TechCrunch"] = true
		set["Ars Technica"] = true
	}
	if contains(sectors, "healthcare") || contains(themes, "genomics") {
		set["BioPharma Dive"] = true
		set["STAT News"] = true
	}
	if contains(sectors, "financial") || contains(themes, "fintech") {
		set["Financial Times"] = true
		set["American Banker"] = true
	}

	sources := make([]string, 0, len(set))
	for source := range set {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

func defaultPersonalization() *Personalization {
	return &Personalization{
		NewsSources: []string{"Reuters", "Yahoo Finance"},
		StockFilters: StockFilters{
			Sectors:   []string{"technology", "healthcare", "financial"},
			RiskLevel: string(domain.ToleranceModerate),
			Themes:    []string{},
		},
		AISettings: AISettings{
			InvolvementLevel: "advisory",
			Notifications:    []string{"major-moves", "earnings"},
			ResearchDepth:    "balanced",
		},
		PortfolioSuggestions: PortfolioSuggestions{
			Allocation:           Allocation{Stocks: 60, Bonds: 30, Cash: 10},
			RebalancingFrequency: "quarterly",
		},
	}
}
