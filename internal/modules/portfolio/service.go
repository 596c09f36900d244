package portfolio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/market"
)

// Service manages holdings and portfolio analytics on top of the optimizer.
type Service struct {
	repo      *Repository
	catalogue *market.Catalogue
	optimizer *Optimizer
	estimator Estimator
	clock     func() time.Time
	log       zerolog.Logger
}

// NewService creates a new portfolio service.
func NewService(repo *Repository, catalogue *market.Catalogue, optimizer *Optimizer, estimator Estimator, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		catalogue: catalogue,
		optimizer: optimizer,
		estimator: estimator,
		clock:     time.Now,
		log:       log.With().Str("service", "portfolio").Logger(),
	}
}

// SetClock overrides the time source. Test hook.
func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Optimize builds an allocation plan.
func (s *Service) Optimize(amount float64, tolerance domain.RiskTolerance, preferredSectors []string) (*AllocationPlan, error) {
	return s.optimizer.Optimize(amount, tolerance, preferredSectors)
}

// Holdings returns the user's positions joined with live catalogue prices.
func (s *Service) Holdings(userID string) ([]HoldingView, error) {
	holdings, err := s.repo.List(userID)
	if err != nil {
		return nil, err
	}

	views := make([]HoldingView, 0, len(holdings))
	for _, h := range holdings {
		stock, err := s.catalogue.Get(h.Symbol)
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Str("symbol", h.Symbol).Msg("Held symbol missing from catalogue")
			continue
		}
		if err != nil {
			return nil, err
		}

		value := h.Shares * stock.Price
		cost := h.Shares * h.AvgCost
		view := HoldingView{
			Holding:       h,
			Name:          stock.Name,
			Sector:        stock.Sector,
			Price:         stock.Price,
			Value:         value,
			GainLoss:      value - cost,
			ChangePercent: stock.ChangePercent,
		}
		if cost > 0 {
			view.GainLossPct = (value - cost) / cost * 100
		}
		views = append(views, view)
	}
	return views, nil
}

// AddHolding buys or sells shares. Buying into an existing position merges
// at the blended average cost; negative shares sell down and close the
// position when it reaches zero.
func (s *Service) AddHolding(userID, symbol string, shares, price float64) (*Holding, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", domain.ErrInvalidInput)
	}
	if shares == 0 {
		return nil, fmt.Errorf("%w: shares must be non-zero", domain.ErrInvalidInput)
	}

	stock, err := s.catalogue.Get(symbol)
	if err != nil {
		return nil, err
	}
	if price <= 0 {
		price = stock.Price
	}

	now := s.clock().UTC()
	existing, err := s.repo.Get(userID, symbol)
	if errors.Is(err, domain.ErrNotFound) {
		if shares < 0 {
			return nil, fmt.Errorf("%w: cannot sell %s", domain.ErrNotFound, symbol)
		}
		holding := &Holding{UserID: userID, Symbol: symbol, Shares: shares, AvgCost: price, UpdatedAt: now}
		if err := s.repo.Save(holding); err != nil {
			return nil, err
		}
		return holding, nil
	}
	if err != nil {
		return nil, err
	}

	if shares < 0 {
		remaining := existing.Shares + shares
		if remaining < 0 {
			return nil, fmt.Errorf("%w: cannot sell %.4f shares of %s, only %.4f held",
				domain.ErrInvalidInput, -shares, symbol, existing.Shares)
		}
		if remaining == 0 {
			if err := s.repo.Delete(userID, symbol); err != nil {
				return nil, err
			}
			return &Holding{UserID: userID, Symbol: symbol, UpdatedAt: now}, nil
		}
		// Selling keeps the average cost of the remaining shares.
		existing.Shares = remaining
		existing.UpdatedAt = now
		if err := s.repo.Save(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	totalCost := existing.Shares*existing.AvgCost + shares*price
	existing.Shares += shares
	existing.AvgCost = totalCost / existing.Shares
	existing.UpdatedAt = now
	if err := s.repo.Save(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// RemoveHolding closes a position entirely.
func (s *Service) RemoveHolding(userID, symbol string) error {
	return s.repo.Delete(userID, strings.ToUpper(strings.TrimSpace(symbol)))
}

// Execute applies an allocation plan: every recommended instrument becomes
// a buy at the current catalogue price.
func (s *Service) Execute(userID string, plan *AllocationPlan) ([]Holding, error) {
	if plan == nil || len(plan.RecommendedInstruments) == 0 {
		return nil, fmt.Errorf("%w: plan has no instruments", domain.ErrInvalidInput)
	}

	applied := make([]Holding, 0, len(plan.RecommendedInstruments))
	for _, rec := range plan.RecommendedInstruments {
		if rec.ShareCount <= 0 {
			continue
		}
		holding, err := s.AddHolding(userID, rec.Symbol, rec.ShareCount, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to apply plan for %s: %w", rec.Symbol, err)
		}
		applied = append(applied, *holding)
	}
	s.log.Info().Str("user_id", userID).Int("positions", len(applied)).Msg("Allocation plan executed")
	return applied, nil
}

// AnalyticsFor summarizes the user's portfolio. Dividend yield is value
// weighted and guarded against an empty portfolio.
func (s *Service) AnalyticsFor(userID string, tolerance domain.RiskTolerance) (*Analytics, error) {
	views, err := s.Holdings(userID)
	if err != nil {
		return nil, err
	}

	analytics := &Analytics{
		SectorAllocation: make(map[string]float64),
		Holdings:         len(views),
		RiskScore:        s.estimator.RiskScore(tolerance),
	}
	if len(views) == 0 {
		return analytics, nil
	}

	values := make([]float64, len(views))
	yields := make([]float64, len(views))
	for i, v := range views {
		values[i] = v.Value
		analytics.DayChange += v.Value * v.ChangePercent / 100
		if stock, err := s.catalogue.Get(v.Symbol); err == nil && stock.DividendYield != nil {
			yields[i] = *stock.DividendYield
		}
	}

	total := floats.Sum(values)
	analytics.TotalValue = total
	if total > 0 {
		analytics.DayChangePct = analytics.DayChange / total * 100
		analytics.DividendYield = floats.Dot(values, yields) / total
		for _, v := range views {
			analytics.SectorAllocation[v.Sector] += v.Value / total * 100
		}
	}
	return analytics, nil
}
