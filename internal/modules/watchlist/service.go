package watchlist

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/market"
)

// Service manages the per-user watchlist.
type Service struct {
	repo      *Repository
	catalogue *market.Catalogue
	clock     func() time.Time
	log       zerolog.Logger
}

// NewService creates a new watchlist service.
func NewService(repo *Repository, catalogue *market.Catalogue, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		catalogue: catalogue,
		clock:     time.Now,
		log:       log.With().Str("service", "watchlist").Logger(),
	}
}

// SetClock overrides the time source. Test hook.
func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Add watches a symbol. Re-adding updates the note and priority.
func (s *Service) Add(userID, symbol, note string, priority domain.Priority) (*Item, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", domain.ErrInvalidInput)
	}
	if priority == "" {
		priority = domain.PriorityMedium
	}
	switch priority {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
	default:
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, priority)
	}
	if _, err := s.catalogue.Get(symbol); err != nil {
		return nil, err
	}

	item := &Item{
		ID:       uuid.NewString(),
		UserID:   userID,
		Symbol:   symbol,
		Note:     strings.TrimSpace(note),
		Priority: priority,
		AddedAt:  s.clock().UTC(),
	}
	if err := s.repo.Upsert(item); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Str("symbol", symbol).Msg("Symbol watched")
	return item, nil
}

// Enriched returns the watchlist joined with catalogue snapshots.
func (s *Service) Enriched(userID string) ([]EnrichedItem, error) {
	items, err := s.repo.List(userID)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedItem, 0, len(items))
	for _, item := range items {
		stock, err := s.catalogue.Get(item.Symbol)
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Str("symbol", item.Symbol).Msg("Watched symbol missing from catalogue")
			continue
		}
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, EnrichedItem{Item: item, Stock: stock})
	}
	return enriched, nil
}

// Remove stops watching a symbol.
func (s *Service) Remove(userID, symbol string) error {
	return s.repo.Delete(userID, strings.ToUpper(strings.TrimSpace(symbol)))
}
