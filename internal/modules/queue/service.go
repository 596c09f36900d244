package queue

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

// Service manages the per-user investment queue. Symbols are validated
// against the catalogue on the way in, so downstream consumers can trust
// every queued symbol resolves.
type Service struct {
	repo      *Repository
	catalogue *market.Catalogue
	clock     func() time.Time
	log       zerolog.Logger
}

// NewService creates a new queue service.
func NewService(repo *Repository, catalogue *market.Catalogue, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		catalogue: catalogue,
		clock:     time.Now,
		log:       log.With().Str("service", "queue").Logger(),
	}
}

// SetClock overrides the time source. Test hook.
func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Add queues a symbol. Re-adding an already queued symbol updates its
// confidence instead of duplicating it.
func (s *Service) Add(userID, symbol string, confidence domain.Confidence) (*Item, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", domain.ErrInvalidInput)
	}
	if _, err := domain.ParseConfidence(string(confidence)); err != nil {
		return nil, err
	}
	if _, err := s.catalogue.Get(symbol); err != nil {
		return nil, err
	}

	if existing, err := s.repo.Get(userID, symbol); err == nil {
		if err := s.repo.UpdateConfidence(userID, symbol, confidence); err != nil {
			return nil, err
		}
		existing.Confidence = confidence
		s.log.Debug().Str("user_id", userID).Str("symbol", symbol).Msg("Queue confidence updated")
		return existing, nil
	}

	item := &Item{
		ID:         uuid.NewString(),
		UserID:     userID,
		Symbol:     symbol,
		Confidence: confidence,
		AddedAt:    s.clock().UTC(),
	}
	if err := s.repo.Insert(item); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Str("symbol", symbol).Msg("Symbol queued")
	return item, nil
}

// List returns the queue in user order.
func (s *Service) List(userID string) ([]Item, error) {
	return s.repo.List(userID)
}

// Enriched returns the queue joined with catalogue snapshots. Symbols that
// have left the catalogue are skipped.
func (s *Service) Enriched(userID string) ([]EnrichedItem, error) {
	items, err := s.repo.List(userID)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedItem, 0, len(items))
	for _, item := range items {
		stock, err := s.catalogue.Get(item.Symbol)
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Str("symbol", item.Symbol).Msg("Queued symbol missing from catalogue")
			continue
		}
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, EnrichedItem{Item: item, Stock: stock})
	}
	return enriched, nil
}

// Remove deletes one symbol from the queue.
func (s *Service) Remove(userID, symbol string) error {
	return s.repo.Delete(userID, strings.ToUpper(strings.TrimSpace(symbol)))
}

// Clear empties the queue.
func (s *Service) Clear(userID string) error {
	return s.repo.Clear(userID)
}

// Reorder applies a caller-supplied symbol ordering.
func (s *Service) Reorder(userID string, symbols []string) ([]Item, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: order is required", domain.ErrInvalidInput)
	}
	normalized := make([]string, len(symbols))
	for i, symbol := range symbols {
		normalized[i] = strings.ToUpper(strings.TrimSpace(symbol))
	}
	if err := s.repo.Reorder(userID, normalized); err != nil {
		return nil, err
	}
	return s.repo.List(userID)
}

// StatsFor aggregates the queue by confidence and real catalogue sector.
func (s *Service) StatsFor(userID string) (*Stats, error) {
	items, err := s.repo.List(userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:        len(items),
		ByConfidence: make(map[domain.Confidence]int),
		BySector:     make(map[string]int),
	}
	priced := 0
	for _, item := range items {
		stats.ByConfidence[item.Confidence]++
		if sector, ok := s.catalogue.SectorOf(item.Symbol); ok {
			stats.BySector[sector]++
		}
		if stock, err := s.catalogue.Get(item.Symbol); err == nil {
			stats.TotalValue += stock.Price
			priced++
		}
		if stats.OldestAdded == nil || item.AddedAt.Before(*stats.OldestAdded) {
			added := item.AddedAt
			stats.OldestAdded = &added
		}
	}
	stats.Sectors = len(stats.BySector)
	if priced > 0 {
		stats.AvgPrice = stats.TotalValue / float64(priced)
	}
	return stats, nil
}
