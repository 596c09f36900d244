package agent

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// QueueSource exposes the queue entries the generator needs, without pulling
// in the queue module itself.
type QueueSource interface {
	Entries(userID string) ([]QueueEntry, error)
}

// Service ties the profile store, behavior store, generator and chat
// responder together behind the advisory API.
type Service struct {
	profiles  *ProfileRepository
	behaviors *BehaviorStore
	generator *Generator
	queues    QueueSource
	stream    *Broadcaster
	clock     func() time.Time
	log       zerolog.Logger
}

// NewService creates the advisory service. queues and stream may be nil in
// tests that only exercise profile or swipe paths.
func NewService(profiles *ProfileRepository, behaviors *BehaviorStore, generator *Generator, queues QueueSource, stream *Broadcaster, log zerolog.Logger) *Service {
	return &Service{
		profiles:  profiles,
		behaviors: behaviors,
		generator: generator,
		queues:    queues,
		stream:    stream,
		clock:     time.Now,
		log:       log.With().Str("service", "agent").Logger(),
	}
}

// SetClock overrides the time source. Test hook.
func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

// SetupProfile validates and stores an advisory profile, creating the user's
// behavior record alongside it so swipes and interventions work immediately.
func (s *Service) SetupProfile(userID string, params ProfileParams) (*Profile, error) {
	if _, err := domain.ParseRiskTolerance(string(params.RiskTolerance)); err != nil {
		return nil, err
	}
	if _, err := domain.ParseTimeHorizon(string(params.TimeHorizon)); err != nil {
		return nil, err
	}
	if params.MaxSectorConcentration <= 0 || params.MaxSectorConcentration > 100 {
		return nil, fmt.Errorf("%w: max sector concentration must be in (0, 100]", domain.ErrInvalidInput)
	}

	now := s.clock().UTC()
	profile := &Profile{
		ID:                     uuid.NewString(),
		UserID:                 userID,
		RiskTolerance:          params.RiskTolerance,
		TimeHorizon:            params.TimeHorizon,
		InvestmentGoals:        params.InvestmentGoals,
		PreferredSectors:       params.PreferredSectors,
		ExcludedSectors:        params.ExcludedSectors,
		MaxSectorConcentration: params.MaxSectorConcentration,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if existing, err := s.profiles.Get(userID); err == nil {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	}

	if err := s.profiles.Save(profile); err != nil {
		return nil, err
	}
	if err := s.behaviors.Ensure(userID); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Str("risk_tolerance", string(profile.RiskTolerance)).Msg("Advisory profile saved")
	return profile, nil
}

// Profile returns the stored advisory profile.
func (s *Service) Profile(userID string) (*Profile, error) {
	return s.profiles.Get(userID)
}

// TrackSwipe records a swipe and, when new interventions result, pushes them
// to any connected stream subscribers.
func (s *Service) TrackSwipe(userID string, event SwipeEvent) error {
	if err := s.behaviors.RecordSwipe(userID, event); err != nil {
		return err
	}

	if s.stream != nil {
		if interventions, err := s.Interventions(userID); err == nil && len(interventions) > 0 {
			s.stream.Publish(userID, StreamEvent{Type: "interventions", Interventions: interventions})
		}
	}
	return nil
}

// Interventions evaluates the advisory checks against the user's current
// profile, behavior and queue. Users without a profile or behavior record get
// an empty list; the advisory surface degrades, it does not error.
func (s *Service) Interventions(userID string) ([]Intervention, error) {
	profile, err := s.profiles.Get(userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	behavior, _ := s.behaviors.Get(userID)

	var queue []QueueEntry
	if s.queues != nil {
		queue, err = s.queues.Entries(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load queue: %w", err)
		}
	}

	return s.generator.Generate(profile, behavior, queue), nil
}

// Insights returns the derived behavior summary.
func (s *Service) Insights(userID string) (*Insights, error) {
	behavior, ok := s.behaviors.Get(userID)
	if !ok {
		return nil, fmt.Errorf("%w: behavior record for user %s", domain.ErrNotFound, userID)
	}
	insights := DeriveInsights(behavior)
	return &insights, nil
}

// Chat answers a free-text question from the rule table. Users without a
// profile or behavior record get answers from the neutral defaults, and any
// panic inside the responder degrades to the generic fallback rather than a
// 500.
func (s *Service) Chat(userID, message string) (reply string, err error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}

	profile, err := s.profiles.Get(userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	behavior, _ := s.behaviors.Get(userID)
	insights := DeriveInsights(behavior)

	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("user_id", userID).Msg("Chat responder panicked")
			reply, err = fallbackChatMessage, nil
		}
	}()
	return Respond(message, profile, insights), nil
}

// Stream returns the intervention broadcaster for transport wiring.
func (s *Service) Stream() *Broadcaster {
	return s.stream
}
