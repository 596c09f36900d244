package agent

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// BehaviorStore owns all per-user behavior records. Every read-modify-write
// sequence runs under that user's lock so concurrent swipes from the same
// user cannot lose updates; operations on different users do not contend.
type BehaviorStore struct {
	mu      sync.RWMutex
	records map[string]*BehaviorRecord
	locks   map[string]*sync.Mutex
	repo    *BehaviorRepository // nil in pure in-memory use (tests)
	clock   func() time.Time
	log     zerolog.Logger
}

// NewBehaviorStore creates a store. When repo is non-nil, previously
// persisted records are loaded and every mutation is written back.
func NewBehaviorStore(repo *BehaviorRepository, log zerolog.Logger) (*BehaviorStore, error) {
	s := &BehaviorStore{
		records: make(map[string]*BehaviorRecord),
		locks:   make(map[string]*sync.Mutex),
		repo:    repo,
		clock:   time.Now,
		log:     log.With().Str("service", "behavior_store").Logger(),
	}

	if repo != nil {
		records, err := repo.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to load behavior records: %w", err)
		}
		for _, rec := range records {
			s.records[rec.UserID] = rec
			s.locks[rec.UserID] = &sync.Mutex{}
		}
		s.log.Info().Int("records", len(records)).Msg("Behavior records loaded")
	}

	return s, nil
}

// SetClock overrides the time source. Test hook.
func (s *BehaviorStore) SetClock(clock func() time.Time) {
	s.clock = clock
}

// userLock returns (creating if needed) the mutex guarding one user's record.
func (s *BehaviorStore) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// RecordSwipe validates the event and folds it into the user's record,
// creating the record on first contact. Malformed actions or risk levels are
// rejected with ErrInvalidInput.
func (s *BehaviorStore) RecordSwipe(userID string, event SwipeEvent) error {
	if _, err := domain.ParseSwipeAction(string(event.Action)); err != nil {
		return err
	}
	if _, err := domain.ParseRiskLevel(string(event.Risk)); err != nil {
		return err
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	now := s.clock()

	s.mu.Lock()
	rec, ok := s.records[userID]
	if !ok {
		rec = newBehaviorRecord(userID, now)
		s.records[userID] = rec
	}
	s.mu.Unlock()

	applySwipe(rec, event, now)

	s.log.Debug().
		Str("user_id", userID).
		Str("symbol", event.Symbol).
		Str("action", string(event.Action)).
		Msg("Tracked swipe")

	return s.persist(rec)
}

// Ensure creates an empty behavior record for a user if none exists.
func (s *BehaviorStore) Ensure(userID string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	rec, ok := s.records[userID]
	if !ok {
		rec = newBehaviorRecord(userID, s.clock())
		s.records[userID] = rec
	}
	s.mu.Unlock()

	if ok {
		return nil
	}
	return s.persist(rec)
}

// Get returns a deep-copied snapshot of the user's record, or false when the
// user has no behavioral history.
func (s *BehaviorStore) Get(userID string) (*BehaviorRecord, bool) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	rec, ok := s.records[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return rec.clone(), true
}

// UserIDs lists every user with a behavior record.
func (s *BehaviorStore) UserIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids
}

// SetStreak updates a user's activity streak. Used by the daily maintenance
// job.
func (s *BehaviorStore) SetStreak(userID string, days int) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	rec, ok := s.records[userID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: behavior record for user %s", domain.ErrNotFound, userID)
	}

	rec.StreakDays = days
	return s.persist(rec)
}

func (s *BehaviorStore) persist(rec *BehaviorRecord) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(rec); err != nil {
		return fmt.Errorf("failed to persist behavior record: %w", err)
	}
	return nil
}
