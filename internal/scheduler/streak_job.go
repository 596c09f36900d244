package scheduler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/modules/agent"
)

// StreakJob maintains per-user activity streaks. Users who swiped within the
// last day extend their streak; everyone else resets to zero.
type StreakJob struct {
	behaviors *agent.BehaviorStore
	clock     func() time.Time
	log       zerolog.Logger
}

// NewStreakJob creates the daily streak maintenance job.
func NewStreakJob(behaviors *agent.BehaviorStore, log zerolog.Logger) *StreakJob {
	return &StreakJob{
		behaviors: behaviors,
		clock:     time.Now,
		log:       log.With().Str("job", "streaks").Logger(),
	}
}

// SetClock overrides the time source. Test hook.
func (j *StreakJob) SetClock(clock func() time.Time) {
	j.clock = clock
}

// Name implements Job.
func (j *StreakJob) Name() string { return "streaks" }

// Run implements Job.
func (j *StreakJob) Run() error {
	cutoff := j.clock().Add(-24 * time.Hour)
	extended, reset := 0, 0

	for _, userID := range j.behaviors.UserIDs() {
		rec, ok := j.behaviors.Get(userID)
		if !ok {
			continue
		}

		days := 0
		if rec.LastActivity.After(cutoff) {
			days = rec.StreakDays + 1
			extended++
		} else if rec.StreakDays == 0 {
			continue
		} else {
			reset++
		}

		if err := j.behaviors.SetStreak(userID, days); err != nil {
			j.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to update streak")
		}
	}

	j.log.Info().Int("extended", extended).Int("reset", reset).Msg("Streaks updated")
	return nil
}
