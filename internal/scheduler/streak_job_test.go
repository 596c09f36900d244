package scheduler

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/swiprhq/swipr/internal/database"
	"github.com/swiprhq/swipr/internal/domain"
	"github.com/swiprhq/swipr/internal/modules/agent"
)

func newTestStore(t *testing.T) *agent.BehaviorStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.InitSchema(db))

	store, err := agent.NewBehaviorStore(agent.NewBehaviorRepository(db, zerolog.Nop()), zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestStreakJob(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC)

	// active yesterday evening, streak should extend
	store.SetClock(func() time.Time { return now.Add(-12 * time.Hour) })
	require.NoError(t, store.RecordSwipe("active", agent.SwipeEvent{
		Symbol: "AAPL", Action: domain.ActionQueue, Sector: "Technology", Risk: domain.RiskMedium,
	}))
	require.NoError(t, store.SetStreak("active", 4))

	// last seen three days ago with a running streak, should reset
	store.SetClock(func() time.Time { return now.Add(-72 * time.Hour) })
	require.NoError(t, store.RecordSwipe("idle", agent.SwipeEvent{
		Symbol: "XOM", Action: domain.ActionSkip, Sector: "Energy", Risk: domain.RiskLow,
	}))
	require.NoError(t, store.SetStreak("idle", 9))

	// never swiped, streak already zero, left alone
	store.SetClock(func() time.Time { return now.Add(-72 * time.Hour) })
	require.NoError(t, store.Ensure("dormant"))

	job := NewStreakJob(store, zerolog.Nop())
	job.SetClock(func() time.Time { return now })
	require.NoError(t, job.Run())

	active, ok := store.Get("active")
	require.True(t, ok)
	assert.Equal(t, 5, active.StreakDays)

	idle, ok := store.Get("idle")
	require.True(t, ok)
	assert.Equal(t, 0, idle.StreakDays)

	dormant, ok := store.Get("dormant")
	require.True(t, ok)
	assert.Equal(t, 0, dormant.StreakDays)
}

func TestStreakJob_Name(t *testing.T) {
	job := NewStreakJob(newTestStore(t), zerolog.Nop())
	assert.Equal(t, "streaks", job.Name())
}
