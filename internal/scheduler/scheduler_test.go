package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/session"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func newSession(c *clock) *session.Session {
	cfg := session.DefaultConfig()
	cfg.Location = time.UTC
	return session.New(cfg, session.WithClock(c.Now))
}

func TestCutoffSweep(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	sess := newSession(c)
	sess.SetTracks([]string{"Real", "Loteka", "Venezuela"})

	sweeper := NewCutoffSweeper(sess, logger.Discard())

	res := sweeper.Sweep()
	assert.Equal(t, "2026-03-14", res.Date)
	assert.Empty(t, res.NewlyClosed)
	assert.Equal(t, 12, res.Open["Santo Domingo"])

	c.Set(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	res = sweeper.Sweep()
	assert.Equal(t, []string{"Real"}, res.NewlyClosed)
	assert.Less(t, res.Open["Santo Domingo"], 12)

	res = sweeper.Sweep()
	assert.Empty(t, res.NewlyClosed)

	require.NoError(t, sess.SetDate("2026-03-15"))
	res = sweeper.Sweep()
	assert.Empty(t, res.NewlyClosed)
	assert.Equal(t, 12, res.Open["Santo Domingo"])
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(time.UTC, logger.Discard())

	assert.Error(t, s.Start(), "no jobs scheduled")

	var runs atomic.Int32
	_, err := s.Schedule("tick", "@every 1s", time.Second, func(ctx context.Context) {
		_, ok := ctx.Deadline()
		if ok {
			runs.Add(1)
		}
	})
	require.NoError(t, err)

	_, err = s.Schedule("bad", "not a cron expression", time.Second, func(context.Context) {})
	assert.Error(t, err)

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Len(t, s.Entries(), 1)
	assert.False(t, s.GetNextRun().IsZero())

	_, err = s.Schedule("late", "@every 1s", time.Second, func(context.Context) {})
	assert.Error(t, err)

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
}

func TestScheduleCutoffSweepClampsInterval(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)}
	s := NewScheduler(time.UTC, logger.Discard())

	require.NoError(t, s.ScheduleCutoffSweep(1, NewCutoffSweeper(newSession(c), logger.Discard())))
	require.NoError(t, s.Start())
	defer s.Stop()

	entries := s.Entries()
	require.Len(t, entries, 1)
	next := entries[0].Next
	assert.GreaterOrEqual(t, time.Until(next), 3*time.Second)
}
