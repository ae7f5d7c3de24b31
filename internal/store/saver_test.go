package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/session"
)

// recordingStore counts saves and keeps the last state
type recordingStore struct {
	mu    sync.Mutex
	saves int
	last  models.SessionState
	err   error
}

func (r *recordingStore) Name() string { return "memory" }

func (r *recordingStore) Load(context.Context) (*models.SessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saves == 0 {
		return nil, nil
	}
	s := r.last.Clone()
	return &s, nil
}

func (r *recordingStore) Save(_ context.Context, state models.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.last = state
	return r.err
}

func (r *recordingStore) Ping(context.Context) error { return nil }
func (r *recordingStore) Close() error               { return nil }

func (r *recordingStore) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func TestSaverDebouncesBursts(t *testing.T) {
	st := &recordingStore{}
	sess := session.New(session.DefaultConfig())
	saver := NewSaver(st, sess.State, 30*time.Millisecond, logger.Discard())
	sess.Subscribe(saver.Observer())

	for i := 0; i < 5; i++ {
		_, err := sess.AddPlay()
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool { return st.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, st.count())

	st.mu.Lock()
	assert.Len(t, st.last.Plays, 5)
	st.mu.Unlock()
}

func TestSaverFlush(t *testing.T) {
	st := &recordingStore{}
	sess := session.New(session.DefaultConfig())
	saver := NewSaver(st, sess.State, time.Hour, logger.Discard())
	sess.Subscribe(saver.Observer())

	require.NoError(t, saver.Flush(context.Background()))
	assert.Equal(t, 0, st.count(), "nothing pending")

	_, err := sess.AddPlay()
	require.NoError(t, err)
	require.NoError(t, saver.Flush(context.Background()))
	assert.Equal(t, 1, st.count())

	require.NoError(t, saver.Close(context.Background()))
	_, err = sess.AddPlay()
	require.NoError(t, err)
	require.NoError(t, saver.Flush(context.Background()))
	assert.Equal(t, 1, st.count(), "closed saver ignores changes")
}

func TestSaverFailureDoesNotReachSession(t *testing.T) {
	st := &recordingStore{err: errors.New("disk full")}
	sess := session.New(session.DefaultConfig())
	saver := NewSaver(st, sess.State, time.Hour, logger.Discard())
	sess.Subscribe(saver.Observer())

	_, err := sess.AddPlay()
	require.NoError(t, err)

	assert.ErrorContains(t, saver.Flush(context.Background()), "disk full")
	assert.Len(t, sess.Plays(), 1)
}
