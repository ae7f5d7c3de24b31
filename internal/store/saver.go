package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/beast-reader/internal/metrics"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/session"
)

// DefaultSaveDelay is the quiet period before a change is written
const DefaultSaveDelay = 500 * time.Millisecond

const saveTimeout = 10 * time.Second

// Saver writes the session state after changes settle. Bursts of changes
// collapse into one write of the latest state; failures are logged and
// counted but never reach the caller that made the change.
type Saver struct {
	store  Store
	source func() models.SessionState
	delay  time.Duration
	log    *logrus.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	closed  bool

	saveMu sync.Mutex
}

// NewSaver creates a saver pulling state from source
func NewSaver(st Store, source func() models.SessionState, delay time.Duration, log *logrus.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Saver{store: st, source: source, delay: delay, log: log}
}

// Observer returns a session observer that schedules a save on every change
func (s *Saver) Observer() session.Observer {
	return func(session.View) { s.Trigger() }
}

// Trigger schedules a save, restarting the quiet period
func (s *Saver) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Saver) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	_ = s.save(ctx)
}

// Flush writes any pending change immediately
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.save(ctx)
}

// Close flushes and stops accepting triggers
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush(ctx)
}

func (s *Saver) save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return nil
	}
	s.pending = false
	s.mu.Unlock()

	state := s.source()
	start := time.Now()
	err := s.store.Save(ctx, state)
	metrics.RecordPersistence(s.store.Name(), "save", err, time.Since(start).Seconds())

	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"backend": s.store.Name(),
			"plays":   len(state.Plays),
		}).Error("Failed to save session")
		return err
	}

	s.log.WithFields(logrus.Fields{
		"backend": s.store.Name(),
		"plays":   len(state.Plays),
	}).Debug("Session saved")
	return nil
}
