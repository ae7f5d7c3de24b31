// Package session owns the mutable ticket entry form: plays, bet date and track selection.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/beast-reader/internal/calculator"
	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/metrics"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/tracks"
)

// DefaultMaxPlays is the play limit of a single ticket
const DefaultMaxPlays = 200

// DefaultTracks is the selection of a fresh session
var DefaultTracks = []string{"New York Evening", tracks.Venezuela}

// Config holds session limits and defaults
type Config struct {
	MaxPlays      int
	DefaultTracks []string
	Location      *time.Location
}

// DefaultConfig returns the stock session configuration
func DefaultConfig() Config {
	return Config{
		MaxPlays:      DefaultMaxPlays,
		DefaultTracks: append([]string(nil), DefaultTracks...),
		Location:      time.Local,
	}
}

// Observer is notified with a fresh view after every change
type Observer func(View)

// Option configures a Session
type Option func(*Session)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithAuditLogger records session changes to an audit trail
func WithAuditLogger(audit *logger.AuditLogger) Option {
	return func(s *Session) { s.audit = audit }
}

// WithIDGenerator overrides play id generation
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Session) { s.newID = gen }
}

// Session is the single owner of the form state. Every mutation replaces
// the play slice and track slice wholesale, so values handed out by State
// and View are never modified afterwards.
type Session struct {
	mu        sync.RWMutex
	cfg       Config
	plays     []models.Play
	date      string
	tracks    []string
	version   uint64
	observers []Observer
	now       func() time.Time
	newID     func() uuid.UUID
	audit     *logger.AuditLogger
}

// New creates a session with today's date and the default tracks
func New(cfg Config, opts ...Option) *Session {
	if cfg.MaxPlays <= 0 {
		cfg.MaxPlays = DefaultMaxPlays
	}
	if cfg.DefaultTracks == nil {
		cfg.DefaultTracks = append([]string(nil), DefaultTracks...)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	s := &Session{
		cfg:   cfg,
		now:   time.Now,
		newID: newPlayID,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.plays = []models.Play{}
	s.date = s.today()
	s.tracks = append([]string(nil), cfg.DefaultTracks...)
	return s
}

// newPlayID returns a time-ordered UUID: creation timestamp plus random bits
func newPlayID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Subscribe registers an observer for subsequent changes
func (s *Session) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// MaxPlays returns the play limit
func (s *Session) MaxPlays() int {
	return s.cfg.MaxPlays
}

// Now returns the session clock in the session location
func (s *Session) Now() time.Time {
	return s.now().In(s.cfg.Location)
}

func (s *Session) today() string {
	return tracks.Today(s.Now())
}

// State returns a copy of the persisted fields
func (s *Session) State() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() models.SessionState {
	return models.SessionState{
		Plays:          s.plays,
		SelectedDate:   s.date,
		SelectedTracks: s.tracks,
	}.Clone()
}

// View returns the current state with derived totals
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

// GrandTotal returns the current ticket total
func (s *Session) GrandTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calculator.GrandTotal(s.plays, s.tracks)
}

// Plays returns a copy of the current plays
func (s *Session) Plays() []models.Play {
	return s.State().Plays
}

// commit bumps the version and notifies observers. Must be called with
// the write lock held; observers run after the lock is released.
func (s *Session) commit() func() {
	s.version++
	view := s.viewLocked()
	observers := append([]Observer(nil), s.observers...)

	metrics.UpdateSession(len(view.Plays), view.GrandTotal.InexactFloat64(), view.EffectiveTrackCount)

	return func() {
		for _, o := range observers {
			o(view)
		}
	}
}

// reclassify derives every play's mode again for the given tracks
func reclassify(plays []models.Play, selected []string) []models.Play {
	out := make([]models.Play, len(plays))
	for i, p := range plays {
		p = p.Clone()
		p.GameMode = calculator.Classify(p.BetNumber, selected)
		out[i] = p
	}
	return out
}
