package scheduler

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/beast-reader/internal/metrics"
	"github.com/yourusername/beast-reader/internal/session"
	"github.com/yourusername/beast-reader/internal/tracks"
)

// SweepResult summarizes one cutoff sweep
type SweepResult struct {
	Date        string
	Open        map[string]int
	NewlyClosed []string
}

// CutoffSweeper publishes how many tracks still accept plays for the
// session's bet date and warns once per track when a selected track passes
// its cutoff.
type CutoffSweeper struct {
	sess *session.Session
	log  *logrus.Logger

	mu           sync.Mutex
	reportedDate string
	reported     map[string]bool
}

// NewCutoffSweeper creates a sweeper for sess
func NewCutoffSweeper(sess *session.Session, log *logrus.Logger) *CutoffSweeper {
	return &CutoffSweeper{sess: sess, log: log, reported: make(map[string]bool)}
}

// Sweep checks every catalog track against the session clock
func (cs *CutoffSweeper) Sweep() SweepResult {
	state := cs.sess.State()
	now := cs.sess.Now()

	result := SweepResult{Date: state.SelectedDate, Open: make(map[string]int)}
	for _, cat := range tracks.Categories() {
		open := 0
		for _, t := range cat.Tracks {
			if !tracks.IsClosed(t.Name, state.SelectedDate, now) {
				open++
			}
		}
		result.Open[cat.Name] = open
		metrics.UpdateOpenTracks(cat.Name, open)
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.reportedDate != state.SelectedDate {
		cs.reportedDate = state.SelectedDate
		cs.reported = make(map[string]bool)
	}

	for _, name := range tracks.DisplayTracks(state.SelectedTracks) {
		if cs.reported[name] || !tracks.IsClosed(name, state.SelectedDate, now) {
			continue
		}
		cs.reported[name] = true
		result.NewlyClosed = append(result.NewlyClosed, name)
		cs.log.WithFields(logrus.Fields{
			"track": name,
			"date":  state.SelectedDate,
			"plays": len(state.Plays),
		}).Warn("Selected track passed its cutoff")
	}

	return result
}
