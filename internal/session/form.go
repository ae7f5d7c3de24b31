package session

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/beast-reader/internal/calculator"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/tracks"
)

// SetDate changes the bet date
func (s *Session) SetDate(date string) error {
	if _, err := tracks.ParseDate(date); err != nil {
		return models.NewUserError(fmt.Errorf("%w: %v", models.ErrInvalidDate, err),
			fmt.Sprintf("Invalid bet date %q, expected YYYY-MM-DD.", date))
	}

	s.mu.Lock()
	if s.date == date {
		s.mu.Unlock()
		return nil
	}
	s.date = date
	notify := s.commit()
	s.mu.Unlock()

	notify()
	return nil
}

// Date returns the bet date
func (s *Session) Date() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.date
}

// Tracks returns a copy of the selected tracks
func (s *Session) Tracks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.tracks...)
}

// SetTracks replaces the track selection and reclassifies every play
func (s *Session) SetTracks(selected []string) {
	selected = dedupe(selected)

	s.mu.Lock()
	s.tracks = selected
	s.plays = reclassify(s.plays, selected)
	notify := s.commit()
	s.mu.Unlock()

	notify()
	if s.audit != nil {
		s.audit.LogTrackSelection(selected, calculator.EffectiveTrackCount(selected))
	}
}

// ToggleTrack selects or deselects a track. Tracks past their cutoff for
// today can not be toggled either way.
func (s *Session) ToggleTrack(name string) ([]string, error) {
	now := s.Now()

	s.mu.Lock()
	if tracks.IsClosed(name, s.date, now) {
		s.mu.Unlock()
		cutoff, _ := tracks.Cutoff(name, now)
		return nil, models.NewUserError(models.ErrTrackClosed,
			fmt.Sprintf("%s is closed for today (cutoff %s).", name, cutoff.Format("15:04")))
	}

	next := make([]string, 0, len(s.tracks)+1)
	found := false
	for _, t := range s.tracks {
		if t == name {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		next = append(next, name)
	}
	s.tracks = next
	s.plays = reclassify(s.plays, next)
	notify := s.commit()
	s.mu.Unlock()

	notify()
	if s.audit != nil {
		s.audit.LogTrackSelection(next, calculator.EffectiveTrackCount(next))
	}
	return append([]string(nil), next...), nil
}

// Reset clears all plays and restores today's date and the default tracks
func (s *Session) Reset() {
	today := s.today()

	s.mu.Lock()
	discarded := len(s.plays)
	s.plays = []models.Play{}
	s.date = today
	s.tracks = append([]string(nil), s.cfg.DefaultTracks...)
	notify := s.commit()
	s.mu.Unlock()

	notify()
	if s.audit != nil {
		s.audit.LogSessionReset(discarded, today)
	}
}

// Restore replaces the session from a persisted snapshot. Missing or
// malformed fields keep their current values; modes are derived again.
func (s *Session) Restore(state models.SessionState) {
	s.mu.Lock()
	if state.SelectedTracks != nil {
		s.tracks = dedupe(state.SelectedTracks)
	}
	if state.SelectedDate != "" {
		if _, err := tracks.ParseDate(state.SelectedDate); err == nil {
			s.date = state.SelectedDate
		}
	}
	if state.Plays != nil {
		plays := make([]models.Play, 0, len(state.Plays))
		seen := make(map[uuid.UUID]struct{}, len(state.Plays))
		for _, p := range state.Plays {
			if _, dup := seen[p.ID]; dup || p.ID == uuid.Nil {
				p.ID = s.newID()
			}
			seen[p.ID] = struct{}{}
			p.BetNumber = models.TruncateBetNumber(p.BetNumber)
			p.StraightAmount = nonNegative(p.StraightAmount)
			p.BoxAmount = nonNegative(p.BoxAmount)
			p.ComboAmount = nonNegative(p.ComboAmount)
			plays = append(plays, p)
		}
		if len(plays) > s.cfg.MaxPlays {
			plays = plays[:s.cfg.MaxPlays]
		}
		s.plays = plays
	}
	s.plays = reclassify(s.plays, s.tracks)
	notify := s.commit()
	s.mu.Unlock()

	notify()
}

// ValidateForTicket is the finalization gate: at least one play, and every
// play has a bet number with a known game mode.
func (s *Session) ValidateForTicket() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validateLocked()
}

// Finalize returns the view to print, checked by the same gate as
// ValidateForTicket under a single lock.
func (s *Session) Finalize() (View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.validateLocked(); err != nil {
		return View{}, err
	}
	return s.viewLocked(), nil
}

func (s *Session) validateLocked() error {
	if len(s.plays) == 0 {
		return models.NewUserError(models.ErrNoPlays, "Please add at least one play.")
	}
	for _, p := range s.plays {
		if !p.IsValid() {
			return models.NewUserError(models.ErrInvalidPlays, "Please ensure all plays have a valid bet number.")
		}
	}
	return nil
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// nonNegative drops a negative stake read from storage
func nonNegative(a *decimal.Decimal) *decimal.Decimal {
	if a != nil && a.IsNegative() {
		return nil
	}
	return a
}
