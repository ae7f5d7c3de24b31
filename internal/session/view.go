package session

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/beast-reader/internal/calculator"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/tracks"
)

// View is a read-only snapshot of the session with derived values
type View struct {
	models.SessionState
	Version             uint64            `json:"version"`
	RowTotals           []decimal.Decimal `json:"rowTotals"`
	GrandTotal          decimal.Decimal   `json:"grandTotal"`
	EffectiveTrackCount int               `json:"effectiveTrackCount"`
	DisplayTracks       []string          `json:"displayTracks"`
	DuplicateBetNumbers []string          `json:"duplicateBetNumbers"`
}

func (s *Session) viewLocked() View {
	state := s.stateLocked()
	rows := make([]decimal.Decimal, len(state.Plays))
	for i, p := range state.Plays {
		rows[i] = calculator.PlayTotal(p)
	}
	return View{
		SessionState:        state,
		Version:             s.version,
		RowTotals:           rows,
		GrandTotal:          calculator.GrandTotal(state.Plays, state.SelectedTracks),
		EffectiveTrackCount: calculator.EffectiveTrackCount(state.SelectedTracks),
		DisplayTracks:       tracks.DisplayTracks(state.SelectedTracks),
		DuplicateBetNumbers: duplicateBetNumbers(state.Plays),
	}
}

// DuplicateBetNumbers returns the non-empty bet numbers entered more than once
func (s *Session) DuplicateBetNumbers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return duplicateBetNumbers(s.plays)
}

func duplicateBetNumbers(plays []models.Play) []string {
	counts := make(map[string]int)
	for _, p := range plays {
		if p.BetNumber != "" {
			counts[p.BetNumber]++
		}
	}
	dups := []string{}
	for bet, n := range counts {
		if n > 1 {
			dups = append(dups, bet)
		}
	}
	sort.Strings(dups)
	return dups
}
