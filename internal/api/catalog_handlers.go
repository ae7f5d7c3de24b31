package api

import (
	"net/http"
	"slices"

	"github.com/yourusername/beast-reader/internal/calculator"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/tracks"
)

// listTracks returns the catalog with each track's closed and selected state
// for the session's bet date
func (s *Server) listTracks(w http.ResponseWriter, r *http.Request) {
	state := s.sess.State()
	now := s.sess.Now()

	cats := tracks.Categories()
	out := make([]CategoryStatus, len(cats))
	for i, c := range cats {
		cs := CategoryStatus{Name: c.Name, Tracks: make([]TrackStatus, len(c.Tracks))}
		for j, t := range c.Tracks {
			cs.Tracks[j] = TrackStatus{
				Track:    t,
				Closed:   tracks.IsClosed(t.Name, state.SelectedDate, now),
				Selected: slices.Contains(state.SelectedTracks, t.Name),
			}
		}
		out[i] = cs
	}
	writeJSON(w, http.StatusOK, out)
}

// classify reads ?betNumber= against ?track= values, or the session's
// selection when no track is given
func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bet := models.TruncateBetNumber(q.Get("betNumber"))
	selected := q["track"]
	if len(selected) == 0 {
		selected = s.sess.Tracks()
	}
	writeJSON(w, http.StatusOK, describe(bet, selected))
}

func (s *Server) calculate(w http.ResponseWriter, r *http.Request) {
	req, err := decode[CalculateRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	selected := req.Tracks
	if selected == nil {
		selected = s.sess.Tracks()
	}
	bet := models.TruncateBetNumber(req.BetNumber)
	resp := describe(bet, selected)
	total := calculator.RowTotal(bet, resp.GameMode, req.Straight, req.Box, req.Combo)
	resp.Total = &total
	writeJSON(w, http.StatusOK, resp)
}

func describe(bet string, selected []string) ClassifyResponse {
	return ClassifyResponse{
		BetNumber:    bet,
		GameMode:     calculator.Classify(bet, selected),
		Permutations: calculator.PermutationCount(calculator.DigitsOnly(bet)),
	}
}
