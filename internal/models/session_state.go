package models

// SessionState is the persisted form of a ticket entry session
type SessionState struct {
	Plays          []Play   `json:"plays"`
	SelectedDate   string   `json:"selectedDate"`
	SelectedTracks []string `json:"selectedTracks"`
}

// Clone returns a deep copy of the state
func (s SessionState) Clone() SessionState {
	out := SessionState{SelectedDate: s.SelectedDate}
	if s.Plays != nil {
		out.Plays = make([]Play, len(s.Plays))
		for i, p := range s.Plays {
			out.Plays[i] = p.Clone()
		}
	}
	if s.SelectedTracks != nil {
		out.SelectedTracks = append([]string(nil), s.SelectedTracks...)
	}
	return out
}
