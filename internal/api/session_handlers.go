package api

import (
	"net/http"
)

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.View())
}

func (s *Server) resetSession(w http.ResponseWriter, r *http.Request) {
	s.sess.Reset()
	writeJSON(w, http.StatusOK, s.sess.View())
}

func (s *Server) setDate(w http.ResponseWriter, r *http.Request) {
	req, err := decode[DateRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.sess.SetDate(req.Date); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sess.View())
}

func (s *Server) setTracks(w http.ResponseWriter, r *http.Request) {
	req, err := decode[TracksRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	s.sess.SetTracks(req.Tracks)
	writeJSON(w, http.StatusOK, s.sess.View())
}

func (s *Server) toggleTrack(w http.ResponseWriter, r *http.Request) {
	req, err := decode[ToggleTrackRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Track == "" {
		writeMessage(w, http.StatusBadRequest, "track is required")
		return
	}
	if _, err := s.sess.ToggleTrack(req.Track); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sess.View())
}

func (s *Server) validateSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.ValidateForTicket(); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
