package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yourusername/beast-reader/internal/models"
)

func (s *Server) addPlay(w http.ResponseWriter, r *http.Request) {
	play, err := s.sess.AddPlay()
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, play)
}

func (s *Server) updatePlay(w http.ResponseWriter, r *http.Request) {
	id, ok := playID(w, r)
	if !ok {
		return
	}
	req, err := decode[UpdatePlayRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	update, err := models.ParsePlayUpdate(req.Field, req.Value)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	play, err := s.sess.UpdatePlay(id, update)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, play)
}

func (s *Server) removePlay(w http.ResponseWriter, r *http.Request) {
	id, ok := playID(w, r)
	if !ok {
		return
	}
	if err := s.sess.RemovePlay(id); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removePlays(w http.ResponseWriter, r *http.Request) {
	req, err := decode[IDsRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: s.sess.RemovePlays(req.IDs)})
}

// copyAmounts puts a play's stakes on the server-side clipboard
func (s *Server) copyAmounts(w http.ResponseWriter, r *http.Request) {
	id, ok := playID(w, r)
	if !ok {
		return
	}
	amounts, err := s.sess.CopyAmounts(id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	s.mu.Lock()
	s.clipboard = &amounts
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, amounts)
}

func (s *Server) pasteAmounts(w http.ResponseWriter, r *http.Request) {
	req, err := decode[IDsRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	clip := s.clipboard
	s.mu.Unlock()

	n, err := s.sess.PasteAmounts(clip, req.IDs)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

func playID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid play id")
		return uuid.Nil, false
	}
	return id, true
}
