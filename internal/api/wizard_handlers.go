package api

import (
	"net/http"

	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/wizard"
)

func (s *Server) wizardEntry(w http.ResponseWriter, r *http.Request) {
	req, err := decode[EntryRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	play, err := wizard.Entry(models.TruncateBetNumber(req.BetNumber), s.sess.Tracks(), models.Amounts{
		Straight: req.Straight,
		Box:      req.Box,
		Combo:    req.Combo,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, play)
}

func (s *Server) wizardQuickPick(w http.ResponseWriter, r *http.Request) {
	req, err := decode[QuickPickRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	amounts := models.Amounts{Straight: req.Straight, Box: req.Box, Combo: req.Combo}

	s.rngMu.Lock()
	plays, err := wizard.QuickPick(s.rng, req.Mode, req.Count, amounts)
	s.rngMu.Unlock()
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, StagedPlaysResponse{Plays: plays})
}

func (s *Server) wizardRoundDown(w http.ResponseWriter, r *http.Request) {
	req, err := decode[RoundDownRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	plays, err := wizard.RoundDown(req.BetNumber, req.Straight)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, StagedPlaysResponse{Plays: plays})
}

func (s *Server) wizardPreview(w http.ResponseWriter, r *http.Request) {
	req, err := decode[StagedPlaysRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, wp := range req.Plays {
		if err := (models.Amounts{Straight: wp.Straight, Box: wp.Box, Combo: wp.Combo}).Validate(); err != nil {
			writeError(w, s.log, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, wizard.BuildPreview(req.Plays))
}

func (s *Server) wizardCommit(w http.ResponseWriter, r *http.Request) {
	req, err := decode[StagedPlaysRequest](r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	plays, err := s.sess.AddWizardPlays(req.Plays)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, PlaysResponse{Plays: plays})
}
