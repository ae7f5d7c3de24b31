package api

import (
	"encoding/base64"
	"net/http"

	"github.com/yourusername/beast-reader/internal/ticket"
)

func (s *Server) issueTicket(w http.ResponseWriter, r *http.Request) {
	if s.issuer == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Ticket printing is not available.")
		return
	}
	t, err := s.issuer.Issue(s.sess)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	png, err := t.QRCodePNG(s.issuer.QRSize())
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	s.mu.Lock()
	s.lastTicket = t
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, TicketResponse{
		Ticket:  t,
		Receipt: t.Receipt(),
		QRCode:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

func (s *Server) latest(w http.ResponseWriter) (*ticket.Ticket, bool) {
	s.mu.Lock()
	t := s.lastTicket
	s.mu.Unlock()
	if t == nil {
		writeMessage(w, http.StatusNotFound, "No ticket has been issued yet.")
		return nil, false
	}
	return t, true
}

func (s *Server) latestTicket(w http.ResponseWriter, r *http.Request) {
	if t, ok := s.latest(w); ok {
		writeJSON(w, http.StatusOK, t)
	}
}

func (s *Server) latestReceipt(w http.ResponseWriter, r *http.Request) {
	t, ok := s.latest(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(t.Receipt()))
}

func (s *Server) latestQRCode(w http.ResponseWriter, r *http.Request) {
	t, ok := s.latest(w)
	if !ok {
		return
	}
	png, err := t.QRCodePNG(s.issuer.QRSize())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
