package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/ocr"
)

const maxJSONBody = 1 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeError maps domain errors onto status codes. User errors carry their
// message to the client; anything else is logged and reported generically.
func writeError(w http.ResponseWriter, log *logrus.Logger, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	var ue *models.UserError
	if !errors.As(err, &ue) {
		switch {
		case errors.Is(err, ocr.ErrEmptyImage):
			writeMessage(w, http.StatusBadRequest, "No image was provided.")
		case errors.Is(err, context.DeadlineExceeded):
			writeMessage(w, http.StatusGatewayTimeout, "The request timed out.")
		default:
			log.WithError(err).Error("Request failed")
			writeMessage(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeMessage(w, statusFor(err), ue.Message)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrCapacityExceeded), errors.Is(err, models.ErrTrackClosed):
		return http.StatusConflict
	case errors.Is(err, models.ErrNoPlays), errors.Is(err, models.ErrInvalidPlays):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ocr.ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, ocr.ErrInterpretationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// decode reads a JSON request body into T
func decode[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("invalid request body: %w", err)
	}
	return v, nil
}
