// Package ocr reads plays from photographed lottery tickets.
package ocr

import (
	"errors"
	"fmt"

	"github.com/yourusername/beast-reader/internal/models"
)

var (
	// ErrInterpretationFailed indicates the service could not read the ticket
	ErrInterpretationFailed = errors.New("ticket interpretation failed")

	// ErrInvalidResponse indicates the service answered with something other than a play list
	ErrInvalidResponse = errors.New("invalid response from ocr service")

	// ErrServiceUnavailable indicates the service answered with a non-2xx status
	ErrServiceUnavailable = errors.New("ocr service unavailable")

	// ErrCircuitOpen indicates too many consecutive transport failures
	ErrCircuitOpen = errors.New("ocr circuit breaker open")

	// ErrEmptyImage indicates no image data was supplied
	ErrEmptyImage = errors.New("empty image")

	// ErrDisabled indicates OCR is switched off in configuration
	ErrDisabled = errors.New("ocr disabled")
)

// FailureMessage is shown to the user for every interpretation failure
const FailureMessage = "The AI failed to analyze the ticket. Please try again with a clearer image."

// userFailure wraps cause so that callers can match ErrInterpretationFailed
// while the user only sees FailureMessage.
func userFailure(cause error) error {
	return models.NewUserError(fmt.Errorf("%w: %w", ErrInterpretationFailed, cause), FailureMessage)
}
