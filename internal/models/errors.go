package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrCapacityExceeded = errors.New("play capacity exceeded")
	ErrNoPlays          = errors.New("no plays entered")
	ErrInvalidPlays     = errors.New("plays with invalid bet number")
	ErrInvalidBetNumber = errors.New("invalid bet number")
	ErrInvalidDate      = errors.New("invalid date")
	ErrTrackClosed      = errors.New("track closed")
	ErrRoundDownPattern = errors.New("round down pattern mismatch")
	ErrUnsupportedMode  = errors.New("unsupported game mode")
	ErrUnknownPlayField = errors.New("unknown play field")
	ErrNothingToPaste   = errors.New("no amounts copied")
	ErrNoSelection      = errors.New("no plays selected")
	ErrNegativeAmount   = errors.New("negative amount")
)

// UserError carries a message that is shown to the user verbatim while still
// matching its sentinel through errors.Is.
type UserError struct {
	Err     error
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps a sentinel error with a user-facing message
func NewUserError(err error, message string) *UserError {
	return &UserError{Err: err, Message: message}
}

// UserMessage returns the user-facing message of err, falling back to err.Error()
func UserMessage(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return err.Error()
}
