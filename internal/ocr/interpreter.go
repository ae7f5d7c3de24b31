package ocr

import (
	"context"

	"github.com/yourusername/beast-reader/internal/models"
)

// Interpreter turns a ticket photo into candidate plays. Results carry no
// game mode; classification is done by the caller.
type Interpreter interface {
	Interpret(ctx context.Context, img Image) ([]models.OCRResult, error)
}

// Disabled is the interpreter used when OCR is switched off
type Disabled struct{}

// Interpret always fails
func (Disabled) Interpret(context.Context, Image) ([]models.OCRResult, error) {
	return nil, userFailure(ErrDisabled)
}
