// Package logger provides OCR-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// OCRLogger provides dedicated logging for ticket image interpretation.
type OCRLogger struct {
	*logrus.Entry
}

// NewOCRLogger creates a new OCR logger.
func NewOCRLogger(baseLogger *logrus.Logger) *OCRLogger {
	return &OCRLogger{
		Entry: baseLogger.WithField("component", "ocr"),
	}
}

// LogInterpretation logs a completed interpretation request.
func (l *OCRLogger) LogInterpretation(model string, imageBytes, plays int, cacheHit bool, latencyMs float64) {
	l.WithFields(logrus.Fields{
		"model":       model,
		"image_bytes": imageBytes,
		"plays":       plays,
		"cache_hit":   cacheHit,
		"latency_ms":  latencyMs,
	}).Info("Ticket image interpreted")
}

// LogInterpretationFailure logs a failed interpretation request.
func (l *OCRLogger) LogInterpretationFailure(model string, imageBytes int, err error) {
	l.WithFields(logrus.Fields{
		"model":       model,
		"image_bytes": imageBytes,
	}).WithError(err).Error("Error interpreting ticket image")
}

// LogImport logs OCR results committed to the session.
func (l *OCRLogger) LogImport(results, unclassified int) {
	l.WithFields(logrus.Fields{
		"results":      results,
		"unclassified": unclassified,
	}).Info("OCR results imported")
}
