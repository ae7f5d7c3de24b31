// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for session changes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPlaysAdded logs plays entering the session.
func (al *AuditLogger) LogPlaysAdded(source string, count, totalPlays int) {
	al.WithFields(logrus.Fields{
		"source":      source,
		"count":       count,
		"total_plays": totalPlays,
	}).Info("Plays added")
}

// LogPlaysRejected logs an add that would exceed the play limit.
func (al *AuditLogger) LogPlaysRejected(source string, requested, currentPlays, maxPlays int) {
	al.WithFields(logrus.Fields{
		"source":        source,
		"requested":     requested,
		"current_plays": currentPlays,
		"max_plays":     maxPlays,
	}).Warn("Plays rejected: capacity exceeded")
}

// LogPlaysRemoved logs removed plays.
func (al *AuditLogger) LogPlaysRemoved(count, totalPlays int) {
	al.WithFields(logrus.Fields{
		"count":       count,
		"total_plays": totalPlays,
	}).Info("Plays removed")
}

// LogSessionReset logs a form reset.
func (al *AuditLogger) LogSessionReset(discardedPlays int, date string) {
	al.WithFields(logrus.Fields{
		"discarded_plays": discardedPlays,
		"date":            date,
	}).Info("Session reset")
}

// LogTrackSelection logs a change of selected tracks.
func (al *AuditLogger) LogTrackSelection(tracks []string, effectiveTracks int) {
	al.WithFields(logrus.Fields{
		"tracks":           tracks,
		"effective_tracks": effectiveTracks,
	}).Info("Track selection changed")
}

// LogTicketIssued logs a generated ticket.
func (al *AuditLogger) LogTicketIssued(ticketNumber, date string, tracks []string, plays int, grandTotal string, issuedAt time.Time) {
	al.WithFields(logrus.Fields{
		"ticket_number": ticketNumber,
		"date":          date,
		"tracks":        tracks,
		"plays":         plays,
		"grand_total":   grandTotal,
		"issued_at":     issuedAt.Unix(),
	}).Info("Ticket issued")
}
