// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for selection decisions.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRecommendation logs one recommendation produced by a selection cycle.
func (al *AuditLogger) LogRecommendation(rank int, eventID, eventName, selection, bookmaker string, odds, confidence, evWithVig, riskScore, unitSize float64, stake string, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"rank":        rank,
		"event_id":    eventID,
		"event":       eventName,
		"selection":   selection,
		"bookmaker":   bookmaker,
		"odds":        odds,
		"confidence":  confidence,
		"ev_with_vig": evWithVig,
		"risk_score":  riskScore,
		"unit_size":   unitSize,
		"stake":       stake,
		"timestamp":   timestamp.Unix(),
	}).Info("Recommendation recorded")
}

// LogCandidateRejection logs a candidate rejected by the inverse filter.
func (al *AuditLogger) LogCandidateRejection(eventID, eventName, selection, reason string) {
	al.WithFields(logrus.Fields{
		"event_id":  eventID,
		"event":     eventName,
		"selection": selection,
		"reason":    reason,
	}).Debug("Candidate rejected")
}

// LogCycleResult logs the outcome of a full selection cycle.
func (al *AuditLogger) LogCycleResult(poolSize, excluded, rejected, recommended int, bankroll string, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"pool_size":   poolSize,
		"excluded":    excluded,
		"rejected":    rejected,
		"recommended": recommended,
		"bankroll":    bankroll,
		"duration_ms": duration.Milliseconds(),
	}).Info("Selection cycle completed")
}
