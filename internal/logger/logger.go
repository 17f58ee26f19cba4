// Package logger provides structured logging for the advisor: the base
// logrus logger and a dedicated audit trail for selection decisions.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates the advisor's logger. The environment comes from the
// loaded configuration, not the process environment: production gets JSON
// output for log aggregation, everything else gets colored text. An
// unrecognized level falls back to info.
func NewLogger(logLevel, environment string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return log
}
