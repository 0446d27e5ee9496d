// Package logging builds the process-wide logger.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

// EnvLog enables verbose logging when set to anything but an off value.
const EnvLog = "SKIFF_LOG"

// New returns the logger for a CLI invocation. Verbose mode uses zap's
// development encoder on stderr; otherwise logging is a no-op so the
// wrapped runtime's own output stays clean.
func New(verbose bool) *zap.Logger {
	if !verbose && !envVerbose() {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func envVerbose() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLog))) {
	case "", "0", "false", "off", "none":
		return false
	}
	return true
}
