package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewQuietByDefault(t *testing.T) {
	t.Setenv(EnvLog, "")
	log := New(false)
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected a no-op logger without verbose mode")
	}
}

func TestNewVerboseFlag(t *testing.T) {
	t.Setenv(EnvLog, "")
	log := New(true)
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug logging with verbose mode")
	}
}

func TestNewEnvToggle(t *testing.T) {
	tests := []struct {
		value   string
		verbose bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"OFF", false},
		{"none", false},
		{"1", true},
		{"true", true},
		{"debug", true},
	}
	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			t.Setenv(EnvLog, tt.value)
			log := New(false)
			if got := log.Core().Enabled(zapcore.DebugLevel); got != tt.verbose {
				t.Errorf("SKIFF_LOG=%q verbose = %v, want %v", tt.value, got, tt.verbose)
			}
		})
	}
}
