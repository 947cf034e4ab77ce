package env

import (
	"log/slog"
	"testing"
)

func TestGet(t *testing.T) {
	t.Setenv("TOKEN_UNITS_TEST_VAR", "set")

	if got := Get("TOKEN_UNITS_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("Get = %q, want %q", got, "set")
	}
	if got := Get("TOKEN_UNITS_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Get = %q, want %q", got, "fallback")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Setenv("LOG_LEVEL", tt.value)
		if got := ParseLogLevel(slog.LevelInfo); got != tt.want {
			t.Errorf("ParseLogLevel with LOG_LEVEL=%q = %v, want %v", tt.value, got, tt.want)
		}
	}
}
