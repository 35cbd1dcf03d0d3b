package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"verbose": LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelWarn)
	t.Cleanup(func() { SetLevel(LevelInfo) })

	Info("hidden")
	Warn("shown", "slot", "temp")
	Error("failed", errors.New("boom"), "status", 500, "dangling")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at WARN level: %s", out)
	}
	if !strings.Contains(out, "slot=temp") {
		t.Errorf("expected key/value pair in output: %s", out)
	}
	if !strings.Contains(out, "err=boom") || !strings.Contains(out, "status=500") {
		t.Errorf("expected error fields in output: %s", out)
	}
	if strings.Contains(out, "dangling") {
		t.Errorf("odd trailing key should be dropped: %s", out)
	}
}
