package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("writes text by default", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, LevelInfo, "")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		logger.Info("cluster", "id", 0)

		if !strings.Contains(buf.String(), "msg=cluster") {
			t.Errorf("expected text output, got %q", buf.String())
		}
	})

	t.Run("writes JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, LevelInfo, "JSON")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		logger.Info("cluster", "id", 2)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
		}
		if entry["msg"] != "cluster" {
			t.Errorf("msg = %v, want cluster", entry["msg"])
		}
		if entry["id"] != float64(2) {
			t.Errorf("id = %v, want 2", entry["id"])
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		if _, err := New(&bytes.Buffer{}, LevelInfo, "xml"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, LevelWarn, FormatText)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below WARN were logged: %q", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard logger should not be enabled at any level")
	}
}
