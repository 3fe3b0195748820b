package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/config"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew_Outputs(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", "discard", ""} {
		if logger := New(config.LoggingConfig{Output: output}, "1.0.0"); logger == nil {
			t.Errorf("New(output=%q) returned nil", output)
		}
	}
}

func TestLogger_DefaultFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LoggingConfig{Level: "info", Format: "json"}, "2.0.0")

	logger.Info("target registered", "kind", "scene")

	entry := decodeEntry(t, &buf)
	if entry["service"] != serviceName {
		t.Errorf("service = %v, want %q", entry["service"], serviceName)
	}
	if entry["version"] != "2.0.0" {
		t.Errorf("version = %v, want 2.0.0", entry["version"])
	}
	if entry["msg"] != "target registered" || entry["kind"] != "scene" {
		t.Errorf("entry = %v", entry)
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LoggingConfig{Level: "debug", Format: "TEXT"}, "1.0.0")

	logger.Debug("cycle complete", "targets", 3)

	out := buf.String()
	if !strings.Contains(out, "msg=\"cycle complete\"") || !strings.Contains(out, "targets=3") {
		t.Errorf("text output = %q", out)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LoggingConfig{Level: "warn", Format: "json"}, "1.0.0")

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info entry written at warn level: %q", buf.String())
	}
	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn entry not written at warn level")
	}
}

func TestLogger_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LoggingConfig{Level: "info", Format: "json"}, "1.0.0")

	logger.Info("fetch failed",
		"url", "https://ctrl.local/lighting",
		"token", "abc123",
		"Authorization", "Bearer abc123",
		slog.Group("request", slog.String("access_token", "abc123")),
	)

	if strings.Contains(buf.String(), "abc123") {
		t.Fatalf("credential leaked into log output: %s", buf.String())
	}
	entry := decodeEntry(t, &buf)
	if entry["token"] != redacted {
		t.Errorf("token = %v, want %q", entry["token"], redacted)
	}
	if entry["url"] != "https://ctrl.local/lighting" {
		t.Errorf("url = %v, want it untouched", entry["url"])
	}
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	parent := newLogger(&buf, config.LoggingConfig{Level: "info", Format: "json"}, "1.0.0")

	child := parent.Component("poller")
	if child == parent {
		t.Fatal("Component() returned the parent logger")
	}
	child.Info("sync engine started")

	if entry := decodeEntry(t, &buf); entry["component"] != "poller" {
		t.Errorf("component = %v, want poller", entry["component"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger == nil {
		t.Fatal("Discard() returned nil")
	}
	logger.Error("dropped", "key", "value")
}
