package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line, err := buf.ReadString('\n')
	if err != nil {
		t.Fatalf("reading log line: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Unmarshal(%q) error = %v", line, err)
	}
	return entry
}

func TestLogger_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "call succeeded",
		Field{Key: "attempts", Value: 2},
		Field{Key: "statusCode", Value: 200},
	)

	entry := decodeLine(t, &buf)
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["msg"] != "call succeeded" {
		t.Errorf("msg = %v, want call succeeded", entry["msg"])
	}
	if entry["attempts"] != float64(2) {
		t.Errorf("attempts = %v, want 2", entry["attempts"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	ctx := context.Background()
	logger.Debug(ctx, "suppressed")
	logger.Info(ctx, "suppressed")
	logger.Warn(ctx, "kept")
	logger.Error(ctx, "kept")

	lines := strings.Count(buf.String(), "\n")
	if lines != 2 {
		t.Errorf("emitted %d lines, want 2:\n%s", lines, buf.String())
	}
	if strings.Contains(buf.String(), "suppressed") {
		t.Error("below-level messages were emitted")
	}
}

func TestLogger_WithCall(t *testing.T) {
	var buf bytes.Buffer
	base := NewLoggerWithWriter("info", &buf)

	scoped := base.WithCall(CallMeta{Provider: "openai", Operation: "complete", Model: "gpt-4o"})
	scoped.Info(context.Background(), "retrying")

	entry := decodeLine(t, &buf)
	if entry["upstream.provider"] != "openai" {
		t.Errorf("upstream.provider = %v, want openai", entry["upstream.provider"])
	}
	if entry["upstream.operation"] != "complete" {
		t.Errorf("upstream.operation = %v, want complete", entry["upstream.operation"])
	}
	if entry["upstream.model"] != "gpt-4o" {
		t.Errorf("upstream.model = %v, want gpt-4o", entry["upstream.model"])
	}

	// The base logger is not mutated by the scoped copy.
	base.Info(context.Background(), "plain")
	entry = decodeLine(t, &buf)
	if _, ok := entry["upstream.provider"]; ok {
		t.Error("WithCall leaked attrs into the base logger")
	}
}

func TestLogger_WithCall_OmitsEmptyModel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf).WithCall(CallMeta{Provider: "openai", Operation: "complete"})

	logger.Info(context.Background(), "retrying")

	entry := decodeLine(t, &buf)
	if _, ok := entry["upstream.model"]; ok {
		t.Error("upstream.model present for empty model")
	}
}

func TestLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Error(context.Background(), "auth rejected",
		Field{Key: "api_key", Value: "sk-live-abc123DEF456"},
		Field{Key: "prompt", Value: "summarize the pitch deck"},
		Field{Key: "statusCode", Value: 401},
	)

	entry := decodeLine(t, &buf)
	if entry["api_key"] != "[REDACTED]" {
		t.Errorf("api_key = %v, want [REDACTED]", entry["api_key"])
	}
	if entry["prompt"] != "[REDACTED]" {
		t.Errorf("prompt = %v, want [REDACTED]", entry["prompt"])
	}
	if entry["statusCode"] != float64(401) {
		t.Errorf("statusCode = %v, want 401", entry["statusCode"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	scoped := logger.WithCall(CallMeta{Provider: "openai"})
	scoped.Info(context.Background(), "dropped", Field{Key: "attempts", Value: 1})
	scoped.Error(context.Background(), "dropped")
}
