package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cadence/internal/logging"
	"cadence/internal/services"
)

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if !strings.Contains(string(content), "INFO message without caller") {
		t.Fatalf("unexpected console line %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerRendersComponentAndEntry(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithEntry(context.Background(), 2, "Let It Be")
	entryLogger := logging.WithContext(ctx, logging.NewComponentLogger(logger, "batch"))
	entryLogger.Warn("entry skipped", logging.Error(errors.New("no match")))

	line := buf.String()
	for _, fragment := range []string{"WARN batch #2: entry skipped", `title="Let It Be"`, `error="no match"`} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithStage(ctx, "extract")
	logging.WithContext(ctx, logger).Info("done", logging.Float64("tempo", 120.5))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload["run_id"] != "run-1" || payload["stage"] != "extract" {
		t.Fatalf("missing context fields: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key: %v", payload)
	}
	if payload["tempo"] != 120.5 {
		t.Fatalf("unexpected tempo: %v", payload["tempo"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "entry skipped", "entry_skipped")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload[logging.FieldEventType] != "entry_skipped" {
		t.Fatalf("expected event type, got %v", payload)
	}
	if payload[logging.FieldErrorHint] != "rerun with --log-level debug to see match scores" {
		t.Fatalf("expected entry_skipped hint, got %v", payload)
	}
}

func TestErrorWithContextHints(t *testing.T) {
	tests := []struct {
		name  string
		event string
		attrs []logging.Attr
		want  string
	}{
		{"unknown event", "tag_read_failed", nil, "check logs for details"},
		{"known event", "entry_panic", nil, "report the file that triggered it"},
		{"explicit hint wins", "output_failed", []logging.Attr{logging.String(logging.FieldErrorHint, "free some disk")}, "free some disk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			logging.ErrorWithContext(logger, "failed", tt.event, tt.attrs...)

			var payload map[string]any
			if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
				t.Fatalf("decode json log: %v", err)
			}
			if payload["level"] != "error" || payload[logging.FieldEventType] != tt.event {
				t.Fatalf("unexpected level or event: %v", payload)
			}
			if payload[logging.FieldErrorHint] != tt.want {
				t.Fatalf("expected hint %q, got %v", tt.want, payload[logging.FieldErrorHint])
			}
		})
	}
}

func TestJSONLoggerTagsRecordsFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-7")
	ctx = services.WithEntry(ctx, 3, "Yesterday")
	logger.InfoContext(ctx, "entry enriched")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if payload[logging.FieldRunID] != "run-7" || payload[logging.FieldEntryTitle] != "Yesterday" {
		t.Fatalf("missing context fields: %v", payload)
	}
	if payload[logging.FieldEntryIndex] != float64(3) {
		t.Fatalf("unexpected entry index: %v", payload[logging.FieldEntryIndex])
	}
}

func TestContextFieldsAreNotDuplicated(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithEntry(context.Background(), 1, "Help!")
	logging.WithContext(ctx, logger).InfoContext(ctx, "bound")
	logger.InfoContext(ctx, "explicit", logging.String(logging.FieldEntryTitle, "Help"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	for _, line := range lines {
		if n := strings.Count(line, `"title":`); n != 1 {
			t.Fatalf("expected one title key, got %d in %q", n, line)
		}
	}
	if !strings.Contains(lines[1], `"title":"Help"`) {
		t.Fatalf("explicit attribute should win over context: %q", lines[1])
	}
}

func TestConsoleLoggerFormatsValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithEntry(context.Background(), 4, "Something")
	logger.InfoContext(ctx, "features extracted",
		logging.Float64("tempo", 119.99996),
		logging.Float64("duration", 182.45678),
		logging.Duration("elapsed", 1234567*time.Microsecond),
		logging.String("path", "/music/Here Comes.wav"),
	)

	line := buf.String()
	for _, fragment := range []string{
		"INFO #4: features extracted",
		"tempo=120 ",
		"duration=182.457 ",
		"elapsed=1.235s",
		`path="/music/Here Comes.wav"`,
		"title=Something",
	} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should not be enabled")
	}
}
