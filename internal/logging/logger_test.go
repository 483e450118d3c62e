package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursesum/internal/config"
	"coursesum/internal/logging"
)

func TestConsoleLoggerWritesComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "panel").Info("state restored", logging.String("theme", "dark"))
	logger.Debug("hidden debug line")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "INFO panel: state restored theme=dark") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if strings.Contains(line, "hidden debug line") {
		t.Fatalf("debug line should be filtered at info level: %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", line)
	}
}

func TestConsoleLoggerQuotesValuesWithSpaces(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "quote.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("summary saved", logging.String(logging.FieldSourceURL, "https://example.com/a b"))

	content, _ := os.ReadFile(logPath)
	if !strings.Contains(string(content), `source_url="https://example.com/a b"`) {
		t.Fatalf("expected quoted value, got %q", content)
	}
}

func TestJSONLoggerUsesTSKey(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("store write failed", logging.String(logging.FieldEventType, "kv_write_failed"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("decode json line: %v (%q)", err, content)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
	if record["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
	if record[logging.FieldEventType] != "kv_write_failed" {
		t.Fatalf("missing event type: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigTeesIntoLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, true)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("bridge listening")

	content, err := os.ReadFile(cfg.LogPath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"bridge listening"`) {
		t.Fatalf("expected JSON record in log file, got %q", content)
	}
}

func TestWarnWithContextFillsRequiredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WarnWithContext(logger, "persist failed", "panel_persist_failed", logging.String(logging.FieldImpact, "layout lost"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[logging.FieldEventType] != "panel_persist_failed" {
		t.Fatalf("unexpected event type: %v", record)
	}
	if record[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default error hint: %v", record)
	}
	if record[logging.FieldImpact] != "layout lost" {
		t.Fatalf("caller impact should be preserved: %v", record)
	}
}

func TestTeeHandlerDuplicatesRecords(t *testing.T) {
	var first, second bytes.Buffer
	h := logging.TeeHandler(
		slog.NewJSONHandler(&first, nil),
		nil,
		slog.NewJSONHandler(&second, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(h)

	logger.Info("info only")
	logger.Warn("both")

	if strings.Count(first.String(), "\n") != 2 {
		t.Fatalf("expected two records in first handler, got %q", first.String())
	}
	if strings.Count(second.String(), "\n") != 1 || !strings.Contains(second.String(), "both") {
		t.Fatalf("expected only the warning in second handler, got %q", second.String())
	}
}

func TestTeeHandlerCollapses(t *testing.T) {
	if _, ok := logging.TeeHandler(nil, nil).(logging.NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	inner := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if logging.TeeHandler(inner) != inner {
		t.Fatal("expected a single handler to be returned unwrapped")
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := logging.WithRequestID(context.Background(), "req-1")

	logging.WithContext(ctx, logger).Info("handled")

	if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
		t.Fatalf("expected request id field, got %q", buf.String())
	}
}
