package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"sylva/internal/config"
	"sylva/internal/logging"
	"sylva/internal/services"
)

func TestConsoleLoggerWritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "dispatch").Info("hole created", logging.Int64(logging.FieldPID, 42))

	out := buf.String()
	if !strings.Contains(out, "INFO [dispatch] – hole created") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "pid: 42") {
		t.Fatalf("expected pid field, got %q", out)
	}
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information outside development mode, got %q", out)
	}
}

func TestConsoleLoggerHidesCorrelationAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRequestID(services.WithCommand(context.Background(), "list"), "req-1")
	scoped := logging.WithContext(ctx, logger)

	scoped.Info("visible")
	if strings.Contains(buf.String(), "req-1") {
		t.Fatalf("request id should be hidden at info, got %q", buf.String())
	}
	buf.Reset()

	scoped.Debug("detail")
	out := buf.String()
	if !strings.Contains(out, "request_id: req-1") || !strings.Contains(out, "command: list") {
		t.Fatalf("expected correlation fields at debug, got %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "WARN") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}

func TestJSONLoggerRenamesStandardKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Error("request failed", logging.Error(errors.New("boom")))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if payload["level"] != "error" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if payload["msg"] != "request failed" || payload["error"] != "boom" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigDebugOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	var buf bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, &buf, false, true)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("verbose")
	if !strings.Contains(buf.String(), "DEBUG") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should not be enabled")
	}
	logging.NewComponentLogger(nil, "x").Info("ignored")
}
