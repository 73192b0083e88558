package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AbigailEBurns/EarningsDateUpdater/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}
	if slog.Default() != logger {
		t.Error("InitializeLogger did not install the logger as slog's default")
	}

	second, _ := InitializeLogger(config.LoggingConfig{Level: "debug"})
	if second != logger {
		t.Error("InitializeLogger should only build the logger once")
	}

	logger.Info("test message", "key", "value")
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Fatalf("Log output is not valid JSON: %v", err)
	}
	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
}

func TestRunIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Output: "console"}, &buf)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctx := WithRunID(context.Background(), "run-123")
	WithComponent(logger, "sweep").InfoContext(ctx, "sweep started")
	logger.Info("no context")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}

	var first, second map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if first["run_id"] != "run-123" {
		t.Errorf("Expected run_id='run-123', got %v", first["run_id"])
	}
	if first["component"] != "sweep" {
		t.Errorf("Expected component='sweep', got %v", first["component"])
	}
	if _, ok := second["run_id"]; ok {
		t.Error("run_id should be absent without a context value")
	}
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info"}, &buf)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "earnings.process")
	logger.ErrorContext(ctx, "Earnings page retrieval failed")
	span.End()
	logger.InfoContext(context.Background(), "outside span")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}

	var inside, outside map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &inside); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &outside); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if want := span.SpanContext().TraceID().String(); inside["trace_id"] != want {
		t.Errorf("Expected trace_id=%s, got %v", want, inside["trace_id"])
	}
	if _, ok := outside["trace_id"]; ok {
		t.Error("trace_id should be absent without an active span")
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Errorf("Expected two distinct run IDs, got %q and %q", a, b)
	}
	if RunID(context.Background()) != "" {
		t.Error("Expected empty run ID for a bare context")
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level   string
		visible []string
	}{
		{"debug", []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{"info", []string{"INFO", "WARN", "ERROR"}},
		{"warning", []string{"WARN", "ERROR"}},
		{"error", []string{"ERROR"}},
		{"bogus", []string{"INFO", "WARN", "ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(config.LoggingConfig{Level: tt.level}, &buf)
			if err != nil {
				t.Fatalf("Failed to create logger: %v", err)
			}

			logger.Debug("test debug")
			logger.Info("test info")
			logger.Warn("test warn")
			logger.Error("test error")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.visible) {
				t.Fatalf("Expected %d lines, got %d", len(tt.visible), len(lines))
			}
			for i, line := range lines {
				var entry map[string]interface{}
				if err := json.Unmarshal([]byte(line), &entry); err != nil {
					t.Fatalf("Failed to parse log JSON: %v", err)
				}
				if entry["level"] != tt.visible[i] {
					t.Errorf("Expected level %s, got %v", tt.visible[i], entry["level"])
				}
			}
		})
	}
}

func TestNewLogger_FileErrors(t *testing.T) {
	if _, err := NewLogger(config.LoggingConfig{Output: "file"}, &bytes.Buffer{}); err == nil {
		t.Error("Expected an error for an empty log file path")
	}
}
