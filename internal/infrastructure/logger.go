package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/AbigailEBurns/EarningsDateUpdater/internal/config"
)

var (
	// globalLogger holds the application-wide logger instance
	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once
	// globalLogFile holds the open log file for cleanup
	globalLogFile *os.File
	logFileMu     sync.Mutex
)

type contextKey string

// RunIDContextKey is the context key holding the identifier of the current sweep
const RunIDContextKey contextKey = "run_id"

// InitializeLogger creates the global JSON slog logger and installs it as slog's default.
// It should be called once during startup; later calls return the first logger.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	globalLoggerOnce.Do(func() {
		globalLogger, err = NewLogger(cfg, os.Stdout)
		if globalLogger != nil {
			slog.SetDefault(globalLogger)
		}
	})
	return globalLogger, err
}

// NewLogger builds a JSON logger writing to console, the configured file, or both
func NewLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLogLevel(cfg.Level),
	}

	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "file":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		setLogFile(file)
		output = file
	case "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		setLogFile(file)
		output = io.MultiWriter(console, file)
	default:
		output = console
	}

	handler := slog.NewJSONHandler(output, opts)
	return slog.New(&runHandler{Handler: handler}), nil
}

// runHandler wraps a slog.Handler to inject run_id and trace_id from context
type runHandler struct {
	slog.Handler
}

// Handle adds run_id and the active trace_id to the record when present in context
func (h *runHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RunID(ctx); id != "" {
		r.AddAttrs(slog.String("run_id", id))
	}
	if traceID := TraceIDFromContext(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs returns a new Handler with additional attributes
func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup returns a new Handler with the given group name
func (h *runHandler) WithGroup(name string) slog.Handler {
	return &runHandler{Handler: h.Handler.WithGroup(name)}
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewRunID returns a fresh identifier for one sweep
func NewRunID() string {
	return uuid.New().String()
}

// WithRunID stores the sweep identifier in ctx
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RunIDContextKey, id)
}

// RunID returns the sweep identifier stored in ctx, or ""
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDContextKey).(string); ok {
		return id
	}
	return ""
}

// WithComponent creates a logger with a component field
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}

// CloseLogFile closes the global log file if open.
// This should be called during shutdown or in tests.
func CloseLogFile() error {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if globalLogFile != nil {
		err := globalLogFile.Close()
		globalLogFile = nil
		return err
	}
	return nil
}

// ResetLoggerForTesting resets the global logger state.
// This should only be called in tests.
func ResetLoggerForTesting() {
	_ = CloseLogFile()
	globalLogger = nil
	globalLoggerOnce = sync.Once{}
}

func setLogFile(f *os.File) {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if globalLogFile != nil {
		_ = globalLogFile.Close()
	}
	globalLogFile = f
}

// openLogFile opens or creates a log file in append mode
func openLogFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return nil, fmt.Errorf("log file path is empty")
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}
	return file, nil
}
