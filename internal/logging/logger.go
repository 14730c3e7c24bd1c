package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Config holds logging configuration
type Config struct {
	Level      LogLevel
	OutputFile string // empty means stderr only
	JSONFormat bool
	AddSource  bool
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() Config {
	timestamp := time.Now().Format("20060102_150405")
	return Config{
		Level:      LevelInfo,
		OutputFile: filepath.Join("logs", fmt.Sprintf("bodyscan_%s.log", timestamp)),
		JSONFormat: false,
		AddSource:  false,
	}
}

// DebugConfig returns configuration for verbose debugging
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = LevelDebug
	cfg.AddSource = true
	return cfg
}

// ProductionConfig returns configuration for production use
func ProductionConfig() Config {
	return Config{
		Level:      LevelInfo,
		OutputFile: "",
		JSONFormat: true,
		AddSource:  false,
	}
}

// Logger wraps slog.Logger with file output support
type Logger struct {
	*slog.Logger
	file *os.File
}

// New creates a logger from the given config. When OutputFile is set,
// log lines go to both stderr and the file.
func New(cfg Config) (*Logger, error) {
	var out io.Writer = os.Stderr
	var file *os.File

	if cfg.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		out = io.MultiWriter(os.Stderr, f)
	}

	opts := &slog.HandlerOptions{
		Level:     slogLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{Logger: slog.New(handler), file: file}, nil
}

// With returns a logger with the given attributes attached
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), file: l.file}
}

// Fatal logs at error level and exits
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	l.Close()
	os.Exit(1)
}

// Close flushes and closes the log file if one is open
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func slogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	globalMu     sync.Mutex
	globalLogger *Logger
)

// Initialize sets up the global logger. Safe to call more than once;
// the last call wins.
func Initialize(cfg Config) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger != nil {
		globalLogger.Close()
	}
	globalLogger = logger
	return nil
}

// Get returns the global logger, initializing a stderr-only logger
// if Initialize was never called.
func Get() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = &Logger{Logger: slog.Default()}
	}
	return globalLogger
}

// Debug logs at debug level using the global logger
func Debug(msg string, args ...any) { Get().Debug(msg, args...) }

// Info logs at info level using the global logger
func Info(msg string, args ...any) { Get().Info(msg, args...) }

// Warn logs at warn level using the global logger
func Warn(msg string, args ...any) { Get().Warn(msg, args...) }

// Error logs at error level using the global logger
func Error(msg string, args ...any) { Get().Error(msg, args...) }

// DebugContext logs at debug level with context
func DebugContext(ctx context.Context, msg string, args ...any) {
	Get().DebugContext(ctx, msg, args...)
}
