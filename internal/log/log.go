// Package log provides categorized structured logging for runbook.
//
// The TUI owns stdout/stderr, so log output goes to a file (default
// ~/.config/runbook/runbook.log). Until Init is called, all log calls are
// discarded, which keeps tests quiet without any setup.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Category labels the subsystem a log entry originates from.
type Category string

const (
	// CatUI covers the bubbletea presentation layer.
	CatUI Category = "ui"
	// CatConfig covers configuration loading and validation.
	CatConfig Category = "config"
	// CatCatalog covers workflow catalog loading and watching.
	CatCatalog Category = "catalog"
	// CatAssistant covers the command interpreter.
	CatAssistant Category = "assistant"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	closer io.Closer
)

// Init opens the log file and installs a handler at the given level.
// Level strings follow slog: "debug", "info", "warn", "error" (case-insensitive).
// An empty path resolves to DefaultPath(). Returns a cleanup func that closes
// the file.
func Init(level, path string) (func(), error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	mu.Lock()
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl}))
	closer = f
	mu.Unlock()

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if closer != nil {
			_ = closer.Close()
			closer = nil
		}
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}, nil
}

// DefaultPath returns the default log file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "runbook", "runbook.log")
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// Debug logs at debug level with the given category.
func Debug(cat Category, msg string, keyvals ...any) { log(slog.LevelDebug, cat, msg, keyvals...) }

// Info logs at info level with the given category.
func Info(cat Category, msg string, keyvals ...any) { log(slog.LevelInfo, cat, msg, keyvals...) }

// Warn logs at warn level with the given category.
func Warn(cat Category, msg string, keyvals ...any) { log(slog.LevelWarn, cat, msg, keyvals...) }

// Error logs at error level with the given category.
func Error(cat Category, msg string, keyvals ...any) { log(slog.LevelError, cat, msg, keyvals...) }

func log(lvl slog.Level, cat Category, msg string, keyvals ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Log(context.Background(), lvl, msg, append([]any{"cat", string(cat)}, keyvals...)...)
}
