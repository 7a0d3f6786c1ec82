// Package logging writes structured logs to a file under the XDG state
// directory. The terminal belongs to the TUI, so nothing is logged to stdout.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

var (
	mu    sync.RWMutex
	root  = slog.New(slog.NewTextHandler(io.Discard, nil))
	level = new(slog.LevelVar)
)

// Path returns the default log file location.
func Path() string {
	return filepath.Join(xdg.StateHome, "secnews", "secnews.log")
}

// Setup points the root logger at path, appending. The returned closer
// releases the file.
func Setup(path, lvl string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	SetOutput(f, lvl)
	return f, nil
}

// SetOutput replaces the root handler. Tests use it to capture output.
func SetOutput(w io.Writer, lvl string) {
	level.Set(ParseLevel(lvl))
	mu.Lock()
	root = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	mu.Unlock()
}

// For returns a logger tagged with the component name.
func For(component string) *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.With("component", component)
}

// ParseLevel maps debug/info/warn/error to a level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
