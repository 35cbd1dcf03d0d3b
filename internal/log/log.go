package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	level      = new(slog.LevelVar)
	mu         sync.RWMutex
)

// initLogger initializes the global logger to write text records to stderr.
func initLogger() {
	loggerOnce.Do(func() {
		level.Set(slog.LevelInfo)
		mu.Lock()
		logger = newLogger(os.Stderr)
		mu.Unlock()
	})
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetOutput redirects all subsequent records to w. Tests use it to capture output.
func SetOutput(w io.Writer) {
	initLogger()
	mu.Lock()
	logger = newLogger(w)
	mu.Unlock()
}

func SetLevel(l Level) {
	initLogger()
	switch l {
	case LevelDebug:
		level.Set(slog.LevelDebug)
	case LevelWarn:
		level.Set(slog.LevelWarn)
	case LevelError:
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
}

// ParseLevel maps a config string ("debug", "info", ...) to a Level.
// Unknown values fall back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func Debug(msg string, kv ...any) {
	logWithLevel(slog.LevelDebug, msg, kv...)
}

func Info(msg string, kv ...any) {
	logWithLevel(slog.LevelInfo, msg, kv...)
}

func Warn(msg string, kv ...any) {
	logWithLevel(slog.LevelWarn, msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	logWithLevel(slog.LevelError, msg, extended...)
}

func logWithLevel(l slog.Level, msg string, kv ...any) {
	initLogger()
	mu.RLock()
	lg := logger
	mu.RUnlock()
	lg.Log(context.Background(), l, msg, pairs(kv)...)
}

// pairs drops a trailing key without a value and any non-string key, so
// call sites can stay loose about what they pass.
func pairs(kv []any) []any {
	out := make([]any, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		out = append(out, key, kv[i+1])
	}
	return out
}
