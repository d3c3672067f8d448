package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Leveled logger shared by the service binaries.
// Keeps the printf-style helpers used across handlers and adds With() for
// structured key/value logging in the service layer.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// levelFatal sits above every level Init can select, so it is never filtered.
const levelFatal = slog.LevelError + 4

var (
	mu     sync.RWMutex
	out    io.Writer = os.Stdout
	level  Level     = LevelInfo
	levelV           = new(slog.LevelVar)
	base   *slog.Logger
)

func init() {
	base = newLogger(out)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelV}))
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Unknown values fall back to info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level = LevelDebug
		levelV.Set(slog.LevelDebug)
	case "warn", "warning":
		level = LevelWarn
		levelV.Set(slog.LevelWarn)
	case "error":
		level = LevelError
		levelV.Set(slog.LevelError)
	case "fatal":
		level = LevelFatal
		levelV.Set(levelFatal)
	default:
		level = LevelInfo
		levelV.Set(slog.LevelInfo)
	}
}

// SetOutput redirects all log output. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	base = newLogger(w)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// With returns a structured logger carrying the given key/value pairs.
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

func Debugf(format string, v ...interface{}) {
	current().Debug(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...interface{}) {
	current().Info(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...interface{}) {
	current().Warn(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...interface{}) {
	current().Error(fmt.Sprintf(format, v...))
}

// Fatalf always logs, regardless of level, then exits.
func Fatalf(format string, v ...interface{}) {
	current().Log(context.Background(), levelFatal, fmt.Sprintf(format, v...))
	os.Exit(1)
}

func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
