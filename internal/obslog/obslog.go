// Package obslog provides named, stderr-only loggers for extractcli's
// internal packages, grounded on the teacher's pkg/logger convention of one
// package-level *Logger per file (claudeLog, mcpLog, engineLog, ...).
//
// Every tool-server process shares stdout with the MCP JSON-RPC transport
// (pkg/mcpserver §4.C), so obslog never writes to stdout: it always targets
// stderr, via log/slog's text handler.
package obslog

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is a named wrapper around *slog.Logger. The name is attached to
// every record as the "component" attribute, mirroring the teacher's
// "workflow:claude_engine"-style logger names.
type Logger struct {
	name string
	slog *slog.Logger
}

var base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: levelFromEnv(),
}))

func levelFromEnv() slog.Level {
	switch os.Getenv("EXTRACTCLI_LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a named logger, e.g. obslog.New("supervisor").
func New(name string) *Logger {
	return &Logger{name: name, slog: base.With("component", name)}
}

// Printf logs a formatted message at info level.
func (l *Logger) Printf(format string, args ...any) {
	l.slog.Info(sprintf(format, args...))
}

// Print logs a message at info level.
func (l *Logger) Print(msg string) {
	l.slog.Info(msg)
}

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.slog.Debug(sprintf(format, args...))
}

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.slog.Error(sprintf(format, args...))
}

// AsSlogHandler exposes the logger's underlying slog.Logger, for handing to
// libraries (like modelcontextprotocol/go-sdk's mcp.ServerOptions.Logger)
// that expect a *slog.Logger rather than extractcli's own wrapper.
func (l *Logger) AsSlogHandler() *slog.Logger {
	return l.slog
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
