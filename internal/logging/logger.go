// Package logging provides leveled logging for csvclip.
//
// The TUI owns the terminal while it runs, so the file logger never writes to
// stdout or stderr. Headless commands use a console logger instead.
package logging

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level is a log severity.
type Level int

// Log levels, lowest first.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the short level tag written to log lines (L0..L5).
func (l Level) String() string {
	return fmt.Sprintf("L%d", int(l))
}

// Name returns the human-readable level name.
func (l Level) Name() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name ("debug", "warn", ...) to a Level.
// Unknown names map to LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Logger provides logging capabilities for csvclip.
type Logger interface {
	Trace(format string, args ...any)
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)

	// Fatal records a fatal condition. It does not exit the process.
	Fatal(format string, args ...any)

	// SetComponent sets the component name written as log context (e.g. "tui", "rows").
	SetComponent(component string)

	// SetFile sets the CSV file currently being worked on.
	SetFile(file string)

	// StartTimer starts a timer for measuring operation duration
	StartTimer(operation string) *Timer

	Close() error
}

// Timer measures how long an operation took and logs it on Stop.
type Timer struct {
	operation string
	start     time.Time
	logger    *writerLogger
}

// Stop stops the timer and logs the elapsed time.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if t.logger != nil {
		t.logger.logAt(LevelInfo, 2, "%s completed in %v", t.operation, elapsed)
	}
	return elapsed
}

// StopWithResult stops the timer and logs the outcome.
func (t *Timer) StopWithResult(success bool, detail string) time.Duration {
	elapsed := time.Since(t.start)
	if t.logger == nil {
		return elapsed
	}
	status := "completed"
	level := LevelInfo
	if !success {
		status = "failed"
		level = LevelWarn
	}
	if detail != "" {
		t.logger.logAt(level, 2, "%s %s in %v: %s", t.operation, status, elapsed, detail)
	} else {
		t.logger.logAt(level, 2, "%s %s in %v", t.operation, status, elapsed)
	}
	return elapsed
}

type writerLogger struct {
	mu        sync.Mutex
	out       io.Writer
	closer    io.Closer
	minLevel  Level
	component string
	file      string
}

// New creates a Logger that appends to the file at logPath.
// Trace and debug lines are only written when debug is true.
func New(logPath string, debug bool) (Logger, error) {
	minLevel := LevelInfo
	if debug {
		minLevel = LevelTrace
	}
	return NewWithLevel(logPath, minLevel)
}

// NewWithLevel creates a file Logger that drops lines below minLevel.
func NewWithLevel(logPath string, minLevel Level) (Logger, error) {
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &writerLogger{out: f, closer: f, minLevel: minLevel}, nil
}

// NewConsole creates a Logger writing to w (usually stderr) for headless commands.
func NewConsole(w io.Writer, minLevel Level) Logger {
	return &writerLogger{out: w, minLevel: minLevel}
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return &writerLogger{}
}

func (l *writerLogger) SetComponent(component string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.component = component
}

func (l *writerLogger) SetFile(file string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.file = file
}

// context renders "component:file"; caller holds the lock.
func (l *writerLogger) context() string {
	if l.file != "" {
		return l.component + ":" + l.file
	}
	return l.component
}

// getCaller returns the short function name skip frames up the stack.
func getCaller(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	name := fn.Name()
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// logAt writes one line. skip counts the frames between the user call site
// and getCaller.
func (l *writerLogger) logAt(level Level, skip int, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil || level < l.minLevel {
		return
	}

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("06-01-02 15:04:05.0")
	caller := getCaller(skip + 1)

	// Format: [timestamp] [level] [context] [caller] message
	line := fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n", timestamp, level, l.context(), caller, msg)
	if _, err := io.WriteString(l.out, line); err != nil && l.closer != nil {
		fmt.Fprintf(os.Stderr, "csvclip: failed to write log: %v\n", err)
	}
}

func (l *writerLogger) Trace(format string, args ...any) {
	l.logAt(LevelTrace, 2, format, args...)
}

func (l *writerLogger) Debug(format string, args ...any) {
	l.logAt(LevelDebug, 2, format, args...)
}

func (l *writerLogger) Info(format string, args ...any) {
	l.logAt(LevelInfo, 2, format, args...)
}

func (l *writerLogger) Warn(format string, args ...any) {
	l.logAt(LevelWarn, 2, format, args...)
}

func (l *writerLogger) Error(format string, args ...any) {
	l.logAt(LevelError, 2, format, args...)
}

func (l *writerLogger) Fatal(format string, args ...any) {
	l.logAt(LevelFatal, 2, format, args...)
}

func (l *writerLogger) StartTimer(operation string) *Timer {
	l.logAt(LevelDebug, 2, "%s started", operation)
	return &Timer{
		operation: operation,
		start:     time.Now(),
		logger:    l,
	}
}

func (l *writerLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	l.out = nil
	return err
}

// Global logger instance. Discards until SetGlobal is called.
var globalLogger = Discard()

// SetGlobal sets the global logger instance.
func SetGlobal(l Logger) {
	globalLogger = l
}

// Global returns the global logger instance.
func Global() Logger {
	return globalLogger
}

// Trace logs trace information using the global logger.
func Trace(format string, args ...any) {
	globalLogger.Trace(format, args...)
}

// Debug logs debug information using the global logger.
func Debug(format string, args ...any) {
	globalLogger.Debug(format, args...)
}

// Info logs an informational message using the global logger.
func Info(format string, args ...any) {
	globalLogger.Info(format, args...)
}

// Warn logs a warning using the global logger.
func Warn(format string, args ...any) {
	globalLogger.Warn(format, args...)
}

// Error logs an error using the global logger.
func Error(format string, args ...any) {
	globalLogger.Error(format, args...)
}

// StartTimer starts a timer using the global logger.
func StartTimer(operation string) *Timer {
	return globalLogger.StartTimer(operation)
}
