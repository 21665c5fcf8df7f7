// Package log provides context-aware diagnostic logging for firstaide.
//
// Everything goes to the writer handed to [New], which the CLI points at
// stderr: stdout is reserved for the hook script and status data.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

type ctxKey struct{}

const timeLayout = "2006-01-02 15:04:05"

// Logger writes progress lines, warnings and verbose command traces.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
	now     func() time.Time
}

// New creates a new logger. Quiet wins over verbose.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet, now: time.Now}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a logger writing to io.Discard if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return New(io.Discard, false, true)
}

// Info logs a progress step. Suppressed by quiet.
func (l *Logger) Info(format string, args ...any) {
	if l.quiet {
		return
	}
	l.line("INFO", fmt.Sprintf(format, args...))
}

// Warn logs a warning. Warnings are written even when quiet.
func (l *Logger) Warn(format string, args ...any) {
	l.line("WARN", fmt.Sprintf(format, args...))
}

// Debug logs a message with key-value pairs when verbose.
// A trailing key without a value is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if !l.IsVerbose() {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	l.line("DEBUG", b.String())
}

// Command logs an external command execution and returns a func that
// records how long it took. Only prints when verbose.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	if !l.IsVerbose() {
		return func(time.Duration) {}
	}
	line := "$ " + strings.TrimSpace(name+" "+strings.Join(args, " "))
	if dir != "" {
		line = "[" + dir + "] " + line
	}
	return func(d time.Duration) {
		fmt.Fprintf(l.out, "%s (%s)\n", line, d.Round(time.Millisecond))
	}
}

// IsVerbose reports whether debug and command output is enabled.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

func (l *Logger) line(level, msg string) {
	fmt.Fprintf(l.out, "%s  %-5s  %s\n", l.now().Format(timeLayout), level, msg)
}
