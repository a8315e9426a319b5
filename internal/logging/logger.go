package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// requestIDKey is the key used to store the request ID in a context.
type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request ID.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request ID from ctx, or "" when absent.
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger tags every line with the request it belongs to.
type Logger struct {
	requestID string
}

// FromContext creates a logger for the request carried by ctx.
func FromContext(ctx context.Context) *Logger {
	requestID := "unknown"
	if rid := RequestID(ctx); rid != "" {
		requestID = rid
	}
	return &Logger{requestID: requestID}
}

func (l *Logger) Infof(operation string, format string, args ...any) {
	l.printf("info", operation, format, args...)
}

func (l *Logger) Warnf(operation string, format string, args ...any) {
	l.printf("warn", operation, format, args...)
}

func (l *Logger) Errorf(operation string, format string, args ...any) {
	l.printf("error", operation, format, args...)
}

func (l *Logger) printf(level, operation, format string, args ...any) {
	log.Printf("[%s] request_id=%s operation=%s %s", level, l.requestID, operation, fmt.Sprintf(format, args...))
}

// FileLogger appends timestamped lines to a file. The terminal client uses
// it because stdout belongs to the UI.
type FileLogger struct {
	w io.WriteCloser
}

// NewFileLogger creates (or reuses) the log file at path.
func NewFileLogger(path string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &FileLogger{w: f}, nil
}

// Close releases the file handle.
func (l *FileLogger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

// Printf writes a single timestamped line. A nil logger discards.
func (l *FileLogger) Printf(format string, args ...any) {
	if l == nil || l.w == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(l.w, "[%s] %s\n", time.Now().Format(time.RFC3339), line)
}
