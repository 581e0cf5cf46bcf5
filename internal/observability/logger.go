// Package observability provides the run logger and formatted output
// utilities for verbose CLI mode. The logger fans out each message to the
// console, an optional status callback, and an optional CSV run log.
package observability

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger is the single log sink the pipeline hands to its collaborators.
// Safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	callback func(string)

	csvFile   *os.File
	csvWriter *csv.Writer
}

// NewLogger writes timestamped messages to out (nil discards) and invokes
// callback for each message (nil skips).
func NewLogger(out io.Writer, callback func(string)) *Logger {
	if out == nil {
		out = io.Discard
	}
	return &Logger{out: out, callback: callback}
}

// TeeToCSV additionally appends every message to a CSV run log at path. The
// file is reset at the start of each run.
func (l *Logger) TeeToCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create run log dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create run log: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "message"}); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write run log header: %w", err)
	}
	w.Flush()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeCSVLocked()
	l.csvFile = f
	l.csvWriter = w
	return nil
}

// Logf formats and emits one message.
func (l *Logger) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// Log emits one message to every configured sink.
func (l *Logger) Log(message string) {
	now := time.Now().Format("15:04:05")

	l.mu.Lock()
	fmt.Fprintf(l.out, "[%s] %s\n", now, message)
	if l.csvWriter != nil {
		_ = l.csvWriter.Write([]string{time.Now().Format(time.RFC3339), message})
		l.csvWriter.Flush()
	}
	callback := l.callback
	l.mu.Unlock()

	if callback != nil {
		callback(message)
	}
}

// Func returns Log as a plain func(string) for collaborators that take a
// log hook instead of the Logger itself.
func (l *Logger) Func() func(string) {
	return l.Log
}

// Close flushes and closes the CSV run log if one is attached.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeCSVLocked()
	return nil
}

func (l *Logger) closeCSVLocked() {
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		l.csvWriter = nil
	}
	if l.csvFile != nil {
		_ = l.csvFile.Close()
		l.csvFile = nil
	}
}
