// Package log is the lsvcs debug log. Messages are buffered in memory until
// a sink is chosen with SetFile or SetOutput, so the status cache and the
// listing can log before the configuration has been read.
package log

import (
	"io"
	"log"
	"os"
	"sync"
)

// maxBuffered bounds the in-memory buffer. Older output is dropped first,
// watch mode would otherwise grow it without limit.
const maxBuffered = 256 << 10

// DebugLogger is the io.Writer behind the package-level standard logger.
type DebugLogger struct {
	mu      sync.Mutex
	out     io.Writer
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	globalDebugLogger = &DebugLogger{}
	stdLogger         = log.New(globalDebugLogger, "lsvcs ", log.LstdFlags|log.Lmicroseconds)
)

// Write sends p to the sink, or buffers it while none is set.
func (l *DebugLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.discard:
		return len(p), nil
	case l.file != nil:
		n, err := l.file.Write(p)
		_ = l.file.Sync()
		return n, err
	case l.out != nil:
		return l.out.Write(p)
	}

	l.buffer = append(l.buffer, p...)
	if over := len(l.buffer) - maxBuffered; over > 0 {
		l.buffer = append(l.buffer[:0], l.buffer[over:]...)
	}
	return len(p), nil
}

// reset closes the current sink. Callers hold l.mu.
func (l *DebugLogger) reset() {
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
	l.out = nil
}

// flush hands the buffered output to w. Callers hold l.mu.
func (l *DebugLogger) flush(w io.Writer) {
	if len(l.buffer) > 0 {
		_, _ = w.Write(l.buffer)
		l.buffer = nil
	}
}

// SetFile appends the log to path, creating the file when needed. "-"
// selects stderr. An empty path, or a file that cannot be opened, discards
// both the buffer and every later message.
func SetFile(path string) error {
	if path == "-" {
		SetOutput(os.Stderr)
		return nil
	}

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	globalDebugLogger.reset()
	if path == "" {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return err
	}

	globalDebugLogger.file = f
	globalDebugLogger.discard = false
	globalDebugLogger.flush(f)
	_ = f.Sync()
	return nil
}

// SetOutput sends the log to w. A nil writer discards it.
func SetOutput(w io.Writer) {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	globalDebugLogger.reset()
	if w == nil {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return
	}
	globalDebugLogger.out = w
	globalDebugLogger.discard = false
	globalDebugLogger.flush(w)
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the log file if one is open.
func Close() error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file == nil {
		globalDebugLogger.out = nil
		return nil
	}
	err := globalDebugLogger.file.Close()
	globalDebugLogger.file = nil
	return err
}
