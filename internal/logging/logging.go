// Package logging builds the structured logger shared by the desktop. Every
// record is kept in an in-memory ring for the log viewer; with debug enabled
// records are also appended to a file under the XDG state directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"charm.land/log/v2"
	"github.com/adrg/xdg"
)

// Ring keeps the last N log lines.
type Ring struct {
	mu      sync.Mutex
	lines   []string
	size    int
	partial string
}

// NewRing returns a ring holding at most size lines.
func NewRing(size int) *Ring {
	return &Ring{size: max(size, 1)}
}

// Write stores each complete line in p. A trailing partial line is held
// until its newline arrives.
func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	text := r.partial + string(p)
	parts := strings.Split(text, "\n")
	r.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		r.lines = append(r.lines, line)
	}
	if over := len(r.lines) - r.size; over > 0 {
		r.lines = append(r.lines[:0], r.lines[over:]...)
	}
	return len(p), nil
}

// Lines returns a copy of the stored lines, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Len returns the number of stored lines.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

// Options configures New.
type Options struct {
	Debug bool
	// Prefix is shown before every message.
	Prefix string
	// FilePath overrides the debug log location.
	FilePath string
	// RingSize is the number of lines kept for the log viewer.
	RingSize int
}

// Logger bundles the logger with its ring and file.
type Logger struct {
	*log.Logger
	Ring *Ring
	file *os.File
}

// Path returns the debug log file path, or "" when logging only to memory.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close closes the debug log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// DefaultFilePath returns the debug log location.
func DefaultFilePath() (string, error) {
	path, err := xdg.StateFile("wintube/wintube.log")
	if err != nil {
		return "", fmt.Errorf("resolve log path: %w", err)
	}
	return path, nil
}

// New builds a logger. Without Debug it logs at info level into the ring
// only.
func New(opts Options) (*Logger, error) {
	ring := NewRing(opts.RingSize)
	var w io.Writer = ring
	l := &Logger{Ring: ring}

	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel

		path := opts.FilePath
		if path == "" {
			var err error
			if path, err = DefaultFilePath(); err != nil {
				return nil, err
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		w = io.MultiWriter(ring, f)
	}

	l.Logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
