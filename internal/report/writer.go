// Package report writes the JSONL run log of a verification run.
package report

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ajsharma/verify_ui/internal/events"
)

const (
	// DefaultBufferSize is the default buffer size for the log writer (8 KB).
	DefaultBufferSize = 8 * 1024

	// DefaultFlushInterval is the default interval between automatic flushes.
	DefaultFlushInterval = 100 * time.Millisecond
)

// Writer appends run events to a single JSONL file.
// A Writer created with an empty path discards everything.
type Writer struct {
	path          string
	sessionID     string
	file          *os.File
	writer        *bufio.Writer
	flushTimer    *time.Timer
	flushInterval time.Duration
	bufferSize    int
	written       int
	mu            sync.Mutex
}

// NewWriter creates a Writer for path with a fresh session id.
// The file is opened lazily on the first event.
func NewWriter(path string) *Writer {
	return &Writer{
		path:          path,
		sessionID:     uuid.New().String(),
		flushInterval: DefaultFlushInterval,
		bufferSize:    DefaultBufferSize,
	}
}

// SetFlushInterval sets the flush interval for automatic flushing.
func (w *Writer) SetFlushInterval(interval time.Duration) {
	w.flushInterval = interval
}

// SetBufferSize sets the buffer size used when the file is opened.
func (w *Writer) SetBufferSize(size int) {
	w.bufferSize = size
}

// SessionID returns the id stamped on every event of this run.
func (w *Writer) SessionID() string {
	return w.sessionID
}

// Enabled reports whether events are persisted.
func (w *Writer) Enabled() bool {
	return w.path != ""
}

// Written returns the number of events written so far.
func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// open creates the log file. Caller holds w.mu.
func (w *Writer) open() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w.file = f
	w.writer = bufio.NewWriterSize(f, w.bufferSize)
	return nil
}

// WriteEvent stamps the session id on event and appends it to the log.
func (w *Writer) WriteEvent(event *events.LogEvent) error {
	if !w.Enabled() {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.open(); err != nil {
			return err
		}
	}

	event.SessionID = w.sessionID

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := w.writer.Write(append(data, '\n')); err != nil {
		return err
	}
	w.written++

	return w.handleFlush(event.EventType)
}

// handleFlush determines and executes the appropriate flush strategy.
func (w *Writer) handleFlush(eventType string) error {
	isMeta := strings.HasPrefix(eventType, "meta.")
	bufferFull := w.writer.Buffered() > w.writer.Size()*3/4

	switch {
	case isMeta:
		// Session boundaries go to disk immediately
		if err := w.writer.Flush(); err != nil {
			return err
		}
		if err := w.file.Sync(); err != nil {
			return err
		}
		w.cancelFlushTimer()
	case bufferFull:
		if err := w.writer.Flush(); err != nil {
			return err
		}
		w.cancelFlushTimer()
	default:
		w.scheduleFlush()
	}

	return nil
}

// scheduleFlush schedules a flush after the flush interval.
func (w *Writer) scheduleFlush() {
	if w.flushTimer != nil {
		return // Timer already scheduled
	}

	w.flushTimer = time.AfterFunc(w.flushInterval, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.writer != nil {
			_ = w.writer.Flush()
		}
		w.flushTimer = nil
	})
}

// cancelFlushTimer cancels any pending flush timer.
func (w *Writer) cancelFlushTimer() {
	if w.flushTimer != nil {
		w.flushTimer.Stop()
		w.flushTimer = nil
	}
}

// Close flushes, syncs and closes the log file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	w.cancelFlushTimer()

	var lastErr error
	if err := w.writer.Flush(); err != nil {
		lastErr = err
	}
	if err := w.file.Sync(); err != nil {
		lastErr = err
	}
	if err := w.file.Close(); err != nil {
		lastErr = err
	}

	w.file = nil
	w.writer = nil
	return lastErr
}
