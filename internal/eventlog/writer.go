// Package eventlog provides the reference on-disk form of a match's event
// stream: UTF-8, LF-terminated JSONL, one event object per line, keys
// recursively sorted so the file's bytes (and hash) are reproducible across
// implementations.
package eventlog

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/lox/arenacore/internal/match"
	"github.com/lox/arenacore/internal/xhash"
)

// Writer appends match.Event values to an underlying file as canonical
// JSONL, buffering writes and flushing in batches rather than fsync-ing
// once per event.
type Writer struct {
	mu         sync.Mutex
	file       *os.File
	buf        *bufio.Writer
	pending    int
	flushEvery int
}

// NewWriter creates (or truncates) path and returns a Writer that flushes
// to disk every flushEvery lines. flushEvery <= 0 means flush on every
// write, matching the cautious default a bare replay tool would want.
func NewWriter(path string, flushEvery int) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}
	if flushEvery <= 0 {
		flushEvery = 1
	}
	return &Writer{file: f, buf: bufio.NewWriter(f), flushEvery: flushEvery}, nil
}

// WriteEvent appends one event as a canonical, key-sorted JSON line.
func (w *Writer) WriteEvent(ev match.Event) error {
	line, err := xhash.CanonicalBytes(ev)
	if err != nil {
		return fmt.Errorf("eventlog: canonicalize event: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.buf.Write(line); err != nil {
		return fmt.Errorf("eventlog: write: %w", err)
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("eventlog: write newline: %w", err)
	}
	w.pending++
	if w.pending >= w.flushEvery {
		w.pending = 0
		return w.flushLocked()
	}
	return nil
}

// Flush forces any buffered lines to disk.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = 0
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("eventlog: flush: %w", err)
	}
	return w.file.Sync()
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
