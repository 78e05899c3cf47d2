// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package prefixwriter

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Sink serialises whole lines onto an underlying writer.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSink returns a Sink writing to w.
func NewSink(w io.Writer) *Sink {
	if w == nil {
		w = io.Discard
	}

	return &Sink{w: w}
}

// Writer returns a new line writer that tags every line with prefix.
func (s *Sink) Writer(prefix string) *Writer {
	return &Writer{sink: s, prefix: prefix}
}

func (s *Sink) writeLine(prefix, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if prefix == "" {
		_, err = io.WriteString(s.w, line+"\n")
	} else {
		_, err = io.WriteString(s.w, prefix+" "+line+"\n")
	}

	return err //nolint:wrapcheck
}

// Writer buffers partial lines and emits complete ones to its Sink.
// It is safe for concurrent use, so stdout and stderr of one process may share it.
type Writer struct {
	sink     *Sink
	prefix   string
	mu       sync.Mutex
	partial  bytes.Buffer
	lastLine string
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.partial.Write(p)

	for {
		data := w.partial.Bytes()

		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}

		line := strings.TrimSuffix(string(data[:i]), "\r")
		w.partial.Next(i + 1)

		if err := w.emit(line); err != nil {
			return len(p), err
		}
	}

	return len(p), nil
}

// Close flushes any trailing partial line.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.partial.Len() == 0 {
		return nil
	}

	line := strings.TrimSuffix(w.partial.String(), "\r")
	w.partial.Reset()

	return w.emit(line)
}

// LastLine returns the last non-blank line written. If maxLength > 0 the line is
// truncated to that length, ending in "...".
func (w *Writer) LastLine(maxLength int) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	result := w.lastLine
	if maxLength > 3 && ansi.StringWidth(result) > maxLength {
		result = ansi.Truncate(result, maxLength, "...")
	}

	return result
}

// must hold w.mu.
func (w *Writer) emit(line string) error {
	if strings.TrimSpace(line) != "" {
		w.lastLine = strings.TrimSpace(line)
	}

	return w.sink.writeLine(w.prefix, line)
}
