// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package parse

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Reader pulls typed events from a line-oriented log stream, one line
// per call. It owns a Metadata aggregate and feeds every event into it
// until the aggregate is complete, so metadata accumulates while the
// caller consumes events.
type Reader struct {
	scanner *bufio.Scanner
	sec     section
	meta    *Metadata
	eof     bool
}

// NewReader wraps r, typically the stderr pipe of a running FFmpeg
// process. Nothing is read until the first call to Next.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Split(ScanLines)
	return &Reader{scanner: scanner, meta: NewMetadata()}
}

// Next reads one line and returns the event decoded from it. On source
// exhaustion it returns a terminal EOF event; subsequent calls keep
// returning EOF. A read failure or an aggregation failure surfaces as
// an error event without ending the sequence.
func (r *Reader) Next() Event {
	if r.eof {
		return Event{Type: EventEOF}
	}

	if !r.scanner.Scan() {
		r.eof = true
		if err := r.scanner.Err(); err != nil {
			return errorEvent(err.Error())
		}
		return Event{Type: EventEOF}
	}

	ev, sec := classify(r.scanner.Text(), r.sec)
	r.sec = sec

	if !r.meta.Completed() {
		if err := r.meta.HandleEvent(ev); err != nil {
			return errorEvent(err.Error())
		}
	}
	return ev
}

// Metadata returns the aggregate owned by this reader. It is partial
// until Completed reports true.
func (r *Reader) Metadata() *Metadata {
	return r.meta
}

// CollectMetadata pulls events until the aggregate completes,
// discarding them. If the stream ends first, the collected error
// events are folded into the returned error.
func (r *Reader) CollectMetadata() (*Metadata, error) {
	var failures []string
	for !r.meta.Completed() {
		ev := r.Next()
		switch {
		case ev.Type == EventEOF:
			if len(failures) > 0 {
				return nil, fmt.Errorf("log stream ended before metadata was complete: %s", strings.Join(failures, "; "))
			}
			return nil, fmt.Errorf("log stream ended before metadata was complete")
		case ev.Type == EventError, ev.Type == EventLog && ev.Level == LevelError:
			failures = append(failures, ev.Text)
		}
	}
	return r.meta, nil
}

// ScanLines is a bufio.SplitFunc treating "\n", "\r\n" and bare "\r"
// as line terminators. FFmpeg uses a bare carriage return to overwrite
// its progress line in place, so "\r" must terminate a line rather
// than be stripped with the rest of the terminator run.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, width := utf8.DecodeRune(data[start:])
		if r != '\n' && r != '\r' {
			break
		}
		start += width
	}

	for i := start; i < len(data); {
		r, width := utf8.DecodeRune(data[i:])
		if r == '\n' || r == '\r' {
			return i + width, data[start:i], nil
		}
		i += width
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}
