// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package parse

import (
	"container/ring"
	"sync"
	"time"

	"github.com/ZSC714725/streammonitor/internal/process"
)

// Parser implements process.Parser for a supervised FFmpeg process. It
// pushes every stderr line through the classifier, keeps the latest
// progress snapshot, a ring buffer of log lines and the per-process
// metadata aggregate.
type Parser interface {
	process.Parser
	Progress() Progress
	Metadata() Snapshot
}

type parser struct {
	sec      section
	meta     *Metadata
	progress Progress

	log      *ring.Ring
	logLines int

	lock sync.RWMutex
}

// Config for the parser
type Config struct {
	LogLines int
}

// New creates a Parser
func New(config Config) Parser {
	p := &parser{logLines: config.LogLines}
	if p.logLines <= 0 {
		p.logLines = 100
	}
	p.log = ring.New(p.logLines)
	p.meta = NewMetadata()
	return p
}

// Parse consumes one log line. The returned frame counter is non-zero
// for progress lines so the supervisor can detect a stalled process.
func (p *parser) Parse(line string) uint64 {
	now := time.Now()

	p.lock.Lock()
	defer p.lock.Unlock()

	ev, sec := classify(line, p.sec)
	p.sec = sec

	p.appendLog(process.Line{Timestamp: now, Data: line})

	if !p.meta.Completed() {
		if err := p.meta.HandleEvent(ev); err != nil {
			p.appendLog(process.Line{Timestamp: now, Data: "metadata: " + err.Error()})
		}
	}

	if ev.Type == EventProgress {
		p.progress = *ev.Progress
		return p.progress.Frame
	}
	return 0
}

func (p *parser) appendLog(line process.Line) {
	p.log.Value = line
	p.log = p.log.Next()
}

func (p *parser) ResetStats() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.progress = Progress{}
}

// ResetLog clears the log ring and restarts section tracking and
// metadata aggregation, for process restarts.
func (p *parser) ResetLog() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.log = ring.New(p.logLines)
	p.sec = section{}
	p.meta = NewMetadata()
}

func (p *parser) Log() []process.Line {
	var out []process.Line
	p.lock.RLock()
	p.log.Do(func(v interface{}) {
		if v != nil {
			out = append(out, v.(process.Line))
		}
	})
	p.lock.RUnlock()
	return out
}

func (p *parser) Progress() Progress {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.progress
}

// Metadata returns a copy of the aggregated metadata
func (p *parser) Metadata() Snapshot {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.meta.Snapshot()
}
