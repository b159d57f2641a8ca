// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package parse

import (
	"errors"
	"fmt"
)

// ErrMetadataCompleted is returned when events keep arriving after the
// aggregate has been marked complete
var ErrMetadataCompleted = errors.New("metadata is already completed")

// Metadata incrementally aggregates events into a structural
// description of the FFmpeg job. It is owned and mutated by the single
// consumer driving the event stream; use Snapshot for shared reads.
type Metadata struct {
	inputs        []Input
	outputs       []Output
	inputStreams  []Stream
	outputStreams []Stream

	// every stream mapping entry corresponds to one eventual output
	// stream; counting them tells us when all output streams arrived
	expectedOutputStreams int
	completed             bool
}

// NewMetadata creates an empty aggregate
func NewMetadata() *Metadata {
	return &Metadata{}
}

// HandleEvent folds one event into the aggregate. After completion any
// further call fails without mutating state, as does a duration event
// referencing an input index that was never registered.
func (m *Metadata) HandleEvent(ev Event) error {
	if m.completed {
		return ErrMetadataCompleted
	}

	switch ev.Type {
	case EventStreamMapping:
		m.expectedOutputStreams++
	case EventInput:
		m.inputs = append(m.inputs, *ev.Input)
	case EventOutput:
		m.outputs = append(m.outputs, *ev.Output)
	case EventDuration:
		index := ev.Duration.InputIndex
		if index < 0 || index >= len(m.inputs) {
			return fmt.Errorf("duration for unregistered input #%d", index)
		}
		seconds := ev.Duration.Seconds
		m.inputs[index].Duration = &seconds
	case EventInputStream:
		m.inputStreams = append(m.inputStreams, *ev.Stream)
	case EventOutputStream:
		m.outputStreams = append(m.outputStreams, *ev.Stream)
	}

	if m.expectedOutputStreams > 0 && len(m.outputStreams) == m.expectedOutputStreams {
		m.completed = true
	}
	return nil
}

// Completed reports whether all metadata has been gathered
func (m *Metadata) Completed() bool {
	return m.completed
}

// Duration is a shortcut returning the first input's duration in
// seconds. Multiple inputs with differing durations are not
// reconciled; this covers the common single-input case.
func (m *Metadata) Duration() (float64, bool) {
	if len(m.inputs) == 0 || m.inputs[0].Duration == nil {
		return 0, false
	}
	return *m.inputs[0].Duration, true
}

// Inputs returns the registered input descriptors in arrival order
func (m *Metadata) Inputs() []Input { return m.inputs }

// Outputs returns the registered output descriptors in arrival order
func (m *Metadata) Outputs() []Output { return m.outputs }

// InputStreams returns the collected input streams in arrival order
func (m *Metadata) InputStreams() []Stream { return m.inputStreams }

// OutputStreams returns the collected output streams in arrival order
func (m *Metadata) OutputStreams() []Stream { return m.outputStreams }

// Snapshot is a copy of the aggregate safe to hand across goroutines
type Snapshot struct {
	Inputs        []Input
	Outputs       []Output
	InputStreams  []Stream
	OutputStreams []Stream
	Completed     bool
}

// Snapshot copies the current aggregate state
func (m *Metadata) Snapshot() Snapshot {
	snap := Snapshot{
		Inputs:        make([]Input, len(m.inputs)),
		Outputs:       make([]Output, len(m.outputs)),
		InputStreams:  make([]Stream, len(m.inputStreams)),
		OutputStreams: make([]Stream, len(m.outputStreams)),
		Completed:     m.completed,
	}
	copy(snap.Inputs, m.inputs)
	copy(snap.Outputs, m.outputs)
	copy(snap.InputStreams, m.inputStreams)
	copy(snap.OutputStreams, m.outputStreams)
	return snap
}

// Duration is the Snapshot counterpart of Metadata.Duration
func (s Snapshot) Duration() (float64, bool) {
	if len(s.Inputs) == 0 || s.Inputs[0].Duration == nil {
		return 0, false
	}
	return *s.Inputs[0].Duration, true
}
