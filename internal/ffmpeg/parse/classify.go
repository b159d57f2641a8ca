// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package parse

import (
	"fmt"
	"strings"
)

// sectionKind is the logical phase of the log inferred from header
// lines. It decides how context-dependent lines are interpreted.
type sectionKind int

const (
	sectionOther sectionKind = iota
	sectionInput
	sectionOutput
	sectionStreamMapping
)

type section struct {
	kind  sectionKind
	index int // input or output index, for sectionInput and sectionOutput
}

// classify turns one log line into exactly one event and the section
// state for the next line. First match in the precedence chain wins;
// a line matching no specific shape degrades to a generic log event.
func classify(line string, sec section) (Event, section) {
	if version, ok := tryParseVersion(line); ok {
		return Event{Type: EventVersion, Version: &Version{Version: version, Raw: line}}, sec
	}

	if flags, ok := tryParseConfiguration(line); ok {
		return Event{Type: EventConfiguration, Configuration: &Configuration{Flags: flags, Raw: line}}, sec
	}

	if index, ok := tryParseInput(line); ok {
		sec = section{kind: sectionInput, index: index}
		return Event{Type: EventInput, Input: &Input{Index: index, Raw: line}}, sec
	}

	if output, ok := tryParseOutput(line); ok {
		sec = section{kind: sectionOutput, index: output.Index}
		return Event{Type: EventOutput, Output: output}, sec
	}

	if strings.Contains(line, "Stream mapping:") {
		return logEvent(levelOf(line), line), section{kind: sectionStreamMapping}
	}

	if seconds, ok := tryParseDuration(line); ok {
		// only meaningful inside an input section; elsewhere the line
		// is plain log output
		if sec.kind == sectionInput {
			duration := &Duration{InputIndex: sec.index, Seconds: seconds, Raw: line}
			return Event{Type: EventDuration, Duration: duration}, sec
		}
		return logEvent(LevelInfo, line), sec
	}

	if sec.kind == sectionStreamMapping && strings.Contains(line, "  Stream #") {
		return Event{Type: EventStreamMapping, Text: line}, sec
	}

	if stream, ok := tryParseStream(line); ok {
		switch sec.kind {
		case sectionInput:
			return Event{Type: EventInputStream, Stream: stream}, sec
		case sectionOutput:
			return Event{Type: EventOutputStream, Stream: stream}, sec
		default:
			return errorEvent(fmt.Sprintf("unexpected stream specification: %s", line)), sec
		}
	}

	if progress, ok := tryParseProgress(line); ok {
		return Event{Type: EventProgress, Progress: progress}, section{kind: sectionOther}
	}

	return logEvent(levelOf(line), line), sec
}

// levelOf classifies a line by the first matching severity marker
func levelOf(line string) LogLevel {
	switch {
	case strings.Contains(line, "[info]"):
		return LevelInfo
	case strings.Contains(line, "[warning]"):
		return LevelWarning
	case strings.Contains(line, "[error]"):
		return LevelError
	case strings.Contains(line, "[fatal]"):
		return LevelFatal
	}
	return LevelUnknown
}
