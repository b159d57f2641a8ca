// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具
//
// Package parse decodes the diagnostic log stream that FFmpeg writes to
// stderr into typed events and aggregates them into a structural
// description of the job (inputs, outputs, streams, duration).

package parse

// EventType discriminates the Event union
type EventType string

const (
	EventVersion       EventType = "version"
	EventConfiguration EventType = "configuration"
	EventInput         EventType = "input"
	EventOutput        EventType = "output"
	EventDuration      EventType = "duration"
	EventInputStream   EventType = "input_stream"
	EventOutputStream  EventType = "output_stream"
	EventStreamMapping EventType = "stream_mapping"
	EventProgress      EventType = "progress"
	EventLog           EventType = "log"
	EventError         EventType = "error"
	EventEOF           EventType = "eof"
)

// LogLevel of a generic log line, taken from the bracketed severity tag
type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelWarning LogLevel = "warning"
	LevelError   LogLevel = "error"
	LevelFatal   LogLevel = "fatal"
	LevelUnknown LogLevel = "unknown"
)

// Event is one unit of typed information decoded from a single log line.
// Exactly one payload field matching Type is set. Log, Error and EOF
// events carry only Level and Text.
type Event struct {
	Type EventType

	Version       *Version
	Configuration *Configuration
	Input         *Input
	Output        *Output
	Duration      *Duration
	Stream        *Stream
	Progress      *Progress

	// Level and Text are set for log and error events. For stream
	// mapping events Text holds the raw mapping line.
	Level LogLevel
	Text  string
}

// Version is the FFmpeg version string, typically the first log line
type Version struct {
	Version string
	Raw     string
}

// Configuration is the list of build flags FFmpeg was compiled with
type Configuration struct {
	Flags []string
	Raw   string
}

// Input is an "Input #N" header. Duration is nil until a Duration
// event inside the same section fills it in.
type Input struct {
	Index    int
	Duration *float64
	Raw      string
}

// Output is an "Output #N, <format>, to '<dest>'" header
type Output struct {
	Index int
	To    string
	Raw   string
}

// Duration references the input section it was found in
type Duration struct {
	InputIndex int
	Seconds    float64
	Raw        string
}

// StreamType of an elementary stream
type StreamType string

const (
	StreamVideo    StreamType = "video"
	StreamAudio    StreamType = "audio"
	StreamSubtitle StreamType = "subtitle"
	StreamOther    StreamType = "other"
)

// Stream is one elementary track within an input or output container
type Stream struct {
	ParentIndex int
	StreamIndex int
	Language    string
	Format      string
	Type        StreamType
	Video       *VideoData
	Audio       *AudioData
	Raw         string
}

// VideoData is the video-specific part of a stream specification
type VideoData struct {
	PixFmt string
	Width  int
	Height int
	FPS    float64
}

// AudioData is the audio-specific part of a stream specification.
// Channels is kept as free text ("stereo", "7.1", "mono").
type AudioData struct {
	SampleRate int
	Channels   string
}

// Progress is a snapshot of the repeatedly-overwritten status line.
// Time is kept verbatim, not converted to seconds.
type Progress struct {
	Frame       uint64
	FPS         float64
	Quantizer   float64
	SizeKB      uint64
	Time        string
	BitrateKbps float64
	Speed       float64
	Raw         string
}

func logEvent(level LogLevel, line string) Event {
	return Event{Type: EventLog, Level: level, Text: line}
}

func errorEvent(text string) Event {
	return Event{Type: EventError, Level: LevelError, Text: text}
}
