// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyVersionAndConfiguration(t *testing.T) {
	ev, sec := classify("ffmpeg version 6.0 Copyright (c) 2000-2023 the FFmpeg developers", section{})
	require.Equal(t, EventVersion, ev.Type)
	assert.Equal(t, "6.0", ev.Version.Version)
	assert.Equal(t, sectionOther, sec.kind)

	ev, _ = classify("  configuration: --enable-gpl --enable-libx264", sec)
	require.Equal(t, EventConfiguration, ev.Type)
	assert.Equal(t, []string{"--enable-gpl", "--enable-libx264"}, ev.Configuration.Flags)
}

func TestClassifyInputSection(t *testing.T) {
	ev, sec := classify("Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'input.mp4':", section{})
	require.Equal(t, EventInput, ev.Type)
	assert.Equal(t, 0, ev.Input.Index)
	assert.Equal(t, sectionInput, sec.kind)
	assert.Equal(t, 0, sec.index)

	// duration inside the input section is attributed to it
	ev, sec = classify("  Duration: 00:00:05.00, start: 0.000000, bitrate: 322 kb/s", sec)
	require.Equal(t, EventDuration, ev.Type)
	assert.Equal(t, 0, ev.Duration.InputIndex)
	assert.InDelta(t, 5.0, ev.Duration.Seconds, 1e-9)

	// streams inside the input section are input streams
	ev, sec = classify("  Stream #0:0: Video: h264 (High), yuv420p(progressive), 1920x1080, 25 fps, 25 tbr, 90k tbn", sec)
	require.Equal(t, EventInputStream, ev.Type)
	assert.Equal(t, StreamVideo, ev.Stream.Type)
	assert.Equal(t, sectionInput, sec.kind)
}

func TestClassifyOutputSection(t *testing.T) {
	ev, sec := classify("Output #0, mp4, to 'output.mp4':", section{kind: sectionInput, index: 0})
	require.Equal(t, EventOutput, ev.Type)
	assert.Equal(t, "output.mp4", ev.Output.To)
	assert.Equal(t, sectionOutput, sec.kind)

	ev, _ = classify("  Stream #0:0: Video: h264, yuv420p(progressive), 1920x1080, 25 fps, 25 tbr, 90k tbn", sec)
	require.Equal(t, EventOutputStream, ev.Type)
}

func TestClassifyDurationOutsideInputSection(t *testing.T) {
	ev, _ := classify("  Duration: 00:00:05.00, start: 0.000000, bitrate: 322 kb/s", section{})
	require.Equal(t, EventLog, ev.Type)
	assert.Equal(t, LevelInfo, ev.Level)
}

func TestClassifyStreamMapping(t *testing.T) {
	ev, sec := classify("Stream mapping:", section{kind: sectionInput})
	require.Equal(t, EventLog, ev.Type)
	assert.Equal(t, sectionStreamMapping, sec.kind)

	ev, sec = classify("  Stream #0:0 -> #0:0 (h264 (native) -> h264 (libx264))", sec)
	require.Equal(t, EventStreamMapping, ev.Type)
	assert.Contains(t, ev.Text, "->")
	assert.Equal(t, sectionStreamMapping, sec.kind)
}

func TestClassifyStreamOutsideContainerSection(t *testing.T) {
	ev, _ := classify("  Stream #0:0: Video: h264, yuv420p(progressive), 1920x1080, 25 fps, 25 tbr, 90k tbn", section{})
	require.Equal(t, EventError, ev.Type)
	assert.Contains(t, ev.Text, "unexpected stream specification")
}

func TestClassifyProgressResetsSection(t *testing.T) {
	ev, sec := classify("frame= 100 fps= 25 q=28.0 size= 256kB time=00:00:04.00 bitrate= 524.3kbits/s speed=1x", section{kind: sectionOutput, index: 0})
	require.Equal(t, EventProgress, ev.Type)
	assert.Equal(t, uint64(100), ev.Progress.Frame)
	assert.Equal(t, sectionOther, sec.kind)
}

func TestClassifyLogLevels(t *testing.T) {
	tests := []struct {
		line  string
		level LogLevel
	}{
		{"[info] Press [q] to stop", LevelInfo},
		{"[warning] deprecated pixel format used", LevelWarning},
		{"[error] Failed to open codec", LevelError},
		{"[fatal] Invalid data found when processing input", LevelFatal},
		{"Press [q] to stop, [?] for help", LevelUnknown},
	}

	for _, tt := range tests {
		ev, _ := classify(tt.line, section{})
		require.Equal(t, EventLog, ev.Type, tt.line)
		assert.Equal(t, tt.level, ev.Level, tt.line)
		assert.Equal(t, tt.line, ev.Text)
	}
}
