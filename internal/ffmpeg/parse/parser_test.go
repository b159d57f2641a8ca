// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(p Parser, log string) {
	for _, line := range strings.Split(strings.TrimRight(log, "\n"), "\n") {
		p.Parse(line)
	}
}

func TestParserProgress(t *testing.T) {
	p := New(Config{})

	frame := p.Parse("ffmpeg version 6.0 Copyright (c) 2000-2023 the FFmpeg developers")
	assert.Zero(t, frame)

	frame = p.Parse("frame=   50 fps= 25 q=28.0 size=     128kB time=00:00:02.00 bitrate= 524.3kbits/s speed=   1x")
	assert.Equal(t, uint64(50), frame)

	frame = p.Parse("frame=  125 fps= 25 q=-1.0 Lsize=     372kB time=00:00:05.00 bitrate= 609.6kbits/s speed=1.2x")
	assert.Equal(t, uint64(125), frame)

	progress := p.Progress()
	assert.Equal(t, uint64(125), progress.Frame)
	assert.Equal(t, uint64(372), progress.SizeKB)
	assert.Equal(t, "00:00:05.00", progress.Time)

	p.ResetStats()
	assert.Zero(t, p.Progress().Frame)
}

func TestParserMetadata(t *testing.T) {
	p := New(Config{})
	feed(p, strings.ReplaceAll(transcript, "\r", "\n"))

	meta := p.Metadata()
	require.True(t, meta.Completed)
	assert.Len(t, meta.Inputs, 1)
	assert.Len(t, meta.InputStreams, 2)
	assert.Len(t, meta.OutputStreams, 2)

	d, ok := meta.Duration()
	require.True(t, ok)
	assert.InDelta(t, 5.0, d, 1e-9)
}

func TestParserLogRing(t *testing.T) {
	p := New(Config{LogLines: 3})

	p.Parse("one")
	p.Parse("two")
	assert.Len(t, p.Log(), 2)

	p.Parse("three")
	p.Parse("four")

	log := p.Log()
	require.Len(t, log, 3)
	assert.Equal(t, "two", log[0].Data)
	assert.Equal(t, "four", log[2].Data)
}

func TestParserResetLog(t *testing.T) {
	p := New(Config{LogLines: 5})
	feed(p, strings.ReplaceAll(transcript, "\r", "\n"))
	require.True(t, p.Metadata().Completed)

	p.ResetLog()
	assert.Empty(t, p.Log())
	assert.False(t, p.Metadata().Completed)
}
