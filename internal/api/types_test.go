// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package api

import (
	"testing"

	"github.com/ZSC714725/streammonitor/internal/ffmpeg/parse"
	"github.com/ZSC714725/streammonitor/internal/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConversionRoundTrip(t *testing.T) {
	in := &ProcessConfig{
		ID:             "abc",
		Reference:      "channel-1",
		Input:          []ProcessConfigIO{{ID: "in0", Address: "rtmp://localhost/live/stream", Options: []string{"-re"}}},
		Output:         []ProcessConfigIO{{ID: "out0", Address: "/tmp/out.mp4", Options: []string{"-c", "copy"}}},
		Options:        []string{"-y"},
		Reconnect:      true,
		ReconnectDelay: 15,
		Autostart:      true,
		StaleTimeout:   30,
	}

	converted := configFromAPI(in)
	require.IsType(t, &task.Config{}, converted)
	assert.Equal(t, in, configToAPI(converted))
}

func TestMetadataToAPI(t *testing.T) {
	duration := 79.72
	snap := parse.Snapshot{
		Completed: true,
		Inputs:    []parse.Input{{Index: 0, Duration: &duration}},
		Outputs:   []parse.Output{{Index: 0, To: "out.mp4"}},
		InputStreams: []parse.Stream{
			{
				ParentIndex: 0,
				StreamIndex: 0,
				Language:    "und",
				Format:      "h264",
				Type:        parse.StreamVideo,
				Video:       &parse.VideoData{PixFmt: "yuv420p", Width: 1280, Height: 720, FPS: 25},
			},
			{
				ParentIndex: 0,
				StreamIndex: 1,
				Language:    "eng",
				Format:      "aac",
				Type:        parse.StreamAudio,
				Audio:       &parse.AudioData{SampleRate: 48000, Channels: "stereo"},
			},
		},
		OutputStreams: []parse.Stream{
			{ParentIndex: 0, StreamIndex: 0, Format: "h264", Type: parse.StreamVideo, Video: &parse.VideoData{PixFmt: "yuv420p", Width: 1280, Height: 720, FPS: 25}},
		},
	}

	m := metadataToAPI(snap)

	assert.True(t, m.Completed)
	require.NotNil(t, m.DurationSeconds)
	assert.InDelta(t, 79.72, *m.DurationSeconds, 1e-9)

	require.Len(t, m.Inputs, 1)
	require.NotNil(t, m.Inputs[0].Duration)

	require.Len(t, m.InputStreams, 2)
	video := m.InputStreams[0]
	assert.Equal(t, "video", video.Type)
	require.NotNil(t, video.Video)
	assert.Equal(t, 1280, video.Video.Width)
	assert.Nil(t, video.Audio)

	audio := m.InputStreams[1]
	assert.Equal(t, "audio", audio.Type)
	require.NotNil(t, audio.Audio)
	assert.Equal(t, "stereo", audio.Audio.Channels)

	require.Len(t, m.OutputStreams, 1)
}

func TestMetadataToAPIEmpty(t *testing.T) {
	m := metadataToAPI(parse.Snapshot{})

	assert.False(t, m.Completed)
	assert.Nil(t, m.DurationSeconds)
	assert.NotNil(t, m.Inputs)
	assert.Empty(t, m.Inputs)
	assert.NotNil(t, m.OutputStreams)
}
