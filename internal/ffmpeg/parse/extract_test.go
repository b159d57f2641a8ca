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

func TestTryParseVersion(t *testing.T) {
	v, ok := tryParseVersion("ffmpeg version 6.0 Copyright (c) 2000-2023 the FFmpeg developers")
	require.True(t, ok)
	assert.Equal(t, "6.0", v)

	v, ok = tryParseVersion("[info] ffmpeg version n7.0-17-gf4e72f36a4 Copyright (c) 2000-2024")
	require.True(t, ok)
	assert.Equal(t, "n7.0-17-gf4e72f36a4", v)

	_, ok = tryParseVersion("not a version line")
	assert.False(t, ok)
}

func TestTryParseConfiguration(t *testing.T) {
	flags, ok := tryParseConfiguration("configuration: --enable-gpl --enable-libx264 --disable-doc")
	require.True(t, ok)
	assert.Equal(t, []string{"--enable-gpl", "--enable-libx264", "--disable-doc"}, flags)

	_, ok = tryParseConfiguration("  built with gcc 12 (GCC)")
	assert.False(t, ok)
}

func TestTryParseInput(t *testing.T) {
	index, ok := tryParseInput("Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'input.mp4':")
	require.True(t, ok)
	assert.Equal(t, 0, index)

	index, ok = tryParseInput("[info] Input #2, lavfi, from 'testsrc=duration=10':")
	require.True(t, ok)
	assert.Equal(t, 2, index)

	_, ok = tryParseInput("Input device not found")
	assert.False(t, ok)
}

func TestTryParseOutput(t *testing.T) {
	out, ok := tryParseOutput("Output #0, mp4, to 'output.mp4':")
	require.True(t, ok)
	assert.Equal(t, 0, out.Index)
	assert.Equal(t, "output.mp4", out.To)

	out, ok = tryParseOutput("Output #1, flv, to 'rtmp://localhost/live/stream':")
	require.True(t, ok)
	assert.Equal(t, 1, out.Index)
	assert.Equal(t, "rtmp://localhost/live/stream", out.To)

	_, ok = tryParseOutput("Output #0, null, dropped")
	assert.False(t, ok)
}

func TestTryParseDuration(t *testing.T) {
	seconds, ok := tryParseDuration("  Duration: 00:01:19.72, start: 0.000000, bitrate: 322 kb/s")
	require.True(t, ok)
	assert.InDelta(t, 79.72, seconds, 1e-9)

	_, ok = tryParseDuration("  Duration: N/A, start: 0.000000, bitrate: N/A")
	assert.False(t, ok)

	_, ok = tryParseDuration("  start: 0.000000, bitrate: 322 kb/s")
	assert.False(t, ok)
}

func TestTryParseStreamVideo(t *testing.T) {
	line := "  Stream #0:0(und): Video: h264 (avc1 / 0x31637661), yuv420p(tv, bt709), 1280x720 [SAR 1:1 DAR 16:9], 321 kb/s, 25 fps, 25 tbr, 12800 tbn (default)"

	s, ok := tryParseStream(line)
	require.True(t, ok)
	assert.Equal(t, 0, s.ParentIndex)
	assert.Equal(t, 0, s.StreamIndex)
	assert.Equal(t, "und", s.Language)
	assert.Equal(t, StreamVideo, s.Type)
	assert.Equal(t, "h264", s.Format)
	require.NotNil(t, s.Video)
	assert.Equal(t, "yuv420p", s.Video.PixFmt)
	assert.Equal(t, 1280, s.Video.Width)
	assert.Equal(t, 720, s.Video.Height)
	assert.InDelta(t, 25.0, s.Video.FPS, 1e-9)
	assert.Nil(t, s.Audio)
}

func TestTryParseStreamVideoBracketedIndex(t *testing.T) {
	line := "  Stream #1:5[0x3](eng): Video: mpeg2video (Main), yuv420p(tv, bt470bg, top first), 720x576 [SAR 16:15 DAR 4:3], 25 fps, 25 tbr, 90k tbn"

	s, ok := tryParseStream(line)
	require.True(t, ok)
	assert.Equal(t, 1, s.ParentIndex)
	assert.Equal(t, 5, s.StreamIndex)
	assert.Equal(t, "eng", s.Language)
	assert.Equal(t, "mpeg2video", s.Format)
	require.NotNil(t, s.Video)
	assert.Equal(t, 720, s.Video.Width)
	assert.Equal(t, 576, s.Video.Height)
}

func TestTryParseStreamVideoFractionalFPS(t *testing.T) {
	line := "  Stream #0:0: Video: h264 (High), yuv420p(progressive), 1920x1080, 29.97 fps, 29.97 tbr, 90k tbn"

	s, ok := tryParseStream(line)
	require.True(t, ok)
	assert.Equal(t, "", s.Language)
	require.NotNil(t, s.Video)
	assert.InDelta(t, 29.97, s.Video.FPS, 1e-9)
}

func TestTryParseStreamAudio(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		sampleRate int
		channels   string
	}{
		{
			name:       "stereo",
			line:       "  Stream #0:1(eng): Audio: aac (LC) (mp4a / 0x6134706D), 48000 Hz, stereo, fltp, 128 kb/s (default)",
			sampleRate: 48000,
			channels:   "stereo",
		},
		{
			name:       "surround",
			line:       "  Stream #0:2: Audio: eac3, 48000 Hz, 7.1, fltp, 768 kb/s",
			sampleRate: 48000,
			channels:   "7.1",
		},
		{
			name:       "mono",
			line:       "  Stream #0:0: Audio: pcm_s16le ([1][0][0][0] / 0x0001), 44100 Hz, mono, s16, 705 kb/s",
			sampleRate: 44100,
			channels:   "mono",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := tryParseStream(tt.line)
			require.True(t, ok)
			assert.Equal(t, StreamAudio, s.Type)
			require.NotNil(t, s.Audio)
			assert.Equal(t, tt.sampleRate, s.Audio.SampleRate)
			assert.Equal(t, tt.channels, s.Audio.Channels)
			assert.Nil(t, s.Video)
		})
	}
}

func TestTryParseStreamSubtitleAndOther(t *testing.T) {
	s, ok := tryParseStream("  Stream #0:2(eng): Subtitle: mov_text (tx3g / 0x67337874), 0 kb/s (default)")
	require.True(t, ok)
	assert.Equal(t, StreamSubtitle, s.Type)
	assert.Equal(t, "mov_text", s.Format)
	assert.Nil(t, s.Video)
	assert.Nil(t, s.Audio)

	s, ok = tryParseStream("  Stream #0:3(und): Data: bin_data (text / 0x74786574)")
	require.True(t, ok)
	assert.Equal(t, StreamOther, s.Type)
	assert.Equal(t, "bin_data", s.Format)
}

func TestTryParseStreamRejectsMappingEntry(t *testing.T) {
	_, ok := tryParseStream("  Stream #0:0 -> #0:0 (copy)")
	assert.False(t, ok)
}

func TestTryParseProgress(t *testing.T) {
	p, ok := tryParseProgress("frame= 1996 fps=1984 q=-1.0 Lsize=     372kB time=00:01:19.72 bitrate=  38.2kbits/s speed=79.2x")
	require.True(t, ok)
	assert.Equal(t, uint64(1996), p.Frame)
	assert.InDelta(t, 1984.0, p.FPS, 1e-9)
	assert.InDelta(t, -1.0, p.Quantizer, 1e-9)
	assert.Equal(t, uint64(372), p.SizeKB)
	assert.Equal(t, "00:01:19.72", p.Time)
	assert.InDelta(t, 38.2, p.BitrateKbps, 1e-9)
	assert.InDelta(t, 79.2, p.Speed, 1e-9)
}

func TestTryParseProgressKiB(t *testing.T) {
	p, ok := tryParseProgress("frame=  100 fps= 25 q=28.0 size=     256KiB time=00:00:04.00 bitrate= 524.3kbits/s speed=   1x")
	require.True(t, ok)
	assert.Equal(t, uint64(100), p.Frame)
	assert.Equal(t, uint64(256), p.SizeKB)
	assert.InDelta(t, 1.0, p.Speed, 1e-9)
}

func TestTryParseProgressPlaceholders(t *testing.T) {
	p, ok := tryParseProgress("frame=   10 fps=0.0 q=0.0 size=N/A time=N/A bitrate=N/A speed=N/A")
	require.True(t, ok)
	assert.Equal(t, uint64(10), p.Frame)
	assert.Equal(t, uint64(0), p.SizeKB)
	assert.Equal(t, "N/A", p.Time)
	assert.Zero(t, p.BitrateKbps)
	assert.Zero(t, p.Speed)
}

func TestTryParseProgressRejects(t *testing.T) {
	_, ok := tryParseProgress("Press [q] to stop, [?] for help")
	assert.False(t, ok)

	// missing fps key
	_, ok = tryParseProgress("frame= 10 q=28.0 size= 256kB time=00:00:04.00 bitrate= 524.3kbits/s speed=1x")
	assert.False(t, ok)
}
