// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCommand(t *testing.T) {
	config := &Config{
		Options: []string{"-loglevel", "+level", "-y"},
		Input: []ConfigIO{
			{Address: "rtmp://localhost/live/stream", Options: []string{"-re"}},
		},
		Output: []ConfigIO{
			{Address: "/tmp/out.mp4", Options: []string{"-c:v", "libx264"}},
			{Address: "rtmp://localhost/live/copy", Options: []string{"-c", "copy", "-f", "flv"}},
		},
	}

	assert.Equal(t, []string{
		"-loglevel", "+level", "-y",
		"-re", "-i", "rtmp://localhost/live/stream",
		"-c:v", "libx264", "/tmp/out.mp4",
		"-c", "copy", "-f", "flv", "rtmp://localhost/live/copy",
	}, config.CreateCommand())
}

func TestCreateCommandMinimal(t *testing.T) {
	config := &Config{
		Input:  []ConfigIO{{Address: "in.mp4"}},
		Output: []ConfigIO{{Address: "out.mp4"}},
	}
	assert.Equal(t, []string{"-i", "in.mp4", "out.mp4"}, config.CreateCommand())
}
