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

func TestSplitSegments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "plain",
			in:   "a, b, c",
			want: []string{"a", " b", " c"},
		},
		{
			name: "no comma",
			in:   "only one",
			want: []string{"only one"},
		},
		{
			name: "empty",
			in:   "",
			want: []string{""},
		},
		{
			name: "comma inside parens stays",
			in:   "h264 (avc1 / 0x31637661), yuv444p(tv, progressive), 320x240",
			want: []string{"h264 (avc1 / 0x31637661)", " yuv444p(tv, progressive)", " 320x240"},
		},
		{
			name: "nested parens",
			in:   "a(b(c,d),e), f",
			want: []string{"a(b(c,d),e)", " f"},
		},
		{
			name: "unbalanced closing paren",
			in:   "a), b",
			want: []string{"a)", " b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSegments(tt.in))
		})
	}
}

func TestParseTimeString(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"00:00:00.00", 0, true},
		{"5", 5, true},
		{"0.123", 0.123, true},
		{"1:00.0", 60, true},
		{"01:30", 90, true},
		{"1:01:01.123", 3661.123, true},
		{"10:00:00.00", 36000, true},
		{" 00:01:19.72", 79.72, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"1:2:3:4", 0, false},
		{"aa:bb", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseTimeString(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}
