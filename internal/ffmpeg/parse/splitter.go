// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package parse

import (
	"strconv"
	"strings"
)

// splitSegments splits s on commas, but only at parenthesis depth zero,
// so "yuv444p(tv, progressive)" stays one segment. The stream and
// duration extractors rely on this to get ordered semantic fields.
func splitSegments(s string) []string {
	var segments []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				segments = append(segments, s[start:i])
				start = i + 1
			}
		}
	}
	return append(segments, s[start:])
}

// parseTimeString converts a "[[HH:]MM:]SS[.frac]" token into seconds.
// Returns false for non-numeric content such as "N/A".
func parseTimeString(s string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, false
	}

	seconds := 0.0
	unit := 1.0
	for i := len(parts) - 1; i >= 0; i-- {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return 0, false
		}
		seconds += v * unit
		unit *= 60
	}
	return seconds, true
}
