// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package task

// ConfigIO is one input or output of a monitored FFmpeg process
type ConfigIO struct {
	ID      string   `json:"id"`
	Address string   `json:"address"`
	Options []string `json:"options"`
}

// Config for a monitored task
type Config struct {
	ID             string     `json:"id"`
	Reference      string     `json:"reference"`
	Input          []ConfigIO `json:"input"`
	Output         []ConfigIO `json:"output"`
	Options        []string   `json:"options"`
	Reconnect      bool       `json:"reconnect"`
	ReconnectDelay uint64     `json:"reconnect_delay_seconds"`
	Autostart      bool       `json:"autostart"`
	StaleTimeout   uint64     `json:"stale_timeout_seconds"`
}

// CreateCommand builds the FFmpeg argument list from the config.
// Global options come first, then per-input options with their -i,
// then per-output options with their address.
func (c *Config) CreateCommand() []string {
	var cmd []string
	cmd = append(cmd, c.Options...)
	for _, in := range c.Input {
		cmd = append(cmd, in.Options...)
		cmd = append(cmd, "-i", in.Address)
	}
	for _, out := range c.Output {
		cmd = append(cmd, out.Options...)
		cmd = append(cmd, out.Address)
	}
	return cmd
}
