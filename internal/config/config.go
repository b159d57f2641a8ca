// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration loaded from YAML
type Config struct {
	Server struct {
		Bind string `yaml:"bind"`
	} `yaml:"server"`
	FFmpeg struct {
		Path        string   `yaml:"path"`
		MaxLogLines int      `yaml:"max_log_lines"`
		AllowInput  []string `yaml:"allow_input"`
		BlockInput  []string `yaml:"block_input"`
		AllowOutput []string `yaml:"allow_output"`
		BlockOutput []string `yaml:"block_output"`
	} `yaml:"ffmpeg"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Bind = ":8080"
	cfg.FFmpeg.Path = "ffmpeg"
	cfg.FFmpeg.MaxLogLines = 100
	return cfg
}

// Load reads the config file at path. An empty path returns the
// default config. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if len(path) == 0 {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if len(cfg.Server.Bind) == 0 {
		cfg.Server.Bind = ":8080"
	}
	if len(cfg.FFmpeg.Path) == 0 {
		cfg.FFmpeg.Path = "ffmpeg"
	}
	if cfg.FFmpeg.MaxLogLines <= 0 {
		cfg.FFmpeg.MaxLogLines = 100
	}

	return cfg, nil
}
