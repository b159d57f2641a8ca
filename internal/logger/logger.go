// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package logger

import (
	"log"
	"os"
)

// Logger is the logging interface used throughout the service
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type logger struct {
	log   *log.Logger
	debug bool
}

// New creates a Logger writing to stderr with the given prefix
func New(prefix string, debug bool) Logger {
	return &logger{
		log:   log.New(os.Stderr, prefix+" ", log.LstdFlags|log.Lmsgprefix),
		debug: debug,
	}
}

func (l *logger) Info(format string, args ...interface{}) {
	l.log.Printf("[INFO] "+format, args...)
}

func (l *logger) Error(format string, args ...interface{}) {
	l.log.Printf("[ERROR] "+format, args...)
}

func (l *logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.log.Printf("[DEBUG] "+format, args...)
}
