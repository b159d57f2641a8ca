// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package ffmpeg

import (
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/ZSC714725/streammonitor/internal/ffmpeg/parse"
	"github.com/ZSC714725/streammonitor/internal/ffmpeg/skills"
	"github.com/ZSC714725/streammonitor/internal/logger"
	"github.com/ZSC714725/streammonitor/internal/process"
)

// FFmpeg manages the FFmpeg binary and its detected skills
type FFmpeg interface {
	New(config ProcessConfig) (process.Process, error)
	NewParser(log logger.Logger, id, ref string) parse.Parser
	ValidateInput(address string) bool
	ValidateOutput(address string) bool
	Skills() skills.Skills
	ReloadSkills() error
	Version() string
}

// ProcessConfig for creating a process
type ProcessConfig struct {
	Reconnect      bool
	ReconnectDelay time.Duration
	StaleTimeout   time.Duration
	Command        []string
	Parser         process.Parser
	Logger         logger.Logger
	OnExit         func()
	OnStart        func()
	OnStateChange  func(from, to string)
}

// Config for FFmpeg
type Config struct {
	Binary          string
	MaxLogLines     int
	ValidatorInput  Validator
	ValidatorOutput Validator
}

type ffmpeg struct {
	binary       string
	validatorIn  Validator
	validatorOut Validator
	skills       skills.Skills
	logLines     int
	skillsLock   sync.RWMutex
}

// New resolves the binary, probes its skills and returns a FFmpeg
func New(config Config) (FFmpeg, error) {
	binary, err := exec.LookPath(config.Binary)
	if err != nil {
		return nil, fmt.Errorf("invalid ffmpeg binary: %w", err)
	}

	f := &ffmpeg{
		binary:   binary,
		logLines: config.MaxLogLines,
	}

	if f.logLines <= 0 {
		f.logLines = 100
	}

	if config.ValidatorInput != nil {
		f.validatorIn = config.ValidatorInput
	} else {
		f.validatorIn, _ = NewValidator(nil, nil)
	}
	if config.ValidatorOutput != nil {
		f.validatorOut = config.ValidatorOutput
	} else {
		f.validatorOut, _ = NewValidator(nil, nil)
	}

	s, err := skills.New(f.binary)
	if err != nil {
		return nil, fmt.Errorf("invalid ffmpeg: %w", err)
	}
	f.skills = s

	return f, nil
}

func (f *ffmpeg) New(config ProcessConfig) (process.Process, error) {
	return process.New(process.Config{
		Binary:         f.binary,
		Args:           config.Command,
		Reconnect:      config.Reconnect,
		ReconnectDelay: config.ReconnectDelay,
		StaleTimeout:   config.StaleTimeout,
		Parser:         config.Parser,
		Logger:         wrapLogger(config.Logger),
		OnStart:        config.OnStart,
		OnExit:         config.OnExit,
		OnStateChange:  config.OnStateChange,
	})
}

// NewParser creates the stderr parser for one monitored process
func (f *ffmpeg) NewParser(log logger.Logger, id, ref string) parse.Parser {
	return parse.New(parse.Config{LogLines: f.logLines})
}

func (f *ffmpeg) ValidateInput(address string) bool {
	return f.validatorIn.IsValid(address)
}

func (f *ffmpeg) ValidateOutput(address string) bool {
	return f.validatorOut.IsValid(address)
}

func (f *ffmpeg) Skills() skills.Skills {
	f.skillsLock.RLock()
	defer f.skillsLock.RUnlock()
	return f.skills
}

func (f *ffmpeg) ReloadSkills() error {
	s, err := skills.New(f.binary)
	if err != nil {
		return fmt.Errorf("reload skills: %w", err)
	}
	f.skillsLock.Lock()
	f.skills = s
	f.skillsLock.Unlock()
	return nil
}

// Version of the detected binary
func (f *ffmpeg) Version() string {
	f.skillsLock.RLock()
	defer f.skillsLock.RUnlock()
	return f.skills.FFmpeg.Version
}

func wrapLogger(l logger.Logger) *loggerWrapper {
	return &loggerWrapper{logger: l}
}

type loggerWrapper struct {
	logger logger.Logger
}

func (w *loggerWrapper) Info(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Info(format, args...)
	}
}

func (w *loggerWrapper) Error(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Error(format, args...)
	}
}

func (w *loggerWrapper) Debug(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Debug(format, args...)
	}
}
