// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package task

import (
	"sync"
	"time"

	"github.com/ZSC714725/streammonitor/internal/ffmpeg"
	"github.com/ZSC714725/streammonitor/internal/ffmpeg/parse"
	"github.com/ZSC714725/streammonitor/internal/logger"
	"github.com/ZSC714725/streammonitor/internal/process"

	"github.com/lithammer/shortuuid/v4"
)

// Task is one monitored FFmpeg process
type Task struct {
	ID        string
	Reference string
	Config    *Config
	CreatedAt int64
	UpdatedAt int64
	Order     string

	proc   process.Process
	parser parse.Parser
}

// Status returns process status
func (t *Task) Status() process.Status {
	return t.proc.Status()
}

// Progress returns the latest parsed progress snapshot
func (t *Task) Progress() parse.Progress {
	if t.parser == nil {
		return parse.Progress{}
	}
	return t.parser.Progress()
}

// Metadata returns the aggregated structural description of the job
func (t *Task) Metadata() parse.Snapshot {
	if t.parser == nil {
		return parse.Snapshot{}
	}
	return t.parser.Metadata()
}

// Log returns the buffered log lines
func (t *Task) Log() []process.Line {
	if t.parser == nil {
		return nil
	}
	return t.parser.Log()
}

// IsRunning returns whether the process is running
func (t *Task) IsRunning() bool {
	return t.proc.IsRunning()
}

// Store manages tasks in memory
type Store interface {
	Add(config *Config) (*Task, error)
	Get(id string) (*Task, error)
	List(ids []string, reference string) []*Task
	Update(id string, config *Config) (*Task, error)
	Delete(id string) error
	Start(id string) error
	Stop(id string) error
	Restart(id string) error
}

type store struct {
	ffmpeg ffmpeg.FFmpeg
	logger logger.Logger
	tasks  map[string]*Task
	mu     sync.RWMutex
}

// NewStore creates a task store
func NewStore(ff ffmpeg.FFmpeg, log logger.Logger) Store {
	return &store{
		ffmpeg: ff,
		logger: log,
		tasks:  make(map[string]*Task),
	}
}

func (s *store) Add(config *Config) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(config, 0)
}

// add must be called with the store lock held. A non-zero createdAt
// preserves the original creation time across updates.
func (s *store) add(config *Config, createdAt int64) (*Task, error) {
	if len(config.ID) == 0 {
		config.ID = shortuuid.New()
	}
	if len(config.Input) == 0 || len(config.Output) == 0 {
		return nil, ErrInvalidConfig
	}

	for _, in := range config.Input {
		if !s.ffmpeg.ValidateInput(in.Address) {
			return nil, ErrInvalidInputAddress
		}
	}
	for _, out := range config.Output {
		if !s.ffmpeg.ValidateOutput(out.Address) {
			return nil, ErrInvalidOutputAddress
		}
	}

	if _, exists := s.tasks[config.ID]; exists {
		return nil, ErrTaskExists
	}

	now := time.Now().Unix()
	if createdAt == 0 {
		createdAt = now
	}
	task := &Task{
		ID:        config.ID,
		Reference: config.Reference,
		Config:    config,
		CreatedAt: createdAt,
		UpdatedAt: now,
		Order:     "stop",
	}

	parser := s.ffmpeg.NewParser(s.logger, config.ID, config.Reference)

	proc, err := s.ffmpeg.New(ffmpeg.ProcessConfig{
		Reconnect:      config.Reconnect,
		ReconnectDelay: time.Duration(config.ReconnectDelay) * time.Second,
		StaleTimeout:   time.Duration(config.StaleTimeout) * time.Second,
		Command:        config.CreateCommand(),
		Parser:         parser,
		Logger:         s.logger,
		OnStateChange: func(from, to string) {
			s.logger.Info("task %s state %s -> %s", config.ID, from, to)
		},
	})
	if err != nil {
		return nil, err
	}

	task.proc = proc
	task.parser = parser

	s.tasks[config.ID] = task

	if config.Autostart {
		go task.proc.Start()
		task.Order = "start"
	}

	return task, nil
}

func (s *store) Get(id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *store) List(ids []string, reference string) []*Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Task
	for _, t := range s.tasks {
		if len(reference) > 0 && t.Reference != reference {
			continue
		}
		if len(ids) > 0 {
			found := false
			for _, id := range ids {
				if t.ID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (s *store) Update(id string, config *Config) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}

	wasRunning := t.proc.IsRunning()
	if wasRunning {
		t.proc.Stop(true)
	}
	delete(s.tasks, id)

	updated, err := s.add(config, t.CreatedAt)
	if err != nil {
		// put the old task back, the update must not lose it
		s.tasks[id] = t
		return nil, err
	}

	if wasRunning && !config.Autostart {
		go updated.proc.Start()
		updated.Order = "start"
	}
	return updated, nil
}

func (s *store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}

	t.proc.Stop(true)
	delete(s.tasks, id)
	return nil
}

func (s *store) Start(id string) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	t.Order = "start"
	return t.proc.Start()
}

func (s *store) Stop(id string) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	t.Order = "stop"
	return t.proc.Stop(true)
}

func (s *store) Restart(id string) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := t.proc.Stop(true); err != nil {
		return err
	}
	t.Order = "start"
	return t.proc.Start()
}
