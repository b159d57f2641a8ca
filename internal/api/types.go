// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package api

import (
	"github.com/ZSC714725/streammonitor/internal/ffmpeg/parse"
	"github.com/ZSC714725/streammonitor/internal/task"
)

// ProcessConfigIO is one input or output in a process config
type ProcessConfigIO struct {
	ID      string   `json:"id"`
	Address string   `json:"address" binding:"required"`
	Options []string `json:"options"`
}

// ProcessConfig is the process configuration as sent and returned by
// the API
type ProcessConfig struct {
	ID             string            `json:"id"`
	Reference      string            `json:"reference"`
	Input          []ProcessConfigIO `json:"input" binding:"required"`
	Output         []ProcessConfigIO `json:"output" binding:"required"`
	Options        []string          `json:"options"`
	Reconnect      bool              `json:"reconnect"`
	ReconnectDelay uint64            `json:"reconnect_delay_seconds"`
	Autostart      bool              `json:"autostart"`
	StaleTimeout   uint64            `json:"stale_timeout_seconds"`
}

// Progress is the latest parsed progress of a running process
type Progress struct {
	Frame       uint64  `json:"frame"`
	FPS         float64 `json:"fps"`
	Quantizer   float64 `json:"q"`
	SizeKB      uint64  `json:"size_kb"`
	Time        string  `json:"time"`
	BitrateKbps float64 `json:"bitrate_kbit"`
	Speed       float64 `json:"speed"`
}

// ProcessState describes the runtime state of a process
type ProcessState struct {
	Order     string   `json:"order"`
	State     string   `json:"exec"`
	Runtime   int64    `json:"runtime_seconds"`
	Reconnect int64    `json:"reconnect_seconds"`
	LastLog   string   `json:"last_logline"`
	Progress  Progress `json:"progress"`
	Memory    uint64   `json:"memory_bytes"`
	CPU       float64  `json:"cpu_usage"`
	Command   []string `json:"command"`
}

// Process is a task as returned by the API
type Process struct {
	ID        string         `json:"id"`
	Reference string         `json:"reference"`
	CreatedAt int64          `json:"created_at"`
	UpdatedAt int64          `json:"updated_at"`
	Config    *ProcessConfig `json:"config,omitempty"`
	State     *ProcessState  `json:"state,omitempty"`
}

// MetadataInput is one input in the process metadata
type MetadataInput struct {
	Index    int      `json:"index"`
	Duration *float64 `json:"duration_seconds,omitempty"`
}

// MetadataOutput is one output in the process metadata
type MetadataOutput struct {
	Index int    `json:"index"`
	To    string `json:"to"`
}

// MetadataStreamVideo holds the video properties of a stream
type MetadataStreamVideo struct {
	PixFmt string  `json:"pix_fmt"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FPS    float64 `json:"fps"`
}

// MetadataStreamAudio holds the audio properties of a stream
type MetadataStreamAudio struct {
	SampleRate int    `json:"sample_rate_hz"`
	Channels   string `json:"channels"`
}

// MetadataStream is one elementary stream in the process metadata
type MetadataStream struct {
	ParentIndex int                  `json:"parent_index"`
	StreamIndex int                  `json:"stream_index"`
	Language    string               `json:"language,omitempty"`
	Type        string               `json:"type"`
	Format      string               `json:"format"`
	Video       *MetadataStreamVideo `json:"video,omitempty"`
	Audio       *MetadataStreamAudio `json:"audio,omitempty"`
}

// Metadata is the aggregated structural description of a process as
// parsed from its log
type Metadata struct {
	Completed       bool             `json:"completed"`
	DurationSeconds *float64         `json:"duration_seconds,omitempty"`
	Inputs          []MetadataInput  `json:"inputs"`
	Outputs         []MetadataOutput `json:"outputs"`
	InputStreams    []MetadataStream `json:"input_streams"`
	OutputStreams   []MetadataStream `json:"output_streams"`
}

// ProcessReport is the log of a process
type ProcessReport struct {
	CreatedAt int64       `json:"created_at"`
	Log       [][2]string `json:"log"`
}

// CommandRequest is the body for the command endpoint
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}

// ErrorResponse with an error code and messages
type ErrorResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func configToAPI(config *task.Config) *ProcessConfig {
	c := &ProcessConfig{
		ID:             config.ID,
		Reference:      config.Reference,
		Options:        config.Options,
		Reconnect:      config.Reconnect,
		ReconnectDelay: config.ReconnectDelay,
		Autostart:      config.Autostart,
		StaleTimeout:   config.StaleTimeout,
	}
	for _, in := range config.Input {
		c.Input = append(c.Input, ProcessConfigIO{ID: in.ID, Address: in.Address, Options: in.Options})
	}
	for _, out := range config.Output {
		c.Output = append(c.Output, ProcessConfigIO{ID: out.ID, Address: out.Address, Options: out.Options})
	}
	return c
}

func configFromAPI(config *ProcessConfig) *task.Config {
	c := &task.Config{
		ID:             config.ID,
		Reference:      config.Reference,
		Options:        config.Options,
		Reconnect:      config.Reconnect,
		ReconnectDelay: config.ReconnectDelay,
		Autostart:      config.Autostart,
		StaleTimeout:   config.StaleTimeout,
	}
	for _, in := range config.Input {
		c.Input = append(c.Input, task.ConfigIO{ID: in.ID, Address: in.Address, Options: in.Options})
	}
	for _, out := range config.Output {
		c.Output = append(c.Output, task.ConfigIO{ID: out.ID, Address: out.Address, Options: out.Options})
	}
	return c
}

func taskToProcess(t *task.Task, withConfig, withState bool) Process {
	p := Process{
		ID:        t.ID,
		Reference: t.Reference,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}

	if withConfig {
		p.Config = configToAPI(t.Config)
	}

	if withState {
		status := t.Status()
		progress := t.Progress()

		state := &ProcessState{
			Order:   status.Order,
			State:   status.State,
			LastLog: status.LastLine,
			Progress: Progress{
				Frame:       progress.Frame,
				FPS:         progress.FPS,
				Quantizer:   progress.Quantizer,
				SizeKB:      progress.SizeKB,
				Time:        progress.Time,
				BitrateKbps: progress.BitrateKbps,
				Speed:       progress.Speed,
			},
			Memory:  status.Memory.Current,
			CPU:     status.CPU.Current,
			Command: t.Config.CreateCommand(),
		}
		if t.IsRunning() {
			state.Runtime = int64(status.Duration.Seconds())
		}
		p.State = state
	}

	return p
}

func metadataToAPI(snapshot parse.Snapshot) Metadata {
	m := Metadata{
		Completed:     snapshot.Completed,
		Inputs:        []MetadataInput{},
		Outputs:       []MetadataOutput{},
		InputStreams:  []MetadataStream{},
		OutputStreams: []MetadataStream{},
	}

	if d, ok := snapshot.Duration(); ok {
		m.DurationSeconds = &d
	}

	for _, in := range snapshot.Inputs {
		m.Inputs = append(m.Inputs, MetadataInput{Index: in.Index, Duration: in.Duration})
	}
	for _, out := range snapshot.Outputs {
		m.Outputs = append(m.Outputs, MetadataOutput{Index: out.Index, To: out.To})
	}
	for _, s := range snapshot.InputStreams {
		m.InputStreams = append(m.InputStreams, streamToAPI(s))
	}
	for _, s := range snapshot.OutputStreams {
		m.OutputStreams = append(m.OutputStreams, streamToAPI(s))
	}
	return m
}

func streamToAPI(s parse.Stream) MetadataStream {
	out := MetadataStream{
		ParentIndex: s.ParentIndex,
		StreamIndex: s.StreamIndex,
		Language:    s.Language,
		Type:        string(s.Type),
		Format:      s.Format,
	}
	if s.Video != nil {
		out.Video = &MetadataStreamVideo{
			PixFmt: s.Video.PixFmt,
			Width:  s.Video.Width,
			Height: s.Video.Height,
			FPS:    s.Video.FPS,
		}
	}
	if s.Audio != nil {
		out.Audio = &MetadataStreamAudio{
			SampleRate: s.Audio.SampleRate,
			Channels:   s.Audio.Channels,
		}
	}
	return out
}

func taskToReport(t *task.Task) ProcessReport {
	report := ProcessReport{
		CreatedAt: t.CreatedAt,
		Log:       [][2]string{},
	}
	for _, line := range t.Log() {
		report.Log = append(report.Log, [2]string{
			line.Timestamp.Format("2006-01-02 15:04:05.000"),
			line.Data,
		})
	}
	return report
}
