// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package api

import (
	"github.com/ZSC714725/streammonitor/internal/ffmpeg/skills"
)

// SkillsFFmpeg describes the probed FFmpeg binary
type SkillsFFmpeg struct {
	Version       string          `json:"version"`
	Compiler      string          `json:"compiler"`
	Configuration string          `json:"configuration"`
	Libraries     []SkillsLibrary `json:"libraries"`
}

// SkillsLibrary is one linked av library
type SkillsLibrary struct {
	Name     string `json:"name"`
	Compiled string `json:"compiled"`
	Linked   string `json:"linked"`
}

// SkillsCodec is one codec with its implementations
type SkillsCodec struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Encoders []string `json:"encoders"`
	Decoders []string `json:"decoders"`
}

// SkillsEntry is a generic id/name pair
type SkillsEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SkillsResponse are the capabilities of the FFmpeg binary
type SkillsResponse struct {
	FFmpeg   SkillsFFmpeg  `json:"ffmpeg"`
	Filters  []SkillsEntry `json:"filters"`
	HWAccels []SkillsEntry `json:"hwaccels"`
	Codecs   struct {
		Audio    []SkillsCodec `json:"audio"`
		Video    []SkillsCodec `json:"video"`
		Subtitle []SkillsCodec `json:"subtitle"`
	} `json:"codecs"`
	Formats struct {
		Demuxers []SkillsEntry `json:"demuxers"`
		Muxers   []SkillsEntry `json:"muxers"`
	} `json:"formats"`
	Protocols struct {
		Input  []SkillsEntry `json:"input"`
		Output []SkillsEntry `json:"output"`
	} `json:"protocols"`
}

func skillsToAPI(s skills.Skills) SkillsResponse {
	r := SkillsResponse{}

	r.FFmpeg = SkillsFFmpeg{
		Version:       s.FFmpeg.Version,
		Compiler:      s.FFmpeg.Compiler,
		Configuration: s.FFmpeg.Configuration,
		Libraries:     []SkillsLibrary{},
	}
	for _, lib := range s.FFmpeg.Libraries {
		r.FFmpeg.Libraries = append(r.FFmpeg.Libraries, SkillsLibrary{
			Name:     lib.Name,
			Compiled: lib.Compiled,
			Linked:   lib.Linked,
		})
	}

	r.Filters = sliceIDName(s.Filters, func(f skills.Filter) (string, string) { return f.ID, f.Name })
	r.HWAccels = sliceIDName(s.HWAccels, func(h skills.HWAccel) (string, string) { return h.ID, h.Name })

	r.Codecs.Audio = codecsToAPI(s.Codecs.Audio)
	r.Codecs.Video = codecsToAPI(s.Codecs.Video)
	r.Codecs.Subtitle = codecsToAPI(s.Codecs.Subtitle)

	r.Formats.Demuxers = sliceIDName(s.Formats.Demuxers, func(f skills.Format) (string, string) { return f.ID, f.Name })
	r.Formats.Muxers = sliceIDName(s.Formats.Muxers, func(f skills.Format) (string, string) { return f.ID, f.Name })

	r.Protocols.Input = sliceIDName(s.Protocols.Input, func(p skills.Protocol) (string, string) { return p.ID, p.Name })
	r.Protocols.Output = sliceIDName(s.Protocols.Output, func(p skills.Protocol) (string, string) { return p.ID, p.Name })

	return r
}

func codecsToAPI(codecs []skills.Codec) []SkillsCodec {
	out := []SkillsCodec{}
	for _, c := range codecs {
		out = append(out, SkillsCodec{
			ID:       c.ID,
			Name:     c.Name,
			Encoders: c.Encoders,
			Decoders: c.Decoders,
		})
	}
	return out
}

func sliceIDName[T any](in []T, get func(T) (string, string)) []SkillsEntry {
	out := []SkillsEntry{}
	for _, v := range in {
		id, name := get(v)
		out = append(out, SkillsEntry{ID: id, Name: name})
	}
	return out
}
