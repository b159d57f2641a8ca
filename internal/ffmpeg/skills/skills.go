// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具
//
// Package skills probes an FFmpeg binary for its version and
// capabilities by parsing the output of its -version, -filters,
// -codecs, -formats, -protocols and -hwaccels listings.

package skills

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Codec is a codec with its encoder and decoder implementations
type Codec struct {
	ID       string
	Name     string
	Encoders []string
	Decoders []string
}

// Format is a supported container format
type Format struct {
	ID   string
	Name string
}

// Protocol is a supported I/O protocol
type Protocol struct {
	ID   string
	Name string
}

// Filter is a supported filter
type Filter struct {
	ID   string
	Name string
}

// HWAccel is a hardware acceleration method
type HWAccel struct {
	ID   string
	Name string
}

// Library is a linked av library with compiled and linked versions
type Library struct {
	Name     string
	Compiled string
	Linked   string
}

type ffmpegInfo struct {
	Version       string
	Compiler      string
	Configuration string
	Libraries     []Library
}

// Skills are the detected capabilities of an FFmpeg binary
type Skills struct {
	FFmpeg   ffmpegInfo
	Filters  []Filter
	HWAccels []HWAccel
	Codecs   struct {
		Audio    []Codec
		Video    []Codec
		Subtitle []Codec
	}
	Formats struct {
		Demuxers []Format
		Muxers   []Format
	}
	Protocols struct {
		Input  []Protocol
		Output []Protocol
	}
}

// New probes the binary and returns everything it can do
func New(binary string) (Skills, error) {
	s := Skills{}

	info, err := parseVersionOutput(run(binary, "-version"))
	if err != nil {
		return Skills{}, fmt.Errorf("can't parse ffmpeg version: %w", err)
	}
	s.FFmpeg = info

	s.Filters = parseFilters(run(binary, "-filters"))
	s.HWAccels = parseHWAccels(run(binary, "-hwaccels"))
	s.Codecs = parseCodecs(run(binary, "-codecs"))
	s.Formats = parseFormats(run(binary, "-formats"))
	s.Protocols = parseProtocols(run(binary, "-protocols"))

	return s, nil
}

// run executes the binary with one listing flag. FFmpeg exits non-zero
// for some listings, so errors are ignored and the collected output is
// parsed as far as it goes.
func run(binary, flag string) []byte {
	cmd := exec.Command(binary, flag)
	cmd.Env = []string{}
	out, _ := cmd.CombinedOutput()
	return out
}

var (
	reVersion       = regexp.MustCompile(`ffmpeg version (\S+)`)
	reCompiler      = regexp.MustCompile(`(?m)^\s*built with (.*)$`)
	reConfiguration = regexp.MustCompile(`(?m)^\s*configuration: (.*)$`)
	reLibrary       = regexp.MustCompile(`(?m)^\s*(lib(?:[a-z]+))\s+([0-9]+\.\s*[0-9]+\.\s*[0-9]+) /\s+([0-9]+\.\s*[0-9]+\.\s*[0-9]+)`)
)

func parseVersionOutput(data []byte) (ffmpegInfo, error) {
	f := ffmpegInfo{}

	m := reVersion.FindSubmatch(data)
	if m == nil {
		return f, fmt.Errorf("no version line in output")
	}
	f.Version = string(m[1])

	if m := reCompiler.FindSubmatch(data); m != nil {
		f.Compiler = string(m[1])
	}
	if m := reConfiguration.FindSubmatch(data); m != nil {
		f.Configuration = string(m[1])
	}
	for _, m := range reLibrary.FindAllSubmatch(data, -1) {
		f.Libraries = append(f.Libraries, Library{
			Name:     string(m[1]),
			Compiled: string(m[2]),
			Linked:   string(m[3]),
		})
	}
	return f, nil
}

var reFilter = regexp.MustCompile(`^\s[TSC.]{3} ([0-9A-Za-z_]+)\s+(?:.*?)\s+(.*)?$`)

func parseFilters(data []byte) []Filter {
	var filters []Filter
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if m := reFilter.FindStringSubmatch(scanner.Text()); m != nil {
			filters = append(filters, Filter{ID: m[1], Name: m[2]})
		}
	}
	return filters
}

var reCodec = regexp.MustCompile(`^\s([D.])([E.])([VAS]).{3} ([0-9A-Za-z_]+)\s+(.*?)(?:\(decoders:([^\)]+)\))?\s?(?:\(encoders:([^\)]+)\))?$`)

func parseCodecs(data []byte) struct {
	Audio    []Codec
	Video    []Codec
	Subtitle []Codec
} {
	codecs := struct {
		Audio    []Codec
		Video    []Codec
		Subtitle []Codec
	}{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		m := reCodec.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}

		c := Codec{ID: m[4], Name: strings.TrimSpace(m[5])}
		if m[1] == "D" {
			if len(m[6]) == 0 {
				c.Decoders = []string{m[4]}
			} else {
				c.Decoders = strings.Split(strings.TrimSpace(m[6]), " ")
			}
		}
		if m[2] == "E" {
			if len(m[7]) == 0 {
				c.Encoders = []string{m[4]}
			} else {
				c.Encoders = strings.Split(strings.TrimSpace(m[7]), " ")
			}
		}

		switch m[3] {
		case "V":
			codecs.Video = append(codecs.Video, c)
		case "A":
			codecs.Audio = append(codecs.Audio, c)
		case "S":
			codecs.Subtitle = append(codecs.Subtitle, c)
		}
	}
	return codecs
}

var reFormat = regexp.MustCompile(`^\s([D ])([E ]) ([0-9A-Za-z_,]+)\s+(.*?)$`)

func parseFormats(data []byte) struct {
	Demuxers []Format
	Muxers   []Format
} {
	f := struct {
		Demuxers []Format
		Muxers   []Format
	}{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		m := reFormat.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		id := strings.Split(m[3], ",")[0]
		format := Format{ID: id, Name: m[4]}
		if m[1] == "D" {
			f.Demuxers = append(f.Demuxers, format)
		}
		if m[2] == "E" {
			f.Muxers = append(f.Muxers, format)
		}
	}
	return f
}

func parseProtocols(data []byte) struct {
	Input  []Protocol
	Output []Protocol
} {
	p := struct {
		Input  []Protocol
		Output []Protocol
	}{}

	mode := ""
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		switch line {
		case "Input:":
			mode = "input"
			continue
		case "Output:":
			mode = "output"
			continue
		}
		if mode == "" {
			continue
		}
		id := strings.TrimSpace(line)
		proto := Protocol{ID: id, Name: id}
		if mode == "input" {
			p.Input = append(p.Input, proto)
		} else {
			p.Output = append(p.Output, proto)
		}
	}
	return p
}

var reHWAccel = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func parseHWAccels(data []byte) []HWAccel {
	var accels []HWAccel
	started := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "Hardware acceleration methods:" {
			started = true
			continue
		}
		if !started || !reHWAccel.MatchString(line) {
			continue
		}
		accels = append(accels, HWAccel{ID: line, Name: line})
	}
	return accels
}
