// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package parse

import (
	"strconv"
	"strings"
)

var levelTags = []string{"[info]", "[warning]", "[error]", "[fatal]"}

// stripTag removes an optional leading bracketed severity tag and
// surrounding whitespace
func stripTag(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, tag := range levelTags {
		if rest, ok := strings.CutPrefix(trimmed, tag); ok {
			return strings.TrimSpace(rest)
		}
	}
	return trimmed
}

// firstToken returns the first whitespace-delimited token
func firstToken(s string) (string, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// headToken cuts s at the first space or opening parenthesis, trimming
// trailing junk like "(avc1 / 0x31637661)" or "(tv, progressive)"
func headToken(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " ("); i >= 0 {
		return s[:i]
	}
	return s
}

// tryParseVersion matches "ffmpeg version <token> ..."
func tryParseVersion(line string) (string, bool) {
	rest, ok := strings.CutPrefix(stripTag(line), "ffmpeg version ")
	if !ok {
		return "", false
	}
	return firstToken(rest)
}

// tryParseConfiguration matches "configuration: <flags...>"
func tryParseConfiguration(line string) ([]string, bool) {
	rest, ok := strings.CutPrefix(stripTag(line), "configuration: ")
	if !ok {
		return nil, false
	}
	return strings.Fields(rest), true
}

// tryParseInput matches "Input #N, <format>, from '<source>':" and
// extracts the input index
func tryParseInput(line string) (int, bool) {
	rest, ok := strings.CutPrefix(stripTag(line), "Input #")
	if !ok {
		return 0, false
	}
	token, ok := firstToken(rest)
	if !ok {
		return 0, false
	}
	index, err := strconv.Atoi(strings.SplitN(token, ",", 2)[0])
	if err != nil {
		return 0, false
	}
	return index, true
}

// tryParseOutput matches "Output #N, <format>, to '<dest>':"
func tryParseOutput(line string) (*Output, bool) {
	rest, ok := strings.CutPrefix(stripTag(line), "Output #")
	if !ok {
		return nil, false
	}
	token, ok := firstToken(rest)
	if !ok {
		return nil, false
	}
	index, err := strconv.Atoi(strings.SplitN(token, ",", 2)[0])
	if err != nil {
		return nil, false
	}
	_, after, ok := strings.Cut(rest, " to '")
	if !ok {
		return nil, false
	}
	to, _, ok := strings.Cut(after, "'")
	if !ok {
		return nil, false
	}
	return &Output{Index: index, To: to, Raw: line}, true
}

// tryParseDuration matches "Duration: HH:MM:SS.frac, ...". "N/A" or an
// unparsable token yields no duration, which is not an error.
func tryParseDuration(line string) (float64, bool) {
	rest, ok := strings.CutPrefix(stripTag(line), "Duration:")
	if !ok {
		return 0, false
	}
	return parseTimeString(splitSegments(rest)[0])
}

// tryParseStream matches a stream specification like
//
//	Stream #1:5[0x3](eng): Video: h264 (avc1 / 0x31637661), yuv444p(tv, progressive), 320x240 ...
//
// Any bracketed suffix on the stream index is stripped, the trailing
// parenthetical on the index is the language, and the remaining
// comma-separated fields are interpreted per declared stream type.
func tryParseStream(line string) (*Stream, bool) {
	rest, ok := strings.CutPrefix(stripTag(line), "Stream #")
	if !ok {
		return nil, false
	}

	segments := splitSegments(rest)
	head := strings.SplitN(segments[0], ":", 4)
	if len(head) < 4 {
		return nil, false
	}

	parentIndex, err := strconv.Atoi(strings.TrimSpace(head[0]))
	if err != nil {
		return nil, false
	}

	indexToken := stripBrackets(head[1])
	indexPart, langPart, _ := strings.Cut(indexToken, "(")
	streamIndex, err := strconv.Atoi(strings.TrimSpace(indexPart))
	if err != nil {
		return nil, false
	}
	language := strings.TrimSuffix(langPart, ")")

	streamType := strings.TrimSpace(head[2])
	format := headToken(head[3])
	if format == "" {
		return nil, false
	}

	stream := &Stream{
		ParentIndex: parentIndex,
		StreamIndex: streamIndex,
		Language:    language,
		Format:      format,
		Raw:         line,
	}

	fields := segments[1:]
	switch streamType {
	case "Video":
		video, ok := parseVideoFields(fields)
		if !ok {
			return nil, false
		}
		stream.Type = StreamVideo
		stream.Video = video
	case "Audio":
		audio, ok := parseAudioFields(fields)
		if !ok {
			return nil, false
		}
		stream.Type = StreamAudio
		stream.Audio = audio
	case "Subtitle":
		stream.Type = StreamSubtitle
	default:
		stream.Type = StreamOther
	}

	return stream, true
}

// stripBrackets removes bracketed spans like "[0x3]" from a token
func stripBrackets(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// parseVideoFields expects the pixel format first, then WxH dimensions.
// The fps field has no guaranteed position, so the remaining fields are
// scanned for the first one ending in "fps".
func parseVideoFields(fields []string) (*VideoData, bool) {
	if len(fields) < 2 {
		return nil, false
	}

	pixFmt := headToken(fields[0])
	if pixFmt == "" {
		return nil, false
	}

	dims, ok := firstToken(fields[1])
	if !ok {
		return nil, false
	}
	widthToken, heightToken, ok := strings.Cut(dims, "x")
	if !ok {
		return nil, false
	}
	width, err := strconv.Atoi(widthToken)
	if err != nil {
		return nil, false
	}
	height, err := strconv.Atoi(heightToken)
	if err != nil {
		return nil, false
	}

	fps := 0.0
	found := false
	for _, field := range fields[2:] {
		if !strings.HasSuffix(strings.TrimSpace(field), "fps") {
			continue
		}
		token, ok := firstToken(field)
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(token, 64); err == nil {
			fps = v
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}

	return &VideoData{PixFmt: pixFmt, Width: width, Height: height, FPS: fps}, true
}

// parseAudioFields expects the sample rate first ("48000 Hz"), then the
// channel descriptor, which is kept as free text
func parseAudioFields(fields []string) (*AudioData, bool) {
	if len(fields) < 2 {
		return nil, false
	}
	token, ok := firstToken(fields[0])
	if !ok {
		return nil, false
	}
	sampleRate, err := strconv.Atoi(token)
	if err != nil {
		return nil, false
	}
	return &AudioData{SampleRate: sampleRate, Channels: strings.TrimSpace(fields[1])}, true
}

// tryParseProgress matches the status line FFmpeg overwrites in place:
//
//	frame= 1996 fps=1984 q=-1.0 Lsize= 372kB time=00:01:19.72 bitrate= 38.2kbits/s speed=79.2x
//
// Values are located by first-occurrence search, not column offsets.
// The size suffix changed from "kB" to "KiB" in FFmpeg 7.0; both are
// accepted, and "N/A" placeholders map to zero values.
func tryParseProgress(line string) (*Progress, bool) {
	s := stripTag(line)

	frameToken, ok := keyValue(s, "frame=")
	if !ok {
		return nil, false
	}
	frame, err := strconv.ParseUint(frameToken, 10, 64)
	if err != nil {
		return nil, false
	}

	fpsToken, ok := keyValue(s, "fps=")
	if !ok {
		return nil, false
	}
	fps, err := strconv.ParseFloat(fpsToken, 64)
	if err != nil {
		return nil, false
	}

	qToken, ok := keyValue(s, "q=")
	if !ok {
		return nil, false
	}
	quantizer, err := strconv.ParseFloat(qToken, 64)
	if err != nil {
		return nil, false
	}

	// "size=" also matches the trailing part of "Lsize="
	sizeToken, ok := keyValue(s, "size=")
	if !ok {
		return nil, false
	}
	size, ok := parseSizeKB(sizeToken)
	if !ok {
		return nil, false
	}

	// kept verbatim, not converted to seconds
	timeToken, ok := keyValue(s, "time=")
	if !ok {
		return nil, false
	}

	bitrate := 0.0
	if token, ok := keyValue(s, "bitrate="); ok {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(token, "kbits/s"), 64); err == nil {
			bitrate = v
		}
	} else {
		return nil, false
	}

	speed := 0.0
	if token, ok := keyValue(s, "speed="); ok {
		if trimmed, hasX := strings.CutSuffix(token, "x"); hasX {
			if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
				speed = v
			}
		}
	} else {
		return nil, false
	}

	return &Progress{
		Frame:       frame,
		FPS:         fps,
		Quantizer:   quantizer,
		SizeKB:      size,
		Time:        timeToken,
		BitrateKbps: bitrate,
		Speed:       speed,
		Raw:         line,
	}, true
}

// keyValue finds the first occurrence of key and returns the token
// following it
func keyValue(s, key string) (string, bool) {
	_, after, ok := strings.Cut(s, key)
	if !ok {
		return "", false
	}
	return firstToken(after)
}

func parseSizeKB(token string) (uint64, bool) {
	if strings.HasSuffix(token, "N/A") {
		return 0, true
	}
	trimmed, ok := strings.CutSuffix(token, "KiB") // FFmpeg 7.0 and later
	if !ok {
		trimmed, ok = strings.CutSuffix(token, "kB") // FFmpeg 6.0 and prior
	}
	if !ok {
		return 0, false
	}
	size, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, false
	}
	return size, true
}
