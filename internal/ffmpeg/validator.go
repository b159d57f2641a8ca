// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// StreamMonitor - FFmpeg 日志解析与进度监控工具

package ffmpeg

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator decides whether an address is eligible as FFmpeg input or
// output. Block rules win over allow rules; with no allow rules
// everything not blocked passes.
type Validator interface {
	IsValid(address string) bool
}

type validator struct {
	allow []*regexp.Regexp
	block []*regexp.Regexp
}

// NewValidator creates a Validator. Empty expressions are ignored.
func NewValidator(allow, block []string) (Validator, error) {
	v := &validator{}

	compile := func(exprs []string, kind string) ([]*regexp.Regexp, error) {
		var out []*regexp.Regexp
		for _, expr := range exprs {
			expr = strings.TrimSpace(expr)
			if expr == "" {
				continue
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("invalid %s expression '%s': %w", kind, expr, err)
			}
			out = append(out, re)
		}
		return out, nil
	}

	var err error
	if v.allow, err = compile(allow, "allow"); err != nil {
		return nil, err
	}
	if v.block, err = compile(block, "block"); err != nil {
		return nil, err
	}

	return v, nil
}

func (v *validator) IsValid(address string) bool {
	for _, re := range v.block {
		if re.MatchString(address) {
			return false
		}
	}
	if len(v.allow) == 0 {
		return true
	}
	for _, re := range v.allow {
		if re.MatchString(address) {
			return true
		}
	}
	return false
}
