// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jobrunner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SubmitTemplate is a two-line cluster-submission wrapper: a prefix
// written before the shard command and a suffix written after it
// Both strings may contain the placeholders substituted by
// Render.
type SubmitTemplate struct {
	Prefix string
	Suffix string
}

// ParseSubmitTemplate reads a submit-template file: everything after
// '#' on a line is a comment, and exactly two non-comment lines are
// required.
func ParseSubmitTemplate(r io.Reader) (*SubmitTemplate, error) {
	sc := bufio.NewScanner(r)
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("jobrunner: submit template: %w", err)
	}
	if len(lines) != 2 {
		return nil, fmt.Errorf("jobrunner: submit template: need exactly 2 non-comment lines, got %d", len(lines))
	}
	return &SubmitTemplate{Prefix: lines[0], Suffix: lines[1]}, nil
}

// Placeholders are the per-job values substituted into a submit
// template.
type Placeholders struct {
	JobName string
	ErrFile string
	MemGB   float64
	NSecs   int
}

// Render substitutes the "![name]!" placeholders into tmpl.
func Render(tmpl string, p Placeholders) string {
	r := strings.NewReplacer(
		"![jobname]!", p.JobName,
		"![errfile]!", p.ErrFile,
		"![memgb]!", strconv.FormatFloat(p.MemGB, 'g', -1, 64),
		"![nsecs]!", strconv.Itoa(p.NSecs),
	)
	return r.Replace(tmpl)
}

// SubmitMode selects how a shard's command line is dispatched.
type SubmitMode int

const (
	// Direct runs the shard command as a plain *exec.Cmd, no
	// cluster wrapping.
	Direct SubmitMode = iota
	// ShellWrapper wraps the shard command between a rendered
	// SubmitTemplate's Prefix and Suffix lines before dispatch.
	ShellWrapper
)

// RenderShardScript builds the full script body for a shard submitted
// under ShellWrapper mode: the template's prefix, the shard command
// line, then the template's suffix, one per line.
func RenderShardScript(tmpl SubmitTemplate, p Placeholders, command string) string {
	var b strings.Builder
	b.WriteString(Render(tmpl.Prefix, p))
	b.WriteByte('\n')
	b.WriteString(command)
	b.WriteByte('\n')
	b.WriteString(Render(tmpl.Suffix, p))
	b.WriteByte('\n')
	return b.String()
}
