// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minfo

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Read parses a .minfo stream: comment lines
// start with "#"; other lines are "MODEL <name>" or "FEATURE
// <modelname>" followed by zero or more key:"value" pairs.
func Read(r io.Reader) (*File, error) {
	f := &File{}
	byName := make(map[string]*ModelRecord)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("minfo: line %d: expected at least a tag and a name", lineNo)
		}
		switch fields[0] {
		case "MODEL":
			name := fields[1]
			if _, ok := byName[name]; ok {
				return nil, fmt.Errorf("minfo: line %d: duplicate MODEL line for %q", lineNo, name)
			}
			m := newModelRecord(name)
			if err := parsePairs(m.Values, &m.Keys, fields[2:]); err != nil {
				return nil, fmt.Errorf("minfo: line %d: %w", lineNo, err)
			}
			byName[name] = m
			f.Models = append(f.Models, m)
		case "FEATURE":
			name := fields[1]
			m, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("minfo: line %d: FEATURE for %q before its MODEL line", lineNo, name)
			}
			ftr := newFeatureRecord(name)
			if err := parsePairs(ftr.Values, &ftr.Keys, fields[2:]); err != nil {
				return nil, fmt.Errorf("minfo: line %d: %w", lineNo, err)
			}
			m.Features = append(m.Features, ftr)
		default:
			return nil, fmt.Errorf("minfo: line %d: unknown tag %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("minfo: %w", err)
	}
	return f, nil
}

// parsePairs parses the key:"value" pairs already split into
// whitespace-delimited fields. Because values may themselves contain
// spaces the caller's naive Fields split must be re-joined; we redo
// the split over the full remainder instead.
func parsePairs(values map[string]string, keys *[]string, fields []string) error {
	rest := strings.Join(fields, " ")
	for len(rest) > 0 {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			break
		}
		colon := strings.IndexByte(rest, ':')
		if colon < 0 {
			return fmt.Errorf("malformed pair near %q: missing ':'", rest)
		}
		key := rest[:colon]
		if strings.ContainsAny(key, " \t:") {
			return fmt.Errorf("malformed key %q", key)
		}
		rest = rest[colon+1:]
		if len(rest) == 0 || rest[0] != '"' {
			return fmt.Errorf("malformed value for key %q: expected opening quote", key)
		}
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			return fmt.Errorf("malformed value for key %q: missing closing quote", key)
		}
		value := rest[1 : 1+end]
		if _, ok := values[key]; ok {
			return fmt.Errorf("duplicate key %q on one line", key)
		}
		*keys = append(*keys, key)
		values[key] = value
		rest = rest[1+end+1:]
	}
	return nil
}
