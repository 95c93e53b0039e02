// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coords

import (
	"fmt"
	"strconv"
	"strings"
)

// FromLocation recursively parses a GenBank feature location:
// join(...), complement(...), bare spans, and single positions,
// optionally preserving <>/ truncation markers. Complement applied to
// a join reverses segment order and flips each segment, per RevComp's
// carrot-swap policy.
func FromLocation(loc string, keepTrunc bool) (Coords, error) {
	cs, err := parseLocation(strings.TrimSpace(loc))
	if err != nil {
		return nil, fmt.Errorf("coords: parsing location %q: %w", loc, err)
	}
	if !keepTrunc {
		for i := range cs {
			cs[i].StartTrunc = false
			cs[i].StopTrunc = false
		}
	}
	return cs, nil
}

func parseLocation(s string) (Coords, error) {
	switch {
	case strings.HasPrefix(s, "complement(") && strings.HasSuffix(s, ")"):
		inner, err := parseLocation(s[len("complement(") : len(s)-1])
		if err != nil {
			return nil, err
		}
		return RevComp(inner), nil
	case strings.HasPrefix(s, "join(") && strings.HasSuffix(s, ")"):
		parts, err := splitTopLevel(s[len("join(") : len(s)-1])
		if err != nil {
			return nil, err
		}
		var cs Coords
		for _, p := range parts {
			sub, err := parseLocation(p)
			if err != nil {
				return nil, err
			}
			cs = append(cs, sub...)
		}
		return cs, nil
	default:
		c, err := parseSpan(s)
		if err != nil {
			return nil, err
		}
		return Coords{c}, nil
	}
}

// splitTopLevel splits a comma-separated list, respecting nested
// parentheses so that join(complement(1..2),3..4) splits correctly.
func splitTopLevel(s string) ([]string, error) {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	parts = append(parts, s[start:])
	return parts, nil
}

// parseSpan parses a bare location span: an optional "<" before the
// start, "..", an optional ">" before the stop, or a single position
// with an optional truncation marker on either side.
func parseSpan(s string) (Coord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Coord{}, fmt.Errorf("empty location span")
	}
	i := strings.Index(s, "..")
	if i < 0 {
		pos, trunc, err := parsePos(s)
		if err != nil {
			return Coord{}, err
		}
		return Coord{Start: pos, Stop: pos, Strand: Plus, StartTrunc: trunc, StopTrunc: trunc}, nil
	}
	startTok, stopTok := s[:i], s[i+2:]
	start, startTrunc, err := parsePos(startTok)
	if err != nil {
		return Coord{}, err
	}
	stop, stopTrunc, err := parsePos(stopTok)
	if err != nil {
		return Coord{}, err
	}
	return Coord{Start: start, Stop: stop, Strand: Plus, StartTrunc: startTrunc, StopTrunc: stopTrunc}, nil
}

func parsePos(s string) (pos int, trunc bool, err error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<") || strings.HasPrefix(s, ">") {
		trunc = true
		s = s[1:]
	}
	pos, err = strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("invalid position %q", s)
	}
	return pos, trunc, nil
}
