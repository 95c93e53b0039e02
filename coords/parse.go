// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coords

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var segRe = regexp.MustCompile(`^(<)?(\d+)\.\.(>)?(\d+):([+-])$`)

// Parse returns the structured coords of s, failing on any deviation
// from the canonical grammar.
func Parse(s string) (Coords, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("coords: empty coords string")
	}
	fields := strings.Split(s, ",")
	cs := make(Coords, len(fields))
	for i, f := range fields {
		c, err := parseSegment(f)
		if err != nil {
			return nil, fmt.Errorf("coords: parsing %q: %w", s, err)
		}
		cs[i] = c
	}
	return cs, nil
}

func parseSegment(f string) (Coord, error) {
	m := segRe.FindStringSubmatch(strings.TrimSpace(f))
	if m == nil {
		return Coord{}, fmt.Errorf("malformed segment %q", f)
	}
	start, err := strconv.Atoi(m[2])
	if err != nil {
		return Coord{}, err
	}
	stop, err := strconv.Atoi(m[4])
	if err != nil {
		return Coord{}, err
	}
	if start < 1 || stop < 1 {
		return Coord{}, fmt.Errorf("non-positive position in %q", f)
	}
	strand := Plus
	if m[5] == "-" {
		strand = Minus
	}
	return Coord{
		Start:      start,
		Stop:       stop,
		Strand:     strand,
		StartTrunc: m[1] == "<",
		StopTrunc:  m[3] == ">",
	}, nil
}

// Validate is a total function reporting whether s is a syntactically
// valid coords string.
func Validate(s string) bool {
	_, err := Parse(s)
	return err == nil
}
