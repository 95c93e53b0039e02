// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alert

import (
	"fmt"
	"strings"

	"github.com/kortschak/vadr/coords"
)

// Exception is one coords segment of an exception value, with its
// associated value for coords-value exceptions (empty for
// coords-only).
type Exception struct {
	Coord coords.Coord
	Value string
}

// ExceptionSegments parses an exc_key value per exc_type.
// coords-only values carry no per-segment value; coords-value values
// must be pairwise non-overlapping across the whole string.
func ExceptionSegments(s string, t ExcType) ([]Exception, error) {
	switch t {
	case CoordsOnly:
		cs, err := coords.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("alert: exception: %w", err)
		}
		out := make([]Exception, len(cs))
		for i, c := range cs {
			out[i] = Exception{Coord: c}
		}
		return out, nil
	case CoordsValue:
		return parseCoordsValue(s)
	default:
		return nil, fmt.Errorf("alert: exception: exc_type not set")
	}
}

func parseCoordsValue(s string) ([]Exception, error) {
	tokens := strings.Split(s, ",")
	out := make([]Exception, 0, len(tokens))
	for _, tok := range tokens {
		i := strings.LastIndexByte(tok, ':')
		if i < 0 {
			return nil, fmt.Errorf("alert: exception: malformed coords-value token %q", tok)
		}
		segStr, value := tok[:i], tok[i+1:]
		cs, err := coords.Parse(segStr)
		if err != nil {
			return nil, fmt.Errorf("alert: exception: %w", err)
		}
		if len(cs) != 1 {
			return nil, fmt.Errorf("alert: exception: coords-value token %q must be a single segment", tok)
		}
		out = append(out, Exception{Coord: cs[0], Value: value})
	}
	for i := range out {
		for j := range out[i+1:] {
			_, _, ok := coords.Overlap(out[i].Coord, out[i+1+j].Coord)
			if ok {
				return nil, fmt.Errorf("alert: exception: segments %s and %s overlap", out[i].Coord, out[i+1+j].Coord)
			}
		}
	}
	return out, nil
}

// ExceptionPositions expands exceptions into a per-position map. For
// coords-only exceptions every covered position maps to the empty
// string, signalling presence only.
func ExceptionPositions(excs []Exception) map[int]string {
	out := make(map[int]string)
	for _, e := range excs {
		lo, hi := e.Coord.Start, e.Coord.Stop
		if e.Coord.Strand == coords.Minus {
			lo, hi = hi, lo
		}
		for p := lo; p <= hi; p++ {
			out[p] = e.Value
		}
	}
	return out
}
