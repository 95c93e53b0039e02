// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package miscops

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Flank is the end of the feature a replacement run abuts, or
// FlankNone if it is internal.
type Flank int8

const (
	FlankNone Flank = iota
	Flank5p
	Flank3p
)

func (f Flank) String() string {
	switch f {
	case Flank5p:
		return "5p"
	case Flank3p:
		return "3p"
	default:
		return "-"
	}
}

func parseFlank(s string) (Flank, error) {
	switch s {
	case "5p":
		return Flank5p, nil
	case "3p":
		return Flank3p, nil
	case "-":
		return FlankNone, nil
	default:
		return 0, fmt.Errorf("miscops: pseudo-coords: invalid F field %q", s)
	}
}

// Replacement is one audited N-replacement run: its extent on the
// query sequence and on the model, its N content, and whether it was
// actually replaced.
type Replacement struct {
	SeqStart, SeqStop int
	MdlStart, MdlStop int
	Diff              int
	DiffAsym          bool // "!" suffix: sequence/model length asymmetry
	NCount, NTotal    int  // N:k/m
	EStart, EStop     int  // E:x/y
	Flank             Flank
	Replaced          bool
}

// String formats r as one semicolon-terminated pseudo-coords token
// token.
func (r Replacement) String() string {
	bang := ""
	if r.DiffAsym {
		bang = "!"
	}
	repl := "N"
	if r.Replaced {
		repl = "Y"
	}
	return fmt.Sprintf("[S:%d..%d,M:%d..%d,D:%d%s,N:%d/%d,E:%d/%d,F:%s,R:%s];",
		r.SeqStart, r.SeqStop, r.MdlStart, r.MdlStop, r.Diff, bang,
		r.NCount, r.NTotal, r.EStart, r.EStop, r.Flank, repl)
}

var pseudoCoordsToken = regexp.MustCompile(
	`^\[S:(\d+)\.\.(\d+),M:(\d+)\.\.(\d+),D:(\d+)(!?),N:(\d+)/(\d+),E:(\d+)/(\d+),F:(5p|3p|-),R:([YN])\];`)

// ParseReplacement parses a single token at the start of s, returning
// the parsed Replacement and the unconsumed remainder.
func ParseReplacement(s string) (Replacement, string, error) {
	m := pseudoCoordsToken.FindStringSubmatch(s)
	if m == nil {
		return Replacement{}, "", fmt.Errorf("miscops: pseudo-coords: malformed token %q", s)
	}
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	flank, err := parseFlank(m[11])
	if err != nil {
		return Replacement{}, "", err
	}
	r := Replacement{
		SeqStart: atoi(m[1]),
		SeqStop:  atoi(m[2]),
		MdlStart: atoi(m[3]),
		MdlStop:  atoi(m[4]),
		Diff:     atoi(m[5]),
		DiffAsym: m[6] == "!",
		NCount:   atoi(m[7]),
		NTotal:   atoi(m[8]),
		EStart:   atoi(m[9]),
		EStop:    atoi(m[10]),
		Flank:    flank,
		Replaced: m[12] == "Y",
	}
	return r, s[len(m[0]):], nil
}

// ParsePseudoCoords parses a full semicolon-terminated pseudo-coords
// string into its list of Replacement tokens.
func ParsePseudoCoords(s string) ([]Replacement, error) {
	var out []Replacement
	for len(s) > 0 {
		r, rest, err := ParseReplacement(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
		s = rest
	}
	return out, nil
}

// FormatPseudoCoords concatenates rs into one pseudo-coords string.
func FormatPseudoCoords(rs []Replacement) string {
	var b strings.Builder
	for _, r := range rs {
		b.WriteString(r.String())
	}
	return b.String()
}

// Fields is the parallel-array decomposition of a pseudo-coords
// string's components, as the source's own parser returns them.
type Fields struct {
	SeqStart, SeqStop []int
	MdlStart, MdlStop []int
	Diff              []int
	DiffAsym          []bool
	NCount, NTotal    []int
	EStart, EStop     []int
	Flank             []Flank
	Replaced          []bool
}

// ParseFields parses s and returns its components as parallel
// arrays, one entry per token in order.
func ParseFields(s string) (Fields, error) {
	rs, err := ParsePseudoCoords(s)
	if err != nil {
		return Fields{}, err
	}
	var f Fields
	for _, r := range rs {
		f.SeqStart = append(f.SeqStart, r.SeqStart)
		f.SeqStop = append(f.SeqStop, r.SeqStop)
		f.MdlStart = append(f.MdlStart, r.MdlStart)
		f.MdlStop = append(f.MdlStop, r.MdlStop)
		f.Diff = append(f.Diff, r.Diff)
		f.DiffAsym = append(f.DiffAsym, r.DiffAsym)
		f.NCount = append(f.NCount, r.NCount)
		f.NTotal = append(f.NTotal, r.NTotal)
		f.EStart = append(f.EStart, r.EStart)
		f.EStop = append(f.EStop, r.EStop)
		f.Flank = append(f.Flank, r.Flank)
		f.Replaced = append(f.Replaced, r.Replaced)
	}
	return f, nil
}
