// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coords provides the segmented, stranded genomic interval
// algebra that underlies every other vadr package: parsing and
// formatting of coords strings, reverse complementation, overlap and
// span tests, relative/absolute and protein/nucleotide conversions,
// and adjacency merging.
package coords

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/biogo/store/step"
)

// Strand is the direction of a segment or coords string.
type Strand int8

const (
	Minus Strand = -1
	Plus  Strand = 1
)

// String returns "+" or "-".
func (s Strand) String() string {
	switch s {
	case Plus:
		return "+"
	case Minus:
		return "-"
	default:
		return "?"
	}
}

// Opposite returns the reverse of s.
func (s Strand) Opposite() Strand {
	return -s
}

// Coord is a single segment (start, stop, strand) with independent
// 5' and 3' truncation markers.
type Coord struct {
	Start, Stop           int
	Strand                Strand
	StartTrunc, StopTrunc bool
}

// Seg builds a segment, rejecting non-forward or non-positive input.
func Seg(start, stop int, strand Strand) (Coord, error) {
	if start < 1 || stop < 1 {
		return Coord{}, fmt.Errorf("coords: non-positive position in %d..%d:%s", start, stop, strand)
	}
	c := Coord{Start: start, Stop: stop, Strand: strand}
	if !c.Forward() {
		return Coord{}, fmt.Errorf("coords: backward segment %d..%d:%s", start, stop, strand)
	}
	return c, nil
}

// Single builds a one-position segment.
func Single(pos int, strand Strand) (Coord, error) {
	return Seg(pos, pos, strand)
}

// Forward reports whether c runs in the direction implied by its strand:
// start<=stop on +, start>=stop on -.
func (c Coord) Forward() bool {
	if c.Strand == Plus {
		return c.Start <= c.Stop
	}
	return c.Start >= c.Stop
}

// Length is the number of positions spanned by c.
func (c Coord) Length() int {
	if c.Stop >= c.Start {
		return c.Stop - c.Start + 1
	}
	return c.Start - c.Stop + 1
}

// String renders c in canonical form: start..stop:strand with optional
// truncation markers.
func (c Coord) String() string {
	var b strings.Builder
	if c.StartTrunc {
		b.WriteByte('<')
	}
	b.WriteString(strconv.Itoa(c.Start))
	b.WriteString("..")
	if c.StopTrunc {
		b.WriteByte('>')
	}
	b.WriteString(strconv.Itoa(c.Stop))
	b.WriteByte(':')
	b.WriteString(c.Strand.String())
	return b.String()
}

// Coords is an ordered, non-empty sequence of segments: a coords string.
type Coords []Coord

// String renders the comma-joined canonical form.
func (cs Coords) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// Length is the sum of segment lengths.
func (cs Coords) Length() int {
	n := 0
	for _, c := range cs {
		n += c.Length()
	}
	return n
}

// Min is the smallest position across all segments.
func (cs Coords) Min() int {
	if len(cs) == 0 {
		return 0
	}
	m := minOf(cs[0].Start, cs[0].Stop)
	for _, c := range cs[1:] {
		if v := minOf(c.Start, c.Stop); v < m {
			m = v
		}
	}
	return m
}

// Max is the largest position across all segments.
func (cs Coords) Max() int {
	if len(cs) == 0 {
		return 0
	}
	m := maxOf(cs[0].Start, cs[0].Stop)
	for _, c := range cs[1:] {
		if v := maxOf(c.Start, c.Stop); v > m {
			m = v
		}
	}
	return m
}

func minOf(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// SummaryStrand is the outcome of classifying a coords string's segment
// strands.
type SummaryStrand int8

const (
	SummaryPlus SummaryStrand = iota
	SummaryMinus
	SummaryMixed
)

func (s SummaryStrand) String() string {
	switch s {
	case SummaryPlus:
		return "+"
	case SummaryMinus:
		return "-"
	default:
		return "mixed"
	}
}

// StrandSummary classifies cs as entirely +, entirely -, or mixed.
func (cs Coords) StrandSummary() SummaryStrand {
	sawPlus, sawMinus := false, false
	for _, c := range cs {
		if c.Strand == Plus {
			sawPlus = true
		} else {
			sawMinus = true
		}
	}
	switch {
	case sawPlus && sawMinus:
		return SummaryMixed
	case sawMinus:
		return SummaryMinus
	default:
		return SummaryPlus
	}
}

// FromTriples builds a Coords from parallel arrays, failing on length
// mismatch or any invalid segment.
func FromTriples(starts, stops []int, strands []Strand) (Coords, error) {
	if len(starts) != len(stops) || len(starts) != len(strands) {
		return nil, fmt.Errorf("coords: mismatched array lengths %d/%d/%d", len(starts), len(stops), len(strands))
	}
	cs := make(Coords, len(starts))
	for i := range starts {
		c, err := Seg(starts[i], stops[i], strands[i])
		if err != nil {
			return nil, err
		}
		cs[i] = c
	}
	return cs, nil
}

// MergeAll scans left to right and greedily merges adjacent segments:
// same strand, matching direction, and contiguous endpoints.
func MergeAll(cs Coords) Coords {
	if len(cs) == 0 {
		return cs
	}
	out := make(Coords, 0, len(cs))
	cur := cs[0]
	for _, next := range cs[1:] {
		if adjacent(cur, next) {
			cur.Stop = next.Stop
			cur.StopTrunc = next.StopTrunc
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	return out
}

func adjacent(a, b Coord) bool {
	if a.Strand != b.Strand {
		return false
	}
	if a.Forward() != b.Forward() {
		return false
	}
	if a.Strand == Plus {
		return b.Start == a.Stop+1
	}
	return b.Start == a.Stop-1
}

// MaxLengthSegment returns the longest segment in cs and its length,
// ties broken by first occurrence.
func MaxLengthSegment(cs Coords) (Coord, int) {
	var best Coord
	bestLen := -1
	for _, c := range cs {
		if l := c.Length(); l > bestLen {
			best, bestLen = c, l
		}
	}
	return best, bestLen
}

// Overlap returns the overlap of two same-strand segments. ok is false
// if the strands differ or the segments do not overlap.
func Overlap(a, b Coord) (count int, overlap Coord, ok bool) {
	if a.Strand != b.Strand {
		return 0, Coord{}, false
	}
	aLo, aHi := minOf(a.Start, a.Stop), maxOf(a.Start, a.Stop)
	bLo, bHi := minOf(b.Start, b.Stop), maxOf(b.Start, b.Stop)
	lo, hi := maxOf(aLo, bLo), minOf(aHi, bHi)
	if lo > hi {
		return 0, Coord{}, false
	}
	count = hi - lo + 1
	if a.Strand == Plus {
		overlap = Coord{Start: lo, Stop: hi, Strand: Plus}
	} else {
		overlap = Coord{Start: hi, Stop: lo, Strand: Minus}
	}
	return count, overlap, true
}

// Missing returns the coords of [1..total] on strand not covered by any
// segment of cs on that strand.
func Missing(cs Coords, strand Strand, total int) (Coords, error) {
	if total < 1 {
		return nil, fmt.Errorf("coords: non-positive total length %d", total)
	}
	v, err := step.New(0, total, covered(false))
	if err != nil {
		return nil, fmt.Errorf("coords: building coverage vector: %w", err)
	}
	v.Relaxed = true
	for _, c := range cs {
		if c.Strand != strand {
			continue
		}
		lo, hi := minOf(c.Start, c.Stop), maxOf(c.Start, c.Stop)
		err := v.ApplyRange(lo-1, hi, func(step.Equaler) step.Equaler { return covered(true) })
		if err != nil {
			return nil, fmt.Errorf("coords: marking coverage: %w", err)
		}
	}
	var out Coords
	v.Do(func(start, end int, e step.Equaler) {
		if bool(e.(covered)) {
			return
		}
		lo, hi := start+1, end
		if lo > total {
			return
		}
		if hi > total {
			hi = total
		}
		if lo > hi {
			return
		}
		c := Coord{Start: lo, Stop: hi, Strand: strand}
		if strand == Minus {
			c.Start, c.Stop = hi, lo
		}
		out = append(out, c)
	})
	return out, nil
}

// covered is a step.Equaler used to mark coverage in Missing.
type covered bool

func (c covered) Equal(e step.Equaler) bool { return c == e.(covered) }

// Spans reports whether every position of every segment of b lies in
// some segment of a on matching strand.
func Spans(a, b Coords) bool {
	if len(b) == 0 {
		return true
	}
	total := maxOf(a.Max(), b.Max())
	for _, bseg := range b {
		miss, err := Missing(a, bseg.Strand, total)
		if err != nil {
			return false
		}
		for _, m := range miss {
			if n, _, ok := Overlap(m, bseg); ok && n > 0 {
				return false
			}
		}
	}
	return true
}

// RevComp reverses segment order and per-segment flips endpoints and
// strand; truncation markers swap sides.
func RevComp(cs Coords) Coords {
	out := make(Coords, len(cs))
	for i, c := range cs {
		out[len(cs)-1-i] = Coord{
			Start:      c.Stop,
			Stop:       c.Start,
			Strand:     c.Strand.Opposite(),
			StartTrunc: c.StopTrunc,
			StopTrunc:  c.StartTrunc,
		}
	}
	return out
}
