// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coords

import "fmt"

// span is one abs segment annotated with its cumulative relative
// position range, used by RelToAbs to locate rel positions.
type span struct {
	relLo, relHi int // 1-based, inclusive, cumulative relative range
	abs          Coord
}

func cumulative(abs Coords) []span {
	spans := make([]span, len(abs))
	pos := 1
	for i, c := range abs {
		l := c.Length()
		spans[i] = span{relLo: pos, relHi: pos + l - 1, abs: c}
		pos += l
	}
	return spans
}

// absPosAt returns the absolute position corresponding to offset off
// (0-based distance from the 5' end) within abs segment c.
func absPosAt(c Coord, off int) int {
	if c.Strand == Plus {
		return c.Start + off
	}
	return c.Start - off
}

// RelToAbs reindexes rel's positions into abs's sequence coordinates,
// treating abs as a numbered nt sequence of its own. abs and rel must
// each have uniform strand.
func RelToAbs(abs, rel Coords) (Coords, error) {
	if abs.StrandSummary() == SummaryMixed {
		return nil, fmt.Errorf("coords: rel_to_abs: abs has mixed strand")
	}
	if rel.StrandSummary() == SummaryMixed {
		return nil, fmt.Errorf("coords: rel_to_abs: rel has mixed strand")
	}
	spans := cumulative(abs)
	total := 0
	if len(spans) > 0 {
		total = spans[len(spans)-1].relHi
	}

	var out Coords
	for _, r := range rel {
		lo, hi := minOf(r.Start, r.Stop), maxOf(r.Start, r.Stop)
		if lo < 1 || hi > total {
			return nil, fmt.Errorf("coords: rel_to_abs: position %d..%d outside abs length %d", lo, hi, total)
		}
		cur := lo
		for cur <= hi {
			sp, ok := find(spans, cur)
			if !ok {
				return nil, fmt.Errorf("coords: rel_to_abs: no abs segment covers relative position %d", cur)
			}
			segHi := minOf(hi, sp.relHi)
			startAbs := absPosAt(sp.abs, cur-sp.relLo)
			stopAbs := absPosAt(sp.abs, segHi-sp.relLo)
			seg := Coord{Start: startAbs, Stop: stopAbs, Strand: sp.abs.Strand}
			out = append(out, seg)
			cur = segHi + 1
		}
	}

	if rel.StrandSummary() == SummaryMinus {
		out = RevComp(out)
	}
	return MergeAll(out), nil
}

func find(spans []span, rel int) (span, bool) {
	for _, sp := range spans {
		if sp.relLo <= rel && rel <= sp.relHi {
			return sp, true
		}
	}
	return span{}, false
}

// RelSingleToAbs converts a single relative position on strand into
// its absolute position within abs.
func RelSingleToAbs(abs Coords, pos int, strand Strand) (int, error) {
	rel, err := Single(pos, strand)
	if err != nil {
		return 0, err
	}
	out, err := RelToAbs(abs, Coords{rel})
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("coords: rel_single_to_abs: empty result")
	}
	return out[0].Start, nil
}

// ProtRelToNucAbs composes a protein-relative coords string (segments
// must be on +) into nucleotide-absolute coords via abs.
func ProtRelToNucAbs(abs, protRel Coords) (Coords, error) {
	ntRel := make(Coords, len(protRel))
	for i, p := range protRel {
		if p.Strand != Plus {
			return nil, fmt.Errorf("coords: prot_rel_to_nuc_abs: protein segment not on +: %s", p)
		}
		ntRel[i] = Coord{
			Start:  3*p.Start - 2,
			Stop:   3 * p.Stop,
			Strand: Plus,
		}
	}
	return RelToAbs(abs, ntRel)
}

// ActualToFrac returns the fractional (start, stop) of sub within
// full, or (false) if sub is not a same-strand sub-interval of full.
func ActualToFrac(full, sub Coord) (fStart, fStop float64, ok bool) {
	if full.Strand != sub.Strand {
		return 0, 0, false
	}
	fLo, fHi := minOf(full.Start, full.Stop), maxOf(full.Start, full.Stop)
	sLo, sHi := minOf(sub.Start, sub.Stop), maxOf(sub.Start, sub.Stop)
	if sLo < fLo || sHi > fHi {
		return 0, 0, false
	}
	denom := float64(fHi - fLo)
	offset := func(pos int) float64 {
		if full.Strand == Plus {
			return float64(pos - fLo)
		}
		return float64(fHi - pos)
	}
	if denom == 0 {
		return 0, 1, true
	}
	fStart = offset(sub.Start) / denom
	fStop = offset(sub.Stop) / denom
	return fStart, fStop, true
}

// FracToActual is the inverse of ActualToFrac: given fractional
// (fStart, fStop) in [0,1], it returns integer positions within full,
// clipping at the endpoints.
func FracToActual(full Coord, fStart, fStop float64) Coord {
	fLo, fHi := minOf(full.Start, full.Stop), maxOf(full.Start, full.Stop)
	clip := func(f float64) int {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		if full.Strand == Plus {
			return fLo + int(f*float64(fHi-fLo)+0.5)
		}
		return fHi - int(f*float64(fHi-fLo)+0.5)
	}
	return Coord{Start: clip(fStart), Stop: clip(fStop), Strand: full.Strand}
}
