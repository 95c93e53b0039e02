// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"fmt"

	"github.com/kortschak/vadr/coords"
)

// SummaryStrand is the strand summary of f's coords.
func (f *Feature) SummaryStrand() coords.SummaryStrand {
	return f.Coords.StrandSummary()
}

// NumSegments is the number of segments in f's coords.
func (f *Feature) NumSegments() int {
	return len(f.Coords)
}

// FivePMostPosition is the 5'-most position of f on its strand.
func (f *Feature) FivePMostPosition() (int, error) {
	if len(f.Coords) == 0 {
		return 0, fmt.Errorf("feature: %s has no coords", f.Outname)
	}
	return f.Coords[0].Start, nil
}

// ThreePMostPosition is the 3'-most position of f on its strand.
func (f *Feature) ThreePMostPosition() (int, error) {
	if len(f.Coords) == 0 {
		return 0, fmt.Errorf("feature: %s has no coords", f.Outname)
	}
	last := f.Coords[len(f.Coords)-1]
	return last.Stop, nil
}

// RelativeSegmentIndex returns sgmIdx's position (0-based) within f's
// own segment range, or -1 if sgmIdx does not belong to f.
func (m *Model) RelativeSegmentIndex(f *Feature, sgmIdx int) int {
	if f.FivePSgmIdx == None || sgmIdx < f.FivePSgmIdx || sgmIdx > f.ThreePSgmIdx {
		return -1
	}
	return sgmIdx - f.FivePSgmIdx
}

// Children returns the features whose ParentIdx is parentIdx,
// optionally filtered by type (empty string means any type).
func (m *Model) Children(parentIdx int, typ string) []*Feature {
	var out []*Feature
	for _, f := range m.Features {
		if f.ParentIdx != parentIdx {
			continue
		}
		if typ != "" && f.Type != typ {
			continue
		}
		out = append(out, f)
	}
	return out
}

// CountType returns the number of features of the given type.
func (m *Model) CountType(typ string) int {
	n := 0
	for _, f := range m.Features {
		if f.Type == typ {
			n++
		}
	}
	return n
}

// MaxNumCDSSegments returns the largest segment count among all CDS
// features.
func (m *Model) MaxNumCDSSegments() int {
	max := 0
	for _, f := range m.Features {
		if !TypeIsCDS(f.Type) {
			continue
		}
		if n := f.NumSegments(); n > max {
			max = n
		}
	}
	return max
}

// CDSStartStopCodonCoords returns the 5' start-codon coords and the
// 3' stop-codon coords of f, computed via RelToAbs with 1..3:+ and
// (L-2)..L:+.
func (m *Model) CDSStartStopCodonCoords(f *Feature) (start, stop coords.Coords, err error) {
	if !TypeIsCDS(f.Type) {
		return nil, nil, fmt.Errorf("feature: %s is not a CDS", f.Outname)
	}
	L := f.Length
	if L < 3 {
		return nil, nil, fmt.Errorf("feature: %s is shorter than one codon", f.Outname)
	}
	startRel, err := coords.Parse("1..3:+")
	if err != nil {
		return nil, nil, err
	}
	stopRel, err := coords.Parse(fmt.Sprintf("%d..%d:+", L-2, L))
	if err != nil {
		return nil, nil, err
	}
	start, err = coords.RelToAbs(f.Coords, startRel)
	if err != nil {
		return nil, nil, err
	}
	stop, err = coords.RelToAbs(f.Coords, stopRel)
	if err != nil {
		return nil, nil, err
	}
	return start, stop, nil
}

// LengthBetweenAdjacentSegments returns the gap length, signed by
// strand, between segment relSgmIdx and the next segment of f on the
// model. Both segments must share strand.
func (m *Model) LengthBetweenAdjacentSegments(f *Feature, relSgmIdx int) (int, error) {
	if relSgmIdx < 0 || f.FivePSgmIdx+relSgmIdx+1 > f.ThreePSgmIdx {
		return 0, fmt.Errorf("feature: %s has no segment after relative index %d", f.Outname, relSgmIdx)
	}
	a := f.Coords[relSgmIdx]
	b := f.Coords[relSgmIdx+1]
	if a.Strand != b.Strand {
		return 0, fmt.Errorf("feature: %s segments %d and %d have different strands", f.Outname, relSgmIdx, relSgmIdx+1)
	}
	if a.Strand == coords.Plus {
		return b.Start - a.Stop - 1, nil
	}
	return a.Stop - b.Start - 1, nil
}
