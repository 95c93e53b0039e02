// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"

	"github.com/kortschak/vadr/coords"
)

// ImputeCoords fills in Coords and Length from each feature's raw
// GenBank location, preserving truncation markers. This is idempotent:
// features added directly via AddFeature already carry Coords and are
// left untouched.
func (m *Model) ImputeCoords(keepTrunc bool) error {
	for idx, loc := range m.location {
		f := m.Features[idx]
		cs, err := coords.FromLocation(loc, keepTrunc)
		if err != nil {
			return fmt.Errorf("feature: model %s feature %d: %w", m.Name, idx, err)
		}
		f.Coords = cs
	}
	for _, f := range m.Features {
		f.Length = f.Coords.Length()
	}
	return nil
}

// ImputeOutnames sets each feature's display name: product, else gene,
// else "type.typeindex". The typeindex counts occurrences of type in
// feature-index order.
//
// vdr_FeatureInfoImputeOutname's header in the source this is grounded
// on declares a single argument but the body reads a second; we carry
// a second, deliberately unused parameter for call-site parity with
// that behavior rather than silently dropping it.
func (m *Model) ImputeOutnames(_ int) {
	typeIndex := make(map[string]int)
	for _, f := range m.Features {
		typeIndex[f.Type]++
		switch {
		case f.Product != "":
			f.Outname = f.Product
		case f.Gene != "":
			f.Outname = f.Gene
		default:
			f.Outname = fmt.Sprintf("%s.%d", f.Type, typeIndex[f.Type])
		}
	}
}

// Impute3paFtrIdx sets, for each mat_peptide feature, the index of the
// unique other mat_peptide on the same strand whose 5'-most position
// is adjacent (±1) to this feature's 3'-most position. Ties keep the
// first qualifying candidate in feature-index order (order-sensitive
// by design, per the open question this resolves).
func (m *Model) Impute3paFtrIdx() error {
	for i, f := range m.Features {
		if !TypeIsMatPeptide(f.Type) {
			continue
		}
		my3p, err := f.ThreePMostPosition()
		if err != nil {
			return err
		}
		strand := f.SummaryStrand()
		for j, g := range m.Features {
			if j == i || !TypeIsMatPeptide(g.Type) {
				continue
			}
			if g.SummaryStrand() != strand {
				continue
			}
			g5p, err := g.FivePMostPosition()
			if err != nil {
				return err
			}
			adjacent := false
			if strand == coords.SummaryPlus {
				adjacent = g5p == my3p+1
			} else {
				adjacent = g5p == my3p-1
			}
			if adjacent {
				f.ThreePAFtrIdx = j
				break
			}
		}
	}
	return nil
}

// ImputeByOverlap fills dstKey on every dst-typed feature that lacks
// it, using the shortest src-typed feature that spans it and carries
// srcKey. Candidate features are found with an interval tree.
func (m *Model) ImputeByOverlap(srcType, srcKey, dstType, dstKey string) error {
	var tree interval.IntTree
	var srcFeats []*Feature
	srcIdx := make(map[uintptr]int)
	for i, f := range m.Features {
		if f.Type != srcType {
			continue
		}
		if _, ok := f.Get(srcKey); !ok {
			continue
		}
		uid := uintptr(len(srcFeats))
		srcIdx[uid] = i
		srcFeats = append(srcFeats, f)
		lo, hi := f.Coords.Min(), f.Coords.Max()
		err := tree.Insert(overlapInterval{uid: uid, lo: lo, hi: hi}, true)
		if err != nil {
			return fmt.Errorf("feature: impute_by_overlap: %w", err)
		}
	}
	if len(srcFeats) == 0 {
		return nil
	}
	tree.AdjustRanges()

	for _, dst := range m.Features {
		if dst.Type != dstType {
			continue
		}
		if _, ok := dst.Get(dstKey); ok {
			continue
		}
		lo, hi := dst.Coords.Min(), dst.Coords.Max()
		hits := tree.Get(overlapInterval{lo: lo, hi: hi})
		var candidates []*Feature
		for _, h := range hits {
			i := srcIdx[h.(overlapInterval).uid]
			src := m.Features[i]
			if coords.Spans(src.Coords, dst.Coords) {
				candidates = append(candidates, src)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].Length < candidates[b].Length
		})
		shortest := candidates[0].Length
		var tied []*Feature
		for _, c := range candidates {
			if c.Length == shortest {
				tied = append(tied, c)
			}
		}
		if len(tied) > 1 {
			same := true
			for _, c := range tied[1:] {
				if c.Coords.String() != tied[0].Coords.String() {
					same = false
					break
				}
			}
			if same {
				return fmt.Errorf("feature: impute_by_overlap: identical-coords tie for %s", dst.Outname)
			}
		}
		v, _ := candidates[0].Get(srcKey)
		dst.Set(dstKey, v)
	}
	return nil
}

type overlapInterval struct {
	uid    uintptr
	lo, hi int
}

func (i overlapInterval) ID() uintptr { return i.uid }
func (i overlapInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.lo, End: i.hi + 1}
}
func (i overlapInterval) Overlap(b interval.IntRange) bool {
	return b.Start < i.hi+1 && i.lo < b.End
}

// InitDefaults resets boolean fields and alternative-feature-set
// fields to their zero-value defaults. Features are already
// initialized this way by newFeature; this is only needed to force a
// reset on features built by other means (e.g. a merge).
func (m *Model) InitDefaults(force bool) {
	if !force {
		return
	}
	for _, f := range m.Features {
		f.MiscNotFailure = false
		f.IsDeletable = false
		f.AlternativeFtrSet = ""
		f.AlternativeFtrSetSubn = None
		f.CanonSpliceSites = false
	}
}
