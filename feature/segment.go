// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

// DeriveSegments expands every feature's coords into the model's flat
// Segments slice, in feature-index then within-feature order, and
// records each feature's 5p/3p segment-index range and each segment's
// boundary flags.
func (m *Model) DeriveSegments() {
	m.Segments = m.Segments[:0]
	for fi, f := range m.Features {
		f.FivePSgmIdx = None
		f.ThreePSgmIdx = None
		if len(f.Coords) == 0 {
			continue
		}
		first := len(m.Segments)
		for si, c := range f.Coords {
			m.Segments = append(m.Segments, Segment{
				Start:   c.Start,
				Stop:    c.Stop,
				Strand:  c.Strand,
				Feature: fi,
				Is5p:    si == 0,
				Is3p:    si == len(f.Coords)-1,
			})
		}
		last := len(m.Segments) - 1
		f.FivePSgmIdx = first
		f.ThreePSgmIdx = last
	}
}
