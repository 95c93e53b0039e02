// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ftbl

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/kortschak/vadr/coords"
	"github.com/kortschak/vadr/feature"
)

// WriteGFF writes seqName's projected, passing features as GFF3,
// converting 1-based inclusive coords.Coord spans to GFF's 0-based
// half-open convention. This is additive tooling alongside
// WriteFeatureTable: pipelines that want a GFF view
// of the same verdict use this path, the native feature table path,
// or both, identically gated by skip.
func WriteGFF(w io.Writer, source, seqName string, model *feature.Model, skip func(ftrIdx int) bool) error {
	enc := gff.NewWriter(w, 60, true)
	for fi, f := range model.Features {
		if skip != nil && skip(fi) {
			continue
		}
		for _, c := range f.Coords {
			strand := seq.Plus
			if c.Strand == coords.Minus {
				strand = seq.Minus
			}
			start, end := c.Start-1, c.Stop
			if strand == seq.Minus {
				start, end = c.Stop-1, c.Start
			}
			attrs := gff.Attributes{{Tag: "ID", Value: f.Outname}}
			if f.ParentIdx != feature.None {
				attrs = append(attrs, gff.Attribute{
					Tag:   "Parent",
					Value: model.Features[f.ParentIdx].Outname,
				})
			}
			_, err := enc.Write(&gff.Feature{
				SeqName:        seqName,
				Source:         source,
				Feature:        f.Type,
				FeatStart:      start,
				FeatEnd:        end,
				FeatStrand:     strand,
				FeatFrame:      gff.NoFrame,
				FeatAttributes: attrs,
			})
			if err != nil {
				return fmt.Errorf("ftbl: gff: %w", err)
			}
		}
	}
	return nil
}
