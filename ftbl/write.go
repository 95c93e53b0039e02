// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ftbl

import (
	"fmt"
	"io"

	"github.com/kortschak/vadr/feature"
)

// WriteFeatureTable writes seqName's projected, passing features in
// NCBI's 5-column feature table text form: a ">Feature seqid" header,
// then one start/stop/key line per feature (one per segment for
// multi-segment features, key only on the first), followed by
// qualifier lines. skip reports, per feature index, whether the
// feature must be omitted (e.g. it failed or its alerts suppressed
// annotation).
func WriteFeatureTable(w io.Writer, seqName string, model *feature.Model, skip func(ftrIdx int) bool) error {
	if _, err := fmt.Fprintf(w, ">Feature %s\n", seqName); err != nil {
		return fmt.Errorf("ftbl: %w", err)
	}
	for fi, f := range model.Features {
		if skip != nil && skip(fi) {
			continue
		}
		if len(f.Coords) == 0 {
			continue
		}
		if err := writeFeatureLines(w, f); err != nil {
			return err
		}
	}
	return nil
}

func writeFeatureLines(w io.Writer, f *feature.Feature) error {
	for i, c := range f.Coords {
		key := ""
		if i == 0 {
			key = f.Type
		}
		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\n", c.Start, c.Stop, key); err != nil {
			return fmt.Errorf("ftbl: %w", err)
		}
	}
	for _, q := range qualifiers(f) {
		if _, err := fmt.Fprintf(w, "\t\t\t%s\t%s\n", q[0], q[1]); err != nil {
			return fmt.Errorf("ftbl: %w", err)
		}
	}
	return nil
}

// qualifiers returns f's non-empty qualifiers in the stable order:
// product, gene, note, then Extra keys as held (insertion order is
// not tracked for Extra, so the caller-visible order there is
// unspecified, matching the open-ended nature of that set).
func qualifiers(f *feature.Feature) [][2]string {
	var out [][2]string
	if f.Product != "" {
		out = append(out, [2]string{"product", f.Product})
	}
	if f.Gene != "" {
		out = append(out, [2]string{"gene", f.Gene})
	}
	if f.Note != "" {
		out = append(out, [2]string{"note", f.Note})
	}
	for k, v := range f.Extra {
		out = append(out, [2]string{k, v})
	}
	return out
}
