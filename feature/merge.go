// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import "fmt"

// allKeys returns every populated key on f, including the closed type
// and coords fields alongside its qualifiers, for use as the
// consistency key set in MergeFeatureTables.
func (f *Feature) allKeys() map[string]string {
	keys := map[string]string{
		"type":   f.Type,
		"coords": f.Coords.String(),
	}
	if f.Product != "" {
		keys["product"] = f.Product
	}
	if f.Gene != "" {
		keys["gene"] = f.Gene
	}
	if f.Note != "" {
		keys["note"] = f.Note
	}
	for k, v := range f.Extra {
		keys[k] = v
	}
	return keys
}

// consistent reports whether a and b agree on every key they both
// carry a value for.
func consistent(a, b *Feature) bool {
	ak, bk := a.allKeys(), b.allKeys()
	for k, v := range ak {
		if w, ok := bk[k]; ok && v != w {
			return false
		}
	}
	return true
}

// MergeFeatureTables merges src into m: for each src feature, the
// unique consistent feature in m (agreeing on every shared key) is
// located and the keys that src carries but m's feature lacks are
// copied across. A src feature with zero or more than one consistent
// partner in m is an error.
func (m *Model) MergeFeatureTables(src *Model) error {
	for _, sf := range src.Features {
		var dst *Feature
		n := 0
		for _, df := range m.Features {
			if consistent(sf, df) {
				dst = df
				n++
			}
		}
		switch n {
		case 0:
			return fmt.Errorf("feature: merge_feature_tables: no consistent partner for %s", sf.Outname)
		default:
			if n > 1 {
				return fmt.Errorf("feature: merge_feature_tables: %d consistent partners for %s", n, sf.Outname)
			}
		}

		sk := sf.allKeys()
		dk := dst.allKeys()
		for k, v := range sk {
			if _, ok := dk[k]; !ok {
				dst.Set(k, v)
			}
		}
	}
	return nil
}
