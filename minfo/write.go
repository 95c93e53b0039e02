// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minfo

import (
	"bufio"
	"fmt"
	"io"
)

// derivedKeys are never written: they are always recomputed by the
// FeatureInfo imputation pipeline from the feature's location.
var derivedKeys = map[string]bool{
	"length":      true,
	"3pa_ftr_idx": true,
	"outname":     true,
	"5p_sgm_idx":  true,
	"3p_sgm_idx":  true,
	"location":    true,
}

// featureLeadKeys are emitted first, in this order, when present; the
// remainder of a feature's keys follow in file order.
var featureLeadKeys = []string{"type", "coords", "parent_idx_str"}

// Write serializes f, omitting derived keys and emitting each
// feature's lead keys first.
func Write(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)
	for _, m := range f.Models {
		if err := writeRecord(bw, "MODEL", m.Name, m.Keys, m.Values); err != nil {
			return err
		}
		for _, ftr := range m.Features {
			keys := orderFeatureKeys(ftr.Keys)
			if err := writeRecord(bw, "FEATURE", ftr.ModelName, keys, ftr.Values); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func orderFeatureKeys(keys []string) []string {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	out := make([]string, 0, len(keys))
	for _, k := range featureLeadKeys {
		if present[k] {
			out = append(out, k)
		}
	}
	for _, k := range keys {
		lead := false
		for _, l := range featureLeadKeys {
			if k == l {
				lead = true
				break
			}
		}
		if !lead {
			out = append(out, k)
		}
	}
	return out
}

func writeRecord(w *bufio.Writer, tag, name string, keys []string, values map[string]string) error {
	if _, err := fmt.Fprintf(w, "%s %s", tag, name); err != nil {
		return err
	}
	for _, k := range keys {
		if derivedKeys[k] {
			continue
		}
		v := values[k]
		if _, err := fmt.Fprintf(w, " %s:\"%s\"", k, v); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
