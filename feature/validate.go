// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"fmt"
	"strings"
)

// Validate checks the feature-table invariants across all features in m and
// returns a single error joining every violation found, or nil if m is
// consistent. Validation is run once at load time; a model that fails
// is never used.
func (m *Model) Validate() error {
	var errs []string

	for i, f := range m.Features {
		if f.Coords.Max() > m.Length || f.Coords.Min() < 1 {
			errs = append(errs, fmt.Sprintf("feature %d (%s): coords %s exceed model length %d", i, f.Outname, f.Coords, m.Length))
		}

		if f.ParentIdx != None {
			if f.ParentIdx == i {
				errs = append(errs, fmt.Sprintf("feature %d (%s): parent_idx refers to itself", i, f.Outname))
				continue
			}
			parent, err := m.feature(f.ParentIdx)
			if err != nil {
				errs = append(errs, fmt.Sprintf("feature %d (%s): parent_idx %d does not exist", i, f.Outname, f.ParentIdx))
				continue
			}
			if parent.ParentIdx != None {
				errs = append(errs, fmt.Sprintf("feature %d (%s): parent %d itself has a parent (depth >1)", i, f.Outname, f.ParentIdx))
			}
		}
	}

	errs = append(errs, m.validateAlternativeSets()...)
	errs = append(errs, m.validateSubstitutions()...)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("feature: model %s: %s", m.Name, strings.Join(errs, "; "))
}

func (m *Model) validateAlternativeSets() []string {
	var errs []string
	members := make(map[string][]int)
	for i, f := range m.Features {
		if f.AlternativeFtrSet == "" {
			continue
		}
		members[f.AlternativeFtrSet] = append(members[f.AlternativeFtrSet], i)
	}
	for name, idxs := range members {
		if len(idxs) < 2 {
			errs = append(errs, fmt.Sprintf("alternative_ftr_set %q has fewer than 2 members", name))
			continue
		}
		parent := None
		haveParent := false
		for _, i := range idxs {
			if p := m.Features[i].ParentIdx; p != None {
				parent = p
				haveParent = true
				break
			}
		}
		if haveParent {
			for _, i := range idxs {
				if m.Features[i].ParentIdx != parent {
					errs = append(errs, fmt.Sprintf("alternative_ftr_set %q members do not all share parent %d", name, parent))
					break
				}
			}
		}
	}
	return errs
}

func (m *Model) validateSubstitutions() []string {
	var errs []string
	for i, f := range m.Features {
		if f.AlternativeFtrSetSubn == None {
			continue
		}
		if f.AlternativeFtrSetSubn == i {
			errs = append(errs, fmt.Sprintf("feature %d (%s): alternative_ftr_set_subn refers to itself", i, f.Outname))
			continue
		}
		sub, err := m.feature(f.AlternativeFtrSetSubn)
		if err != nil {
			errs = append(errs, fmt.Sprintf("feature %d (%s): alternative_ftr_set_subn %d does not exist", i, f.Outname, f.AlternativeFtrSetSubn))
			continue
		}
		if sub.AlternativeFtrSet != "" && sub.AlternativeFtrSet == f.AlternativeFtrSet {
			errs = append(errs, fmt.Sprintf("feature %d (%s): alternative_ftr_set_subn must name a different set than its own", i, f.Outname))
		}
	}
	return errs
}
