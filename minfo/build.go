// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minfo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kortschak/vadr/alert"
	"github.com/kortschak/vadr/coords"
	"github.com/kortschak/vadr/feature"
)

// requiredModelKeys and requiredFeatureKeys are the minimum keys
// BuildModel needs to construct a feature.Model; callers wanting a
// stricter contract should also call File.RequireKeys with their own
// superset before calling BuildModel. A feature must carry "coords"
// (the normal persisted form) or, at GenBank-import time before
// coords have been imputed, "location"; BuildModel checks for either
// (requireOwn checks only the keys listed here).
var (
	requiredModelKeys   = []string{"length"}
	requiredFeatureKeys = []string{"type"}
)

// BuildModel converts one parsed ModelRecord into a frozen
// feature.Model, running the full imputation pipeline (coords,
// length, parent_idx default, outname, 3pa_ftr_idx, boolean/
// alternative-set defaults) and the feature-table invariant validation,
// against reg's exception-key registry.
func (m *ModelRecord) BuildModel(reg *alert.Registry) (*feature.Model, error) {
	if err := m.requireOwn(); err != nil {
		return nil, err
	}
	lengthStr, _ := m.Get("length")
	length, err := strconv.Atoi(lengthStr)
	if err != nil {
		return nil, fmt.Errorf("minfo: model %s: bad length %q: %w", m.Name, lengthStr, err)
	}

	fm := feature.NewModel(m.Name, length)
	rawSubns := make(map[int]string)
	for _, ftr := range m.Features {
		if err := ftr.requireOwn(); err != nil {
			return nil, err
		}
		typ, _ := ftr.Get("type")
		var idx int
		skipKeys := map[string]bool{"type": true}
		if cs, ok := ftr.Get("coords"); ok {
			c, err := coords.Parse(cs)
			if err != nil {
				return nil, fmt.Errorf("minfo: model %s: bad coords %q: %w", m.Name, cs, err)
			}
			idx = fm.AddFeatureFromCoords(typ, c)
			skipKeys["coords"] = true
		} else if loc, ok := ftr.Get("location"); ok {
			idx = fm.AddFeatureFromLocation(typ, loc)
			skipKeys["location"] = true
		} else {
			return nil, fmt.Errorf("minfo: model %s: feature missing required key %q or %q", m.Name, "coords", "location")
		}
		f := fm.Features[idx]
		for _, k := range ftr.Keys {
			if skipKeys[k] {
				continue
			}
			if k == "alternative_ftr_set_subn" {
				rawSubns[idx] = ftr.Values[k]
				continue
			}
			if err := applyKey(f, k, ftr.Values[k], reg); err != nil {
				return nil, fmt.Errorf("minfo: model %s: feature %d: %w", m.Name, idx, err)
			}
		}
	}

	if err := fm.ImputeCoords(true); err != nil {
		return nil, fmt.Errorf("minfo: model %s: %w", m.Name, err)
	}
	if err := resolveSubstitutions(fm, rawSubns); err != nil {
		return nil, fmt.Errorf("minfo: model %s: %w", m.Name, err)
	}
	fm.InitDefaults(false)
	fm.ImputeOutnames(0)
	if err := fm.Impute3paFtrIdx(); err != nil {
		return nil, fmt.Errorf("minfo: model %s: %w", m.Name, err)
	}
	if err := imputeByOverlap(fm); err != nil {
		return nil, fmt.Errorf("minfo: model %s: %w", m.Name, err)
	}
	fm.DeriveSegments()
	if err := fm.Validate(); err != nil {
		return nil, fmt.Errorf("minfo: model %s: %w", m.Name, err)
	}
	if err := validateExceptions(fm, reg); err != nil {
		return nil, fmt.Errorf("minfo: model %s: %w", m.Name, err)
	}
	return fm, nil
}

// imputeByOverlap runs feature.Model.ImputeByOverlap for every
// (src, dst) qualifier pair a real .minfo file relies on a spanning
// feature to fill in: a "gene"
// feature's own gene qualifier is the usual source for a CDS or
// mat_peptide nested inside it that omits "gene" explicitly. Both
// calls are no-ops on a model with no "gene"-typed features, so this
// is safe to run unconditionally.
func imputeByOverlap(fm *feature.Model) error {
	if err := fm.ImputeByOverlap("gene", "gene", "CDS", "gene"); err != nil {
		return err
	}
	if err := fm.ImputeByOverlap("gene", "gene", "mat_peptide", "gene"); err != nil {
		return err
	}
	return nil
}

func (m *ModelRecord) requireOwn() error {
	for _, k := range requiredModelKeys {
		if _, ok := m.Get(k); !ok {
			return fmt.Errorf("minfo: model %s: missing required key %q", m.Name, k)
		}
	}
	return nil
}

func (f *FeatureRecord) requireOwn() error {
	for _, k := range requiredFeatureKeys {
		if _, ok := f.Get(k); !ok {
			return fmt.Errorf("minfo: model %s: feature missing required key %q", f.ModelName, k)
		}
	}
	return nil
}

// applyKey routes one parsed FEATURE key:"value" pair to the right
// place on f: the closed struct fields where one exists, the exception
// map for any "<...>_exc" key, and Extra otherwise.
func applyKey(f *feature.Feature, key, value string, reg *alert.Registry) error {
	switch key {
	case "parent_idx_str":
		if value == "none" {
			f.ParentIdx = feature.None
			return nil
		}
		idx, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parent_idx_str: %w", err)
		}
		f.ParentIdx = idx
	case "misc_not_failure":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		f.MiscNotFailure = b
	case "is_deletable":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		f.IsDeletable = b
	case "canon_splice_sites":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		f.CanonSpliceSites = b
	case "alternative_ftr_set":
		f.AlternativeFtrSet = value
	default:
		if strings.HasSuffix(key, "_exc") {
			if _, err := reg.ExcKind(key); err != nil {
				return err
			}
			f.Exceptions[key] = value
			return nil
		}
		f.Set(key, value)
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	switch value {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("%s: expected 0 or 1, got %q", key, value)
	}
}

// resolveSubstitutions resolves every feature's alternative_ftr_set_subn
// raw value: either a bare feature index, or the literal
// form "setname.k", the 1-based k-th member (in feature-index order)
// of the named alternative set.
func resolveSubstitutions(fm *feature.Model, raw map[int]string) error {
	members := make(map[string][]int)
	for i, f := range fm.Features {
		if f.AlternativeFtrSet != "" {
			members[f.AlternativeFtrSet] = append(members[f.AlternativeFtrSet], i)
		}
	}
	for idx, v := range raw {
		dot := strings.LastIndexByte(v, '.')
		if dot < 0 {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("feature %d: malformed alternative_ftr_set_subn %q", idx, v)
			}
			if n == idx {
				return fmt.Errorf("feature %d: alternative_ftr_set_subn refers to itself", idx)
			}
			fm.Features[idx].AlternativeFtrSetSubn = n
			continue
		}
		setName, kStr := v[:dot], v[dot+1:]
		k, err := strconv.Atoi(kStr)
		if err != nil || k < 1 {
			return fmt.Errorf("feature %d: malformed alternative_ftr_set_subn %q", idx, v)
		}
		idxs, ok := members[setName]
		if !ok || k > len(idxs) {
			return fmt.Errorf("feature %d: alternative_ftr_set_subn %q: set %q has no member %d", idx, v, setName, k)
		}
		resolved := idxs[k-1]
		if resolved == idx {
			return fmt.Errorf("feature %d: alternative_ftr_set_subn %q refers to itself", idx, v)
		}
		if fm.Features[idx].AlternativeFtrSet == setName {
			return fmt.Errorf("feature %d: alternative_ftr_set_subn %q must name a different set than its own", idx, v)
		}
		fm.Features[idx].AlternativeFtrSetSubn = resolved
	}
	return nil
}

// validateExceptions checks the "every *_exc key parses under its
// declared exc_type" invariant for every feature in fm.
func validateExceptions(fm *feature.Model, reg *alert.Registry) error {
	for _, f := range fm.Features {
		for key, value := range f.Exceptions {
			k, err := reg.ExcKind(key)
			if err != nil {
				return err
			}
			if _, err := alert.ExceptionSegments(value, k.ExcType); err != nil {
				return fmt.Errorf("feature %s: %w", f.Outname, err)
			}
		}
	}
	return nil
}
