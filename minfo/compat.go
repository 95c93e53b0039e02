// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minfo

import (
	"regexp"
	"strings"

	"github.com/kortschak/vadr/coords"
)

// renamedExcKeys maps exception keys used by older .minfo files to
// their current names.
var renamedExcKeys = map[string]string{
	"indfstrn_exc":   "indfstr_exc",
	"frameshift_exc": "fst_exc",
}

// legacyPosValueKeys carried "pos:value" tokens (a single position,
// not a segment) before the coords-value segment grammar existed.
// The "x*" members carry a protein (amino-acid) position and are
// converted to a nucleotide segment via the protein-relative to
// nucleotide-absolute conversion, composed against the feature's own
// coords; the "n*" members already carry a nucleotide position and
// need only the pos:value -> pos..pos:+:value segment rewrite.
var legacyPosValueKeys = map[string]bool{
	"nmaxins_exc": true,
	"nmaxdel_exc": true,
	"xmaxins_exc": true,
	"xmaxdel_exc": true,
}

var legacyProteinPosValueKeys = map[string]bool{
	"xmaxins_exc": true,
	"xmaxdel_exc": true,
}

var legacyPosValueTok = regexp.MustCompile(`^(\d+):(.+)$`)

// Upgrade rewrites a file's keys and exception values in place to the
// current grammar, so that an older .minfo file parses and imputes
// identically to a current one. It is applied once, immediately after
// Read, before any required-key checks.
func Upgrade(f *File) {
	for _, m := range f.Models {
		upgradeValues(m.Keys, m.Values, nil)
		for _, ftr := range m.Features {
			upgradeValues(ftr.Keys, ftr.Values, featureCoords(ftr))
		}
	}
}

// featureCoords recovers a feature record's own coords, from whichever
// of "coords" (the persisted form) or "location" (the GenBank-syntax
// import form) it carries, for use as the "abs" sequence in
// legacy x*_exc protein-position conversion. It returns nil if neither
// key is present or parses, in which case the legacy x* token is left
// as a plain nucleotide-style segment rather than failing the upgrade
// pass outright.
func featureCoords(ftr *FeatureRecord) coords.Coords {
	if v, ok := ftr.Get("coords"); ok {
		if cs, err := coords.Parse(v); err == nil {
			return cs
		}
	}
	if v, ok := ftr.Get("location"); ok {
		if cs, err := coords.FromLocation(v, true); err == nil {
			return cs
		}
	}
	return nil
}

func upgradeValues(keys []string, values map[string]string, abs coords.Coords) {
	for i, k := range keys {
		v := values[k]
		if strings.HasSuffix(k, "_exc") {
			v = strings.ReplaceAll(v, ";", ",")
		}
		if legacyPosValueKeys[k] {
			v = upgradeLegacyPosValue(v, legacyProteinPosValueKeys[k], abs)
		}
		values[k] = v

		if newKey, ok := renamedExcKeys[k]; ok {
			values[newKey] = values[k]
			delete(values, k)
			keys[i] = newKey
		}
	}
}

// upgradeLegacyPosValue rewrites each comma-separated "pos:value"
// token into the modern coords-value segment form. Nucleotide tokens
// become the single-position segment "pos..pos:+:value"; protein
// tokens are first composed into a nucleotide-absolute segment via
// coords.ProtRelToNucAbs against abs (the feature's own coords) when
// abs is available, falling back to the nucleotide-style rewrite
// otherwise (see featureCoords).
func upgradeLegacyPosValue(v string, protein bool, abs coords.Coords) string {
	toks := strings.Split(v, ",")
	for i, tok := range toks {
		m := legacyPosValueTok.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		pos, val := m[1], m[2]
		if protein && abs != nil {
			if segs, ok := upgradeProteinPosValue(pos, abs); ok {
				parts := make([]string, len(segs))
				for j, seg := range segs {
					parts[j] = seg.String() + ":" + val
				}
				toks[i] = strings.Join(parts, ",")
				continue
			}
		}
		toks[i] = pos + ".." + pos + ":+:" + val
	}
	return strings.Join(toks, ",")
}

// upgradeProteinPosValue converts a single legacy protein position
// into its nucleotide-absolute segment(s) within abs (more than one
// when the position falls across a splice junction).
func upgradeProteinPosValue(pos string, abs coords.Coords) (coords.Coords, bool) {
	n := 0
	for _, r := range pos {
		if r < '0' || r > '9' {
			return nil, false
		}
		n = n*10 + int(r-'0')
	}
	protRel := coords.Coords{{Start: n, Stop: n, Strand: coords.Plus}}
	ntAbs, err := coords.ProtRelToNucAbs(abs, protRel)
	if err != nil || len(ntAbs) == 0 {
		return nil, false
	}
	return ntAbs, true
}
