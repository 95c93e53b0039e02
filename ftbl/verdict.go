// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ftbl turns a sequence's projected feature set and raised
// alerts into the final pass/fail verdict and the two database
// submission formats: VADR's native 5-column feature table and, as
// additive tooling, a GFF3 view through biogo's featio/gff package.
package ftbl

import (
	"github.com/kortschak/vadr/alert"
	"github.com/kortschak/vadr/feature"
)

// RaisedAlert is one alert instance raised against a sequence or one
// of its projected features. FeatureIdx is feature.None for
// sequence-level (per_type=sequence) alerts.
type RaisedAlert struct {
	Code       string
	FeatureIdx int
}

// Verdict is the outcome of applying the pass/fail and
// annotation-suppression rules to one sequence's raised alerts.
type Verdict struct {
	Pass                 bool
	AnnotationSuppressed bool
	// Visible holds the alerts that survive ftbl_invalid_by
	// suppression, in raised order; this is what the feature table
	// reports. Raw holds every alert as raised, unsuppressed.
	Visible []RaisedAlert
	Raw     []RaisedAlert
}

// Evaluate applies the failure rules: a sequence fails iff it carries at least one
// alert whose effective causes_failure is true (after misc_not_failure
// demotion); its annotation is suppressed iff it carries at least one
// alert with prevents_annot; the feature-table view further hides any
// alert present in another raised alert's ftbl_invalid_by set.
func Evaluate(reg *alert.Registry, model *feature.Model, raised []RaisedAlert) (Verdict, error) {
	v := Verdict{Raw: raised, Pass: true}

	raisedCodes := make(map[string]bool, len(raised))
	for _, r := range raised {
		raisedCodes[r.Code] = true
	}

	for _, r := range raised {
		k, err := reg.Kind(r.Code)
		if err != nil {
			return Verdict{}, err
		}
		miscNotFailure := r.FeatureIdx != feature.None && model.Features[r.FeatureIdx].MiscNotFailure
		fails, err := reg.FeatureAlertCausesFailure(r.Code, miscNotFailure)
		if err != nil {
			return Verdict{}, err
		}
		if fails {
			v.Pass = false
		}
		if k.PreventsAnnot {
			v.AnnotationSuppressed = true
		}

		hidden := false
		for inv := range k.FtblInvalidBy {
			if raisedCodes[inv] {
				hidden = true
				break
			}
		}
		if !hidden {
			v.Visible = append(v.Visible, r)
		}
	}
	return v, nil
}
