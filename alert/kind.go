// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alert holds the static alert-kind registry: the catalog of
// anomaly codes the annotation pipeline can raise against a query
// sequence or one of its features, their fatality and exception
// semantics, and the invalidation relation between codes in the final
// feature table.
package alert

import "fmt"

// PerType is the record kind an alert kind applies to.
type PerType int

const (
	// Sequence alerts apply to the whole query sequence.
	Sequence PerType = iota
	// Feature alerts apply to one annotated feature.
	Feature
)

func (t PerType) String() string {
	if t == Sequence {
		return "sequence"
	}
	return "feature"
}

// ExcType is the exception value grammar accepted for a Kind's
// exc_key.
type ExcType int

const (
	// NoExc means the kind accepts no exceptions.
	NoExc ExcType = iota
	// CoordsOnly exceptions are a bare coords string.
	CoordsOnly
	// CoordsValue exceptions are segment:value tokens.
	CoordsValue
)

// Kind is one entry in the alert registry.
type Kind struct {
	Code      string
	PerType   PerType
	ShortDesc string
	LongDesc  string

	AlwaysFails    bool
	CausesFailure  bool
	PreventsAnnot  bool
	MiscNotFailure bool

	ExcKey  string
	ExcType ExcType

	// FtblInvalidBy is the set of other codes whose presence hides
	// this one in feature-table output.
	FtblInvalidBy map[string]bool

	order int
}

// Order is the position this kind was added to the registry, used to
// give a deterministic default presentation order.
func (k *Kind) Order() int { return k.order }

// validate checks the invariants internal to one kind,
// independent of the rest of the registry.
func (k *Kind) validate() error {
	if k.AlwaysFails && !k.CausesFailure {
		return fmt.Errorf("alert: %s: always_fails requires causes_failure", k.Code)
	}
	if k.AlwaysFails && k.MiscNotFailure {
		return fmt.Errorf("alert: %s: always_fails precludes misc_not_failure", k.Code)
	}
	if k.PreventsAnnot && k.PerType != Sequence {
		return fmt.Errorf("alert: %s: prevents_annot only legal for per_type=sequence", k.Code)
	}
	if k.MiscNotFailure && k.PerType != Feature {
		return fmt.Errorf("alert: %s: misc_not_failure only legal for per_type=feature", k.Code)
	}
	if k.ExcKey != "" && k.ExcType == NoExc {
		return fmt.Errorf("alert: %s: exc_key set without an exc_type", k.Code)
	}
	return nil
}
