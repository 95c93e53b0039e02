// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package feature holds the per-model feature table and its segment
// derivation: imputation, the parent/child and alternative-feature-set
// invariants, and the pure query functions built on top of them.
package feature

import (
	"fmt"

	"github.com/kortschak/vadr/coords"
)

// None marks an unset feature index (parent_idx, 3pa_ftr_idx, subn).
const None = -1

// Feature is a single annotated region on a reference model.
type Feature struct {
	Type   string
	Coords coords.Coords
	Length int

	ParentIdx int // None if no parent

	Product string
	Gene    string
	Note    string
	// Extra carries free-form GenBank qualifiers not named explicitly
	// above (design note: closed fields typed, open set kept as a map).
	Extra map[string]string

	Outname string

	ThreePAFtrIdx int // None if not applicable/found

	FivePSgmIdx, ThreePSgmIdx int // inclusive segment index range, set by DeriveSegments

	MiscNotFailure bool
	IsDeletable    bool

	AlternativeFtrSet     string
	AlternativeFtrSetSubn int // resolved feature index, None if unset

	CanonSpliceSites bool

	// Exceptions holds alert-specific exception values keyed by the
	// full "<alertkey>_exc" field name.
	Exceptions map[string]string
}

// newFeature returns a Feature with all index fields defaulted to
// None, per the imputation pipeline's step 3 and step 7.
func newFeature() *Feature {
	return &Feature{
		ParentIdx:             None,
		ThreePAFtrIdx:         None,
		FivePSgmIdx:           None,
		ThreePSgmIdx:          None,
		AlternativeFtrSetSubn: None,
		Extra:                 make(map[string]string),
		Exceptions:            make(map[string]string),
	}
}

// Segment is one span of a feature's coords, with its derived
// membership and boundary flags.
type Segment struct {
	Start, Stop int
	Strand      coords.Strand
	Feature     int // index into Model.Features
	Is5p, Is3p  bool
}

// Model is a reference model's feature table: loaded once, imputed and
// validated, then frozen for the remainder of the process.
type Model struct {
	Name   string
	Length int

	Features []*Feature
	Segments []Segment // set by DeriveSegments

	location map[int]string // feature index -> raw GenBank location, consumed by ImputeCoords
}

// NewModel returns an empty model ready to receive features.
func NewModel(name string, length int) *Model {
	return &Model{
		Name:     name,
		Length:   length,
		location: make(map[int]string),
	}
}

// AddFeatureFromLocation appends a new feature with the given type and
// raw GenBank location, returning its index. Coords/Length are filled
// in by ImputeCoords.
func (m *Model) AddFeatureFromLocation(typ, location string) int {
	f := newFeature()
	f.Type = typ
	idx := len(m.Features)
	m.Features = append(m.Features, f)
	m.location[idx] = location
	return idx
}

// AddFeatureFromCoords appends a new feature whose coords are already
// in native coords-string form (as opposed to a raw GenBank
// location), for model-info files that persist "coords" directly
// rather than "location" (the writer treats "location" as derived
// and omits it, but keeps "coords" as the normal serialized form).
func (m *Model) AddFeatureFromCoords(typ string, cs coords.Coords) int {
	f := newFeature()
	f.Type = typ
	f.Coords = cs
	f.Length = cs.Length()
	idx := len(m.Features)
	m.Features = append(m.Features, f)
	return idx
}

// AddFeature appends an already-built feature, returning its index.
func (m *Model) AddFeature(f *Feature) int {
	idx := len(m.Features)
	m.Features = append(m.Features, f)
	return idx
}

func typeIsCDS(t string) bool { return t == "CDS" }

// TypeIsCDS reports whether t is the CDS feature type.
func TypeIsCDS(t string) bool { return typeIsCDS(t) }

// TypeIsMatPeptide reports whether t is the mat_peptide feature type.
func TypeIsMatPeptide(t string) bool { return t == "mat_peptide" }

// TypeIsCDSOrMatPeptideOrIdStartStop reports whether t is one of the
// feature types whose start/stop codons participate in classification.
func TypeIsCDSOrMatPeptideOrIdStartStop(t string) bool {
	return typeIsCDS(t) || TypeIsMatPeptide(t) || t == "idStartStop"
}

func (m *Model) feature(idx int) (*Feature, error) {
	if idx < 0 || idx >= len(m.Features) {
		return nil, fmt.Errorf("feature: index %d out of range [0,%d)", idx, len(m.Features))
	}
	return m.Features[idx], nil
}
