// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minfo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kortschak/vadr/alert"
	"github.com/kortschak/vadr/feature"
)

func defaultRegistry(t *testing.T) *alert.Registry {
	t.Helper()
	reg, err := alert.NewDefaultRegistry()
	require.NoError(t, err)
	return reg
}

func TestBuildModelFromCoords(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	m, err := f.Models[0].BuildModel(defaultRegistry(t))
	require.NoError(t, err)
	require.Equal(t, "NC_001477", m.Name)
	require.Equal(t, 10735, m.Length)
	require.Len(t, m.Features, 2)
	require.Equal(t, "CDS", m.Features[0].Type)
	require.Equal(t, 95, m.Features[0].Coords[0].Start)
	require.Equal(t, 10366, m.Features[0].Coords[0].Stop)
	require.Equal(t, "POLY", m.Features[0].Gene)
}

func TestBuildModelFromLocation(t *testing.T) {
	src := `MODEL m length:"1100"
FEATURE m type:"5'UTR" location:"1..59"
FEATURE m type:"CDS" location:"60..1016" gene:"X"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)

	m, err := f.Models[0].BuildModel(defaultRegistry(t))
	require.NoError(t, err)
	require.Len(t, m.Features, 2)
	require.Equal(t, 60, m.Features[1].Coords[0].Start)
	require.Equal(t, 1016, m.Features[1].Coords[0].Stop)
}

func TestBuildModelMissingCoordsOrLocation(t *testing.T) {
	src := `MODEL m length:"1000"
FEATURE m type:"CDS" gene:"X"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	_, err = f.Models[0].BuildModel(defaultRegistry(t))
	require.Error(t, err)
}

func TestBuildModelAlternativeFtrSetSubnBareIndex(t *testing.T) {
	src := `MODEL m length:"1000"
FEATURE m type:"CDS" coords:"1..300:+" alternative_ftr_set:"orf1" alternative_ftr_set_subn:"2"
FEATURE m type:"CDS" coords:"301..600:+" alternative_ftr_set:"orf1"
FEATURE m type:"CDS" coords:"1..600:+" alternative_ftr_set:"orf1ab"
FEATURE m type:"CDS" coords:"601..900:+" alternative_ftr_set:"orf1ab"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	m, err := f.Models[0].BuildModel(defaultRegistry(t))
	require.NoError(t, err)
	require.Equal(t, 2, m.Features[0].AlternativeFtrSetSubn)
	require.Equal(t, feature.None, m.Features[1].AlternativeFtrSetSubn)
}

func TestBuildModelAlternativeFtrSetSubnLiteral(t *testing.T) {
	src := `MODEL m length:"1000"
FEATURE m type:"mat_peptide" coords:"1..100:+" alternative_ftr_set:"pep"
FEATURE m type:"mat_peptide" coords:"101..200:+" alternative_ftr_set:"pep"
FEATURE m type:"CDS" coords:"1..200:+" alternative_ftr_set:"orf" alternative_ftr_set_subn:"pep.2"
FEATURE m type:"CDS" coords:"201..400:+" alternative_ftr_set:"orf"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	m, err := f.Models[0].BuildModel(defaultRegistry(t))
	require.NoError(t, err)
	require.Equal(t, 1, m.Features[2].AlternativeFtrSetSubn)
}

func TestBuildModelAlternativeFtrSetSubnSelfReferenceFails(t *testing.T) {
	src := `MODEL m length:"1000"
FEATURE m type:"CDS" coords:"1..300:+" alternative_ftr_set:"orf1" alternative_ftr_set_subn:"0"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	_, err = f.Models[0].BuildModel(defaultRegistry(t))
	require.Error(t, err)
}

func TestBuildModelExceptionValidatesAgainstRegistry(t *testing.T) {
	src := `MODEL m length:"1000"
FEATURE m type:"CDS" coords:"1..300:+" indf5gap_exc:"1..3:+"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	m, err := f.Models[0].BuildModel(defaultRegistry(t))
	require.NoError(t, err)
	require.Equal(t, "1..3:+", m.Features[0].Exceptions["indf5gap_exc"])
}

func TestBuildModelUnknownExceptionKeyFails(t *testing.T) {
	src := `MODEL m length:"1000"
FEATURE m type:"CDS" coords:"1..300:+" bogus_exc:"1..3:+"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	_, err = f.Models[0].BuildModel(defaultRegistry(t))
	require.Error(t, err)
}

func TestBuildModelMalformedExceptionValueFails(t *testing.T) {
	src := `MODEL m length:"1000"
FEATURE m type:"CDS" coords:"1..300:+" indf5gap_exc:"not-a-coords-value"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	_, err = f.Models[0].BuildModel(defaultRegistry(t))
	require.Error(t, err)
}

func TestBuildModelBadLengthFails(t *testing.T) {
	src := `MODEL m length:"notanumber"
FEATURE m type:"CDS" coords:"1..300:+"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	_, err = f.Models[0].BuildModel(defaultRegistry(t))
	require.Error(t, err)
}

func TestBuildModelParentIdxNoneAndExplicit(t *testing.T) {
	src := `MODEL m length:"1000"
FEATURE m type:"gene" coords:"1..300:+" parent_idx_str:"none"
FEATURE m type:"CDS" coords:"1..300:+" parent_idx_str:"0"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	m, err := f.Models[0].BuildModel(defaultRegistry(t))
	require.NoError(t, err)
	require.Equal(t, feature.None, m.Features[0].ParentIdx)
	require.Equal(t, 0, m.Features[1].ParentIdx)
}

func TestBuildModelBooleanFlags(t *testing.T) {
	src := `MODEL m length:"1000"
FEATURE m type:"CDS" coords:"1..300:+" misc_not_failure:"1" is_deletable:"0" canon_splice_sites:"1"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	m, err := f.Models[0].BuildModel(defaultRegistry(t))
	require.NoError(t, err)
	require.True(t, m.Features[0].MiscNotFailure)
	require.False(t, m.Features[0].IsDeletable)
	require.True(t, m.Features[0].CanonSpliceSites)
}

func TestBuildModelImputesGeneByOverlap(t *testing.T) {
	src := `MODEL m length:"1000"
FEATURE m type:"gene" coords:"1..300:+" gene:"X"
FEATURE m type:"CDS" coords:"10..200:+"
FEATURE m type:"mat_peptide" coords:"10..100:+"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	m, err := f.Models[0].BuildModel(defaultRegistry(t))
	require.NoError(t, err)
	require.Equal(t, "X", m.Features[1].Gene)
	require.Equal(t, "X", m.Features[2].Gene)
}

func TestBuildModelBadBooleanFlagFails(t *testing.T) {
	src := `MODEL m length:"1000"
FEATURE m type:"CDS" coords:"1..300:+" misc_not_failure:"yes"
`
	f, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	_, err = f.Models[0].BuildModel(defaultRegistry(t))
	require.Error(t, err)
}
