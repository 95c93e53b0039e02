// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryBuilds(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)
	require.NotEmpty(t, r.Codes())

	k, err := r.Kind("cdsstopn")
	require.NoError(t, err)
	require.True(t, k.CausesFailure)
}

func TestAddDuplicateCode(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(Kind{Code: "x", PerType: Sequence}))
	require.Error(t, r.Add(Kind{Code: "x", PerType: Sequence}))
}

func TestInvariantAlwaysFails(t *testing.T) {
	r := NewRegistry()
	err := r.Add(Kind{Code: "x", PerType: Sequence, AlwaysFails: true, CausesFailure: false})
	require.Error(t, err)
}

func TestInvariantPreventsAnnot(t *testing.T) {
	r := NewRegistry()
	err := r.Add(Kind{Code: "x", PerType: Feature, PreventsAnnot: true})
	require.Error(t, err)
}

func TestSetInvalidatedByRequiresFatalInvalidator(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(Kind{Code: "a", PerType: Feature, CausesFailure: false}))
	require.NoError(t, r.Add(Kind{Code: "b", PerType: Feature, CausesFailure: false}))
	require.Error(t, r.SetInvalidatedBy("a", []string{"b"}))

	require.NoError(t, r.SetCausesFailure("b", true))
	require.NoError(t, r.SetInvalidatedBy("a", []string{"b"}))
}

func TestSetInvalidatedByRejectsCycle(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(Kind{Code: "a", PerType: Feature, CausesFailure: true}))
	require.NoError(t, r.Add(Kind{Code: "b", PerType: Feature, CausesFailure: true}))
	require.NoError(t, r.SetInvalidatedBy("a", []string{"b"}))
	require.Error(t, r.SetInvalidatedBy("b", []string{"a"}))
}

func TestFeatureAlertCausesFailure(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(Kind{Code: "a", PerType: Feature, CausesFailure: true, MiscNotFailure: true}))

	ok, err := r.FeatureAlertCausesFailure("a", false)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.FeatureAlertCausesFailure("a", true)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestExceptionSegmentsCoordsOnly(t *testing.T) {
	excs, err := ExceptionSegments("1..10:+,20..30:+", CoordsOnly)
	require.NoError(t, err)
	require.Len(t, excs, 2)

	pos := ExceptionPositions(excs)
	require.Len(t, pos, 21)
	require.Contains(t, pos, 5)
	require.Contains(t, pos, 25)
}

func TestExceptionSegmentsCoordsValue(t *testing.T) {
	excs, err := ExceptionSegments("11..13:+:36,20..22:+:12", CoordsValue)
	require.NoError(t, err)
	require.Len(t, excs, 2)
	require.Equal(t, "36", excs[0].Value)

	pos := ExceptionPositions(excs)
	require.Equal(t, "36", pos[12])
	require.Equal(t, "12", pos[21])
}

func TestExceptionSegmentsCoordsValueOverlapRejected(t *testing.T) {
	_, err := ExceptionSegments("11..20:+:1,15..25:+:2", CoordsValue)
	require.Error(t, err)
}
