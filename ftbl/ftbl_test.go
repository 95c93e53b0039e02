// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ftbl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kortschak/vadr/alert"
	"github.com/kortschak/vadr/feature"
)

func newTestModel(t *testing.T) *feature.Model {
	t.Helper()
	m := feature.NewModel("test", 1100)
	m.AddFeatureFromLocation("5'UTR", "1..59")
	m.AddFeatureFromLocation("CDS", "60..1016")
	require.NoError(t, m.ImputeCoords(true))
	m.ImputeOutnames(0)
	return m
}

// TestEvaluateInvalidation: mutendcd is
// invalidated by cdsstopn in the feature-table view, but both remain
// in the raw alert list.
func TestEvaluateInvalidation(t *testing.T) {
	reg, err := alert.NewDefaultRegistry()
	require.NoError(t, err)
	m := newTestModel(t)

	raised := []RaisedAlert{
		{Code: "mutendcd", FeatureIdx: 1},
		{Code: "cdsstopn", FeatureIdx: 1},
	}
	v, err := Evaluate(reg, m, raised)
	require.NoError(t, err)
	require.False(t, v.Pass)
	require.Len(t, v.Raw, 2)
	require.Len(t, v.Visible, 1)
	require.Equal(t, "cdsstopn", v.Visible[0].Code)
}

func TestEvaluatePassesWithNoAlerts(t *testing.T) {
	reg, err := alert.NewDefaultRegistry()
	require.NoError(t, err)
	m := newTestModel(t)
	v, err := Evaluate(reg, m, nil)
	require.NoError(t, err)
	require.True(t, v.Pass)
	require.False(t, v.AnnotationSuppressed)
}

func TestEvaluateMiscNotFailureDemotion(t *testing.T) {
	reg, err := alert.NewDefaultRegistry()
	require.NoError(t, err)
	m := newTestModel(t)
	m.Features[1].MiscNotFailure = true

	k, err := reg.Kind("mutendcd")
	require.NoError(t, err)
	require.False(t, k.MiscNotFailure, "mutendcd is not demotable by default")

	// mutendcd isn't misc_not_failure-eligible in the default catalog,
	// so the feature's misc_not_failure flag does not demote it and the
	// sequence still fails.
	v, err := Evaluate(reg, m, []RaisedAlert{{Code: "mutendcd", FeatureIdx: 1}})
	require.NoError(t, err)
	require.False(t, v.Pass)
}

func TestWriteFeatureTable(t *testing.T) {
	m := newTestModel(t)
	var buf bytes.Buffer
	err := WriteFeatureTable(&buf, "seq1", m, nil)
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, ">Feature seq1\n")
	require.Contains(t, out, "1\t59\t5'UTR\n")
	require.Contains(t, out, "60\t1016\tCDS\n")
}

func TestWriteFeatureTableSkip(t *testing.T) {
	m := newTestModel(t)
	var buf bytes.Buffer
	err := WriteFeatureTable(&buf, "seq1", m, func(i int) bool { return i == 1 })
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "CDS")
}

func TestWriteGFF(t *testing.T) {
	m := newTestModel(t)
	var buf bytes.Buffer
	err := WriteGFF(&buf, "vadr", "seq1", m, nil)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "seq1")
	require.Contains(t, buf.String(), "CDS")
}
