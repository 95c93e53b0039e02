// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coords

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Coords {
	t.Helper()
	cs, err := Parse(s)
	require.NoError(t, err)
	return cs
}

func TestParseString(t *testing.T) {
	for _, s := range []string{
		"1..200:+",
		"<1..>200:+",
		"200..1:-",
		"11..40:+,42..101:+",
	} {
		cs := mustParse(t, s)
		require.Equal(t, s, cs.String())
	}
}

func TestValidate(t *testing.T) {
	require.True(t, Validate("1..200:+"))
	require.False(t, Validate("1..200"))
	require.False(t, Validate(""))
	require.False(t, Validate("0..5:+"))
}

func TestRevCompInvolution(t *testing.T) {
	for _, s := range []string{"1..200:+", "<1..>200:+", "200..1:-", "11..40:+,42..101:+"} {
		cs := mustParse(t, s)
		require.Equal(t, cs, RevComp(RevComp(cs)))
		require.Equal(t, cs.Length(), RevComp(cs).Length())
	}
}

func TestFromLocationScenario1(t *testing.T) {
	cs, err := FromLocation("join(complement(300..>400),<1..>200)", true)
	require.NoError(t, err)
	require.Equal(t, "<400..300:-,<1..>200:+", cs.String())

	cs, err = FromLocation("join(complement(300..>400),<1..>200)", false)
	require.NoError(t, err)
	require.Equal(t, "400..300:-,1..200:+", cs.String())
}

func TestRelToAbsScenario2(t *testing.T) {
	abs := mustParse(t, "11..40:+,42..101:+")
	// Protein-relative 2..3,5..11 composed to nucleotide-relative first.
	protRel := mustParse(t, "2..3:+,5..11:+")
	got, err := ProtRelToNucAbs(abs, protRel)
	require.NoError(t, err)
	require.Equal(t, "14..19:+,23..40:+,42..44:+", got.String())
}

func TestRelToAbsSingle(t *testing.T) {
	abs := mustParse(t, "11..40:+,42..101:+")
	for i := 1; i <= abs.Length(); i++ {
		_, err := RelSingleToAbs(abs, i, Plus)
		require.NoError(t, err)
	}
}

func TestOverlap(t *testing.T) {
	a := Coord{Start: 10, Stop: 20, Strand: Plus}
	b := Coord{Start: 15, Stop: 25, Strand: Plus}
	n, ov, ok := Overlap(a, b)
	require.True(t, ok)
	require.Equal(t, 6, n)
	require.Equal(t, Coord{Start: 15, Stop: 20, Strand: Plus}, ov)

	n2, _, ok2 := Overlap(a, b)
	n1, _, ok1 := Overlap(b, a)
	require.Equal(t, ok1, ok2)
	require.Equal(t, n1, n2)

	diffStrand := Coord{Start: 15, Stop: 25, Strand: Minus}
	_, _, ok = Overlap(a, diffStrand)
	require.False(t, ok)
}

func TestSpans(t *testing.T) {
	a := mustParse(t, "1..100:+")
	b := mustParse(t, "10..20:+,30..40:+")
	require.True(t, Spans(a, b))

	c := mustParse(t, "1..15:+")
	require.False(t, Spans(c, b))
}

func TestMergeAllIdempotentAndLengthPreserving(t *testing.T) {
	cs := mustParse(t, "1..10:+,11..20:+,25..30:+")
	merged := MergeAll(cs)
	require.Equal(t, "1..20:+,25..30:+", merged.String())
	require.Equal(t, cs.Length(), merged.Length())
	require.Equal(t, merged, MergeAll(merged))
}

func TestMissing(t *testing.T) {
	cs := mustParse(t, "10..20:+,30..40:+")
	miss, err := Missing(cs, Plus, 50)
	require.NoError(t, err)
	require.Equal(t, "1..9:+,21..29:+,41..50:+", miss.String())
}

func TestFracRoundTrip(t *testing.T) {
	full := Coord{Start: 1, Stop: 101, Strand: Plus}
	sub := Coord{Start: 11, Stop: 51, Strand: Plus}
	fs, fe, ok := ActualToFrac(full, sub)
	require.True(t, ok)
	back := FracToActual(full, fs, fe)
	require.Equal(t, sub, back)
}

func TestMaxLengthSegmentTiebreak(t *testing.T) {
	cs := mustParse(t, "1..5:+,10..14:+,20..24:+")
	seg, l := MaxLengthSegment(cs)
	require.Equal(t, 5, l)
	require.Equal(t, cs[0], seg)
}

func TestFromTriples(t *testing.T) {
	cs, err := FromTriples([]int{1, 10}, []int{5, 20}, []Strand{Plus, Plus})
	require.NoError(t, err)
	require.Equal(t, "1..5:+,10..20:+", cs.String())

	_, err = FromTriples([]int{1}, []int{5, 20}, []Strand{Plus, Plus})
	require.Error(t, err)
}
