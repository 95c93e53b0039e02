// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alignpost

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInsertRoundTrip(t *testing.T) {
	const doc = `NC_001477 10735
seq1 100 1 100
seq2 120 1 100  50 101 20
//
`
	f, err := ParseInsert(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 10735, f.Models["NC_001477"])
	require.Len(t, f.Records, 2)
	require.Equal(t, "seq2", f.Records[1].SeqName)
	require.Equal(t, []InsertToken{{MdlPosAfter: 50, UASeqPos: 101, Len: 20}}, f.Records[1].Ins)

	var buf bytes.Buffer
	require.NoError(t, WriteInsert(&buf, Model{Name: "NC_001477", Len: 10735}, f.Records))
	require.Contains(t, buf.String(), "seq2 120 1 100  50 101 20")
	require.True(t, strings.HasSuffix(strings.TrimRight(buf.String(), "\n"), "//"))
}

func TestParseInsertRejectsModelLengthConflict(t *testing.T) {
	const doc = `m 100
m 200
seq1 10 1 10
//
`
	_, err := ParseInsert(strings.NewReader(doc))
	require.Error(t, err)
}

func TestParseInsertRequiresTerminator(t *testing.T) {
	_, err := ParseInsert(strings.NewReader("m 100\nseq1 10 1 10\n"))
	require.Error(t, err)
}

func TestParseCigar(t *testing.T) {
	ops, err := ParseCigar("5M2D3M")
	require.NoError(t, err)
	require.Equal(t, []CigarOp{{5, 'M'}, {2, 'D'}, {3, 'M'}}, ops)

	_, err = ParseCigar("5M2X")
	require.Error(t, err)
}

func TestDecodeCigarInsertFromDeletion(t *testing.T) {
	// 5 match, a 2nt insertion in the query (D consumes sequence only),
	// 3 more match: model length 8, sequence length 10.
	ops, err := ParseCigar("5M2D3M")
	require.NoError(t, err)
	ins, err := DecodeCigar(ops, 8, 10)
	require.NoError(t, err)
	require.Equal(t, []InsertToken{{MdlPosAfter: 5, UASeqPos: 6, Len: 2}}, ins)

	_, err = DecodeCigar(ops, 8, 9)
	require.Error(t, err)
}

func TestBuildPosMap(t *testing.T) {
	ops, err := ParseCigar("3M1I2M")
	require.NoError(t, err)
	// model len 6, seq len 5 (I consumes model only).
	m, err := BuildPosMap(ops, 6, 5)
	require.NoError(t, err)
	require.Equal(t, 1, m[1])
	require.Equal(t, 3, m[3])
	require.Equal(t, -3, m[4]) // gap at model pos 4, last seq pos seen was 3
	require.Equal(t, 4, m[5])
	require.Equal(t, 5, m[6])
}

func TestUpdateInsertToken(t *testing.T) {
	s := "10:20:3;15:25:1;"
	out, err := UpdateInsertToken(s, InsertToken{10, 20, 3}, InsertToken{10, 20, 5})
	require.NoError(t, err)
	require.Equal(t, "10:20:5;15:25:1;", out)

	_, err = UpdateInsertToken(s, InsertToken{99, 99, 99}, InsertToken{})
	require.Error(t, err)
}

func TestUpdateInsertTokenAmbiguous(t *testing.T) {
	s := "10:20:3;10:20:4;"
	_, err := UpdateInsertToken(s, InsertToken{10, 20, 0}, InsertToken{})
	require.Error(t, err)
}

func TestDecodePairwise(t *testing.T) {
	const doc = `# pairwise v1
QUERY seq1
ALGO banded
CIGAR 3M1D3M 7
QALN ACGTTTT
TALN ACG-TTT
QUERY seq2
CIGAR 6M 6
QALN ACGTTT
TALN ACGTTT
//
`
	recs, err := DecodePairwise(strings.NewReader(doc), "ref", "NNNNNNN", 6)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "seq1", recs[0].Query)
	require.Contains(t, recs[0].Stockholm, "ref")
	require.Contains(t, recs[0].Stockholm, ".")
}

func TestBuildPairwiseStockholmPadding(t *testing.T) {
	// One position of 5' padding on the query row; target trimmed
	// symmetrically and re-extended from the reference.
	stk, err := buildPairwiseStockholm("seq1", " ACGTTT", "NCG-TTT", "ref", "XNNNNNNN")
	require.NoError(t, err)
	require.Contains(t, stk, "seq1\t-ACGTTT")
	require.Contains(t, stk, "ref\tXCG.TTT")
}

func TestMergeStockholmAndDeriveAFA(t *testing.T) {
	shardA := "# STOCKHOLM 1.0\nseq1 ACGT\n//\n"
	shardB := "# STOCKHOLM 1.0\nseq2 AC-T\n//\n"
	merged, err := MergeStockholm([]string{shardA, shardB}, "....")
	require.NoError(t, err)
	require.Contains(t, merged, "#=GC RF ....")
	require.Equal(t, 1, strings.Count(merged, "//"))

	afa, err := DeriveAFA(merged)
	require.NoError(t, err)
	require.Contains(t, afa, ">seq1\nACGT\n")
	require.Contains(t, afa, ">seq2\nAC-T\n")
}
