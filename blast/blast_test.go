// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlastxBuildCommandRequiresQueryAndSubject(t *testing.T) {
	_, err := Blastx{Subject: "ref.fa"}.BuildCommand()
	require.Error(t, err)

	_, err = Blastx{Query: "seq.fa"}.BuildCommand()
	require.Error(t, err)
}

func TestBlastxBuildCommand(t *testing.T) {
	x := Blastx{
		Query:     "seq.fa",
		Subject:   "ref.fa",
		OutFormat: 6,
		Threads:   4,
	}
	cmd, err := x.BuildCommand()
	require.NoError(t, err)
	require.Equal(t, "blastx", cmd.Args[0])
	require.Contains(t, cmd.Args, "-query")
	require.Contains(t, cmd.Args, "seq.fa")
	require.Contains(t, cmd.Args, "-subject")
	require.Contains(t, cmd.Args, "ref.fa")
	require.Contains(t, cmd.Args, "-num_threads")
}

func TestParseTabular(t *testing.T) {
	const out = `# BLASTX 2.10.0+
# Query: seq1
q1	p1	98.500	120	2	0	1	360	1	120	1e-70	220.0
q1	p2	50.000	10	5	0	100	130	35	5	1.0	15.0
`
	recs, err := ParseTabular(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	require.Equal(t, "q1", recs[0].QueryAccVer)
	require.Equal(t, "p1", recs[0].SubjectAccVer)
	require.Equal(t, 0, recs[0].QueryStart)
	require.Equal(t, 360, recs[0].QueryEnd)
	require.Equal(t, int8(1), recs[0].Strand)

	require.Equal(t, int8(-1), recs[1].Strand)
}

func TestParseTabularRejectsShortLine(t *testing.T) {
	_, err := ParseTabular(strings.NewReader("q1\tp1\t98.5\n"))
	require.Error(t, err)
}
