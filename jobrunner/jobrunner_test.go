// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jobrunner

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShardCount(t *testing.T) {
	require.Equal(t, 1, ShardCount(500, 8, 1)) // floor(500/1000)=0, floored to 1
	require.Equal(t, 3, ShardCount(3500, 8, 1))
	require.Equal(t, 8, ShardCount(100000, 8, 1)) // capped at maxJobs
}

func TestTotalSequenceLength(t *testing.T) {
	const fasta = ">seq1 description one\nACGTACGTAC\nGT\n>seq2\nACGT\n"
	n, err := TotalSequenceLength(strings.NewReader(fasta))
	require.NoError(t, err)
	require.EqualValues(t, 16, n) // 12 + 4, not the 47-byte file size
}

func TestParseSplitterOutput(t *testing.T) {
	const doc = "shard1.fa 12\nshard2.fa 8\n"
	res, err := ParseSplitterOutput(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, []SplitResult{{"shard1.fa", 12}, {"shard2.fa", 8}}, res)

	_, err = ParseSplitterOutput(strings.NewReader("shard1.fa notanumber\n"))
	require.Error(t, err)

	_, err = ParseSplitterOutput(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseSubmitTemplate(t *testing.T) {
	const doc = "# comment\nqsub -N ![jobname]! -e ![errfile]! # trailing comment\n![cmd]! >out.log\n"
	tmpl, err := ParseSubmitTemplate(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, "qsub -N ![jobname]! -e ![errfile]!", tmpl.Prefix)
	require.Equal(t, "![cmd]! >out.log", tmpl.Suffix)

	_, err = ParseSubmitTemplate(strings.NewReader("onlyoneline\n"))
	require.Error(t, err)
}

func TestRenderAndShardScript(t *testing.T) {
	p := Placeholders{JobName: "shard1", ErrFile: "shard1.err", MemGB: 4, NSecs: 600}
	got := Render("qsub -N ![jobname]! -e ![errfile]! -l mem=![memgb]!G -l s_rt=![nsecs]!", p)
	require.Equal(t, "qsub -N shard1 -e shard1.err -l mem=4G -l s_rt=600", got)

	tmpl := SubmitTemplate{Prefix: "#!/bin/sh\n# job ![jobname]!", Suffix: "echo done"}
	script := RenderShardScript(tmpl, p, "matchpairwise ref.fa q.fa")
	require.Contains(t, script, "# job shard1")
	require.Contains(t, script, "matchpairwise ref.fa q.fa")
	require.True(t, strings.HasSuffix(script, "echo done\n"))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPollAlignerModeFinishes(t *testing.T) {
	dir := t.TempDir()
	out1 := writeFile(t, dir, "s1.out", "aligning...\n# CPU time 1.2s\n")
	err1 := writeFile(t, dir, "s1.err", "")
	out2 := writeFile(t, dir, "s2.out", "aligning...\nError: matrix too large, mxes need 512.0\n")
	err2 := writeFile(t, dir, "s2.err", "")

	shards := []Shard{
		{Name: "s1", StdoutFile: out1, StderrFile: err1},
		{Name: "s2", StdoutFile: out2, StderrFile: err2},
	}
	fakeNow := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{
		Mode:         AlignerMode,
		CheckStderr:  true,
		InitialDelay: time.Second,
		Budget:       time.Minute,
		Sleep:        func(time.Duration) {},
		Now:          func() time.Time { return fakeNow },
	}
	summary, results, err := Poll(shards, cfg)
	require.Error(t, err) // s2's soft fail makes the overall poll fail
	require.Contains(t, err.Error(), "s2")
	require.True(t, summary.Finished)
	require.Equal(t, 2, summary.NumFinished)
	require.Equal(t, Finished, results[0].Outcome)
	require.Equal(t, SoftFail, results[1].Outcome)
	require.Equal(t, 512.0, results[1].MxSize)
}

func TestPollGenericModeAndStderrFailure(t *testing.T) {
	dir := t.TempDir()
	out1 := writeFile(t, dir, "s1.out", "[ok]\n")
	err1 := writeFile(t, dir, "s1.err", "")
	out2 := writeFile(t, dir, "s2.out", "still working\n")
	err2 := writeFile(t, dir, "s2.err", "boom\n")

	shards := []Shard{
		{Name: "s1", StdoutFile: out1, StderrFile: err1, FinishedStr: "[ok]"},
		{Name: "s2", StdoutFile: out2, StderrFile: err2, FinishedStr: "[ok]"},
	}
	cfg := Config{
		Mode:         GenericMode,
		CheckStderr:  true,
		InitialDelay: time.Second,
		Budget:       time.Minute,
		Sleep:        func(time.Duration) {},
	}
	summary, results, err := Poll(shards, cfg)
	require.Error(t, err)
	require.True(t, summary.Finished)
	require.Equal(t, Finished, results[0].Outcome)
	require.Equal(t, HardFail, results[1].Outcome)
}

func TestPollBudgetExpires(t *testing.T) {
	dir := t.TempDir()
	out1 := writeFile(t, dir, "s1.out", "still going\n")
	err1 := writeFile(t, dir, "s1.err", "")

	shards := []Shard{{Name: "s1", StdoutFile: out1, StderrFile: err1, FinishedStr: "[ok]"}}

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	now := func() time.Time {
		calls++
		if calls == 1 {
			return start
		}
		return start.Add(time.Hour)
	}
	cfg := Config{
		Mode:         GenericMode,
		InitialDelay: time.Second,
		Budget:       time.Minute,
		Sleep:        func(time.Duration) {},
		Now:          now,
	}
	summary, results, err := Poll(shards, cfg)
	require.NoError(t, err)
	require.False(t, summary.Finished)
	require.Equal(t, 0, summary.NumFinished)
	require.Equal(t, Pending, results[0].Outcome)
}

func TestConcatenateOnly(t *testing.T) {
	var buf bytes.Buffer
	err := ConcatenateOnly(&buf, []io.Reader{strings.NewReader("a"), strings.NewReader("b")})
	require.NoError(t, err)
	require.Equal(t, "ab", buf.String())
}

func TestConcatenatePreservingSpacing(t *testing.T) {
	shard1 := "name    group   count\n------  -----   -----\nfoo     grpA    3\nbar     grpB    1\n"
	shard2 := "name    group   count\n------  -----   -----\nbaz     grpA    2\n"
	merged, err := ConcatenatePreservingSpacing([]string{shard1, shard2}, 2)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(merged, "\n"), "\n")
	require.Equal(t, "name    group   count", lines[0])
	require.Equal(t, "------  -----   -----", lines[1])
	require.Equal(t, "foo     grpA 3", lines[2])
	require.Equal(t, "bar     grpB 1", lines[3])
	require.Equal(t, "baz     grpA 2", lines[4])
}

func TestParseAndMergeSummaryTables(t *testing.T) {
	const doc1 = `name group subgroup num_pass num_fail
NC_001 grpA sub1 10 1
*all* - - 10 1
`
	const doc2 = `name group subgroup num_pass num_fail
NC_001 grpA sub1 5 2
NC_002 grpB sub2 20 0
*all* - - 25 2
`
	t1, err := ParseSummaryTable(strings.NewReader(doc1), 2)
	require.NoError(t, err)
	t2, err := ParseSummaryTable(strings.NewReader(doc2), 2)
	require.NoError(t, err)

	merged, err := MergeSummaryTables([]*SummaryTable{t1, t2})
	require.NoError(t, err)
	require.Equal(t, "NC_002", merged.Rows[0].Name) // highest primary count (20) sorts first
	require.Equal(t, 20, merged.Rows[0].Counts[0])

	var all, nc001 SummaryRow
	for _, r := range merged.Rows {
		switch r.Name {
		case "*all*":
			all = r
		case "NC_001":
			nc001 = r
		}
	}
	require.Equal(t, []int{35, 3}, all.Counts)
	require.Equal(t, []int{15, 3}, nc001.Counts)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryTable(&buf, merged))
	require.Contains(t, buf.String(), "name group subgroup num_pass num_fail")
}

func TestMergeSummaryTablesInvariantMismatch(t *testing.T) {
	const doc1 = "name group\nNC_001 grpA\n"
	const doc2 = "name group\nNC_001 grpB\n"
	t1, _ := ParseSummaryTable(strings.NewReader(doc1), 1)
	t2, _ := ParseSummaryTable(strings.NewReader(doc2), 1)
	_, err := MergeSummaryTables([]*SummaryTable{t1, t2})
	require.Error(t, err)
}

func TestMergeAlignments(t *testing.T) {
	shardsByModel := map[string][]string{
		"NC_001477": {
			"# STOCKHOLM 1.0\nseq1 ACGT\n//\n",
			"# STOCKHOLM 1.0\nseq2 AC-T\n//\n",
		},
	}
	refCols := map[string]string{"NC_001477": "...."}
	stk, afa, err := MergeAlignments(shardsByModel, refCols, true)
	require.NoError(t, err)
	require.Contains(t, stk["NC_001477"], "#=GC RF ....")
	require.Contains(t, afa["NC_001477"], ">seq1\nACGT\n")

	_, _, err = MergeAlignments(shardsByModel, map[string]string{}, false)
	require.Error(t, err)
}
