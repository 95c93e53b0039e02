// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jobrunner fans sequence-annotation work out across shards,
// submits each shard to a cluster or the local shell, polls for
// completion with exponential backoff, and merges shard outputs back
// into ordered, whole-input results.
package jobrunner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/hts/fai"
)

// TotalSequenceLength sums every record's sequence length in a FASTA
// file via a biogo/hts/fai index. ShardCount's total length input
// is the total length of the sequences being sharded, not the
// file's byte size, so a file dominated by header/newline bytes (many
// short-named records) is not over-sharded relative to one with few,
// long-named records of the same sequence content.
func TotalSequenceLength(r io.Reader) (int64, error) {
	idx, err := fai.NewIndex(r)
	if err != nil {
		return 0, fmt.Errorf("jobrunner: indexing fasta: %w", err)
	}
	var total int64
	for _, rec := range idx {
		total += int64(rec.Length)
	}
	return total, nil
}

// ShardCount determines how many shards an input of totalLen sequence
// positions should be split into, given a maximum job count and a
// target kilobytes-per-shard size:
// min(maxJobs, floor(totalLen/(kb*1000))) with a floor of 1. totalLen
// is obtained from TotalSequenceLength, not a raw file size.
func ShardCount(totalLen int64, maxJobs, kbPerShard int) int {
	if maxJobs < 1 {
		maxJobs = 1
	}
	if kbPerShard < 1 {
		kbPerShard = 1
	}
	n := int(totalLen / int64(kbPerShard*1000))
	if n > maxJobs {
		n = maxJobs
	}
	if n < 1 {
		n = 1
	}
	return n
}

// SplitResult is one line of an external fasta splitter's report: the
// path of a created shard file and how many sequences it holds.
type SplitResult struct {
	File    string
	NumSeqs int
}

// ParseSplitterOutput recovers per-shard sequence counts from an
// external fasta splitter's report, one "<file> <nseq>" line per
// created shard.
func ParseSplitterOutput(r io.Reader) ([]SplitResult, error) {
	sc := bufio.NewScanner(r)
	var out []SplitResult
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("jobrunner: splitter output: malformed line %q", line)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("jobrunner: splitter output: bad sequence count in %q: %w", line, err)
		}
		out = append(out, SplitResult{File: fields[0], NumSeqs: n})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("jobrunner: splitter output: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("jobrunner: splitter output: no shards reported")
	}
	return out, nil
}
