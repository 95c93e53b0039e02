// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alignpost

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// pairwiseState is one state of the aligner-B output decoder.
type pairwiseState int

const (
	expectHeader pairwiseState = iota
	expectQuery
	expectAlgoParamsScores
	expectQueryAlign
	expectTargetAlign
	expectNextQueryOrEnd
)

// PairwiseRecord is one query's decoded aligner-B result: its insert
// entry (from CIGAR-decoding the summary line) and the two-row
// Stockholm text with the target row renamed to the reference.
type PairwiseRecord struct {
	Query     string
	Insert    Insert
	Stockholm string
}

// DecodePairwise consumes a second aligner's combined pairwise output
// line by line, given the fixed reference sequence the
// target row is measured against (for left/right extension) and the
// model length used for CIGAR decoding.
func DecodePairwise(r io.Reader, refName, refSeq string, mdlLen int) ([]PairwiseRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var records []PairwiseRecord
	state := expectHeader
	var query, cigar, querySeq, targetSeq string
	var seqLen int

	flush := func() error {
		ops, err := ParseCigar(cigar)
		if err != nil {
			return fmt.Errorf("alignpost: pairwise: query %s: %w", query, err)
		}
		ins, err := DecodeCigar(ops, mdlLen, seqLen)
		if err != nil {
			return fmt.Errorf("alignpost: pairwise: query %s: %w", query, err)
		}
		stockholm, err := buildPairwiseStockholm(query, querySeq, targetSeq, refName, refSeq)
		if err != nil {
			return fmt.Errorf("alignpost: pairwise: query %s: %w", query, err)
		}
		records = append(records, PairwiseRecord{
			Query:     query,
			Insert:    Insert{SeqName: query, SeqLen: seqLen, SPos: 1, EPos: mdlLen, Ins: ins},
			Stockholm: stockholm,
		})
		return nil
	}

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		switch state {
		case expectHeader:
			if strings.HasPrefix(line, "#") {
				state = expectQuery
			}
		case expectQuery:
			if line == "" {
				continue
			}
			name, ok := strings.CutPrefix(line, "QUERY ")
			if !ok {
				return nil, fmt.Errorf("alignpost: pairwise: line %d: expected QUERY line, got %q", lineNo, line)
			}
			query = strings.TrimSpace(name)
			state = expectAlgoParamsScores
		case expectAlgoParamsScores:
			cg, ok := strings.CutPrefix(line, "CIGAR ")
			if !ok {
				continue // algorithm/params/score lines, ignored
			}
			fields := strings.Fields(cg)
			if len(fields) != 2 {
				return nil, fmt.Errorf("alignpost: pairwise: line %d: malformed CIGAR line", lineNo)
			}
			cigar = fields[0]
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("alignpost: pairwise: line %d: bad seqlen: %w", lineNo, err)
			}
			seqLen = n
			state = expectQueryAlign
		case expectQueryAlign:
			seq, ok := strings.CutPrefix(line, "QALN ")
			if !ok {
				return nil, fmt.Errorf("alignpost: pairwise: line %d: expected QALN line", lineNo)
			}
			querySeq = seq
			state = expectTargetAlign
		case expectTargetAlign:
			seq, ok := strings.CutPrefix(line, "TALN ")
			if !ok {
				return nil, fmt.Errorf("alignpost: pairwise: line %d: expected TALN line", lineNo)
			}
			targetSeq = seq
			if err := flush(); err != nil {
				return nil, err
			}
			state = expectNextQueryOrEnd
		case expectNextQueryOrEnd:
			if line == "" {
				continue
			}
			if line == "//" {
				return records, nil
			}
			name, ok := strings.CutPrefix(line, "QUERY ")
			if !ok {
				return nil, fmt.Errorf("alignpost: pairwise: line %d: expected QUERY line or end marker", lineNo)
			}
			query = strings.TrimSpace(name)
			state = expectAlgoParamsScores
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("alignpost: pairwise: %w", err)
	}
	if state != expectNextQueryOrEnd {
		return nil, fmt.Errorf("alignpost: pairwise: truncated input, state %d at EOF", state)
	}
	return records, nil
}

// buildPairwiseStockholm trims symmetric 5'/3' padding from the query
// row, rewrites the target row's gap character from '-' to '.', and
// extends the target left/right with refSeq outside the aligned
// region (padding the query correspondingly with '-'), producing a
// minimal two-row Stockholm block with refName renamed as the
// reference row.
func buildPairwiseStockholm(query, querySeq, targetSeq, refName, refSeq string) (string, error) {
	lead := countLeft(querySeq, ' ')
	trail := countLeft(reverseString(querySeq), ' ')
	if lead > 0 || trail > 0 {
		if lead+trail >= len(targetSeq) {
			return "", fmt.Errorf("padding exceeds target length")
		}
		targetSeq = targetSeq[lead : len(targetSeq)-trail]
		querySeq = strings.TrimSpace(querySeq)
	}
	if len(querySeq) != len(targetSeq) {
		return "", fmt.Errorf("query/target alignment length mismatch: %d vs %d", len(querySeq), len(targetSeq))
	}
	targetSeq = strings.ReplaceAll(targetSeq, "-", ".")

	leftExt := refSeq[:lead]
	rightExt := ""
	if trail > 0 {
		rightExt = refSeq[len(refSeq)-trail:]
	}
	targetSeq = leftExt + targetSeq + rightExt
	querySeq = strings.Repeat("-", len(leftExt)) + querySeq + strings.Repeat("-", len(rightExt))

	var b strings.Builder
	fmt.Fprintln(&b, "# STOCKHOLM 1.0")
	fmt.Fprintf(&b, "%s\t%s\n", query, querySeq)
	fmt.Fprintf(&b, "%s\t%s\n", refName, targetSeq)
	fmt.Fprintln(&b, "//")
	return b.String(), nil
}

func countLeft(s string, b byte) int {
	n := 0
	for n < len(s) && s[n] == b {
		n++
	}
	return n
}

func reverseString(s string) string {
	r := []byte(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
