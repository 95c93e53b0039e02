// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alignpost

import (
	"fmt"
	"regexp"
	"strconv"
)

var cigarOpRe = regexp.MustCompile(`(\d+)([MID])`)

// CigarOp is one decoded (count, operator) pair of a CIGAR string.
type CigarOp struct {
	Count int
	Op    byte
}

// ParseCigar splits s into its (count, op) terms. No
// characters outside full (count[MID])+ matches are tolerated.
func ParseCigar(s string) ([]CigarOp, error) {
	matches := cigarOpRe.FindAllStringSubmatchIndex(s, -1)
	var consumed int
	ops := make([]CigarOp, 0, len(matches))
	for _, m := range matches {
		if m[0] != consumed {
			return nil, fmt.Errorf("alignpost: cigar: unexpected character at offset %d in %q", consumed, s)
		}
		n, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil {
			return nil, fmt.Errorf("alignpost: cigar: %w", err)
		}
		ops = append(ops, CigarOp{Count: n, Op: s[m[4]]})
		consumed = m[1]
	}
	if consumed != len(s) {
		return nil, fmt.Errorf("alignpost: cigar: unexpected trailing characters in %q", s)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("alignpost: cigar: empty string")
	}
	return ops, nil
}

// DecodeCigar walks ops starting at model position 1 and sequence
// position 1, producing the insert tuples implied by D operators and
// verifying the declared lengths are fully consumed.
func DecodeCigar(ops []CigarOp, mdlLen, seqLen int) ([]InsertToken, error) {
	mdlPos, seqPos := 1, 1
	var ins []InsertToken
	for _, op := range ops {
		switch op.Op {
		case 'M':
			mdlPos += op.Count
			seqPos += op.Count
		case 'I':
			mdlPos += op.Count
		case 'D':
			ins = append(ins, InsertToken{
				MdlPosAfter: mdlPos - 1,
				UASeqPos:    seqPos,
				Len:         op.Count,
			})
			seqPos += op.Count
		default:
			return nil, fmt.Errorf("alignpost: cigar: unknown operator %q", op.Op)
		}
	}
	gotMdl, gotSeq := mdlPos-1, seqPos-1
	if gotMdl != mdlLen {
		return nil, fmt.Errorf("alignpost: cigar: decoded model length %d, want %d", gotMdl, mdlLen)
	}
	if gotSeq != seqLen {
		return nil, fmt.Errorf("alignpost: cigar: decoded sequence length %d, want %d", gotSeq, seqLen)
	}
	return ins, nil
}

// PosMap is the CIGAR-derived position map: map[m] > 0 means model
// position m aligns to that sequence position; map[m] < 0 means a
// sequence gap at m, with the magnitude the 5'-most sequence position
// seen before the gap; map[m] == 0 means a gap with no sequence
// position seen yet. Index 0 is unused; valid indices are [1,mdlLen].
type PosMap []int

// BuildPosMap performs the same walk as DecodeCigar but fills a
// position map instead of (or alongside) collecting insert tokens.
func BuildPosMap(ops []CigarOp, mdlLen, seqLen int) (PosMap, error) {
	m := make(PosMap, mdlLen+1)
	mdlPos, seqPos := 1, 1
	lastSeqPos := 0
	for _, op := range ops {
		switch op.Op {
		case 'M':
			for i := 0; i < op.Count; i++ {
				m[mdlPos] = seqPos
				lastSeqPos = seqPos
				mdlPos++
				seqPos++
			}
		case 'I':
			for i := 0; i < op.Count; i++ {
				if lastSeqPos == 0 {
					m[mdlPos] = 0
				} else {
					m[mdlPos] = -lastSeqPos
				}
				mdlPos++
			}
		case 'D':
			seqPos += op.Count
			lastSeqPos = seqPos - 1
		default:
			return nil, fmt.Errorf("alignpost: cigar: unknown operator %q", op.Op)
		}
	}
	gotMdl, gotSeq := mdlPos-1, seqPos-1
	if gotMdl != mdlLen {
		return nil, fmt.Errorf("alignpost: cigar: consumed model length %d, want %d", gotMdl, mdlLen)
	}
	if gotSeq != seqLen {
		return nil, fmt.Errorf("alignpost: cigar: consumed sequence length %d, want %d", gotSeq, seqLen)
	}
	return m, nil
}
