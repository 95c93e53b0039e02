// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alignpost

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatInsertToken renders t as "mdlpos:uapos:len", the token form
// used by an insert-string.
func FormatInsertToken(t InsertToken) string {
	return fmt.Sprintf("%d:%d:%d", t.MdlPosAfter, t.UASeqPos, t.Len)
}

// ParseInsertToken parses one "mdlpos:uapos:len" token.
func ParseInsertToken(tok string) (InsertToken, error) {
	parts := strings.Split(tok, ":")
	if len(parts) != 3 {
		return InsertToken{}, fmt.Errorf("alignpost: insert-string: malformed token %q", tok)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return InsertToken{}, fmt.Errorf("alignpost: insert-string: malformed token %q: %w", tok, err)
		}
		vals[i] = v
	}
	return InsertToken{MdlPosAfter: vals[0], UASeqPos: vals[1], Len: vals[2]}, nil
}

// UpdateInsertToken locates the unique token in s (a ";"-joined list
// of "mdlpos:uapos:len" tokens) whose MdlPosAfter and UASeqPos match
// old, and replaces it with replacement. Zero or multiple matches is
// an error.
func UpdateInsertToken(s string, old, replacement InsertToken) (string, error) {
	var toks []string
	for _, t := range strings.Split(strings.TrimSuffix(s, ";"), ";") {
		if t != "" {
			toks = append(toks, t)
		}
	}
	matchAt := -1
	for i, t := range toks {
		parsed, err := ParseInsertToken(t)
		if err != nil {
			return "", err
		}
		if parsed.MdlPosAfter == old.MdlPosAfter && parsed.UASeqPos == old.UASeqPos {
			if matchAt != -1 {
				return "", fmt.Errorf("alignpost: insert-string: multiple tokens match mdlpos=%d uapos=%d", old.MdlPosAfter, old.UASeqPos)
			}
			matchAt = i
		}
	}
	if matchAt == -1 {
		return "", fmt.Errorf("alignpost: insert-string: no token matches mdlpos=%d uapos=%d", old.MdlPosAfter, old.UASeqPos)
	}
	toks[matchAt] = FormatInsertToken(replacement)
	return strings.Join(toks, ";") + ";", nil
}
