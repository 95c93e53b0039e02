// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package miscops holds small, otherwise-homeless operations:
// CDS frame arithmetic and the pseudo-coords string
// codec used to audit N-replacement decisions.
package miscops

import "fmt"

// AdjustFrame returns the reading frame a position in the original
// frame orig (1, 2 or 3) shifts to after a signed nucleotide offset
// diff is applied upstream of it.
func AdjustFrame(orig, diff int) (int, error) {
	if orig < 1 || orig > 3 {
		return 0, fmt.Errorf("miscops: frame %d out of range [1,3]", orig)
	}
	f := ((orig-diff-1)%3 + 3) % 3
	return f + 1, nil
}
