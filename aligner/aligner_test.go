// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aligner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCmsearchRequiresFiles(t *testing.T) {
	_, err := Cmsearch{}.BuildCommand()
	require.Error(t, err)

	cmd, err := Cmsearch{ModelFile: "m.cm", SeqFile: "q.fa", Threads: 4}.BuildCommand()
	require.NoError(t, err)
	require.Equal(t, []string{"cmalign", "m.cm", "q.fa", "--cpu", "4"}, cmd.Args)
}

func TestMatchpairwiseRequiresFiles(t *testing.T) {
	_, err := Matchpairwise{}.BuildCommand()
	require.Error(t, err)

	cmd, err := Matchpairwise{RefFile: "ref.fa", QueryFile: "q.fa", ShowCigar: true}.BuildCommand()
	require.NoError(t, err)
	require.Equal(t, []string{"matchpairwise", "ref.fa", "q.fa", "-c"}, cmd.Args)
}
