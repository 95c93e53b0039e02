// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aligner builds the command lines for the two external
// alignment tools the job runner dispatches per shard: a profile
// aligner/search step and a second pairwise tool whose combined
// output alignpost decodes. Both wrappers follow the same
// buildarg-tag/external.Build pattern as blast.Blastx; neither tool's
// internals are modeled, only its argument surface and documented
// stdout/stderr/exit contract.
package aligner

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/biogo/external"
)

// Cmsearch builds a profile-aligner invocation: the model and
// sequence files are positional arguments, OutFile and InsertFile
// name the alignment and insert side-file outputs, and stderr is
// captured by the caller.
type Cmsearch struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}cmalign{{end}}"`

	ModelFile string `buildarg:"{{.}}"` // positional: <cmfile>
	SeqFile   string `buildarg:"{{.}}"` // positional: <seqfile>

	Threads    int     `buildarg:"{{if .}}--cpu{{split}}{{.}}{{end}}"`
	Glocal     bool    `buildarg:"{{if .}}-g{{end}}"`
	MaxMemGB   float64 `buildarg:"{{if .}}--mxsize{{split}}{{.}}{{end}}"`
	BandCalc   string  `buildarg:"{{with .}}--{{.}}{{end}}"` // e.g. "nonbanded", "hbanded"
	OutFile    string  `buildarg:"{{with .}}-o{{split}}{{.}}{{end}}"`
	InsertFile string  `buildarg:"{{with .}}--ifile{{split}}{{.}}{{end}}"`

	// ExtraFlags will be passed through to the aligner as flags.
	ExtraFlags string
}

func (c Cmsearch) BuildCommand() (*exec.Cmd, error) {
	if c.ModelFile == "" {
		return nil, errors.New("aligner: cmsearch: missing model file")
	}
	if c.SeqFile == "" {
		return nil, errors.New("aligner: cmsearch: missing sequence file")
	}
	cl := external.Must(external.Build(c))
	var extra []string
	if c.ExtraFlags != "" {
		extra = strings.Split(c.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}

// Matchpairwise builds the second ("aligner-B") pairwise tool's
// invocation, whose combined pairwise+summary stdout alignpost
// decodes with its line-oriented state machine.
type Matchpairwise struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}matchpairwise{{end}}"`

	RefFile   string `buildarg:"{{.}}"` // positional: <ref.fa>
	QueryFile string `buildarg:"{{.}}"` // positional: <query.fa>

	Threads   int  `buildarg:"{{if .}}-t{{split}}{{.}}{{end}}"`
	Global    bool `buildarg:"{{if .}}-g{{end}}"`
	ShowCigar bool `buildarg:"{{if .}}-c{{end}}"`

	// ExtraFlags will be passed through to matchpairwise as flags.
	ExtraFlags string
}

func (m Matchpairwise) BuildCommand() (*exec.Cmd, error) {
	if m.RefFile == "" || m.QueryFile == "" {
		return nil, errors.New("aligner: matchpairwise: missing ref or query file")
	}
	cl := external.Must(external.Build(m))
	var extra []string
	if m.ExtraFlags != "" {
		extra = strings.Split(m.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}
