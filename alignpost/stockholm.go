// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alignpost

import (
	"bufio"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/biogo/external"
)

// StockholmMerger builds the external merger invocation that
// concatenates per-model Stockholm shards into one alignment, in the
// same buildarg-tag/external.Build style as blast.Blastx.
type StockholmMerger struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}esl-alimerge{{end}}"`

	OutFile string `buildarg:"{{with .}}-o{{split}}{{.}}{{end}}"`

	// Inputs are appended as trailing positional arguments; buildarg
	// templates aren't shaped for variadic positional lists
	// (cf. blast.Blastx.ExtraFlags).
	Inputs []string
}

func (m StockholmMerger) BuildCommand() (*exec.Cmd, error) {
	if len(m.Inputs) == 0 {
		return nil, errors.New("alignpost: stockholm merge: no inputs")
	}
	cl := external.Must(external.Build(m))
	return exec.Command(cl[0], append(cl[1:], m.Inputs...)...), nil
}

// ReferenceAnnotator builds the external annotator invocation that
// restores the "#=GC RF" reference-column row a naive concatenation
// strips.
type ReferenceAnnotator struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}esl-alistat{{end}}"`

	InFile  string `buildarg:"{{.}}"`
	OutFile string `buildarg:"{{with .}}--rf-out{{split}}{{.}}{{end}}"`
}

func (a ReferenceAnnotator) BuildCommand() (*exec.Cmd, error) {
	if a.InFile == "" {
		return nil, errors.New("alignpost: reference annotator: missing input file")
	}
	cl := external.Must(external.Build(a))
	return exec.Command(cl[0], cl[1:]...), nil
}

// AnnotateReferenceColumn adds a "#=GC RF" row to a merged Stockholm
// alignment that lacks one, using refCols (one byte per alignment
// column; '.' marks a gap column) computed by the caller from the
// model's match/insert state assignment.
func AnnotateReferenceColumn(stockholm string, refCols string) (string, error) {
	lines := strings.Split(strings.TrimRight(stockholm, "\n"), "\n")
	var out []string
	inserted := false
	for _, line := range lines {
		if line == "//" && !inserted {
			out = append(out, fmt.Sprintf("#=GC RF %s", refCols))
			inserted = true
		}
		out = append(out, line)
	}
	if !inserted {
		return "", errors.New("alignpost: annotate reference column: no terminating \"//\" line")
	}
	return strings.Join(out, "\n") + "\n", nil
}

// MergeStockholm concatenates the Stockholm shard texts in shard
// order, dropping every shard's trailing
// "//" except the last, then restores the reference-column
// annotation via AnnotateReferenceColumn.
func MergeStockholm(shards []string, refCols string) (string, error) {
	if len(shards) == 0 {
		return "", errors.New("alignpost: merge stockholm: no shards")
	}
	var b strings.Builder
	for i, shard := range shards {
		lines := strings.Split(strings.TrimRight(shard, "\n"), "\n")
		for _, line := range lines {
			if line == "//" && i != len(shards)-1 {
				continue
			}
			if line == "# STOCKHOLM 1.0" && i != 0 {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return AnnotateReferenceColumn(b.String(), refCols)
}

// DeriveAFA reformats a merged, reference-annotated Stockholm
// alignment into aligned FASTA, since AFA cannot itself carry the
// reference-column channel.
func DeriveAFA(stockholm string) (string, error) {
	sc := bufio.NewScanner(strings.NewReader(stockholm))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	order := make([]string, 0)
	seqs := make(map[string]*strings.Builder)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "", line == "//", strings.HasPrefix(line, "#"):
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return "", fmt.Errorf("alignpost: derive afa: malformed alignment line %q", line)
		}
		name, seq := fields[0], fields[1]
		b, ok := seqs[name]
		if !ok {
			b = &strings.Builder{}
			seqs[name] = b
			order = append(order, name)
		}
		b.WriteString(seq)
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("alignpost: derive afa: %w", err)
	}

	var out strings.Builder
	for _, name := range order {
		fmt.Fprintf(&out, ">%s\n%s\n", name, seqs[name].String())
	}
	return out.String(), nil
}
