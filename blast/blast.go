// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blast builds the blastx invocation vadr-annotate's protein-
// vs-nucleotide validation pass runs, and parses its tabular
// (-outfmt 6) output into Records. Those hits are the protein-side
// evidence behind the insertnp3, deletinp3 and cdsstopp alert kinds;
// vadr-annotate itself uses them only to raise indfantn against a
// sequence that has no hit, and raises none of those three kinds.
package blast

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/biogo/external"
)

// Blastx builds one blastx invocation: a nucleotide query translated
// in all six frames and searched against a protein reference
// (Subject, a plain FASTA file rather than a prebuilt blastdb, since
// vadr-annotate's protein check runs against a single model's mapped
// protein set rather than a shared, indexed database).
type Blastx struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}blastx{{end}}"` // blastx

	EValue float64 `buildarg:"{{if .}}-evalue{{split}}{{.}}{{end}}"` // -evalue <f.>

	Query   string `buildarg:"-query{{split}}{{.}}"`                  // -query <s>
	Subject string `buildarg:"{{if .}}-subject{{split}}{{.}}{{end}}"` // -subject <s>

	OutFormat int `buildarg:"{{if .}}-outfmt{{split}}{{.}}{{end}}"` // -outfmt <n>

	Threads int `buildarg:"{{if .}}-num_threads{{split}}{{.}}{{end}}"` // -num_threads <n>

	// ExtraFlags will be passed through to blastx as flags.
	ExtraFlags string
}

func (x Blastx) BuildCommand() (*exec.Cmd, error) {
	if x.Query == "" {
		return nil, fmt.Errorf("blast: blastx: missing query file")
	}
	if x.Subject == "" {
		return nil, fmt.Errorf("blast: blastx: missing subject protein file")
	}
	cl := external.Must(external.Build(x))
	var extra []string
	if x.ExtraFlags != "" {
		extra = strings.Split(x.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}

// Record is one blastx tabular (-outfmt 6) hit: a translated query ORF
// aligned against one protein subject.
type Record struct {
	QueryAccVer     string
	SubjectAccVer   string
	PctIdentity     float64
	AlignmentLength int
	Mismatches      int
	GapOpens        int
	QueryStart      int
	QueryEnd        int
	SubjectStart    int
	SubjectEnd      int
	EValue          float64
	BitScore        float64

	// Strand is the query's coding strand relative to the subject
	// protein: +1 if SubjectEnd >= SubjectStart, -1 otherwise.
	Strand int8
}

// ParseTabular parses blastx's default tabular output (-outfmt 6 or
// 7; "#"-prefixed summary lines are skipped) into Records.
func ParseTabular(r io.Reader) ([]Record, error) {
	// column indices for default blast output tabular format 6 and 7.
	const (
		QueryAccVer = iota
		SubjectAccVer
		PctIdentity
		AlignmentLength
		Mismatches
		GapOpens
		QueryStart
		QueryEnd
		SubjectStart
		SubjectEnd
		EValue
		BitScore
		numFields
	)

	var recs []Record
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Bytes()
		if bytes.HasPrefix(line, []byte("#")) {
			continue
		}
		f := bytes.Split(line, []byte("\t"))
		if len(f) != numFields {
			return recs, fmt.Errorf("blast: unexpected number of fields: %q", f)
		}

		// NCBI's tabular output sometimes contaminates numeric fields
		// with flanking whitespace; trim every field just in case.
		rec := Record{
			QueryAccVer:   string(bytes.TrimSpace(f[QueryAccVer])),
			SubjectAccVer: string(bytes.TrimSpace(f[SubjectAccVer])),
		}
		var err error
		rec.PctIdentity, err = strconv.ParseFloat(string(bytes.TrimSpace(f[PctIdentity])), 64)
		if err != nil {
			return recs, fmt.Errorf("blast: line %q: %w", line, err)
		}
		rec.AlignmentLength, err = strconv.Atoi(string(bytes.TrimSpace(f[AlignmentLength])))
		if err != nil {
			return recs, fmt.Errorf("blast: line %q: %w", line, err)
		}
		rec.Mismatches, err = strconv.Atoi(string(bytes.TrimSpace(f[Mismatches])))
		if err != nil {
			return recs, fmt.Errorf("blast: line %q: %w", line, err)
		}
		rec.GapOpens, err = strconv.Atoi(string(bytes.TrimSpace(f[GapOpens])))
		if err != nil {
			return recs, fmt.Errorf("blast: line %q: %w", line, err)
		}
		rec.QueryStart, err = strconv.Atoi(string(bytes.TrimSpace(f[QueryStart])))
		if err != nil {
			return recs, fmt.Errorf("blast: line %q: %w", line, err)
		}
		rec.QueryStart-- // zero-based internally
		rec.QueryEnd, err = strconv.Atoi(string(bytes.TrimSpace(f[QueryEnd])))
		if err != nil {
			return recs, fmt.Errorf("blast: line %q: %w", line, err)
		}
		rec.SubjectStart, err = strconv.Atoi(string(bytes.TrimSpace(f[SubjectStart])))
		if err != nil {
			return recs, fmt.Errorf("blast: line %q: %w", line, err)
		}
		rec.SubjectStart-- // zero-based internally
		rec.SubjectEnd, err = strconv.Atoi(string(bytes.TrimSpace(f[SubjectEnd])))
		if err != nil {
			return recs, fmt.Errorf("blast: line %q: %w", line, err)
		}
		rec.EValue, err = strconv.ParseFloat(string(bytes.TrimSpace(f[EValue])), 64)
		if err != nil {
			return recs, fmt.Errorf("blast: line %q: %w", line, err)
		}
		rec.BitScore, err = strconv.ParseFloat(string(bytes.TrimSpace(f[BitScore])), 64)
		if err != nil {
			return recs, fmt.Errorf("blast: line %q: %w", line, err)
		}
		rec.Strand = 1
		if rec.SubjectEnd < rec.SubjectStart {
			rec.Strand = -1
		}
		if rec.QueryEnd < rec.QueryStart {
			return recs, fmt.Errorf("blast: line %q: inverted query", line)
		}
		recs = append(recs, rec)
	}
	err := sc.Err()
	return recs, err
}
