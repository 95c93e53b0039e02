// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alignpost decodes the alignment stage's raw output into the
// data the rest of the pipeline consumes: insert-file records, CIGAR
// strings, position maps, a second aligner's pairwise output, and the
// Stockholm merges that back the final per-model alignments.
package alignpost

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// InsertToken is one (mdlpos_after, ua_seq_pos, len) tuple.
type InsertToken struct {
	MdlPosAfter int
	UASeqPos    int
	Len         int
}

// Insert is one sequence's insert entry.
type Insert struct {
	SeqName string
	SeqLen  int
	SPos    int
	EPos    int
	Ins     []InsertToken
}

// Model pairs a model name with its length, read from an insert
// file's model header line.
type Model struct {
	Name string
	Len  int
}

// File is a parsed insert side-file: the model headers encountered,
// keyed by name, and the sequence records in file order alongside the
// model name active when each was read.
type File struct {
	Models  map[string]int
	Records []Insert
	ModelOf []string // ModelOf[i] is the model active for Records[i]
}

// ParseInsert reads an insert side-file. Lines beginning "#"
// are ignored. A two-field line sets the active model; subsequent
// sequence lines carry at least 4 fields plus trailing mdlpos/uapos/
// inslen triples. The file is terminated by "//".
func ParseInsert(r io.Reader) (*File, error) {
	f := &File{Models: make(map[string]int)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	activeModel := ""
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.TrimSpace(line) == "//" {
			return f, nil
		}
		fields := strings.Fields(line)
		if len(fields) == 2 {
			name := fields[0]
			length, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("alignpost: insert file line %d: bad model length: %w", lineNo, err)
			}
			if existing, ok := f.Models[name]; ok && existing != length {
				return nil, fmt.Errorf("alignpost: insert file line %d: model %s redeclared with differing length (%d vs %d)", lineNo, name, length, existing)
			}
			f.Models[name] = length
			activeModel = name
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("alignpost: insert file line %d: expected at least 4 fields", lineNo)
		}
		if (len(fields)-4)%3 != 0 {
			return nil, fmt.Errorf("alignpost: insert file line %d: trailing insert tuples not a multiple of 3", lineNo)
		}
		ins, err := parseSeqLine(fields)
		if err != nil {
			return nil, fmt.Errorf("alignpost: insert file line %d: %w", lineNo, err)
		}
		f.Records = append(f.Records, ins)
		f.ModelOf = append(f.ModelOf, activeModel)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("alignpost: %w", err)
	}
	return nil, fmt.Errorf("alignpost: insert file: missing terminating \"//\"")
}

func parseSeqLine(fields []string) (Insert, error) {
	ints := make([]int, len(fields)-1)
	for i, s := range fields[1:] {
		v, err := strconv.Atoi(s)
		if err != nil {
			return Insert{}, fmt.Errorf("field %d: %w", i+2, err)
		}
		ints[i] = v
	}
	ins := Insert{
		SeqName: fields[0],
		SeqLen:  ints[0],
		SPos:    ints[1],
		EPos:    ints[2],
	}
	for i := 3; i+2 < len(ints); i += 3 {
		ins.Ins = append(ins.Ins, InsertToken{
			MdlPosAfter: ints[i],
			UASeqPos:    ints[i+1],
			Len:         ints[i+2],
		})
	}
	return ins, nil
}

// WriteInsert emits the model header, then the records and their
// tokens, terminated by "//". Records are written in the order
// given; the caller groups by model as needed.
func WriteInsert(w io.Writer, model Model, records []Insert) error {
	return writeInsert(w, model, records, false)
}

// AppendInsert writes records under an existing model section without
// a header line, for shard-merge append mode; the caller has already
// written the model header via WriteInsert or a prior AppendInsert.
func AppendInsert(w io.Writer, records []Insert) error {
	return writeInsert(w, Model{}, records, true)
}

func writeInsert(w io.Writer, model Model, records []Insert, appendOnly bool) error {
	bw := bufio.NewWriter(w)
	if !appendOnly {
		if _, err := fmt.Fprintf(bw, "%s %d\n", model.Name, model.Len); err != nil {
			return err
		}
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(bw, "%s %d %d %d", r.SeqName, r.SeqLen, r.SPos, r.EPos); err != nil {
			return err
		}
		for _, t := range r.Ins {
			if _, err := fmt.Fprintf(bw, "  %d %d %d", t.MdlPosAfter, t.UASeqPos, t.Len); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(bw); err != nil {
			return err
		}
	}
	if !appendOnly {
		if _, err := fmt.Fprintln(bw, "//"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
