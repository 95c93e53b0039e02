// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jobrunner

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kortschak/vadr/alignpost"
)

// ConcatenateOnly byte-concatenates shard readers in caller-supplied
// (shard) order.
func ConcatenateOnly(w io.Writer, shards []io.Reader) error {
	for i, r := range shards {
		if _, err := io.Copy(w, r); err != nil {
			return fmt.Errorf("jobrunner: concatenate: shard %d: %w", i, err)
		}
	}
	return nil
}

var separatorLineRe = regexp.MustCompile(`^[-\s]*-[-\s]*$`)

func isSeparatorLine(line string) bool {
	return separatorLineRe.MatchString(line)
}

// reformatRow preserves the source spacing of the leading leadCols
// whitespace-delimited fields (including the padding before them) and
// joins any remaining fields with a single space.
func reformatRow(line string, leadCols int) string {
	i, col := 0, 0
	for col < leadCols {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		start := i
		for i < len(line) && line[i] != ' ' {
			i++
		}
		if start == i {
			break
		}
		col++
	}
	head := line[:i]
	rest := strings.Fields(line[i:])
	if len(rest) == 0 {
		return head
	}
	return head + " " + strings.Join(rest, " ")
}

// ConcatenatePreservingSpacing merges per-shard tabular text, keeping
// the first shard's header (and an immediately following separator
// line, if any), skipping subsequent shards' headers, and reformatting
// every data row so the leading leadCols columns keep their source
// spacing while any trailing columns are single-space joined.
func ConcatenatePreservingSpacing(shardTexts []string, leadCols int) (string, error) {
	if len(shardTexts) == 0 {
		return "", fmt.Errorf("jobrunner: merge: no shards")
	}
	var out []string
	for i, text := range shardTexts {
		lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
		if len(lines) == 0 {
			continue
		}
		start := 1
		if len(lines) > 1 && isSeparatorLine(lines[1]) {
			start = 2
		}
		if i == 0 {
			out = append(out, lines[:start]...)
		}
		for _, line := range lines[start:] {
			if line == "" {
				continue
			}
			out = append(out, reformatRow(line, leadCols))
		}
	}
	return strings.Join(out, "\n") + "\n", nil
}

// SummaryRow is one named row of a model/alert summary table: a
// leading name, a run of invariant (non-additive) columns, then a run
// of additive numeric columns.
type SummaryRow struct {
	Name      string
	Invariant []string
	Counts    []int
}

// SummaryTable is a parsed per-shard or merged model/alert summary
// summary, e.g. a ".mdl" or ".alt" style report.
type SummaryTable struct {
	Header       []string
	NumInvariant int
	Rows         []SummaryRow
}

// ParseSummaryTable parses a whitespace-delimited summary table whose
// first numInvariant columns (after the leading name column) are
// expected to be identical across shards, and whose remaining columns
// are additive counts.
func ParseSummaryTable(r io.Reader, numInvariant int) (*SummaryTable, error) {
	sc := bufio.NewScanner(r)
	var header []string
	var rows []SummaryRow
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if first {
			header = fields
			first = false
			continue
		}
		if len(fields) < 1+numInvariant {
			return nil, fmt.Errorf("jobrunner: summary table: row %q has too few columns", line)
		}
		row := SummaryRow{
			Name:      fields[0],
			Invariant: append([]string(nil), fields[1:1+numInvariant]...),
		}
		for _, f := range fields[1+numInvariant:] {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("jobrunner: summary table: row %q: bad count %q: %w", line, f, err)
			}
			row.Counts = append(row.Counts, n)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("jobrunner: summary table: %w", err)
	}
	if header == nil {
		return nil, fmt.Errorf("jobrunner: summary table: empty input")
	}
	return &SummaryTable{Header: header, NumInvariant: numInvariant, Rows: rows}, nil
}

// MergeSummaryTables sums additive columns across shards row-by-row
// (matched by Name, including the special "*all*"/"*none*" rows),
// verifies invariant columns agree across shards, and re-sorts the
// other rows by primary (first) count descending, then by name; the
// "*all*"/"*none*" rows are not sorted and follow them in the order
// first seen.
func MergeSummaryTables(tables []*SummaryTable) (*SummaryTable, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("jobrunner: merge summary tables: no tables")
	}
	numInvariant := tables[0].NumInvariant
	merged := make(map[string]*SummaryRow)
	var order []string
	for _, t := range tables {
		if t.NumInvariant != numInvariant {
			return nil, fmt.Errorf("jobrunner: merge summary tables: inconsistent invariant column count")
		}
		for _, row := range t.Rows {
			ex, ok := merged[row.Name]
			if !ok {
				cp := SummaryRow{
					Name:      row.Name,
					Invariant: append([]string(nil), row.Invariant...),
					Counts:    append([]int(nil), row.Counts...),
				}
				merged[row.Name] = &cp
				order = append(order, row.Name)
				continue
			}
			if !equalStrings(ex.Invariant, row.Invariant) {
				return nil, fmt.Errorf("jobrunner: merge summary tables: %q has inconsistent invariant columns across shards", row.Name)
			}
			if len(ex.Counts) != len(row.Counts) {
				return nil, fmt.Errorf("jobrunner: merge summary tables: %q has inconsistent column count across shards", row.Name)
			}
			for i, c := range row.Counts {
				ex.Counts[i] += c
			}
		}
	}

	rows := make([]SummaryRow, 0, len(order))
	for _, name := range order {
		rows = append(rows, *merged[name])
	}
	special := func(name string) bool { return name == "*all*" || name == "*none*" }
	sort.SliceStable(rows, func(i, j int) bool {
		si, sj := special(rows[i].Name), special(rows[j].Name)
		if si || sj {
			return !si && sj
		}
		pi, pj := primaryCount(rows[i]), primaryCount(rows[j])
		if pi != pj {
			return pi > pj
		}
		return rows[i].Name < rows[j].Name
	})
	return &SummaryTable{Header: tables[0].Header, NumInvariant: numInvariant, Rows: rows}, nil
}

func primaryCount(r SummaryRow) int {
	if len(r.Counts) == 0 {
		return 0
	}
	return r.Counts[0]
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// WriteSummaryTable writes t back out in the same whitespace-delimited
// form ParseSummaryTable reads.
func WriteSummaryTable(w io.Writer, t *SummaryTable) error {
	if _, err := fmt.Fprintln(w, strings.Join(t.Header, " ")); err != nil {
		return err
	}
	for _, row := range t.Rows {
		fields := append([]string{row.Name}, row.Invariant...)
		for _, c := range row.Counts {
			fields = append(fields, strconv.Itoa(c))
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return nil
}

// MergeAlignments calls alignpost's Stockholm merge per model
// keyed by model name, then derives AFA
// per model if deriveAFA is set. refCols supplies each model's
// reference-column string (computed by the caller from the model's
// match/insert state assignment).
func MergeAlignments(shardsByModel map[string][]string, refCols map[string]string, deriveAFA bool) (stockholm, afa map[string]string, err error) {
	stockholm = make(map[string]string, len(shardsByModel))
	if deriveAFA {
		afa = make(map[string]string, len(shardsByModel))
	}
	for model, shards := range shardsByModel {
		rc, ok := refCols[model]
		if !ok {
			return nil, nil, fmt.Errorf("jobrunner: merge alignments: no reference columns for model %q", model)
		}
		merged, err := alignpost.MergeStockholm(shards, rc)
		if err != nil {
			return nil, nil, fmt.Errorf("jobrunner: merge alignments: model %q: %w", model, err)
		}
		stockholm[model] = merged
		if deriveAFA {
			a, err := alignpost.DeriveAFA(merged)
			if err != nil {
				return nil, nil, fmt.Errorf("jobrunner: merge alignments: model %q: derive afa: %w", model, err)
			}
			afa[model] = a
		}
	}
	return stockholm, afa, nil
}
