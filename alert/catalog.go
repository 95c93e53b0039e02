// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alert

import "fmt"

// NewDefaultRegistry builds the process-wide alert-kind catalog used
// by the annotation pipeline, spanning classification,
// feature-structural, protein-vs-nucleotide, similarity, ambiguity
// and frameshift categories.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, k := range defaultKinds {
		if err := r.Add(k); err != nil {
			return nil, fmt.Errorf("alert: building default registry: %w", err)
		}
	}
	for code, invs := range defaultInvalidatedBy {
		if err := r.SetInvalidatedBy(code, invs); err != nil {
			return nil, fmt.Errorf("alert: building default registry: %w", err)
		}
	}
	return r, nil
}

var defaultKinds = []Kind{
	// Classification.
	{Code: "noannotn", PerType: Sequence, ShortDesc: "no annotation", LongDesc: "no significant hits to any model", AlwaysFails: true, CausesFailure: true, PreventsAnnot: true},
	{Code: "qstsbgrp", PerType: Sequence, ShortDesc: "questionable subgroup", LongDesc: "best model's subgroup differs from expected", CausesFailure: false},
	{Code: "incsbgrp", PerType: Sequence, ShortDesc: "incorrect subgroup", LongDesc: "best model's subgroup is prohibited", CausesFailure: true},
	{Code: "qstgroup", PerType: Sequence, ShortDesc: "questionable group", LongDesc: "best model's group differs from expected", CausesFailure: false},
	{Code: "incgroup", PerType: Sequence, ShortDesc: "incorrect group", LongDesc: "best model's group is prohibited", CausesFailure: true},
	{Code: "revcompl", PerType: Sequence, ShortDesc: "reverse complement", LongDesc: "best hit is on the minus strand", CausesFailure: true, PreventsAnnot: true},
	{Code: "lowcovrg", PerType: Sequence, ShortDesc: "low coverage", LongDesc: "sequence has low fractional coverage by homologous model region", CausesFailure: true},
	{Code: "lowsimis", PerType: Sequence, ShortDesc: "low similarity", LongDesc: "internal region with a significant score drop", CausesFailure: true},

	// Feature-structural.
	{Code: "indf5gap", PerType: Feature, ShortDesc: "indefinite feature start, gap", LongDesc: "feature's 5' boundary is an alignment gap", CausesFailure: true, MiscNotFailure: true, ExcKey: "indf5gap_exc", ExcType: CoordsOnly},
	{Code: "indf3gap", PerType: Feature, ShortDesc: "indefinite feature end, gap", LongDesc: "feature's 3' boundary is an alignment gap", CausesFailure: true, MiscNotFailure: true, ExcKey: "indf3gap_exc", ExcType: CoordsOnly},
	{Code: "indf5loc", PerType: Feature, ShortDesc: "indefinite feature start, low confidence", LongDesc: "feature's 5' boundary has low alignment confidence", CausesFailure: true, MiscNotFailure: true, ExcKey: "indf5loc_exc", ExcType: CoordsOnly},
	{Code: "indf3loc", PerType: Feature, ShortDesc: "indefinite feature end, low confidence", LongDesc: "feature's 3' boundary has low alignment confidence", CausesFailure: true, MiscNotFailure: true, ExcKey: "indf3loc_exc", ExcType: CoordsOnly},
	{Code: "deletins", PerType: Feature, ShortDesc: "deletion of start/stop codon", LongDesc: "feature is missing an expected start or stop", CausesFailure: true},
	{Code: "insertnp", PerType: Feature, ShortDesc: "insertion of nucleotides", LongDesc: "too many inserted nucleotides relative to model", CausesFailure: true, ExcKey: "nmaxins_exc", ExcType: CoordsValue},
	{Code: "deletinp", PerType: Feature, ShortDesc: "deletion of nucleotides", LongDesc: "too many deleted nucleotides relative to model", CausesFailure: true, ExcKey: "nmaxdel_exc", ExcType: CoordsValue},
	{Code: "unjoinbl", PerType: Feature, ShortDesc: "segments not joinable", LongDesc: "feature's segments could not be joined contiguously", CausesFailure: false},
	{Code: "mutstart", PerType: Feature, ShortDesc: "mutated start codon", LongDesc: "expected start codon not observed", CausesFailure: true},
	{Code: "mutendcd", PerType: Feature, ShortDesc: "mutated stop codon, no stop", LongDesc: "no in-frame stop codon found downstream", CausesFailure: true},
	{Code: "mutendns", PerType: Feature, ShortDesc: "mutated stop codon, not 3 nt", LongDesc: "stop codon shift is not a multiple of 3", CausesFailure: true},
	{Code: "mutendex", PerType: Feature, ShortDesc: "mutated stop codon, extension", LongDesc: "stop codon extends beyond expected 3' boundary", CausesFailure: true},
	{Code: "cdsstopn", PerType: Feature, ShortDesc: "CDS stop codon is invalid", LongDesc: "in-frame stop codon within the CDS on the nucleotide strand", CausesFailure: true},
	{Code: "cdsstopp", PerType: Feature, ShortDesc: "CDS protein has early stop", LongDesc: "blastx protein alignment reveals a premature stop", CausesFailure: true},
	{Code: "indfstrn", PerType: Feature, ShortDesc: "indefinite strand", LongDesc: "significant alignment on both strands within the feature", CausesFailure: true, ExcKey: "indfstr_exc", ExcType: CoordsOnly},

	// Protein-vs-nucleotide.
	{Code: "indfantn", PerType: Feature, ShortDesc: "indefinite annotation", LongDesc: "nucleotide- and protein-based predictions disagree on feature boundary", CausesFailure: true},
	{Code: "insertnp3", PerType: Feature, ShortDesc: "protein insertion", LongDesc: "blastx alignment shows an insertion relative to the nucleotide prediction", CausesFailure: true, ExcKey: "xmaxins_exc", ExcType: CoordsValue},
	{Code: "deletinp3", PerType: Feature, ShortDesc: "protein deletion", LongDesc: "blastx alignment shows a deletion relative to the nucleotide prediction", CausesFailure: true, ExcKey: "xmaxdel_exc", ExcType: CoordsValue},
	{Code: "peptrans", PerType: Feature, ShortDesc: "peptide translation mismatch", LongDesc: "mat_peptide translation does not match the expected protein", CausesFailure: true},
	{Code: "pept5nf", PerType: Feature, ShortDesc: "peptide start not found", LongDesc: "mat_peptide 5' boundary not found in alignment", CausesFailure: true},
	{Code: "pept3nf", PerType: Feature, ShortDesc: "peptide end not found", LongDesc: "mat_peptide 3' boundary not found in alignment", CausesFailure: true},

	// Similarity.
	{Code: "lowscore", PerType: Feature, ShortDesc: "low feature similarity score", LongDesc: "feature's alignment score per nucleotide is below threshold", CausesFailure: true},
	{Code: "fracdiff", PerType: Feature, ShortDesc: "fractional length difference", LongDesc: "feature length differs significantly from the reference model", CausesFailure: true},

	// Ambiguity.
	{Code: "ambgnt5s", PerType: Feature, ShortDesc: "5' end ambiguous nucleotide(s)", LongDesc: "ambiguous nucleotides at the feature's 5' boundary", CausesFailure: true, MiscNotFailure: true},
	{Code: "ambgnt3s", PerType: Feature, ShortDesc: "3' end ambiguous nucleotide(s)", LongDesc: "ambiguous nucleotides at the feature's 3' boundary", CausesFailure: true, MiscNotFailure: true},
	{Code: "ambgnt5c", PerType: Feature, ShortDesc: "5' end ambiguous codon", LongDesc: "ambiguous nucleotides within the start codon", CausesFailure: true},
	{Code: "ambgnt3c", PerType: Feature, ShortDesc: "3' end ambiguous codon", LongDesc: "ambiguous nucleotides within the stop codon", CausesFailure: true},
	{Code: "ambgntrp", PerType: Feature, ShortDesc: "ambiguous nucleotide(s) in reading frame", LongDesc: "ambiguous nucleotides within the translated region", CausesFailure: false},

	// Frameshift.
	{Code: "fsthicnf", PerType: Feature, ShortDesc: "high-confidence frameshift", LongDesc: "frameshift with high-confidence alignment evidence", CausesFailure: true, ExcKey: "fst_exc", ExcType: CoordsOnly},
	{Code: "fstlocnf", PerType: Feature, ShortDesc: "low-confidence frameshift location", LongDesc: "frameshift position has low alignment confidence", CausesFailure: true, MiscNotFailure: true, ExcKey: "fst_exc", ExcType: CoordsOnly},
	{Code: "fstlocft", PerType: Feature, ShortDesc: "frameshift outside feature", LongDesc: "frameshift evidence falls outside the annotated feature boundary", CausesFailure: true},
	{Code: "fsthicft", PerType: Feature, ShortDesc: "high-confidence frameshift, feature boundary", LongDesc: "frameshift with high confidence at the feature boundary", CausesFailure: true},
}

// defaultInvalidatedBy is applied after every kind above is
// registered, since set_invalidated_by requires both endpoints to
// already exist.
var defaultInvalidatedBy = map[string][]string{
	"indf5loc":  {"indf5gap"},
	"indf3loc":  {"indf3gap"},
	"qstsbgrp":  {"incsbgrp"},
	"qstgroup":  {"incgroup"},
	"fstlocnf":  {"fsthicnf"},
	"insertnp3": {"insertnp"},
	"deletinp3": {"deletinp"},
	"mutendcd":  {"cdsstopn"},
}
