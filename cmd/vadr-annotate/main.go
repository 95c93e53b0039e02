// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// vadr-annotate sizes job-runner shards for a query FASTA (the query
// itself is run as a single shard), drives the profile aligner and (optionally) a blastx-style protein
// validation pass, decodes their output, and prints each sequence's
// pass/fail verdict alongside its feature table.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kortschak/vadr/aligner"
	"github.com/kortschak/vadr/alert"
	"github.com/kortschak/vadr/alignpost"
	"github.com/kortschak/vadr/blast"
	"github.com/kortschak/vadr/feature"
	"github.com/kortschak/vadr/ftbl"
	"github.com/kortschak/vadr/internal/config"
	"github.com/kortschak/vadr/jobrunner"
	"github.com/kortschak/vadr/minfo"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	minfoPath  string
	queryPath  string
	workDir    string
	configPath string
	modelName  string
	proteinDB  string
	gff        bool
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "vadr-annotate",
		Short: "fan out sequence annotation jobs and emit a pass/fail feature table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(o)
		},
	}
	cmd.Flags().StringVar(&o.minfoPath, "minfo", "", "model-info file (required)")
	cmd.Flags().StringVar(&o.queryPath, "query", "", "query FASTA file (required)")
	cmd.Flags().StringVar(&o.modelName, "model", "", "model name to align against (required)")
	cmd.Flags().StringVar(&o.workDir, "workdir", ".", "scratch directory for alignment/insert files")
	cmd.Flags().StringVar(&o.configPath, "config", "", "job runner config file")
	cmd.Flags().StringVar(&o.proteinDB, "protein-db", "", "protein reference FASTA for a blastx validation pass (optional)")
	cmd.Flags().BoolVar(&o.gff, "gff", false, "also emit a GFF3 view alongside the native feature table")
	for _, name := range []string{"minfo", "query", "model"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}

func runAnnotate(o options) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("vadr-annotate: %w", err)
	}
	defer logger.Sync() //nolint:errcheck
	log := logger.Sugar()

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("vadr-annotate: %w", err)
	}

	reg, err := alert.NewDefaultRegistry()
	if err != nil {
		return fmt.Errorf("vadr-annotate: %w", err)
	}

	model, err := loadModel(o.minfoPath, o.modelName, reg)
	if err != nil {
		return fmt.Errorf("vadr-annotate: %w", err)
	}
	log.Infof("loaded model %s (%d features)", model.Name, len(model.Features))

	queryLen, err := queryTotalLength(o.queryPath)
	if err != nil {
		return fmt.Errorf("vadr-annotate: %w", err)
	}
	numShards := jobrunner.ShardCount(queryLen, cfg.MaxJobs, cfg.KBPerShard)
	log.Infof("sharding %s (%d total nt) into %d job(s)", o.queryPath, queryLen, numShards)

	// A production deployment splits the query into numShards files
	// with an external FASTA splitter and recovers their names via
	// jobrunner.ParseSplitterOutput; this single-shard path keeps the
	// demonstration runnable without that external dependency.
	shardFile := o.queryPath

	inserts, err := align(o.workDir, model.Name, shardFile, cfg, log)
	if err != nil {
		return fmt.Errorf("vadr-annotate: %w", err)
	}
	log.Infof("decoded %d insert record(s)", len(inserts.Records))

	ordered, err := stageResults(o.workDir, model.Name, inserts.Records)
	if err != nil {
		return fmt.Errorf("vadr-annotate: %w", err)
	}

	var proteinHits []blast.Record
	if o.proteinDB != "" {
		proteinHits, err = validateProtein(shardFile, o.proteinDB, cfg, log)
		if err != nil {
			return fmt.Errorf("vadr-annotate: %w", err)
		}
		log.Infof("protein validation: %d hit(s)", len(proteinHits))
	}
	hitBySeq := make(map[string]bool, len(proteinHits))
	for _, h := range proteinHits {
		hitBySeq[h.QueryAccVer] = true
	}

	return emitResults(os.Stdout, reg, model, ordered, hitBySeq, o.gff, log)
}

// stageResults routes decoded insert records through a jobrunner
// result store so they are emitted in ascending sequence-name order
// regardless of which shard produced them, then discards the store;
// a multi-shard caller would instead keep it open across shards and
// call Ordered once after the last one lands.
func stageResults(workDir, modelName string, records []alignpost.Insert) ([]alignpost.Insert, error) {
	store, err := jobrunner.OpenSeqResultStore(filepath.Join(workDir, modelName+".results.db"))
	if err != nil {
		return nil, err
	}
	defer store.Close()
	for _, rec := range records {
		if err := store.Put(modelName, rec); err != nil {
			return nil, err
		}
	}
	return store.Ordered()
}

// loadModel reads modelName out of a .minfo file and builds its
// feature.Model against reg.
func loadModel(minfoPath, modelName string, reg *alert.Registry) (*feature.Model, error) {
	f, err := os.Open(minfoPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := minfo.Read(f)
	if err != nil {
		return nil, err
	}
	minfo.Upgrade(file)

	for _, mr := range file.Models {
		if mr.Name == modelName {
			return mr.BuildModel(reg)
		}
	}
	return nil, fmt.Errorf("model %q not found in %s", modelName, minfoPath)
}

// queryTotalLength sums the sequence lengths in queryPath via a
// biogo/hts/fai index, for jobrunner.ShardCount's total-length input.
func queryTotalLength(queryPath string) (int64, error) {
	f, err := os.Open(queryPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return jobrunner.TotalSequenceLength(f)
}

// align drives the profile aligner over seqFile and decodes its
// insert side-file.
func align(workDir, modelName, seqFile string, cfg config.JobRunner, log *zap.SugaredLogger) (*alignpost.File, error) {
	insertFile := filepath.Join(workDir, modelName+".insert")
	a := aligner.Cmsearch{
		ModelFile:  filepath.Join(workDir, modelName+".cm"),
		SeqFile:    seqFile,
		Threads:    cfg.MaxJobs,
		OutFile:    filepath.Join(workDir, modelName+".stk"),
		InsertFile: insertFile,
	}
	cmd, err := a.BuildCommand()
	if err != nil {
		return nil, err
	}
	log.Infof("running %s", cmd.String())
	if err := runLogged(cmd, log); err != nil {
		return nil, fmt.Errorf("align: %w", err)
	}

	f, err := os.Open(insertFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return alignpost.ParseInsert(f)
}

// validateProtein runs a blastx-style search of seqFile's translated
// ORFs against proteinDB; emitResults raises indfantn for a sequence
// with no hit.
func validateProtein(seqFile, proteinDB string, cfg config.JobRunner, log *zap.SugaredLogger) ([]blast.Record, error) {
	px := blast.Blastx{
		Cmd:       "blastx",
		Query:     seqFile,
		Subject:   proteinDB,
		OutFormat: 6,
		Threads:   cfg.MaxJobs,
	}
	cmd, err := px.BuildCommand()
	if err != nil {
		return nil, err
	}
	log.Infof("running %s", cmd.String())
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("blastx: %w", err)
	}
	return blast.ParseTabular(&out)
}

func runLogged(cmd *exec.Cmd, log *zap.SugaredLogger) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if stderr.Len() > 0 {
		log.Infof("%s", stderr.String())
	}
	return err
}

// emitResults applies the pass/fail rule to every sequence record
// and writes its feature table (and, if gff is set, GFF3 view) when
// it passes.
func emitResults(w *os.File, reg *alert.Registry, model *feature.Model, records []alignpost.Insert, proteinHit map[string]bool, gff bool, log *zap.SugaredLogger) error {
	for _, rec := range records {
		var raised []ftbl.RaisedAlert
		if !proteinHit[rec.SeqName] && len(proteinHit) > 0 {
			raised = append(raised, ftbl.RaisedAlert{Code: "indfantn", FeatureIdx: feature.None})
		}
		v, err := ftbl.Evaluate(reg, model, raised)
		if err != nil {
			return err
		}
		status := "PASS"
		if !v.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s\t%s\n", rec.SeqName, status)
		if !v.Pass || v.AnnotationSuppressed {
			continue
		}
		if err := ftbl.WriteFeatureTable(w, rec.SeqName, model, nil); err != nil {
			return err
		}
		if gff {
			if err := ftbl.WriteGFF(w, "vadr", rec.SeqName, model, nil); err != nil {
				return err
			}
		}
	}
	log.Infof("emitted %d result(s)", len(records))
	return nil
}
