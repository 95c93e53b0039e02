// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// vadr-build loads a model-info file, runs the full feature imputation
// and validation pipeline over every model it describes, and prints a
// one-line summary per model.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kortschak/vadr/alert"
	"github.com/kortschak/vadr/feature"
	"github.com/kortschak/vadr/minfo"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var modelKeys, featureKeys []string

	cmd := &cobra.Command{
		Use:   "vadr-build <model.minfo>",
		Short: "validate a model-info file and summarize its models",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], modelKeys, featureKeys)
		},
	}

	cmd.Flags().StringSliceVar(&modelKeys, "require-model-key", nil, "model key that must be present on every model (repeatable)")
	cmd.Flags().StringSliceVar(&featureKeys, "require-feature-key", nil, "feature key that must be present on every feature (repeatable)")

	return cmd
}

func runBuild(path string, modelKeys, featureKeys []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("vadr-build: %w", err)
	}
	defer logger.Sync() //nolint:errcheck
	log := logger.Sugar()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("vadr-build: %w", err)
	}
	defer f.Close()

	log.Infof("reading %s", path)
	file, err := minfo.Read(f)
	if err != nil {
		return fmt.Errorf("vadr-build: %w", err)
	}
	minfo.Upgrade(file)

	if len(modelKeys) != 0 || len(featureKeys) != 0 {
		if err := file.RequireKeys(modelKeys, featureKeys); err != nil {
			return fmt.Errorf("vadr-build: %w", err)
		}
	}

	reg, err := alert.NewDefaultRegistry()
	if err != nil {
		return fmt.Errorf("vadr-build: %w", err)
	}

	var models []*feature.Model
	for _, mr := range file.Models {
		log.Infof("building model %s", mr.Name)
		m, err := mr.BuildModel(reg)
		if err != nil {
			return fmt.Errorf("vadr-build: model %s: %w", mr.Name, err)
		}
		models = append(models, m)
	}

	for _, m := range models {
		fmt.Printf("%s\tlength=%d\tfeatures=%d\tsegments=%d\n", m.Name, m.Length, len(m.Features), len(m.Segments))
	}
	log.Infof("validated %d model(s)", len(models))
	return nil
}
