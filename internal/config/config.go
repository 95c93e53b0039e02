// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the job runner's cluster-submission and
// sharding parameters through viper, generalized from
// inodb-vibe-vep's config.go (a flat key/value viper store read by a
// "config" cobra subcommand) to a typed struct Unmarshal, since the
// job runner needs concrete numeric fields rather than an open key
// set.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// JobRunner holds the cluster/sharding knobs read from
// a config file, environment overrides, or both.
type JobRunner struct {
	MaxJobs           int    `mapstructure:"max_jobs"`
	KBPerShard        int    `mapstructure:"kb_per_shard"`
	SubmitMode        string `mapstructure:"submit_mode"` // "direct" or "shell"
	TemplateFile      string `mapstructure:"template_file"`
	WallClockMins     int    `mapstructure:"wall_clock_minutes"`
	InitialDelay      int    `mapstructure:"initial_delay_seconds"`
	CheckStderr       bool   `mapstructure:"check_stderr"`
	AlignerMode       string `mapstructure:"aligner_mode"` // "aligner" or "generic"
	FinishedStr       string `mapstructure:"finished_str"`
	KeepIntermediates bool   `mapstructure:"keep_intermediates"`
}

// WallClockBudget is WallClockMins as a time.Duration.
func (c JobRunner) WallClockBudget() time.Duration {
	return time.Duration(c.WallClockMins) * time.Minute
}

// InitialDelayDuration is InitialDelay as a time.Duration.
func (c JobRunner) InitialDelayDuration() time.Duration {
	return time.Duration(c.InitialDelay) * time.Second
}

func defaults() JobRunner {
	return JobRunner{
		MaxJobs:       1,
		KBPerShard:    100,
		SubmitMode:    "direct",
		WallClockMins: 60,
		InitialDelay:  10,
		AlignerMode:   "aligner",
		FinishedStr:   "[ok]",
	}
}

// Load reads job-runner configuration from configFile (if non-empty),
// overlaying environment variables prefixed VADR_ (e.g.
// VADR_MAX_JOBS), on top of the package defaults.
func Load(configFile string) (JobRunner, error) {
	v := viper.New()
	d := defaults()
	v.SetDefault("max_jobs", d.MaxJobs)
	v.SetDefault("kb_per_shard", d.KBPerShard)
	v.SetDefault("submit_mode", d.SubmitMode)
	v.SetDefault("wall_clock_minutes", d.WallClockMins)
	v.SetDefault("initial_delay_seconds", d.InitialDelay)
	v.SetDefault("aligner_mode", d.AlignerMode)
	v.SetDefault("finished_str", d.FinishedStr)

	v.SetEnvPrefix("vadr")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return JobRunner{}, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	var cfg JobRunner
	if err := v.Unmarshal(&cfg); err != nil {
		return JobRunner{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return JobRunner{}, err
	}
	return cfg, nil
}

func (c JobRunner) validate() error {
	if c.MaxJobs < 1 {
		return fmt.Errorf("config: max_jobs must be >= 1, got %d", c.MaxJobs)
	}
	if c.KBPerShard < 1 {
		return fmt.Errorf("config: kb_per_shard must be >= 1, got %d", c.KBPerShard)
	}
	switch c.SubmitMode {
	case "direct", "shell":
	default:
		return fmt.Errorf("config: submit_mode must be direct or shell, got %q", c.SubmitMode)
	}
	switch c.AlignerMode {
	case "aligner", "generic":
	default:
		return fmt.Errorf("config: aligner_mode must be aligner or generic, got %q", c.AlignerMode)
	}
	if c.SubmitMode == "shell" && c.TemplateFile == "" {
		return fmt.Errorf("config: submit_mode shell requires template_file")
	}
	return nil
}
