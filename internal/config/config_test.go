// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 1, cfg.MaxJobs)
	require.Equal(t, "direct", cfg.SubmitMode)
	require.Equal(t, 60, cfg.WallClockMins)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vadr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_jobs: 8\nkb_per_shard: 250\nsubmit_mode: shell\ntemplate_file: sub.tmpl\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.MaxJobs)
	require.Equal(t, 250, cfg.KBPerShard)
	require.Equal(t, "shell", cfg.SubmitMode)
	require.Equal(t, "sub.tmpl", cfg.TemplateFile)
}

func TestLoadRejectsInvalidSubmitMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vadr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("submit_mode: bogus\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRequiresTemplateForShellMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vadr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("submit_mode: shell\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
