// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package minfo reads and writes the model-info (.minfo) file: the
// per-model and per-feature qualifier grammar that seeds FeatureInfo
// construction, plus the backward-compatibility rewrite pass applied
// to older files after they are read.
package minfo

import (
	"fmt"
	"strings"
)

// gbsep is the sentinel joining multiple qualifier values for the
// same key within one "value" string.
const gbsep = ":GBSEP:"

// ModelRecord is one MODEL line and its qualifiers.
type ModelRecord struct {
	Name     string
	Keys     []string // insertion order
	Values   map[string]string
	Features []*FeatureRecord
}

// FeatureRecord is one FEATURE line and its qualifiers.
type FeatureRecord struct {
	ModelName string
	Keys      []string
	Values    map[string]string
}

func newModelRecord(name string) *ModelRecord {
	return &ModelRecord{Name: name, Values: make(map[string]string)}
}

func newFeatureRecord(model string) *FeatureRecord {
	return &FeatureRecord{ModelName: model, Values: make(map[string]string)}
}

// Get returns the raw value recorded for key, and whether key was
// present.
func (m *ModelRecord) Get(key string) (string, bool) {
	v, ok := m.Values[key]
	return v, ok
}

// GetAll returns the gbsep-separated values recorded for key.
func (m *ModelRecord) GetAll(key string) []string {
	v, ok := m.Values[key]
	if !ok {
		return nil
	}
	return strings.Split(v, gbsep)
}

// Get returns the raw value recorded for key, and whether key was
// present.
func (f *FeatureRecord) Get(key string) (string, bool) {
	v, ok := f.Values[key]
	return v, ok
}

// GetAll returns the gbsep-separated values recorded for key.
func (f *FeatureRecord) GetAll(key string) []string {
	v, ok := f.Values[key]
	if !ok {
		return nil
	}
	return strings.Split(v, gbsep)
}

// File is a parsed .minfo file: an ordered sequence of models, each
// with its features in file order.
type File struct {
	Models []*ModelRecord
}

// ModelNames returns the model names in file order.
func (f *File) ModelNames() []string {
	out := make([]string, len(f.Models))
	for i, m := range f.Models {
		out[i] = m.Name
	}
	return out
}

// RequireKeys fails if any model lacks one of modelKeys, or any of
// its features lacks one of featureKeys, per the parser contract of
// ("required keys (caller-supplied) must be present").
func (f *File) RequireKeys(modelKeys, featureKeys []string) error {
	for _, m := range f.Models {
		for _, k := range modelKeys {
			if _, ok := m.Get(k); !ok {
				return fmt.Errorf("minfo: model %s: missing required key %q", m.Name, k)
			}
		}
		for _, ftr := range m.Features {
			for _, k := range featureKeys {
				if _, ok := ftr.Get(k); !ok {
					return fmt.Errorf("minfo: model %s feature: missing required key %q", m.Name, k)
				}
			}
		}
	}
	return nil
}
