// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jobrunner

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"modernc.org/kv"

	"github.com/kortschak/vadr/alignpost"
)

// ByModelThenSeqName is a kv compare function ordering staged shard
// results by model name then sequence name, so that out-of-order
// shard completions replay in ascending (model, sequence name) order
// when merged.
func ByModelThenSeqName(x, y []byte) int {
	return bytes.Compare(x, y)
}

// SeqResultStore stages decoded insert records on disk, keyed
// for ascending (model, sequence name) iteration, so a multi-shard run
// can merge results back in that order regardless of which shard
// finishes first.
type SeqResultStore struct {
	db *kv.DB
}

// OpenSeqResultStore creates a fresh ordered on-disk store at path.
func OpenSeqResultStore(path string) (*SeqResultStore, error) {
	db, err := kv.Create(path, &kv.Options{Compare: ByModelThenSeqName})
	if err != nil {
		return nil, fmt.Errorf("jobrunner: result store: %w", err)
	}
	return &SeqResultStore{db: db}, nil
}

// Close releases the underlying store.
func (s *SeqResultStore) Close() error {
	return s.db.Close()
}

// Put stages one insert record under modelName/rec.SeqName.
func (s *SeqResultStore) Put(modelName string, rec alignpost.Insert) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("jobrunner: result store: %w", err)
	}
	key := append([]byte(modelName+"\x00"), rec.SeqName...)
	if err := s.db.Set(key, buf.Bytes()); err != nil {
		return fmt.Errorf("jobrunner: result store: %w", err)
	}
	return nil
}

// Ordered replays every staged record in ascending (model, sequence
// name) order.
func (s *SeqResultStore) Ordered() ([]alignpost.Insert, error) {
	it, err := s.db.SeekFirst()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jobrunner: result store: %w", err)
	}
	var out []alignpost.Insert
	for {
		_, v, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("jobrunner: result store: %w", err)
		}
		var rec alignpost.Insert
		if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&rec); err != nil {
			return nil, fmt.Errorf("jobrunner: result store: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}
