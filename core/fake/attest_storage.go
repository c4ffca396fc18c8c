// Copyright 2017 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/ecvrf/core/attest"
	"github.com/google/ecvrf/core/segment"
)

type attestKey struct {
	identity    string
	segmentHash [segment.HashLen]byte
}

// AttestStorage implements attest.Storage in memory.
type AttestStorage struct {
	mu      sync.RWMutex
	records map[attestKey]*attest.Record
	order   []attestKey
}

// NewAttestStorage returns a fake attest.Storage.
func NewAttestStorage() *AttestStorage {
	return &AttestStorage{records: make(map[attestKey]*attest.Record)}
}

func copyAttestRecord(r *attest.Record) *attest.Record {
	c := *r
	c.Proof = append([]byte(nil), r.Proof...)
	return &c
}

// Write records a new attestation.
func (s *AttestStorage) Write(ctx context.Context, r *attest.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := attestKey{r.Identity, r.SegmentHash}
	if _, ok := s.records[k]; ok {
		return fmt.Errorf("segment %x of %q: %w", r.SegmentHash, r.Identity, attest.ErrAlreadyExists)
	}
	s.records[k] = copyAttestRecord(r)
	s.order = append(s.order, k)
	return nil
}

// Read returns the attestation of a segment by identity.
func (s *AttestStorage) Read(ctx context.Context, identity string, segmentHash [segment.HashLen]byte) (*attest.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[attestKey{identity, segmentHash}]
	if !ok {
		return nil, fmt.Errorf("segment %x of %q: %w", segmentHash, identity, attest.ErrNotFound)
	}
	return copyAttestRecord(r), nil
}

// List returns up to limit attestations of identity in insertion order.
func (s *AttestStorage) List(ctx context.Context, identity string, limit int) ([]*attest.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ret []*attest.Record
	for _, k := range s.order {
		if limit > 0 && len(ret) >= limit {
			break
		}
		if k.identity != identity {
			continue
		}
		ret = append(ret, copyAttestRecord(s.records[k]))
	}
	return ret, nil
}

// Delete removes the attestation of a segment by identity.
func (s *AttestStorage) Delete(ctx context.Context, identity string, segmentHash [segment.HashLen]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := attestKey{identity, segmentHash}
	if _, ok := s.records[k]; !ok {
		return fmt.Errorf("segment %x of %q: %w", segmentHash, identity, attest.ErrNotFound)
	}
	delete(s.records, k)
	for i, o := range s.order {
		if o == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
