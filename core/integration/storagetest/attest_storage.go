// Copyright 2019 Google Inc. All Rights Reserved.
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

package storagetest

import (
	"context"
	"crypto/sha256"
	"errors"
	"testing"
	"time"

	"github.com/kylelemons/godebug/pretty"

	"github.com/google/ecvrf/core/attest"
	"github.com/google/ecvrf/core/crypto/vrf"
)

// AttestStorageFactory returns an empty attest.Storage.
type AttestStorageFactory func(ctx context.Context, t *testing.T) attest.Storage

// AttestStorageTest is one test of the suite.
type AttestStorageTest func(ctx context.Context, t *testing.T, f AttestStorageFactory)

// RunAttestStorageTests runs all the attestation storage tests against the provided storage implementation.
func RunAttestStorageTests(t *testing.T, factory AttestStorageFactory) {
	ctx := context.Background()
	b := &AttestStorageTests{}
	for name, f := range map[string]AttestStorageTest{
		"TestWriteRead":      b.TestWriteRead,
		"TestWriteDuplicate": b.TestWriteDuplicate,
		"TestIdentities":     b.TestIdentities,
		"TestReadMissing":    b.TestReadMissing,
		"TestList":           b.TestList,
		"TestDelete":         b.TestDelete,
	} {
		t.Run(name, func(t *testing.T) { f(ctx, t, factory) })
	}
}

// AttestStorageTests is a suite of tests to run against an attest.Storage.
type AttestStorageTests struct{}

func attestRecord(identity, data string, created int64) *attest.Record {
	return &attest.Record{
		SegmentHash: sha256.Sum256([]byte(data)),
		Identity:    identity,
		Fingerprint: vrf.Fingerprint(sha256.Sum256([]byte("fingerprint " + data))),
		Proof:       []byte("proof " + data),
		Created:     time.Unix(created, 0).UTC(),
	}
}

func compareAttestRecords(t *testing.T, got, want *attest.Record) {
	t.Helper()
	if !got.Created.Equal(want.Created) {
		t.Errorf("Created: %v, want %v", got.Created, want.Created)
	}
	g, w := *got, *want
	g.Created, w.Created = time.Time{}, time.Time{}
	if diff := pretty.Compare(w, g); diff != "" {
		t.Errorf("record diff (-want +got):\n%v", diff)
	}
}

// TestWriteRead stores and reads back a record.
func (AttestStorageTests) TestWriteRead(ctx context.Context, t *testing.T, f AttestStorageFactory) {
	s := f(ctx, t)
	want := attestRecord("alice", "a", 1600000000)
	if err := s.Write(ctx, want); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	got, err := s.Read(ctx, "alice", want.SegmentHash)
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}
	compareAttestRecords(t, got, want)
}

// TestWriteDuplicate checks that an identity records a segment once.
func (AttestStorageTests) TestWriteDuplicate(ctx context.Context, t *testing.T, f AttestStorageFactory) {
	s := f(ctx, t)
	first := attestRecord("alice", "a", 1600000000)
	if err := s.Write(ctx, first); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	second := attestRecord("alice", "a", 1600000001)
	second.Proof = []byte("other proof")
	if err := s.Write(ctx, second); !errors.Is(err, attest.ErrAlreadyExists) {
		t.Errorf("Write(duplicate): %v, want %v", err, attest.ErrAlreadyExists)
	}
	got, err := s.Read(ctx, "alice", first.SegmentHash)
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}
	compareAttestRecords(t, got, first)
}

// TestIdentities checks that identities keep separate records of a segment.
func (AttestStorageTests) TestIdentities(ctx context.Context, t *testing.T, f AttestStorageFactory) {
	s := f(ctx, t)
	alice := attestRecord("alice", "a", 1600000000)
	bob := attestRecord("bob", "a", 1600000001)
	bob.Fingerprint = vrf.Fingerprint(sha256.Sum256([]byte("bob's fingerprint")))
	bob.Proof = []byte("bob's proof")
	for _, r := range []*attest.Record{alice, bob} {
		if err := s.Write(ctx, r); err != nil {
			t.Fatalf("Write(%v): %v", r.Identity, err)
		}
	}
	for _, want := range []*attest.Record{alice, bob} {
		got, err := s.Read(ctx, want.Identity, want.SegmentHash)
		if err != nil {
			t.Fatalf("Read(%v): %v", want.Identity, err)
		}
		compareAttestRecords(t, got, want)
	}
	if err := s.Delete(ctx, "alice", alice.SegmentHash); err != nil {
		t.Fatalf("Delete(alice): %v", err)
	}
	if _, err := s.Read(ctx, "bob", bob.SegmentHash); err != nil {
		t.Errorf("Read(bob) after Delete(alice): %v", err)
	}
}

// TestReadMissing checks the error for unknown segments.
func (AttestStorageTests) TestReadMissing(ctx context.Context, t *testing.T, f AttestStorageFactory) {
	s := f(ctx, t)
	if _, err := s.Read(ctx, "alice", sha256.Sum256([]byte("missing"))); !errors.Is(err, attest.ErrNotFound) {
		t.Errorf("Read(missing): %v, want %v", err, attest.ErrNotFound)
	}
	if err := s.Write(ctx, attestRecord("alice", "a", 100)); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	if _, err := s.Read(ctx, "bob", sha256.Sum256([]byte("a"))); !errors.Is(err, attest.ErrNotFound) {
		t.Errorf("Read(other identity): %v, want %v", err, attest.ErrNotFound)
	}
}

// TestList lists the records of one identity, oldest first.
func (AttestStorageTests) TestList(ctx context.Context, t *testing.T, f AttestStorageFactory) {
	s := f(ctx, t)
	for _, r := range []*attest.Record{
		attestRecord("alice", "a1", 100),
		attestRecord("bob", "b1", 101),
		attestRecord("alice", "a2", 102),
		attestRecord("alice", "a3", 103),
	} {
		if err := s.Write(ctx, r); err != nil {
			t.Fatalf("Write(): %v", err)
		}
	}
	for _, tc := range []struct {
		identity string
		limit    int
		want     []string
	}{
		{identity: "alice", limit: 10, want: []string{"a1", "a2", "a3"}},
		{identity: "alice", limit: 2, want: []string{"a1", "a2"}},
		{identity: "alice", limit: 0, want: []string{"a1", "a2", "a3"}},
		{identity: "bob", limit: 10, want: []string{"b1"}},
		{identity: "carol", limit: 10, want: []string{}},
	} {
		recs, err := s.List(ctx, tc.identity, tc.limit)
		if err != nil {
			t.Fatalf("List(%v): %v", tc.identity, err)
		}
		got := make([]string, 0, len(recs))
		for _, r := range recs {
			got = append(got, string(r.Proof[len("proof "):]))
		}
		if diff := pretty.Compare(tc.want, got); diff != "" {
			t.Errorf("List(%v, %v) diff (-want +got):\n%v", tc.identity, tc.limit, diff)
		}
	}
}

// TestDelete removes a record.
func (AttestStorageTests) TestDelete(ctx context.Context, t *testing.T, f AttestStorageFactory) {
	s := f(ctx, t)
	r := attestRecord("alice", "a", 100)
	if err := s.Write(ctx, r); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	if err := s.Delete(ctx, "bob", r.SegmentHash); !errors.Is(err, attest.ErrNotFound) {
		t.Errorf("Delete(other identity): %v, want %v", err, attest.ErrNotFound)
	}
	if err := s.Delete(ctx, "alice", r.SegmentHash); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if _, err := s.Read(ctx, "alice", r.SegmentHash); !errors.Is(err, attest.ErrNotFound) {
		t.Errorf("Read() after Delete(): %v, want %v", err, attest.ErrNotFound)
	}
	if err := s.Delete(ctx, "alice", r.SegmentHash); !errors.Is(err, attest.ErrNotFound) {
		t.Errorf("Delete() twice: %v, want %v", err, attest.ErrNotFound)
	}
	// The segment can be attested again.
	if err := s.Write(ctx, r); err != nil {
		t.Errorf("Write() after Delete(): %v", err)
	}
}
