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
	"errors"
	"testing"
	"time"

	"github.com/kylelemons/godebug/pretty"

	"github.com/google/ecvrf/core/keystore"
)

// KeyStorageFactory returns an empty keystore.Storage.
type KeyStorageFactory func(ctx context.Context, t *testing.T) keystore.Storage

// KeyStorageTest is one test of the suite.
type KeyStorageTest func(ctx context.Context, t *testing.T, f KeyStorageFactory)

// RunKeyStorageTests runs all the key storage tests against the provided storage implementation.
func RunKeyStorageTests(t *testing.T, factory KeyStorageFactory) {
	ctx := context.Background()
	b := &KeyStorageTests{}
	for name, f := range map[string]KeyStorageTest{
		"TestWriteRead":       b.TestWriteRead,
		"TestWriteDuplicate":  b.TestWriteDuplicate,
		"TestReadMissing":     b.TestReadMissing,
		"TestListAndDelete":   b.TestListAndDelete,
		"TestDeleteMissing":   b.TestDeleteMissing,
		"TestRecordIsolation": b.TestRecordIsolation,
	} {
		t.Run(name, func(t *testing.T) { f(ctx, t, factory) })
	}
}

// KeyStorageTests is a suite of tests to run against a keystore.Storage.
type KeyStorageTests struct{}

func keyRecord(identity string) *keystore.Record {
	return &keystore.Record{
		Identity:  identity,
		Suite:     "ECVRF-RISTRETTO255-SHA512",
		PublicKey: []byte("public " + identity),
		SealedKey: []byte("sealed " + identity),
		Created:   time.Unix(1600000000, 0).UTC(),
	}
}

func compareKeyRecords(t *testing.T, got, want *keystore.Record) {
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
func (KeyStorageTests) TestWriteRead(ctx context.Context, t *testing.T, f KeyStorageFactory) {
	s := f(ctx, t)
	want := keyRecord("alice")
	if err := s.Write(ctx, want); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	got, err := s.Read(ctx, "alice")
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}
	compareKeyRecords(t, got, want)
}

// TestWriteDuplicate checks that a second key for an identity is refused.
func (KeyStorageTests) TestWriteDuplicate(ctx context.Context, t *testing.T, f KeyStorageFactory) {
	s := f(ctx, t)
	if err := s.Write(ctx, keyRecord("bob")); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	dup := keyRecord("bob")
	dup.SealedKey = []byte("other")
	if err := s.Write(ctx, dup); !errors.Is(err, keystore.ErrKeyExists) {
		t.Errorf("Write(duplicate): %v, want %v", err, keystore.ErrKeyExists)
	}
	got, err := s.Read(ctx, "bob")
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}
	compareKeyRecords(t, got, keyRecord("bob"))
}

// TestReadMissing checks the error for unknown identities.
func (KeyStorageTests) TestReadMissing(ctx context.Context, t *testing.T, f KeyStorageFactory) {
	s := f(ctx, t)
	if _, err := s.Read(ctx, "nobody"); !errors.Is(err, keystore.ErrKeyNotExist) {
		t.Errorf("Read(nobody): %v, want %v", err, keystore.ErrKeyNotExist)
	}
}

// TestListAndDelete lists records in identity order.
func (KeyStorageTests) TestListAndDelete(ctx context.Context, t *testing.T, f KeyStorageFactory) {
	s := f(ctx, t)
	for _, id := range []string{"carol", "alice", "bob"} {
		if err := s.Write(ctx, keyRecord(id)); err != nil {
			t.Fatalf("Write(%v): %v", id, err)
		}
	}
	for _, tc := range []struct {
		del  string
		want []string
	}{
		{want: []string{"alice", "bob", "carol"}},
		{del: "bob", want: []string{"alice", "carol"}},
		{del: "alice", want: []string{"carol"}},
		{del: "carol", want: []string{}},
	} {
		if tc.del != "" {
			if err := s.Delete(ctx, tc.del); err != nil {
				t.Fatalf("Delete(%v): %v", tc.del, err)
			}
		}
		recs, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List(): %v", err)
		}
		got := make([]string, 0, len(recs))
		for _, r := range recs {
			got = append(got, r.Identity)
		}
		if diff := pretty.Compare(tc.want, got); diff != "" {
			t.Errorf("List() after Delete(%q) diff (-want +got):\n%v", tc.del, diff)
		}
	}
}

// TestDeleteMissing checks the error for unknown identities.
func (KeyStorageTests) TestDeleteMissing(ctx context.Context, t *testing.T, f KeyStorageFactory) {
	s := f(ctx, t)
	if err := s.Delete(ctx, "nobody"); !errors.Is(err, keystore.ErrKeyNotExist) {
		t.Errorf("Delete(nobody): %v, want %v", err, keystore.ErrKeyNotExist)
	}
}

// TestRecordIsolation checks that callers cannot modify stored records.
func (KeyStorageTests) TestRecordIsolation(ctx context.Context, t *testing.T, f KeyStorageFactory) {
	s := f(ctx, t)
	r := keyRecord("dave")
	if err := s.Write(ctx, r); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	r.SealedKey[0] ^= 0xff
	got, err := s.Read(ctx, "dave")
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}
	got.PublicKey[0] ^= 0xff
	again, err := s.Read(ctx, "dave")
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}
	compareKeyRecords(t, again, keyRecord("dave"))
}
