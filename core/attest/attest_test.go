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

package attest_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kylelemons/godebug/pretty"
	"golang.org/x/time/rate"

	"github.com/google/ecvrf/core/attest"
	"github.com/google/ecvrf/core/crypto/tinkio"
	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/ecvrf"
	"github.com/google/ecvrf/core/fake"
	"github.com/google/ecvrf/core/keystore"
	"github.com/google/ecvrf/core/segment"
)

type env struct {
	keys     *keystore.Manager
	store    *fake.AttestStorage
	attestor *attest.Attestor
}

func newEnv(t *testing.T, limiter *rate.Limiter, identities ...string) *env {
	t.Helper()
	ctx := context.Background()
	master, err := tinkio.MasterPBKDF("password", nil)
	if err != nil {
		t.Fatal(err)
	}
	keys := keystore.NewManager(fake.NewKeyStorage(), master, nil)
	for _, id := range identities {
		if _, err := keys.Create(ctx, id, ecvrf.Ristretto255SHA512); err != nil {
			t.Fatalf("Create(%v): %v", id, err)
		}
	}
	store := fake.NewAttestStorage()
	return &env{keys: keys, store: store, attestor: attest.New(keys, store, limiter)}
}

func TestAttest(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, "alice")
	seg := segment.New("sensor-1", "21.5")

	res, err := e.attestor.Attest(ctx, "alice", seg)
	if err != nil {
		t.Fatalf("Attest(): %v", err)
	}
	if res.Status != attest.StatusStored {
		t.Errorf("Attest().Status: %v, want %v", res.Status, attest.StatusStored)
	}
	h, err := seg.Hash()
	if err != nil {
		t.Fatal(err)
	}
	if res.SegmentHash != h {
		t.Errorf("Attest().SegmentHash: %x, want %x", res.SegmentHash, h)
	}

	// The fingerprint is the VRF output of the segment hash.
	pk, err := e.keys.PublicKey(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	fp, err := pk.ProofToHash(h[:], res.Proof)
	if err != nil {
		t.Fatalf("ProofToHash(): %v", err)
	}
	if fp != res.Fingerprint {
		t.Errorf("ProofToHash(): %v, want %v", fp, res.Fingerprint)
	}

	again, err := e.attestor.Attest(ctx, "alice", segment.New("sensor-1", "21.50"))
	if err != nil {
		t.Fatalf("Attest(again): %v", err)
	}
	if again.Status != attest.StatusAlreadyExists {
		t.Errorf("Attest(again).Status: %v, want %v", again.Status, attest.StatusAlreadyExists)
	}
	if again.Fingerprint != res.Fingerprint {
		t.Errorf("Attest(again).Fingerprint: %v, want %v", again.Fingerprint, res.Fingerprint)
	}
}

func TestAttestSameSegmentTwoIdentities(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, "alice", "bob")
	seg := segment.New("sensor-1", "21.5")

	results := make(map[string]*attest.Result)
	for _, id := range []string{"alice", "bob"} {
		res, err := e.attestor.Attest(ctx, id, seg)
		if err != nil {
			t.Fatalf("Attest(%v): %v", id, err)
		}
		if res.Status != attest.StatusStored {
			t.Errorf("Attest(%v).Status: %v, want %v", id, res.Status, attest.StatusStored)
		}
		pk, err := e.keys.PublicKey(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		fp, err := pk.ProofToHash(res.SegmentHash[:], res.Proof)
		if err != nil {
			t.Fatalf("Attest(%v).Proof does not verify under its own key: %v", id, err)
		}
		if fp != res.Fingerprint {
			t.Errorf("ProofToHash(%v): %v, want %v", id, fp, res.Fingerprint)
		}
		results[id] = res
	}
	alice, bob := results["alice"], results["bob"]
	if alice.Fingerprint == bob.Fingerprint {
		t.Errorf("alice and bob share fingerprint %v", alice.Fingerprint)
	}

	if _, err := e.attestor.VerifyClaim(ctx, "bob", seg, bob.Fingerprint); err != nil {
		t.Errorf("VerifyClaim(bob, bob's fingerprint): %v", err)
	}
	if _, err := e.attestor.VerifyClaim(ctx, "bob", seg, alice.Fingerprint); !errors.Is(err, attest.ErrClaimMismatch) {
		t.Errorf("VerifyClaim(bob, alice's fingerprint): %v, want %v", err, attest.ErrClaimMismatch)
	}
	if _, err := e.attestor.VerifyClaim(ctx, "alice", seg, alice.Fingerprint); err != nil {
		t.Errorf("VerifyClaim(alice, alice's fingerprint): %v", err)
	}
}

func TestAttestUnknownIdentity(t *testing.T) {
	e := newEnv(t, nil)
	if _, err := e.attestor.Attest(context.Background(), "nobody", segment.New("a", "1")); !errors.Is(err, keystore.ErrKeyNotExist) {
		t.Errorf("Attest(nobody): %v, want %v", err, keystore.ErrKeyNotExist)
	}
}

func TestAttestAll(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, rate.NewLimiter(rate.Inf, 1), "alice")
	segs := []segment.Segment{
		segment.New("a", "1"),
		segment.New("b", "2"),
		segment.New("a", "1.0"),
		segment.New("c", "three"),
	}
	batch, err := e.attestor.AttestAll(ctx, "alice", segs)
	if err != nil {
		t.Fatalf("AttestAll(): %v", err)
	}
	got := struct{ Processed, Skipped, Failed int }{batch.Processed, batch.Skipped, batch.Failed}
	want := struct{ Processed, Skipped, Failed int }{3, 1, 0}
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("AttestAll() counts diff (-want +got):\n%v", diff)
	}
	var statuses []attest.Status
	for _, r := range batch.Results {
		statuses = append(statuses, r.Status)
	}
	wantStatuses := []attest.Status{attest.StatusStored, attest.StatusStored, attest.StatusAlreadyExists, attest.StatusStored}
	if diff := pretty.Compare(wantStatuses, statuses); diff != "" {
		t.Errorf("AttestAll() statuses diff (-want +got):\n%v", diff)
	}

	recs, err := e.store.List(ctx, "alice", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(recs), 3; got != want {
		t.Errorf("List(): %v records, want %v", got, want)
	}

	// A second run stores nothing.
	batch, err = e.attestor.AttestAll(ctx, "alice", segs)
	if err != nil {
		t.Fatalf("AttestAll(again): %v", err)
	}
	if batch.Processed != 0 || batch.Skipped != len(segs) {
		t.Errorf("AttestAll(again): processed %v, skipped %v, want 0, %v", batch.Processed, batch.Skipped, len(segs))
	}
}

func TestAttestAllReportsFailures(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, "alice")
	segs := []segment.Segment{
		segment.New("ok", "1"),
		{Name: "bad", Value: json.Number("not a number")},
	}
	batch, err := e.attestor.AttestAll(ctx, "alice", segs)
	if err != nil {
		t.Fatalf("AttestAll(): %v", err)
	}
	if batch.Processed != 1 || batch.Failed != 1 {
		t.Errorf("AttestAll(): processed %v, failed %v, want 1, 1", batch.Processed, batch.Failed)
	}
	if r := batch.Results[1]; r.Status != attest.StatusFailed || r.Err == nil {
		t.Errorf("AttestAll() result 1: %v, %v, want failed with an error", r.Status, r.Err)
	}
}

func TestAttestAllRateLimit(t *testing.T) {
	e := newEnv(t, rate.NewLimiter(rate.Every(time.Hour), 1), "alice")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	segs := []segment.Segment{segment.New("a", "1"), segment.New("b", "2")}
	batch, err := e.attestor.AttestAll(ctx, "alice", segs)
	if err == nil {
		t.Fatalf("AttestAll() finished within the rate limit")
	}
	if batch == nil || batch.Processed != 1 {
		t.Errorf("AttestAll() processed %+v before the limit, want 1", batch)
	}
}

func TestVerifyClaim(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, "alice", "bob")
	seg := segment.New("sensor-1", "21.5")
	res, err := e.attestor.Attest(ctx, "alice", seg)
	if err != nil {
		t.Fatalf("Attest(): %v", err)
	}

	for _, tc := range []struct {
		desc     string
		identity string
		seg      segment.Segment
		claimed  vrf.Fingerprint
		wantErr  error
	}{
		{desc: "valid", identity: "alice", seg: seg, claimed: res.Fingerprint},
		{desc: "number formatting", identity: "alice", seg: segment.New("sensor-1", "21.50"), claimed: res.Fingerprint},
		{desc: "wrong fingerprint", identity: "alice", seg: seg, claimed: vrf.Fingerprint{1}, wantErr: attest.ErrClaimMismatch},
		{desc: "other identity", identity: "bob", seg: seg, claimed: res.Fingerprint, wantErr: attest.ErrNotFound},
		{desc: "unknown segment", identity: "alice", seg: segment.New("sensor-1", "99"), claimed: res.Fingerprint, wantErr: attest.ErrNotFound},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			r, err := e.attestor.VerifyClaim(ctx, tc.identity, tc.seg, tc.claimed)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("VerifyClaim(): %v, want %v", err, tc.wantErr)
			}
			if err == nil && r.Fingerprint != res.Fingerprint {
				t.Errorf("VerifyClaim().Fingerprint: %v, want %v", r.Fingerprint, res.Fingerprint)
			}
		})
	}
}

func TestVerifyClaimTamperedLedger(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, "alice")
	seg := segment.New("sensor-1", "21.5")
	res, err := e.attestor.Attest(ctx, "alice", seg)
	if err != nil {
		t.Fatalf("Attest(): %v", err)
	}
	rec, err := e.store.Read(ctx, "alice", res.SegmentHash)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.store.Delete(ctx, "alice", res.SegmentHash); err != nil {
		t.Fatal(err)
	}
	forged := vrf.Fingerprint{0xba, 0xd}
	rec.Fingerprint = forged
	if err := e.store.Write(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if _, err := e.attestor.VerifyClaim(ctx, "alice", seg, forged); !errors.Is(err, vrf.ErrInvalidProof) {
		t.Errorf("VerifyClaim(forged): %v, want %v", err, vrf.ErrInvalidProof)
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[attest.Status]string{
		attest.StatusStored:        "stored",
		attest.StatusAlreadyExists: "already_exists",
		attest.StatusFailed:        "failed",
		attest.Status(9):           "Status(9)",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String(): %v, want %v", int(s), got, want)
		}
	}
}
