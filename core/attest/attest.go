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

// Package attest records VRF fingerprints of data segments and checks
// claims against the recorded fingerprints.
package attest

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"golang.org/x/time/rate"

	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/ecvrf"
	"github.com/google/ecvrf/core/segment"
)

var (
	// ErrNotFound occurs when no attestation exists for a segment.
	ErrNotFound = errors.New("attestation not found")
	// ErrAlreadyExists occurs when writing a second attestation for a segment.
	ErrAlreadyExists = errors.New("attestation already exists")
	// ErrClaimMismatch occurs when a claimed fingerprint differs from the
	// recorded one.
	ErrClaimMismatch = errors.New("claimed fingerprint does not match")
)

// Status is the outcome of attesting one segment.
type Status int

// Attestation outcomes.
const (
	StatusStored Status = iota
	StatusAlreadyExists
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusStored:
		return "stored"
	case StatusAlreadyExists:
		return "already_exists"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Record is one attestation in the ledger.
type Record struct {
	SegmentHash [segment.HashLen]byte
	Identity    string
	Fingerprint vrf.Fingerprint
	Proof       []byte
	Created     time.Time
}

// Storage persists attestations, keyed by identity and segment hash. Each
// identity keeps its own ledger.
type Storage interface {
	// Write saves r. It returns ErrAlreadyExists if r.Identity already
	// recorded the segment.
	Write(ctx context.Context, r *Record) error
	// Read returns the record of a segment for identity or ErrNotFound.
	Read(ctx context.Context, identity string, segmentHash [segment.HashLen]byte) (*Record, error)
	// List returns up to limit records of identity, oldest first. A limit
	// <= 0 returns all of them.
	List(ctx context.Context, identity string, limit int) ([]*Record, error)
	// Delete removes the record of a segment for identity.
	Delete(ctx context.Context, identity string, segmentHash [segment.HashLen]byte) error
}

// KeySource opens VRF keys by identity. keystore.Manager implements it.
type KeySource interface {
	Signer(ctx context.Context, identity string) (*ecvrf.PrivateKey, error)
	PublicKey(ctx context.Context, identity string) (*ecvrf.PublicKey, error)
}

// Result describes the attestation of one segment.
type Result struct {
	Segment     segment.Segment
	SegmentHash [segment.HashLen]byte
	Fingerprint vrf.Fingerprint
	Proof       []byte
	Status      Status
	Err         error
}

// BatchResult summarizes AttestAll.
type BatchResult struct {
	Results   []*Result
	Processed int
	Skipped   int
	Failed    int
}

// Attestor proves segments and keeps the ledger.
type Attestor struct {
	keys    KeySource
	store   Storage
	limiter *rate.Limiter
	now     func() time.Time
}

// New returns an Attestor. limiter paces ledger writes in AttestAll; nil
// means no limit.
func New(keys KeySource, store Storage, limiter *rate.Limiter) *Attestor {
	return &Attestor{keys: keys, store: store, limiter: limiter, now: time.Now}
}

// Attest proves seg with the key of identity and records the fingerprint.
// A segment that identity already recorded is not proven again. Other
// identities' records of the same segment are never consulted.
func (a *Attestor) Attest(ctx context.Context, identity string, seg segment.Segment) (*Result, error) {
	k, err := a.keys.Signer(ctx, identity)
	if err != nil {
		return nil, err
	}
	defer k.Destroy()
	return a.attest(ctx, k, identity, seg)
}

func (a *Attestor) attest(ctx context.Context, k *ecvrf.PrivateKey, identity string, seg segment.Segment) (*Result, error) {
	h, err := seg.Hash()
	if err != nil {
		return nil, err
	}
	res := &Result{Segment: seg, SegmentHash: h}

	existing, err := a.store.Read(ctx, identity, h)
	switch {
	case err == nil:
		glog.V(2).Infof("Skipping duplicate segment %x of %q", h, identity)
		res.Fingerprint = existing.Fingerprint
		res.Proof = existing.Proof
		res.Status = StatusAlreadyExists
		return res, nil
	case errors.Is(err, ErrNotFound):
	default:
		return nil, err
	}

	pi, err := k.Prove(h[:])
	if err != nil {
		return nil, err
	}
	res.Fingerprint = pi.Fingerprint()
	res.Proof = pi.Bytes()
	err = a.store.Write(ctx, &Record{
		SegmentHash: h,
		Identity:    identity,
		Fingerprint: res.Fingerprint,
		Proof:       res.Proof,
		Created:     a.now().UTC().Truncate(time.Second),
	})
	switch {
	case err == nil:
		res.Status = StatusStored
	case errors.Is(err, ErrAlreadyExists):
		// Lost a race with another writer.
		res.Status = StatusAlreadyExists
	default:
		return nil, err
	}
	return res, nil
}

// AttestAll attests segs in order with the key of identity. Failures of
// single segments are reported in their Result; AttestAll only returns an
// error if the key cannot be opened or ctx is done.
func (a *Attestor) AttestAll(ctx context.Context, identity string, segs []segment.Segment) (*BatchResult, error) {
	k, err := a.keys.Signer(ctx, identity)
	if err != nil {
		return nil, err
	}
	defer k.Destroy()

	batch := &BatchResult{Results: make([]*Result, 0, len(segs))}
	for i, seg := range segs {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return batch, err
			}
		}
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		res, err := a.attest(ctx, k, identity, seg)
		if err != nil {
			glog.Warningf("Segment %d (%q): %v", i, seg.Name, err)
			res = &Result{Segment: seg, Status: StatusFailed, Err: err}
		}
		switch res.Status {
		case StatusStored:
			batch.Processed++
		case StatusAlreadyExists:
			batch.Skipped++
		case StatusFailed:
			batch.Failed++
		}
		batch.Results = append(batch.Results, res)
	}
	glog.Infof("Attested %d segments for %q: %d stored, %d skipped, %d failed",
		len(segs), identity, batch.Processed, batch.Skipped, batch.Failed)
	return batch, nil
}

// VerifyClaim checks that claimed is the recorded fingerprint of seg for
// identity. The recorded proof is verified again with the public key of
// identity, so a tampered ledger is detected.
func (a *Attestor) VerifyClaim(ctx context.Context, identity string, seg segment.Segment, claimed vrf.Fingerprint) (*Record, error) {
	h, err := seg.Hash()
	if err != nil {
		return nil, err
	}
	r, err := a.store.Read(ctx, identity, h)
	if err != nil {
		return nil, err
	}
	pk, err := a.keys.PublicKey(ctx, identity)
	if err != nil {
		return nil, err
	}
	fp, err := pk.ProofToHash(h[:], r.Proof)
	if err != nil {
		return nil, fmt.Errorf("recorded proof of %x: %w", h, err)
	}
	if fp != r.Fingerprint {
		return nil, fmt.Errorf("recorded fingerprint of %x does not match its proof: %w", h, vrf.ErrInvalidProof)
	}
	if subtle.ConstantTimeCompare(claimed[:], fp[:]) != 1 {
		return nil, ErrClaimMismatch
	}
	return r, nil
}
