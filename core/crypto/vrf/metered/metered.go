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

// Package metered wraps VRF keys with evaluation and verification metrics.
package metered

import (
	"crypto"
	"errors"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/trillian/monitoring"
)

const (
	suiteLabel  = "suite"
	resultLabel = "result"
)

// Verification results reported in the result label.
const (
	ResultOK               = "ok"
	ResultInvalidProof     = "invalid_proof"
	ResultInvalidEncoding  = "invalid_encoding"
	ResultInvalidPublicKey = "invalid_public_key"
	ResultError            = "error"
)

var (
	once          sync.Once
	evaluations   monitoring.Counter
	verifications monitoring.Counter
	verifyLatency monitoring.Histogram
)

func createMetrics(mf monitoring.MetricFactory) {
	evaluations = mf.NewCounter(
		"vrf_evaluations",
		"Number of VRF outputs computed for suite since process start",
		suiteLabel)
	verifications = mf.NewCounter(
		"vrf_verifications",
		"Number of VRF proofs checked for suite since process start, by result",
		suiteLabel, resultLabel)
	verifyLatency = mf.NewHistogram(
		"vrf_verify_latency_seconds",
		"Latency of VRF proof verification in seconds",
		suiteLabel)
}

func initMetrics(mf monitoring.MetricFactory) {
	if mf == nil {
		mf = monitoring.InertMetricFactory{}
	}
	once.Do(func() { createMetrics(mf) })
}

// Signer counts evaluations of a VRF private key.
type Signer struct {
	k     vrf.PrivateKey
	suite string
}

// NewSigner wraps k. Metrics are registered with mf on first use.
func NewSigner(k vrf.PrivateKey, suite string, mf monitoring.MetricFactory) *Signer {
	initMetrics(mf)
	return &Signer{k: k, suite: suite}
}

// Evaluate returns the output of H(f_k(m)) and its proof.
func (s *Signer) Evaluate(m []byte) (index vrf.Fingerprint, proof []byte) {
	index, proof = s.k.Evaluate(m)
	evaluations.Inc(s.suite)
	return index, proof
}

// Public returns the corresponding public key.
func (s *Signer) Public() crypto.PublicKey { return s.k.Public() }

// Verifier counts and times verifications with a VRF public key.
type Verifier struct {
	pk    vrf.PublicKey
	suite string
}

// NewVerifier wraps pk. Metrics are registered with mf on first use.
func NewVerifier(pk vrf.PublicKey, suite string, mf monitoring.MetricFactory) *Verifier {
	initMetrics(mf)
	return &Verifier{pk: pk, suite: suite}
}

// ProofToHash verifies proof for m and returns the VRF output.
func (v *Verifier) ProofToHash(m, proof []byte) (vrf.Fingerprint, error) {
	start := time.Now()
	index, err := v.pk.ProofToHash(m, proof)
	verifyLatency.Observe(time.Since(start).Seconds(), v.suite)
	result := Result(err)
	verifications.Inc(v.suite, result)
	if err != nil {
		glog.V(2).Infof("ProofToHash(%v): %v: %v", v.suite, result, err)
	}
	return index, err
}

// Result classifies a verification error into a metric label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, vrf.ErrInvalidPublicKey):
		return ResultInvalidPublicKey
	case errors.Is(err, vrf.ErrInvalidProof):
		return ResultInvalidProof
	case errors.Is(err, vrf.ErrInvalidEncoding):
		return ResultInvalidEncoding
	default:
		return ResultError
	}
}

var (
	_ vrf.PrivateKey = (*Signer)(nil)
	_ vrf.PublicKey  = (*Verifier)(nil)
)
