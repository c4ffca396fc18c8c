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

package metered

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/mock_vrf"
	"github.com/google/trillian/monitoring"
)

func TestResult(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want string
	}{
		{err: nil, want: ResultOK},
		{err: vrf.ErrInvalidProof, want: ResultInvalidProof},
		{err: fmt.Errorf("gamma: %w", vrf.ErrInvalidEncoding), want: ResultInvalidEncoding},
		{err: fmt.Errorf("%w: %w", vrf.ErrInvalidPublicKey, vrf.ErrInvalidEncoding), want: ResultInvalidPublicKey},
		{err: errors.New("boom"), want: ResultError},
	} {
		if got := Result(tc.err); got != tc.want {
			t.Errorf("Result(%v): %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestSigner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	suite := "TestSigner"

	k := mock_vrf.NewMockPrivateKey(ctrl)
	want := vrf.Fingerprint{1, 2, 3}
	k.EXPECT().Evaluate([]byte("m")).Return(want, []byte("proof")).Times(2)

	s := NewSigner(k, suite, monitoring.InertMetricFactory{})
	before := evaluations.Value(suite)
	for i := 0; i < 2; i++ {
		index, proof := s.Evaluate([]byte("m"))
		if index != want || string(proof) != "proof" {
			t.Errorf("Evaluate(): %v, %s, want %v, proof", index, proof, want)
		}
	}
	if got := evaluations.Value(suite) - before; got != 2 {
		t.Errorf("vrf_evaluations{%v}: %v, want 2", suite, got)
	}
}

func TestVerifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	suite := "TestVerifier"

	pk := mock_vrf.NewMockPublicKey(ctrl)
	gomock.InOrder(
		pk.EXPECT().ProofToHash([]byte("m"), []byte("good")).Return(vrf.Fingerprint{7}, nil),
		pk.EXPECT().ProofToHash([]byte("m"), []byte("bad")).Return(vrf.Fingerprint{}, vrf.ErrInvalidProof),
		pk.EXPECT().ProofToHash([]byte("m"), []byte("bad")).Return(vrf.Fingerprint{}, vrf.ErrInvalidProof),
	)

	v := NewVerifier(pk, suite, monitoring.InertMetricFactory{})
	okBefore := verifications.Value(suite, ResultOK)
	badBefore := verifications.Value(suite, ResultInvalidProof)
	if _, err := v.ProofToHash([]byte("m"), []byte("good")); err != nil {
		t.Errorf("ProofToHash(good): %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := v.ProofToHash([]byte("m"), []byte("bad")); !errors.Is(err, vrf.ErrInvalidProof) {
			t.Errorf("ProofToHash(bad): %v, want %v", err, vrf.ErrInvalidProof)
		}
	}
	if got := verifications.Value(suite, ResultOK) - okBefore; got != 1 {
		t.Errorf("vrf_verifications{ok}: %v, want 1", got)
	}
	if got := verifications.Value(suite, ResultInvalidProof) - badBefore; got != 2 {
		t.Errorf("vrf_verifications{invalid_proof}: %v, want 2", got)
	}
	if count, _ := verifyLatency.Info(suite); count != 3 {
		t.Errorf("vrf_verify_latency_seconds{%v} count: %v, want 3", suite, count)
	}
}
