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

package ecvrf

import (
	"fmt"

	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/group"
)

// Proof is a VRF proof (Gamma, c, s).
type Proof struct {
	suite *Suite
	gamma group.Element
	c, s  group.Scalar
}

// DecodeProof parses pi_string = Gamma || c || s.
func (s *Suite) DecodeProof(pi []byte) (*Proof, error) {
	eLen, sLen := s.g.ElementLen(), s.g.ScalarLen()
	if got, want := len(pi), s.ProofLen(); got != want {
		return nil, fmt.Errorf("len(pi): %v, want %v: %w", got, want, vrf.ErrInvalidEncoding)
	}
	gamma, err := s.g.NewElement().SetCanonicalBytes(pi[:eLen])
	if err != nil {
		return nil, fmt.Errorf("gamma: %w", err)
	}
	// Gamma = xH is never the identity for x != 0.
	if gamma.IsIdentity() {
		return nil, fmt.Errorf("gamma is the identity: %w", vrf.ErrInvalidEncoding)
	}
	c, err := s.g.NewScalar().SetCanonicalBytes(pi[eLen : eLen+sLen])
	if err != nil {
		return nil, fmt.Errorf("c: %w", err)
	}
	sc, err := s.g.NewScalar().SetCanonicalBytes(pi[eLen+sLen:])
	if err != nil {
		return nil, fmt.Errorf("s: %w", err)
	}
	return &Proof{suite: s, gamma: gamma, c: c, s: sc}, nil
}

// Bytes returns pi_string = Gamma || c || s.
func (p *Proof) Bytes() []byte {
	out := make([]byte, 0, p.suite.ProofLen())
	out = append(out, p.gamma.Bytes()...)
	out = append(out, p.c.Bytes()...)
	return append(out, p.s.Bytes()...)
}

// Gamma returns the encoding of Gamma = xH.
func (p *Proof) Gamma() []byte { return p.gamma.Bytes() }

// Suite returns the suite the proof was made in.
func (p *Proof) Suite() *Suite { return p.suite }

// Fingerprint returns the VRF output committed to by the proof. It does not
// verify the proof.
func (p *Proof) Fingerprint() vrf.Fingerprint {
	return p.suite.fingerprint(p.gamma)
}

// Equal reports whether p and o encode the same proof.
func (p *Proof) Equal(o *Proof) bool {
	return p.suite == o.suite && p.gamma.Equal(o.gamma) && p.c.Equal(o.c) && p.s.Equal(o.s)
}
