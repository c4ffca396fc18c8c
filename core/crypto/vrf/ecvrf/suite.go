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

// Package ecvrf implements a verifiable random function over a prime-order
// group using a Chaum-Pedersen proof of discrete log equality made
// non-interactive with the Fiat-Shamir transform.
//
// With secret key x, public key Y = xB and input alpha:
//
//	H     = hash_to_group(alpha)
//	Gamma = xH
//	k     = nonce(x, H)
//	c     = hash_to_scalar(B, H, Y, Gamma, kB, kH)
//	s     = k + cx
//	proof = Gamma || c || s
//	output = Hash(suite_id || 0x03 || Gamma || 0x00)[:32]
package ecvrf

import (
	"errors"
	"fmt"

	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/group"
	"github.com/google/ecvrf/core/crypto/vrf/group/edwards25519"
	"github.com/google/ecvrf/core/crypto/vrf/group/ristretto255"
)

const (
	hashToCurveTag = "VRF-H"
	challengeTag   = "VRF-C"

	proofToHashDomainStart = 0x03
	proofToHashDomainEnd   = 0x00
)

// ErrUnknownSuite occurs when looking up a suite that is not registered.
var ErrUnknownSuite = errors.New("unknown VRF suite")

// Suite binds a group and its hash function to a name and a one byte
// identifier. Both are mixed into every hash, so outputs of different suites
// are independent.
type Suite struct {
	name string
	id   byte
	g    group.Group

	hashToCurveDST []byte
	challengeDST   []byte
}

// NewSuite returns a suite over g.
func NewSuite(name string, id byte, g group.Group) *Suite {
	return &Suite{
		name:           name,
		id:             id,
		g:              g,
		hashToCurveDST: []byte(name + "_" + hashToCurveTag),
		challengeDST:   []byte(name + "_" + challengeTag),
	}
}

var (
	// Ristretto255SHA512 is the recommended suite.
	Ristretto255SHA512 = NewSuite("ECVRF-RISTRETTO255-SHA512", 0x10, ristretto255.New())
	// Edwards25519SHA512TAI works on the prime-order subgroup of
	// edwards25519, for callers that need Ed25519-compatible public keys.
	Edwards25519SHA512TAI = NewSuite("ECVRF-EDWARDS25519-SHA512-TAI", 0x11, edwards25519.New())

	suites = []*Suite{Ristretto255SHA512, Edwards25519SHA512TAI}
)

// SuiteByName returns the registered suite called name.
func SuiteByName(name string) (*Suite, error) {
	for _, s := range suites {
		if s.name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSuite, name)
}

// SuiteNames lists the registered suites.
func SuiteNames() []string {
	names := make([]string, 0, len(suites))
	for _, s := range suites {
		names = append(names, s.name)
	}
	return names
}

// Name returns the suite name.
func (s *Suite) Name() string { return s.name }

// ID returns the suite identifier.
func (s *Suite) ID() byte { return s.id }

// Group returns the group the suite works in.
func (s *Suite) Group() group.Group { return s.g }

// PublicKeyLen is the length of an encoded public key.
func (s *Suite) PublicKeyLen() int { return s.g.ElementLen() }

// PrivateKeyLen is the length of an encoded private key.
func (s *Suite) PrivateKeyLen() int { return s.g.ScalarLen() }

// ProofLen is the length of an encoded proof.
func (s *Suite) ProofLen() int { return s.g.ElementLen() + 2*s.g.ScalarLen() }

func (s *Suite) String() string { return s.name }

// HashToCurve returns the encoding of H, the group element alpha is mapped to
// before proving.
func (s *Suite) HashToCurve(alpha []byte) ([]byte, error) {
	h, err := s.hashToCurve(alpha)
	if err != nil {
		return nil, err
	}
	return h.Bytes(), nil
}

// hashToCurve computes H for the input alpha.
func (s *Suite) hashToCurve(alpha []byte) (group.Element, error) {
	return s.g.HashToElement(alpha, s.hashToCurveDST)
}

// challenge computes the Fiat-Shamir challenge c over the transcript
// B || H || Y || Gamma || U || V.
func (s *Suite) challenge(h, y, gamma, u, v group.Element) (group.Scalar, error) {
	n := s.g.ElementLen()
	msg := make([]byte, 0, 6*n)
	for _, p := range []group.Element{s.g.Generator(), h, y, gamma, u, v} {
		msg = append(msg, p.Bytes()...)
	}
	return s.g.HashToScalar(msg, s.challengeDST)
}

// fingerprint derives the VRF output from Gamma. Prove and Verify both go
// through this function.
func (s *Suite) fingerprint(gamma group.Element) vrf.Fingerprint {
	h := s.g.Hash().New()
	h.Write([]byte{s.id, proofToHashDomainStart})
	h.Write(gamma.Bytes())
	h.Write([]byte{proofToHashDomainEnd})
	var f vrf.Fingerprint
	copy(f[:], h.Sum(nil))
	return f
}
