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
	"crypto"
	"fmt"
	"io"

	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/group"
)

// hedgeLen is the number of random bytes mixed into hedged nonces.
const hedgeLen = 32

var (
	_ vrf.PrivateKey = (*PrivateKey)(nil)
	_ vrf.PublicKey  = (*PublicKey)(nil)
)

// PublicKey holds a public VRF key Y = xB.
type PublicKey struct {
	suite *Suite
	y     group.Element
}

// PrivateKey holds a private VRF key.
type PrivateKey struct {
	PublicKey
	x group.Scalar
}

// GenerateKey samples a new private key from rand.
func GenerateKey(s *Suite, rand io.Reader) (*PrivateKey, error) {
	x, err := s.g.RandomScalar(rand)
	if err != nil {
		return nil, err
	}
	return newPrivateKey(s, x), nil
}

// NewPrivateKey decodes a private key produced by PrivateKey.Bytes.
func NewPrivateKey(s *Suite, b []byte) (*PrivateKey, error) {
	x, err := s.g.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	if x.IsZero() {
		return nil, fmt.Errorf("private key is zero: %w", vrf.ErrInvalidEncoding)
	}
	return newPrivateKey(s, x), nil
}

func newPrivateKey(s *Suite, x group.Scalar) *PrivateKey {
	return &PrivateKey{
		PublicKey: PublicKey{suite: s, y: s.g.NewElement().ScalarBaseMult(x)},
		x:         x,
	}
}

// NewPublicKey decodes a public key produced by PublicKey.Bytes. Errors wrap
// vrf.ErrInvalidPublicKey and vrf.ErrInvalidEncoding.
func NewPublicKey(s *Suite, b []byte) (*PublicKey, error) {
	pk, err := decodePublicKey(s, b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vrf.ErrInvalidPublicKey, err)
	}
	return pk, nil
}

// decodePublicKey returns the encoding error of b without a key error kind.
func decodePublicKey(s *Suite, b []byte) (*PublicKey, error) {
	y, err := s.g.NewElement().SetCanonicalBytes(b)
	if err != nil {
		return nil, err
	}
	if y.IsIdentity() {
		return nil, fmt.Errorf("identity: %w", vrf.ErrInvalidEncoding)
	}
	return &PublicKey{suite: s, y: y}, nil
}

// Public returns the public key corresponding to k.
func (k *PrivateKey) Public() crypto.PublicKey {
	return &k.PublicKey
}

// Bytes returns the encoding of the secret scalar. Keep it secret.
func (k *PrivateKey) Bytes() []byte {
	return k.x.Bytes()
}

// Destroy overwrites the secret scalar. The key must not be used afterwards.
func (k *PrivateKey) Destroy() {
	k.x.Zero()
}

// Prove computes the VRF proof for alpha with a deterministic nonce.
func (k *PrivateKey) Prove(alpha []byte) (*Proof, error) {
	return k.prove(alpha, nil)
}

// ProveHedged computes the VRF proof for alpha with a nonce that also
// depends on bytes read from rand. The output is the same as for Prove; only
// the proof differs.
func (k *PrivateKey) ProveHedged(alpha []byte, rand io.Reader) (*Proof, error) {
	extra := make([]byte, hedgeLen)
	defer group.Wipe(extra)
	if _, err := io.ReadFull(rand, extra); err != nil {
		return nil, fmt.Errorf("reading hedge: %v: %w", err, vrf.ErrInsufficientEntropy)
	}
	return k.prove(alpha, extra)
}

func (k *PrivateKey) prove(alpha, extra []byte) (*Proof, error) {
	s := k.suite
	g := s.g

	h, err := s.hashToCurve(alpha)
	if err != nil {
		return nil, err
	}
	gamma := g.NewElement().ScalarMult(k.x, h)

	nonce, err := s.nonce(k.x, h, extra)
	if err != nil {
		return nil, err
	}
	defer nonce.Zero()
	u := g.NewElement().ScalarBaseMult(nonce)
	v := g.NewElement().ScalarMult(nonce, h)

	c, err := s.challenge(h, k.y, gamma, u, v)
	if err != nil {
		return nil, err
	}
	resp := g.NewScalar().Multiply(c, k.x)
	resp.Add(resp, nonce)
	return &Proof{suite: s, gamma: gamma, c: c, s: resp}, nil
}

// Evaluate returns the VRF output for m and the encoded proof.
// It panics if hashing m to the group fails, which happens with negligible
// probability.
func (k *PrivateKey) Evaluate(m []byte) (index vrf.Fingerprint, proof []byte) {
	pi, err := k.Prove(m)
	if err != nil {
		panic(fmt.Sprintf("ecvrf: Evaluate(): %v", err))
	}
	return pi.Fingerprint(), pi.Bytes()
}

// Suite returns the suite of the key.
func (pk *PublicKey) Suite() *Suite { return pk.suite }

// Bytes returns the encoding of the public key.
func (pk *PublicKey) Bytes() []byte { return pk.y.Bytes() }

// Equal reports whether pk and x hold the same key.
func (pk *PublicKey) Equal(x crypto.PublicKey) bool {
	o, ok := x.(*PublicKey)
	if !ok || pk.suite != o.suite || pk.y == nil || o.y == nil {
		return false
	}
	return pk.y.Equal(o.y)
}

func (pk *PublicKey) check() error {
	if pk == nil || pk.suite == nil || pk.y == nil {
		return fmt.Errorf("%w: uninitialized", vrf.ErrInvalidPublicKey)
	}
	if pk.y.IsIdentity() {
		return fmt.Errorf("%w: identity", vrf.ErrInvalidPublicKey)
	}
	return nil
}

// Verify checks that pi is a valid proof for alpha under pk and returns the
// VRF output. Callers must not use an output whose proof failed to verify.
func (pk *PublicKey) Verify(alpha []byte, pi *Proof) (vrf.Fingerprint, error) {
	if err := pk.check(); err != nil {
		return vrf.Fingerprint{}, err
	}
	if pi == nil || pi.suite != pk.suite {
		return vrf.Fingerprint{}, fmt.Errorf("proof is not a %v proof: %w", pk.suite, vrf.ErrInvalidEncoding)
	}
	s := pk.suite
	g := s.g

	h, err := s.hashToCurve(alpha)
	if err != nil {
		return vrf.Fingerprint{}, err
	}
	// U = sB - cY
	negC := g.NewScalar().Negate(pi.c)
	u := g.NewElement().VarTimeDoubleScalarBaseMult(negC, pk.y, pi.s)
	// V = sH - cGamma
	v := g.NewElement().ScalarMult(pi.s, h)
	v.Subtract(v, g.NewElement().ScalarMult(pi.c, pi.gamma))

	c, err := s.challenge(h, pk.y, pi.gamma, u, v)
	if err != nil {
		return vrf.Fingerprint{}, err
	}
	if !c.Equal(pi.c) {
		return vrf.Fingerprint{}, vrf.ErrInvalidProof
	}
	return s.fingerprint(pi.gamma), nil
}

// ProofToHash decodes proof, verifies it for m and returns the VRF output.
func (pk *PublicKey) ProofToHash(m, proof []byte) (index vrf.Fingerprint, err error) {
	if err := pk.check(); err != nil {
		return vrf.Fingerprint{}, err
	}
	pi, err := pk.suite.DecodeProof(proof)
	if err != nil {
		return vrf.Fingerprint{}, err
	}
	return pk.Verify(m, pi)
}

// Verify decodes an encoded public key and proof and verifies the proof for
// alpha. A public key that fails to decode is reported only as
// vrf.ErrInvalidPublicKey.
func (s *Suite) Verify(publicKey, alpha, proof []byte) (vrf.Fingerprint, error) {
	pk, err := decodePublicKey(s, publicKey)
	if err != nil {
		return vrf.Fingerprint{}, fmt.Errorf("%w: %v", vrf.ErrInvalidPublicKey, err)
	}
	return pk.ProofToHash(alpha, proof)
}
