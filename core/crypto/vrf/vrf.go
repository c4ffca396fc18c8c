// Copyright 2016 Google Inc. All Rights Reserved.
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

//go:generate mockgen -destination mock_vrf/mock_vrf.go -package mock_vrf github.com/google/ecvrf/core/crypto/vrf PrivateKey,PublicKey

// Package vrf defines the interface to a verifiable random function.
package vrf

import (
	"bytes"
	"crypto"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// A VRF is a pseudorandom function f_k from a secret key k, such that that
// knowledge of k not only enables one to evaluate f_k at for any message m,
// but also to provide an NP-proof that the value f_k(m) is indeed correct
// without compromising the unpredictability of f_k for any m' != m.
// http://ieeexplore.ieee.org/stamp/stamp.jsp?tp=&arnumber=814584

// FingerprintLen is the length in bytes of a VRF output.
const FingerprintLen = 32

// Fingerprint is the pseudorandom output of the VRF for one input.
type Fingerprint [FingerprintLen]byte

// PrivateKey supports evaluating the VRF function.
type PrivateKey interface {
	// Evaluate returns the output of H(f_k(m)) and its proof.
	Evaluate(m []byte) (index Fingerprint, proof []byte)
	// Public returns the corresponding public key.
	Public() crypto.PublicKey
}

// PublicKey supports verifying output from the VRF function.
type PublicKey interface {
	// ProofToHash verifies the NP-proof supplied by Proof and outputs Index.
	ProofToHash(m, proof []byte) (index Fingerprint, err error)
}

// String returns the lowercase hex encoding of f.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// MarshalText implements encoding.TextMarshaler.
func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Fingerprint) UnmarshalText(text []byte) error {
	p, err := ParseFingerprint(string(text))
	if err != nil {
		return err
	}
	*f = p
	return nil
}

// ParseFingerprint decodes the hex form produced by Fingerprint.String.
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil {
		return f, fmt.Errorf("fingerprint: %v: %w", err, ErrInvalidEncoding)
	}
	return FingerprintFromBytes(b)
}

// FingerprintFromBytes copies a FingerprintLen byte slice into a Fingerprint.
func FingerprintFromBytes(b []byte) (Fingerprint, error) {
	var f Fingerprint
	if len(b) != FingerprintLen {
		return f, fmt.Errorf("len(fingerprint): %v, want %v: %w", len(b), FingerprintLen, ErrInvalidEncoding)
	}
	copy(f[:], b)
	return f, nil
}

// UniqueID computes an unambiguous byte string for a list of labels,
// e.g. an identity and a suite name.
func UniqueID(labels ...string) []byte {
	b := new(bytes.Buffer)
	for _, l := range labels {
		binary.Write(b, binary.BigEndian, uint32(len(l)))
		b.WriteString(l)
	}
	return b.Bytes()
}
