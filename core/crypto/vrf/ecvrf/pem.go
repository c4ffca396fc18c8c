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
	"encoding/pem"
	"errors"
	"fmt"
)

const (
	privateKeyPEMType = "VRF PRIVATE KEY"
	publicKeyPEMType  = "VRF PUBLIC KEY"
	suiteHeader       = "Suite"
)

var (
	// ErrNoPEMFound occurs when attempting to parse a non PEM data structure.
	ErrNoPEMFound = errors.New("no PEM block found")
	// ErrWrongKeyType occurs when a PEM block holds a different kind of key.
	ErrWrongKeyType = errors.New("wrong PEM block type")
)

// MarshalPEM encodes the private key as a PEM block.
func (k *PrivateKey) MarshalPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:    privateKeyPEMType,
		Headers: map[string]string{suiteHeader: k.suite.name},
		Bytes:   k.Bytes(),
	})
}

// MarshalPEM encodes the public key as a PEM block.
func (pk *PublicKey) MarshalPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:    publicKeyPEMType,
		Headers: map[string]string{suiteHeader: pk.suite.name},
		Bytes:   pk.Bytes(),
	})
}

func decodePEM(b []byte, blockType string) (*Suite, []byte, error) {
	p, _ := pem.Decode(b)
	if p == nil {
		return nil, nil, ErrNoPEMFound
	}
	if p.Type != blockType {
		return nil, nil, fmt.Errorf("%w: %q, want %q", ErrWrongKeyType, p.Type, blockType)
	}
	s, err := SuiteByName(p.Headers[suiteHeader])
	if err != nil {
		return nil, nil, err
	}
	return s, p.Bytes, nil
}

// NewVRFSignerFromPEM creates a vrf private key from a PEM data structure.
func NewVRFSignerFromPEM(b []byte) (*PrivateKey, error) {
	s, raw, err := decodePEM(b, privateKeyPEMType)
	if err != nil {
		return nil, err
	}
	return NewPrivateKey(s, raw)
}

// NewVRFVerifierFromPEM creates a vrf public key from a PEM data structure.
func NewVRFVerifierFromPEM(b []byte) (*PublicKey, error) {
	s, raw, err := decodePEM(b, publicKeyPEMType)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(s, raw)
}
