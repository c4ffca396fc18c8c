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

package vrf

import "errors"

// Errors returned by VRF implementations. Implementations add context with
// %w, so callers should compare with errors.Is.
var (
	// ErrInvalidEncoding occurs when bytes do not decode to a valid value.
	ErrInvalidEncoding = errors.New("invalid encoding")
	// ErrInvalidPublicKey occurs when a public key is off the curve,
	// outside the prime-order subgroup, or the identity.
	ErrInvalidPublicKey = errors.New("invalid VRF public key")
	// ErrInvalidProof occurs when a well-formed proof does not verify.
	ErrInvalidProof = errors.New("invalid VRF proof")
	// ErrNotInvertible occurs when inverting the zero scalar.
	ErrNotInvertible = errors.New("scalar is not invertible")
	// ErrInsufficientEntropy occurs when the randomness source fails.
	ErrInsufficientEntropy = errors.New("insufficient entropy")
)
