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

// Package group defines the prime-order group capability the VRF is built on.
//
// Scalars and elements follow the receiver style of filippo.io/edwards25519:
// v.Add(x, y) sets v = x + y and returns v. Arguments must come from the same
// Group; mixing implementations panics.
package group

import (
	"crypto"
	"io"
)

// Scalar is an integer modulo the group order q.
type Scalar interface {
	Add(x, y Scalar) Scalar
	Subtract(x, y Scalar) Scalar
	Multiply(x, y Scalar) Scalar
	Negate(x Scalar) Scalar
	// Invert sets the receiver to 1/x. It returns ErrNotInvertible if x is zero.
	Invert(x Scalar) (Scalar, error)
	Set(x Scalar) Scalar
	SetUint64(v uint64) Scalar
	Equal(x Scalar) bool
	IsZero() bool
	// Zero overwrites the receiver with 0.
	Zero() Scalar
	// Bytes returns the canonical ScalarLen encoding.
	Bytes() []byte
	// SetCanonicalBytes decodes a canonical ScalarLen encoding of a value < q.
	SetCanonicalBytes(b []byte) (Scalar, error)
	// SetWideBytes reduces a WideScalarLen byte string modulo q.
	SetWideBytes(b []byte) (Scalar, error)
}

// Element is a member of the prime-order subgroup.
type Element interface {
	Add(p, q Element) Element
	Subtract(p, q Element) Element
	Negate(p Element) Element
	// ScalarMult sets the receiver to s * p in constant time.
	ScalarMult(s Scalar, p Element) Element
	// ScalarBaseMult sets the receiver to s * B in constant time.
	ScalarBaseMult(s Scalar) Element
	// VarTimeDoubleScalarBaseMult sets the receiver to a * A + b * B.
	// Execution time depends on the inputs; use only with public values.
	VarTimeDoubleScalarBaseMult(a Scalar, A Element, b Scalar) Element
	Set(p Element) Element
	Equal(q Element) bool
	IsIdentity() bool
	// Bytes returns the canonical ElementLen encoding.
	Bytes() []byte
	// SetCanonicalBytes decodes b, rejecting non-canonical encodings, points
	// off the curve and points outside the prime-order subgroup.
	SetCanonicalBytes(b []byte) (Element, error)
}

// Group is a prime-order group together with its hash functions.
type Group interface {
	// Name identifies the group, e.g. "ristretto255".
	Name() string
	// Hash is the hash function used for hashing to the group.
	Hash() crypto.Hash
	// NewScalar returns the zero scalar.
	NewScalar() Scalar
	// NewElement returns the identity element.
	NewElement() Element
	// Generator returns a new copy of the base point B.
	Generator() Element
	ScalarLen() int
	WideScalarLen() int
	ElementLen() int
	// HashToElement maps msg to a non-identity element of the prime-order
	// subgroup. Distinct dst values give independent maps.
	HashToElement(msg, dst []byte) (Element, error)
	// HashToScalar maps msg to a scalar in [0, q).
	HashToScalar(msg, dst []byte) (Scalar, error)
	// RandomScalar returns a uniformly random scalar in [1, q).
	RandomScalar(rand io.Reader) (Scalar, error)
}

// IsOnCurve reports whether b is the canonical encoding of an element of
// the prime-order subgroup of g.
func IsOnCurve(g Group, b []byte) bool {
	_, err := g.NewElement().SetCanonicalBytes(b)
	return err == nil
}

// HashToScalar implements Group.HashToScalar for groups that reduce
// WideScalarLen uniform bytes.
func HashToScalar(g Group, msg, dst []byte) (Scalar, error) {
	u, err := ExpandMessageXMD(g.Hash(), msg, dst, g.WideScalarLen())
	if err != nil {
		return nil, err
	}
	return g.NewScalar().SetWideBytes(u)
}
