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

// Package toy implements group.Group with a 127-bit Schnorr group: the
// quadratic residues modulo the safe prime p = 2^128 - 15449. It is small,
// slow and not constant time. Use it only to exercise generic code in tests.
package toy

import (
	"crypto"
	_ "crypto/sha256" // SHA-256 for hashing to the group.
	"fmt"
	"io"
	"math/big"

	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/group"
)

const (
	scalarLen       = 16
	wideScalarLen   = 32
	elementLen      = 16
	maxHashAttempts = 256
)

var (
	p, _ = new(big.Int).SetString("ffffffffffffffffffffffffffffc3a7", 16)
	// q = (p-1)/2 is prime and is the order of the group.
	q = new(big.Int).Rsh(p, 1)

	bigOne = big.NewInt(1)
	base   = big.NewInt(4)
)

// Group is the toy group. The zero value is ready to use.
type Group struct{}

// New returns the toy group.
func New() group.Group { return Group{} }

// Name implements group.Group.
func (Group) Name() string { return "toy128" }

// Hash implements group.Group.
func (Group) Hash() crypto.Hash { return crypto.SHA256 }

// NewScalar implements group.Group.
func (Group) NewScalar() group.Scalar { return &Scalar{n: new(big.Int)} }

// NewElement implements group.Group.
func (Group) NewElement() group.Element { return &Element{x: big.NewInt(1)} }

// Generator implements group.Group.
func (Group) Generator() group.Element { return &Element{x: new(big.Int).Set(base)} }

// ScalarLen implements group.Group.
func (Group) ScalarLen() int { return scalarLen }

// WideScalarLen implements group.Group.
func (Group) WideScalarLen() int { return wideScalarLen }

// ElementLen implements group.Group.
func (Group) ElementLen() int { return elementLen }

// HashToElement squares a hashed field element, retrying with a counter
// while the square is 0 or 1.
func (g Group) HashToElement(msg, dst []byte) (group.Element, error) {
	in := make([]byte, len(msg)+1)
	copy(in, msg)
	for ctr := 0; ctr < maxHashAttempts; ctr++ {
		in[len(msg)] = byte(ctr)
		b, err := group.ExpandMessageXMD(g.Hash(), in, dst, 32)
		if err != nil {
			return nil, err
		}
		u := new(big.Int).SetBytes(b)
		u.Mod(u, p)
		e := u.Mul(u, u).Mod(u, p)
		if e.Cmp(bigOne) <= 0 {
			continue
		}
		return &Element{x: e}, nil
	}
	return nil, fmt.Errorf("toy: no element after %v attempts", maxHashAttempts)
}

// HashToScalar implements group.Group.
func (g Group) HashToScalar(msg, dst []byte) (group.Scalar, error) {
	return group.HashToScalar(g, msg, dst)
}

// RandomScalar implements group.Group.
func (g Group) RandomScalar(rand io.Reader) (group.Scalar, error) {
	return group.SampleScalar(g, rand, 0, 0x7f)
}

// Scalar is an integer modulo q.
type Scalar struct {
	n *big.Int
}

func scalar(x group.Scalar) *big.Int {
	s, ok := x.(*Scalar)
	if !ok {
		panic(fmt.Sprintf("toy: scalar of type %T", x))
	}
	return s.n
}

func (s *Scalar) reduce() group.Scalar {
	s.n.Mod(s.n, q)
	return s
}

// Add implements group.Scalar.
func (s *Scalar) Add(x, y group.Scalar) group.Scalar {
	s.n.Add(scalar(x), scalar(y))
	return s.reduce()
}

// Subtract implements group.Scalar.
func (s *Scalar) Subtract(x, y group.Scalar) group.Scalar {
	s.n.Sub(scalar(x), scalar(y))
	return s.reduce()
}

// Multiply implements group.Scalar.
func (s *Scalar) Multiply(x, y group.Scalar) group.Scalar {
	s.n.Mul(scalar(x), scalar(y))
	return s.reduce()
}

// Negate implements group.Scalar.
func (s *Scalar) Negate(x group.Scalar) group.Scalar {
	s.n.Neg(scalar(x))
	return s.reduce()
}

// Invert implements group.Scalar.
func (s *Scalar) Invert(x group.Scalar) (group.Scalar, error) {
	if x.IsZero() {
		return nil, vrf.ErrNotInvertible
	}
	s.n.ModInverse(scalar(x), q)
	return s, nil
}

// Set implements group.Scalar.
func (s *Scalar) Set(x group.Scalar) group.Scalar {
	s.n.Set(scalar(x))
	return s
}

// SetUint64 implements group.Scalar.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	s.n.SetUint64(v)
	return s
}

// Equal implements group.Scalar.
func (s *Scalar) Equal(x group.Scalar) bool { return s.n.Cmp(scalar(x)) == 0 }

// IsZero implements group.Scalar.
func (s *Scalar) IsZero() bool { return s.n.Sign() == 0 }

// Zero implements group.Scalar.
func (s *Scalar) Zero() group.Scalar {
	s.n.SetInt64(0)
	return s
}

// Bytes returns the 16 byte big-endian encoding of s.
func (s *Scalar) Bytes() []byte { return s.n.FillBytes(make([]byte, scalarLen)) }

// SetCanonicalBytes implements group.Scalar.
func (s *Scalar) SetCanonicalBytes(b []byte) (group.Scalar, error) {
	if len(b) != scalarLen {
		return nil, fmt.Errorf("len(scalar): %v, want %v: %w", len(b), scalarLen, vrf.ErrInvalidEncoding)
	}
	n := new(big.Int).SetBytes(b)
	if n.Cmp(q) >= 0 {
		return nil, fmt.Errorf("scalar >= q: %w", vrf.ErrInvalidEncoding)
	}
	s.n = n
	return s, nil
}

// SetWideBytes implements group.Scalar.
func (s *Scalar) SetWideBytes(b []byte) (group.Scalar, error) {
	if len(b) != wideScalarLen {
		return nil, fmt.Errorf("len(wide scalar): %v, want %v: %w", len(b), wideScalarLen, vrf.ErrInvalidEncoding)
	}
	s.n.SetBytes(b)
	return s.reduce(), nil
}

// Element is a quadratic residue modulo p.
type Element struct {
	x *big.Int
}

func element(x group.Element) *big.Int {
	e, ok := x.(*Element)
	if !ok {
		panic(fmt.Sprintf("toy: element of type %T", x))
	}
	return e.x
}

// Add implements group.Element. The group law is multiplication mod p.
func (e *Element) Add(a, b group.Element) group.Element {
	e.x.Mul(element(a), element(b))
	e.x.Mod(e.x, p)
	return e
}

// Subtract implements group.Element.
func (e *Element) Subtract(a, b group.Element) group.Element {
	inv := new(big.Int).ModInverse(element(b), p)
	e.x.Mul(element(a), inv)
	e.x.Mod(e.x, p)
	return e
}

// Negate implements group.Element.
func (e *Element) Negate(a group.Element) group.Element {
	e.x.ModInverse(element(a), p)
	return e
}

// ScalarMult implements group.Element.
func (e *Element) ScalarMult(s group.Scalar, a group.Element) group.Element {
	e.x.Exp(element(a), scalar(s), p)
	return e
}

// ScalarBaseMult implements group.Element.
func (e *Element) ScalarBaseMult(s group.Scalar) group.Element {
	e.x.Exp(base, scalar(s), p)
	return e
}

// VarTimeDoubleScalarBaseMult implements group.Element.
func (e *Element) VarTimeDoubleScalarBaseMult(a group.Scalar, A group.Element, b group.Scalar) group.Element {
	aA := new(big.Int).Exp(element(A), scalar(a), p)
	bB := new(big.Int).Exp(base, scalar(b), p)
	e.x.Mul(aA, bB)
	e.x.Mod(e.x, p)
	return e
}

// Set implements group.Element.
func (e *Element) Set(a group.Element) group.Element {
	e.x.Set(element(a))
	return e
}

// Equal implements group.Element.
func (e *Element) Equal(b group.Element) bool { return e.x.Cmp(element(b)) == 0 }

// IsIdentity implements group.Element.
func (e *Element) IsIdentity() bool { return e.x.Cmp(bigOne) == 0 }

// Bytes implements group.Element.
func (e *Element) Bytes() []byte { return e.x.FillBytes(make([]byte, elementLen)) }

// SetCanonicalBytes implements group.Element. Valid encodings are
// 1 <= x < p with x^q = 1.
func (e *Element) SetCanonicalBytes(b []byte) (group.Element, error) {
	if len(b) != elementLen {
		return nil, fmt.Errorf("len(element): %v, want %v: %w", len(b), elementLen, vrf.ErrInvalidEncoding)
	}
	x := new(big.Int).SetBytes(b)
	if x.Sign() == 0 || x.Cmp(p) >= 0 {
		return nil, fmt.Errorf("element out of range: %w", vrf.ErrInvalidEncoding)
	}
	if new(big.Int).Exp(x, q, p).Cmp(bigOne) != 0 {
		return nil, fmt.Errorf("element is not a quadratic residue: %w", vrf.ErrInvalidEncoding)
	}
	e.x = x
	return e, nil
}
