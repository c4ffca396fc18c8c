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

// Package edwards25519 implements group.Group with the prime-order subgroup
// of the edwards25519 curve. The curve has cofactor 8, so decoded points are
// checked for subgroup membership and hashed points have the cofactor
// cleared.
package edwards25519

import (
	"bytes"
	"crypto"
	_ "crypto/sha512" // SHA-512 for hashing to the group.
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"filippo.io/edwards25519"

	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/group"
)

const (
	scalarLen     = 32
	wideScalarLen = 64
	elementLen    = 32

	// maxHashAttempts bounds try-and-increment. Each attempt succeeds with
	// probability close to 1/2.
	maxHashAttempts = 256
)

var (
	// ErrNotInSubgroup occurs when a point has a non-zero torsion component.
	ErrNotInSubgroup = errors.New("point is not in the prime-order subgroup")

	// orderMinusOne is l-1, used for the subgroup check [l]P == O.
	orderMinusOne = edwards25519.NewScalar().Subtract(edwards25519.NewScalar(), one())
)

func one() *edwards25519.Scalar {
	var b [scalarLen]byte
	b[0] = 1
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b[:])
	if err != nil {
		panic(err)
	}
	return s
}

// Group is the edwards25519 prime-order subgroup. The zero value is ready to use.
type Group struct{}

// New returns the edwards25519 group.
func New() group.Group { return Group{} }

// Name implements group.Group.
func (Group) Name() string { return "edwards25519" }

// Hash implements group.Group.
func (Group) Hash() crypto.Hash { return crypto.SHA512 }

// NewScalar implements group.Group.
func (Group) NewScalar() group.Scalar { return &Scalar{s: edwards25519.NewScalar()} }

// NewElement implements group.Group.
func (Group) NewElement() group.Element { return &Element{p: edwards25519.NewIdentityPoint()} }

// Generator implements group.Group.
func (Group) Generator() group.Element { return &Element{p: edwards25519.NewGeneratorPoint()} }

// ScalarLen implements group.Group.
func (Group) ScalarLen() int { return scalarLen }

// WideScalarLen implements group.Group.
func (Group) WideScalarLen() int { return wideScalarLen }

// ElementLen implements group.Group.
func (Group) ElementLen() int { return elementLen }

// HashToElement hashes msg with a one byte counter until the output decodes
// to a curve point, then clears the cofactor. Outputs of small order are
// skipped.
func (g Group) HashToElement(msg, dst []byte) (group.Element, error) {
	in := make([]byte, len(msg)+1)
	copy(in, msg)
	for ctr := 0; ctr < maxHashAttempts; ctr++ {
		in[len(msg)] = byte(ctr)
		b, err := group.ExpandMessageXMD(g.Hash(), in, dst, elementLen)
		if err != nil {
			return nil, err
		}
		p, err := new(edwards25519.Point).SetBytes(b)
		if err != nil {
			continue // not a point
		}
		p.MultByCofactor(p)
		if p.Equal(edwards25519.NewIdentityPoint()) == 1 {
			continue
		}
		return &Element{p: p}, nil
	}
	return nil, fmt.Errorf("edwards25519: no point after %v attempts", maxHashAttempts)
}

// HashToScalar implements group.Group.
func (g Group) HashToScalar(msg, dst []byte) (group.Scalar, error) {
	return group.HashToScalar(g, msg, dst)
}

// RandomScalar implements group.Group.
func (g Group) RandomScalar(rand io.Reader) (group.Scalar, error) {
	return group.SampleScalar(g, rand, scalarLen-1, 0x1f)
}

// Scalar is an integer modulo the order l of the prime-order subgroup.
type Scalar struct {
	s *edwards25519.Scalar
}

func scalar(x group.Scalar) *edwards25519.Scalar {
	s, ok := x.(*Scalar)
	if !ok {
		panic(fmt.Sprintf("edwards25519: scalar of type %T", x))
	}
	return s.s
}

// Add implements group.Scalar.
func (s *Scalar) Add(x, y group.Scalar) group.Scalar {
	s.s.Add(scalar(x), scalar(y))
	return s
}

// Subtract implements group.Scalar.
func (s *Scalar) Subtract(x, y group.Scalar) group.Scalar {
	s.s.Subtract(scalar(x), scalar(y))
	return s
}

// Multiply implements group.Scalar.
func (s *Scalar) Multiply(x, y group.Scalar) group.Scalar {
	s.s.Multiply(scalar(x), scalar(y))
	return s
}

// Negate implements group.Scalar.
func (s *Scalar) Negate(x group.Scalar) group.Scalar {
	s.s.Negate(scalar(x))
	return s
}

// Invert implements group.Scalar.
func (s *Scalar) Invert(x group.Scalar) (group.Scalar, error) {
	if x.IsZero() {
		return nil, vrf.ErrNotInvertible
	}
	s.s.Invert(scalar(x))
	return s, nil
}

// Set implements group.Scalar.
func (s *Scalar) Set(x group.Scalar) group.Scalar {
	s.s.Set(scalar(x))
	return s
}

// SetUint64 implements group.Scalar.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var b [scalarLen]byte
	binary.LittleEndian.PutUint64(b[:], v)
	if _, err := s.s.SetCanonicalBytes(b[:]); err != nil {
		panic(err) // v < 2^64 < l
	}
	return s
}

// Equal implements group.Scalar.
func (s *Scalar) Equal(x group.Scalar) bool { return s.s.Equal(scalar(x)) == 1 }

// IsZero implements group.Scalar.
func (s *Scalar) IsZero() bool { return s.s.Equal(edwards25519.NewScalar()) == 1 }

// Zero implements group.Scalar.
func (s *Scalar) Zero() group.Scalar {
	s.s.Set(edwards25519.NewScalar())
	return s
}

// Bytes returns the 32 byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte { return s.s.Bytes() }

// SetCanonicalBytes implements group.Scalar.
func (s *Scalar) SetCanonicalBytes(b []byte) (group.Scalar, error) {
	if len(b) != scalarLen {
		return nil, fmt.Errorf("len(scalar): %v, want %v: %w", len(b), scalarLen, vrf.ErrInvalidEncoding)
	}
	if _, err := s.s.SetCanonicalBytes(b); err != nil {
		return nil, fmt.Errorf("scalar: %v: %w", err, vrf.ErrInvalidEncoding)
	}
	return s, nil
}

// SetWideBytes implements group.Scalar.
func (s *Scalar) SetWideBytes(b []byte) (group.Scalar, error) {
	if len(b) != wideScalarLen {
		return nil, fmt.Errorf("len(wide scalar): %v, want %v: %w", len(b), wideScalarLen, vrf.ErrInvalidEncoding)
	}
	if _, err := s.s.SetUniformBytes(b); err != nil {
		return nil, fmt.Errorf("wide scalar: %v: %w", err, vrf.ErrInvalidEncoding)
	}
	return s, nil
}

// Element is a point in the prime-order subgroup of edwards25519.
type Element struct {
	p *edwards25519.Point
}

func point(x group.Element) *edwards25519.Point {
	e, ok := x.(*Element)
	if !ok {
		panic(fmt.Sprintf("edwards25519: element of type %T", x))
	}
	return e.p
}

// Add implements group.Element.
func (e *Element) Add(p, q group.Element) group.Element {
	e.p.Add(point(p), point(q))
	return e
}

// Subtract implements group.Element.
func (e *Element) Subtract(p, q group.Element) group.Element {
	e.p.Subtract(point(p), point(q))
	return e
}

// Negate implements group.Element.
func (e *Element) Negate(p group.Element) group.Element {
	e.p.Negate(point(p))
	return e
}

// ScalarMult implements group.Element.
func (e *Element) ScalarMult(s group.Scalar, p group.Element) group.Element {
	e.p.ScalarMult(scalar(s), point(p))
	return e
}

// ScalarBaseMult implements group.Element.
func (e *Element) ScalarBaseMult(s group.Scalar) group.Element {
	e.p.ScalarBaseMult(scalar(s))
	return e
}

// VarTimeDoubleScalarBaseMult implements group.Element.
func (e *Element) VarTimeDoubleScalarBaseMult(a group.Scalar, A group.Element, b group.Scalar) group.Element {
	e.p.VarTimeDoubleScalarBaseMult(scalar(a), point(A), scalar(b))
	return e
}

// Set implements group.Element.
func (e *Element) Set(p group.Element) group.Element {
	e.p.Set(point(p))
	return e
}

// Equal implements group.Element.
func (e *Element) Equal(q group.Element) bool { return e.p.Equal(point(q)) == 1 }

// IsIdentity implements group.Element.
func (e *Element) IsIdentity() bool { return e.p.Equal(edwards25519.NewIdentityPoint()) == 1 }

// Bytes implements group.Element.
func (e *Element) Bytes() []byte { return e.p.Bytes() }

// SetCanonicalBytes implements group.Element. It rejects the non-canonical
// encodings that edwards25519.Point.SetBytes tolerates, and points with a
// torsion component.
func (e *Element) SetCanonicalBytes(b []byte) (group.Element, error) {
	if len(b) != elementLen {
		return nil, fmt.Errorf("len(element): %v, want %v: %w", len(b), elementLen, vrf.ErrInvalidEncoding)
	}
	p, err := new(edwards25519.Point).SetBytes(b)
	if err != nil {
		return nil, fmt.Errorf("element: %v: %w", err, vrf.ErrInvalidEncoding)
	}
	if !bytes.Equal(p.Bytes(), b) {
		return nil, fmt.Errorf("element: non-canonical encoding: %w", vrf.ErrInvalidEncoding)
	}
	if !inPrimeOrderSubgroup(p) {
		return nil, fmt.Errorf("element: %w: %w", ErrNotInSubgroup, vrf.ErrInvalidEncoding)
	}
	e.p.Set(p)
	return e, nil
}

// inPrimeOrderSubgroup reports whether [l]p is the identity.
func inPrimeOrderSubgroup(p *edwards25519.Point) bool {
	lp := new(edwards25519.Point).ScalarMult(orderMinusOne, p)
	lp.Add(lp, p)
	return lp.Equal(edwards25519.NewIdentityPoint()) == 1
}
