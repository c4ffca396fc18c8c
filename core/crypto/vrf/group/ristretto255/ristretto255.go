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

// Package ristretto255 implements group.Group with the ristretto255
// prime-order group of RFC 9496.
package ristretto255

import (
	"crypto"
	_ "crypto/sha512" // SHA-512 for hashing to the group.
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gtank/ristretto255"

	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/group"
)

const (
	scalarLen     = 32
	wideScalarLen = 64
	elementLen    = 32
)

// Group is the ristretto255 group. The zero value is ready to use.
type Group struct{}

// New returns the ristretto255 group.
func New() group.Group { return Group{} }

// Name implements group.Group.
func (Group) Name() string { return "ristretto255" }

// Hash implements group.Group.
func (Group) Hash() crypto.Hash { return crypto.SHA512 }

// NewScalar implements group.Group.
func (Group) NewScalar() group.Scalar { return &Scalar{s: ristretto255.NewScalar()} }

// NewElement implements group.Group.
func (Group) NewElement() group.Element { return &Element{e: ristretto255.NewIdentityElement()} }

// Generator implements group.Group.
func (Group) Generator() group.Element { return &Element{e: ristretto255.NewGeneratorElement()} }

// ScalarLen implements group.Group.
func (Group) ScalarLen() int { return scalarLen }

// WideScalarLen implements group.Group.
func (Group) WideScalarLen() int { return wideScalarLen }

// ElementLen implements group.Group.
func (Group) ElementLen() int { return elementLen }

// HashToElement maps expand_message_xmd output with the one-way map of
// RFC 9496 section 4.3.4.
func (g Group) HashToElement(msg, dst []byte) (group.Element, error) {
	u, err := group.ExpandMessageXMD(g.Hash(), msg, dst, 64)
	if err != nil {
		return nil, err
	}
	e, err := ristretto255.NewIdentityElement().SetUniformBytes(u)
	if err != nil {
		return nil, err
	}
	return &Element{e: e}, nil
}

// HashToScalar implements group.Group.
func (g Group) HashToScalar(msg, dst []byte) (group.Scalar, error) {
	return group.HashToScalar(g, msg, dst)
}

// RandomScalar implements group.Group. The order is just above 2^252, so
// masking to 253 bits accepts about half of the candidates.
func (g Group) RandomScalar(rand io.Reader) (group.Scalar, error) {
	return group.SampleScalar(g, rand, scalarLen-1, 0x1f)
}

// Scalar is a ristretto255 scalar.
type Scalar struct {
	s *ristretto255.Scalar
}

func scalar(x group.Scalar) *ristretto255.Scalar {
	s, ok := x.(*Scalar)
	if !ok {
		panic(fmt.Sprintf("ristretto255: scalar of type %T", x))
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
	s.s.Add(scalar(x), ristretto255.NewScalar())
	return s
}

// SetUint64 implements group.Scalar.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var b [scalarLen]byte
	binary.LittleEndian.PutUint64(b[:], v)
	if _, err := s.s.SetCanonicalBytes(b[:]); err != nil {
		panic(err) // v < 2^64 < q
	}
	return s
}

// Equal implements group.Scalar.
func (s *Scalar) Equal(x group.Scalar) bool { return s.s.Equal(scalar(x)) == 1 }

// IsZero implements group.Scalar.
func (s *Scalar) IsZero() bool { return s.s.Equal(ristretto255.NewScalar()) == 1 }

// Zero implements group.Scalar.
func (s *Scalar) Zero() group.Scalar {
	s.s.Subtract(s.s, s.s)
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

// Element is a ristretto255 group element.
type Element struct {
	e *ristretto255.Element
}

func element(x group.Element) *ristretto255.Element {
	e, ok := x.(*Element)
	if !ok {
		panic(fmt.Sprintf("ristretto255: element of type %T", x))
	}
	return e.e
}

// Add implements group.Element.
func (e *Element) Add(p, q group.Element) group.Element {
	e.e.Add(element(p), element(q))
	return e
}

// Subtract implements group.Element.
func (e *Element) Subtract(p, q group.Element) group.Element {
	e.e.Subtract(element(p), element(q))
	return e
}

// Negate implements group.Element.
func (e *Element) Negate(p group.Element) group.Element {
	e.e.Negate(element(p))
	return e
}

// ScalarMult implements group.Element.
func (e *Element) ScalarMult(s group.Scalar, p group.Element) group.Element {
	e.e.ScalarMult(scalar(s), element(p))
	return e
}

// ScalarBaseMult implements group.Element.
func (e *Element) ScalarBaseMult(s group.Scalar) group.Element {
	e.e.ScalarBaseMult(scalar(s))
	return e
}

// VarTimeDoubleScalarBaseMult implements group.Element.
func (e *Element) VarTimeDoubleScalarBaseMult(a group.Scalar, A group.Element, b group.Scalar) group.Element {
	e.e.VarTimeDoubleScalarBaseMult(scalar(a), element(A), scalar(b))
	return e
}

// Set implements group.Element.
func (e *Element) Set(p group.Element) group.Element {
	e.e.Add(element(p), ristretto255.NewIdentityElement())
	return e
}

// Equal implements group.Element.
func (e *Element) Equal(q group.Element) bool { return e.e.Equal(element(q)) == 1 }

// IsIdentity implements group.Element.
func (e *Element) IsIdentity() bool { return e.e.Equal(ristretto255.NewIdentityElement()) == 1 }

// Bytes implements group.Element.
func (e *Element) Bytes() []byte { return e.e.Bytes() }

// SetCanonicalBytes implements group.Element. Every valid ristretto255
// encoding is already an element of the prime-order group.
func (e *Element) SetCanonicalBytes(b []byte) (group.Element, error) {
	if len(b) != elementLen {
		return nil, fmt.Errorf("len(element): %v, want %v: %w", len(b), elementLen, vrf.ErrInvalidEncoding)
	}
	if _, err := e.e.SetCanonicalBytes(b); err != nil {
		return nil, fmt.Errorf("element: %v: %w", err, vrf.ErrInvalidEncoding)
	}
	return e, nil
}
