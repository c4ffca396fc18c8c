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

// Package grouptest checks that a group.Group implementation satisfies the
// properties the VRF relies on.
package grouptest

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/group"
)

// Run runs the conformance tests against g.
func Run(t *testing.T, g group.Group) {
	t.Run("ScalarArithmetic", func(t *testing.T) { testScalarArithmetic(t, g) })
	t.Run("ScalarEncoding", func(t *testing.T) { testScalarEncoding(t, g) })
	t.Run("ElementArithmetic", func(t *testing.T) { testElementArithmetic(t, g) })
	t.Run("ElementEncoding", func(t *testing.T) { testElementEncoding(t, g) })
	t.Run("HashToElement", func(t *testing.T) { testHashToElement(t, g) })
	t.Run("HashToScalar", func(t *testing.T) { testHashToScalar(t, g) })
	t.Run("RandomScalar", func(t *testing.T) { testRandomScalar(t, g) })
}

func randomScalar(t *testing.T, g group.Group) group.Scalar {
	t.Helper()
	s, err := g.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar(): %v", err)
	}
	return s
}

func testScalarArithmetic(t *testing.T, g group.Group) {
	a, b := randomScalar(t, g), randomScalar(t, g)
	one := g.NewScalar().SetUint64(1)

	sum := g.NewScalar().Add(a, b)
	if got := g.NewScalar().Subtract(sum, b); !got.Equal(a) {
		t.Errorf("(a + b) - b = %x, want %x", got.Bytes(), a.Bytes())
	}
	if got := g.NewScalar().Add(a, g.NewScalar().Negate(a)); !got.IsZero() {
		t.Errorf("a + (-a) = %x, want 0", got.Bytes())
	}
	inv, err := g.NewScalar().Invert(a)
	if err != nil {
		t.Fatalf("Invert(a): %v", err)
	}
	if got := g.NewScalar().Multiply(a, inv); !got.Equal(one) {
		t.Errorf("a * 1/a = %x, want 1", got.Bytes())
	}
	if _, err := g.NewScalar().Invert(g.NewScalar()); !errors.Is(err, vrf.ErrNotInvertible) {
		t.Errorf("Invert(0): %v, want %v", err, vrf.ErrNotInvertible)
	}
	// Receivers may alias arguments.
	c := g.NewScalar().Set(a)
	c.Add(c, c)
	if want := g.NewScalar().Multiply(a, g.NewScalar().SetUint64(2)); !c.Equal(want) {
		t.Errorf("c.Add(c, c) = %x, want %x", c.Bytes(), want.Bytes())
	}
	c.Zero()
	if !c.IsZero() {
		t.Errorf("Zero(): %x, want 0", c.Bytes())
	}
	if a.IsZero() {
		t.Errorf("Zero() on a copy changed the original")
	}
}

func testScalarEncoding(t *testing.T, g group.Group) {
	a := randomScalar(t, g)
	enc := a.Bytes()
	if got, want := len(enc), g.ScalarLen(); got != want {
		t.Fatalf("len(Bytes()): %v, want %v", got, want)
	}
	got, err := g.NewScalar().SetCanonicalBytes(enc)
	if err != nil {
		t.Fatalf("SetCanonicalBytes(%x): %v", enc, err)
	}
	if !got.Equal(a) {
		t.Errorf("SetCanonicalBytes(Bytes()): %x, want %x", got.Bytes(), enc)
	}
	for _, tc := range []struct {
		desc string
		b    []byte
	}{
		{"short", enc[1:]},
		{"long", append(enc, 0)},
		{"all ones", bytes.Repeat([]byte{0xff}, g.ScalarLen())},
	} {
		if _, err := g.NewScalar().SetCanonicalBytes(tc.b); !errors.Is(err, vrf.ErrInvalidEncoding) {
			t.Errorf("SetCanonicalBytes(%v): %v, want %v", tc.desc, err, vrf.ErrInvalidEncoding)
		}
	}
	if _, err := g.NewScalar().SetWideBytes(make([]byte, g.WideScalarLen()-1)); !errors.Is(err, vrf.ErrInvalidEncoding) {
		t.Errorf("SetWideBytes(short): %v, want %v", err, vrf.ErrInvalidEncoding)
	}
	wide, err := g.NewScalar().SetWideBytes(bytes.Repeat([]byte{0xff}, g.WideScalarLen()))
	if err != nil {
		t.Fatalf("SetWideBytes(all ones): %v", err)
	}
	if _, err := g.NewScalar().SetCanonicalBytes(wide.Bytes()); err != nil {
		t.Errorf("SetWideBytes output is not canonical: %v", err)
	}
}

func testElementArithmetic(t *testing.T, g group.Group) {
	a, b := randomScalar(t, g), randomScalar(t, g)
	B := g.Generator()
	if B.IsIdentity() {
		t.Fatalf("Generator() is the identity")
	}
	if !g.NewElement().IsIdentity() {
		t.Errorf("NewElement() is not the identity")
	}

	aB := g.NewElement().ScalarBaseMult(a)
	if got := g.NewElement().ScalarMult(a, B); !got.Equal(aB) {
		t.Errorf("ScalarMult(a, B) != ScalarBaseMult(a)")
	}
	// (a + b)B = aB + bB
	sum := g.NewElement().ScalarBaseMult(g.NewScalar().Add(a, b))
	if got := g.NewElement().Add(aB, g.NewElement().ScalarBaseMult(b)); !got.Equal(sum) {
		t.Errorf("aB + bB != (a + b)B")
	}
	if got := g.NewElement().Subtract(sum, g.NewElement().ScalarBaseMult(b)); !got.Equal(aB) {
		t.Errorf("(a + b)B - bB != aB")
	}
	if got := g.NewElement().Add(aB, g.NewElement().Negate(aB)); !got.IsIdentity() {
		t.Errorf("aB + (-aB) is not the identity")
	}
	// a(bB) + bB via the variable time path.
	bB := g.NewElement().ScalarBaseMult(b)
	want := g.NewElement().Add(g.NewElement().ScalarMult(a, bB), bB)
	if got := g.NewElement().VarTimeDoubleScalarBaseMult(a, bB, b); !got.Equal(want) {
		t.Errorf("VarTimeDoubleScalarBaseMult(a, bB, b) != a(bB) + bB")
	}
	if got := g.NewElement().ScalarBaseMult(g.NewScalar()); !got.IsIdentity() {
		t.Errorf("0B is not the identity")
	}
	c := g.NewElement().Set(aB)
	c.Add(c, c)
	if want := g.NewElement().ScalarBaseMult(g.NewScalar().Add(a, a)); !c.Equal(want) {
		t.Errorf("c.Add(c, c) != 2aB")
	}
}

func testElementEncoding(t *testing.T, g group.Group) {
	for i := 0; i < 16; i++ {
		e := g.NewElement().ScalarBaseMult(randomScalar(t, g))
		enc := e.Bytes()
		if got, want := len(enc), g.ElementLen(); got != want {
			t.Fatalf("len(Bytes()): %v, want %v", got, want)
		}
		got, err := g.NewElement().SetCanonicalBytes(enc)
		if err != nil {
			t.Fatalf("SetCanonicalBytes(%x): %v", enc, err)
		}
		if !got.Equal(e) {
			t.Errorf("SetCanonicalBytes(Bytes()) != original")
		}
		if !group.IsOnCurve(g, enc) {
			t.Errorf("IsOnCurve(%x): false, want true", enc)
		}
	}
	enc := g.Generator().Bytes()
	for _, tc := range []struct {
		desc string
		b    []byte
	}{
		{"empty", nil},
		{"short", enc[1:]},
		{"long", append(enc, 0)},
		{"all ones", bytes.Repeat([]byte{0xff}, g.ElementLen())},
	} {
		if _, err := g.NewElement().SetCanonicalBytes(tc.b); !errors.Is(err, vrf.ErrInvalidEncoding) {
			t.Errorf("SetCanonicalBytes(%v): %v, want %v", tc.desc, err, vrf.ErrInvalidEncoding)
		}
		if group.IsOnCurve(g, tc.b) {
			t.Errorf("IsOnCurve(%v): true, want false", tc.desc)
		}
	}
}

func testHashToElement(t *testing.T, g group.Group) {
	dst := []byte("grouptest-" + g.Name())
	seen := make(map[string]bool)
	for _, msg := range []string{"", "a", "b", "hello", "hello\x00"} {
		h1, err := g.HashToElement([]byte(msg), dst)
		if err != nil {
			t.Fatalf("HashToElement(%q): %v", msg, err)
		}
		h2, err := g.HashToElement([]byte(msg), dst)
		if err != nil {
			t.Fatalf("HashToElement(%q): %v", msg, err)
		}
		if !h1.Equal(h2) {
			t.Errorf("HashToElement(%q) is not deterministic", msg)
		}
		if h1.IsIdentity() {
			t.Errorf("HashToElement(%q) is the identity", msg)
		}
		if _, err := g.NewElement().SetCanonicalBytes(h1.Bytes()); err != nil {
			t.Errorf("HashToElement(%q) is not a valid element: %v", msg, err)
		}
		if seen[string(h1.Bytes())] {
			t.Errorf("HashToElement(%q) collides", msg)
		}
		seen[string(h1.Bytes())] = true

		other, err := g.HashToElement([]byte(msg), append(dst, 'x'))
		if err != nil {
			t.Fatalf("HashToElement(%q): %v", msg, err)
		}
		if other.Equal(h1) {
			t.Errorf("HashToElement(%q) ignores the domain separation tag", msg)
		}
	}
}

func testHashToScalar(t *testing.T, g group.Group) {
	dst := []byte("grouptest-" + g.Name())
	s1, err := g.HashToScalar([]byte("msg"), dst)
	if err != nil {
		t.Fatalf("HashToScalar(): %v", err)
	}
	s2, err := g.HashToScalar([]byte("msg"), dst)
	if err != nil {
		t.Fatalf("HashToScalar(): %v", err)
	}
	if !s1.Equal(s2) {
		t.Errorf("HashToScalar() is not deterministic")
	}
	s3, err := g.HashToScalar([]byte("msg"), append(dst, 'x'))
	if err != nil {
		t.Fatalf("HashToScalar(): %v", err)
	}
	if s1.Equal(s3) {
		t.Errorf("HashToScalar() ignores the domain separation tag")
	}
}

type zeroReader struct{}

func (zeroReader) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = 0
	}
	return len(b), nil
}

func testRandomScalar(t *testing.T, g group.Group) {
	a, b := randomScalar(t, g), randomScalar(t, g)
	if a.Equal(b) {
		t.Errorf("RandomScalar() returned the same scalar twice")
	}
	for _, tc := range []struct {
		desc string
		r    io.Reader
	}{
		{"zeros", zeroReader{}},
		{"short", bytes.NewReader(make([]byte, g.ScalarLen()-1))},
		{"error", iotest.ErrReader(errors.New("entropy source closed"))},
	} {
		if _, err := g.RandomScalar(tc.r); !errors.Is(err, vrf.ErrInsufficientEntropy) {
			t.Errorf("RandomScalar(%v): %v, want %v", tc.desc, err, vrf.ErrInsufficientEntropy)
		}
	}
}
