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

package edwards25519

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/group/grouptest"
)

func TestGroup(t *testing.T) {
	grouptest.Run(t, New())
}

func TestOrderMinusOne(t *testing.T) {
	want := "ecd3f55c1a631258d69cf7a2def9de1400000000000000000000000000000010"
	if got := hex.EncodeToString(orderMinusOne.Bytes()); got != want {
		t.Errorf("orderMinusOne: %v, want %v", got, want)
	}
}

func TestGenerator(t *testing.T) {
	want := "5866666666666666666666666666666666666666666666666666666666666666"
	if got := hex.EncodeToString(New().Generator().Bytes()); got != want {
		t.Errorf("Generator(): %v, want %v", got, want)
	}
}

func TestRejectTorsion(t *testing.T) {
	g := New()
	for _, tc := range []struct {
		desc   string
		enc    string
		wantNS bool // rejected by the subgroup check
	}{
		{desc: "order 2", enc: "ecffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f", wantNS: true},
		{desc: "order 4", enc: "0000000000000000000000000000000000000000000000000000000000000000", wantNS: true},
		{desc: "order 4 negated", enc: "0000000000000000000000000000000000000000000000000000000000000080", wantNS: true},
		{desc: "order 8", enc: "26e8958fc2b227b045c3f489f2ef98f0d5dfac05d3c63339b13802886d53fc05", wantNS: true},
		{desc: "order 8 other", enc: "c7176a703d4dd84fba3c0b760d10670f2a2053fa2c39ccc64ec7fd7792ac037a", wantNS: true},
		{desc: "B + order 8", enc: "da99e28ba529cdde35a25fba9059e78ecaee239f99755b9b1aa4f65df00803e2", wantNS: true},
		{desc: "y = p", enc: "edffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f"},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			b, _ := hex.DecodeString(tc.enc)
			_, err := g.NewElement().SetCanonicalBytes(b)
			if !errors.Is(err, vrf.ErrInvalidEncoding) {
				t.Errorf("SetCanonicalBytes(%v): %v, want %v", tc.enc, err, vrf.ErrInvalidEncoding)
			}
			if got := errors.Is(err, ErrNotInSubgroup); got != tc.wantNS {
				t.Errorf("SetCanonicalBytes(%v): %v, want ErrNotInSubgroup: %v", tc.enc, err, tc.wantNS)
			}
		})
	}
}

func TestIdentityIsInSubgroup(t *testing.T) {
	g := New()
	enc := g.NewElement().Bytes()
	e, err := g.NewElement().SetCanonicalBytes(enc)
	if err != nil {
		t.Fatalf("SetCanonicalBytes(%x): %v", enc, err)
	}
	if !e.IsIdentity() {
		t.Errorf("SetCanonicalBytes(%x) is not the identity", enc)
	}
}
