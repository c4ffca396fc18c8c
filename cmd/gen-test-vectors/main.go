// Copyright 2018 Google Inc. All Rights Reserved.
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

// Binary gen-test-vectors regenerates core/testvectors/ecvrf_vectors.json.
//
//	go run ./cmd/gen-test-vectors
package main

import (
	"encoding/hex"
	"flag"
	"fmt"

	"github.com/golang/glog"

	"github.com/google/ecvrf/core/crypto/vrf/ecvrf"
	"github.com/google/ecvrf/core/crypto/vrf/group/toy"
	"github.com/google/ecvrf/core/testvectors"
)

var output = flag.String("output", "", "Vector file to write. Defaults to the file in core/testvectors")

// Fixed secret keys, in the scalar encoding of the group, keyed by length.
var fixedKeys = map[int]string{
	32: "7e6d5c4b3a291807f6e5d4c3b2a1908f7e6d5c4b3a291807f6e4d3192f7c5b0a",
	16: "3c1f00d5e2a94b7788a1b2c3d4e5f607",
}

var alphas = [][]byte{[]byte("hello"), []byte(""), []byte("sample")}

func main() {
	flag.Parse()

	path := *output
	if path == "" {
		p, err := testvectors.DefaultPath()
		if err != nil {
			glog.Exitf("DefaultPath(): %v", err)
		}
		path = p
	}

	suites := []*ecvrf.Suite{
		ecvrf.Ristretto255SHA512,
		ecvrf.Edwards25519SHA512TAI,
		ecvrf.NewSuite("ECVRF-TOY128-SHA256", 0xFF, toy.New()),
	}
	var vectors []testvectors.Vector
	for _, s := range suites {
		v, err := suiteVectors(s)
		if err != nil {
			glog.Exitf("%v: %v", s, err)
		}
		vectors = append(vectors, v...)
	}
	if err := testvectors.WriteVectors(path, vectors); err != nil {
		glog.Exitf("WriteVectors(%v): %v", path, err)
	}
	glog.Infof("Wrote %d vectors to %v", len(vectors), path)
}

// secretKeys returns the keys 1, 2 and a fixed larger key of s.
func secretKeys(s *ecvrf.Suite) ([][]byte, error) {
	g := s.Group()
	fixed, err := hex.DecodeString(fixedKeys[s.PrivateKeyLen()])
	if err != nil {
		return nil, err
	}
	if len(fixed) != s.PrivateKeyLen() {
		return nil, fmt.Errorf("no fixed key of length %d", s.PrivateKeyLen())
	}
	return [][]byte{
		g.NewScalar().SetUint64(1).Bytes(),
		g.NewScalar().SetUint64(2).Bytes(),
		fixed,
	}, nil
}

func suiteVectors(s *ecvrf.Suite) ([]testvectors.Vector, error) {
	keys, err := secretKeys(s)
	if err != nil {
		return nil, err
	}
	var vectors []testvectors.Vector
	for _, sk := range keys {
		k, err := ecvrf.NewPrivateKey(s, sk)
		if err != nil {
			return nil, fmt.Errorf("NewPrivateKey(%x): %v", sk, err)
		}
		pk := k.Public().(*ecvrf.PublicKey)
		for _, alpha := range alphas {
			h, err := s.HashToCurve(alpha)
			if err != nil {
				return nil, err
			}
			pi, err := k.Prove(alpha)
			if err != nil {
				return nil, err
			}
			vectors = append(vectors, testvectors.Vector{
				Suite:       s.Name(),
				SK:          hex.EncodeToString(sk),
				PK:          hex.EncodeToString(pk.Bytes()),
				Alpha:       hex.EncodeToString(alpha),
				H:           hex.EncodeToString(h),
				Gamma:       hex.EncodeToString(pi.Gamma()),
				Proof:       hex.EncodeToString(pi.Bytes()),
				Fingerprint: pi.Fingerprint().String(),
			})
		}
	}
	return vectors, nil
}
