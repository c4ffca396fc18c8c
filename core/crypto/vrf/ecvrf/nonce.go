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
	"bytes"
	"crypto"
	"crypto/hmac"

	"github.com/google/ecvrf/core/crypto/vrf/group"
)

// nonce derives the proof nonce k from the secret scalar x and the point H
// with the HMAC_DRBG construction of RFC 6979 section 3.2, keyed with the
// suite hash. Candidates are WideScalarLen bytes reduced modulo q, which
// replaces the bits2int rejection loop of step h.3 except for k = 0.
//
// extra is the optional additional data k' of RFC 6979 section 3.6. A
// random extra gives a hedged nonce that is still safe if the randomness
// source is broken.
func (s *Suite) nonce(x group.Scalar, h group.Element, extra []byte) (group.Scalar, error) {
	hash := s.g.Hash()

	// a.  Process m through the hash function H, yielding: h1 = H(m)
	hm := hash.New()
	hm.Write(h.Bytes())
	h1 := hm.Sum(nil)

	xb := x.Bytes()
	defer group.Wipe(xb)

	// b.  Set: V = 0x01 0x01 0x01 ... 0x01
	V := bytes.Repeat([]byte{0x01}, hash.Size())

	// c.  Set: K = 0x00 0x00 0x00 ... 0x00
	K := make([]byte, hash.Size())

	// d.  Set: K = HMAC_K(V || 0x00 || int2octets(x) || bits2octets(h1) || k')
	K = mac(hash, K, V, []byte{0x00}, xb, h1, extra)

	// e.  Set: V = HMAC_K(V)
	V = mac(hash, K, V)

	// f.  Set: K = HMAC_K(V || 0x01 || int2octets(x) || bits2octets(h1) || k')
	K = mac(hash, K, V, []byte{0x01}, xb, h1, extra)

	// g.  Set: V = HMAC_K(V)
	V = mac(hash, K, V)
	defer func() { group.Wipe(K) }()

	// h.  Apply the following algorithm until a proper value is found for k:
	wide := s.g.WideScalarLen()
	T := make([]byte, 0, wide+hash.Size())
	defer func() { group.Wipe(T[:cap(T)]) }()
	for {
		// 1.  Set T to the empty sequence.
		T = T[:0]
		// 2.  While tlen < qlen, do the following:
		//        V = HMAC_K(V)
		//        T = T || V
		for len(T) < wide {
			V = mac(hash, K, V)
			T = append(T, V...)
		}
		// 3.  Compute: k = T mod q
		k, err := s.g.NewScalar().SetWideBytes(T[:wide])
		if err != nil {
			return nil, err
		}
		if !k.IsZero() {
			return k, nil
		}
		//     Otherwise, compute:
		//        K = HMAC_K(V || 0x00)
		//        V = HMAC_K(V)
		K = mac(hash, K, V, []byte{0x00})
		V = mac(hash, K, V)
	}
}

func mac(hash crypto.Hash, key []byte, parts ...[]byte) []byte {
	m := hmac.New(hash.New, key)
	for _, p := range parts {
		m.Write(p)
	}
	return m.Sum(nil)
}
