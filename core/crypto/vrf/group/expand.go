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

package group

import (
	"crypto"
	"encoding/binary"
	"fmt"
)

// ExpandMessageXMD produces n uniform bytes from msg and the domain
// separation tag dst, using the hash h.
// https://www.rfc-editor.org/rfc/rfc9380.html#section-5.3.1
func ExpandMessageXMD(h crypto.Hash, msg, dst []byte, n int) ([]byte, error) {
	if !h.Available() {
		return nil, fmt.Errorf("hash %v is not linked into the binary", h)
	}
	bIn := h.Size()
	ell := (n + bIn - 1) / bIn
	switch {
	case n <= 0:
		return nil, fmt.Errorf("expand_message_xmd: len_in_bytes: %v, want > 0", n)
	case ell > 255 || n > 65535:
		return nil, fmt.Errorf("expand_message_xmd: len_in_bytes: %v too large", n)
	case len(dst) == 0 || len(dst) > 255:
		return nil, fmt.Errorf("expand_message_xmd: len(dst): %v, want 1..255", len(dst))
	}
	dstPrime := append(append([]byte{}, dst...), byte(len(dst)))

	// b_0 = H(Z_pad || msg || l_i_b_str || I2OSP(0, 1) || DST_prime)
	hh := h.New()
	hh.Write(make([]byte, hh.BlockSize()))
	hh.Write(msg)
	hh.Write(I2OSP(uint64(n), 2))
	hh.Write([]byte{0})
	hh.Write(dstPrime)
	b0 := hh.Sum(nil)

	// b_1 = H(b_0 || I2OSP(1, 1) || DST_prime)
	hh.Reset()
	hh.Write(b0)
	hh.Write([]byte{1})
	hh.Write(dstPrime)
	bi := hh.Sum(nil)

	out := make([]byte, 0, ell*bIn)
	out = append(out, bi...)
	for i := 2; i <= ell; i++ {
		// b_i = H(strxor(b_0, b_(i - 1)) || I2OSP(i, 1) || DST_prime)
		x := make([]byte, bIn)
		for j := range x {
			x[j] = b0[j] ^ bi[j]
		}
		hh.Reset()
		hh.Write(x)
		hh.Write([]byte{byte(i)})
		hh.Write(dstPrime)
		bi = hh.Sum(nil)
		out = append(out, bi...)
	}
	return out[:n], nil
}

// I2OSP converts a nonnegative integer to an octet string of a specified length.
// RFC8017 section-4.1 (big endian representation)
func I2OSP(x uint64, xLen int) []byte {
	if xLen < 8 && x >= 1<<(8*uint(xLen)) {
		panic("integer too large")
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], x)
	if xLen >= 8 {
		return append(make([]byte, xLen-8), b[:]...)
	}
	return b[8-xLen:]
}
