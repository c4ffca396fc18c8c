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
	"fmt"
	"io"

	"github.com/google/ecvrf/core/crypto/vrf"
)

// maxSampleAttempts bounds rejection sampling. With an acceptance rate of at
// least 1/2 a healthy source fails with probability below 2^-64.
const maxSampleAttempts = 64

// SampleScalar implements Group.RandomScalar by rejection sampling.
// top is the index of the most significant byte of the canonical scalar
// encoding and mask clears the bits above the bit length of the order.
func SampleScalar(g Group, rand io.Reader, top int, mask byte) (Scalar, error) {
	b := make([]byte, g.ScalarLen())
	defer Wipe(b)
	for i := 0; i < maxSampleAttempts; i++ {
		if _, err := io.ReadFull(rand, b); err != nil {
			return nil, fmt.Errorf("reading %v random bytes: %v: %w", len(b), err, vrf.ErrInsufficientEntropy)
		}
		b[top] &= mask
		s, err := g.NewScalar().SetCanonicalBytes(b)
		if err != nil {
			continue // >= q
		}
		if s.IsZero() {
			continue
		}
		return s, nil
	}
	return nil, fmt.Errorf("no scalar in [1, q) after %v attempts: %w", maxSampleAttempts, vrf.ErrInsufficientEntropy)
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
