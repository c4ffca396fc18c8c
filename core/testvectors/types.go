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

// Package testvectors contains golden VRF vectors for interoperability testing.
package testvectors

// Vector is one VRF evaluation. Byte strings are hex encoded.
type Vector struct {
	Suite       string `json:"suite"`
	SK          string `json:"sk"`
	PK          string `json:"pk"`
	Alpha       string `json:"alpha"`
	H           string `json:"h"`
	Gamma       string `json:"gamma"`
	Proof       string `json:"proof"`
	Fingerprint string `json:"fingerprint"`
}
