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

package testvectors

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadVectors(t *testing.T) {
	v, err := ReadVectors()
	if err != nil {
		t.Fatalf("ReadVectors(): %v", err)
	}
	if len(v) == 0 {
		t.Fatalf("ReadVectors(): no vectors")
	}
	suites := make(map[string]int)
	for _, tc := range v {
		suites[tc.Suite]++
	}
	if got, want := len(suites), 3; got != want {
		t.Errorf("vectors cover %v suites, want %v", got, want)
	}
}

func TestEncodeVectorsMatchesFile(t *testing.T) {
	v, err := ReadVectors()
	if err != nil {
		t.Fatalf("ReadVectors(): %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeVectors(&buf, v); err != nil {
		t.Fatalf("EncodeVectors(): %v", err)
	}
	if diff := cmp.Diff(string(vectorsJSON), buf.String()); diff != "" {
		t.Errorf("EncodeVectors() differs from %v (-file +encoded):\n%v", FileName, diff)
	}
}
