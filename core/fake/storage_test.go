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

package fake

import (
	"context"
	"testing"

	"github.com/google/ecvrf/core/attest"
	"github.com/google/ecvrf/core/integration/storagetest"
	"github.com/google/ecvrf/core/keystore"
)

func TestKeyStorage(t *testing.T) {
	storagetest.RunKeyStorageTests(t,
		func(ctx context.Context, t *testing.T) keystore.Storage { return NewKeyStorage() })
}

func TestAttestStorage(t *testing.T) {
	storagetest.RunAttestStorageTests(t,
		func(ctx context.Context, t *testing.T) attest.Storage { return NewAttestStorage() })
}
