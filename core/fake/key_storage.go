// Copyright 2017 Google Inc. All Rights Reserved.
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
	"fmt"
	"sort"
	"sync"

	"github.com/google/ecvrf/core/keystore"
)

// KeyStorage implements keystore.Storage in memory.
type KeyStorage struct {
	mu   sync.RWMutex
	keys map[string]keystore.Record
}

// NewKeyStorage returns a fake keystore.Storage.
func NewKeyStorage() *KeyStorage {
	return &KeyStorage{keys: make(map[string]keystore.Record)}
}

// Write adds a new key.
func (s *KeyStorage) Write(ctx context.Context, r *keystore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[r.Identity]; ok {
		return fmt.Errorf("identity %q: %w", r.Identity, keystore.ErrKeyExists)
	}
	s.keys[r.Identity] = copyRecord(r)
	return nil
}

// Read returns the key of identity.
func (s *KeyStorage) Read(ctx context.Context, identity string) (*keystore.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.keys[identity]
	if !ok {
		return nil, fmt.Errorf("identity %q: %w", identity, keystore.ErrKeyNotExist)
	}
	c := copyRecord(&r)
	return &c, nil
}

// List returns all keys ordered by identity.
func (s *KeyStorage) List(ctx context.Context) ([]*keystore.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]*keystore.Record, 0, len(s.keys))
	for _, r := range s.keys {
		c := copyRecord(&r)
		ret = append(ret, &c)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Identity < ret[j].Identity })
	return ret, nil
}

// Delete removes the key of identity.
func (s *KeyStorage) Delete(ctx context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[identity]; !ok {
		return fmt.Errorf("identity %q: %w", identity, keystore.ErrKeyNotExist)
	}
	delete(s.keys, identity)
	return nil
}

func copyRecord(r *keystore.Record) keystore.Record {
	c := *r
	c.PublicKey = append([]byte(nil), r.PublicKey...)
	c.SealedKey = append([]byte(nil), r.SealedKey...)
	return c
}
