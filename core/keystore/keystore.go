// Copyright 2016 Google Inc. All Rights Reserved.
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

// Package keystore keeps VRF private keys sealed at rest, one per identity.
package keystore

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/google/tink/go/tink"
	"github.com/kr/pretty"

	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/crypto/vrf/ecvrf"
	"github.com/google/ecvrf/core/crypto/vrf/group"
)

var (
	// ErrKeyNotExist occurs when the key being read or removed does not exist.
	ErrKeyNotExist = errors.New("key does not exist")
	// ErrKeyExists occurs when writing a key for an identity that has one.
	ErrKeyExists = errors.New("key already exists")
	// ErrNoSealingKey occurs when a Manager without an AEAD handles private
	// keys.
	ErrNoSealingKey = errors.New("no key sealing AEAD")
)

// Record is a stored VRF key.
type Record struct {
	Identity  string
	Suite     string
	PublicKey []byte
	// SealedKey is the private scalar encrypted with the store's AEAD.
	SealedKey []byte
	Created   time.Time
}

// Storage persists key records.
type Storage interface {
	// Write saves a new record. It returns ErrKeyExists if the identity
	// already has a key.
	Write(ctx context.Context, r *Record) error
	// Read returns the record for identity or ErrKeyNotExist.
	Read(ctx context.Context, identity string) (*Record, error)
	// List returns all records ordered by identity.
	List(ctx context.Context) ([]*Record, error)
	// Delete removes the record for identity or returns ErrKeyNotExist.
	Delete(ctx context.Context, identity string) error
}

// Manager creates, seals and opens VRF keys.
type Manager struct {
	store Storage
	aead  tink.AEAD
	rand  io.Reader
	now   func() time.Time
}

// NewManager returns a Manager that seals keys with aead. A nil aead gives a
// Manager that only serves public keys. A nil rand
// selects crypto/rand.
func NewManager(store Storage, aead tink.AEAD, random io.Reader) *Manager {
	if random == nil {
		random = rand.Reader
	}
	return &Manager{store: store, aead: aead, rand: random, now: time.Now}
}

// associatedData binds a sealed key to its identity and suite.
func associatedData(identity, suite string) []byte {
	return vrf.UniqueID(identity, suite)
}

// Create generates and stores a new key for identity.
func (m *Manager) Create(ctx context.Context, identity string, s *ecvrf.Suite) (*ecvrf.PublicKey, error) {
	k, err := ecvrf.GenerateKey(s, m.rand)
	if err != nil {
		return nil, err
	}
	defer k.Destroy()
	if err := m.Import(ctx, identity, k); err != nil {
		return nil, err
	}
	pk := k.PublicKey
	return &pk, nil
}

// Import seals and stores an existing key for identity.
func (m *Manager) Import(ctx context.Context, identity string, k *ecvrf.PrivateKey) error {
	if identity == "" {
		return errors.New("keystore: empty identity")
	}
	if m.aead == nil {
		return ErrNoSealingKey
	}
	suite := k.Suite().Name()
	sk := k.Bytes()
	defer group.Wipe(sk)
	sealed, err := m.aead.Encrypt(sk, associatedData(identity, suite))
	if err != nil {
		return fmt.Errorf("keystore: sealing key: %v", err)
	}
	r := &Record{
		Identity:  identity,
		Suite:     suite,
		PublicKey: k.PublicKey.Bytes(),
		SealedKey: sealed,
		Created:   m.now().UTC().Truncate(time.Second),
	}
	if err := m.store.Write(ctx, r); err != nil {
		return err
	}
	glog.Infof("Stored %v key for %q", suite, identity)
	glog.V(5).Infof("Record: %# v", pretty.Formatter(r))
	return nil
}

// Signer opens the private key of identity.
func (m *Manager) Signer(ctx context.Context, identity string) (*ecvrf.PrivateKey, error) {
	if m.aead == nil {
		return nil, ErrNoSealingKey
	}
	r, err := m.store.Read(ctx, identity)
	if err != nil {
		return nil, err
	}
	s, err := ecvrf.SuiteByName(r.Suite)
	if err != nil {
		return nil, err
	}
	sk, err := m.aead.Decrypt(r.SealedKey, associatedData(r.Identity, r.Suite))
	if err != nil {
		return nil, fmt.Errorf("keystore: opening key of %q: %v", identity, err)
	}
	defer group.Wipe(sk)
	k, err := ecvrf.NewPrivateKey(s, sk)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(k.PublicKey.Bytes(), r.PublicKey) {
		k.Destroy()
		return nil, fmt.Errorf("keystore: key of %q does not match its public key", identity)
	}
	return k, nil
}

// PublicKey returns the public key of identity. It does not need the AEAD.
func (m *Manager) PublicKey(ctx context.Context, identity string) (*ecvrf.PublicKey, error) {
	r, err := m.store.Read(ctx, identity)
	if err != nil {
		return nil, err
	}
	return r.Public()
}

// Delete removes the key of identity.
func (m *Manager) Delete(ctx context.Context, identity string) error {
	if err := m.store.Delete(ctx, identity); err != nil {
		return err
	}
	glog.Infof("Deleted key for %q", identity)
	return nil
}

// List returns all stored records.
func (m *Manager) List(ctx context.Context) ([]*Record, error) {
	return m.store.List(ctx)
}

// Public decodes the public key of the record.
func (r *Record) Public() (*ecvrf.PublicKey, error) {
	s, err := ecvrf.SuiteByName(r.Suite)
	if err != nil {
		return nil, err
	}
	return ecvrf.NewPublicKey(s, r.PublicKey)
}
