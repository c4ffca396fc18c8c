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

package tinkio

import (
	"fmt"
	"io"
	"os"

	"github.com/google/tink/go/aead"
	"github.com/google/tink/go/keyset"
	"github.com/google/tink/go/tink"
)

// NewDataKeyset creates a fresh AES-256-GCM keyset for sealing VRF keys.
func NewDataKeyset() (*keyset.Handle, error) {
	return keyset.NewHandle(aead.AES256GCMKeyTemplate())
}

// WriteKeyset encrypts and writes an encrypted keyset.
func WriteKeyset(h *keyset.Handle, w io.Writer, masterKey tink.AEAD) error {
	if err := h.Write(keyset.NewBinaryWriter(w), masterKey); err != nil {
		return fmt.Errorf("encryption failed: %v", err)
	}
	return nil
}

// ReadKeyset reads and decrypts an encrypted keyset.
func ReadKeyset(r io.Reader, masterKey tink.AEAD) (*keyset.Handle, error) {
	h, err := keyset.Read(keyset.NewBinaryReader(r), masterKey)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %v", err)
	}
	return h, nil
}

// WriteKeysetFile saves an encrypted keyset to path. It refuses to
// overwrite an existing file and removes a partly written one.
func WriteKeysetFile(path string, h *keyset.Handle, masterKey tink.AEAD) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if err := WriteKeyset(h, f, masterKey); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// KeysetAEAD reads the encrypted keyset at path and returns its primitive.
func KeysetAEAD(path string, masterKey tink.AEAD) (tink.AEAD, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h, err := ReadKeyset(f, masterKey)
	if err != nil {
		return nil, err
	}
	return aead.New(h)
}
