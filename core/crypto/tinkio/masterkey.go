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

// Package tinkio turns a master password into an AEAD and stores data
// keysets encrypted under it.
package tinkio

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/tink/go/aead/subtle"
	"github.com/google/tink/go/tink"
	"golang.org/x/crypto/pbkdf2"
)

const (
	masterKeyLen        = 32
	masterKeyIterations = 4096
)

var (
	// DefaultSalt is the PBKDF2 salt used when none is configured.
	// openssl rand -hex 32
	DefaultSalt, _    = hex.DecodeString("00afc05d5b131a1dfd140a146b87f2f07826a8d4576cb4feef43f80f0c9b1c2f")
	masterKeyHashFunc = sha256.New

	// ErrNoPassword occurs when the master password is empty.
	ErrNoPassword = errors.New("please provide a master password")
)

// MasterPBKDF converts the master password into the master key.
// A nil salt selects DefaultSalt.
func MasterPBKDF(masterPassword string, salt []byte) (tink.AEAD, error) {
	if masterPassword == "" {
		return nil, ErrNoPassword
	}
	if salt == nil {
		salt = DefaultSalt
	}
	dk := pbkdf2.Key([]byte(masterPassword), salt,
		masterKeyIterations, masterKeyLen, masterKeyHashFunc)
	return subtle.NewAESGCM(dk)
}
