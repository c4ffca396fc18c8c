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
	_ "embed" // golden vectors
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// FileName is the name of the vector file inside this package.
const FileName = "ecvrf_vectors.json"

//go:embed ecvrf_vectors.json
var vectorsJSON []byte

// packagePath returns the on-disk path of *this* package.
func packagePath() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("runtime.Caller(0) failed")
	}
	return filepath.Dir(file), nil
}

// DefaultPath is the location of the vector file in the source tree.
func DefaultPath() (string, error) {
	selfPath, err := packagePath()
	if err != nil {
		return "", err
	}
	return filepath.Abs(filepath.Join(selfPath, FileName))
}

// ReadVectors returns the vectors compiled into the binary.
func ReadVectors() ([]Vector, error) {
	return DecodeVectors(bytes.NewReader(vectorsJSON))
}

// DecodeVectors reads a vector file.
func DecodeVectors(r io.Reader) ([]Vector, error) {
	var v []Vector
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("json.Decode(): %v", err)
	}
	return v, nil
}

// EncodeVectors writes vectors in the format of the vector file.
func EncodeVectors(w io.Writer, v []Vector) error {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("json.Marshal(): %v", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// WriteVectors saves the vectors to path.
func WriteVectors(path string, v []Vector) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeVectors(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
