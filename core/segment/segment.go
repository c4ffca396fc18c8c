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

// Package segment turns raw data records into the canonical form that is
// fed to the VRF and recorded in the attestation ledger.
package segment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/benlaurie/objecthash/go/objecthash"
)

// HashLen is the length of a segment hash.
const HashLen = 32

// DefaultName is used for records without a name.
const DefaultName = "Unknown"

var (
	nameKeys  = []string{"name", "Name"}
	valueKeys = []string{"value", "Value", "temp", "temperature"}
)

// Segment is a standardized data record.
type Segment struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// Standardize reduces a decoded JSON record to a name and a value.
// Objects take their name from the first set name key and their value from
// the first set value key. Any other input becomes the value of an unnamed
// segment.
func Standardize(v interface{}) Segment {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return Segment{Name: DefaultName, Value: v}
	}
	seg := Segment{Name: DefaultName, Value: json.Number("0")}
	if n, ok := first(obj, nameKeys); ok {
		seg.Name = fmt.Sprint(n)
	}
	if val, ok := first(obj, valueKeys); ok {
		seg.Value = val
	}
	return seg
}

// first returns the first value under keys that is set. Null, false, zero
// and empty strings count as unset.
func first(obj map[string]interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && isSet(v) {
			return v, true
		}
	}
	return nil, false
}

func isSet(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	}
	return true
}

// Parse reads a JSON array of records, or a single record, and
// standardizes each one. Numbers keep their textual form.
func Parse(r io.Reader) ([]Segment, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("segment: decoding JSON: %v", err)
	}
	items, ok := raw.([]interface{})
	if !ok {
		items = []interface{}{raw}
	}
	segs := make([]Segment, 0, len(items))
	for _, item := range items {
		segs = append(segs, Standardize(item))
	}
	return segs, nil
}

// New returns the segment for a name and a value typed by a user. Values
// that parse as JSON numbers are treated as numbers.
func New(name, value string) Segment {
	n := json.Number(value)
	if _, err := n.Float64(); err == nil && json.Valid([]byte(value)) {
		return Segment{Name: name, Value: n}
	}
	return Segment{Name: name, Value: value}
}

// Canonical returns the compact JSON encoding {"name":...,"value":...}.
func (s Segment) Canonical() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("segment: encoding %q: %v", s.Name, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Hash returns the object hash of the segment. It identifies the segment in
// the ledger and is the VRF input, so 1 and 1.0 attest the same segment.
func (s Segment) Hash() ([HashLen]byte, error) {
	j, err := s.Canonical()
	if err != nil {
		return [HashLen]byte{}, err
	}
	h, err := objecthash.CommonJSONHash(string(j))
	if err != nil {
		return [HashLen]byte{}, fmt.Errorf("segment: hashing %q: %v", s.Name, err)
	}
	return h, nil
}
