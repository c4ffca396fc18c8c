// Copyright 2020 Google Inc. All Rights Reserved.
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

package cmd

import (
	"bytes"
	"errors"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/google/ecvrf/core/crypto/tinkio"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(args)
	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("vrf-client %v: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

// field returns the value after "key:" in out.
func field(t *testing.T, out, key string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, key+":") {
			return strings.TrimSpace(strings.TrimPrefix(line, key+":"))
		}
	}
	t.Fatalf("no %q in output:\n%s", key, out)
	return ""
}

// column returns the third column of the table row starting with name.
func column(t *testing.T, out, name string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		cols := strings.Split(line, "|")
		if len(cols) > 2 && strings.TrimSpace(cols[0]) == name {
			return strings.TrimSpace(cols[2])
		}
	}
	t.Fatalf("no row %q in output:\n%s", name, out)
	return ""
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	viper.Set("db-dsn", filepath.Join(dir, "ecvrf.db"))
	viper.Set("master-password", "correct horse battery staple")
	viper.Set("keyset", filepath.Join(dir, ".keyset"))
	viper.Set("identity", "alice")
	defer viper.Reset()

	run(t, "create-keyset")
	pem := run(t, "keygen")
	if !strings.Contains(pem, "BEGIN VRF PUBLIC KEY") {
		t.Fatalf("keygen: no public key in output:\n%s", pem)
	}
	if got := run(t, "pubkey"); got != pem {
		t.Errorf("pubkey: %q, want %q", got, pem)
	}
	if got := run(t, "list-keys"); !strings.Contains(got, "alice") {
		t.Errorf("list-keys: alice missing:\n%s", got)
	}

	out := run(t, "prove", "hello")
	fingerprint := field(t, out, "fingerprint")
	proof := field(t, out, "proof")

	pubFile := filepath.Join(dir, "alice.pem")
	if err := ioutil.WriteFile(pubFile, []byte(pem), 0644); err != nil {
		t.Fatal(err)
	}
	out = run(t, "verify", "--pubkey", pubFile, "--proof", proof, "hello")
	if got := field(t, out, "fingerprint"); got != fingerprint {
		t.Errorf("verify: fingerprint %v, want %v", got, fingerprint)
	}

	data := filepath.Join(dir, "readings.json")
	if err := ioutil.WriteFile(data, []byte(`[{"name": "temp", "value": 21.5}, {"name": "humidity", "value": 40}]`), 0644); err != nil {
		t.Fatal(err)
	}
	out = run(t, "attest", data)
	if !strings.Contains(out, "2 stored, 0 already attested, 0 failed") {
		t.Errorf("attest: unexpected summary:\n%s", out)
	}
	tempFingerprint := column(t, out, "temp")
	out = run(t, "attest", data)
	if !strings.Contains(out, "0 stored, 2 already attested, 0 failed") {
		t.Errorf("attest again: unexpected summary:\n%s", out)
	}
	if got := run(t, "ledger"); !strings.Contains(got, tempFingerprint) {
		t.Errorf("ledger: %v missing:\n%s", tempFingerprint, got)
	}
	if got := run(t, "claim", "--name", "temp", "--value", "21.5", tempFingerprint); !strings.HasPrefix(got, "valid") {
		t.Errorf("claim: %q, want valid", got)
	}

	// Reading public keys and checking claims works without the password.
	viper.Set("master-password", "")
	if got := run(t, "pubkey"); got != pem {
		t.Errorf("pubkey without password: %q, want %q", got, pem)
	}
	if got := run(t, "claim", "--name", "temp", "--value", "21.5", tempFingerprint); !strings.HasPrefix(got, "valid") {
		t.Errorf("claim without password: %q, want valid", got)
	}
	RootCmd.SetArgs([]string{"prove", "hello"})
	if err := RootCmd.Execute(); !errors.Is(err, tinkio.ErrNoPassword) {
		t.Errorf("prove without password: %v, want %v", err, tinkio.ErrNoPassword)
	}
}
