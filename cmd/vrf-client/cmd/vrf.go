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

package cmd

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/google/ecvrf/core/crypto/vrf/ecvrf"
	"github.com/google/ecvrf/core/crypto/vrf/metered"
)

var (
	pubkeyFile string
	proofHex   string
)

// proveCmd evaluates the VRF of an identity on an input.
var proveCmd = &cobra.Command{
	Use:   "prove [input]",
	Short: "Computes a VRF output and proof",
	Long: `Computes the VRF fingerprint of the input with the key of --identity
and prints it together with the proof:

./vrf-client prove --identity=alice "hello"
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := identity()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		e, err := openEnv(0)
		if err != nil {
			return err
		}
		defer e.Close()

		k, err := e.keys.Signer(ctx, id)
		if err != nil {
			return err
		}
		defer k.Destroy()
		suite := k.Public().(*ecvrf.PublicKey).Suite()
		fingerprint, proof := metered.NewSigner(k, suite.Name(), e.metrics).Evaluate([]byte(args[0]))

		fmt.Fprintf(cmd.OutOrStdout(), "suite:       %v\n", suite)
		fmt.Fprintf(cmd.OutOrStdout(), "fingerprint: %v\n", fingerprint)
		fmt.Fprintf(cmd.OutOrStdout(), "proof:       %x\n", proof)
		return nil
	},
}

// verifyCmd checks a proof against a public key. It needs no database.
var verifyCmd = &cobra.Command{
	Use:   "verify [input]",
	Short: "Verifies a VRF proof",
	Long: `Verifies a proof produced by prove and prints the fingerprint it
commits to:

./vrf-client verify --pubkey=alice.pem --proof=<hex> "hello"
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pubkeyFile == "" {
			return fmt.Errorf("please provide a --pubkey file")
		}
		data, err := ioutil.ReadFile(pubkeyFile)
		if err != nil {
			return err
		}
		pk, err := ecvrf.NewVRFVerifierFromPEM(data)
		if err != nil {
			return fmt.Errorf("reading %v: %w", pubkeyFile, err)
		}
		proof, err := hex.DecodeString(proofHex)
		if err != nil {
			return fmt.Errorf("--proof: %v", err)
		}
		v := metered.NewVerifier(pk, pk.Suite().Name(), metricFactory())
		fingerprint, err := v.ProofToHash([]byte(args[0]), proof)
		if err != nil {
			return err
		}
		glog.V(1).Infof("verified proof for %q", args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "valid\nfingerprint: %v\n", fingerprint)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(proveCmd)
	RootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&pubkeyFile, "pubkey", "", "PEM encoded VRF public key")
	verifyCmd.Flags().StringVar(&proofHex, "proof", "", "Hex encoded proof")
}
