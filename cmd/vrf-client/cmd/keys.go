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
	"fmt"
	"io/ioutil"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/google/ecvrf/core/crypto/tinkio"
	"github.com/google/ecvrf/core/crypto/vrf/ecvrf"
)

var (
	pubOut     string
	importFile string
)

// keysetCmd creates the data keyset that seals VRF keys.
var keysetCmd = &cobra.Command{
	Use:   "create-keyset",
	Short: "Creates a new keyset",
	Long: `Creates an AES-256-GCM keyset protected by the master password.
Later commands given the same --keyset seal VRF keys with it:

./vrf-client create-keyset --keyset=.keyset
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("keyset")
		if path == "" {
			return fmt.Errorf("please provide a --keyset file")
		}
		master, err := tinkio.MasterPBKDF(viper.GetString("master-password"), nil)
		if err != nil {
			return err
		}
		h, err := tinkio.NewDataKeyset()
		if err != nil {
			return err
		}
		if err := tinkio.WriteKeysetFile(path, h, master); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote keyset to %v\n", path)
		return nil
	},
}

// keygenCmd creates a VRF key for an identity.
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generates a VRF key",
	Long: `Generates a VRF key for --identity and stores it sealed in the
database. The public key is printed in PEM form:

./vrf-client keygen --identity=alice --suite=ECVRF-RISTRETTO255-SHA512

With --import the private key is read from a PEM file instead.`,
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

		var pk *ecvrf.PublicKey
		if importFile != "" {
			data, err := ioutil.ReadFile(importFile)
			if err != nil {
				return err
			}
			k, err := ecvrf.NewVRFSignerFromPEM(data)
			if err != nil {
				return fmt.Errorf("reading %v: %w", importFile, err)
			}
			defer k.Destroy()
			if err := e.keys.Import(ctx, id, k); err != nil {
				return err
			}
			pk = k.Public().(*ecvrf.PublicKey)
		} else {
			s, err := ecvrf.SuiteByName(viper.GetString("suite"))
			if err != nil {
				return err
			}
			if pk, err = e.keys.Create(ctx, id, s); err != nil {
				return err
			}
		}
		return writePublicKey(cmd, pk)
	},
}

// pubkeyCmd prints the public key of an identity.
var pubkeyCmd = &cobra.Command{
	Use:   "pubkey",
	Short: "Prints a VRF public key",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := identity()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		e, err := openPublicEnv()
		if err != nil {
			return err
		}
		defer e.Close()
		pk, err := e.keys.PublicKey(ctx, id)
		if err != nil {
			return err
		}
		return writePublicKey(cmd, pk)
	},
}

// listKeysCmd lists the stored keys.
var listKeysCmd = &cobra.Command{
	Use:   "list-keys",
	Short: "Lists all VRF keys",
	Long: `Lists metadata about all stored VRF keys. The private keys are not
opened, so no master password is needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()
		st, err := openDB()
		if err != nil {
			return err
		}
		defer st.Close()
		records, err := st.keyStore.List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', tabwriter.Debug)
		fmt.Fprintln(w, "Identity\tSuite\tCreated\tPublic Key")
		for _, r := range records {
			fmt.Fprintf(w, "%v\t%v\t%v\t%x\t\n", r.Identity, r.Suite, r.Created.Format("2006-01-02T15:04:05Z"), r.PublicKey)
		}
		return w.Flush()
	},
}

// deleteKeyCmd removes the key of an identity.
var deleteKeyCmd = &cobra.Command{
	Use:   "delete-key",
	Short: "Deletes a VRF key",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := identity()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		st, err := openDB()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.keyStore.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted key of %v\n", id)
		return nil
	},
}

func writePublicKey(cmd *cobra.Command, pk *ecvrf.PublicKey) error {
	pem := pk.MarshalPEM()
	if pubOut == "" {
		_, err := cmd.OutOrStdout().Write(pem)
		return err
	}
	if err := ioutil.WriteFile(pubOut, pem, 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote public key to %v\n", pubOut)
	return nil
}

func init() {
	RootCmd.AddCommand(keysetCmd)
	RootCmd.AddCommand(keygenCmd)
	RootCmd.AddCommand(pubkeyCmd)
	RootCmd.AddCommand(listKeysCmd)
	RootCmd.AddCommand(deleteKeyCmd)

	keygenCmd.Flags().StringVar(&pubOut, "out", "", "Write the public key PEM to this file instead of stdout")
	keygenCmd.Flags().StringVar(&importFile, "import", "", "Import the private key from this PEM file")
	pubkeyCmd.Flags().StringVar(&pubOut, "out", "", "Write the public key PEM to this file instead of stdout")
}
