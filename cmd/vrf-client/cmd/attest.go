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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/segment"
)

var (
	attestRate  float64
	ledgerLimit int
	claimName   string
	claimValue  string
)

// attestCmd attests every segment of a JSON file.
var attestCmd = &cobra.Command{
	Use:   "attest [file.json]",
	Short: "Attests data segments",
	Long: `Reads a JSON array of segments, proves each one with the key of
--identity and records the fingerprints. Segments that were attested before
are skipped:

./vrf-client attest --identity=alice readings.json
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := identity()
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		segs, err := segment.Parse(f)
		if err != nil {
			return fmt.Errorf("reading %v: %w", args[0], err)
		}

		ctx, cancel := commandContext()
		defer cancel()
		e, err := openEnv(attestRate)
		if err != nil {
			return err
		}
		defer e.Close()

		batch, err := e.attestor.AttestAll(ctx, id, segs)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', tabwriter.Debug)
		fmt.Fprintln(w, "Name\tStatus\tFingerprint\t")
		for _, r := range batch.Results {
			fingerprint := r.Fingerprint.String()
			if r.Err != nil {
				fingerprint = r.Err.Error()
			}
			fmt.Fprintf(w, "%v\t%v\t%v\t\n", r.Segment.Name, r.Status, fingerprint)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d stored, %d already attested, %d failed\n",
			batch.Processed, batch.Skipped, batch.Failed)
		if batch.Failed > 0 {
			return fmt.Errorf("%d segments failed", batch.Failed)
		}
		return nil
	},
}

// ledgerCmd lists the attestations of an identity.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Lists recorded attestations",
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
		records, err := st.ledger.List(ctx, id, ledgerLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', tabwriter.Debug)
		fmt.Fprintln(w, "Created\tSegment\tFingerprint\t")
		for _, r := range records {
			fmt.Fprintf(w, "%v\t%x\t%v\t\n", r.Created.Format("2006-01-02T15:04:05Z"), r.SegmentHash, r.Fingerprint)
		}
		return w.Flush()
	},
}

// claimCmd checks a claimed fingerprint for one segment.
var claimCmd = &cobra.Command{
	Use:   "claim [fingerprint]",
	Short: "Verifies a claimed fingerprint",
	Long: `Checks that the segment given by --name and --value was attested by
--identity with the claimed fingerprint. The stored proof is verified again
against the identity's public key:

./vrf-client claim --identity=alice --name=temp --value=21.5 <fingerprint>
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := identity()
		if err != nil {
			return err
		}
		claimed, err := vrf.ParseFingerprint(args[0])
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

		r, err := e.attestor.VerifyClaim(ctx, id, segment.New(claimName, claimValue), claimed)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "valid\nattested: %v\n", r.Created.Format("2006-01-02T15:04:05Z"))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(attestCmd)
	RootCmd.AddCommand(ledgerCmd)
	RootCmd.AddCommand(claimCmd)

	attestCmd.Flags().Float64Var(&attestRate, "rate", 0, "Maximum segments attested per second. 0 is unlimited")
	ledgerCmd.Flags().IntVar(&ledgerLimit, "limit", 100, "Maximum number of records. 0 lists all")
	claimCmd.Flags().StringVar(&claimName, "name", segment.DefaultName, "Segment name")
	claimCmd.Flags().StringVar(&claimValue, "value", "", "Segment value")
}
