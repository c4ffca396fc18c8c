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

// Package cmd implements the vrf-client commands.
package cmd

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/tink/go/tink"
	"github.com/google/trillian/monitoring"
	"github.com/google/trillian/monitoring/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/google/ecvrf/cmd/serverutil"
	"github.com/google/ecvrf/core/attest"
	"github.com/google/ecvrf/core/crypto/tinkio"
	"github.com/google/ecvrf/core/crypto/vrf/ecvrf"
	"github.com/google/ecvrf/core/keystore"
	"github.com/google/ecvrf/impl/sql/attestations"
	"github.com/google/ecvrf/impl/sql/vrfkeys"

	dbopen "github.com/google/ecvrf/impl/sql"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "vrf-client",
	Short: "Verifiable random function client",
	Long: `The vrf-client manages VRF keys and publishes verifiable
fingerprints of data segments:

  vrf-client keygen --identity=alice
  vrf-client prove --identity=alice "hello"
  vrf-client verify --pubkey=alice.pem --proof=<hex> "hello"
  vrf-client attest --identity=alice readings.json
  vrf-client claim --identity=alice --name=temp --value=21.5 <fingerprint>

The master password may also be passed in the MASTER_PASSWORD environment
variable.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Silence "logging before flag.Parse"
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	flag.CommandLine.Parse([]string{})

	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ecvrf.yaml)")

	RootCmd.PersistentFlags().String("suite", ecvrf.Ristretto255SHA512.Name(),
		fmt.Sprintf("VRF suite for new keys: %v", strings.Join(ecvrf.SuiteNames(), ", ")))
	RootCmd.PersistentFlags().String("identity", "", "Owner of the VRF key")
	RootCmd.PersistentFlags().String("db-driver", "sqlite3", "Database driver: sqlite3 or mysql")
	RootCmd.PersistentFlags().String("db-dsn", "ecvrf.db", "Database connection string")
	RootCmd.PersistentFlags().String("master-password", "", "Password that protects stored keys")
	RootCmd.PersistentFlags().String("keyset", "", "Encrypted tink keyset that seals VRF keys. Empty seals with the master password directly")
	RootCmd.PersistentFlags().String("metrics-addr", "", "Serve /metrics and /healthz on this address")
	RootCmd.PersistentFlags().Duration("timeout", time.Minute, "Time limit for the command")

	// Bind all command flags to viper.
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.Fatalf("%v", err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match.

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".ecvrf")
		viper.AddConfigPath("$HOME")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		glog.V(1).Infof("Using config file: %v", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		log.Fatalf("Failed reading config file: %v: %v", viper.ConfigFileUsed(), err)
	}
}

// commandContext returns a context bounded by --timeout.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), viper.GetDuration("timeout"))
}

func identity() (string, error) {
	id := viper.GetString("identity")
	if id == "" {
		return "", fmt.Errorf("please provide an --identity")
	}
	return id, nil
}

// masterKey returns the AEAD that seals VRF keys.
func masterKey() (tink.AEAD, error) {
	master, err := tinkio.MasterPBKDF(viper.GetString("master-password"), nil)
	if err != nil {
		return nil, err
	}
	path := viper.GetString("keyset")
	if path == "" {
		return master, nil
	}
	return tinkio.KeysetAEAD(path, master)
}

// stores holds the database tables.
type stores struct {
	db       *sql.DB
	keyStore *vrfkeys.Storage
	ledger   *attestations.Storage
}

// openDB connects to the database and creates missing tables.
func openDB() (*stores, error) {
	db, err := dbopen.OpenDriver(viper.GetString("db-driver"), viper.GetString("db-dsn"))
	if err != nil {
		return nil, err
	}
	keyStore, err := vrfkeys.New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	ledger, err := attestations.New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &stores{db: db, keyStore: keyStore, ledger: ledger}, nil
}

func (s *stores) Close() error {
	return s.db.Close()
}

// env holds the database backed services of one command.
type env struct {
	*stores
	keys     *keystore.Manager
	metrics  monitoring.MetricFactory
	attestor *attest.Attestor
}

// openEnv opens the stores and the key manager. limit paces ledger writes in
// segments per second; 0 means no limit.
func openEnv(limit float64) (*env, error) {
	aead, err := masterKey()
	if err != nil {
		return nil, err
	}
	return newEnv(aead, limit)
}

// openPublicEnv opens the stores with a key manager that only reads public
// keys, so no master password is needed.
func openPublicEnv() (*env, error) {
	return newEnv(nil, 0)
}

func newEnv(aead tink.AEAD, limit float64) (*env, error) {
	st, err := openDB()
	if err != nil {
		return nil, err
	}
	keys := keystore.NewManager(st.keyStore, aead, nil)

	var limiter *rate.Limiter
	if limit > 0 {
		limiter = rate.NewLimiter(rate.Limit(limit), 1)
	}
	return &env{
		stores:   st,
		keys:     keys,
		metrics:  metricFactory(),
		attestor: attest.New(keys, st.ledger, limiter),
	}, nil
}

var serveMetrics sync.Once

// metricFactory exports metrics over HTTP when --metrics-addr is set.
func metricFactory() monitoring.MetricFactory {
	addr := viper.GetString("metrics-addr")
	if addr == "" {
		return monitoring.InertMetricFactory{}
	}
	serveMetrics.Do(func() { go serveHTTPMetrics(addr) })
	return prometheus.MetricFactory{}
}

func serveHTTPMetrics(addr string) {
	ready := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	if err := serverutil.ServeHTTPMetrics(addr, ready); err != nil && err != http.ErrServerClosed {
		glog.Errorf("ServeHTTPMetrics(%v): %v", addr, err)
	}
}
