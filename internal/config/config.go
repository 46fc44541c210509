// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config parses command-line flags (with environment-variable
// defaults applied before parsing, the same two-stage pattern the
// btcsuite/daglabs command-line tools use via jessevdk/go-flags) into the
// settings cmd/btcminer needs to wire up the RPC client, the chosen search
// engine, and logging.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/jessevdk/go-flags"
)

// Backend selects which search engine drives the mining loop.
type Backend string

const (
	BackendCPU Backend = "cpu"
	BackendGPU Backend = "gpu"
)

const (
	defaultLogFile  = "btcminer.log"
	defaultDebugLvl = "info"
)

// Config is the fully parsed, validated process configuration.
type Config struct {
	RPCHost     string `short:"s" long:"rpcserver" description:"Bitcoin node JSON-RPC host:port" env:"BTCMINER_RPCSERVER" required:"true"`
	RPCUser     string `short:"u" long:"rpcuser" description:"JSON-RPC username" env:"BTCMINER_RPCUSER" required:"true"`
	RPCPassword string `short:"P" long:"rpcpass" description:"JSON-RPC password" env:"BTCMINER_RPCPASS" default-mask:"-" required:"true"`

	PayAddress string `long:"payaddress" description:"Address to pay mining rewards to; a fresh address is requested from the node if omitted" env:"BTCMINER_PAYADDRESS"`
	Network    string `long:"network" description:"Network the payout address belongs to: mainnet, testnet3, simnet, or regtest" default:"mainnet" env:"BTCMINER_NETWORK"`

	Backend string `long:"backend" description:"Search engine backend: cpu or gpu" default:"cpu" env:"BTCMINER_BACKEND"`
	Workers int    `long:"workers" description:"CPU worker goroutines; 0 selects runtime.NumCPU()" env:"BTCMINER_WORKERS"`

	LogFile  string `long:"logfile" description:"File to write rotated logs to" env:"BTCMINER_LOGFILE"`
	DebugLvl string `long:"debuglevel" description:"Logging level: trace, debug, info, warn, error, critical; or subsystem=level pairs" env:"BTCMINER_DEBUGLEVEL"`

	MetricsAddr string `long:"metricsaddr" description:"Address to serve Prometheus /metrics on; empty disables it" env:"BTCMINER_METRICSADDR"`
}

// Load parses os.Args (via go-flags, which also consults the env tags above
// before falling back to the struct defaults) and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Backend:  string(BackendCPU),
		LogFile:  defaultLogFile,
		DebugLvl: defaultDebugLvl,
	}

	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if ok := asFlagsError(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch Backend(c.Backend) {
	case BackendCPU, BackendGPU:
	default:
		return fmt.Errorf("config: unknown backend %q (want cpu or gpu)", c.Backend)
	}

	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative")
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}

	return nil
}

// ChainParams resolves the configured network name to its chaincfg.Params.
func (c *Config) ChainParams() (*chaincfg.Params, error) {
	switch c.Network {
	case "mainnet", "":
		return &chaincfg.MainNetParams, nil
	case "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "simnet":
		return &chaincfg.SimNetParams, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("config: unknown network %q", c.Network)
	}
}

func asFlagsError(err error, target **flags.Error) bool {
	fe, ok := err.(*flags.Error)
	if !ok {
		return false
	}
	*target = fe
	return true
}
