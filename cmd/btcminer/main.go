// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command btcminer is a standalone getblocktemplate-based proof-of-work
// miner: it long-polls a Bitcoin node for block templates, assembles
// candidate blocks, searches the nonce space on the CPU or a GPU-shaped
// back-end, and submits any winning block back to the node.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/blackridge-labs/btcminer/internal/config"
	"github.com/blackridge-labs/btcminer/metrics"
	"github.com/blackridge-labs/btcminer/mining"
	"github.com/blackridge-labs/btcminer/minerlog"
	"github.com/blackridge-labs/btcminer/poller"
	"github.com/blackridge-labs/btcminer/rpc"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := minerlog.InitLogRotator(cfg.LogFile); err != nil {
		return err
	}
	defer minerlog.Close()

	if err := minerlog.ParseAndSetDebugLevels(cfg.DebugLvl); err != nil {
		return err
	}

	rpc.UseLogger(minerlog.Logger("RPCC"))
	poller.UseLogger(minerlog.Logger("POLL"))
	mining.UseLogger(minerlog.Logger("MINR"))

	client, err := rpc.New(rpc.Config{
		Host:     cfg.RPCHost,
		User:     cfg.RPCUser,
		Password: cfg.RPCPassword,
	})
	if err != nil {
		return err
	}
	defer client.Shutdown()

	chainParams, err := cfg.ChainParams()
	if err != nil {
		return err
	}

	payoutScript, err := resolvePayoutScript(client, cfg.PayAddress, chainParams)
	if err != nil {
		return err
	}

	engine, closeEngine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	if closeEngine != nil {
		defer closeEngine()
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	miner := mining.New(client, engine, payoutScript)
	miner.Start()
	defer miner.Stop()

	select {
	case err := <-miner.Err():
		return fmt.Errorf("mining loop terminated: %w", err)
	case sig := <-waitForSignal():
		minerlog.Logger("MINR").Infof("received %v, shutting down", sig)
		return nil
	}
}

// resolvePayoutScript turns the configured pay-to address, or a freshly
// requested one if none was configured, into a PkScript the coinbase
// transaction pays.
func resolvePayoutScript(client *rpc.Client, payAddress string, params *chaincfg.Params) ([]byte, error) {
	addrStr := payAddress
	if addrStr == "" {
		fresh, err := client.GetNewAddress()
		if err != nil {
			return nil, fmt.Errorf("main: get payout address: %w", err)
		}
		addrStr = fresh
	}

	addr, err := btcutil.DecodeAddress(addrStr, params)
	if err != nil {
		return nil, fmt.Errorf("main: decode payout address: %w", err)
	}

	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, fmt.Errorf("main: build payout script: %w", err)
	}
	return script, nil
}

func buildEngine(cfg *config.Config) (mining.Engine, func() error, error) {
	switch config.Backend(cfg.Backend) {
	case config.BackendGPU:
		gpu, err := mining.NewGPUEngine()
		if err != nil {
			return nil, nil, fmt.Errorf("main: acquire gpu engine: %w", err)
		}
		return gpu, func() error { return gpu.Close() }, nil

	default:
		return mining.NewCPUEngine(cfg.Workers), nil, nil
	}
}

func waitForSignal() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return sigCh
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	_ = http.ListenAndServe(addr, mux)
}
