// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/blackridge-labs/btcminer/block"
	"github.com/blackridge-labs/btcminer/header"
)

// SearchResult is the backend-agnostic outcome of one Engine pass.
type SearchResult struct {
	// Found is true if a qualifying nonce was located during the pass.
	Found bool
	// Header is the winning 80-byte header, valid only if Found.
	Header [header.Size]byte
	// HashesDone is the number of nonces the pass visited, for the hash
	// rate monitor.
	HashesDone uint64
	// Elapsed is the wall-clock duration of the pass.
	Elapsed time.Duration
}

// Engine is the search back-end seam the mining loop drives: one narrow
// interface the CPU and GPU engines both satisfy, so the orchestrator never
// type-switches on backend (the Go equivalent of the teacher's MobileMiner
// interface in mining/randomx/miner.go, which lets RandomXMiner stay
// agnostic to whether a mobile co-processor is present).
type Engine interface {
	// Backend names the engine for logging and metrics labels ("cpu" or
	// "gpu").
	Backend() string

	// Search runs exactly one bounded pass over base against target,
	// restricted to nonceRange where the backend honors ranges (the CPU
	// engine does; the GPU engine always tiles the full 32-bit space in a
	// single dispatch, per SPEC_FULL.md §4.5). It never blocks
	// indefinitely.
	Search(base [header.Size]byte, target chainhash.Hash, nonceRange block.NonceRange) (SearchResult, error)
}
