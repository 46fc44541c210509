// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/blackridge-labs/btcminer/block"
	"github.com/blackridge-labs/btcminer/cpuengine"
	"github.com/blackridge-labs/btcminer/header"
)

// CPUEngine adapts cpuengine.Engine to the Engine interface.
type CPUEngine struct {
	inner *cpuengine.Engine
}

// NewCPUEngine returns a CPUEngine with the given worker count. A count of
// zero selects runtime.NumCPU(), matching cpuengine.New.
func NewCPUEngine(workers int) *CPUEngine {
	eng := cpuengine.New()
	if workers > 0 {
		eng.Workers = workers
	}
	return &CPUEngine{inner: eng}
}

// Backend implements Engine.
func (c *CPUEngine) Backend() string { return "cpu" }

// Search implements Engine by delegating to the CPU worker pool and
// splicing the winning nonce into a copy of base.
func (c *CPUEngine) Search(base [header.Size]byte, target chainhash.Hash, nonceRange block.NonceRange) (SearchResult, error) {
	res := c.inner.Search(base, target, nonceRange)

	result := SearchResult{
		HashesDone: res.HashesDone,
		Elapsed:    res.Elapsed,
	}
	if res.Found {
		result.Found = true
		result.Header = base
		header.SpliceNonce(&result.Header, res.Nonce)
	}
	return result, nil
}
