// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/blackridge-labs/btcminer/block"
	"github.com/blackridge-labs/btcminer/gpuengine"
	"github.com/blackridge-labs/btcminer/header"
)

// gpuSpace is the size of the nonce space one GPU dispatch tiles, used only
// to report a HashesDone estimate to the hash-rate monitor.
const gpuSpace = uint64(1) << 32

// GPUEngine adapts gpuengine.Device to the Engine interface. It ignores
// nonceRange: every dispatch tiles the full 32-bit space, per
// SPEC_FULL.md §4.5.
type GPUEngine struct {
	dev *gpuengine.Device
}

// NewGPUEngine acquires a GPU device. Construction failure is fatal to the
// caller per SPEC_FULL.md §7.
func NewGPUEngine() (*GPUEngine, error) {
	dev, err := gpuengine.New()
	if err != nil {
		return nil, err
	}
	return &GPUEngine{dev: dev}, nil
}

// Close releases the underlying device.
func (g *GPUEngine) Close() error {
	return g.dev.Close()
}

// Backend implements Engine.
func (g *GPUEngine) Backend() string { return "gpu" }

// Search implements Engine by running one GPU dispatch. The device reports
// an all-zero header to mean "no qualifying nonce in this dispatch".
func (g *GPUEngine) Search(base [header.Size]byte, target chainhash.Hash, _ block.NonceRange) (SearchResult, error) {
	start := time.Now()

	out, err := g.dev.Process(base, target)
	if err != nil {
		return SearchResult{}, err
	}

	result := SearchResult{
		HashesDone: gpuSpace,
		Elapsed:    time.Since(start),
	}

	var zero [header.Size]byte
	if out != zero {
		result.Found = true
		result.Header = out
	}
	return result, nil
}
