// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cpuengine is the CPU nonce-search back-end: it partitions a
// contiguous nonce range across a worker pool, each worker scanning its
// share of the range with a private header copy, and returns on the first
// qualifying nonce found by any worker.
package cpuengine

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/blackridge-labs/btcminer/block"
	"github.com/blackridge-labs/btcminer/header"
)

// pollInterval bounds how often a worker checks the shared found flag
// relative to how much hashing it does between checks, keeping the
// cancellation-check overhead under spec's 1% amortized budget.
const pollInterval = 1 << 14

// Engine scans the 32-bit nonce space for a header across a fixed-size
// worker pool.
type Engine struct {
	// Workers is the number of goroutines used per scan. Zero selects
	// runtime.NumCPU().
	Workers int
}

// New returns an Engine sized to host parallelism.
func New() *Engine {
	return &Engine{Workers: runtime.NumCPU()}
}

// Result reports the outcome of one Search call.
type Result struct {
	// Found is true if a qualifying nonce was located.
	Found bool
	// Nonce is the winning nonce, valid only if Found.
	Nonce uint32
	// HashesDone is the number of nonces visited across all workers —
	// exactly the size of the scanned range on a miss, and somewhere in
	// [1, range] on a hit depending on which workers had already started.
	HashesDone uint64
	// Elapsed is the wall-clock duration of the scan.
	Elapsed time.Duration
}

// Search partitions nonceRange across Workers goroutines. Each worker holds
// a private copy of base (the 80-byte header with the nonce bytes not yet
// meaningful), splices its candidate nonce, computes the double-SHA-256,
// and compares against target. The first qualifying nonce found by any
// worker is returned; ties are broken arbitrarily. On an empty range,
// Search returns immediately without hashing.
//
// Search does not mutate base, shared state other than the found-nonce
// cell and termination flag, or allocate inside the hot loop.
func (e *Engine) Search(base [header.Size]byte, target chainhash.Hash, nonceRange block.NonceRange) Result {
	start := time.Now()

	if nonceRange.Empty() {
		return Result{Elapsed: time.Since(start)}
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	total := nonceRange.Len()
	if uint64(workers) > total {
		workers = int(total)
	}

	var (
		found     atomic.Bool
		winner    atomic.Uint32
		completed atomic.Uint64
		wg        sync.WaitGroup
	)

	chunk := total / uint64(workers)
	remainder := total % uint64(workers)

	lo := uint64(nonceRange.Start)
	for i := 0; i < workers; i++ {
		size := chunk
		if uint64(i) < remainder {
			size++
		}
		hi := lo + size

		wg.Add(1)
		go func(lo, hi uint64) {
			defer wg.Done()
			searchRange(base, target, uint32(lo), uint32(hi), &found, &winner, &completed)
		}(lo, hi)

		lo = hi
	}

	wg.Wait()

	result := Result{
		HashesDone: completed.Load(),
		Elapsed:    time.Since(start),
	}
	if found.Load() {
		result.Found = true
		result.Nonce = winner.Load()
	}
	return result
}

// searchRange scans [lo, hi) with a private header copy, checking the
// shared found flag every pollInterval hashes.
func searchRange(base [header.Size]byte, target chainhash.Hash, lo, hi uint32, found *atomic.Bool, winner *atomic.Uint32, completed *atomic.Uint64) {
	buf := base
	var done uint64

	for n := lo; n < hi; n++ {
		if done%pollInterval == 0 && found.Load() {
			completed.Add(done)
			return
		}

		header.SpliceNonce(&buf, n)
		hash := header.Hash(buf)
		done++

		if header.LessThanTarget(hash, target) {
			if found.CompareAndSwap(false, true) {
				winner.Store(n)
			}
			completed.Add(done)
			return
		}
	}

	completed.Add(done)
}
