// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mining is the orchestrator: it owns the current template, drives
// the chosen search Engine, listens for fresher templates from the
// poller, submits winning blocks, and restarts with the next template. The
// state machine (Fetching, Searching, Submitting) and its transitions
// follow SPEC_FULL.md §4.7 exactly; the worker-pool and speed-monitor
// shapes are carried over from the teacher's mining/randomx package.
package mining

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btclog"

	"github.com/blackridge-labs/btcminer/assemble"
	"github.com/blackridge-labs/btcminer/block"
	"github.com/blackridge-labs/btcminer/header"
	"github.com/blackridge-labs/btcminer/metrics"
	"github.com/blackridge-labs/btcminer/poller"
	"github.com/blackridge-labs/btcminer/rpc"
)

// log is disabled by default until UseLogger is called.
var log = btclog.Disabled

// UseLogger directs package output to logger.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// hpsUpdateSecs mirrors the teacher's speed-monitor cadence: how often the
// rolling hashes-per-second figure is recomputed and reported.
const hpsUpdateSecs = 10

// Client is the subset of rpc.Client the mining loop needs: fetching
// templates (directly, and via the poller) and submitting solved blocks.
type Client interface {
	poller.TemplateFetcher
	SubmitBlock(candidate *assemble.CandidateBlock) error
}

// Miner drives the Fetching/Searching/Submitting state machine described
// in SPEC_FULL.md §4.7 against one Engine backend.
type Miner struct {
	client       Client
	engine       Engine
	payoutScript []byte

	updateHashes chan uint64
	quit         chan struct{}
	fatalErr     chan error
	wg           sync.WaitGroup

	mu      sync.Mutex
	started bool
}

// New returns a Miner that pays out to payoutScript using engine as its
// search back-end.
func New(client Client, engine Engine, payoutScript []byte) *Miner {
	return &Miner{
		client:       client,
		engine:       engine,
		payoutScript: payoutScript,
		updateHashes: make(chan uint64),
		fatalErr:     make(chan error, 1),
	}
}

// Err returns a channel that receives exactly one value if the mining loop
// terminates on its own due to a fatal error (per SPEC_FULL.md §7:
// TransportError/RpcError/DecodeError fetching a template, AssembleError, or
// a GpuError during a dispatch). It stays empty for a clean Stop. The
// caller (normally the process entrypoint) is expected to treat a value
// here as cause to exit non-zero.
func (m *Miner) Err() <-chan error {
	return m.fatalErr
}

// Start launches the mining loop and its speed monitor. Calling Start while
// already running has no effect. Start does not block; call Stop to halt.
func (m *Miner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}

	m.quit = make(chan struct{})
	m.wg.Add(2)
	go m.speedMonitor()
	go m.run()

	m.started = true
	log.Infof("mining loop started (backend=%s)", m.engine.Backend())
}

// Stop signals the loop and speed monitor to exit and blocks until they
// have. Calling Stop when not running has no effect.
func (m *Miner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return
	}

	close(m.quit)
	m.wg.Wait()
	m.started = false
	log.Infof("mining loop stopped")
}

// speedMonitor aggregates HashesDone samples pushed by run into a rolling
// hashes-per-second figure, mirroring the teacher's dedicated rate
// aggregator goroutine decoupled from the search workers themselves.
func (m *Miner) speedMonitor() {
	defer m.wg.Done()

	var totalHashes uint64
	ticker := time.NewTicker(hpsUpdateSecs * time.Second)
	defer ticker.Stop()

	for {
		select {
		case n := <-m.updateHashes:
			totalHashes += n

		case <-ticker.C:
			rate := float64(totalHashes) / hpsUpdateSecs
			metrics.LocalHashRate.Set(rate)
			log.Infof("hash rate: %.0f H/s", rate)
			totalHashes = 0

		case <-m.quit:
			return
		}
	}
}

// run is the Fetching/Searching/Submitting state machine. Per
// SPEC_FULL.md §7 a TransportError/RpcError/DecodeError fetching a
// template, an AssembleError, or a GpuError during a dispatch is fatal:
// run reports it on fatalErr and returns. A clean Stop (quit closed)
// returns with nothing sent on fatalErr.
func (m *Miner) run() {
	defer m.wg.Done()

	if err := m.runLoop(); err != nil {
		select {
		case m.fatalErr <- err:
		default:
		}
	}
}

func (m *Miner) runLoop() error {
	pollID := ""
	p := poller.New(m.client)
	defer p.Stop()

	var pollerStarted bool

	for {
		select {
		case <-m.quit:
			return nil
		default:
		}

		// Fetching: obtain a template directly with a fresh (non-long-poll)
		// getblocktemplate call. The poller is started once, from the first
		// template's long-poll id; its mailbox is only ever read
		// non-blockingly, between search passes.
		tmpl, err := m.client.GetBlockTemplate("")
		if err != nil {
			metrics.TemplatePollErrors.Inc()
			return fmt.Errorf("mining: getblocktemplate: %w", err)
		}
		metrics.TemplatesFetched.Inc()
		if !pollerStarted {
			pollID = tmpl.LongPollID
			go p.Run(pollID)
			pollerStarted = true
		}

		candidate, err := assemble.Assemble(tmpl, m.payoutScript)
		if err != nil {
			return fmt.Errorf("mining: assemble: %w", err)
		}
		base := candidate.Header.Encode()

		found, err := m.searchUntilFreshOrHit(p, tmpl, candidate, &base)
		if err != nil {
			return err
		}
		if found == nil {
			return nil
		}

		// Submitting: encode and submit; a rejection is logged but never
		// halts the loop.
		if err := m.client.SubmitBlock(found); err != nil {
			var rejected *rpc.SubmitRejectedError
			if errors.As(err, &rejected) {
				log.Warnf("submitblock rejected: %v", err)
			} else {
				log.Errorf("submitblock error: %v", err)
			}
			metrics.BlockSubmissions.WithLabelValues("rejected").Inc()
		} else {
			log.Infof("block submitted: %s", header.Hash(found.Header.Encode()))
			metrics.BlockSubmissions.WithLabelValues("accepted").Inc()
		}
		metrics.BlocksFound.Inc()
	}
}

// searchUntilFreshOrHit repeatedly runs one engine pass, advancing the
// header timestamp and re-splicing between passes, replacing the candidate
// whenever a fresher template arrives via try_recv. It returns the winning
// candidate, or (nil, nil) if the loop was asked to quit. An engine error
// (e.g. a GpuError during a dispatch) is fatal per SPEC_FULL.md §7 and is
// returned for runLoop to report on fatalErr.
func (m *Miner) searchUntilFreshOrHit(p *poller.Poller, tmpl *block.Template, candidate *assemble.CandidateBlock, base *[header.Size]byte) (*assemble.CandidateBlock, error) {
	for {
		select {
		case <-m.quit:
			return nil, nil
		default:
		}

		result, err := m.engine.Search(*base, tmpl.Target, tmpl.NonceRange)
		if err != nil {
			return nil, fmt.Errorf("mining: %s search: %w", m.engine.Backend(), err)
		}
		metrics.SearchPasses.WithLabelValues(m.engine.Backend()).Inc()

		select {
		case m.updateHashes <- result.HashesDone:
		case <-m.quit:
			return nil, nil
		default:
		}

		if result.Found {
			won := header.Decode(result.Header)
			candidate.Header = won
			return candidate, nil
		}

		candidate.Header.Time++
		header.SpliceTime(base, candidate.Header.Time)

		select {
		case fresh := <-p.Templates():
			tmpl = fresh
			newCandidate, err := assemble.Assemble(tmpl, m.payoutScript)
			if err != nil {
				return nil, fmt.Errorf("mining: assemble: %w", err)
			}
			*candidate = *newCandidate
			*base = candidate.Header.Encode()
		default:
		}
	}
}
