// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package poller keeps the mining loop supplied with fresh templates by
// long-polling getblocktemplate in the background and delivering them
// through a single-slot mailbox with at-most-latest semantics.
package poller

import (
	"time"

	"github.com/btcsuite/btclog"

	"github.com/blackridge-labs/btcminer/block"
	"github.com/blackridge-labs/btcminer/metrics"
)

// log is disabled by default until UseLogger is called, matching the
// package-local logger idiom the rest of this module uses throughout
// (mirrored from the teacher's mining/randomx package).
var log = btclog.Disabled

// UseLogger directs package output to logger.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// TemplateFetcher issues a getblocktemplate RPC call, long-polling against
// pollID when non-empty. It is satisfied by the rpc.Client.
type TemplateFetcher interface {
	GetBlockTemplate(pollID string) (*block.Template, error)
}

// backoff is how long the poller waits after a transport error before
// retrying, without updating the stored long-poll id.
const backoff = 2 * time.Second

// Poller long-polls template updates and forwards them on Templates().
type Poller struct {
	fetcher TemplateFetcher
	mailbox chan *block.Template
	quit    chan struct{}
}

// New returns a Poller that fetches templates through fetcher. The starting
// long-poll id is passed to Run.
func New(fetcher TemplateFetcher) *Poller {
	return &Poller{
		fetcher: fetcher,
		// Capacity 1: a single-slot mailbox. Run drains any stale value
		// before sending a fresh one, so the consumer always observes
		// at-most the latest template and never builds a backlog.
		mailbox: make(chan *block.Template, 1),
		quit:    make(chan struct{}),
	}
}

// Templates returns the channel fresh templates are delivered on. The
// mining loop must use a non-blocking receive (select with default) so it
// never blocks on the poller.
func (p *Poller) Templates() <-chan *block.Template {
	return p.mailbox
}

// Stop signals the poller's background loop to exit. It does not block.
func (p *Poller) Stop() {
	close(p.quit)
}

// Run issues long-polling getblocktemplate requests starting from pollID,
// forwarding each fresh template to Templates() and updating the stored
// long-poll id from the response. On a transport error it backs off
// briefly and retries without updating the id. Run must be started as a
// goroutine; it returns when Stop is called.
func (p *Poller) Run(pollID string) {
	for {
		select {
		case <-p.quit:
			return
		default:
		}

		tmpl, err := p.fetcher.GetBlockTemplate(pollID)
		if err != nil {
			metrics.TemplatePollErrors.Inc()
			log.Warnf("template poll failed: %v", err)
			select {
			case <-time.After(backoff):
			case <-p.quit:
				return
			}
			continue
		}
		metrics.TemplatesFetched.Inc()

		pollID = tmpl.LongPollID
		p.send(tmpl)
	}
}

// send overwrites the single-slot mailbox with tmpl, dropping any
// previously queued, unconsumed template in favor of the newer one.
func (p *Poller) send(tmpl *block.Template) {
	select {
	case <-p.mailbox:
	default:
	}
	select {
	case p.mailbox <- tmpl:
	case <-p.quit:
	}
}
