// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics exposes the miner's operational counters and gauges over
// Prometheus, the same way p2pool-go's internal/metrics package does for its
// pool daemon.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LocalHashRate is the rolling hashes-per-second estimate reported by
	// the active search engine's speed monitor.
	LocalHashRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "btcminer",
		Name:      "local_hashrate",
		Help:      "Estimated local hashrate in H/s.",
	})

	// TemplatesFetched counts successful getblocktemplate round-trips.
	TemplatesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "btcminer",
		Name:      "templates_fetched_total",
		Help:      "Total block templates fetched from the node.",
	})

	// TemplatePollErrors counts failed getblocktemplate round-trips.
	TemplatePollErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "btcminer",
		Name:      "template_poll_errors_total",
		Help:      "Total getblocktemplate errors encountered by the poller.",
	})

	// BlocksFound counts candidate blocks whose header hash satisfied the
	// target, regardless of whether the node later accepted the submission.
	BlocksFound = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "btcminer",
		Name:      "blocks_found_total",
		Help:      "Total candidate blocks found by the search engine.",
	})

	// BlockSubmissions tallies submitblock outcomes by result label
	// ("accepted" or "rejected").
	BlockSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btcminer",
		Name:      "block_submissions_total",
		Help:      "Block submission attempts by result.",
	}, []string{"result"})

	// SearchPasses counts completed engine passes (one per template/time
	// splice iteration of the Searching state).
	SearchPasses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btcminer",
		Name:      "search_passes_total",
		Help:      "Completed search-engine passes by backend.",
	}, []string{"backend"})
)

func init() {
	prometheus.MustRegister(
		LocalHashRate,
		TemplatesFetched,
		TemplatePollErrors,
		BlocksFound,
		BlockSubmissions,
		SearchPasses,
	)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
