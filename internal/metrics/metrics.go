// Package metrics registers the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhooksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_webhooks_received_total",
		Help: "Voice platform webhook deliveries by event type.",
	}, []string{"type"})

	ExtractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "concierge_extraction_failures_total",
		Help: "Model-based extraction calls that failed and degraded to pattern-only.",
	})

	PersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "concierge_persistence_failures_total",
		Help: "Customer record writes that failed and need manual reconciliation.",
	})

	PromptPushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_prompt_pushes_total",
		Help: "Assistant prompt updates pushed to the voice platform by outcome.",
	}, []string{"outcome"})

	SweepRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "concierge_sweep_refreshes_total",
		Help: "Prompts refreshed by the background sweep.",
	})
)
