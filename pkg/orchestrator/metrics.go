package orchestrator

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the Prometheus instruments SPEC_FULL.md's ambient
// observability component (A6) requires: per-stage outcome counters and
// latency histograms, independent of a metrics backend's endpoint wiring
// (left to cmd/netfleet-rag).
type metrics struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    prometheus.Histogram
	llmFailuresTotal   *prometheus.CounterVec
	llmCallDuration    prometheus.Histogram
	llmTokensEstimated prometheus.Histogram
}

func newMetrics() *metrics {
	return &metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netfleet_rag",
			Name:      "orchestrator_requests_total",
			Help:      "Total orchestrator requests by resulting analysis type (or \"canceled\").",
		}, []string{"analysis_type"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "netfleet_rag",
			Name:      "orchestrator_request_duration_seconds",
			Help:      "End-to-end Execute() latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		llmFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netfleet_rag",
			Name:      "orchestrator_llm_failures_total",
			Help:      "LLM call failures by error kind, after recovery to a degraded response.",
		}, []string{"kind"}),
		llmCallDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "netfleet_rag",
			Name:      "orchestrator_llm_call_duration_seconds",
			Help:      "Latency of the underlying llm.Client.Chat call.",
			Buckets:   prometheus.DefBuckets,
		}),
		llmTokensEstimated: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "netfleet_rag",
			Name:      "orchestrator_llm_tokens_estimated",
			Help:      "Estimated prompt token count per LLM call, per the tiktoken cl100k_base encoding.",
			Buckets:   []float64{256, 512, 1024, 2048, 4096, 8192, 16384},
		}),
	}
}

// Collectors returns every instrument for registration against a
// prometheus.Registerer at startup.
func (m *metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.requestsTotal,
		m.requestDuration,
		m.llmFailuresTotal,
		m.llmCallDuration,
		m.llmTokensEstimated,
	}
}
