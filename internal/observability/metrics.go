package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus instruments used by the chatbot. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Turns          *prometheus.CounterVec
	FactsExtracted *prometheus.CounterVec
	ModelLatency   prometheus.Histogram
	PromptTokens   prometheus.Histogram
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Conversation turns by outcome.",
		}, []string{"outcome"}),
		FactsExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facts_extracted_total",
			Help:      "Facts extracted from user messages by type.",
		}, []string{"type"}),
		ModelLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_latency_ms",
			Help:      "Model client latency in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000},
		}),
		PromptTokens: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prompt_tokens",
			Help:      "Approximate prompt size in tokens.",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 8),
		}),
	}
}

func (m *Metrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveFact(factType string) {
	if m == nil {
		return
	}
	m.FactsExtracted.WithLabelValues(factType).Inc()
}

func (m *Metrics) ObserveModelLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.ModelLatency.Observe(float64(d.Milliseconds()))
}

func (m *Metrics) ObservePromptTokens(n int) {
	if m == nil {
		return
	}
	m.PromptTokens.Observe(float64(n))
}

func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
