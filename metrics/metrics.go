// Package metrics exposes Prometheus counters for cue phrase lookups and
// transition word research.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "semcue"

// Lookup results.
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultInvalid = "invalid"
)

// Metrics holds the collectors of one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	lookups   *prometheus.CounterVec
	research  *prometheus.CounterVec
	sentences prometheus.Histogram
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Cue phrase lookups by language and result.",
		}, []string{"language", "result"}),
		research: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "research_total",
			Help:      "Transition word research runs by language and rating.",
		}, []string{"language", "rating"}),
		sentences: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "research_sentences",
			Help:      "Sentences per researched document.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	m.registry.MustRegister(
		m.lookups,
		m.research,
		m.sentences,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveLookup counts one phrase lookup. Only hits keep their language
// label; misses and invalid codes come from callers and are counted under an
// empty one.
func (m *Metrics) ObserveLookup(language, result string) {
	if m == nil {
		return
	}
	if result != ResultHit {
		language = ""
	}
	m.lookups.WithLabelValues(language, result).Inc()
}

// ObserveResearch counts one research run and records its sentence count.
func (m *Metrics) ObserveResearch(language, rating string, sentences int) {
	if m == nil {
		return
	}
	m.research.WithLabelValues(language, rating).Inc()
	m.sentences.Observe(float64(sentences))
}
