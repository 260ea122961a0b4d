// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/repertoire/internal/stats"
)

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// help describes the metrics emitted by this module.
var help = map[string]string{
	stats.MetricGamesParsed:    "Games parsed from corpus text.",
	stats.MetricCorpusLoads:    "Corpora read from a store.",
	stats.MetricParseFailures:  "Corpus texts rejected by the parser.",
	stats.MetricSearches:       "Winning-statistics searches run.",
	stats.MetricSearchNodes:    "Move-sequence nodes scored by the search engine.",
	stats.MetricSearchDuration: "Wall time of winning-statistics searches.",
	stats.MetricCounts:         "Position counts run.",
	stats.MetricOracleCalls:    "Legal-move oracle invocations.",
	stats.MetricCacheHits:      "Cache lookups answered from memory.",
	stats.MetricCacheMisses:    "Cache lookups that fell through.",
	stats.MetricCacheSize:      "Entries currently cached.",
}

// Collector implements stats.Collector using Prometheus metrics.
// Metrics are created and registered on first use.
type Collector struct {
	registry prometheus.Registerer

	counters   *family[prometheus.Counter]
	gauges     *family[prometheus.Gauge]
	histograms *family[prometheus.Histogram]
}

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry: registry,
		counters: newFamily(func(name string) prometheus.Counter {
			return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: helpFor(name)})
		}),
		gauges: newFamily(func(name string) prometheus.Gauge {
			return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: helpFor(name)})
		}),
		histograms: newFamily(func(name string) prometheus.Histogram {
			return prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    name,
				Help:    helpFor(name),
				Buckets: prometheus.DefBuckets,
			})
		}),
	}
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	c.counters.get(c.registry, name).Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	c.gauges.get(c.registry, name).Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.histograms.get(c.registry, name).Observe(value)
}

func helpFor(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return name
}

// family lazily creates one metric of type M per name.
type family[M prometheus.Collector] struct {
	mu      sync.RWMutex
	metrics map[string]M
	create  func(name string) M
}

func newFamily[M prometheus.Collector](create func(string) M) *family[M] {
	return &family[M]{metrics: make(map[string]M), create: create}
}

func (f *family[M]) get(reg prometheus.Registerer, name string) M {
	f.mu.RLock()
	m, ok := f.metrics[name]
	f.mu.RUnlock()
	if ok {
		return m
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok = f.metrics[name]; ok {
		return m
	}

	m = f.create(name)
	if err := reg.Register(m); err != nil {
		// Reuse a metric registered by another collector on the same registry.
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(M); ok {
				m = existing
			}
		}
	}
	f.metrics[name] = m
	return m
}
