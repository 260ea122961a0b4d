// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Corpus metrics.
	MetricGamesParsed   = "repertoire_games_parsed_total"
	MetricCorpusLoads   = "repertoire_corpus_loads_total"
	MetricParseFailures = "repertoire_parse_failures_total"

	// Search and count metrics.
	MetricSearches       = "repertoire_searches_total"
	MetricSearchNodes    = "repertoire_search_nodes_total"
	MetricSearchDuration = "repertoire_search_duration_seconds"
	MetricCounts         = "repertoire_counts_total"
	MetricOracleCalls    = "repertoire_oracle_calls_total"

	// Cache metrics.
	MetricCacheHits   = "repertoire_cache_hits_total"
	MetricCacheMisses = "repertoire_cache_misses_total"
	MetricCacheSize   = "repertoire_cache_size"
)

// Collector defines the interface for collecting metrics.
// Implementations must be safe for concurrent use.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
