// Package cachedoracle memoises an oracle.Oracle in an LRU cache.
package cachedoracle

import (
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discochess/repertoire/internal/oracle"
	"github.com/discochess/repertoire/internal/stats"
)

// DefaultSize is the number of histories cached when no size is given.
const DefaultSize = 4096

// Compile-time check that Oracle implements oracle.Oracle.
var _ oracle.Oracle = (*Oracle)(nil)

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Oracle wraps another oracle with an LRU cache keyed by history.
// Errors are never cached. Safe for concurrent use.
type Oracle struct {
	underlying oracle.Oracle
	cache      *lru.Cache[string, []string]
	collector  stats.Collector

	hits   atomic.Int64
	misses atomic.Int64
}

// New wraps underlying with a cache of the given size. A size <= 0 uses
// DefaultSize. The collector is optional.
func New(underlying oracle.Oracle, size int, collector stats.Collector) (*Oracle, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if collector == nil {
		collector = stats.NewNoop()
	}
	c, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}
	return &Oracle{
		underlying: underlying,
		cache:      c,
		collector:  collector,
	}, nil
}

// MovesFrom returns the cached answer for history, consulting the
// underlying oracle on a miss.
func (o *Oracle) MovesFrom(history []string) ([]string, error) {
	key := strings.Join(history, " ")
	if moves, ok := o.cache.Get(key); ok {
		o.hits.Add(1)
		o.collector.IncCounter(stats.MetricCacheHits, 1)
		return moves, nil
	}
	o.misses.Add(1)
	o.collector.IncCounter(stats.MetricCacheMisses, 1)

	moves, err := o.underlying.MovesFrom(history)
	if err != nil {
		return nil, err
	}
	o.cache.Add(key, moves)
	o.collector.SetGauge(stats.MetricCacheSize, int64(o.cache.Len()))
	return moves, nil
}

// Stats returns current cache statistics.
func (o *Oracle) Stats() Stats {
	return Stats{
		Hits:   o.hits.Load(),
		Misses: o.misses.Load(),
		Size:   o.cache.Len(),
	}
}
