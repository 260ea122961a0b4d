// Package perft counts move paths over a legal-move oracle.
//
// The count is a path-multiplicity count: a position reached by two move
// orders is counted twice. No board state is ever compared.
package perft

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/discochess/repertoire/internal/oracle"
	"github.com/discochess/repertoire/internal/stats"
)

// Counter counts move paths from a history.
type Counter struct {
	oracle      oracle.Oracle
	parallelism int
	stats       stats.Collector
}

// Option configures a Counter.
type Option func(*Counter)

// WithParallelism evaluates the root's subtrees on up to n goroutines.
// Values below 2 keep the count sequential.
func WithParallelism(n int) Option {
	return func(c *Counter) { c.parallelism = n }
}

// WithStats sets the stats collector.
func WithStats(s stats.Collector) Option {
	return func(c *Counter) { c.stats = s }
}

// New creates a Counter over o.
func New(o oracle.Oracle, opts ...Option) *Counter {
	c := &Counter{
		oracle:      o,
		parallelism: 1,
		stats:       stats.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Count returns the number of move paths of length depth from history.
// A depth of 0 or 1 both report the number of legal moves from history.
// Oracle errors are returned unchanged.
func (c *Counter) Count(ctx context.Context, history []string, depth int) (int64, error) {
	var calls atomic.Int64
	defer func() {
		c.stats.IncCounter(stats.MetricCounts, 1)
		c.stats.IncCounter(stats.MetricOracleCalls, calls.Load())
	}()

	if c.parallelism < 2 || depth <= 1 {
		return c.count(ctx, withRoom(history, depth), depth, &calls)
	}
	return c.countParallel(ctx, history, depth, &calls)
}

func (c *Counter) count(ctx context.Context, path []string, depth int, calls *atomic.Int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	calls.Add(1)
	moves, err := c.oracle.MovesFrom(path)
	if err != nil {
		return 0, err
	}
	if depth <= 1 {
		return int64(len(moves)), nil
	}

	var total int64
	for _, m := range moves {
		path = append(path, m)
		n, err := c.count(ctx, path, depth-1, calls)
		path = path[:len(path)-1]
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (c *Counter) countParallel(ctx context.Context, history []string, depth int, calls *atomic.Int64) (int64, error) {
	calls.Add(1)
	moves, err := c.oracle.MovesFrom(history)
	if err != nil {
		return 0, err
	}

	counts := make([]int64, len(moves))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for i, m := range moves {
		g.Go(func() error {
			path := append(withRoom(history, depth), m)
			n, err := c.count(gctx, path, depth-1, calls)
			counts[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// withRoom copies history into a slice with capacity for depth more moves,
// so the recursion can push and pop without reallocating.
func withRoom(history []string, depth int) []string {
	if depth < 0 {
		depth = 0
	}
	path := make([]string, len(history), len(history)+depth)
	copy(path, history)
	return path
}
