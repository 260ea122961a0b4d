// Package search finds the opening line that maximises White's empirical
// win rate in a corpus.
//
// The engine walks the oracle's move tree to a fixed depth. Each frontier
// node is scored by the games that followed its line; a node backed by
// fewer than the minimum number of games is disqualified. Scores propagate
// upward by keeping the first child, in oracle order, with the strictly
// highest win rate.
package search

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/discochess/repertoire/internal/match"
	"github.com/discochess/repertoire/internal/oracle"
	"github.com/discochess/repertoire/internal/record"
	"github.com/discochess/repertoire/internal/stats"
)

// Result is the outcome of a search. The zero value is the disqualified
// result: probability 0, no moves, sample size 0.
type Result struct {
	// Moves is the winning line from the start of the game.
	Moves []string

	// WhiteWins is the number of games along Moves won by White.
	WhiteWins int

	// SampleSize is the number of games that followed Moves.
	SampleSize int

	// Qualified reports whether the line met the minimum sample size.
	// A search in which no line qualified returns the zero Result.
	Qualified bool
}

// Probability returns WhiteWins/SampleSize, or 0 when SampleSize is 0.
func (r Result) Probability() float64 {
	if r.SampleSize == 0 {
		return 0
	}
	return float64(r.WhiteWins) / float64(r.SampleSize)
}

// Beats reports whether r has a strictly higher probability than o.
// The comparison is exact; equal ratios never beat each other.
func (r Result) Beats(o Result) bool {
	if r.SampleSize == 0 || r.WhiteWins == 0 {
		return false
	}
	if o.SampleSize == 0 {
		return true
	}
	return int64(r.WhiteWins)*int64(o.SampleSize) > int64(o.WhiteWins)*int64(r.SampleSize)
}

// Engine runs searches over an oracle.
type Engine struct {
	oracle      oracle.Oracle
	parallelism int
	stats       stats.Collector
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallelism searches the root's subtrees on up to n goroutines.
// Values below 2 keep the search sequential. Results do not depend on n.
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

// WithStats sets the stats collector.
func WithStats(s stats.Collector) Option {
	return func(e *Engine) { e.stats = s }
}

// New creates an Engine over o.
func New(o oracle.Oracle, opts ...Option) *Engine {
	e := &Engine{
		oracle:      o,
		parallelism: 1,
		stats:       stats.NewNoop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// run holds the per-search state shared by all frames.
type run struct {
	minSampleSize int
	nodes         atomic.Int64
	calls         atomic.Int64
}

// Best returns the line of depth further moves after prefix with the
// highest White win rate among lines followed by at least minSampleSize
// games of corpus. Ties go to the line the oracle enumerates first. If no
// line qualifies the zero Result is returned, even though moves existed.
// Oracle errors are returned unchanged.
func (e *Engine) Best(ctx context.Context, corpus record.Corpus, prefix []string, depth, minSampleSize int) (Result, error) {
	start := time.Now()
	r := &run{minSampleSize: minSampleSize}
	defer func() {
		e.stats.IncCounter(stats.MetricSearches, 1)
		e.stats.IncCounter(stats.MetricSearchNodes, r.nodes.Load())
		e.stats.IncCounter(stats.MetricOracleCalls, r.calls.Load())
		e.stats.ObserveHistogram(stats.MetricSearchDuration, time.Since(start).Seconds())
	}()

	if depth < 0 {
		depth = 0
	}
	games := match.GamesFollowing(corpus, prefix)
	path := make([]string, len(prefix), len(prefix)+depth)
	copy(path, prefix)

	if e.parallelism < 2 || depth == 0 {
		return e.node(ctx, r, games, path, depth)
	}
	return e.rootParallel(ctx, r, games, path, depth)
}

// node scores path. games must be exactly the corpus games following path.
// path is extended in place and restored before returning.
func (e *Engine) node(ctx context.Context, r *run, games []*record.Game, path []string, depth int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	r.nodes.Add(1)

	if depth == 0 {
		return r.score(games, path), nil
	}

	moves, groups, err := e.expand(r, games, path)
	if err != nil {
		return Result{}, err
	}

	var best Result
	for _, m := range moves {
		path = append(path, m)
		cand, err := e.node(ctx, r, groups(m), path, depth-1)
		path = path[:len(path)-1]
		if err != nil {
			return Result{}, err
		}
		if cand.Beats(best) {
			best = cand
		}
	}
	return best, nil
}

// rootParallel evaluates the children of path concurrently and folds them
// in oracle order once all have finished.
func (e *Engine) rootParallel(ctx context.Context, r *run, games []*record.Game, path []string, depth int) (Result, error) {
	r.nodes.Add(1)
	moves, groups, err := e.expand(r, games, path)
	if err != nil {
		return Result{}, err
	}

	results := make([]Result, len(moves))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, m := range moves {
		child := groups(m)
		g.Go(func() error {
			p := make([]string, len(path), len(path)+depth)
			copy(p, path)
			res, err := e.node(gctx, r, child, append(p, m), depth-1)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var best Result
	for _, cand := range results {
		if cand.Beats(best) {
			best = cand
		}
	}
	return best, nil
}

// expand asks the oracle for the moves after path and returns a lookup of
// the games following each child line.
func (e *Engine) expand(r *run, games []*record.Game, path []string) ([]string, func(string) []*record.Game, error) {
	r.calls.Add(1)
	moves, err := e.oracle.MovesFrom(path)
	if err != nil {
		return nil, nil, err
	}

	ply := len(path) + 1
	if ply > record.MaxPlies {
		return moves, func(string) []*record.Game { return games }, nil
	}
	groups := match.Partition(games, ply)
	return moves, func(m string) []*record.Game { return groups[m] }, nil
}

// score evaluates a frontier node.
func (r *run) score(games []*record.Game, path []string) Result {
	t := match.OutcomeTally(games)
	if t.Total() < r.minSampleSize {
		return Result{}
	}
	return Result{
		Moves:      slices.Clone(path),
		WhiteWins:  t.WhiteWins,
		SampleSize: t.Total(),
		Qualified:  true,
	}
}
