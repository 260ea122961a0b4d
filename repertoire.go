// Package repertoire finds the opening lines that score best for White in
// a corpus of recorded chess games, and counts move paths perft-style.
//
// Example usage:
//
//	client, err := repertoire.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	corpus, err := client.ParseCorpus(pgnText)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := client.WinningStatistics(ctx, corpus, 2, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res)
package repertoire

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/discochess/repertoire/internal/match"
	"github.com/discochess/repertoire/internal/oracle"
	"github.com/discochess/repertoire/internal/oracle/cachedoracle"
	"github.com/discochess/repertoire/internal/oracle/chessoracle"
	"github.com/discochess/repertoire/internal/perft"
	"github.com/discochess/repertoire/internal/pgn"
	"github.com/discochess/repertoire/internal/record"
	"github.com/discochess/repertoire/internal/search"
	"github.com/discochess/repertoire/internal/stats"
	"github.com/discochess/repertoire/internal/store"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("repertoire: client closed")

	// ErrNoOracle indicates WithOracle was given a nil oracle.
	ErrNoOracle = errors.New("repertoire: no oracle provided")

	// ErrNoStore indicates LoadCorpus was called without a store.
	ErrNoStore = errors.New("repertoire: no store provided")

	// ErrNegativeDepth indicates a depth below zero.
	ErrNegativeDepth = errors.New("repertoire: negative depth")

	// ErrNegativeSampleSize indicates a minimum sample size below zero.
	ErrNegativeSampleSize = errors.New("repertoire: negative minimum sample size")

	// ErrCorpusNotFound indicates the store has no corpus of that name.
	ErrCorpusNotFound = errors.New("repertoire: corpus not found")
)

// Parse errors. Failures are reported as *ParseError wrapping one of these.
var (
	ErrMalformedBlockPairing = pgn.ErrMalformedBlockPairing
	ErrMalformedTagLine      = pgn.ErrMalformedTagLine
)

type (
	// Game is one parsed game: seven tags and 40 move slots.
	Game = record.Game

	// Corpus is an ordered, read-only sequence of games.
	Corpus = record.Corpus

	// ParseError locates a parse failure.
	ParseError = pgn.ParseError

	// Tally counts game outcomes.
	Tally = match.Tally

	// Oracle lists the legal moves after a move history.
	Oracle = oracle.Oracle

	// OracleFunc adapts a function to Oracle.
	OracleFunc = oracle.Func

	// CacheStats describes the oracle cache.
	CacheStats = cachedoracle.Stats
)

// Sentinel fills tag fields and move slots absent from the input.
const Sentinel = record.Sentinel

// Client answers corpus and move-tree queries.
// A Client is safe for concurrent use by multiple goroutines.
type Client struct {
	oracle  oracle.Oracle
	cache   *cachedoracle.Oracle
	counter *perft.Counter
	engine  *search.Engine
	store   store.Store
	corpora *lru.Cache[string, Corpus]
	loads   singleflight.Group
	stats   stats.Collector
	logger  *zap.Logger
	closed  atomic.Bool
}

// New creates a new Client with the given options.
// If no options are provided, sensible defaults are used.
func New(opts ...Option) (*Client, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	base := cfg.oracle
	if base == nil {
		if cfg.oracleSet {
			return nil, ErrNoOracle
		}
		var chessOpts []chessoracle.Option
		if cfg.startFEN != "" {
			chessOpts = append(chessOpts, chessoracle.WithStartFEN(cfg.startFEN))
		}
		co, err := chessoracle.New(chessOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating chess oracle: %w", err)
		}
		base = co
	}

	c := &Client{
		oracle: base,
		store:  cfg.store,
		stats:  cfg.stats,
		logger: cfg.logger,
	}

	if cfg.oracleCacheSize > 0 {
		cache, err := cachedoracle.New(base, cfg.oracleCacheSize, cfg.stats)
		if err != nil {
			return nil, fmt.Errorf("creating oracle cache: %w", err)
		}
		c.cache = cache
		c.oracle = cache
	}

	if cfg.corpusCacheSize > 0 {
		corpora, err := lru.New[string, Corpus](cfg.corpusCacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating corpus cache: %w", err)
		}
		c.corpora = corpora
	}

	c.counter = perft.New(c.oracle,
		perft.WithParallelism(cfg.parallelism),
		perft.WithStats(cfg.stats),
	)
	c.engine = search.New(c.oracle,
		search.WithParallelism(cfg.parallelism),
		search.WithStats(cfg.stats),
	)

	c.logger.Debug("client initialized",
		zap.Int("parallelism", cfg.parallelism),
		zap.Int("oracleCacheSize", cfg.oracleCacheSize),
		zap.Int("corpusCacheSize", cfg.corpusCacheSize),
		zap.Bool("customOracle", cfg.oracle != nil),
		zap.Bool("store", cfg.store != nil),
	)

	return c, nil
}

// ParseCorpus parses PGN-like text into a Corpus. Games are pairs of a tag
// block and a move block separated by blank lines. Missing tags and moves
// are filled with Sentinel; an unpaired block or a tag line without a value
// fails with a *ParseError.
func (c *Client) ParseCorpus(text string) (Corpus, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	corpus, err := pgn.ParseCorpus(text)
	if err != nil {
		c.stats.IncCounter(stats.MetricParseFailures, 1)
		return nil, err
	}
	c.stats.IncCounter(stats.MetricGamesParsed, int64(len(corpus)))
	return corpus, nil
}

// LoadCorpus reads the named corpus from the store and parses it.
// Parsed corpora are cached by name; concurrent loads of one name share a
// single read. Returns ErrCorpusNotFound if the store has no such corpus.
func (c *Client) LoadCorpus(ctx context.Context, name string) (Corpus, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if c.store == nil {
		return nil, ErrNoStore
	}
	if c.corpora != nil {
		if corpus, ok := c.corpora.Get(name); ok {
			return corpus, nil
		}
	}

	v, err, shared := c.loads.Do(name, func() (any, error) {
		return c.loadCorpus(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("corpus load shared", zap.String("name", name))
	}
	return v.(Corpus), nil
}

func (c *Client) loadCorpus(ctx context.Context, name string) (Corpus, error) {
	start := time.Now()
	c.stats.IncCounter(stats.MetricCorpusLoads, 1)

	data, err := c.store.ReadCorpus(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCorpusNotFound, name)
		}
		return nil, fmt.Errorf("reading corpus %s: %w", name, err)
	}

	corpus, err := c.ParseCorpus(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", name, err)
	}

	if c.corpora != nil {
		c.corpora.Add(name, corpus)
	}
	c.logger.Debug("corpus loaded",
		zap.String("name", name),
		zap.Int("bytes", len(data)),
		zap.Int("games", len(corpus)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return corpus, nil
}

// CountPositions returns the number of move paths of length depth after
// history. Transpositions are counted once per path. A depth of 0 or 1
// both return the number of legal moves after history.
func (c *Client) CountPositions(ctx context.Context, history []string, depth int) (int64, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	if depth < 0 {
		return 0, ErrNegativeDepth
	}

	start := time.Now()
	n, err := c.counter.Count(ctx, history, depth)
	if err != nil {
		return 0, err
	}

	c.logger.Debug("positions counted",
		zap.Strings("history", history),
		zap.Int("depth", depth),
		zap.Int64("paths", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return n, nil
}

// WinningStatistics searches every line of depth moves from the initial
// position and returns the one with the highest White win rate among
// lines followed by at least minSampleSize games. The first line in
// oracle order wins ties. If no line qualifies the zero Result is
// returned.
func (c *Client) WinningStatistics(ctx context.Context, corpus Corpus, depth, minSampleSize int) (Result, error) {
	return c.WinningStatisticsAfter(ctx, corpus, nil, depth, minSampleSize)
}

// WinningStatisticsAfter is WinningStatistics for the lines that continue
// prefix by depth further moves. Result.Moves includes prefix.
func (c *Client) WinningStatisticsAfter(ctx context.Context, corpus Corpus, prefix []string, depth, minSampleSize int) (Result, error) {
	if c.closed.Load() {
		return Result{}, ErrClosed
	}
	if depth < 0 {
		return Result{}, ErrNegativeDepth
	}
	if minSampleSize < 0 {
		return Result{}, ErrNegativeSampleSize
	}
	if len(prefix)+depth > record.MaxPlies {
		c.logger.Warn("search extends past recorded plies; deeper plies match every game",
			zap.Int("plies", len(prefix)+depth),
			zap.Int("maxPlies", record.MaxPlies),
		)
	}

	start := time.Now()
	res, err := c.engine.Best(ctx, corpus, prefix, depth, minSampleSize)
	if err != nil {
		return Result{}, err
	}

	c.logger.Debug("search finished",
		zap.Strings("prefix", prefix),
		zap.Int("depth", depth),
		zap.Int("minSampleSize", minSampleSize),
		zap.Strings("moves", res.Moves),
		zap.Int("sampleSize", res.SampleSize),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resultFromSearch(res), nil
}

// WinningStatisticsFor loads the named corpus and runs WinningStatistics
// over it.
func (c *Client) WinningStatisticsFor(ctx context.Context, name string, depth, minSampleSize int) (Result, error) {
	corpus, err := c.LoadCorpus(ctx, name)
	if err != nil {
		return Result{}, err
	}
	return c.WinningStatistics(ctx, corpus, depth, minSampleSize)
}

// GamesFollowing returns the games of corpus whose first len(moves) plies
// equal moves, in corpus order. Plies beyond the 40th are not compared.
func (c *Client) GamesFollowing(corpus Corpus, moves []string) []*Game {
	return match.GamesFollowing(corpus, moves)
}

// Tally counts the outcomes of the games following moves. Results other
// than "1-0" and "0-1" count as draws.
func (c *Client) Tally(corpus Corpus, moves []string) Tally {
	return match.OutcomeTally(match.GamesFollowing(corpus, moves))
}

// LegalMoves returns the oracle's moves after history.
func (c *Client) LegalMoves(history []string) ([]string, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return c.oracle.MovesFrom(history)
}

// OracleCacheStats returns statistics for the oracle cache. ok is false
// when the cache is disabled.
func (c *Client) OracleCacheStats() (s CacheStats, ok bool) {
	if c.cache == nil {
		return CacheStats{}, false
	}
	return c.cache.Stats(), true
}

// Store returns the storage backend used by this client, or nil.
func (c *Client) Store() store.Store {
	return c.store
}

// Close releases all resources associated with the client.
// After Close, the client should not be used.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if c.corpora != nil {
		c.corpora.Purge()
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			return fmt.Errorf("closing store: %w", err)
		}
	}
	return nil
}
