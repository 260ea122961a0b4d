package repertoire

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/discochess/repertoire/internal/oracle"
	"github.com/discochess/repertoire/internal/oracle/cachedoracle"
	"github.com/discochess/repertoire/internal/stats"
	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/store/diskstore"
)

// Option configures a Client.
type Option interface {
	apply(*options)
}

// options holds the client configuration.
type options struct {
	oracle          oracle.Oracle
	oracleSet       bool
	startFEN        string
	store           store.Store
	stats           stats.Collector
	logger          *zap.Logger
	parallelism     int
	oracleCacheSize int
	corpusCacheSize int
}

// DefaultCorpusCacheSize is the number of parsed corpora kept in memory.
const DefaultCorpusCacheSize = 8

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:           stats.NewNoop(),
		logger:          zap.NewNop(),
		parallelism:     1,
		oracleCacheSize: cachedoracle.DefaultSize,
		corpusCacheSize: DefaultCorpusCacheSize,
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithOracle sets the legal-move oracle.
// If not set, standard chess rules in SAN are used.
func WithOracle(o Oracle) Option {
	return optionFunc(func(opts *options) {
		opts.oracle = o
		opts.oracleSet = true
	})
}

// WithStartFEN makes the default chess oracle replay histories from fen
// instead of the initial position. It has no effect with WithOracle.
func WithStartFEN(fen string) Option {
	return optionFunc(func(o *options) {
		o.startFEN = fen
	})
}

// WithStore sets the storage backend LoadCorpus reads from.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithParallelism evaluates the root's subtrees on up to n goroutines in
// CountPositions and WinningStatistics. Results are identical to a
// sequential run. Default is 1.
func WithParallelism(n int) Option {
	return optionFunc(func(o *options) {
		o.parallelism = n
	})
}

// WithOracleCacheSize sets how many oracle answers are memoised.
// Zero disables the cache. Default is 4096.
func WithOracleCacheSize(n int) Option {
	return optionFunc(func(o *options) {
		o.oracleCacheSize = n
	})
}

// WithCorpusCacheSize sets how many parsed corpora LoadCorpus keeps.
// Zero disables the cache. Default is 8.
func WithCorpusCacheSize(n int) Option {
	return optionFunc(func(o *options) {
		o.corpusCacheSize = n
	})
}

// WithDataDir configures the client to load corpora from files in dir.
// Files ending in .zst or .gz are decompressed on load.
func WithDataDir(dir string) (Option, error) {
	st, err := diskstore.New(dir)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return WithStore(st), nil
}
