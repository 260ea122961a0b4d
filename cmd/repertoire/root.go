package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/repertoire"
	"github.com/discochess/repertoire/internal/stats"
	"github.com/discochess/repertoire/internal/stats/logger"
	promstats "github.com/discochess/repertoire/internal/stats/prometheus"
	"github.com/discochess/repertoire/internal/store/location"
)

var (
	// Global flags.
	dataDir     string
	verbose     bool
	parallelism int
	startFEN    string
	showMetrics bool

	log      = zap.NewNop()
	registry *prometheus.Registry
)

var rootCmd = &cobra.Command{
	Use:   "repertoire",
	Short: "Find the opening lines that win most often for White",
	Long: `Repertoire searches the move tree of a chess game corpus for the line
with the highest White win rate, and counts move paths perft-style.

Corpora are PGN files (optionally .zst or .gz compressed) in the data
directory, or objects under gs://bucket/prefix or s3://bucket/prefix.

Examples:
  # Download a month of Lichess games
  repertoire fetch --month 2013-01

  # Best two-move line played in at least 100 games
  repertoire best lichess_db_standard_rated_2013-01.pgn.zst --depth 2 --min-games 100

  # Count move paths three plies deep after 1. e4
  repertoire count --depth 3 e4`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer log.Sync()
		if registry == nil {
			return nil
		}
		return writeMetrics(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "./data", "corpus location: directory, gs://bucket/prefix or s3://bucket/prefix")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().IntVarP(&parallelism, "parallel", "p", 1, "goroutines per search or count")
	rootCmd.PersistentFlags().StringVar(&startFEN, "fen", "", "start from this position instead of the initial one")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print Prometheus metrics after the command")
}

// signalContext returns a context canceled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// statsCollector picks the collector for the global flags.
func statsCollector() stats.Collector {
	switch {
	case showMetrics:
		registry = prometheus.NewRegistry()
		return promstats.New(registry)
	case verbose:
		return logger.New(log.Named("stats"))
	default:
		return stats.NewNoop()
	}
}

// newClient builds a client from the global flags. withStore opens the
// corpus location as well.
func newClient(ctx context.Context, withStore bool) (*repertoire.Client, error) {
	opts := []repertoire.Option{
		repertoire.WithLogger(log.Named("repertoire")),
		repertoire.WithStats(statsCollector()),
		repertoire.WithParallelism(parallelism),
	}
	if startFEN != "" {
		opts = append(opts, repertoire.WithStartFEN(startFEN))
	}
	if withStore {
		st, err := location.Open(ctx, dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", dataDir, err)
		}
		opts = append(opts, repertoire.WithStore(st))
	}

	client, err := repertoire.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

func writeMetrics(cmd *cobra.Command) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	out := cmd.ErrOrStderr()
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
