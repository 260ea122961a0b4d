// Package repertoirefx provides an fx module for a store-backed repertoire client.
package repertoirefx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/repertoire"
	"github.com/discochess/repertoire/internal/stats"
	"github.com/discochess/repertoire/internal/stats/logger"
	"github.com/discochess/repertoire/internal/store/location"
)

// Config holds configuration for the repertoire client.
type Config struct {
	// Store locates the corpora: a directory, gs://bucket/prefix or
	// s3://bucket/prefix.
	Store string

	// OracleCacheSize is the number of oracle answers to memoise.
	// Default is 4096.
	OracleCacheSize int

	// CorpusCacheSize is the number of parsed corpora to keep.
	// Default is 8.
	CorpusCacheSize int

	// Parallelism bounds the goroutines used per search or count.
	// Default is 1.
	Parallelism int

	// StartFEN replaces the initial position, if set.
	StartFEN string
}

// Module provides a store-backed repertoire client.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("repertoire",
	fx.Provide(
		newStatsCollector,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("repertoire.stats"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *repertoire.Client
}

func newClient(p Params) (Result, error) {
	st, err := location.Open(context.Background(), p.Config.Store)
	if err != nil {
		return Result{}, fmt.Errorf("opening store: %w", err)
	}

	opts := []repertoire.Option{
		repertoire.WithStore(st),
		repertoire.WithStats(p.Collector),
		repertoire.WithLogger(p.Logger.Named("repertoire")),
	}
	if p.Config.OracleCacheSize > 0 {
		opts = append(opts, repertoire.WithOracleCacheSize(p.Config.OracleCacheSize))
	}
	if p.Config.CorpusCacheSize > 0 {
		opts = append(opts, repertoire.WithCorpusCacheSize(p.Config.CorpusCacheSize))
	}
	if p.Config.Parallelism > 0 {
		opts = append(opts, repertoire.WithParallelism(p.Config.Parallelism))
	}
	if p.Config.StartFEN != "" {
		opts = append(opts, repertoire.WithStartFEN(p.Config.StartFEN))
	}

	client, err := repertoire.New(opts...)
	if err != nil {
		st.Close()
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client}, nil
}
