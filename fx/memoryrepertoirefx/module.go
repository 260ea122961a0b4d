// Package memoryrepertoirefx provides an fx module for a repertoire client
// over an in-memory store. Useful for testing.
package memoryrepertoirefx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/repertoire"
	"github.com/discochess/repertoire/internal/stats"
	"github.com/discochess/repertoire/internal/stats/logger"
	"github.com/discochess/repertoire/internal/store/memstore"
)

// Module provides an in-memory repertoire client and its store.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memoryrepertoire",
	fx.Provide(
		newStatsCollector,
		memstore.New,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("repertoire.stats"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store
	Lifecycle fx.Lifecycle
}

func newClient(p Params) (*repertoire.Client, error) {
	client, err := repertoire.New(
		repertoire.WithStore(p.Store),
		repertoire.WithStats(p.Collector),
		repertoire.WithLogger(p.Logger.Named("repertoire")),
	)
	if err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
