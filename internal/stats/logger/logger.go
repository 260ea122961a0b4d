// Package logger provides a stats collector that writes metrics to a zap
// logger at debug level.
package logger

import (
	"go.uber.org/zap"

	"github.com/discochess/repertoire/internal/stats"
)

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// Collector implements stats.Collector by logging each update.
type Collector struct {
	logger *zap.Logger
}

// New creates a logging collector. A nil logger discards everything.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger}
}

func (c *Collector) IncCounter(name string, delta int64) {
	c.log("counter", name, zap.Int64("delta", delta))
}

func (c *Collector) SetGauge(name string, value int64) {
	c.log("gauge", name, zap.Int64("value", value))
}

func (c *Collector) ObserveHistogram(name string, value float64) {
	c.log("histogram", name, zap.Float64("value", value))
}

func (c *Collector) log(kind, name string, field zap.Field) {
	if ce := c.logger.Check(zap.DebugLevel, kind); ce != nil {
		ce.Write(zap.String("metric", name), field)
	}
}
