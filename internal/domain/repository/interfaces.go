package repository

import (
	"context"
	"time"

	"StockSentry/internal/domain/models"
)

// BarSource provides daily OHLCV history for a symbol. Implementations may
// sit in front of a broker API, a database, or a cache.
type BarSource interface {
	DailyBars(ctx context.Context, symbol string, lookback int) (models.PriceSeries, error)
}

// RowArchiver persists per-symbol evaluation rows for later analysis.
type RowArchiver interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBatch(ctx context.Context, rows []*models.SignalRow) error
	Health(ctx context.Context) error
	Close() error
}

// EventSink receives fired trigger events.
type EventSink interface {
	Publish(ctx context.Context, event *models.TriggerEvent) error
	PublishBatch(ctx context.Context, events []*models.TriggerEvent) error
	Close() error
}

// SeriesCache caches fetched price series keyed by symbol.
type SeriesCache interface {
	Get(ctx context.Context, symbol string) (models.PriceSeries, bool)
	Put(ctx context.Context, symbol string, series models.PriceSeries, ttl time.Duration)
}

// Metrics records operational metrics for a scan run.
type Metrics interface {
	RecordSymbolScanned(result string)
	RecordTriggerFired(kind, action string)
	RecordError(kind string)
	RecordScore(symbol, variant string, score float64)
	RecordLatency(op string, seconds float64)
}
