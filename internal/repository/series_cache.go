package repository

import (
	"context"
	"errors"
	"time"

	"StockSentry/internal/domain/models"
	domrepo "StockSentry/internal/domain/repository"
	"StockSentry/pkg/cache"
	applogger "StockSentry/pkg/logger"
)

// CachedSeries implements SeriesCache on top of pkg/cache. A miss and a
// cache error look the same to callers; errors are only logged.
type CachedSeries struct {
	svc cache.Service
	l   *applogger.Logger
}

var _ domrepo.SeriesCache = (*CachedSeries)(nil)

func NewCachedSeries(svc cache.Service, l *applogger.Logger) *CachedSeries {
	return &CachedSeries{svc: svc, l: l}
}

func (c *CachedSeries) Get(ctx context.Context, symbol string) (models.PriceSeries, bool) {
	var series models.PriceSeries
	err := c.svc.Get(ctx, cache.Key("bars", symbol), &series)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) && c.l != nil {
			c.l.Warn("series cache get failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, false
	}
	if len(series) == 0 {
		return nil, false
	}
	return series, true
}

func (c *CachedSeries) Put(ctx context.Context, symbol string, series models.PriceSeries, ttl time.Duration) {
	if len(series) == 0 {
		return
	}
	if err := c.svc.Set(ctx, cache.Key("bars", symbol), series, ttl); err != nil && c.l != nil {
		c.l.Warn("series cache put failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
}

// CachingBarSource wraps a BarSource with a read-through series cache.
type CachingBarSource struct {
	inner domrepo.BarSource
	cache domrepo.SeriesCache
	ttl   time.Duration
}

var _ domrepo.BarSource = (*CachingBarSource)(nil)

func NewCachingBarSource(inner domrepo.BarSource, c domrepo.SeriesCache, ttl time.Duration) *CachingBarSource {
	return &CachingBarSource{inner: inner, cache: c, ttl: ttl}
}

func (s *CachingBarSource) DailyBars(ctx context.Context, symbol string, lookback int) (models.PriceSeries, error) {
	if series, ok := s.cache.Get(ctx, symbol); ok && len(series) >= lookback {
		return series, nil
	}
	series, err := s.inner.DailyBars(ctx, symbol, lookback)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, symbol, series, s.ttl)
	return series, nil
}
